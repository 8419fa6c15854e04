// Copyright (C) 2024-2025 The minahash Authors
// This file is part of minahash
//
// minahash is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// minahash is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with minahash.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mina-go/minahash/config"
	"github.com/mina-go/minahash/data/hashes"
	"github.com/mina-go/minahash/logging"
)

// globals holds the flags shared by every command and the state derived
// from them before a command runs.
type globals struct {
	dataDir      string
	logFile      string
	logLevel     string
	logJSON      bool
	versionCheck bool

	log       logging.Logger
	cfg       config.Local
	logWriter io.Closer
}

func newRootCmd(log logging.Logger) *cobra.Command {
	g := &globals{log: log}

	rootCmd := &cobra.Command{
		Use:          "minahash",
		Short:        "Inspect and convert Mina protocol hashes and ledger roots",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if g.logWriter != nil {
				g.log.SetOutput(os.Stderr)
				return g.logWriter.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.versionCheck {
				fmt.Fprintln(cmd.OutOrStdout(), config.FormatVersionAndLicense())
				return nil
			}
			// If no arguments passed, we should fallback to help
			cmd.HelpFunc()(cmd, args)
			return nil
		},
	}

	rootCmd.Flags().BoolVarP(&g.versionCheck, "version", "v", false, "Display current build version and exit")
	rootCmd.PersistentFlags().StringVarP(&g.dataDir, "datadir", "d", os.Getenv("MINAHASH_DATA"), "Directory holding "+config.ConfigFilename+" and "+config.ConfigurableConsensusProtocolsFilename)
	rootCmd.PersistentFlags().StringVar(&g.logFile, "logfile", "", "Write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "loglevel", "", "Override the configured log level (panic, fatal, error, warn, info, debug)")
	rootCmd.PersistentFlags().BoolVar(&g.logJSON, "log-json", false, "Write log entries as JSON")

	rootCmd.AddCommand(newKindsCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newEncodeCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newRootHashCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	return rootCmd
}

// setup loads the configuration and points the logger at it. Failures are
// logged before they are returned.
func (g *globals) setup() error {
	if g.logJSON {
		g.log.SetJSONFormatter()
	}
	if err := g.loadConfig(); err != nil {
		g.log.Errorf("cannot load configuration: %v", err)
		return err
	}

	level := logging.Level(g.cfg.BaseLoggerDebugLevel)
	if g.logLevel != "" {
		var err error
		if level, err = logging.ParseLevel(g.logLevel); err != nil {
			g.log.Errorf("--loglevel: %v", err)
			return err
		}
	}
	g.log.SetLevel(level)

	if g.logFile != "" {
		archive := filepath.Join(filepath.Dir(g.logFile), g.cfg.LogArchiveName)
		w, err := logging.MakeCyclicFileWriter(g.logFile, archive, g.cfg.LogSizeLimit)
		if err != nil {
			g.log.Errorf("cannot open log file %s: %v", g.logFile, err)
			return err
		}
		g.log.SetOutput(w)
		g.logWriter = w
		// flush the log file when a Fatalf exits the process
		logging.RegisterExitHandler(func() { w.Close() })
	}
	return nil
}

func (g *globals) loadConfig() error {
	g.cfg = config.GetDefaultLocal()
	if g.dataDir == "" {
		return nil
	}
	cfg, err := config.LoadConfigFromDisk(g.dataDir)
	switch {
	case err == nil:
		g.cfg = cfg
	case errors.Is(err, fs.ErrNotExist):
		// no config file; keep the defaults
	default:
		return fmt.Errorf("cannot load config from %s: %w", g.dataDir, err)
	}
	if err = config.LoadConfigurableConsensusProtocols(g.dataDir); err != nil {
		return fmt.Errorf("cannot load consensus overrides from %s: %w", g.dataDir, err)
	}
	return nil
}

func kindByName(name string) (hashes.Kind, error) {
	k, ok := hashes.KindByName(name)
	if !ok {
		names := make([]string, 0, len(hashes.Kinds()))
		for _, k := range hashes.Kinds() {
			names = append(names, k.String())
		}
		return 0, fmt.Errorf("unknown kind %q (known: %s)", name, strings.Join(names, ", "))
	}
	return k, nil
}

// readInput returns arg, or standard input when arg is "-".
func readInput(cmd *cobra.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
