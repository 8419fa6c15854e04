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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mina-go/minahash/config"
)

func newConfigCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration files of a data directory",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigInitCmd(g))
	return cmd
}

func newConfigInitCmd(g *globals) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings and consensus table into --datadir",
		Long: `Write ` + config.ConfigFilename + ` with the current config version and
` + config.ConfigurableConsensusProtocolsFilename + ` with every known consensus version, ready to be edited.
Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.dataDir == "" {
				return errors.New("config init needs --datadir")
			}
			cfgPath := filepath.Join(g.dataDir, config.ConfigFilename)
			consensusPath := filepath.Join(g.dataDir, config.ConfigurableConsensusProtocolsFilename)
			if !force {
				for _, path := range []string{cfgPath, consensusPath} {
					if _, err := os.Stat(path); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", path)
					} else if !errors.Is(err, fs.ErrNotExist) {
						return err
					}
				}
			}

			if err := os.MkdirAll(g.dataDir, 0755); err != nil {
				return err
			}
			if err := config.GetDefaultLocal().SaveToDisk(g.dataDir); err != nil {
				return fmt.Errorf("cannot write %s: %w", cfgPath, err)
			}
			if err := config.SaveConfigurableConsensus(g.dataDir, config.Consensus); err != nil {
				return fmt.Errorf("cannot write %s: %w", consensusPath, err)
			}
			g.log.Infof("initialized %s", g.dataDir)
			fmt.Fprintln(cmd.OutOrStdout(), cfgPath)
			fmt.Fprintln(cmd.OutOrStdout(), consensusPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	return cmd
}
