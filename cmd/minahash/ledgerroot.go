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
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mina-go/minahash/config"
	"github.com/mina-go/minahash/crypto/merkle"
	"github.com/mina-go/minahash/data/hashes"
	"github.com/mina-go/minahash/data/ledger"
	"github.com/mina-go/minahash/logging"
	"github.com/mina-go/minahash/protocol"
)

func newRootHashCmd(g *globals) *cobra.Command {
	var consensus string
	var all bool
	cmd := &cobra.Command{
		Use:   "root GENESIS_FILE",
		Short: "Compute the ledger hash of a genesis ledger file",
		Long:  `Compute the ledger hash of a genesis ledger file of the form
{"accounts": [{"pk": "B62...", "balance": "1000", "nonce": 0}]}.

Each Merkle generation is hashed with its own MiMC development sponge, so
the result is only comparable with other output of this tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := g.consensusParams(consensus)
			if err != nil {
				return err
			}
			fl, err := ledger.OpenFile(args[0], params.LedgerDepth)
			if err != nil {
				return err
			}
			g.log.Warn("hashing with the MiMC development sponges; roots are not protocol ledger hashes")

			gens := []merkle.Generation{params.MerkleGeneration}
			if all {
				gens = []merkle.Generation{merkle.Legacy, merkle.Kimchi}
			}
			roots := make([]hashes.LedgerHash, len(gens))
			var eg errgroup.Group
			for i, gen := range gens {
				eg.Go(func() error {
					tree, err := ledger.BuildTree[ledger.Account](g.log, fl, gen, merkle.DevSponges, ledger.Account{}, merkle.WithWorkers(g.cfg.BuildWorkers()))
					if err != nil {
						return err
					}
					roots[i] = ledger.Root(tree)
					g.log.WithFields(logging.Fields{
						"generation": gen.String(),
						"workers":    g.cfg.BuildWorkers(),
					}).Infof("%d accounts", tree.LeafCount())
					return nil
				})
			}
			if err = eg.Wait(); err != nil {
				return err
			}

			for i, gen := range gens {
				if all {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", gen, roots[i])
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), roots[i].String())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&consensus, "consensus", "c", "", "Consensus version selecting depth and generation (default: from config)")
	cmd.Flags().BoolVar(&all, "all", false, "Print the root for every Merkle generation")
	return cmd
}

func (g *globals) consensusParams(name string) (config.ConsensusParams, error) {
	if name == "" {
		return g.cfg.ConsensusParams()
	}
	v, err := protocol.ParseConsensusVersion(name)
	if err != nil {
		// versions added through the consensus overrides file
		v = protocol.ConsensusVersion(name)
	}
	params, err := config.Consensus.Params(v)
	if err != nil {
		return config.ConsensusParams{}, fmt.Errorf("--consensus: %w", err)
	}
	return params, nil
}
