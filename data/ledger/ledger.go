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

// Package ledger builds the account Merkle tree of a genesis ledger and
// exposes its root as a LedgerHash.
package ledger

import (
	"errors"
	"fmt"
	"iter"

	"github.com/mina-go/minahash/config"
	"github.com/mina-go/minahash/crypto/merkle"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/data/hashes"
	"github.com/mina-go/minahash/logging"
)

// Depth is the height of the ledger tree on every network.
const Depth = 20

// ErrDepthMismatch is returned when a ledger is built with consensus
// parameters for a different depth.
var ErrDepthMismatch = errors.New("ledger depth does not match consensus parameters")

// GenesisLedger is the set of accounts present at genesis. Accounts is
// consumed lazily and may fail part way.
type GenesisLedger[A roinput.Hashable] interface {
	Depth() uint32
	Accounts() iter.Seq2[A, error]
}

// BuildTree hashes every account of gl into a tree of gl.Depth() with the
// domains of gen and the sponge sp binds to gen. Positions past the last
// account hold the digest of emptyAccount.
func BuildTree[A roinput.Hashable](log logging.Logger, gl GenesisLedger[A], gen merkle.Generation, sp merkle.Sponges, emptyAccount A, opts ...merkle.Option) (*merkle.Tree, error) {
	hasher, merger, err := merkle.NewSpongePair(gen, sp, emptyAccount)
	if err != nil {
		return nil, fmt.Errorf("genesis ledger: %w", err)
	}

	tree, err := merkle.BuildSeq(gl.Depth(), hasher, merger, gl.Accounts(), opts...)
	if err != nil {
		return nil, fmt.Errorf("genesis ledger (%s): %w", gen, err)
	}
	if log.IsLevelEnabled(logging.Debug) {
		log.WithFields(logging.Fields{
			"generation": gen.String(),
			"depth":      tree.Height(),
		}).Debugf("built ledger tree over %d accounts", tree.LeafCount())
	}
	return tree, nil
}

// BuildLegacyTree builds the tree with the legacy domains.
func BuildLegacyTree[A roinput.Hashable](log logging.Logger, gl GenesisLedger[A], sp merkle.Sponges, emptyAccount A, opts ...merkle.Option) (*merkle.Tree, error) {
	return BuildTree(log, gl, merkle.Legacy, sp, emptyAccount, opts...)
}

// BuildKimchiTree builds the tree with the current domains.
func BuildKimchiTree[A roinput.Hashable](log logging.Logger, gl GenesisLedger[A], sp merkle.Sponges, emptyAccount A, opts ...merkle.Option) (*merkle.Tree, error) {
	return BuildTree(log, gl, merkle.Kimchi, sp, emptyAccount, opts...)
}

// TreeForConsensus builds the tree with the generation params selects.
func TreeForConsensus[A roinput.Hashable](log logging.Logger, gl GenesisLedger[A], params config.ConsensusParams, sp merkle.Sponges, emptyAccount A, opts ...merkle.Option) (*merkle.Tree, error) {
	if gl.Depth() != params.LedgerDepth {
		return nil, fmt.Errorf("%w: ledger %d, consensus %d", ErrDepthMismatch, gl.Depth(), params.LedgerDepth)
	}
	return BuildTree(log, gl, params.MerkleGeneration, sp, emptyAccount, opts...)
}

// Root returns the root of tree as a LedgerHash.
func Root(tree *merkle.Tree) hashes.LedgerHash {
	return hashes.FromField[hashes.LedgerHash](tree.Root())
}
