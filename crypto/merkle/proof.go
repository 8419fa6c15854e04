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

package merkle

import (
	"fmt"
)

// Proof is the authentication path of one leaf position.
type Proof struct {
	Index      uint64
	Generation Generation
	// Path holds the sibling of each node on the way up, leaf level first.
	Path []Digest
}

// Prove returns the authentication path for position pos, which may be
// past the last leaf as long as it is within the capacity.
func (tree *Tree) Prove(pos uint64) (*Proof, error) {
	if pos >= tree.Capacity() {
		return nil, fmt.Errorf("%w: %d >= %d", ErrPositionOutOfRange, pos, tree.Capacity())
	}
	path := make([]Digest, tree.height)
	for l := uint32(0); l < tree.height; l++ {
		path[l] = tree.node(l, (pos>>l)^1)
	}
	return &Proof{
		Index:      pos,
		Generation: tree.generation,
		Path:       path,
	}, nil
}

// Verify checks that leaf sits at proof.Index in a tree with the given root.
func Verify(root Digest, leaf Digest, proof *Proof, merger Merger) error {
	if proof == nil {
		return fmt.Errorf("proof should not be nil")
	}
	if proof.Generation != merger.Generation() {
		return fmt.Errorf("%w: proof is %v, merger is %v", ErrGenerationMismatch, proof.Generation, merger.Generation())
	}
	if len(proof.Path) > MaxHeight {
		return fmt.Errorf("%w: proof of %d levels", ErrInvalidHeight, len(proof.Path))
	}
	if proof.Index >= capacity(uint32(len(proof.Path))) {
		return fmt.Errorf("%w: %d in a proof of %d levels", ErrPositionOutOfRange, proof.Index, len(proof.Path))
	}

	h := leaf
	pos := proof.Index
	for l, sibling := range proof.Path {
		if pos&1 == 0 {
			h = merger.Merge(uint32(l), h, sibling)
		} else {
			h = merger.Merge(uint32(l), sibling, h)
		}
		pos >>= 1
	}
	if h != root {
		return ErrRootMismatch
	}
	return nil
}

// VerifyLeaf hashes leaf and verifies it against root.
func VerifyLeaf[L any](root Digest, leaf L, proof *Proof, hasher Hasher[L], merger Merger) error {
	if hasher.Generation() != merger.Generation() {
		return fmt.Errorf("%w: hasher is %v, merger is %v", ErrGenerationMismatch, hasher.Generation(), merger.Generation())
	}
	return Verify(root, hasher.HashLeaf(leaf), proof, merger)
}
