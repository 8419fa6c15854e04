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
	"errors"
	"fmt"

	"github.com/mina-go/minahash/crypto/field"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/crypto/sponge"
)

// Digest is a node of the tree.
type Digest = field.Fp

// Hasher turns leaves into digests. Implementations must be safe for
// concurrent use.
type Hasher[L any] interface {
	Generation() Generation
	HashLeaf(leaf L) Digest
	// EmptyLeaf is the digest of a position that holds no leaf.
	EmptyLeaf() Digest
}

// Merger combines two children into their parent. Implementations must be
// safe for concurrent use.
type Merger interface {
	Generation() Generation
	// Merge combines left and right, which sit at level (0 for leaves).
	Merge(level uint32, left, right Digest) Digest
}

// SpongeHasher hashes leaves with a sponge under the generation's account domain.
type SpongeHasher[L roinput.Hashable] struct {
	gen    Generation
	sponge sponge.Factory
	empty  Digest
}

// NewSpongeHasher returns a hasher for gen. The digest of emptyLeaf fills
// every position past the last leaf.
func NewSpongeHasher[L roinput.Hashable](gen Generation, f sponge.Factory, emptyLeaf L) *SpongeHasher[L] {
	h := &SpongeHasher[L]{gen: gen, sponge: f}
	h.empty = h.HashLeaf(emptyLeaf)
	return h
}

// Generation implements Hasher.
func (h *SpongeHasher[L]) Generation() Generation {
	return h.gen
}

// HashLeaf implements Hasher.
func (h *SpongeHasher[L]) HashLeaf(leaf L) Digest {
	return sponge.Hash(h.sponge, h.gen.AccountDomain(), leaf.ToROInput())
}

// EmptyLeaf implements Hasher.
func (h *SpongeHasher[L]) EmptyLeaf() Digest {
	return h.empty
}

// SpongeMerger merges children with a sponge under per-level domains.
type SpongeMerger struct {
	gen    Generation
	sponge sponge.Factory
}

// NewSpongeMerger returns a merger for gen.
func NewSpongeMerger(gen Generation, f sponge.Factory) SpongeMerger {
	return SpongeMerger{gen: gen, sponge: f}
}

// Generation implements Merger.
func (m SpongeMerger) Generation() Generation {
	return m.gen
}

// Merge implements Merger.
func (m SpongeMerger) Merge(level uint32, left, right Digest) Digest {
	in := roinput.New().AppendField(left).AppendField(right)
	return sponge.Hash(m.sponge, m.gen.NodeDomain(level), in)
}

// ErrNoSponge is returned when a generation has no sponge bound to it.
var ErrNoSponge = errors.New("no sponge for merkle generation")

// Sponges binds each generation to the sponge its trees are hashed with.
// Generations differ in permutation parameters as well as domains.
type Sponges [MaxGeneration]sponge.Factory

// DevSponges gives each generation a MiMC sponge keyed by the generation.
// Roots built with it are not protocol roots.
var DevSponges = Sponges{
	Legacy: sponge.KeyedMiMC("LegacyMklParams"),
	Kimchi: sponge.KeyedMiMC("KimchiMklParams"),
}

// For returns the sponge bound to gen.
func (s Sponges) For(gen Generation) (sponge.Factory, error) {
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	if s[gen] == nil {
		return nil, fmt.Errorf("%w %v", ErrNoSponge, gen)
	}
	return s[gen], nil
}

// NewSpongePair returns the hasher and merger of gen, both using the
// sponge s binds to gen.
func NewSpongePair[L roinput.Hashable](gen Generation, s Sponges, emptyLeaf L) (*SpongeHasher[L], SpongeMerger, error) {
	f, err := s.For(gen)
	if err != nil {
		return nil, SpongeMerger{}, err
	}
	return NewSpongeHasher(gen, f, emptyLeaf), NewSpongeMerger(gen, f), nil
}
