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
	"iter"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mina-go/minahash/crypto/field"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/crypto/sponge"
	"github.com/mina-go/minahash/test/partitiontest"
)

type testLeaf uint64

func (l testLeaf) ToROInput() *roinput.Input {
	return roinput.New().AppendUint64(uint64(l))
}

// arithHasher and arithMerger are cheap, order-sensitive stand-ins for a sponge.
type arithHasher struct{ gen Generation }

func (h arithHasher) Generation() Generation { return h.gen }
func (h arithHasher) HashLeaf(l testLeaf) Digest {
	return field.FromUint64(uint64(l)*7 + 1)
}
func (h arithHasher) EmptyLeaf() Digest { return field.FromUint64(0) }

type arithMerger struct{ gen Generation }

func (m arithMerger) Generation() Generation { return m.gen }
func (m arithMerger) Merge(level uint32, l, r Digest) Digest {
	return l.Mul(field.FromUint64(3)).Add(r.Mul(field.FromUint64(5))).Add(field.FromUint64(uint64(level) + 11))
}

var errBadLeaf = errors.New("bad leaf")

type failingArray struct {
	n   uint64
	bad map[uint64]bool
}

func (a failingArray) Length() uint64 { return a.n }
func (a failingArray) Get(pos uint64) (testLeaf, error) {
	if a.bad[pos] {
		return 0, fmt.Errorf("position %d: %w", pos, errBadLeaf)
	}
	return testLeaf(pos), nil
}

func makeLeaves(n int) []testLeaf {
	leaves := make([]testLeaf, n)
	for i := range leaves {
		leaves[i] = testLeaf(i*31 + 2)
	}
	return leaves
}

// naiveRoot recomputes the root by full recursion over all 2^height positions.
func naiveRoot[L any](leaves []L, height uint32, h Hasher[L], m Merger) Digest {
	var rec func(level uint32, pos uint64) Digest
	rec = func(level uint32, pos uint64) Digest {
		if level == 0 {
			if pos < uint64(len(leaves)) {
				return h.HashLeaf(leaves[pos])
			}
			return h.EmptyLeaf()
		}
		return m.Merge(level-1, rec(level-1, 2*pos), rec(level-1, 2*pos+1))
	}
	return rec(height, 0)
}

func seqOf[L any](leaves []L) iter.Seq2[L, error] {
	return func(yield func(L, error) bool) {
		for _, l := range leaves {
			if !yield(l, nil) {
				return
			}
		}
	}
}

func TestGenerationDomains(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, "CodaMklTree000", Legacy.NodeDomain(0))
	require.Equal(t, "CodaMklTree019", Legacy.NodeDomain(19))
	require.Equal(t, "MinaMklTree007", Kimchi.NodeDomain(7))
	require.Equal(t, "CodaAccount", Legacy.AccountDomain())
	require.Equal(t, "MinaAccount", Kimchi.AccountDomain())

	for g := Generation(0); g < MaxGeneration; g++ {
		txt, err := g.MarshalText()
		require.NoError(t, err)
		var back Generation
		require.NoError(t, back.UnmarshalText(txt))
		require.Equal(t, g, back)
	}
	require.Error(t, MaxGeneration.Validate())
	_, err := ParseGeneration("poseidon")
	require.Error(t, err)
}

func TestEmptyTree(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	for _, height := range []uint32{0, 1, 5, 20} {
		tree, err := Build(height, h, m, FromSlice[testLeaf](nil))
		require.NoError(t, err)
		want, err := EmptyRoot(height, h, m)
		require.NoError(t, err)
		require.Equal(t, want, tree.Root())
		require.Zero(t, tree.LeafCount())
	}

	root, err := EmptyRoot(3, h, m)
	require.NoError(t, err)
	require.Equal(t, naiveRoot[testLeaf](nil, 3, h, m), root)
}

func TestMatchesNaive(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Legacy}, arithMerger{Legacy}
	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Uint32Range(0, 7).Draw(t, "height")
		n := rapid.IntRange(0, 1<<height).Draw(t, "n")
		workers := rapid.IntRange(0, 8).Draw(t, "workers")
		leaves := makeLeaves(n)

		tree, err := Build(height, h, m, FromSlice(leaves), WithWorkers(workers))
		require.NoError(t, err)
		require.Equal(t, naiveRoot(leaves, height, h, m), tree.Root())
		require.Equal(t, uint64(n), tree.LeafCount())
		require.Equal(t, height, tree.Height())
	})
}

func TestParallelDeterministic(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	leaves := makeLeaves(1000)
	one, err := Build(10, h, m, FromSlice(leaves), WithWorkers(1))
	require.NoError(t, err)
	many, err := Build(10, h, m, FromSlice(leaves), WithWorkers(16))
	require.NoError(t, err)
	same, err := one.SameRoot(many)
	require.NoError(t, err)
	require.True(t, same)
}

func TestBuildSeq(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	leaves := makeLeaves(37)
	fromArray, err := Build(6, h, m, FromSlice(leaves))
	require.NoError(t, err)
	fromSeq, err := BuildSeq(6, h, m, seqOf(leaves))
	require.NoError(t, err)
	require.Equal(t, fromArray.Root(), fromSeq.Root())
}

func TestCapacity(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}

	tree, err := Build(0, h, m, FromSlice(makeLeaves(1)))
	require.NoError(t, err)
	require.Equal(t, h.HashLeaf(makeLeaves(1)[0]), tree.Root())

	_, err = Build(0, h, m, FromSlice(makeLeaves(2)))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = Build(3, h, m, FromSlice(makeLeaves(9)))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = BuildSeq(3, h, m, seqOf(makeLeaves(9)))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	full, err := Build(3, h, m, FromSlice(makeLeaves(8)))
	require.NoError(t, err)
	require.Equal(t, uint64(8), full.Capacity())

	_, err = Build(MaxHeight+1, h, m, FromSlice(makeLeaves(1)))
	require.ErrorIs(t, err, ErrInvalidHeight)
}

func TestLeafErrorArray(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	arr := failingArray{n: 500, bad: map[uint64]bool{417: true, 123: true, 499: true}}
	for _, workers := range []int{1, 4, 32} {
		_, err := Build(9, h, m, arr, WithWorkers(workers))
		require.ErrorIs(t, err, errBadLeaf)
		var lerr *LeafError
		require.ErrorAs(t, err, &lerr)
		require.Equal(t, uint64(123), lerr.Index)
	}
}

func TestLeafErrorSeq(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	pulled := 0
	seq := func(yield func(testLeaf, error) bool) {
		for i := 0; i < 10; i++ {
			pulled++
			var err error
			if i == 4 {
				err = errBadLeaf
			}
			if !yield(testLeaf(i), err) {
				return
			}
		}
	}
	_, err := BuildSeq(4, h, m, seq)
	require.ErrorIs(t, err, errBadLeaf)
	var lerr *LeafError
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, uint64(4), lerr.Index)
	require.Equal(t, 5, pulled)
}

func TestGenerationMismatch(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := Build(3, arithHasher{Legacy}, arithMerger{Kimchi}, FromSlice(makeLeaves(2)))
	require.ErrorIs(t, err, ErrGenerationMismatch)
	_, err = EmptyRoot(3, arithHasher{Kimchi}, arithMerger{Legacy})
	require.ErrorIs(t, err, ErrGenerationMismatch)

	legacy, err := Build(3, arithHasher{Legacy}, arithMerger{Legacy}, FromSlice(makeLeaves(2)))
	require.NoError(t, err)
	kimchi, err := Build(3, arithHasher{Kimchi}, arithMerger{Kimchi}, FromSlice(makeLeaves(2)))
	require.NoError(t, err)
	_, err = legacy.SameRoot(kimchi)
	require.ErrorIs(t, err, ErrGenerationMismatch)
}

func TestProofs(t *testing.T) {
	partitiontest.PartitionTest(t)

	h, m := arithHasher{Kimchi}, arithMerger{Kimchi}
	leaves := makeLeaves(11)
	tree, err := Build(5, h, m, FromSlice(leaves))
	require.NoError(t, err)

	for pos := uint64(0); pos < tree.Capacity(); pos++ {
		proof, err := tree.Prove(pos)
		require.NoError(t, err)
		require.Len(t, proof.Path, 5)

		leaf, err := tree.Leaf(pos)
		require.NoError(t, err)
		require.NoError(t, Verify(tree.Root(), leaf, proof, m))
		if pos < uint64(len(leaves)) {
			require.NoError(t, VerifyLeaf(tree.Root(), leaves[pos], proof, h, m))
		} else {
			require.Equal(t, h.EmptyLeaf(), leaf)
		}

		wrong := leaf.Add(field.FromUint64(1))
		require.ErrorIs(t, Verify(tree.Root(), wrong, proof, m), ErrRootMismatch)
		require.ErrorIs(t, Verify(tree.Root(), leaf, proof, arithMerger{Legacy}), ErrGenerationMismatch)
	}

	_, err = tree.Prove(tree.Capacity())
	require.ErrorIs(t, err, ErrPositionOutOfRange)
	_, err = tree.Leaf(tree.Capacity())
	require.ErrorIs(t, err, ErrPositionOutOfRange)
	require.Error(t, Verify(tree.Root(), Digest{}, nil, m))
}

func TestSpongeGenerations(t *testing.T) {
	partitiontest.PartitionTest(t)

	leaves := makeLeaves(5)
	roots := make(map[Generation]Digest)
	for g := Generation(0); g < MaxGeneration; g++ {
		h := NewSpongeHasher(g, sponge.MiMC, testLeaf(0))
		m := NewSpongeMerger(g, sponge.MiMC)
		tree, err := Build(4, h, m, FromSlice(leaves))
		require.NoError(t, err)
		require.Equal(t, naiveRoot(leaves, 4, h, m), tree.Root())
		roots[g] = tree.Root()

		proof, err := tree.Prove(3)
		require.NoError(t, err)
		require.NoError(t, VerifyLeaf(tree.Root(), leaves[3], proof, h, m))
	}
	require.NotEqual(t, roots[Legacy], roots[Kimchi])
}

func TestSpongesPerGeneration(t *testing.T) {
	partitiontest.PartitionTest(t)

	leaves := makeLeaves(5)
	for g := Generation(0); g < MaxGeneration; g++ {
		h, m, err := NewSpongePair(g, DevSponges, testLeaf(0))
		require.NoError(t, err)
		require.Equal(t, g, h.Generation())
		require.Equal(t, g, m.Generation())

		tree, err := Build(4, h, m, FromSlice(leaves))
		require.NoError(t, err)

		// the same domains with the other generation's sponge give another root
		other := DevSponges[(g+1)%MaxGeneration]
		mixed, err := Build(4, NewSpongeHasher(g, other, testLeaf(0)), NewSpongeMerger(g, other), FromSlice(leaves))
		require.NoError(t, err)
		require.NotEqual(t, tree.Root(), mixed.Root())
	}

	var partial Sponges
	partial[Legacy] = sponge.MiMC
	_, err := partial.For(Legacy)
	require.NoError(t, err)
	_, _, err = NewSpongePair(Kimchi, partial, testLeaf(0))
	require.ErrorIs(t, err, ErrNoSponge)
	_, err = DevSponges.For(MaxGeneration)
	require.Error(t, err)
}
