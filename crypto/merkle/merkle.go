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

// Package merkle builds fixed-depth Merkle trees over field-element
// digests. A tree of height h has room for 2^h leaves; positions past the
// last leaf hold the digest of an empty leaf, and whole empty subtrees are
// represented by a precomputed digest per level.
package merkle

import (
	"errors"
	"fmt"
	"iter"
)

// MaxHeight is the tallest tree that can be addressed with uint64 positions.
const MaxHeight = 63

var (
	// ErrCapacityExceeded is returned when there are more leaves than positions.
	ErrCapacityExceeded = errors.New("merkle: more leaves than the tree can hold")
	// ErrGenerationMismatch is returned when digests of different generations meet.
	ErrGenerationMismatch = errors.New("merkle: generation mismatch")
	// ErrInvalidHeight is returned for a height above MaxHeight.
	ErrInvalidHeight = errors.New("merkle: invalid tree height")
	// ErrPositionOutOfRange is returned when proving a position past the capacity.
	ErrPositionOutOfRange = errors.New("merkle: position out of range")
	// ErrRootMismatch is returned when a proof does not lead to the expected root.
	ErrRootMismatch = errors.New("merkle: root mismatch")
)

// LeafError reports a failure to obtain the leaf at Index. It aborts the build.
type LeafError struct {
	Index uint64
	Err   error
}

func (e *LeafError) Error() string {
	return fmt.Sprintf("merkle: leaf %d: %v", e.Index, e.Err)
}

func (e *LeafError) Unwrap() error {
	return e.Err
}

// Tree is a Merkle tree, represented by layers of nodes at each level.
type Tree struct {
	height     uint32
	generation Generation

	// levels[0] holds the leaves, levels[height] the root if any leaf exists.
	levels []Layer
	// empty[l] is the digest of a subtree of height l with no leaves.
	empty []Digest
}

// Option configures a build.
type Option func(*buildOptions)

type buildOptions struct {
	workers int
}

// WithWorkers bounds the number of goroutines used to hash each level.
// Zero or less means one per CPU.
func WithWorkers(n int) Option {
	return func(o *buildOptions) {
		o.workers = n
	}
}

func capacity(height uint32) uint64 {
	return uint64(1) << height
}

func checkParams[L any](height uint32, hasher Hasher[L], merger Merger) error {
	if height > MaxHeight {
		return fmt.Errorf("%w: %d", ErrInvalidHeight, height)
	}
	if err := hasher.Generation().Validate(); err != nil {
		return err
	}
	if hasher.Generation() != merger.Generation() {
		return fmt.Errorf("%w: hasher is %v, merger is %v", ErrGenerationMismatch, hasher.Generation(), merger.Generation())
	}
	return nil
}

func emptyDigests[L any](height uint32, hasher Hasher[L], merger Merger) []Digest {
	empty := make([]Digest, height+1)
	empty[0] = hasher.EmptyLeaf()
	for l := uint32(0); l < height; l++ {
		empty[l+1] = merger.Merge(l, empty[l], empty[l])
	}
	return empty
}

// EmptyRoot returns the root of a tree of the given height with no leaves.
func EmptyRoot[L any](height uint32, hasher Hasher[L], merger Merger) (Digest, error) {
	if err := checkParams(height, hasher, merger); err != nil {
		return Digest{}, err
	}
	return emptyDigests(height, hasher, merger)[height], nil
}

// Build constructs a tree of the given height over array. Leaves are
// hashed in parallel; the result is the same as hashing them in order. If
// a leaf cannot be read, the build fails with a *LeafError for the lowest
// failing position.
func Build[L any](height uint32, hasher Hasher[L], merger Merger, array Array[L], opts ...Option) (*Tree, error) {
	if err := checkParams(height, hasher, merger); err != nil {
		return nil, err
	}
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	n := array.Length()
	if n > capacity(height) {
		return nil, fmt.Errorf("%w: %d leaves, height %d", ErrCapacityExceeded, n, height)
	}

	leaves := make(Layer, n)
	fail := newLeafFailure()
	ws := newWorkerState(n, o.workers)
	for ws.nextWorker() {
		go leafWorker(ws, array, leaves, hasher, fail)
	}
	ws.wait()
	if err := fail.result(); err != nil {
		return nil, err
	}

	tree := &Tree{
		height:     height,
		generation: hasher.Generation(),
		empty:      emptyDigests(height, hasher, merger),
	}
	tree.buildLayers(leaves, merger, o.workers)
	return tree, nil
}

// BuildSeq constructs a tree from leaves pulled in order from seq. The
// first error yielded by seq aborts the build with a *LeafError carrying
// its position.
func BuildSeq[L any](height uint32, hasher Hasher[L], merger Merger, seq iter.Seq2[L, error], opts ...Option) (*Tree, error) {
	if err := checkParams(height, hasher, merger); err != nil {
		return nil, err
	}
	limit := capacity(height)

	var leaves []L
	var pos uint64
	for leaf, err := range seq {
		if err != nil {
			return nil, &LeafError{Index: pos, Err: err}
		}
		if pos >= limit {
			return nil, fmt.Errorf("%w: more than %d leaves, height %d", ErrCapacityExceeded, limit, height)
		}
		leaves = append(leaves, leaf)
		pos++
	}
	return Build(height, hasher, merger, FromSlice(leaves), opts...)
}

func (tree *Tree) buildLayers(leaves Layer, merger Merger, workers int) {
	tree.levels = make([]Layer, 0, tree.height+1)
	tree.levels = append(tree.levels, leaves)
	for l := uint32(0); l < tree.height; l++ {
		tree.levels = append(tree.levels, tree.buildNextLayer(l, merger, workers))
	}
}

func (tree *Tree) buildNextLayer(level uint32, merger Merger, workers int) Layer {
	in := tree.levels[level]
	n := len(in)
	out := make(Layer, (n+1)/2)

	ws := newWorkerState(uint64(n), workers)
	for ws.nextWorker() {
		go upWorker(ws, level, in, out, tree.empty[level], merger)
	}
	ws.wait()
	return out
}

// Root returns the root digest of the tree.
func (tree *Tree) Root() Digest {
	if top := tree.levels[tree.height]; len(top) > 0 {
		return top[0]
	}
	return tree.empty[tree.height]
}

// Height returns the number of levels above the leaves.
func (tree *Tree) Height() uint32 {
	return tree.height
}

// Generation returns the generation the tree was hashed with.
func (tree *Tree) Generation() Generation {
	return tree.generation
}

// LeafCount returns the number of leaves the tree was built from.
func (tree *Tree) LeafCount() uint64 {
	return uint64(len(tree.levels[0]))
}

// Capacity returns the number of leaf positions, 2^height.
func (tree *Tree) Capacity() uint64 {
	return capacity(tree.height)
}

// node returns the digest at position pos of level.
func (tree *Tree) node(level uint32, pos uint64) Digest {
	if layer := tree.levels[level]; pos < uint64(len(layer)) {
		return layer[pos]
	}
	return tree.empty[level]
}

// Leaf returns the digest at leaf position pos, which is the empty leaf
// digest past the last leaf.
func (tree *Tree) Leaf(pos uint64) (Digest, error) {
	if pos >= tree.Capacity() {
		return Digest{}, fmt.Errorf("%w: %d >= %d", ErrPositionOutOfRange, pos, tree.Capacity())
	}
	return tree.node(0, pos), nil
}

// SameRoot reports whether both trees commit to the same leaves. Trees
// of different generations cannot be compared.
func (tree *Tree) SameRoot(other *Tree) (bool, error) {
	if tree.generation != other.generation {
		return false, fmt.Errorf("%w: %v and %v", ErrGenerationMismatch, tree.generation, other.generation)
	}
	return tree.height == other.height && tree.Root() == other.Root(), nil
}
