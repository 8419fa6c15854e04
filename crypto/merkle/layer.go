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
	"math"
	"sync/atomic"

	"github.com/algorand/go-deadlock"
)

// A Layer of the tree is a dense array of the digests at one level.
// Positions beyond the end of the array hold the empty-subtree digest
// for that level.
type Layer []Digest

// leafFailure tracks the lowest leaf position whose retrieval failed.
type leafFailure struct {
	mu  deadlock.Mutex
	min atomic.Uint64
	err error
}

func newLeafFailure() *leafFailure {
	f := &leafFailure{}
	f.min.Store(math.MaxUint64)
	return f
}

func (f *leafFailure) record(pos uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if pos < f.min.Load() {
		f.min.Store(pos)
		f.err = &LeafError{Index: pos, Err: err}
	}
}

// skip reports whether pos can no longer affect the outcome.
func (f *leafFailure) skip(pos uint64) bool {
	return pos > f.min.Load()
}

func (f *leafFailure) result() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func leafWorker[L any](ws *workerState, array Array[L], leaves Layer, h Hasher[L], fail *leafFailure) {
	defer ws.wg.Done()

	ws.started()
	batchSize := uint64(1)

	for {
		off := ws.next(batchSize)
		if off >= ws.maxidx {
			return
		}

		for i := off; i < off+batchSize && i < ws.maxidx; i++ {
			// positions are claimed in increasing order, so once one is past
			// a failure every later one is too
			if fail.skip(i) {
				return
			}
			leaf, err := array.Get(i)
			if err != nil {
				fail.record(i, err)
				return
			}
			leaves[i] = h.HashLeaf(leaf)
		}

		batchSize++
	}
}

func upWorker(ws *workerState, level uint32, in Layer, out Layer, empty Digest, m Merger) {
	defer ws.wg.Done()

	ws.started()
	batchSize := uint64(2)

	for {
		off := ws.next(batchSize)
		if off >= ws.maxidx {
			break
		}

		for i := off; i < off+batchSize && i < ws.maxidx; i += 2 {
			right := empty
			if i+1 < ws.maxidx {
				right = in[i+1]
			}
			out[i/2] = m.Merge(level, in[i], right)
		}

		batchSize += 2
	}
}
