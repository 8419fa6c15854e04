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

// An Array is a dense sequence of leaves to build a tree from.
// Get may be called from several goroutines at once.
type Array[L any] interface {
	// Length returns number of elements in the array.
	Length() uint64

	// Get returns the leaf at position pos.
	Get(pos uint64) (L, error)
}

type sliceArray[L any] []L

// FromSlice returns an Array over s.
func FromSlice[L any](s []L) Array[L] {
	return sliceArray[L](s)
}

func (a sliceArray[L]) Length() uint64 {
	return uint64(len(a))
}

func (a sliceArray[L]) Get(pos uint64) (L, error) {
	return a[pos], nil
}
