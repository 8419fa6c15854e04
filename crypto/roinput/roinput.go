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

// Package roinput builds random-oracle inputs: the sequence of field
// elements and bits that an object contributes to a sponge hash.
package roinput

import (
	"slices"

	"github.com/mina-go/minahash/crypto/field"
)

// chunkBits is how many packed bits fit in one field element without
// ever reaching the modulus.
const chunkBits = field.Bits - 1

// Hashable is implemented by anything that can be fed to a sponge.
type Hashable interface {
	ToROInput() *Input
}

// Input accumulates field elements and bits. Bits are packed into field
// elements only when Fields is called.
type Input struct {
	fields []field.Fp
	bits   []bool
}

// New returns an empty Input.
func New() *Input {
	return &Input{}
}

// AppendField appends one field element.
func (in *Input) AppendField(f field.Fp) *Input {
	in.fields = append(in.fields, f)
	return in
}

// AppendBool appends one bit.
func (in *Input) AppendBool(b bool) *Input {
	in.bits = append(in.bits, b)
	return in
}

// AppendBytes appends the bits of b, least significant bit of each byte first.
func (in *Input) AppendBytes(b []byte) *Input {
	for _, x := range b {
		for i := 0; i < 8; i++ {
			in.bits = append(in.bits, x>>i&1 == 1)
		}
	}
	return in
}

// AppendUint32 appends the 32 bits of x, least significant first.
func (in *Input) AppendUint32(x uint32) *Input {
	for i := 0; i < 32; i++ {
		in.bits = append(in.bits, x>>i&1 == 1)
	}
	return in
}

// AppendUint64 appends the 64 bits of x, least significant first.
func (in *Input) AppendUint64(x uint64) *Input {
	for i := 0; i < 64; i++ {
		in.bits = append(in.bits, x>>i&1 == 1)
	}
	return in
}

// AppendInput appends the fields and bits of other, keeping each in its own lane.
func (in *Input) AppendInput(other *Input) *Input {
	in.fields = append(in.fields, other.fields...)
	in.bits = append(in.bits, other.bits...)
	return in
}

// AppendHashable appends h's contribution.
func (in *Input) AppendHashable(h Hashable) *Input {
	return in.AppendInput(h.ToROInput())
}

// FieldCount returns the number of explicit field elements.
func (in *Input) FieldCount() int {
	return len(in.fields)
}

// BitCount returns the number of bits not yet packed.
func (in *Input) BitCount() int {
	return len(in.bits)
}

// Equal reports whether both inputs hold the same fields and bits.
func (in *Input) Equal(other *Input) bool {
	return slices.Equal(in.fields, other.fields) && slices.Equal(in.bits, other.bits)
}

// Fields returns the explicit field elements followed by the bits packed
// into field elements, chunkBits at a time, little-endian.
func (in *Input) Fields() []field.Fp {
	out := make([]field.Fp, 0, len(in.fields)+(len(in.bits)+chunkBits-1)/chunkBits)
	out = append(out, in.fields...)
	for start := 0; start < len(in.bits); start += chunkBits {
		end := min(start+chunkBits, len(in.bits))
		var buf [field.Size]byte
		for i, bit := range in.bits[start:end] {
			if bit {
				buf[i/8] |= 1 << (i % 8)
			}
		}
		f, err := field.FromBytes(buf)
		if err != nil {
			panic(err) // chunkBits bits are always below the modulus
		}
		out = append(out, f)
	}
	return out
}
