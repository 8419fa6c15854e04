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

// Package field implements the scalar field that Mina hashes live in,
// the base field of the Pallas curve. Elements are serialized as 32
// little-endian bytes.
package field

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Size is the length of a serialized field element.
const Size = 32

// Bits is the bit length of the modulus.
const Bits = 255

var (
	// ErrOutOfRange is returned for a value that is not below the modulus.
	ErrOutOfRange = errors.New("value is not a canonical field element")
	// ErrLength is returned when a serialized element is not Size bytes long.
	ErrLength = errors.New("field element must be 32 bytes")
)

var modulus = uint256.MustFromHex("0x40000000000000000000000000000000224698fc094cf91b992d30ed00000001")

// Fp is an element of the Pallas base field. The zero value is 0.
// Fp values are comparable with ==.
type Fp struct {
	v uint256.Int
}

// Modulus returns the field modulus.
func Modulus() *uint256.Int {
	return new(uint256.Int).Set(modulus)
}

// ModulusBytes returns the little-endian bytes of the modulus.
func ModulusBytes() [Size]byte {
	return toLE(modulus.Bytes32())
}

func toLE(be [Size]byte) [Size]byte {
	var le [Size]byte
	for i := range be {
		le[i] = be[Size-1-i]
	}
	return le
}

// FromUint64 returns x as a field element.
func FromUint64(x uint64) Fp {
	var f Fp
	f.v.SetUint64(x)
	return f
}

// FromBytes interprets b as a little-endian integer. It fails with
// ErrOutOfRange if the integer is not below the modulus; values are
// never reduced.
func FromBytes(b [Size]byte) (Fp, error) {
	be := toLE(b)
	var f Fp
	f.v.SetBytes32(be[:])
	if !f.v.Lt(modulus) {
		return Fp{}, ErrOutOfRange
	}
	return f, nil
}

// FromSlice is FromBytes for a slice, which must be exactly Size bytes.
func FromSlice(b []byte) (Fp, error) {
	if len(b) != Size {
		return Fp{}, fmt.Errorf("%w: got %d", ErrLength, len(b))
	}
	return FromBytes([Size]byte(b))
}

// FromString parses an integer in the given base (0 accepts a 0x, 0o or
// 0b prefix). Values not below the modulus are rejected.
func FromString(s string, base int) (Fp, error) {
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Fp{}, fmt.Errorf("field: cannot parse %q", s)
	}
	if n.Sign() < 0 {
		return Fp{}, ErrOutOfRange
	}
	v, overflow := uint256.FromBig(n)
	if overflow || !v.Lt(modulus) {
		return Fp{}, ErrOutOfRange
	}
	return Fp{v: *v}, nil
}

// MustFromString is FromString for constants; it panics on error.
func MustFromString(s string, base int) Fp {
	f, err := FromString(s, base)
	if err != nil {
		panic(err)
	}
	return f
}

// Bytes returns the little-endian encoding of f.
func (f Fp) Bytes() [Size]byte {
	return toLE(f.v.Bytes32())
}

// String returns f in decimal.
func (f Fp) String() string {
	return f.v.Dec()
}

// IsZero reports whether f is 0.
func (f Fp) IsZero() bool {
	return f.v.IsZero()
}

// Cmp compares f and g as integers.
func (f Fp) Cmp(g Fp) int {
	return f.v.Cmp(&g.v)
}

// Add returns f+g.
func (f Fp) Add(g Fp) Fp {
	var r Fp
	r.v.AddMod(&f.v, &g.v, modulus)
	return r
}

// Sub returns f-g.
func (f Fp) Sub(g Fp) Fp {
	var r Fp
	if f.v.Lt(&g.v) {
		// f + (p - g) stays below 2^256 since p < 2^255
		r.v.Sub(modulus, &g.v)
		r.v.Add(&r.v, &f.v)
	} else {
		r.v.Sub(&f.v, &g.v)
	}
	return r
}

// Neg returns -f.
func (f Fp) Neg() Fp {
	if f.IsZero() {
		return f
	}
	var r Fp
	r.v.Sub(modulus, &f.v)
	return r
}

// Mul returns f*g.
func (f Fp) Mul(g Fp) Fp {
	var r Fp
	r.v.MulMod(&f.v, &g.v, modulus)
	return r
}

// Square returns f*f.
func (f Fp) Square() Fp {
	return f.Mul(f)
}

// Bit returns bit i of the integer value of f, least significant first.
func (f Fp) Bit(i int) bool {
	if i < 0 || i >= 256 {
		return false
	}
	return f.v[i/64]>>(uint(i)%64)&1 == 1
}
