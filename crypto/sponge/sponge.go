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

// Package sponge defines the algebraic sponge used to hash random-oracle
// inputs, and the domain-separated hashing built on top of it.
package sponge

import (
	"fmt"

	"github.com/mina-go/minahash/crypto/field"
	"github.com/mina-go/minahash/crypto/roinput"
)

// MaxDomainLength is the longest domain string that fits in a field element.
const MaxDomainLength = 20

// Sponge absorbs field elements and squeezes out digests.
type Sponge interface {
	Absorb(fs ...field.Fp)
	Squeeze() field.Fp
	Reset()
}

// Factory returns a fresh sponge. Each call must return an independent
// instance so that hashers can be shared between goroutines.
type Factory func() Sponge

// DomainField encodes a domain string as a field element: the ASCII bytes
// padded with '*' to MaxDomainLength and read little-endian.
func DomainField(domain string) (field.Fp, error) {
	if len(domain) > MaxDomainLength {
		return field.Fp{}, fmt.Errorf("domain %q longer than %d bytes", domain, MaxDomainLength)
	}
	var b [field.Size]byte
	copy(b[:], domain)
	for i := len(domain); i < MaxDomainLength; i++ {
		b[i] = '*'
	}
	return field.FromBytes(b)
}

// MustDomainField is DomainField for constant domains.
func MustDomainField(domain string) field.Fp {
	f, err := DomainField(domain)
	if err != nil {
		panic(err)
	}
	return f
}

// Hash absorbs the domain separator, then the packed fields of in, and
// returns the squeezed digest. An empty domain absorbs no separator.
func Hash(f Factory, domain string, in *roinput.Input) field.Fp {
	s := f()
	if domain != "" {
		s.Absorb(MustDomainField(domain))
		s.Squeeze()
	}
	s.Absorb(in.Fields()...)
	return s.Squeeze()
}
