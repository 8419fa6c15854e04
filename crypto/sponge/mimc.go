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

package sponge

import (
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/mina-go/minahash/crypto/field"
)

// mimcSponge adapts the BN254 MiMC hash to the Sponge interface. It
// is a development stand-in for the protocol Poseidon permutation: digests
// are deterministic and collision resistant but do not match the chain.
type mimcSponge struct {
	h  hash.Hash
	iv []byte
}

// NewMiMC returns a MiMC-backed sponge.
func NewMiMC() Sponge {
	return &mimcSponge{h: mimc.NewMiMC()}
}

// MiMC is a Factory for NewMiMC.
var MiMC Factory = NewMiMC

// KeyedMiMC returns a Factory for MiMC sponges whose state starts from the
// field element of key instead of zero, so that sponges built for
// different keys never agree. key follows the DomainField rules.
func KeyedMiMC(key string) Factory {
	kf := MustDomainField(key)
	return func() Sponge {
		s := &mimcSponge{h: mimc.NewMiMC()}
		s.Absorb(kf)
		s.iv = s.h.Sum(nil)
		s.Reset()
		return s
	}
}

func (s *mimcSponge) Absorb(fs ...field.Fp) {
	for _, f := range fs {
		le := f.Bytes()
		var be [field.Size]byte
		for i := range le {
			be[i] = le[field.Size-1-i]
		}
		// Pallas elements may exceed the BN254 modulus; reduce them first.
		var e fr.Element
		e.SetBytes(be[:])
		eb := e.Bytes()
		s.h.Write(eb[:])
	}
}

func (s *mimcSponge) Squeeze() field.Fp {
	be := s.h.Sum(nil)
	var le [field.Size]byte
	for i := range be {
		le[field.Size-1-i] = be[i]
	}
	out, err := field.FromBytes(le)
	if err != nil {
		panic(err) // the BN254 modulus is below the Pallas modulus
	}
	// chain the squeezed value so later absorbs depend on it
	s.h.Reset()
	s.h.Write(be)
	return out
}

func (s *mimcSponge) Reset() {
	s.h.Reset()
	if s.iv != nil {
		s.h.Write(s.iv)
	}
}
