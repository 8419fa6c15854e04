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

package hashes

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/mina-go/minahash/crypto/field"
)

// FromBytes builds a hash of type H from its content bytes.
//
//	lh, err := hashes.FromBytes[hashes.LedgerHash](b)
func FromBytes[H any, P interface {
	*H
	SetBytes([]byte) error
}](b []byte) (H, error) {
	var h H
	err := P(&h).SetBytes(b)
	return h, err
}

// FromField builds a field-kind hash from a field element. Byte-string
// kinds do not satisfy the constraint.
func FromField[H any, P interface {
	*H
	SetField(field.Fp)
}](f field.Fp) H {
	var h H
	P(&h).SetField(f)
	return h
}

// Parse decodes the Base58Check form of a hash of type H.
func Parse[H any, P interface {
	*H
	UnmarshalText([]byte) error
}](s string) (H, error) {
	var h H
	err := P(&h).UnmarshalText([]byte(s))
	return h, err
}

// FromBase reinterprets untyped content as a field-kind hash. It is the
// only way to move a value from one kind to another.
func FromBase[H any, P interface {
	*H
	SetBytes([]byte) error
}](b BaseHash) (H, error) {
	return FromBytes[H, P](b[:])
}

// Value is implemented by pointers to every hash type, for code that
// picks a kind at run time.
type Value interface {
	Kind() Kind
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	json.Marshaler
	json.Unmarshaler
}

// New returns a pointer to the zero value of kind k.
func New(k Kind) (Value, error) {
	switch k {
	case KindStateHash:
		return new(StateHash), nil
	case KindChainHash:
		return new(ChainHash), nil
	case KindLedgerHash:
		return new(LedgerHash), nil
	case KindCoinBaseHash:
		return new(CoinBaseHash), nil
	case KindEpochSeed:
		return new(EpochSeed), nil
	case KindStateBodyHash:
		return new(StateBodyHash), nil
	case KindVrfOutputHash:
		return new(VrfOutputHash), nil
	case KindAuxHash:
		return new(AuxHash), nil
	case KindPendingCoinbaseAuxHash:
		return new(PendingCoinbaseAuxHash), nil
	case KindNonSnarkStagedLedgerHash:
		return new(NonSnarkStagedLedgerHash), nil
	case KindStagedLedgerHash:
		return new(StagedLedgerHash), nil
	}
	return nil, fmt.Errorf("%w %d", ErrUnknownKind, uint8(k))
}

// ParseKind decodes s as a hash of kind k.
func ParseKind(k Kind, s string) (Value, error) {
	v, err := New(k)
	if err != nil {
		return nil, err
	}
	if !k.Info().HasString {
		return nil, fmt.Errorf("%v: %w", k, ErrNoStringForm)
	}
	if err := v.(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return v, nil
}
