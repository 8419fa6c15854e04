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

// Package keys holds the compressed public key form used to identify
// accounts.
package keys

import (
	"encoding/json"
	"fmt"

	"github.com/mina-go/minahash/crypto/base58check"
	"github.com/mina-go/minahash/crypto/field"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/protocol"
	"github.com/mina-go/minahash/protocol/binprot"
)

// PublicKey is a compressed curve point: the x coordinate and the parity
// of y.
type PublicKey struct {
	X     field.Fp
	IsOdd bool
}

// ParsePublicKey decodes the Base58Check form of a public key.
func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	err := pk.UnmarshalText([]byte(s))
	return pk, err
}

// ToROInput appends x as a field element and the parity as one bit.
func (pk PublicKey) ToROInput() *roinput.Input {
	return roinput.New().AppendField(pk.X).AppendBool(pk.IsOdd)
}

// MarshalBinary returns the versioned bin_prot encoding: the key and the
// point each carry a version tag.
func (pk PublicKey) MarshalBinary() ([]byte, error) {
	w := binprot.NewWriter(make([]byte, 0, 2+field.Size+1))
	w.Version(protocol.WireVersionV1)
	w.Version(protocol.WireVersionV1)
	x := pk.X.Bytes()
	w.Raw(x[:])
	w.Bool(pk.IsOdd)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes the versioned bin_prot encoding.
func (pk *PublicKey) UnmarshalBinary(data []byte) error {
	r := binprot.NewReader(data)
	for i := 0; i < 2; i++ {
		if err := r.Version(protocol.WireVersionV1); err != nil {
			return fmt.Errorf("public key: %w", err)
		}
	}
	xb, err := r.Raw(field.Size)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	x, err := field.FromSlice(xb)
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	odd, err := r.Bool()
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	*pk = PublicKey{X: x, IsOdd: odd}
	return nil
}

// String returns the Base58Check form, which starts with B62.
func (pk PublicKey) String() string {
	payload, _ := pk.MarshalBinary()
	return base58check.Encode(protocol.NonZeroCurvePointCompressedVersionByte, payload)
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	payload, err := base58check.Decode(protocol.NonZeroCurvePointCompressedVersionByte, string(text))
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	return pk.UnmarshalBinary(payload)
}

// MarshalJSON encodes the key as its quoted Base58Check string.
func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(pk.String())
}

// UnmarshalJSON decodes a quoted Base58Check string.
func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("public key: %w", err)
	}
	return pk.UnmarshalText([]byte(s))
}
