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

// Package hashes defines the typed hashes of the Mina protocol. Each kind
// is its own Go type: a LedgerHash cannot be passed where a StateHash is
// expected, and conversions between kinds go through an explicit
// FromBase call. Every kind round-trips through Base58Check text, the
// versioned bin_prot envelope, JSON and msgpack.
package hashes

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mina-go/minahash/crypto/base58check"
	"github.com/mina-go/minahash/crypto/field"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/protocol/binprot"
)

// BaseHash is the untyped 32-byte content shared by all field kinds.
type BaseHash [32]byte

// kindMarker is implemented by the zero-size tag types below. It pins a
// generic hash to one kind at compile time.
type kindMarker interface {
	comparable
	kind() Kind
}

// fieldKind marks kinds whose content is a field element.
type fieldKind interface {
	kindMarker
	fieldKind()
}

type (
	stateHashKind     struct{}
	chainHashKind     struct{}
	ledgerHashKind    struct{}
	coinBaseHashKind  struct{}
	epochSeedKind     struct{}
	stateBodyHashKind struct{}
)

func (stateHashKind) kind() Kind     { return KindStateHash }
func (chainHashKind) kind() Kind     { return KindChainHash }
func (ledgerHashKind) kind() Kind    { return KindLedgerHash }
func (coinBaseHashKind) kind() Kind  { return KindCoinBaseHash }
func (epochSeedKind) kind() Kind     { return KindEpochSeed }
func (stateBodyHashKind) kind() Kind { return KindStateBodyHash }

func (stateHashKind) fieldKind()     {}
func (chainHashKind) fieldKind()     {}
func (ledgerHashKind) fieldKind()    {}
func (coinBaseHashKind) fieldKind()  {}
func (epochSeedKind) fieldKind()     {}
func (stateBodyHashKind) fieldKind() {}

// Hash is a 32-byte hash of kind K whose content is always a canonical
// field element. The zero value is the zero element.
type Hash[K fieldKind] struct {
	_ [0]K
	b BaseHash
}

// The field-representable hash kinds.
type (
	StateHash     = Hash[stateHashKind]
	ChainHash     = Hash[chainHashKind]
	LedgerHash    = Hash[ledgerHashKind]
	CoinBaseHash  = Hash[coinBaseHashKind]
	EpochSeed     = Hash[epochSeedKind]
	StateBodyHash = Hash[stateBodyHashKind]
)

// Kind returns the kind of h.
func (h Hash[K]) Kind() Kind {
	var k K
	return k.kind()
}

// Base returns the untyped content of h.
func (h Hash[K]) Base() BaseHash {
	return h.b
}

// Bytes returns a copy of the 32 content bytes.
func (h Hash[K]) Bytes() []byte {
	return append([]byte(nil), h.b[:]...)
}

// IsZero reports whether h is the zero hash.
func (h Hash[K]) IsZero() bool {
	return h.b == BaseHash{}
}

// Cmp orders hashes of one kind by their bytes.
func (h Hash[K]) Cmp(o Hash[K]) int {
	return bytes.Compare(h.b[:], o.b[:])
}

// ToField returns the content as a field element.
func (h Hash[K]) ToField() (field.Fp, error) {
	return field.FromBytes(h.b)
}

// ToROInput appends the hash as one field element.
func (h Hash[K]) ToROInput() *roinput.Input {
	f, err := h.ToField()
	if err != nil {
		// every constructor checks the range
		panic(fmt.Sprintf("%v holds a non-canonical field element", h.Kind()))
	}
	return roinput.New().AppendField(f)
}

// SetBytes sets h from exactly 32 bytes holding a canonical field element.
func (h *Hash[K]) SetBytes(b []byte) error {
	if len(b) != len(h.b) {
		return &LengthError{Kind: h.Kind(), Want: len(h.b), Got: len(b)}
	}
	if _, err := field.FromSlice(b); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	copy(h.b[:], b)
	return nil
}

// SetField sets h to the encoding of f.
func (h *Hash[K]) SetField(f field.Fp) {
	h.b = f.Bytes()
}

func (h Hash[K]) writeTo(w *binprot.Writer) {
	w.Version(h.Kind().Info().WireVersions[0])
	w.Raw(h.b[:])
}

func (h *Hash[K]) readFrom(r *binprot.Reader) error {
	if err := r.Version(h.Kind().Info().WireVersions[0]); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	b, err := r.Raw(len(h.b))
	if err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	return h.SetBytes(b)
}

// MarshalBinary returns the versioned bin_prot envelope of h.
func (h Hash[K]) MarshalBinary() ([]byte, error) {
	w := binprot.NewWriter(make([]byte, 0, 1+len(h.b)))
	h.writeTo(w)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a versioned bin_prot envelope.
func (h *Hash[K]) UnmarshalBinary(data []byte) error {
	r := binprot.NewReader(data)
	var v Hash[K]
	if err := v.readFrom(r); err != nil {
		return err
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	*h = v
	return nil
}

// String returns the Base58Check form of h.
func (h Hash[K]) String() string {
	payload, _ := h.MarshalBinary()
	return base58check.Encode(h.Kind().Info().VersionByte, payload)
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash[K]) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the Base58Check form.
func (h *Hash[K]) UnmarshalText(text []byte) error {
	payload, err := base58check.Decode(h.Kind().Info().VersionByte, string(text))
	if err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	return h.UnmarshalBinary(payload)
}

// MarshalJSON encodes h as its quoted Base58Check string.
func (h Hash[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a quoted Base58Check string.
func (h *Hash[K]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	return h.UnmarshalText([]byte(s))
}
