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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mina-go/minahash/crypto/base58check"
	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/protocol/binprot"
)

// maxBlobLen bounds the length of a decoded variable-length hash.
const maxBlobLen = 1 << 16

type (
	vrfOutputHashKind          struct{}
	auxHashKind                struct{}
	pendingCoinbaseAuxHashKind struct{}
)

func (vrfOutputHashKind) kind() Kind          { return KindVrfOutputHash }
func (auxHashKind) kind() Kind                { return KindAuxHash }
func (pendingCoinbaseAuxHashKind) kind() Kind { return KindPendingCoinbaseAuxHash }

// Blob is a hash of kind K that is not a field element: a byte string,
// of fixed length for some kinds. Blobs are immutable and comparable.
type Blob[K kindMarker] struct {
	_ [0]K
	b string
}

// The byte-string hash kinds.
type (
	VrfOutputHash          = Blob[vrfOutputHashKind]
	AuxHash                = Blob[auxHashKind]
	PendingCoinbaseAuxHash = Blob[pendingCoinbaseAuxHashKind]
)

// Kind returns the kind of h.
func (h Blob[K]) Kind() Kind {
	var k K
	return k.kind()
}

// Bytes returns a copy of the content.
func (h Blob[K]) Bytes() []byte {
	return []byte(h.b)
}

// Len returns the content length.
func (h Blob[K]) Len() int {
	return len(h.b)
}

// Cmp orders hashes of one kind by their bytes.
func (h Blob[K]) Cmp(o Blob[K]) int {
	return strings.Compare(h.b, o.b)
}

// ToROInput appends the content as bits.
func (h Blob[K]) ToROInput() *roinput.Input {
	return roinput.New().AppendBytes([]byte(h.b))
}

// SetBytes sets h to a copy of b, checking the length of fixed-size kinds.
func (h *Blob[K]) SetBytes(b []byte) error {
	size := h.Kind().Info().Size
	if size > 0 && len(b) != size {
		return &LengthError{Kind: h.Kind(), Want: size, Got: len(b)}
	}
	if len(b) > maxBlobLen {
		return &LengthError{Kind: h.Kind(), Want: maxBlobLen, Got: len(b)}
	}
	h.b = string(b)
	return nil
}

func (h Blob[K]) writeTo(w *binprot.Writer) {
	info := h.Kind().Info()
	w.Version(info.WireVersions[0])
	if info.Size > 0 {
		w.Raw([]byte(h.b))
	} else {
		w.String([]byte(h.b))
	}
}

func (h *Blob[K]) readFrom(r *binprot.Reader) error {
	info := h.Kind().Info()
	if err := r.Version(info.WireVersions[0]); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	var b []byte
	var err error
	if info.Size > 0 {
		b, err = r.Raw(info.Size)
	} else {
		b, err = r.String(maxBlobLen)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	return h.SetBytes(b)
}

// MarshalBinary returns the versioned bin_prot envelope of h.
func (h Blob[K]) MarshalBinary() ([]byte, error) {
	w := binprot.NewWriter(make([]byte, 0, 2+len(h.b)))
	h.writeTo(w)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes a versioned bin_prot envelope.
func (h *Blob[K]) UnmarshalBinary(data []byte) error {
	r := binprot.NewReader(data)
	var v Blob[K]
	if err := v.readFrom(r); err != nil {
		return err
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	*h = v
	return nil
}

func (h Blob[K]) stringPayload() []byte {
	if h.Kind().Info().RawString {
		return []byte(h.b)
	}
	payload, _ := h.MarshalBinary()
	return payload
}

// String returns the Base58Check form of h.
func (h Blob[K]) String() string {
	return base58check.Encode(h.Kind().Info().VersionByte, h.stringPayload())
}

// MarshalText implements encoding.TextMarshaler.
func (h Blob[K]) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText parses the Base58Check form.
func (h *Blob[K]) UnmarshalText(text []byte) error {
	info := h.Kind().Info()
	payload, err := base58check.Decode(info.VersionByte, string(text))
	if err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	if info.RawString {
		return h.SetBytes(payload)
	}
	return h.UnmarshalBinary(payload)
}

// MarshalJSON encodes h as its quoted Base58Check string.
func (h Blob[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a quoted Base58Check string.
func (h *Blob[K]) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%v: %w", h.Kind(), err)
	}
	return h.UnmarshalText([]byte(s))
}
