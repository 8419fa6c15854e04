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

// Package binprot reads and writes the subset of the OCaml bin_prot
// encoding used by versioned Mina wire types: variable-length naturals,
// booleans, length-prefixed strings and version tags.
package binprot

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mina-go/minahash/protocol"
)

const (
	codeInt16 = 0xfe
	codeInt32 = 0xfd
	codeInt64 = 0xfc
)

var (
	// ErrUnsupportedVersion is matched by every VersionError.
	ErrUnsupportedVersion = errors.New("unsupported bin_prot version")
	// ErrShortBuffer is returned when the input ends inside a value.
	ErrShortBuffer = errors.New("bin_prot: unexpected end of input")
	// ErrTrailingBytes is returned when input remains after a complete value.
	ErrTrailingBytes = errors.New("bin_prot: trailing bytes after value")
	// ErrNonCanonical is returned for a natural encoded in more bytes than needed.
	ErrNonCanonical = errors.New("bin_prot: non-canonical integer encoding")
	// ErrInvalidBool is returned for a bool byte other than 0 or 1.
	ErrInvalidBool = errors.New("bin_prot: invalid bool")
	// ErrTooLong is returned when a string length exceeds the caller's bound.
	ErrTooLong = errors.New("bin_prot: string too long")
)

// VersionError reports a version tag that a decoder does not understand.
type VersionError struct {
	Want protocol.WireVersion
	Got  uint64
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("bin_prot: version %d not supported (want %d)", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrUnsupportedVersion) hold for any VersionError.
func (e *VersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// Writer appends bin_prot values to a byte slice.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer appending to buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Nat0 writes a non-negative integer in the shortest bin_prot form.
func (w *Writer) Nat0(v uint64) {
	switch {
	case v < 0x80:
		w.buf = append(w.buf, byte(v))
	case v < 0x10000:
		w.buf = append(w.buf, codeInt16)
		w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v))
	case v < 0x100000000:
		w.buf = append(w.buf, codeInt32)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
	default:
		w.buf = append(w.buf, codeInt64)
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

// Version writes a version tag.
func (w *Writer) Version(v protocol.WireVersion) {
	w.Nat0(uint64(v))
}

// Bool writes a boolean as a single byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// String writes b prefixed by its length.
func (w *Writer) String(b []byte) {
	w.Nat0(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

// Raw writes b as is, for fixed-width fields.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Bytes returns everything written so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Reader consumes bin_prot values from a byte slice.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.off < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Nat0 reads a non-negative integer. Encodings longer than necessary
// are rejected so that decoding and re-encoding is the identity.
func (r *Reader) Nat0() (uint64, error) {
	lead, err := r.take(1)
	if err != nil {
		return 0, err
	}
	switch c := lead[0]; {
	case c < 0x80:
		return uint64(c), nil
	case c == codeInt16:
		b, err := r.take(2)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint16(b))
		if v < 0x80 {
			return 0, ErrNonCanonical
		}
		return v, nil
	case c == codeInt32:
		b, err := r.take(4)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.LittleEndian.Uint32(b))
		if v < 0x10000 {
			return 0, ErrNonCanonical
		}
		return v, nil
	case c == codeInt64:
		b, err := r.take(8)
		if err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(b)
		if v < 0x100000000 {
			return 0, ErrNonCanonical
		}
		return v, nil
	default:
		return 0, fmt.Errorf("bin_prot: invalid integer code 0x%02x", c)
	}
}

// Version reads a version tag and checks it against want.
func (r *Reader) Version(want protocol.WireVersion) error {
	v, err := r.Nat0()
	if err != nil {
		return err
	}
	if v != uint64(want) {
		return &VersionError{Want: want, Got: v}
	}
	return nil
}

// Bool reads a single-byte boolean.
func (r *Reader) Bool() (bool, error) {
	b, err := r.take(1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// String reads a length-prefixed byte string of at most maxLen bytes.
// The result is a copy.
func (r *Reader) String(maxLen int) ([]byte, error) {
	n, err := r.Nat0()
	if err != nil {
		return nil, err
	}
	if n > uint64(maxLen) {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLong, n, maxLen)
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

// Raw reads exactly n bytes. The result aliases the input.
func (r *Reader) Raw(n int) ([]byte, error) {
	return r.take(n)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Done checks that the whole input has been consumed.
func (r *Reader) Done() error {
	if n := r.Remaining(); n != 0 {
		return fmt.Errorf("%w: %d left", ErrTrailingBytes, n)
	}
	return nil
}
