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

// Package base58check implements the human-readable encoding of Mina
// objects: a version byte, the payload and a four byte double-SHA256
// checksum, written in the Bitcoin Base58 alphabet.
package base58check

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	mrbase58 "github.com/mr-tron/base58"

	"github.com/mina-go/minahash/protocol"
)

// ChecksumLen is the number of checksum bytes appended to the payload.
const ChecksumLen = 4

var (
	// ErrInvalidCharacter is returned for input outside the Base58 alphabet.
	ErrInvalidCharacter = errors.New("base58check: invalid character")
	// ErrChecksumMismatch is returned when the trailing checksum does not match.
	ErrChecksumMismatch = errors.New("base58check: checksum mismatch")
	// ErrUnknownVersionByte is returned when the version byte is not the expected one.
	ErrUnknownVersionByte = errors.New("base58check: unexpected version byte")
	// ErrMalformed is returned for input too short to hold a version byte and checksum.
	ErrMalformed = errors.New("base58check: malformed input")
)

// VersionByteError carries the expected and actual version bytes.
type VersionByteError struct {
	Want protocol.VersionByte
	Got  protocol.VersionByte
}

func (e *VersionByteError) Error() string {
	return fmt.Sprintf("base58check: version byte %v, want %v", e.Got, e.Want)
}

// Is makes errors.Is(err, ErrUnknownVersionByte) hold.
func (e *VersionByteError) Is(target error) bool {
	return target == ErrUnknownVersionByte
}

// Encode returns the Base58Check string of payload under vb.
func Encode(vb protocol.VersionByte, payload []byte) string {
	return base58.CheckEncode(payload, byte(vb))
}

// Decode parses s, verifies its checksum and checks that it carries
// version byte want. It returns the payload.
func Decode(want protocol.VersionByte, s string) ([]byte, error) {
	payload, got, err := decode(s)
	if err != nil {
		return nil, err
	}
	if got != want {
		return nil, &VersionByteError{Want: want, Got: got}
	}
	return payload, nil
}

// Inspect decodes s without knowing its kind and returns the version byte
// and payload.
func Inspect(s string) (protocol.VersionByte, []byte, error) {
	payload, vb, err := decode(s)
	return vb, payload, err
}

func decode(s string) ([]byte, protocol.VersionByte, error) {
	if s == "" {
		return nil, 0, ErrMalformed
	}
	// btcutil silently maps invalid characters to an empty result, so
	// validate the alphabet with a decoder that reports them.
	raw, err := mrbase58.Decode(s)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidCharacter, err)
	}
	if len(raw) < 1+ChecksumLen {
		return nil, 0, ErrMalformed
	}
	payload, vb, err := base58.CheckDecode(s)
	switch {
	case errors.Is(err, base58.ErrChecksum):
		return nil, 0, ErrChecksumMismatch
	case errors.Is(err, base58.ErrInvalidFormat):
		return nil, 0, ErrMalformed
	case err != nil:
		return nil, 0, err
	}
	return payload, protocol.VersionByte(vb), nil
}
