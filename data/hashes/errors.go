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
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch is matched by every LengthError.
	ErrLengthMismatch = errors.New("hash has the wrong length")
	// ErrNoStringForm is returned when a kind has no Base58Check encoding.
	ErrNoStringForm = errors.New("hash kind has no string form")
	// ErrUnknownKind is returned for a Kind outside the registry.
	ErrUnknownKind = errors.New("unknown hash kind")
	// ErrMissingField is returned for a JSON object lacking a member.
	ErrMissingField = errors.New("missing field")
)

// LengthError reports a byte sequence of the wrong length for a kind.
type LengthError struct {
	Kind Kind
	Want int
	Got  int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%v: got %d bytes, want %d", e.Kind, e.Got, e.Want)
}

// Is makes errors.Is(err, ErrLengthMismatch) hold.
func (e *LengthError) Is(target error) bool {
	return target == ErrLengthMismatch
}
