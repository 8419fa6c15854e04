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

package merkle

import (
	"fmt"
)

// Generation selects the family of domain strings a tree is hashed with.
// Digests of different generations are never comparable.
type Generation uint8

const (
	// Legacy is the generation used before the Berkeley hard fork.
	Legacy Generation = iota
	// Kimchi is the current generation.
	Kimchi

	// MaxGeneration is one past the last valid generation.
	MaxGeneration
)

var generationNames = [MaxGeneration]string{
	Legacy: "legacy",
	Kimchi: "kimchi",
}

var generationPrefixes = [MaxGeneration]string{
	Legacy: "Coda",
	Kimchi: "Mina",
}

// Validate checks that g is a known generation.
func (g Generation) Validate() error {
	if g >= MaxGeneration {
		return fmt.Errorf("unknown merkle generation %d", uint8(g))
	}
	return nil
}

func (g Generation) String() string {
	if g.Validate() != nil {
		return fmt.Sprintf("Generation(%d)", uint8(g))
	}
	return generationNames[g]
}

// NodeDomain is the domain string for merging two children at level, where
// level 0 merges two leaves.
func (g Generation) NodeDomain(level uint32) string {
	return fmt.Sprintf("%sMklTree%03d", generationPrefixes[g], level)
}

// AccountDomain is the domain string for hashing a leaf.
func (g Generation) AccountDomain() string {
	return generationPrefixes[g] + "Account"
}

// ParseGeneration returns the generation named s.
func ParseGeneration(s string) (Generation, error) {
	for g, name := range generationNames {
		if name == s {
			return Generation(g), nil
		}
	}
	return 0, fmt.Errorf("unknown merkle generation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Generation) MarshalText() ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Generation) UnmarshalText(b []byte) error {
	v, err := ParseGeneration(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}
