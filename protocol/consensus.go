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

package protocol

import "fmt"

// ConsensusVersion is a string that identifies a version of the
// consensus protocol.
type ConsensusVersion string

const (
	// ConsensusMainnetV1 is the original mainnet protocol. Its ledger
	// commitments use the legacy Merkle generation.
	ConsensusMainnetV1 = ConsensusVersion("mainnet-v1")

	// ConsensusBerkeley is the Berkeley hard fork, which moved ledger
	// commitments to the kimchi Merkle generation.
	ConsensusBerkeley = ConsensusVersion("berkeley")
)

// ConsensusCurrentVersion is the latest version and should be used
// when a specific version is not provided.
const ConsensusCurrentVersion = ConsensusBerkeley

// ConsensusVersionList lists every known consensus version, oldest first.
var ConsensusVersionList = []ConsensusVersion{
	ConsensusMainnetV1,
	ConsensusBerkeley,
}

// ParseConsensusVersion checks that s names a known consensus version.
func ParseConsensusVersion(s string) (ConsensusVersion, error) {
	for _, cv := range ConsensusVersionList {
		if string(cv) == s {
			return cv, nil
		}
	}
	return "", fmt.Errorf("unknown consensus version %q", s)
}

// WireVersion is the version tag that prefixes a versioned bin_prot payload.
type WireVersion uint64

// WireVersionV1 is the only version tag in use by the hash types.
const WireVersionV1 WireVersion = 1
