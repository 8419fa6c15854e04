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
	"fmt"

	"github.com/mina-go/minahash/protocol"
)

// Kind identifies one hash type of the protocol.
type Kind uint8

// The hash kinds.
const (
	KindStateHash Kind = iota
	KindChainHash
	KindLedgerHash
	KindCoinBaseHash
	KindEpochSeed
	KindStateBodyHash
	KindVrfOutputHash
	KindAuxHash
	KindPendingCoinbaseAuxHash
	KindNonSnarkStagedLedgerHash
	KindStagedLedgerHash

	numKinds
)

// Contribution describes what a kind feeds into a random-oracle input.
type Contribution uint8

const (
	// ContributesField appends the hash as one field element.
	ContributesField Contribution = iota
	// ContributesBytes appends the raw bytes as bits.
	ContributesBytes
	// ContributesComposite appends the contributions of the parts.
	ContributesComposite
)

func (c Contribution) String() string {
	switch c {
	case ContributesField:
		return "field"
	case ContributesBytes:
		return "bytes"
	case ContributesComposite:
		return "composite"
	}
	return fmt.Sprintf("Contribution(%d)", uint8(c))
}

// Size values for kinds without a fixed length.
const (
	SizeVariable  = 0
	SizeComposite = -1
)

// KindInfo is the registry entry of a kind.
type KindInfo struct {
	Name string
	// VersionByte is meaningful only when HasString is set.
	VersionByte protocol.VersionByte
	HasString   bool
	// RawString means the Base58Check payload is the raw bytes rather
	// than the versioned wire envelope.
	RawString bool
	// WireVersions lists the version tags of the binary envelope,
	// outermost first.
	WireVersions       []protocol.WireVersion
	FieldRepresentable bool
	Size               int
	Contribution       Contribution
}

var v1 = []protocol.WireVersion{protocol.WireVersionV1}

var registry = [numKinds]KindInfo{
	KindStateHash: {
		Name: "state_hash", VersionByte: protocol.StateHashVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	// chain hashes commit to a sequence of frontier states
	KindChainHash: {
		Name: "chain_hash", VersionByte: protocol.FrontierHashVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	KindLedgerHash: {
		Name: "ledger_hash", VersionByte: protocol.LedgerHashVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	KindCoinBaseHash: {
		Name: "coinbase_hash", VersionByte: protocol.ReceiptChainHashVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	KindEpochSeed: {
		Name: "epoch_seed", VersionByte: protocol.EpochSeedVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	KindStateBodyHash: {
		Name: "state_body_hash", VersionByte: protocol.StateBodyHashVersionByte, HasString: true,
		WireVersions: v1, FieldRepresentable: true, Size: 32, Contribution: ContributesField,
	},
	KindVrfOutputHash: {
		Name: "vrf_output_hash", VersionByte: protocol.VrfTruncatedOutputVersionByte, HasString: true,
		WireVersions: v1, Size: 32, Contribution: ContributesBytes,
	},
	KindAuxHash: {
		Name: "aux_hash", VersionByte: protocol.StagedLedgerHashAuxHashVersionByte, HasString: true, RawString: true,
		WireVersions: v1, Size: SizeVariable, Contribution: ContributesBytes,
	},
	KindPendingCoinbaseAuxHash: {
		Name: "pending_coinbase_aux_hash", VersionByte: protocol.StagedLedgerHashPendingCoinbaseAuxByte, HasString: true, RawString: true,
		WireVersions: v1, Size: SizeVariable, Contribution: ContributesBytes,
	},
	KindNonSnarkStagedLedgerHash: {
		Name:         "non_snark_staged_ledger_hash",
		WireVersions: v1, Size: SizeComposite, Contribution: ContributesComposite,
	},
	KindStagedLedgerHash: {
		Name:         "staged_ledger_hash",
		WireVersions: []protocol.WireVersion{protocol.WireVersionV1, protocol.WireVersionV1},
		Size:         SizeComposite, Contribution: ContributesComposite,
	},
}

func init() {
	if err := validateRegistry(registry[:]); err != nil {
		panic(err)
	}
}

// validateRegistry checks that no two kinds share a name or a version
// byte, and that field kinds are sized like field elements.
func validateRegistry(infos []KindInfo) error {
	owners := make(map[protocol.VersionByte]Kind)
	names := make(map[string]bool)
	for i, info := range infos {
		k := Kind(i)
		if names[info.Name] {
			return fmt.Errorf("hash kind name %q registered twice", info.Name)
		}
		names[info.Name] = true
		if len(info.WireVersions) == 0 {
			return fmt.Errorf("hash kind %s has no wire version", info.Name)
		}
		if info.FieldRepresentable && info.Size != 32 {
			return fmt.Errorf("field hash kind %s has size %d", info.Name, info.Size)
		}
		if !info.HasString {
			continue
		}
		if !info.VersionByte.Known() {
			return fmt.Errorf("hash kind %s uses unknown version byte %v", info.Name, info.VersionByte)
		}
		if prev, ok := owners[info.VersionByte]; ok {
			return fmt.Errorf("hash kinds %s and %s share version byte %v", infos[prev].Name, info.Name, info.VersionByte)
		}
		owners[info.VersionByte] = k
	}
	return nil
}

// Kinds returns every kind in registry order.
func Kinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Info returns the registry entry of k.
func (k Kind) Info() KindInfo {
	if k >= numKinds {
		panic(fmt.Sprintf("hashes: unknown kind %d", uint8(k)))
	}
	info := registry[k]
	info.WireVersions = append([]protocol.WireVersion(nil), info.WireVersions...)
	return info
}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return registry[k].Name
}

// KindByName looks a kind up by its registry name.
func KindByName(name string) (Kind, bool) {
	for i, info := range registry {
		if info.Name == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// KindForVersionByte returns the kind whose strings carry vb.
func KindForVersionByte(vb protocol.VersionByte) (Kind, bool) {
	for i, info := range registry {
		if info.HasString && info.VersionByte == vb {
			return Kind(i), true
		}
	}
	return 0, false
}
