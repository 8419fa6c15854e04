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

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"

	"github.com/mina-go/minahash/crypto/merkle"
	"github.com/mina-go/minahash/protocol"
	"github.com/mina-go/minahash/util/codecs"
)

// ConsensusParams specifies settings that might vary based on the
// particular version of the consensus protocol.
type ConsensusParams struct {
	// LedgerDepth is the height of the account ledger Merkle tree.
	LedgerDepth uint32

	// MerkleGeneration selects the domain strings the ledger tree is
	// hashed with.
	MerkleGeneration merkle.Generation
}

// ConsensusProtocols defines a set of supported protocol versions and their
// corresponding parameters.
type ConsensusProtocols map[protocol.ConsensusVersion]ConsensusParams

// Consensus tracks the protocol-level settings for different versions of the
// consensus protocol.
var Consensus ConsensusProtocols

// ConfigurableConsensusProtocolsFilename defines a set of consensus protocol
// overrides loaded from a data directory.
const ConfigurableConsensusProtocolsFilename = "consensus.json"

func init() {
	Consensus = make(ConsensusProtocols)

	initConsensusProtocols()
}

func initConsensusProtocols() {
	v1 := ConsensusParams{
		LedgerDepth:      20,
		MerkleGeneration: merkle.Legacy,
	}
	Consensus[protocol.ConsensusMainnetV1] = v1

	// berkeley switches the ledger to the kimchi domains and keeps the depth
	berkeley := v1
	berkeley.MerkleGeneration = merkle.Kimchi
	Consensus[protocol.ConsensusBerkeley] = berkeley
}

// Validate checks that the parameters describe a buildable ledger tree.
func (cp ConsensusParams) Validate() error {
	if cp.LedgerDepth == 0 || cp.LedgerDepth > merkle.MaxHeight {
		return fmt.Errorf("ledger depth %d out of range [1, %d]", cp.LedgerDepth, merkle.MaxHeight)
	}
	return cp.MerkleGeneration.Validate()
}

// Params returns the parameters for the given consensus version.
func (cp ConsensusProtocols) Params(v protocol.ConsensusVersion) (ConsensusParams, error) {
	params, ok := cp[v]
	if !ok {
		return ConsensusParams{}, fmt.Errorf("unknown consensus version %q", v)
	}
	return params, nil
}

// DeepCopy creates a deep copy of a consensus protocols map.
func (cp ConsensusProtocols) DeepCopy() ConsensusProtocols {
	return maps.Clone(cp)
}

// Merge merges a configurable consensus on top of the existing consensus protocol and returns
// a new consensus protocol without modifying any of the incoming structures.
func (cp ConsensusProtocols) Merge(configurableConsensus ConsensusProtocols) ConsensusProtocols {
	staticConsensus := cp.DeepCopy()

	for consensusVersion, consensusParams := range configurableConsensus {
		if consensusParams == (ConsensusParams{}) {
			// an empty entry deletes the version
			delete(staticConsensus, consensusVersion)
		} else {
			staticConsensus[consensusVersion] = consensusParams
		}
	}

	return staticConsensus
}

// SaveConfigurableConsensus saves the configurable protocols file to the provided data directory.
func SaveConfigurableConsensus(dataDirectory string, params ConsensusProtocols) error {
	consensusProtocolPath := filepath.Join(dataDirectory, ConfigurableConsensusProtocolsFilename)
	return codecs.SaveObjectToFile(consensusProtocolPath, params, true)
}

// LoadConfigurableConsensusProtocols loads the configurable protocols from the data directory
func LoadConfigurableConsensusProtocols(dataDirectory string) error {
	newConsensus, err := PreloadConfigurableConsensusProtocols(dataDirectory)
	if err != nil {
		return err
	}
	if newConsensus != nil {
		Consensus = newConsensus
	}
	return nil
}

// PreloadConfigurableConsensusProtocols loads the configurable protocols from the data directory
// and merges it with a copy of the Consensus map. Then, it returns it to the caller.
func PreloadConfigurableConsensusProtocols(dataDirectory string) (ConsensusProtocols, error) {
	consensusProtocolPath := filepath.Join(dataDirectory, ConfigurableConsensusProtocolsFilename)

	configurableConsensus := make(ConsensusProtocols)
	err := codecs.LoadObjectFromFile(consensusProtocolPath, &configurableConsensus)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// this file is not required, only optional. if it's missing, no harm is done.
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", consensusProtocolPath, err)
	}
	for v, params := range configurableConsensus {
		if params == (ConsensusParams{}) {
			continue
		}
		if err = params.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", consensusProtocolPath, v, err)
		}
	}
	return Consensus.Merge(configurableConsensus), nil
}
