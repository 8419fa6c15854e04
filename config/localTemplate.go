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
	"fmt"
	"runtime"

	"github.com/mina-go/minahash/protocol"
)

// Local holds the per-installation configuration settings.
//
// The versioned struct tags are the defaults of each config version and
// must not be modified once committed. A changed default gets a new
// version tag on the field and on Version.
type Local struct {
	// Version tracks the current version of the defaults so we can migrate old -> new
	Version uint32 `version[0]:"0" version[1]:"1"`

	// BaseLoggerDebugLevel specifies the logging level. The levels range from 0 (panic) to 5 (debug).
	BaseLoggerDebugLevel uint32 `version[0]:"4" version[1]:"3"`

	// LogSizeLimit is the log file size limit in bytes, used when logging to a file.
	LogSizeLimit uint64 `version[0]:"1073741824"`

	// LogArchiveName is the file the full log file is moved to.
	LogArchiveName string `version[0]:"minahash.archive.log"`

	// MerkleBuildWorkers is the number of goroutines hashing leaves and layers.
	// Zero selects GOMAXPROCS.
	MerkleBuildWorkers int `version[0]:"0"`

	// DefaultConsensusVersion selects the consensus parameters used when a
	// command does not name a version.
	DefaultConsensusVersion string `version[0]:"mainnet-v1" version[1]:"berkeley"`
}

// BuildWorkers returns the effective number of Merkle build workers.
func (cfg Local) BuildWorkers() int {
	if cfg.MerkleBuildWorkers > 0 {
		return cfg.MerkleBuildWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// ConsensusVersion parses DefaultConsensusVersion.
func (cfg Local) ConsensusVersion() (protocol.ConsensusVersion, error) {
	return protocol.ParseConsensusVersion(cfg.DefaultConsensusVersion)
}

// ConsensusParams returns the consensus parameters for DefaultConsensusVersion.
func (cfg Local) ConsensusParams() (ConsensusParams, error) {
	v, err := cfg.ConsensusVersion()
	if err != nil {
		return ConsensusParams{}, fmt.Errorf("DefaultConsensusVersion: %w", err)
	}
	return Consensus.Params(v)
}
