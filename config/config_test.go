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
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/minahash/crypto/merkle"
	"github.com/mina-go/minahash/protocol"
	"github.com/mina-go/minahash/test/partitiontest"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFilename), []byte(content), 0600))
}

func TestVersionedDefaults(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, uint32(1), getLatestConfigVersion())

	v0 := GetVersionedDefaultLocalConfig(0)
	require.Equal(t, Local{
		Version:                 0,
		BaseLoggerDebugLevel:    4,
		LogSizeLimit:            1073741824,
		LogArchiveName:          "minahash.archive.log",
		MerkleBuildWorkers:      0,
		DefaultConsensusVersion: "mainnet-v1",
	}, v0)

	v1 := GetVersionedDefaultLocalConfig(1)
	require.Equal(t, uint32(1), v1.Version)
	require.Equal(t, uint32(3), v1.BaseLoggerDebugLevel)
	require.Equal(t, "berkeley", v1.DefaultConsensusVersion)
	require.Equal(t, v1, GetDefaultLocal())
}

func TestSaveThenLoad(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	require.NoError(t, GetDefaultLocal().SaveToDisk(dir))

	content, err := os.ReadFile(filepath.Join(dir, ConfigFilename))
	require.NoError(t, err)
	require.Contains(t, string(content), `"Version": 1`)
	require.NotContains(t, string(content), "LogSizeLimit")

	c, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, GetDefaultLocal(), c)

	custom := GetDefaultLocal()
	custom.MerkleBuildWorkers = 8
	custom.BaseLoggerDebugLevel = 5
	custom.DefaultConsensusVersion = string(protocol.ConsensusMainnetV1)
	require.NoError(t, custom.SaveToDisk(dir))

	c, err = LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, custom, c)
}

func TestLoadMissingConfig(t *testing.T) {
	partitiontest.PartitionTest(t)

	c, err := LoadConfigFromDisk(t.TempDir())
	require.ErrorIs(t, err, fs.ErrNotExist)
	require.Equal(t, GetDefaultLocal().LogSizeLimit, c.LogSizeLimit)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	writeConfig(t, dir, `{"Version": 1, "GossipFanout": 4}`)
	_, err := LoadConfigFromDisk(dir)
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()

	// values still at the version 0 defaults follow the new defaults
	writeConfig(t, dir, `{"BaseLoggerDebugLevel": 4, "DefaultConsensusVersion": "mainnet-v1"}`)
	c, err := LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, uint32(1), c.Version)
	require.Equal(t, uint32(3), c.BaseLoggerDebugLevel)
	require.Equal(t, "berkeley", c.DefaultConsensusVersion)

	// explicitly changed values are kept
	writeConfig(t, dir, `{"Version": 0, "BaseLoggerDebugLevel": 5, "MerkleBuildWorkers": 2}`)
	c, err = LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, uint32(1), c.Version)
	require.Equal(t, uint32(5), c.BaseLoggerDebugLevel)
	require.Equal(t, 2, c.MerkleBuildWorkers)

	writeConfig(t, dir, `{"Version": 9}`)
	_, err = LoadConfigFromDisk(dir)
	require.ErrorContains(t, err, "unexpected config version")
}

func TestLocalHelpers(t *testing.T) {
	partitiontest.PartitionTest(t)

	cfg := GetDefaultLocal()
	require.Equal(t, runtime.GOMAXPROCS(0), cfg.BuildWorkers())
	cfg.MerkleBuildWorkers = 3
	require.Equal(t, 3, cfg.BuildWorkers())

	params, err := cfg.ConsensusParams()
	require.NoError(t, err)
	require.Equal(t, merkle.Kimchi, params.MerkleGeneration)

	cfg.DefaultConsensusVersion = "testnet"
	_, err = cfg.ConsensusParams()
	require.Error(t, err)
}

func TestFormatVersion(t *testing.T) {
	partitiontest.PartitionTest(t)

	s := FormatVersionAndLicense()
	require.True(t, strings.HasPrefix(s, GetCurrentVersion().String()))
	require.Contains(t, s, "AGPL")
	require.Contains(t, s, "[dev] (commit #unknown)")
}
