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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mina-go/minahash/config"
	"github.com/mina-go/minahash/crypto/base58check"
	"github.com/mina-go/minahash/logging"
	"github.com/mina-go/minahash/test/partitiontest"
)

const (
	ledgerHashString = "jxV4SS44wHUVrGEucCsfxLisZyUC5QddsiokGH3kz5xm2hJWZ25"
	ledgerHashBinary = "01b6af7af85d8ef536a1aa676f7b8030da54d011f51e6f3dd2a814a04f6f25a702"
	stagedJSON       = `{"non_snark":{"ledger_hash":"jxV4SS44wHUVrGEucCsfxLisZyUC5QddsiokGH3kz5xm2hJWZ25","aux_hash":"UDRa5ahSJpT9TBpuk2mGy3pRd49MiJgiFNaRPWU8ijR4PLvGYE","pending_coinbase_aux":"WQKMFwaeij1u466F7ips2UAxHfLkb3sF9L9c5mM9UC1UQxfSvK"},"pending_coinbase_hash":"2n1tLdP2gkifmyVmrmzYXTS4ohPbZPJn6Qq4x55ywrbRWB4543cC"}`
	stagedBinary     = "01010101b6af7af85d8ef536a1aa676f7b8030da54d011f51e6f3dd2a814a04f6f25a7020120000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f0120202122232425262728292a2b2c2d2e2f303132333435363738393a3b3c3d3e3f0101b50b2556dea447579421b31c2d695465d58b3e0897fec85791abe7781817a221"
)

var genesisFile = filepath.Join("..", "..", "data", "ledger", "testdata", "genesis.json")

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(logging.TestingLog(t))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "--version")
	require.NoError(t, err)
	require.Contains(t, out, "AGPL")
}

func TestDecode(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "decode", ledgerHashString)
	require.NoError(t, err)
	require.Contains(t, out, "kind:    ledger_hash\n")
	require.Contains(t, out, "content: "+ledgerHashBinary[2:]+"\n")
	require.Contains(t, out, "binary:  "+ledgerHashBinary+"\n")
	require.Contains(t, out, `json:    "`+ledgerHashString+`"`)

	stdinOut, err := runCmd(t, ledgerHashString+"\n", "decode", "--kind", "ledger_hash", "-")
	require.NoError(t, err)
	require.Equal(t, out, stdinOut)

	out, err = runCmd(t, "", "decode", "--raw", ledgerHashString)
	require.NoError(t, err)
	require.Equal(t, "version byte: 0x05\npayload:      "+ledgerHashBinary+"\n", out)

	// same content under the chain hash version byte
	out, err = runCmd(t, "", "decode", "bNrVH59tnNLXLFUMXoysnFEd8mpMf8uUS6gBovxGWLFUhUNFvNg")
	require.NoError(t, err)
	require.Contains(t, out, "kind:    chain_hash\n")
	require.Contains(t, out, "binary:  "+ledgerHashBinary+"\n")

	_, err = runCmd(t, "", "decode", "--kind", "state_hash", ledgerHashString)
	require.ErrorIs(t, err, base58check.ErrUnknownVersionByte)

	_, err = runCmd(t, "", "decode", "--kind", "block_hash", ledgerHashString)
	require.ErrorContains(t, err, "unknown kind")

	_, err = runCmd(t, "", "decode", "jxV4SS44wHUVrGEucCsfxLisZyUC5QddsiokGH3kz5xm2hJWZ26")
	require.ErrorIs(t, err, base58check.ErrChecksumMismatch)
}

func TestEncode(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "encode", "--kind", "ledger_hash", ledgerHashBinary[2:])
	require.NoError(t, err)
	require.Equal(t, ledgerHashString+"\n", out)

	out, err = runCmd(t, "", "encode", "-k", "aux_hash", "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	require.NoError(t, err)
	require.Equal(t, "UDRa5ahSJpT9TBpuk2mGy3pRd49MiJgiFNaRPWU8ijR4PLvGYE\n", out)

	_, err = runCmd(t, "", "encode", "--kind", "ledger_hash", "b6af")
	require.Error(t, err)

	_, err = runCmd(t, "", "encode", "--kind", "staged_ledger_hash", "00")
	require.Error(t, err)

	_, err = runCmd(t, "", "encode", "--kind", "ledger_hash", "zz")
	require.ErrorContains(t, err, "not hex")
}

func TestConvert(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "convert", "--kind", "staged_ledger_hash", stagedJSON)
	require.NoError(t, err)
	require.Equal(t, stagedBinary+"\n", out)

	out, err = runCmd(t, "", "convert", "--kind", "staged_ledger_hash", stagedBinary)
	require.NoError(t, err)
	require.JSONEq(t, stagedJSON, out)

	out, err = runCmd(t, stagedJSON, "convert", "--kind", "staged_ledger_hash", "--to", "msgp", "-")
	require.NoError(t, err)
	msgp := strings.TrimSpace(out)
	out, err = runCmd(t, "", "convert", "--kind", "staged_ledger_hash", "--from", "msgp", msgp)
	require.NoError(t, err)
	require.JSONEq(t, stagedJSON, out)

	out, err = runCmd(t, "", "convert", "--kind", "ledger_hash", `"`+ledgerHashString+`"`)
	require.NoError(t, err)
	require.Equal(t, ledgerHashBinary+"\n", out)

	// trailing bytes are rejected
	_, err = runCmd(t, "", "convert", "--kind", "ledger_hash", ledgerHashBinary+"00")
	require.Error(t, err)

	_, err = runCmd(t, "", "convert", "--kind", "ledger_hash", "--to", "yaml", ledgerHashBinary)
	require.ErrorContains(t, err, "unknown format")
}

func TestKinds(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "kinds")
	require.NoError(t, err)
	require.Regexp(t, `chain_hash\s+0x04`, out)
	require.Contains(t, out, "raw string payload")

	out, err = runCmd(t, "", "kinds", "--json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 11)
	require.Equal(t, "state_hash", rows[0]["name"])
	require.Equal(t, "0x10", rows[0]["version_byte"])
	require.Equal(t, "chain_hash", rows[1]["name"])
	require.Equal(t, "0x04", rows[1]["version_byte"])
}

func TestLedgerRoot(t *testing.T) {
	partitiontest.PartitionTest(t)

	out, err := runCmd(t, "", "root", "--loglevel", "error", "--all", genesisFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "legacy: j"), lines[0])
	require.True(t, strings.HasPrefix(lines[1], "kimchi: j"), lines[1])
	legacy := strings.TrimPrefix(lines[0], "legacy: ")
	kimchi := strings.TrimPrefix(lines[1], "kimchi: ")
	require.NotEqual(t, legacy, kimchi)

	out, err = runCmd(t, "", "root", "--loglevel", "error", "--consensus", "berkeley", genesisFile)
	require.NoError(t, err)
	require.Equal(t, kimchi+"\n", out)

	// the default consensus version comes from the config file
	dir := t.TempDir()
	cfg := config.GetDefaultLocal()
	cfg.DefaultConsensusVersion = "mainnet-v1"
	cfg.MerkleBuildWorkers = 2
	require.NoError(t, cfg.SaveToDisk(dir))
	out, err = runCmd(t, "", "root", "--loglevel", "error", "-d", dir, genesisFile)
	require.NoError(t, err)
	require.Equal(t, legacy+"\n", out)

	_, err = runCmd(t, "", "root", "--loglevel", "error", "--consensus", "devnet", genesisFile)
	require.ErrorContains(t, err, "--consensus")

	_, err = runCmd(t, "", "root", "--loglevel", "error", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestLogFile(t *testing.T) {
	partitiontest.PartitionTest(t)

	logFile := filepath.Join(t.TempDir(), "minahash.log")
	_, err := runCmd(t, "", "root", "--loglevel", "info", "--logfile", logFile, "--consensus", "berkeley", genesisFile)
	require.NoError(t, err)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(content), "development sponge")
	require.Contains(t, string(content), "2 accounts")

	_, err = runCmd(t, "", "kinds", "--loglevel", "chatty")
	require.Error(t, err)
}

func TestLogJSON(t *testing.T) {
	partitiontest.PartitionTest(t)

	logFile := filepath.Join(t.TempDir(), "minahash.log")
	_, err := runCmd(t, "", "root", "--log-json", "--loglevel", "info", "--logfile", logFile, "--consensus", "berkeley", genesisFile)
	require.NoError(t, err)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		require.Contains(t, entry, "level")
	}
	require.Contains(t, string(content), `"generation":"kimchi"`)
}

func TestConfigInit(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := runCmd(t, "", "config", "init")
	require.ErrorContains(t, err, "--datadir")

	dir := filepath.Join(t.TempDir(), "data")
	out, err := runCmd(t, "", "config", "init", "-d", dir)
	require.NoError(t, err)
	cfgPath := filepath.Join(dir, config.ConfigFilename)
	consensusPath := filepath.Join(dir, config.ConfigurableConsensusProtocolsFilename)
	require.Equal(t, cfgPath+"\n"+consensusPath+"\n", out)

	cfg, err := config.LoadConfigFromDisk(dir)
	require.NoError(t, err)
	require.Equal(t, config.GetDefaultLocal(), cfg)
	loaded, err := config.PreloadConfigurableConsensusProtocols(dir)
	require.NoError(t, err)
	require.Equal(t, config.Consensus, loaded)

	_, err = runCmd(t, "", "config", "init", "-d", dir)
	require.ErrorContains(t, err, "already exists")
	_, err = runCmd(t, "", "config", "init", "-d", dir, "--force")
	require.NoError(t, err)

	// the written directory drives later commands
	out, err = runCmd(t, "", "root", "--loglevel", "error", "-d", dir, genesisFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "j"), out)
}

func TestSetupErrors(t *testing.T) {
	partitiontest.PartitionTest(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFilename), []byte(`{"Version": 1, "Peers": 3}`), 0644))
	_, err := runCmd(t, "", "kinds", "-d", dir)
	require.ErrorContains(t, err, "cannot load config")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigurableConsensusProtocolsFilename), []byte(`{"devnet": {"LedgerDepth": 99}}`), 0644))
	_, err = runCmd(t, "", "kinds", "-d", dir)
	require.ErrorContains(t, err, "consensus overrides")

	_, err = runCmd(t, "", "kinds", "--logfile", filepath.Join(t.TempDir(), "missing", "minahash.log"))
	require.Error(t, err)
}
