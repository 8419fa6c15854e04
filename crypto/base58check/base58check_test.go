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

package base58check

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mina-go/minahash/protocol"
	"github.com/mina-go/minahash/test/partitiontest"
)

const ledgerHash = "jxV4SS44wHUVrGEucCsfxLisZyUC5QddsiokGH3kz5xm2hJWZ25"

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDecodeKnown(t *testing.T) {
	partitiontest.PartitionTest(t)

	payload, err := Decode(protocol.LedgerHashVersionByte, ledgerHash)
	require.NoError(t, err)
	want := append([]byte{0x01}, mustHex(t, "b6af7af85d8ef536a1aa676f7b8030da54d011f51e6f3dd2a814a04f6f25a702")...)
	require.Equal(t, want, payload)

	require.Equal(t, ledgerHash, Encode(protocol.LedgerHashVersionByte, payload))
}

func TestEncodeKnown(t *testing.T) {
	partitiontest.PartitionTest(t)

	require.Equal(t, "4jPnSUNkV4Girh", Encode(protocol.VersionByte(0x42), []byte("hello")))
}

func TestWrongVersionByte(t *testing.T) {
	partitiontest.PartitionTest(t)

	_, err := Decode(protocol.StateHashVersionByte, ledgerHash)
	require.ErrorIs(t, err, ErrUnknownVersionByte)
	var verr *VersionByteError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, protocol.LedgerHashVersionByte, verr.Got)
	require.Equal(t, protocol.StateHashVersionByte, verr.Want)

	// same payload, re-encoded as a state hash
	payload, err := Decode(protocol.StateHashVersionByte, "3NLRMDPwzdMzDYQgzSYhRsP5cMBeNgPdRjaEuG66AFNnrfu7t7VD")
	require.NoError(t, err)
	ledgerPayload, err := Decode(protocol.LedgerHashVersionByte, ledgerHash)
	require.NoError(t, err)
	require.Equal(t, ledgerPayload, payload)
}

func TestChecksumMismatch(t *testing.T) {
	partitiontest.PartitionTest(t)

	tampered := "jxV4SS44wHAVrGEucCsfxLisZyUC5QddsiokGH3kz5xm2hJWZ25"
	_, err := Decode(protocol.LedgerHashVersionByte, tampered)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestInvalidInput(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, s := range []string{"0OIl", "jxV4SS44wHUVrGEucCsfxLisZyUC5Qdds!", "jx V4"} {
		_, err := Decode(protocol.LedgerHashVersionByte, s)
		require.ErrorIs(t, err, ErrInvalidCharacter, s)
	}

	for _, s := range []string{"", "2gV7"} {
		_, err := Decode(protocol.LedgerHashVersionByte, s)
		require.ErrorIs(t, err, ErrMalformed, s)
	}
}

func TestInspect(t *testing.T) {
	partitiontest.PartitionTest(t)

	vb, payload, err := Inspect(ledgerHash)
	require.NoError(t, err)
	require.Equal(t, protocol.LedgerHashVersionByte, vb)
	require.Len(t, payload, 33)
}

func TestRoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		vb := protocol.VersionByte(rapid.Byte().Draw(t, "vb"))
		payload := rapid.SliceOfN(rapid.Byte(), 0, 80).Draw(t, "payload")
		s := Encode(vb, payload)
		got, err := Decode(vb, s)
		require.NoError(t, err)
		require.Equal(t, len(payload), len(got))
		if len(payload) > 0 {
			require.Equal(t, payload, got)
		}
	})
}
