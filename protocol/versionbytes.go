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

// VersionByte is the leading byte of a Base58Check payload. It tells a
// decoder which kind of object a string carries, so that a ledger hash can
// never be accepted where a state hash is expected.
type VersionByte byte

// Version bytes used by the Mina protocol for human-readable encodings.
const (
	CoinbaseVersionByte                    VersionByte = 0x01
	SecretBoxVersionByte                   VersionByte = 0x02
	FeeTransferSingleVersionByte           VersionByte = 0x03
	FrontierHashVersionByte                VersionByte = 0x04
	LedgerHashVersionByte                  VersionByte = 0x05
	LitePrecomputedVersionByte             VersionByte = 0x06
	ProofVersionByte                       VersionByte = 0x0A
	RandomOracleBaseVersionByte            VersionByte = 0x0B
	ReceiptChainHashVersionByte            VersionByte = 0x0C
	EpochSeedVersionByte                   VersionByte = 0x0D
	StagedLedgerHashAuxHashVersionByte     VersionByte = 0x0E
	StagedLedgerHashPendingCoinbaseAuxByte VersionByte = 0x0F
	StateHashVersionByte                   VersionByte = 0x10
	StateBodyHashVersionByte               VersionByte = 0x11
	TransactionHashVersionByte             VersionByte = 0x12
	SignedCommandV1VersionByte             VersionByte = 0x13
	UserCommandMemoVersionByte             VersionByte = 0x14
	VrfTruncatedOutputVersionByte          VersionByte = 0x15
	WebPipeVersionByte                     VersionByte = 0x16
	CoinbaseStackDataVersionByte           VersionByte = 0x17
	CoinbaseStackHashVersionByte           VersionByte = 0x18
	PendingCoinbaseHashBuilderVersionByte  VersionByte = 0x19
	ZkappCommandVersionByte                VersionByte = 0x1A
	VerificationKeyVersionByte             VersionByte = 0x1B
	TokenIDKeyVersionByte                  VersionByte = 0x1C
	LedgerTestHashVersionByte              VersionByte = 0x30
	PrivateKeyVersionByte                  VersionByte = 0x5A
	SignatureVersionByte                   VersionByte = 0x9A
	NonZeroCurvePointCompressedVersionByte VersionByte = 0xCB
	NonZeroCurvePointVersionByte           VersionByte = 0xCE
)

// VersionByteList is a list of all version bytes above.
// Adding a new version byte requires adding it to this list as well.
var VersionByteList = []VersionByte{
	CoinbaseVersionByte,
	SecretBoxVersionByte,
	FeeTransferSingleVersionByte,
	FrontierHashVersionByte,
	LedgerHashVersionByte,
	LitePrecomputedVersionByte,
	ProofVersionByte,
	RandomOracleBaseVersionByte,
	ReceiptChainHashVersionByte,
	EpochSeedVersionByte,
	StagedLedgerHashAuxHashVersionByte,
	StagedLedgerHashPendingCoinbaseAuxByte,
	StateHashVersionByte,
	StateBodyHashVersionByte,
	TransactionHashVersionByte,
	SignedCommandV1VersionByte,
	UserCommandMemoVersionByte,
	VrfTruncatedOutputVersionByte,
	WebPipeVersionByte,
	CoinbaseStackDataVersionByte,
	CoinbaseStackHashVersionByte,
	PendingCoinbaseHashBuilderVersionByte,
	ZkappCommandVersionByte,
	VerificationKeyVersionByte,
	TokenIDKeyVersionByte,
	LedgerTestHashVersionByte,
	PrivateKeyVersionByte,
	SignatureVersionByte,
	NonZeroCurvePointCompressedVersionByte,
	NonZeroCurvePointVersionByte,
}

func (vb VersionByte) String() string {
	return fmt.Sprintf("0x%02X", byte(vb))
}

// Known reports whether vb is one of the protocol version bytes.
func (vb VersionByte) Known() bool {
	for _, v := range VersionByteList {
		if v == vb {
			return true
		}
	}
	return false
}
