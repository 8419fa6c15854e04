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
	"github.com/algorand/msgp/msgp"
)

// Every hash kind is carried in msgpack as a bin object holding its
// versioned bin_prot envelope, which is also how go-codec encodes a
// BinaryMarshaler.

func appendEnvelope(o []byte, env []byte) []byte {
	o = msgp.Require(o, msgp.BytesPrefixSize+len(env))
	return msgp.AppendBytes(o, env)
}

func readEnvelope(bts []byte, ctx string) ([]byte, []byte, error) {
	env, o, err := msgp.ReadBytesBytes(bts, nil)
	if err != nil {
		return nil, bts, msgp.WrapError(err, ctx)
	}
	return env, o, nil
}

// MarshalMsg implements msgp.Marshaler
func (h Hash[K]) MarshalMsg(b []byte) (o []byte) {
	env, _ := h.MarshalBinary()
	return appendEnvelope(b, env)
}

// CanMarshalMsg reports whether z is a Hash of the same kind.
func (_ Hash[K]) CanMarshalMsg(z interface{}) bool {
	_, ok := (z).(Hash[K])
	if !ok {
		_, ok = (z).(*Hash[K])
	}
	return ok
}

// UnmarshalMsg implements msgp.Unmarshaler
func (h *Hash[K]) UnmarshalMsg(bts []byte) (o []byte, err error) {
	env, o, err := readEnvelope(bts, h.Kind().String())
	if err != nil {
		return bts, err
	}
	if err = h.UnmarshalBinary(env); err != nil {
		return bts, msgp.WrapError(err, h.Kind().String())
	}
	return o, nil
}

// CanUnmarshalMsg reports whether z is a *Hash of the same kind.
func (_ *Hash[K]) CanUnmarshalMsg(z interface{}) bool {
	_, ok := (z).(*Hash[K])
	return ok
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (h Hash[K]) Msgsize() (s int) {
	return msgp.BytesPrefixSize + 1 + len(h.b)
}

// MsgIsZero returns whether this is a zero value
func (h Hash[K]) MsgIsZero() bool {
	return h.IsZero()
}

// MarshalMsg implements msgp.Marshaler
func (h Blob[K]) MarshalMsg(b []byte) (o []byte) {
	env, _ := h.MarshalBinary()
	return appendEnvelope(b, env)
}

// CanMarshalMsg reports whether z is a Blob of the same kind.
func (_ Blob[K]) CanMarshalMsg(z interface{}) bool {
	_, ok := (z).(Blob[K])
	if !ok {
		_, ok = (z).(*Blob[K])
	}
	return ok
}

// UnmarshalMsg implements msgp.Unmarshaler
func (h *Blob[K]) UnmarshalMsg(bts []byte) (o []byte, err error) {
	env, o, err := readEnvelope(bts, h.Kind().String())
	if err != nil {
		return bts, err
	}
	if err = h.UnmarshalBinary(env); err != nil {
		return bts, msgp.WrapError(err, h.Kind().String())
	}
	return o, nil
}

// CanUnmarshalMsg reports whether z is a *Blob of the same kind.
func (_ *Blob[K]) CanUnmarshalMsg(z interface{}) bool {
	_, ok := (z).(*Blob[K])
	return ok
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (h Blob[K]) Msgsize() (s int) {
	return msgp.BytesPrefixSize + 1 + msgp.BytesPrefixSize + len(h.b)
}

// MsgIsZero returns whether this is a zero value
func (h Blob[K]) MsgIsZero() bool {
	return h.b == ""
}

// MarshalMsg implements msgp.Marshaler
func (h NonSnarkStagedLedgerHash) MarshalMsg(b []byte) (o []byte) {
	env, _ := h.MarshalBinary()
	return appendEnvelope(b, env)
}

// CanMarshalMsg reports whether z is a NonSnarkStagedLedgerHash.
func (_ NonSnarkStagedLedgerHash) CanMarshalMsg(z interface{}) bool {
	_, ok := (z).(NonSnarkStagedLedgerHash)
	if !ok {
		_, ok = (z).(*NonSnarkStagedLedgerHash)
	}
	return ok
}

// UnmarshalMsg implements msgp.Unmarshaler
func (h *NonSnarkStagedLedgerHash) UnmarshalMsg(bts []byte) (o []byte, err error) {
	env, o, err := readEnvelope(bts, "NonSnarkStagedLedgerHash")
	if err != nil {
		return bts, err
	}
	if err = h.UnmarshalBinary(env); err != nil {
		return bts, msgp.WrapError(err, "NonSnarkStagedLedgerHash")
	}
	return o, nil
}

// CanUnmarshalMsg reports whether z is a *NonSnarkStagedLedgerHash.
func (_ *NonSnarkStagedLedgerHash) CanUnmarshalMsg(z interface{}) bool {
	_, ok := (z).(*NonSnarkStagedLedgerHash)
	return ok
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (h NonSnarkStagedLedgerHash) Msgsize() (s int) {
	return msgp.BytesPrefixSize + 1 + h.LedgerHash.Msgsize() + h.AuxHash.Msgsize() + h.PendingCoinbaseAux.Msgsize()
}

// MsgIsZero returns whether this is a zero value
func (h NonSnarkStagedLedgerHash) MsgIsZero() bool {
	return h == NonSnarkStagedLedgerHash{}
}

// MarshalMsg implements msgp.Marshaler
func (h StagedLedgerHash) MarshalMsg(b []byte) (o []byte) {
	env, _ := h.MarshalBinary()
	return appendEnvelope(b, env)
}

// CanMarshalMsg reports whether z is a StagedLedgerHash.
func (_ StagedLedgerHash) CanMarshalMsg(z interface{}) bool {
	_, ok := (z).(StagedLedgerHash)
	if !ok {
		_, ok = (z).(*StagedLedgerHash)
	}
	return ok
}

// UnmarshalMsg implements msgp.Unmarshaler
func (h *StagedLedgerHash) UnmarshalMsg(bts []byte) (o []byte, err error) {
	env, o, err := readEnvelope(bts, "StagedLedgerHash")
	if err != nil {
		return bts, err
	}
	if err = h.UnmarshalBinary(env); err != nil {
		return bts, msgp.WrapError(err, "StagedLedgerHash")
	}
	return o, nil
}

// CanUnmarshalMsg reports whether z is a *StagedLedgerHash.
func (_ *StagedLedgerHash) CanUnmarshalMsg(z interface{}) bool {
	_, ok := (z).(*StagedLedgerHash)
	return ok
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (h StagedLedgerHash) Msgsize() (s int) {
	return msgp.BytesPrefixSize + 3 + h.NonSnark.Msgsize() + h.PendingCoinbaseHash.Msgsize()
}

// MsgIsZero returns whether this is a zero value
func (h StagedLedgerHash) MsgIsZero() bool {
	return h == StagedLedgerHash{}
}
