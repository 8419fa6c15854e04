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

package binprot

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mina-go/minahash/protocol"
	"github.com/mina-go/minahash/test/partitiontest"
)

func TestNat0Layout(t *testing.T) {
	partitiontest.PartitionTest(t)

	cases := []struct {
		v   uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{0x7f, []byte{0x7f}},
		{0x80, []byte{0xfe, 0x80, 0x00}},
		{0xffff, []byte{0xfe, 0xff, 0xff}},
		{0x10000, []byte{0xfd, 0x00, 0x00, 0x01, 0x00}},
		{0x100000000, []byte{0xfc, 0, 0, 0, 0, 1, 0, 0, 0}},
	}
	for _, c := range cases {
		w := NewWriter(nil)
		w.Nat0(c.v)
		require.Equal(t, c.enc, w.Bytes(), "encoding %d", c.v)

		r := NewReader(c.enc)
		v, err := r.Nat0()
		require.NoError(t, err)
		require.Equal(t, c.v, v)
		require.NoError(t, r.Done())
	}
}

func TestNat0RoundTrip(t *testing.T) {
	partitiontest.PartitionTest(t)

	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		w := NewWriter(nil)
		w.Nat0(v)
		r := NewReader(w.Bytes())
		got, err := r.Nat0()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.NoError(t, r.Done())
	})
}

func TestNat0NonCanonical(t *testing.T) {
	partitiontest.PartitionTest(t)

	for _, enc := range [][]byte{
		{0xfe, 0x05, 0x00},
		{0xfd, 0xff, 0x00, 0x00, 0x00},
		{0xfc, 1, 0, 0, 0, 0, 0, 0, 0},
	} {
		_, err := NewReader(enc).Nat0()
		require.ErrorIs(t, err, ErrNonCanonical)
	}

	_, err := NewReader([]byte{0xfe, 0x01}).Nat0()
	require.ErrorIs(t, err, ErrShortBuffer)

	_, err = NewReader([]byte{0x80}).Nat0()
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	partitiontest.PartitionTest(t)

	w := NewWriter(nil)
	w.Version(protocol.WireVersionV1)
	require.Equal(t, []byte{0x01}, w.Bytes())

	require.NoError(t, NewReader([]byte{0x01}).Version(protocol.WireVersionV1))

	err := NewReader([]byte{0x02}).Version(protocol.WireVersionV1)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
	var verr *VersionError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, uint64(2), verr.Got)
}

func TestStringAndBool(t *testing.T) {
	partitiontest.PartitionTest(t)

	w := NewWriter(nil)
	w.String([]byte("abc"))
	w.Bool(true)
	w.Bool(false)
	require.Equal(t, []byte{0x03, 'a', 'b', 'c', 0x01, 0x00}, w.Bytes())

	r := NewReader(w.Bytes())
	s, err := r.String(16)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), s)
	b, err := r.Bool()
	require.NoError(t, err)
	require.True(t, b)
	b, err = r.Bool()
	require.NoError(t, err)
	require.False(t, b)
	require.NoError(t, r.Done())

	_, err = NewReader([]byte{0x02}).Bool()
	require.ErrorIs(t, err, ErrInvalidBool)

	_, err = NewReader([]byte{0x05, 'a', 'b', 'c', 'd', 'e'}).String(4)
	require.ErrorIs(t, err, ErrTooLong)

	_, err = NewReader([]byte{0x05, 'a'}).String(16)
	require.ErrorIs(t, err, ErrShortBuffer)
}

func TestTrailingBytes(t *testing.T) {
	partitiontest.PartitionTest(t)

	r := NewReader([]byte{0x01, 0x02})
	_, err := r.Nat0()
	require.NoError(t, err)
	require.Equal(t, 1, r.Remaining())
	require.ErrorIs(t, r.Done(), ErrTrailingBytes)
}
