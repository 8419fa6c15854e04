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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/minio/sha256-simd"

	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/protocol/binprot"
)

// NonSnarkStagedLedgerHash is the part of a staged ledger hash that is
// not covered by the SNARK.
type NonSnarkStagedLedgerHash struct {
	LedgerHash         LedgerHash             `json:"ledger_hash"`
	AuxHash            AuxHash                `json:"aux_hash"`
	PendingCoinbaseAux PendingCoinbaseAuxHash `json:"pending_coinbase_aux"`
}

// StagedLedgerHash commits to a staged ledger.
type StagedLedgerHash struct {
	NonSnark            NonSnarkStagedLedgerHash `json:"non_snark"`
	PendingCoinbaseHash CoinBaseHash             `json:"pending_coinbase_hash"`
}

// Kind returns KindNonSnarkStagedLedgerHash.
func (h NonSnarkStagedLedgerHash) Kind() Kind {
	return KindNonSnarkStagedLedgerHash
}

// Digest returns SHA-256 over the ledger hash bytes in reverse order,
// then the aux hash, then the pending coinbase aux hash.
func (h NonSnarkStagedLedgerHash) Digest() [sha256.Size]byte {
	ledger := h.LedgerHash.Base()
	for i, j := 0, len(ledger)-1; i < j; i, j = i+1, j-1 {
		ledger[i], ledger[j] = ledger[j], ledger[i]
	}
	s := sha256.New()
	s.Write(ledger[:])
	s.Write([]byte(h.AuxHash.b))
	s.Write([]byte(h.PendingCoinbaseAux.b))
	var out [sha256.Size]byte
	s.Sum(out[:0])
	return out
}

// ToROInput appends the digest as bits.
func (h NonSnarkStagedLedgerHash) ToROInput() *roinput.Input {
	d := h.Digest()
	return roinput.New().AppendBytes(d[:])
}

// Equal reports whether both hashes have the same parts.
func (h NonSnarkStagedLedgerHash) Equal(o NonSnarkStagedLedgerHash) bool {
	return h == o
}

func (h NonSnarkStagedLedgerHash) writeTo(w *binprot.Writer) {
	w.Version(registry[KindNonSnarkStagedLedgerHash].WireVersions[0])
	h.LedgerHash.writeTo(w)
	h.AuxHash.writeTo(w)
	h.PendingCoinbaseAux.writeTo(w)
}

func (h *NonSnarkStagedLedgerHash) readFrom(r *binprot.Reader) error {
	if err := r.Version(registry[KindNonSnarkStagedLedgerHash].WireVersions[0]); err != nil {
		return fmt.Errorf("%v: %w", KindNonSnarkStagedLedgerHash, err)
	}
	if err := h.LedgerHash.readFrom(r); err != nil {
		return err
	}
	if err := h.AuxHash.readFrom(r); err != nil {
		return err
	}
	return h.PendingCoinbaseAux.readFrom(r)
}

// MarshalBinary returns the versioned bin_prot encoding of h.
func (h NonSnarkStagedLedgerHash) MarshalBinary() ([]byte, error) {
	w := binprot.NewWriter(nil)
	h.writeTo(w)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes the versioned bin_prot encoding.
func (h *NonSnarkStagedLedgerHash) UnmarshalBinary(data []byte) error {
	r := binprot.NewReader(data)
	var v NonSnarkStagedLedgerHash
	if err := v.readFrom(r); err != nil {
		return err
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("%v: %w", KindNonSnarkStagedLedgerHash, err)
	}
	*h = v
	return nil
}

type nonSnarkJSON NonSnarkStagedLedgerHash

// MarshalJSON writes the members in wire order.
func (h NonSnarkStagedLedgerHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(nonSnarkJSON(h))
}

// UnmarshalJSON requires every member and rejects unknown ones.
func (h *NonSnarkStagedLedgerHash) UnmarshalJSON(data []byte) error {
	var v struct {
		LedgerHash         *LedgerHash             `json:"ledger_hash"`
		AuxHash            *AuxHash                `json:"aux_hash"`
		PendingCoinbaseAux *PendingCoinbaseAuxHash `json:"pending_coinbase_aux"`
	}
	if err := strictUnmarshal(data, &v); err != nil {
		return fmt.Errorf("%v: %w", KindNonSnarkStagedLedgerHash, err)
	}
	switch {
	case v.LedgerHash == nil:
		return fmt.Errorf("%v: %w ledger_hash", KindNonSnarkStagedLedgerHash, ErrMissingField)
	case v.AuxHash == nil:
		return fmt.Errorf("%v: %w aux_hash", KindNonSnarkStagedLedgerHash, ErrMissingField)
	case v.PendingCoinbaseAux == nil:
		return fmt.Errorf("%v: %w pending_coinbase_aux", KindNonSnarkStagedLedgerHash, ErrMissingField)
	}
	*h = NonSnarkStagedLedgerHash{
		LedgerHash:         *v.LedgerHash,
		AuxHash:            *v.AuxHash,
		PendingCoinbaseAux: *v.PendingCoinbaseAux,
	}
	return nil
}

// Kind returns KindStagedLedgerHash.
func (h StagedLedgerHash) Kind() Kind {
	return KindStagedLedgerHash
}

// ToROInput appends the non-SNARK part, then the pending coinbase hash.
func (h StagedLedgerHash) ToROInput() *roinput.Input {
	return roinput.New().
		AppendHashable(h.NonSnark).
		AppendHashable(h.PendingCoinbaseHash)
}

// Equal reports whether both hashes have the same parts.
func (h StagedLedgerHash) Equal(o StagedLedgerHash) bool {
	return h == o
}

func (h StagedLedgerHash) writeTo(w *binprot.Writer) {
	for _, v := range registry[KindStagedLedgerHash].WireVersions {
		w.Version(v)
	}
	h.NonSnark.writeTo(w)
	// the pending coinbase hash sits in its own versioned wrapper
	w.Version(registry[KindStagedLedgerHash].WireVersions[0])
	h.PendingCoinbaseHash.writeTo(w)
}

func (h *StagedLedgerHash) readFrom(r *binprot.Reader) error {
	for _, v := range registry[KindStagedLedgerHash].WireVersions {
		if err := r.Version(v); err != nil {
			return fmt.Errorf("%v: %w", KindStagedLedgerHash, err)
		}
	}
	if err := h.NonSnark.readFrom(r); err != nil {
		return err
	}
	if err := r.Version(registry[KindStagedLedgerHash].WireVersions[0]); err != nil {
		return fmt.Errorf("%v: pending coinbase: %w", KindStagedLedgerHash, err)
	}
	return h.PendingCoinbaseHash.readFrom(r)
}

// MarshalBinary returns the versioned bin_prot encoding of h.
func (h StagedLedgerHash) MarshalBinary() ([]byte, error) {
	w := binprot.NewWriter(nil)
	h.writeTo(w)
	return w.Bytes(), nil
}

// UnmarshalBinary decodes the versioned bin_prot encoding.
func (h *StagedLedgerHash) UnmarshalBinary(data []byte) error {
	r := binprot.NewReader(data)
	var v StagedLedgerHash
	if err := v.readFrom(r); err != nil {
		return err
	}
	if err := r.Done(); err != nil {
		return fmt.Errorf("%v: %w", KindStagedLedgerHash, err)
	}
	*h = v
	return nil
}

type stagedJSON StagedLedgerHash

// MarshalJSON writes the members in wire order.
func (h StagedLedgerHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(stagedJSON(h))
}

// UnmarshalJSON requires every member and rejects unknown ones.
func (h *StagedLedgerHash) UnmarshalJSON(data []byte) error {
	var v struct {
		NonSnark            *NonSnarkStagedLedgerHash `json:"non_snark"`
		PendingCoinbaseHash *CoinBaseHash             `json:"pending_coinbase_hash"`
	}
	if err := strictUnmarshal(data, &v); err != nil {
		return fmt.Errorf("%v: %w", KindStagedLedgerHash, err)
	}
	switch {
	case v.NonSnark == nil:
		return fmt.Errorf("%v: %w non_snark", KindStagedLedgerHash, ErrMissingField)
	case v.PendingCoinbaseHash == nil:
		return fmt.Errorf("%v: %w pending_coinbase_hash", KindStagedLedgerHash, ErrMissingField)
	}
	*h = StagedLedgerHash{NonSnark: *v.NonSnark, PendingCoinbaseHash: *v.PendingCoinbaseHash}
	return nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON object")
	}
	return nil
}
