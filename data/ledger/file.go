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

package ledger

import (
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"
)

// FileLedger streams accounts from a JSON file of the form
// {"accounts": [{"pk": "B62...", "balance": "1000", "nonce": 0}, ...]}.
// The file is read again on every call to Accounts.
type FileLedger struct {
	path  string
	depth uint32
}

// OpenFile returns a ledger reading accounts from path.
func OpenFile(path string, depth uint32) (*FileLedger, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return &FileLedger{path: path, depth: depth}, nil
}

// Depth implements GenesisLedger.
func (fl *FileLedger) Depth() uint32 {
	return fl.depth
}

// Accounts implements GenesisLedger. Decoding stops at the first malformed
// account, which is yielded as an error.
func (fl *FileLedger) Accounts() iter.Seq2[Account, error] {
	return func(yield func(Account, error) bool) {
		f, err := os.Open(fl.path)
		if err != nil {
			yield(Account{}, err)
			return
		}
		defer f.Close()
		for a, err := range DecodeAccounts(f) {
			if !yield(a, err) || err != nil {
				return
			}
		}
	}
}

// DecodeAccounts decodes the accounts array of a genesis ledger document
// one account at a time.
func DecodeAccounts(r io.Reader) iter.Seq2[Account, error] {
	return func(yield func(Account, error) bool) {
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := seekAccounts(dec); err != nil {
			yield(Account{}, err)
			return
		}
		for dec.More() {
			var a Account
			if err := dec.Decode(&a); err != nil {
				yield(Account{}, err)
				return
			}
			if !yield(a, nil) {
				return
			}
		}
		if _, err := dec.Token(); err != nil {
			yield(Account{}, err)
		}
	}
}

// seekAccounts positions dec just inside the "accounts" array.
func seekAccounts(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if key, _ := tok.(string); key == "accounts" {
			return expectDelim(dec, '[')
		}
		// skip the value of any other key
		var skip json.RawMessage
		if err = dec.Decode(&skip); err != nil {
			return err
		}
	}
	return fmt.Errorf("genesis ledger: no accounts array")
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("genesis ledger: expected %q, got %v", want, tok)
	}
	return nil
}
