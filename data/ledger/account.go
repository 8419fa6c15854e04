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
	"iter"
	"slices"

	"github.com/mina-go/minahash/crypto/roinput"
	"github.com/mina-go/minahash/data/keys"
)

// Account is the part of a genesis account that enters the ledger hash in
// this package: the owner, the initial balance in nanomina and the nonce.
type Account struct {
	PublicKey keys.PublicKey `json:"pk"`
	Balance   uint64         `json:"balance,string"`
	Nonce     uint32         `json:"nonce,omitempty"`
}

// ToROInput implements roinput.Hashable.
func (a Account) ToROInput() *roinput.Input {
	return roinput.New().
		AppendHashable(a.PublicKey).
		AppendUint64(a.Balance).
		AppendUint32(a.Nonce)
}

// Ledger is an in-memory genesis ledger.
type Ledger[A roinput.Hashable] struct {
	depth    uint32
	accounts []A
}

// NewLedger returns a ledger of the given depth holding accounts.
func NewLedger[A roinput.Hashable](depth uint32, accounts []A) *Ledger[A] {
	return &Ledger[A]{depth: depth, accounts: slices.Clone(accounts)}
}

// Depth implements GenesisLedger.
func (l *Ledger[A]) Depth() uint32 {
	return l.depth
}

// Accounts implements GenesisLedger.
func (l *Ledger[A]) Accounts() iter.Seq2[A, error] {
	return func(yield func(A, error) bool) {
		for _, a := range l.accounts {
			if !yield(a, nil) {
				return
			}
		}
	}
}

// Len returns the number of accounts.
func (l *Ledger[A]) Len() int {
	return len(l.accounts)
}
