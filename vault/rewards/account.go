// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "math/big"

// Account is the per-depositor reward ledger. It is created on first
// settlement and never deleted: Claimed keeps the depositor's lifetime
// history even after full withdrawal.
type Account struct {
	Debt    *big.Int // accumulator value at last settlement
	Pending *big.Int // settled but unclaimed reward
	Claimed *big.Int // cumulative claimed reward
}

// normalized returns a with nil fields replaced by zero values. Freshly
// decoded zero-slot accounts carry nil big ints.
func (a *Account) normalized() *Account {
	if a.Debt == nil {
		a.Debt = new(big.Int)
	}
	if a.Pending == nil {
		a.Pending = new(big.Int)
	}
	if a.Claimed == nil {
		a.Claimed = new(big.Int)
	}
	return a
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	a.normalized()
	return &Account{
		Debt:    new(big.Int).Set(a.Debt),
		Pending: new(big.Int).Set(a.Pending),
		Claimed: new(big.Int).Set(a.Claimed),
	}
}
