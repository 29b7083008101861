// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fortest provides in-memory asset system doubles, used by tests
// and by the solo binary.
package fortest

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/stakevault"
)

// TokenLedger is an in-memory fungible ledger.
type TokenLedger struct {
	mu       sync.Mutex
	balances map[stakevault.Address]*big.Int
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{balances: make(map[stakevault.Address]*big.Int)}
}

// Mint credits an address out of thin air. Test setup only.
func (l *TokenLedger) Mint(addr stakevault.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(addr, amount)
}

func (l *TokenLedger) BalanceOf(addr stakevault.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if bal, ok := l.balances[addr]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func (l *TokenLedger) Transfer(from, to stakevault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative transfer amount")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.balances[from]
	if bal == nil || bal.Cmp(amount) < 0 {
		return errors.Errorf("insufficient balance of %v", from)
	}
	bal.Sub(bal, amount)
	l.credit(to, amount)
	return nil
}

func (l *TokenLedger) credit(addr stakevault.Address, amount *big.Int) {
	if bal, ok := l.balances[addr]; ok {
		bal.Add(bal, amount)
	} else {
		l.balances[addr] = new(big.Int).Set(amount)
	}
}

type itemKey struct {
	class stakevault.Class
	id    stakevault.ItemID
}

// ItemRegistry is an in-memory collateral registry.
type ItemRegistry struct {
	mu     sync.Mutex
	owners map[itemKey]stakevault.Address

	// OnTransfer, when set, runs inside TransferItem after the ownership
	// change. Lets tests simulate a registry that calls back into the vault.
	OnTransfer func(from, to stakevault.Address, class stakevault.Class, id stakevault.ItemID) error
}

func NewItemRegistry() *ItemRegistry {
	return &ItemRegistry{owners: make(map[itemKey]stakevault.Address)}
}

// Issue assigns an item to an address. Test setup only.
func (r *ItemRegistry) Issue(addr stakevault.Address, class stakevault.Class, id stakevault.ItemID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[itemKey{class, id}] = addr
}

func (r *ItemRegistry) OwnerOf(class stakevault.Class, id stakevault.ItemID) (stakevault.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[itemKey{class, id}]
	if !ok {
		return stakevault.Address{}, errors.Errorf("unknown item %v/%d", class, id)
	}
	return owner, nil
}

func (r *ItemRegistry) TransferItem(from, to stakevault.Address, class stakevault.Class, id stakevault.ItemID) error {
	r.mu.Lock()
	owner, ok := r.owners[itemKey{class, id}]
	if !ok {
		r.mu.Unlock()
		return errors.Errorf("unknown item %v/%d", class, id)
	}
	if owner != from {
		r.mu.Unlock()
		return errors.Errorf("item %v/%d not held by %v", class, id, from)
	}
	r.owners[itemKey{class, id}] = to
	cb := r.OnTransfer
	r.mu.Unlock()

	if cb != nil {
		return cb(from, to, class, id)
	}
	return nil
}
