// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/vechain/stakevault/stakevault"
)

// Item is one collateral item held by a depositor.
type Item struct {
	Class       stakevault.Class
	ID          stakevault.ItemID
	DepositTime uint64
}

// Key identifies an item across all classes.
func (i *Item) Key() ItemKey {
	return ItemKey{Class: i.Class, ID: i.ID}
}

// ItemKey is the (class, id) pair used by the reverse index.
type ItemKey struct {
	Class stakevault.Class
	ID    stakevault.ItemID
}

// Bytes returns the storage key form of the pair.
func (k ItemKey) Bytes() []byte {
	return append([]byte{byte(k.Class)}, k.ID.Bytes()...)
}

// ref locates an item inside its owner's item list.
type ref struct {
	Owner stakevault.Address
	Index uint64
}
