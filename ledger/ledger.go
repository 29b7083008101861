// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger declares the external asset systems the vault settles against.
// The vault never mints or burns; it only moves balances it can observe.
package ledger

import (
	"math/big"

	"github.com/vechain/stakevault/stakevault"
)

// FungibleLedger is the reward token system. Transfers of rewards and fees
// are drawn from the vault's own balance, so BalanceOf doubles as the
// holdings check before any payout.
type FungibleLedger interface {
	BalanceOf(addr stakevault.Address) (*big.Int, error)
	Transfer(from, to stakevault.Address, amount *big.Int) error
}

// CollateralRegistry is the non-fungible collateral system. Each item is
// identified by (class, id) and held by exactly one address at a time.
type CollateralRegistry interface {
	OwnerOf(class stakevault.Class, id stakevault.ItemID) (stakevault.Address, error)
	TransferItem(from, to stakevault.Address, class stakevault.Class, id stakevault.ItemID) error
}
