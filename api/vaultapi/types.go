// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaultapi

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault"
	"github.com/vechain/stakevault/vault/governance"
	"github.com/vechain/stakevault/vault/registry"
)

// VaultState is the global accrual state.
type VaultState struct {
	Accumulator *math.HexOrDecimal256 `json:"accumulator"`
	TotalWeight *math.HexOrDecimal256 `json:"totalWeight"`
	FeePool     *math.HexOrDecimal256 `json:"feePool"`
	LastSettled uint64                `json:"lastSettled"`
	Paused      bool                  `json:"paused"`
	Version     uint64                `json:"version"`
}

// Depositor is one depositor's record.
type Depositor struct {
	Address   stakevault.Address    `json:"address"`
	Weight    uint64                `json:"weight"`
	Debt      *math.HexOrDecimal256 `json:"debt"`
	Pending   *math.HexOrDecimal256 `json:"pending"`
	Claimed   *math.HexOrDecimal256 `json:"claimed"`
	ItemCount uint64                `json:"itemCount"`
}

// Item is one held collateral item.
type Item struct {
	Class       uint8  `json:"class"`
	ID          uint64 `json:"id"`
	DepositTime uint64 `json:"depositTime"`
}

func convertItem(item *registry.Item) *Item {
	return &Item{
		Class:       uint8(item.Class),
		ID:          uint64(item.ID),
		DepositTime: item.DepositTime,
	}
}

// Quote is a claimable or withdrawable amount at an instant.
type Quote struct {
	At     uint64                `json:"at"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

// Params mirrors the governed parameter set.
type Params struct {
	FeeRecipient   stakevault.Address `json:"feeRecipient"`
	FeeRate        uint32             `json:"feeRate"`
	WithdrawWindow uint64             `json:"withdrawWindow"`
	WithdrawRate   uint32             `json:"withdrawRate"`
}

func convertParams(p *governance.Params) *Params {
	return &Params{
		FeeRecipient:   p.FeeRecipient,
		FeeRate:        p.FeeRate,
		WithdrawWindow: p.WithdrawWindow,
		WithdrawRate:   p.WithdrawRate,
	}
}

// Proposal is a pending parameter change.
type Proposal struct {
	Params Params `json:"params"`
	ETA    uint64 `json:"eta"`
}

// Governance is the full governance view.
type Governance struct {
	Delay   uint64    `json:"delay"`
	Current *Params   `json:"current"`
	Pending *Proposal `json:"pending"`
}

// Event is one recorded vault operation.
type Event struct {
	Kind      string                `json:"kind"`
	Depositor stakevault.Address    `json:"depositor"`
	Class     uint8                 `json:"class"`
	ItemID    uint64                `json:"itemId"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	Time      uint64                `json:"time"`
}

func convertEvent(ev *vault.Event) *Event {
	out := &Event{
		Kind:      string(ev.Kind),
		Depositor: ev.Depositor,
		Class:     uint8(ev.Class),
		ItemID:    uint64(ev.ItemID),
		Time:      ev.Time,
	}
	if ev.Amount != nil {
		out.Amount = (*math.HexOrDecimal256)(ev.Amount)
	}
	return out
}

// EventFilter is the POST body of the events query.
type EventFilter struct {
	Depositor *stakevault.Address `json:"depositor"`
	Kind      *string             `json:"kind"`
	Range     *eventdb.Range      `json:"range"`
	Options   *eventdb.Options    `json:"options"`
	Order     eventdb.OrderType   `json:"order"`
}

func decimal(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(v)
}
