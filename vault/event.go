// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/vechain/stakevault/stakevault"
)

// EventKind classifies vault operations for the history log.
type EventKind string

const (
	EventStake     EventKind = "stake"
	EventUnstake   EventKind = "unstake"
	EventClaim     EventKind = "claim"
	EventFeeSweep  EventKind = "fee-sweep"
	EventPropose   EventKind = "propose"
	EventApply     EventKind = "apply"
	EventPause     EventKind = "pause"
	EventUnpause   EventKind = "unpause"
	EventEmergency EventKind = "emergency"
)

// Event is one successful vault operation.
type Event struct {
	Kind      EventKind
	Depositor stakevault.Address
	Class     stakevault.Class
	ItemID    stakevault.ItemID
	Amount    *big.Int
	Time      uint64
}

// Recorder receives events after the operation that produced them has
// committed. Recording failures are logged and otherwise ignored; history
// is advisory, not part of the accounting state.
type Recorder interface {
	Record(ev *Event) error
}
