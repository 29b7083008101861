// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakevault

import (
	"encoding/binary"
	"math/big"
)

// Class identifies a supported collateral class.
type Class uint8

// The three collateral classes accepted by the vault.
const (
	ClassUnknown Class = iota
	ClassLight
	ClassStandard
	ClassHeavy
)

func (c Class) String() string {
	switch c {
	case ClassLight:
		return "light"
	case ClassStandard:
		return "standard"
	case ClassHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// ItemID identifies a single collateral item within its class.
type ItemID uint64

// Bytes returns big-endian byte form of the item id.
func (id ItemID) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b[:]
}

// Constants of reward accounting.
const (
	// RateScale is the denominator of all rate parameters (fee rate,
	// withdrawal-limit rate). A rate of RateScale means 100%.
	RateScale uint32 = 10_000

	// MaxTimelockDelay upper bound accepted for governance delays. (unit: second)
	MaxTimelockDelay uint64 = 365 * 24 * 3600
)

// AccumulatorScale is the fixed-point precision of the global
// reward-per-unit-weight accumulator.
var AccumulatorScale = big.NewInt(1e18)
