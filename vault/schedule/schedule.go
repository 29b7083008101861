// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import "math/big"

// Schedule is a pure function from a time interval to the total reward
// emitted over it. Implementations are immutable after construction:
// EmittedBetween depends on nothing but its arguments and the schedule
// parameters.
type Schedule interface {
	// Start returns the instant emission begins. (unit: unix second)
	Start() uint64

	// End returns the instant emission stops for good. EmittedBetween
	// saturates there: intervals beyond it contribute nothing.
	End() uint64

	// EmittedBetween returns the total emitted over [from, to). Inputs are
	// clamped to [Start, End]; from >= to yields zero. The result is exact
	// across every rate boundary inside the interval.
	EmittedBetween(from, to uint64) *big.Int

	// Descriptor returns a serializable description of the schedule.
	Descriptor() *Descriptor
}

// Descriptor describes a schedule for monitoring surfaces.
type Descriptor struct {
	Kind     string           `json:"kind" yaml:"kind"`
	Start    uint64           `json:"start" yaml:"start"`
	End      uint64           `json:"end" yaml:"end"`
	BaseRate *big.Int         `json:"baseRate,omitempty" yaml:"baseRate,omitempty"`
	Interval uint64           `json:"interval,omitempty" yaml:"interval,omitempty"`
	Periods  []PeriodDescItem `json:"periods,omitempty" yaml:"periods,omitempty"`
}

// PeriodDescItem is one period entry of a finite schedule descriptor.
type PeriodDescItem struct {
	Duration uint64   `json:"duration" yaml:"duration"`
	Total    *big.Int `json:"total" yaml:"total"`
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi uint64) uint64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
