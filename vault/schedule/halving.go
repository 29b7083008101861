// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math/big"

	"github.com/pkg/errors"
)

// Halving emits baseRate units per interval, geometrically halved every
// interval: the rate over the k-th interval is baseRate >> k. Within an
// interval emission is linear, so a fractional sub-interval of length d
// contributes (baseRate >> k) * d / interval, floored.
//
// The schedule effectively ends once the shifted rate reaches zero, i.e.
// after baseRate.BitLen() intervals.
type Halving struct {
	start    uint64
	interval uint64
	baseRate *big.Int
	end      uint64
}

// NewHalving creates a halving schedule.
func NewHalving(start uint64, baseRate *big.Int, interval uint64) (*Halving, error) {
	if interval == 0 {
		return nil, errors.New("halving interval must be positive")
	}
	if baseRate == nil || baseRate.Sign() <= 0 {
		return nil, errors.New("base rate must be positive")
	}
	return &Halving{
		start:    start,
		interval: interval,
		baseRate: new(big.Int).Set(baseRate),
		end:      start + interval*uint64(baseRate.BitLen()),
	}, nil
}

func (h *Halving) Start() uint64 { return h.start }

func (h *Halving) End() uint64 { return h.end }

// EmittedBetween integrates the halving curve over [from, to), splitting the
// interval at every halving boundary it crosses.
func (h *Halving) EmittedBetween(from, to uint64) *big.Int {
	from = clamp(from, h.start, h.end)
	to = clamp(to, h.start, h.end)
	if from >= to {
		return new(big.Int)
	}

	total := new(big.Int)
	interval := new(big.Int).SetUint64(h.interval)
	for cursor := from; cursor < to; {
		k := (cursor - h.start) / h.interval
		boundary := h.start + (k+1)*h.interval
		segEnd := min(boundary, to)

		// rate over this interval is baseRate >> k, scaled by the fraction
		// of the interval covered
		part := new(big.Int).Rsh(h.baseRate, uint(k))
		part.Mul(part, new(big.Int).SetUint64(segEnd-cursor))
		part.Div(part, interval)
		total.Add(total, part)

		cursor = segEnd
	}
	return total
}

func (h *Halving) Descriptor() *Descriptor {
	return &Descriptor{
		Kind:     "halving",
		Start:    h.start,
		End:      h.end,
		BaseRate: new(big.Int).Set(h.baseRate),
		Interval: h.interval,
	}
}
