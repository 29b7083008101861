// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math/big"

	"github.com/pkg/errors"
)

// Period is one leg of a finite schedule: Total units emitted linearly over
// Duration.
type Period struct {
	Duration uint64
	Total    *big.Int
}

// Periods is a finite ordered emission schedule. The legs span the full
// schedule back to back; after the last one nothing is emitted.
type Periods struct {
	start   uint64
	end     uint64
	periods []Period
	offsets []uint64 // start offset of each period, relative to start
}

// NewPeriods creates a finite multi-period schedule.
func NewPeriods(start uint64, periods []Period) (*Periods, error) {
	if len(periods) == 0 {
		return nil, errors.New("schedule needs at least one period")
	}
	offsets := make([]uint64, len(periods))
	var elapsed uint64
	for i, p := range periods {
		if p.Duration == 0 {
			return nil, errors.Errorf("period %d has zero duration", i)
		}
		if p.Total == nil || p.Total.Sign() < 0 {
			return nil, errors.Errorf("period %d has invalid total", i)
		}
		offsets[i] = elapsed
		elapsed += p.Duration
	}

	cloned := make([]Period, len(periods))
	for i, p := range periods {
		cloned[i] = Period{Duration: p.Duration, Total: new(big.Int).Set(p.Total)}
	}
	return &Periods{
		start:   start,
		end:     start + elapsed,
		periods: cloned,
		offsets: offsets,
	}, nil
}

func (p *Periods) Start() uint64 { return p.start }

func (p *Periods) End() uint64 { return p.end }

// EmittedBetween integrates over [from, to), splitting at period boundaries.
func (p *Periods) EmittedBetween(from, to uint64) *big.Int {
	from = clamp(from, p.start, p.end)
	to = clamp(to, p.start, p.end)
	total := new(big.Int)
	if from >= to {
		return total
	}

	for i, period := range p.periods {
		pStart := p.start + p.offsets[i]
		pEnd := pStart + period.Duration
		if pEnd <= from {
			continue
		}
		if pStart >= to {
			break
		}

		segStart := max(from, pStart)
		segEnd := min(to, pEnd)

		part := new(big.Int).Mul(period.Total, new(big.Int).SetUint64(segEnd-segStart))
		part.Div(part, new(big.Int).SetUint64(period.Duration))
		total.Add(total, part)
	}
	return total
}

func (p *Periods) Descriptor() *Descriptor {
	items := make([]PeriodDescItem, len(p.periods))
	for i, period := range p.periods {
		items[i] = PeriodDescItem{Duration: period.Duration, Total: new(big.Int).Set(period.Total)}
	}
	return &Descriptor{
		Kind:    "periods",
		Start:   p.start,
		End:     p.end,
		Periods: items,
	}
}
