// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	start    = uint64(1_000_000)
	interval = uint64(600) // 10 minutes
)

func newHalving(t *testing.T, baseRate int64) *Halving {
	h, err := NewHalving(start, big.NewInt(baseRate), interval)
	require.NoError(t, err)
	return h
}

func TestHalvingWholePeriods(t *testing.T) {
	h := newHalving(t, 160)

	// 160, 80, 40, ... per interval
	assert.Equal(t, big.NewInt(160), h.EmittedBetween(start, start+interval))
	assert.Equal(t, big.NewInt(80), h.EmittedBetween(start+interval, start+2*interval))
	assert.Equal(t, big.NewInt(240), h.EmittedBetween(start, start+2*interval))
	assert.Equal(t, big.NewInt(280), h.EmittedBetween(start, start+3*interval))
}

func TestHalvingFractionalPeriods(t *testing.T) {
	h := newHalving(t, 160)

	// linear within a period
	assert.Equal(t, big.NewInt(80), h.EmittedBetween(start, start+interval/2))
	assert.Equal(t, big.NewInt(40), h.EmittedBetween(start+interval/4, start+interval/2))

	// interval straddling a halving boundary: half of 160 + half of 80
	got := h.EmittedBetween(start+interval/2, start+interval+interval/2)
	assert.Equal(t, big.NewInt(80+40), got)
}

func TestHalvingBoundarySplitExactness(t *testing.T) {
	// 1200/600 = 2 units per second, so every cut divides evenly and the
	// floored segments add back up to the whole
	h := newHalving(t, 1200)

	for _, cut := range []uint64{1, 7, 299, 300, 599, 600, 601, 1199} {
		left := h.EmittedBetween(start, start+cut)
		right := h.EmittedBetween(start+cut, start+2*interval)
		sum := new(big.Int).Add(left, right)
		assert.Equal(t, h.EmittedBetween(start, start+2*interval), sum, "cut at +%d", cut)
	}
}

func TestHalvingSaturation(t *testing.T) {
	h := newHalving(t, 160)

	// 160 has 8 bits; rate hits zero after 8 intervals
	assert.Equal(t, start+8*interval, h.End())

	total := h.EmittedBetween(start, h.End())
	// 160+80+40+20+10+5+2+1 = 318
	assert.Equal(t, big.NewInt(318), total)

	// beyond the end nothing is emitted
	assert.Equal(t, big.NewInt(0), h.EmittedBetween(h.End(), h.End()+interval))
	assert.Equal(t, total, h.EmittedBetween(start-500, h.End()+1_000_000))
}

func TestHalvingMonotonic(t *testing.T) {
	h := newHalving(t, 1000)

	prev := new(big.Int)
	for to := start; to <= h.End()+interval; to += 17 {
		got := h.EmittedBetween(start, to)
		assert.True(t, got.Cmp(prev) >= 0, "emission decreased at %d", to)
		prev = got
	}
}

func TestHalvingEmptyInterval(t *testing.T) {
	h := newHalving(t, 160)
	assert.Equal(t, big.NewInt(0), h.EmittedBetween(start+50, start+50))
	assert.Equal(t, big.NewInt(0), h.EmittedBetween(start+100, start+50))
}

func TestHalvingRejectsBadParams(t *testing.T) {
	_, err := NewHalving(start, big.NewInt(160), 0)
	assert.Error(t, err)
	_, err = NewHalving(start, big.NewInt(0), interval)
	assert.Error(t, err)
	_, err = NewHalving(start, nil, interval)
	assert.Error(t, err)
}

func newPeriods(t *testing.T) *Periods {
	p, err := NewPeriods(start, []Period{
		{Duration: 600, Total: big.NewInt(6000)},
		{Duration: 300, Total: big.NewInt(900)},
		{Duration: 1200, Total: big.NewInt(120)},
	})
	require.NoError(t, err)
	return p
}

func TestPeriodsLinearWithin(t *testing.T) {
	p := newPeriods(t)

	assert.Equal(t, big.NewInt(6000), p.EmittedBetween(start, start+600))
	assert.Equal(t, big.NewInt(3000), p.EmittedBetween(start, start+300))
	assert.Equal(t, big.NewInt(10), p.EmittedBetween(start, start+1))
}

func TestPeriodsAcrossBoundaries(t *testing.T) {
	p := newPeriods(t)

	// half of period 0 + all of period 1 + a quarter of period 2
	got := p.EmittedBetween(start+300, start+600+300+300)
	assert.Equal(t, big.NewInt(3000+900+30), got)

	// full schedule
	assert.Equal(t, big.NewInt(6000+900+120), p.EmittedBetween(start, p.End()))
}

func TestPeriodsSaturation(t *testing.T) {
	p := newPeriods(t)
	assert.Equal(t, start+2100, p.End())
	assert.Equal(t, big.NewInt(0), p.EmittedBetween(p.End(), p.End()+999))

	total := p.EmittedBetween(start-10, p.End()+10)
	assert.Equal(t, big.NewInt(7020), total)
}

func TestPeriodsSplitExactness(t *testing.T) {
	p := newPeriods(t)

	// cuts chosen so each side divides its period's rate evenly
	whole := p.EmittedBetween(start, p.End())
	for _, cut := range []uint64{1, 300, 599, 600, 601, 900, 910, 1500} {
		left := p.EmittedBetween(start, start+cut)
		right := p.EmittedBetween(start+cut, p.End())
		assert.Equal(t, whole, new(big.Int).Add(left, right), "cut at +%d", cut)
	}
}

func TestPeriodsRejectsBadParams(t *testing.T) {
	_, err := NewPeriods(start, nil)
	assert.Error(t, err)
	_, err = NewPeriods(start, []Period{{Duration: 0, Total: big.NewInt(1)}})
	assert.Error(t, err)
	_, err = NewPeriods(start, []Period{{Duration: 10, Total: big.NewInt(-1)}})
	assert.Error(t, err)
}

func TestPurity(t *testing.T) {
	h := newHalving(t, 160)
	a := h.EmittedBetween(start, start+1000)
	b := h.EmittedBetween(start, start+1000)
	assert.Equal(t, a, b)

	// mutating a result must not corrupt the schedule
	a.SetInt64(-1)
	assert.Equal(t, b, h.EmittedBetween(start, start+1000))
}

func TestFromYAMLHalving(t *testing.T) {
	s, err := FromYAML([]byte(`
start: 1000000
halving:
  baseRate: "160"
  interval: 600
`))
	require.NoError(t, err)

	desc := s.Descriptor()
	assert.Equal(t, "halving", desc.Kind)
	assert.Equal(t, start, desc.Start)
	assert.Equal(t, big.NewInt(160), desc.BaseRate)
	assert.Equal(t, big.NewInt(160), s.EmittedBetween(start, start+600))
}

func TestFromYAMLPeriods(t *testing.T) {
	s, err := FromYAML([]byte(`
start: 1000000
periods:
  - duration: 600
    total: "6000"
  - duration: 300
    total: "900"
`))
	require.NoError(t, err)

	desc := s.Descriptor()
	assert.Equal(t, "periods", desc.Kind)
	assert.Len(t, desc.Periods, 2)
	assert.Equal(t, big.NewInt(6900), s.EmittedBetween(start, s.End()))
}

func TestFromYAMLRejects(t *testing.T) {
	_, err := FromYAML([]byte(`start: 1`))
	assert.Error(t, err)

	_, err = FromYAML([]byte(`
start: 1
halving: {baseRate: "10", interval: 5}
periods: [{duration: 5, total: "1"}]
`))
	assert.Error(t, err)

	_, err = FromYAML([]byte(`
start: 1
halving: {baseRate: "xyz", interval: 5}
`))
	assert.Error(t, err)
}
