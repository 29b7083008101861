// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package limiter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakevault/stakevault"
)

const start = uint64(1_000_000)

func TestWithdrawableInsideWindow(t *testing.T) {
	p := Params{Window: 3600, Rate: 2500} // 25% during the first hour

	// nothing claimed yet: 25% of lifetime 1000
	got := Withdrawable(p, start, start+10, big.NewInt(0), big.NewInt(1000))
	assert.Equal(t, big.NewInt(250), got)

	// 100 already claimed: allowance 275, minus claimed
	got = Withdrawable(p, start, start+10, big.NewInt(100), big.NewInt(1000))
	assert.Equal(t, big.NewInt(175), got)

	// allowance exhausted
	got = Withdrawable(p, start, start+10, big.NewInt(400), big.NewInt(100))
	assert.Equal(t, big.NewInt(0), got)
}

func TestWithdrawableAfterWindow(t *testing.T) {
	p := Params{Window: 3600, Rate: 2500}

	got := Withdrawable(p, start, start+3600, big.NewInt(500), big.NewInt(1000))
	assert.Equal(t, big.NewInt(1000), got)
}

func TestWithdrawableDegenerate(t *testing.T) {
	claimable := big.NewInt(777)

	full := Withdrawable(Params{Window: 0, Rate: 100}, start, start, big.NewInt(0), claimable)
	assert.Equal(t, claimable, full)

	full = Withdrawable(Params{Window: 3600, Rate: stakevault.RateScale}, start, start, big.NewInt(0), claimable)
	assert.Equal(t, claimable, full)

	zero := Withdrawable(Params{Window: 3600, Rate: 100}, start, start, big.NewInt(5), big.NewInt(0))
	assert.Equal(t, 0, zero.Sign())
}

func TestWithdrawableNeverExceedsAllowance(t *testing.T) {
	p := Params{Window: 3600, Rate: 9000} // 90%

	// lifetime 500, allowance 450, 100 claimed of it: 350 allowed now
	got := Withdrawable(p, start, start+1, big.NewInt(100), big.NewInt(400))
	assert.Equal(t, big.NewInt(350), got)

	// claimed already past the lifetime allowance: nothing more,
	// regardless of the claimable balance
	got = Withdrawable(p, start, start+1, big.NewInt(10_000), big.NewInt(50))
	assert.Equal(t, 0, got.Sign())
}

// growing time or claimed must never shrink what was already allowed
func TestWithdrawableMonotonic(t *testing.T) {
	p := Params{Window: 3600, Rate: 1234}

	claimable := big.NewInt(100_000)
	prev := new(big.Int)
	for offset := uint64(0); offset <= 4000; offset += 250 {
		got := Withdrawable(p, start, start+offset, big.NewInt(0), claimable)
		assert.True(t, got.Cmp(prev) >= 0, "allowance shrank at +%d", offset)
		prev = got
	}

	// exercising the allowance: claimed+remaining claimable stays the same,
	// so the lifetime allowance never regresses
	claimed := new(big.Int)
	remaining := new(big.Int).Set(claimable)
	for i := 0; i < 5; i++ {
		avail := Withdrawable(p, start, start+10, claimed, remaining)
		claimed.Add(claimed, avail)
		remaining.Sub(remaining, avail)
	}
	want := new(big.Int).Mul(claimable, big.NewInt(1234))
	want.Div(want, big.NewInt(int64(stakevault.RateScale)))
	assert.Equal(t, want, claimed, "repeated claims converge on the exact allowance")
}
