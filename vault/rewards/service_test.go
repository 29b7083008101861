// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/solidity"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/vault/schedule"
)

const (
	start    = uint64(1_000_000)
	interval = uint64(600)
	noFee    = uint32(0)
)

var (
	depositorA = stakevault.BytesToAddress([]byte("depositor-a"))
	depositorB = stakevault.BytesToAddress([]byte("depositor-b"))
)

func newService(t *testing.T, policy ResiduePolicy) *Service {
	sched, err := schedule.NewHalving(start, big.NewInt(160), interval)
	require.NoError(t, err)
	return New(solidity.NewContext(state.New()), sched, policy)
}

// stake settles the account then adds its weight, the way the vault does.
func stake(t *testing.T, s *Service, addr stakevault.Address, weight uint64, now uint64) {
	require.NoError(t, s.SettleAccount(addr, 0, now, noFee))
	require.NoError(t, s.AddWeight(weight))
}

func TestSettleIdempotence(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 10, start)

	now := start + 100
	require.NoError(t, s.SettleGlobal(now, noFee))
	acc1, _ := s.Accumulator()
	fees1, _ := s.FeePool()

	require.NoError(t, s.SettleGlobal(now, noFee))
	acc2, _ := s.Accumulator()
	fees2, _ := s.FeePool()

	assert.Equal(t, acc1, acc2)
	assert.Equal(t, fees1, fees2)

	last, _ := s.LastSettled()
	assert.Equal(t, now, last)
}

func TestZeroWeightForfeiture(t *testing.T) {
	s := newService(t, ResidueForfeit)

	// a full interval passes with no weight at all
	require.NoError(t, s.SettleGlobal(start+interval, noFee))
	acc, _ := s.Accumulator()
	assert.Equal(t, 0, acc.Sign())
	last, _ := s.LastSettled()
	assert.Equal(t, start+interval, last)

	// weight arrives afterwards; only emission from here on counts
	stake(t, s, depositorA, 1, start+interval)
	require.NoError(t, s.SettleAccount(depositorA, 1, start+2*interval, noFee))

	account, err := s.Account(depositorA)
	require.NoError(t, err)
	// second interval emits 80, all of it to the only weight holder
	assert.Equal(t, big.NewInt(80), account.Pending)
}

func TestMonotonicAccumulator(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 7, start)

	prev := new(big.Int)
	for now := start; now < start+3*interval; now += 37 {
		require.NoError(t, s.SettleGlobal(now, noFee))
		acc, _ := s.Accumulator()
		assert.True(t, acc.Cmp(prev) >= 0, "accumulator decreased at %d", now)
		prev = acc
	}
}

func TestFeeSkim(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 4, start)

	// 10% fee on one interval's 160
	require.NoError(t, s.SettleAccount(depositorA, 4, start+interval, uint32(1000)))

	fees, _ := s.FeePool()
	assert.Equal(t, big.NewInt(16), fees)

	account, _ := s.Account(depositorA)
	assert.Equal(t, big.NewInt(144), account.Pending)

	taken, err := s.TakeFees()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(16), taken)
	fees, _ = s.FeePool()
	assert.Equal(t, 0, fees.Sign())
}

// The spec scenario: weights 1 and 2500, one full period of 160 units.
func TestProRataScenario(t *testing.T) {
	s := newService(t, ResidueSweepToFee)
	stake(t, s, depositorA, 1, start)
	stake(t, s, depositorB, 2500, start)

	now := start + interval
	claimableA, err := s.Claimable(depositorA, 1, now, noFee)
	require.NoError(t, err)
	claimableB, err := s.Claimable(depositorB, 2500, now, noFee)
	require.NoError(t, err)

	// floor(160 * 1/2501) and floor(160 * 2500/2501)
	assert.Equal(t, big.NewInt(0), claimableA)
	assert.Equal(t, big.NewInt(159), claimableB)

	// settle for real: pending agrees exactly with the quotes
	require.NoError(t, s.SettleAccount(depositorA, 1, now, noFee))
	require.NoError(t, s.SettleAccount(depositorB, 2500, now, noFee))

	accountA, _ := s.Account(depositorA)
	accountB, _ := s.Account(depositorB)
	assert.Equal(t, claimableA, accountA.Pending)
	assert.Equal(t, claimableB, accountB.Pending)

	// the floor residue is swept to the fee pool, closing the books at 160
	fees, _ := s.FeePool()
	sum := new(big.Int).Add(accountA.Pending, accountB.Pending)
	sum.Add(sum, fees)
	assert.Equal(t, big.NewInt(160), sum)
}

func TestResidueForfeitPolicy(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 1, start)
	stake(t, s, depositorB, 2500, start)

	require.NoError(t, s.SettleGlobal(start+interval, noFee))
	fees, _ := s.FeePool()
	assert.Equal(t, 0, fees.Sign(), "forfeit policy must not credit the residue anywhere")
}

func TestWeightChangeIsolation(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 10, start)

	// A alone for one interval: earns the full 160
	require.NoError(t, s.SettleAccount(depositorA, 10, start+interval, noFee))
	account, _ := s.Account(depositorA)
	earnedAlone := new(big.Int).Set(account.Pending)
	assert.Equal(t, big.NewInt(160), earnedAlone)

	// B joins with triple the weight
	stake(t, s, depositorB, 30, start+interval)

	// second interval emits 80, split 1:3
	require.NoError(t, s.SettleAccount(depositorA, 10, start+2*interval, noFee))
	require.NoError(t, s.SettleAccount(depositorB, 30, start+2*interval, noFee))

	accountA, _ := s.Account(depositorA)
	accountB, _ := s.Account(depositorB)

	// A's pre-join earnings are untouched; B earned nothing retroactively
	assert.Equal(t, new(big.Int).Add(earnedAlone, big.NewInt(20)), accountA.Pending)
	assert.Equal(t, big.NewInt(60), accountB.Pending)
}

func TestFullUnstakeThenIdle(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 5, start)

	// settle and fully unstake
	require.NoError(t, s.SettleAccount(depositorA, 5, start+interval, noFee))
	require.NoError(t, s.SubWeight(5))

	accBefore, _ := s.Accumulator()

	// an idle interval with zero weight
	require.NoError(t, s.SettleGlobal(start+2*interval, noFee))
	accAfter, _ := s.Accumulator()
	assert.Equal(t, accBefore, accAfter, "idle emission must not grow the accumulator")

	// weight returns; only emission after that is distributed
	stake(t, s, depositorB, 5, start+2*interval)
	require.NoError(t, s.SettleAccount(depositorB, 5, start+3*interval, noFee))
	accountB, _ := s.Account(depositorB)
	assert.Equal(t, big.NewInt(40), accountB.Pending)
}

func TestConservation(t *testing.T) {
	s := newService(t, ResidueSweepToFee)
	feeRate := uint32(250) // 2.5%

	weightOf := map[stakevault.Address]uint64{}
	settleAll := func(now uint64) {
		for addr, w := range weightOf {
			require.NoError(t, s.SettleAccount(addr, w, now, feeRate))
		}
	}

	reSettle := func(addr stakevault.Address, weight uint64, now uint64) {
		require.NoError(t, s.SettleAccount(addr, weightOf[addr], now, feeRate))
		if weight > weightOf[addr] {
			require.NoError(t, s.AddWeight(weight-weightOf[addr]))
		} else {
			require.NoError(t, s.SubWeight(weightOf[addr]-weight))
		}
		weightOf[addr] = weight
	}

	reSettle(depositorA, 3, start)
	reSettle(depositorB, 11, start+95)
	reSettle(depositorA, 20, start+700)
	reSettle(depositorB, 0, start+1_111)
	reSettle(depositorB, 7, start+1_400)
	end := start + 2_000
	settleAll(end)

	total := new(big.Int)
	for addr := range weightOf {
		account, err := s.Account(addr)
		require.NoError(t, err)
		total.Add(total, account.Pending)
		total.Add(total, account.Claimed)
	}
	fees, _ := s.FeePool()
	total.Add(total, fees)

	emitted := s.Schedule().EmittedBetween(start, end)
	assert.True(t, total.Cmp(emitted) <= 0, "distributed %v exceeds emitted %v", total, emitted)

	// per-account settlement flooring is the only leak; it is tiny
	dust := new(big.Int).Sub(emitted, total)
	assert.True(t, dust.Cmp(big.NewInt(16)) < 0, "dust %v too large", dust)
}

func TestWithdraw(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 2, start)
	require.NoError(t, s.SettleAccount(depositorA, 2, start+interval, noFee))

	require.NoError(t, s.Withdraw(depositorA, big.NewInt(100)))
	account, _ := s.Account(depositorA)
	assert.Equal(t, big.NewInt(60), account.Pending)
	assert.Equal(t, big.NewInt(100), account.Claimed)

	assert.Error(t, s.Withdraw(depositorA, big.NewInt(61)))
}

func TestResetDebtDropsUnsettledAccrual(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 2, start)

	// half an interval accrues unsettled
	require.NoError(t, s.SettleGlobal(start+interval/2, noFee))
	require.NoError(t, s.ResetDebt(depositorA))
	require.NoError(t, s.SubWeight(2))

	account, _ := s.Account(depositorA)
	assert.Equal(t, 0, account.Pending.Sign(), "reset debt must not credit pending")

	accumulator, _ := s.Accumulator()
	assert.Equal(t, accumulator, account.Debt)
}

func TestSettleClampsToScheduleEnd(t *testing.T) {
	s := newService(t, ResidueForfeit)
	stake(t, s, depositorA, 1, start)

	endOfSchedule := s.Schedule().End()
	require.NoError(t, s.SettleAccount(depositorA, 1, endOfSchedule+10_000, noFee))

	account, _ := s.Account(depositorA)
	assert.Equal(t, big.NewInt(318), account.Pending, "lifetime emission of 160 halved out")

	last, _ := s.LastSettled()
	assert.Equal(t, endOfSchedule, last)
}
