// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/solidity"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/schedule"
)

var (
	slotAccumulator = stakevault.BytesToBytes32([]byte("rewards-accumulator"))
	slotLastSettled = stakevault.BytesToBytes32([]byte("rewards-last-settled"))
	slotTotalWeight = stakevault.BytesToBytes32([]byte("rewards-total-weight"))
	slotFeePool     = stakevault.BytesToBytes32([]byte("rewards-fee-pool"))
	slotAccounts    = stakevault.BytesToBytes32([]byte("rewards-accounts"))
)

// ResiduePolicy decides where the per-settlement rounding residue goes.
type ResiduePolicy uint8

const (
	// ResidueForfeit leaves the residue permanently unattributed.
	ResidueForfeit ResiduePolicy = iota
	// ResidueSweepToFee adds the residue to the fee pool.
	ResidueSweepToFee
)

// Service is the lazy reward settlement engine. It maintains the global
// reward-per-unit-weight accumulator and the per-depositor reward accounts,
// integrating the emission schedule on demand.
//
// Every mutation of any weight, global or per depositor, must be preceded by
// the matching settle call, so that a weight change only affects accrual
// after it.
type Service struct {
	sched  schedule.Schedule
	policy ResiduePolicy

	accumulator *solidity.Uint256
	lastSettled *solidity.Uint64
	totalWeight *solidity.Uint256
	feePool     *solidity.Uint256
	accounts    *solidity.Mapping[stakevault.Address, *Account]
}

// New creates the reward service over sctx.
func New(sctx *solidity.Context, sched schedule.Schedule, policy ResiduePolicy) *Service {
	return &Service{
		sched:  sched,
		policy: policy,

		accumulator: solidity.NewUint256(sctx, slotAccumulator),
		lastSettled: solidity.NewUint64(sctx, slotLastSettled),
		totalWeight: solidity.NewUint256(sctx, slotTotalWeight),
		feePool:     solidity.NewUint256(sctx, slotFeePool),
		accounts:    solidity.NewMapping[stakevault.Address, *Account](sctx, slotAccounts),
	}
}

// Schedule returns the emission schedule driving the service.
func (s *Service) Schedule() schedule.Schedule {
	return s.sched
}

// Accumulator returns the current reward-per-unit-weight accumulator value,
// at AccumulatorScale precision.
func (s *Service) Accumulator() (*big.Int, error) {
	return s.accumulator.Get()
}

// LastSettled returns the instant the global state was last settled to.
// Never before the schedule start.
func (s *Service) LastSettled() (uint64, error) {
	last, err := s.lastSettled.Get()
	if err != nil {
		return 0, err
	}
	return max(last, s.sched.Start()), nil
}

// TotalWeight returns the sum of all depositors' weight.
func (s *Service) TotalWeight() (*big.Int, error) {
	return s.totalWeight.Get()
}

// FeePool returns the accumulated unclaimed fee.
func (s *Service) FeePool() (*big.Int, error) {
	return s.feePool.Get()
}

// Account returns a copy of the depositor's reward account.
func (s *Service) Account(addr stakevault.Address) (*Account, error) {
	acc, err := s.accounts.Get(addr)
	if err != nil {
		return nil, err
	}
	return acc.normalized(), nil
}

// SettleGlobal folds emission since the last settlement into the global
// accumulator, net of the fee skim. Idempotent within one instant. Emission
// over an interval with zero total weight is forfeited: the settlement
// timestamp advances and the accumulator stays put.
func (s *Service) SettleGlobal(now uint64, feeRate uint32) error {
	now = min(now, s.sched.End())

	last, err := s.LastSettled()
	if err != nil {
		return err
	}
	if now <= last {
		return nil
	}

	totalWeight, err := s.totalWeight.Get()
	if err != nil {
		return err
	}
	if totalWeight.Sign() == 0 {
		s.lastSettled.Set(now)
		return nil
	}

	reward := s.sched.EmittedBetween(last, now)
	fee := new(big.Int).Mul(reward, new(big.Int).SetUint64(uint64(feeRate)))
	fee.Div(fee, new(big.Int).SetUint64(uint64(stakevault.RateScale)))
	net := new(big.Int).Sub(reward, fee)

	delta := new(big.Int).Mul(net, stakevault.AccumulatorScale)
	delta.Div(delta, totalWeight)

	if s.policy == ResidueSweepToFee {
		// what the floored per-weight delta actually hands out
		distributed := new(big.Int).Mul(delta, totalWeight)
		distributed.Div(distributed, stakevault.AccumulatorScale)
		fee.Add(fee, new(big.Int).Sub(net, distributed))
	}

	if err := s.accumulator.Add(delta); err != nil {
		return err
	}
	if err := s.feePool.Add(fee); err != nil {
		return err
	}
	s.lastSettled.Set(now)
	return nil
}

// SettleAccount settles globally, then folds the depositor's newly accrued
// share into their pending balance. The reward debt is refreshed even at
// zero weight so it never goes stale.
func (s *Service) SettleAccount(addr stakevault.Address, weight uint64, now uint64, feeRate uint32) error {
	if err := s.SettleGlobal(now, feeRate); err != nil {
		return err
	}

	accumulator, err := s.accumulator.Get()
	if err != nil {
		return err
	}
	account, err := s.Account(addr)
	if err != nil {
		return err
	}

	if weight > 0 {
		account.Pending.Add(account.Pending, accruedShare(weight, accumulator, account.Debt))
	}
	account.Debt.Set(accumulator)
	return s.accounts.Set(addr, account)
}

// Claimable reproduces SettleAccount's arithmetic without mutating anything:
// the depositor's unclaimed share as of `at`. It agrees exactly with the
// stored pending balance right after a real settlement at the same instant.
func (s *Service) Claimable(addr stakevault.Address, weight uint64, at uint64, feeRate uint32) (*big.Int, error) {
	account, err := s.Account(addr)
	if err != nil {
		return nil, err
	}
	if weight == 0 {
		return account.Pending, nil
	}

	accumulator, err := s.projectedAccumulator(at, feeRate)
	if err != nil {
		return nil, err
	}
	return account.Pending.Add(account.Pending, accruedShare(weight, accumulator, account.Debt)), nil
}

// projectedAccumulator computes the accumulator value a settlement at `at`
// would produce, without performing it.
func (s *Service) projectedAccumulator(at uint64, feeRate uint32) (*big.Int, error) {
	accumulator, err := s.accumulator.Get()
	if err != nil {
		return nil, err
	}

	at = min(at, s.sched.End())
	last, err := s.LastSettled()
	if err != nil {
		return nil, err
	}
	if at <= last {
		return accumulator, nil
	}
	totalWeight, err := s.totalWeight.Get()
	if err != nil {
		return nil, err
	}
	if totalWeight.Sign() == 0 {
		return accumulator, nil
	}

	reward := s.sched.EmittedBetween(last, at)
	fee := new(big.Int).Mul(reward, new(big.Int).SetUint64(uint64(feeRate)))
	fee.Div(fee, new(big.Int).SetUint64(uint64(stakevault.RateScale)))
	net := new(big.Int).Sub(reward, fee)

	delta := new(big.Int).Mul(net, stakevault.AccumulatorScale)
	delta.Div(delta, totalWeight)
	return accumulator.Add(accumulator, delta), nil
}

// AddWeight increases the global total weight. The caller must have settled
// the affected depositor first.
func (s *Service) AddWeight(delta uint64) error {
	return s.totalWeight.Add(new(big.Int).SetUint64(delta))
}

// SubWeight decreases the global total weight.
func (s *Service) SubWeight(delta uint64) error {
	return s.totalWeight.Sub(new(big.Int).SetUint64(delta))
}

// Withdraw moves amount from the depositor's pending balance to their
// claimed total. The account must have been settled in the same operation.
func (s *Service) Withdraw(addr stakevault.Address, amount *big.Int) error {
	account, err := s.Account(addr)
	if err != nil {
		return err
	}
	if account.Pending.Cmp(amount) < 0 {
		return errors.Errorf("withdraw %v exceeds pending %v", amount, account.Pending)
	}
	account.Pending.Sub(account.Pending, amount)
	account.Claimed.Add(account.Claimed, amount)
	return s.accounts.Set(addr, account)
}

// ResetDebt pins the depositor's reward debt to the current accumulator
// without settling, dropping any share accrued since their last settlement.
// Used by the emergency exit path only.
func (s *Service) ResetDebt(addr stakevault.Address) error {
	accumulator, err := s.accumulator.Get()
	if err != nil {
		return err
	}
	account, err := s.Account(addr)
	if err != nil {
		return err
	}
	account.Debt.Set(accumulator)
	return s.accounts.Set(addr, account)
}

// TakeFees empties the fee pool and returns the taken amount.
func (s *Service) TakeFees() (*big.Int, error) {
	fees, err := s.feePool.Get()
	if err != nil {
		return nil, err
	}
	s.feePool.Set(new(big.Int))
	return fees, nil
}

// accruedShare is weight * (accumulator - debt) / AccumulatorScale, floored.
func accruedShare(weight uint64, accumulator, debt *big.Int) *big.Int {
	share := new(big.Int).Sub(accumulator, debt)
	share.Mul(share, new(big.Int).SetUint64(weight))
	return share.Div(share, stakevault.AccumulatorScale)
}
