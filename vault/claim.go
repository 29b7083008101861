// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/limiter"
	"github.com/vechain/stakevault/vault/reverts"
)

// Claim pays out part of the depositor's settled reward. The amount is
// checked against the withdrawal limiter and against the vault's own
// token holdings.
func (v *Vault) Claim(depositor stakevault.Address, amount *big.Int, now uint64) error {
	return v.runMutation("claim", func() ([]*Event, error) {
		if amount == nil || amount.Sign() <= 0 {
			return nil, reverts.ZeroAmount()
		}
		return v.claim(depositor, amount, now)
	})
}

// ClaimAll pays out everything the limiter allows right now. Reverts
// with ZeroAmount when nothing is withdrawable.
func (v *Vault) ClaimAll(depositor stakevault.Address, now uint64) (*big.Int, error) {
	var paid *big.Int
	err := v.runMutation("claim_all", func() ([]*Event, error) {
		amount, err := v.withdrawableAfterSettle(depositor, now)
		if err != nil {
			return nil, err
		}
		if amount.Sign() == 0 {
			return nil, reverts.ZeroAmount()
		}
		events, err := v.claim(depositor, amount, now)
		if err != nil {
			return nil, err
		}
		paid = amount
		return events, nil
	})
	return paid, err
}

func (v *Vault) withdrawableAfterSettle(depositor stakevault.Address, now uint64) (*big.Int, error) {
	if err := v.settleDepositor(depositor, now); err != nil {
		return nil, err
	}
	params, err := v.gov.Current()
	if err != nil {
		return nil, err
	}
	acc, err := v.rewards.Account(depositor)
	if err != nil {
		return nil, err
	}
	return limiter.Withdrawable(params.LimiterParams(), v.sched.Start(), now, acc.Claimed, acc.Pending), nil
}

func (v *Vault) claim(depositor stakevault.Address, amount *big.Int, now uint64) ([]*Event, error) {
	if err := v.requireRunning(); err != nil {
		return nil, err
	}
	allowed, err := v.withdrawableAfterSettle(depositor, now)
	if err != nil {
		return nil, err
	}
	if amount.Cmp(allowed) > 0 {
		return nil, reverts.ClaimExceedsAllowance("requested %v, allowed %v", amount, allowed)
	}

	held, err := v.tokens.BalanceOf(v.self)
	if err != nil {
		return nil, errors.Wrap(err, "query holdings")
	}
	if held.Cmp(amount) < 0 {
		return nil, reverts.InsufficientLedgerBalance("payout %v exceeds held %v", amount, held)
	}

	if err := v.rewards.Withdraw(depositor, amount); err != nil {
		return nil, err
	}
	if err := v.tokens.Transfer(v.self, depositor, amount); err != nil {
		return nil, errors.Wrap(err, "pay out")
	}
	logger.Debug("claimed", "depositor", depositor, "amount", amount)
	return []*Event{{
		Kind:      EventClaim,
		Depositor: depositor,
		Amount:    new(big.Int).Set(amount),
		Time:      now,
	}}, nil
}

// CollectFees sweeps the accumulated fee pool to the governed recipient.
func (v *Vault) CollectFees(now uint64) (*big.Int, error) {
	var swept *big.Int
	err := v.runMutation("collect_fees", func() ([]*Event, error) {
		rate, err := v.feeRate()
		if err != nil {
			return nil, err
		}
		if err := v.rewards.SettleGlobal(now, rate); err != nil {
			return nil, err
		}
		fees, err := v.rewards.TakeFees()
		if err != nil {
			return nil, err
		}
		if fees.Sign() == 0 {
			return nil, reverts.ZeroAmount()
		}
		held, err := v.tokens.BalanceOf(v.self)
		if err != nil {
			return nil, errors.Wrap(err, "query holdings")
		}
		if held.Cmp(fees) < 0 {
			return nil, reverts.InsufficientLedgerBalance("fee sweep %v exceeds held %v", fees, held)
		}
		params, err := v.gov.Current()
		if err != nil {
			return nil, err
		}
		if err := v.tokens.Transfer(v.self, params.FeeRecipient, fees); err != nil {
			return nil, errors.Wrap(err, "sweep fees")
		}
		swept = fees
		logger.Info("fees swept", "recipient", params.FeeRecipient, "amount", fees)
		return []*Event{{
			Kind:      EventFeeSweep,
			Depositor: params.FeeRecipient,
			Amount:    new(big.Int).Set(fees),
			Time:      now,
		}}, nil
	})
	return swept, err
}

// EmergencyWithdraw returns all of the depositor's items without
// settling. Whatever accrued since their last settlement is forfeited.
// Works while paused; that is the point.
func (v *Vault) EmergencyWithdraw(depositor stakevault.Address, now uint64) error {
	return v.runMutation("emergency_withdraw", func() ([]*Event, error) {
		keys, err := v.heldKeys(depositor, nil)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, reverts.NotStaked("nothing staked by %v", depositor)
		}

		// unsettled accrual is dropped on purpose; the debt snap
		// keeps the next settlement from crediting it late
		if err := v.rewards.ResetDebt(depositor); err != nil {
			return nil, err
		}

		events := make([]*Event, 0, len(keys))
		for _, key := range keys {
			weight, err := v.table.Weight(key.Class)
			if err != nil {
				return nil, err
			}
			if _, err := v.registry.Remove(depositor, key.Class, key.ID, weight); err != nil {
				return nil, err
			}
			if err := v.rewards.SubWeight(weight); err != nil {
				return nil, err
			}
			events = append(events, &Event{
				Kind:      EventEmergency,
				Depositor: depositor,
				Class:     key.Class,
				ItemID:    key.ID,
				Time:      now,
			})
		}
		for _, key := range keys {
			if err := v.items.TransferItem(v.self, depositor, key.Class, key.ID); err != nil {
				return nil, errors.Wrap(err, "return custody")
			}
		}
		logger.Warn("emergency withdrawal", "depositor", depositor, "items", len(keys))
		return events, nil
	})
}
