// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/vechain/stakevault/vault/governance"
)

// ProposeParams queues a parameter change behind the timelock. A pending
// proposal is overwritten, restarting its clock.
func (v *Vault) ProposeParams(params governance.Params, now uint64) error {
	return v.runMutation("propose", func() ([]*Event, error) {
		if err := v.gov.Propose(params, now); err != nil {
			return nil, err
		}
		logger.Info("params proposed", "eta", now+v.gov.Delay())
		return []*Event{{Kind: EventPropose, Time: now}}, nil
	})
}

// ApplyParams activates the pending proposal once its delay has elapsed.
// Emission up to now is settled at the old fee rate first, so a rate
// change never applies retroactively.
func (v *Vault) ApplyParams(now uint64) (*governance.Params, error) {
	var applied *governance.Params
	err := v.runMutation("apply", func() ([]*Event, error) {
		oldRate, err := v.feeRate()
		if err != nil {
			return nil, err
		}
		if err := v.rewards.SettleGlobal(now, oldRate); err != nil {
			return nil, err
		}
		params, err := v.gov.Apply(now)
		if err != nil {
			return nil, err
		}
		applied = params
		logger.Info("params applied",
			"feeRecipient", params.FeeRecipient,
			"feeRate", params.FeeRate,
			"withdrawWindow", params.WithdrawWindow,
			"withdrawRate", params.WithdrawRate)
		return []*Event{{Kind: EventApply, Time: now}}, nil
	})
	return applied, err
}

// Pause gates stake, unstake and claim. Emergency withdrawal stays open.
func (v *Vault) Pause(now uint64) error {
	return v.runMutation("pause", func() ([]*Event, error) {
		v.paused.Set(1)
		metricPaused().Set(1)
		logger.Warn("vault paused")
		return []*Event{{Kind: EventPause, Time: now}}, nil
	})
}

// Unpause reopens normal operations.
func (v *Vault) Unpause(now uint64) error {
	return v.runMutation("unpause", func() ([]*Event, error) {
		v.paused.Set(0)
		metricPaused().Set(0)
		logger.Info("vault unpaused")
		return []*Event{{Kind: EventUnpause, Time: now}}, nil
	})
}
