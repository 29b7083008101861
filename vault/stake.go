// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/registry"
	"github.com/vechain/stakevault/vault/reverts"
)

// Stake locks one collateral item and starts accruing its weight.
func (v *Vault) Stake(depositor stakevault.Address, class stakevault.Class, id stakevault.ItemID, now uint64) error {
	return v.runMutation("stake", func() ([]*Event, error) {
		return v.stake(depositor, []registry.ItemKey{{Class: class, ID: id}}, now)
	})
}

// StakeBatch locks several items in one atomic operation. All of them
// stake or none do.
func (v *Vault) StakeBatch(depositor stakevault.Address, keys []registry.ItemKey, now uint64) error {
	return v.runMutation("stake_batch", func() ([]*Event, error) {
		if len(keys) == 0 {
			return nil, reverts.EmptyBatch()
		}
		return v.stake(depositor, keys, now)
	})
}

func (v *Vault) stake(depositor stakevault.Address, keys []registry.ItemKey, now uint64) ([]*Event, error) {
	if err := v.requireRunning(); err != nil {
		return nil, err
	}
	// weights are resolved up front so an unsupported class reverts
	// before any settlement happens
	perItem := make([]uint64, len(keys))
	for i, key := range keys {
		weight, err := v.table.Weight(key.Class)
		if err != nil {
			return nil, err
		}
		perItem[i] = weight
	}

	if err := v.settleDepositor(depositor, now); err != nil {
		return nil, err
	}

	events := make([]*Event, 0, len(keys))
	for i, key := range keys {
		if err := v.registry.Add(depositor, key.Class, key.ID, perItem[i], now); err != nil {
			return nil, err
		}
		if err := v.rewards.AddWeight(perItem[i]); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Kind:      EventStake,
			Depositor: depositor,
			Class:     key.Class,
			ItemID:    key.ID,
			Time:      now,
		})
	}

	// custody last, after all bookkeeping is in place
	for _, key := range keys {
		if err := v.items.TransferItem(depositor, v.self, key.Class, key.ID); err != nil {
			return nil, errors.Wrap(err, "take custody")
		}
	}
	logger.Debug("staked", "depositor", depositor, "items", len(keys))
	return events, nil
}

// Unstake releases one item back to its depositor. Accrual up to now is
// settled first, so the weight drop only affects future emission.
func (v *Vault) Unstake(depositor stakevault.Address, class stakevault.Class, id stakevault.ItemID, now uint64) error {
	return v.runMutation("unstake", func() ([]*Event, error) {
		return v.unstake(depositor, []registry.ItemKey{{Class: class, ID: id}}, now)
	})
}

// UnstakeBatch releases several items atomically.
func (v *Vault) UnstakeBatch(depositor stakevault.Address, keys []registry.ItemKey, now uint64) error {
	return v.runMutation("unstake_batch", func() ([]*Event, error) {
		if len(keys) == 0 {
			return nil, reverts.EmptyBatch()
		}
		return v.unstake(depositor, keys, now)
	})
}

// UnstakeAll releases every item the depositor holds. Releasing nothing
// is not an error.
func (v *Vault) UnstakeAll(depositor stakevault.Address, now uint64) error {
	return v.runMutation("unstake_all", func() ([]*Event, error) {
		keys, err := v.heldKeys(depositor, nil)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, nil
		}
		return v.unstake(depositor, keys, now)
	})
}

// UnstakeClass releases every item of one class the depositor holds.
func (v *Vault) UnstakeClass(depositor stakevault.Address, class stakevault.Class, now uint64) error {
	return v.runMutation("unstake_class", func() ([]*Event, error) {
		keys, err := v.heldKeys(depositor, &class)
		if err != nil {
			return nil, err
		}
		if len(keys) == 0 {
			return nil, nil
		}
		return v.unstake(depositor, keys, now)
	})
}

func (v *Vault) heldKeys(depositor stakevault.Address, class *stakevault.Class) ([]registry.ItemKey, error) {
	items, err := v.registry.AllItems(depositor)
	if err != nil {
		return nil, err
	}
	keys := make([]registry.ItemKey, 0, len(items))
	for _, item := range items {
		if class != nil && item.Class != *class {
			continue
		}
		keys = append(keys, item.Key())
	}
	return keys, nil
}

func (v *Vault) unstake(depositor stakevault.Address, keys []registry.ItemKey, now uint64) ([]*Event, error) {
	if err := v.requireRunning(); err != nil {
		return nil, err
	}
	if err := v.settleDepositor(depositor, now); err != nil {
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
			Kind:      EventUnstake,
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
	logger.Debug("unstaked", "depositor", depositor, "items", len(keys))
	return events, nil
}
