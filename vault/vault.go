// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vault is the weighted-staking reward engine. Depositors lock
// collateral items of weighted classes and accrue a pro-rata share of a
// scheduled reward emission, settled lazily through a global per-weight
// accumulator.
package vault

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/stakevault/ledger"
	"github.com/vechain/stakevault/log"
	"github.com/vechain/stakevault/metrics"
	"github.com/vechain/stakevault/solidity"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/vault/governance"
	"github.com/vechain/stakevault/vault/limiter"
	"github.com/vechain/stakevault/vault/registry"
	"github.com/vechain/stakevault/vault/reverts"
	"github.com/vechain/stakevault/vault/rewards"
	"github.com/vechain/stakevault/vault/schedule"
	"github.com/vechain/stakevault/vault/weights"
)

var (
	logger = log.WithContext("pkg", "vault")

	slotPaused = stakevault.BytesToBytes32([]byte("vault-paused"))

	metricOps    = metrics.LazyLoadCounterVec("vault_operation_count", []string{"op"})
	metricRevert = metrics.LazyLoadCounterVec("vault_revert_count", []string{"reason"})
	metricPaused = metrics.LazyLoadGauge("vault_paused")
)

// Options configures a new engine instance.
type Options struct {
	// Self is the custody address items and reward funds are held under.
	Self stakevault.Address
	// Table maps supported collateral classes to weights.
	Table *weights.Table
	// Schedule is the reward emission schedule.
	Schedule schedule.Schedule
	// Residue selects where per-settlement rounding residue goes.
	Residue rewards.ResiduePolicy
	// GovernanceDelay is the parameter-change timelock in seconds.
	GovernanceDelay uint64
	// Params is the initial governed parameter set.
	Params governance.Params
	// Recorder, when non-nil, receives an Event per committed operation.
	Recorder Recorder
}

// Vault ties the reward accumulator, the stake registry and governance
// together behind atomic entry points. Every mutating operation settles
// first, runs against a state checkpoint, and either commits whole or
// reverts whole.
type Vault struct {
	self  stakevault.Address
	table *weights.Table
	sched schedule.Schedule

	state    *state.State
	rewards  *rewards.Service
	registry *registry.Service
	gov      *governance.Service

	tokens ledger.FungibleLedger
	items  ledger.CollateralRegistry
	rec    Recorder

	paused *solidity.Uint64

	mu      sync.Mutex
	entered bool
	version atomic.Uint64
}

// New creates an engine over fresh state and installs the initial
// governed parameters.
func New(st *state.State, opts Options, tokens ledger.FungibleLedger, items ledger.CollateralRegistry) (*Vault, error) {
	if opts.Table == nil {
		return nil, errors.New("weight table required")
	}
	if opts.Schedule == nil {
		return nil, errors.New("emission schedule required")
	}
	if opts.GovernanceDelay > stakevault.MaxTimelockDelay {
		return nil, errors.Errorf("governance delay exceeds %d", stakevault.MaxTimelockDelay)
	}
	sctx := solidity.NewContext(st)

	v := &Vault{
		self:     opts.Self,
		table:    opts.Table,
		sched:    opts.Schedule,
		state:    st,
		rewards:  rewards.New(sctx, opts.Schedule, opts.Residue),
		registry: registry.New(sctx),
		gov:      governance.New(sctx, opts.GovernanceDelay),
		tokens:   tokens,
		items:    items,
		rec:      opts.Recorder,
		paused:   solidity.NewUint64(sctx, slotPaused),
	}
	if err := v.gov.Init(opts.Params); err != nil {
		return nil, errors.Wrap(err, "init governance")
	}
	st.Commit()
	return v, nil
}

// Self returns the custody address.
func (v *Vault) Self() stakevault.Address { return v.self }

// Schedule returns the emission schedule.
func (v *Vault) Schedule() schedule.Schedule { return v.sched }

// Weights returns the class weight table.
func (v *Vault) Weights() *weights.Table { return v.table }

// Version increases on every committed mutation. Quote caches key on it.
func (v *Vault) Version() uint64 { return v.version.Load() }

func (v *Vault) enter() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.entered {
		return reverts.Reentrancy()
	}
	v.entered = true
	return nil
}

func (v *Vault) leave() {
	v.mu.Lock()
	v.entered = false
	v.mu.Unlock()
}

// runMutation wraps a state-mutating operation with the reentrancy guard
// and a checkpoint, so a failure anywhere inside fn leaves no trace.
func (v *Vault) runMutation(op string, fn func() ([]*Event, error)) error {
	if err := v.enter(); err != nil {
		metricRevert().AddWithLabel(1, map[string]string{"reason": "Reentrancy"})
		return err
	}
	defer v.leave()

	checkpoint := v.state.NewCheckpoint()
	events, err := fn()
	if err != nil {
		v.state.RevertTo(checkpoint)
		if r, ok := reverts.AsRevert(err); ok {
			metricRevert().AddWithLabel(1, map[string]string{"reason": r.Reason().String()})
			logger.Debug("operation reverted", "op", op, "reason", r.Reason(), "err", err)
		} else {
			logger.Warn("operation failed", "op", op, "err", err)
		}
		return err
	}
	v.state.Commit()
	v.version.Add(1)
	metricOps().AddWithLabel(1, map[string]string{"op": op})

	if v.rec != nil {
		for _, ev := range events {
			if err := v.rec.Record(ev); err != nil {
				logger.Warn("event record failed", "op", op, "err", err)
			}
		}
	}
	return nil
}

func (v *Vault) requireRunning() error {
	paused, err := v.paused.Get()
	if err != nil {
		return err
	}
	if paused != 0 {
		return reverts.Paused()
	}
	return nil
}

func (v *Vault) feeRate() (uint32, error) {
	params, err := v.gov.Current()
	if err != nil {
		return 0, err
	}
	return params.FeeRate, nil
}

// settleDepositor folds elapsed emission into the global accumulator and
// then into the depositor's pending balance, at their current weight.
// Must run before any weight change takes effect.
func (v *Vault) settleDepositor(addr stakevault.Address, now uint64) error {
	rate, err := v.feeRate()
	if err != nil {
		return err
	}
	weight, err := v.registry.WeightOf(addr)
	if err != nil {
		return err
	}
	return v.rewards.SettleAccount(addr, weight, now, rate)
}

// Paused reports whether normal operations are gated.
func (v *Vault) Paused() (bool, error) {
	paused, err := v.paused.Get()
	return paused != 0, err
}

// TotalWeight returns the sum of all depositors' weights.
func (v *Vault) TotalWeight() (*big.Int, error) { return v.rewards.TotalWeight() }

// Accumulator returns the scaled reward-per-weight accumulator.
func (v *Vault) Accumulator() (*big.Int, error) { return v.rewards.Accumulator() }

// FeePool returns skimmed fees not yet swept to the recipient.
func (v *Vault) FeePool() (*big.Int, error) { return v.rewards.FeePool() }

// LastSettled returns the instant the accumulator was last advanced to.
func (v *Vault) LastSettled() (uint64, error) { return v.rewards.LastSettled() }

// GovernanceParams returns the live governed parameter set.
func (v *Vault) GovernanceParams() (*governance.Params, error) { return v.gov.Current() }

// PendingProposal returns the pending parameter change, nil if none.
func (v *Vault) PendingProposal() (*governance.Proposal, error) { return v.gov.Pending() }

// GovernanceDelay returns the parameter-change timelock in seconds.
func (v *Vault) GovernanceDelay() uint64 { return v.gov.Delay() }

// DepositorWeight returns a depositor's current total weight.
func (v *Vault) DepositorWeight(addr stakevault.Address) (uint64, error) {
	return v.registry.WeightOf(addr)
}

// DepositorAccount returns a copy of the depositor's reward counters.
func (v *Vault) DepositorAccount(addr stakevault.Address) (*rewards.Account, error) {
	return v.rewards.Account(addr)
}

// ItemCount returns how many items a depositor holds.
func (v *Vault) ItemCount(addr stakevault.Address) (uint64, error) {
	return v.registry.ItemCount(addr)
}

// Items returns the depositor's held items in [from, to). Order among a
// depositor's items is not significant and changes across removals.
func (v *Vault) Items(addr stakevault.Address, from, to uint64) ([]*registry.Item, error) {
	return v.registry.Items(addr, from, to)
}

// OwnerOf resolves the staker of an item via the reverse index.
func (v *Vault) OwnerOf(class stakevault.Class, id stakevault.ItemID) (stakevault.Address, bool, error) {
	return v.registry.OwnerOf(class, id)
}

// Claimable quotes the depositor's unclaimed share as of at, without
// mutating state. It agrees exactly with pending after a real settlement
// at the same instant.
func (v *Vault) Claimable(addr stakevault.Address, at uint64) (*big.Int, error) {
	rate, err := v.feeRate()
	if err != nil {
		return nil, err
	}
	weight, err := v.registry.WeightOf(addr)
	if err != nil {
		return nil, err
	}
	return v.rewards.Claimable(addr, weight, at, rate)
}

// Withdrawable quotes what the depositor may claim right now, after the
// withdrawal limiter is applied to the claimable balance.
func (v *Vault) Withdrawable(addr stakevault.Address, at uint64) (*big.Int, error) {
	params, err := v.gov.Current()
	if err != nil {
		return nil, err
	}
	claimable, err := v.Claimable(addr, at)
	if err != nil {
		return nil, err
	}
	acc, err := v.rewards.Account(addr)
	if err != nil {
		return nil, err
	}
	return limiter.Withdrawable(params.LimiterParams(), v.sched.Start(), at, acc.Claimed, claimable), nil
}
