// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"github.com/vechain/stakevault/solidity"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/limiter"
	"github.com/vechain/stakevault/vault/reverts"
)

var (
	slotLive    = stakevault.BytesToBytes32([]byte("governance-live"))
	slotPending = stakevault.BytesToBytes32([]byte("governance-pending"))
)

// Params is the governed parameter set.
type Params struct {
	FeeRecipient   stakevault.Address
	FeeRate        uint32 // fee skimmed off emission, in units of RateScale
	WithdrawWindow uint64 // limiter window, seconds after schedule start
	WithdrawRate   uint32 // limiter rate, in units of RateScale
}

// LimiterParams returns the withdrawal-limit view of the parameter set.
func (p *Params) LimiterParams() limiter.Params {
	return limiter.Params{Window: p.WithdrawWindow, Rate: p.WithdrawRate}
}

// Validate rejects rates above RateScale. A fee rate past the scale would
// drive the net emission negative at settlement.
func (p *Params) Validate() error {
	if p.FeeRate > stakevault.RateScale {
		return reverts.RateOutOfBounds("fee rate %d of %d", p.FeeRate, stakevault.RateScale)
	}
	if p.WithdrawRate > stakevault.RateScale {
		return reverts.RateOutOfBounds("withdraw rate %d of %d", p.WithdrawRate, stakevault.RateScale)
	}
	return nil
}

// Proposal is a pending parameter change waiting out its timelock.
type Proposal struct {
	Params Params
	ETA    uint64 // earliest instant Apply may succeed
}

// Service implements propose/apply parameter governance behind a fixed
// delay. A single pending slot holds the whole parameter set; a new
// proposal overwrites the pending one rather than queueing behind it.
type Service struct {
	delay   uint64
	live    *solidity.Value[*Params]
	pending *solidity.Value[*Proposal]
}

// New creates the governance service. delay is the timelock in seconds.
func New(sctx *solidity.Context, delay uint64) *Service {
	return &Service{
		delay:   delay,
		live:    solidity.NewValue[*Params](sctx, slotLive),
		pending: solidity.NewValue[*Proposal](sctx, slotPending),
	}
}

// Delay returns the timelock delay.
func (s *Service) Delay() uint64 {
	return s.delay
}

// Init installs the initial parameter set without a timelock. Meant for
// construction time only.
func (s *Service) Init(params Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return s.live.Set(&params)
}

// Current returns the live parameter set.
func (s *Service) Current() (*Params, error) {
	return s.live.Get()
}

// Pending returns the pending proposal, or nil when there is none.
func (s *Service) Pending() (*Proposal, error) {
	set, err := s.pending.IsSet()
	if err != nil || !set {
		return nil, err
	}
	return s.pending.Get()
}

// Propose records params as the pending proposal with ETA now+delay.
// Proposing the live parameter set, re-proposing the already pending
// one, or proposing a rate above RateScale reverts.
func (s *Service) Propose(params Params, now uint64) error {
	if err := params.Validate(); err != nil {
		return err
	}
	live, err := s.live.Get()
	if err != nil {
		return err
	}
	if *live == params {
		return reverts.ProposalUnchanged()
	}
	if pending, err := s.Pending(); err != nil {
		return err
	} else if pending != nil && pending.Params == params {
		return reverts.ProposalUnchanged()
	}

	return s.pending.Set(&Proposal{Params: params, ETA: now + s.delay})
}

// Apply swaps the pending proposal in as the live parameter set once its
// timelock has elapsed, and clears the pending slot.
func (s *Service) Apply(now uint64) (*Params, error) {
	pending, err := s.Pending()
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, reverts.NoPendingProposal()
	}
	if now < pending.ETA {
		return nil, reverts.TimelockNotElapsed("now %d, eta %d", now, pending.ETA)
	}

	if err := s.live.Set(&pending.Params); err != nil {
		return nil, err
	}
	s.pending.Clear()
	return &pending.Params, nil
}
