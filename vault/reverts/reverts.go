// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Reason classifies a revert.
type Reason uint8

const (
	ReasonUnknown Reason = iota
	ReasonUnsupportedCollateral
	ReasonDuplicateStake
	ReasonNotStaked
	ReasonZeroAmount
	ReasonZeroWeight
	ReasonInsufficientLedgerBalance
	ReasonClaimExceedsAllowance
	ReasonNoPendingProposal
	ReasonTimelockNotElapsed
	ReasonProposalUnchanged
	ReasonRateOutOfBounds
	ReasonEmptyBatch
	ReasonInvalidRange
	ReasonPaused
	ReasonReentrancy
)

func (r Reason) String() string {
	switch r {
	case ReasonUnsupportedCollateral:
		return "unsupported collateral"
	case ReasonDuplicateStake:
		return "duplicate stake"
	case ReasonNotStaked:
		return "not staked"
	case ReasonZeroAmount:
		return "zero amount"
	case ReasonZeroWeight:
		return "zero weight"
	case ReasonInsufficientLedgerBalance:
		return "insufficient ledger balance"
	case ReasonClaimExceedsAllowance:
		return "claim exceeds allowance"
	case ReasonNoPendingProposal:
		return "no pending proposal"
	case ReasonTimelockNotElapsed:
		return "timelock not elapsed"
	case ReasonProposalUnchanged:
		return "proposal unchanged"
	case ReasonRateOutOfBounds:
		return "rate out of bounds"
	case ReasonEmptyBatch:
		return "empty batch"
	case ReasonInvalidRange:
		return "invalid range"
	case ReasonPaused:
		return "paused"
	case ReasonReentrancy:
		return "reentrant call"
	default:
		return "reverted"
	}
}

// ErrRevert is a domain failure: the operation is rejected and the engine
// state is left untouched. Anything that is not an ErrRevert is an internal
// fault of the storage layer.
type ErrRevert struct {
	reason  Reason
	message string
}

func New(reason Reason, format string, args ...any) *ErrRevert {
	return &ErrRevert{
		reason:  reason,
		message: fmt.Sprintf(format, args...),
	}
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.reason.String()
	}
	return e.reason.String() + ": " + e.message
}

func (e *ErrRevert) Reason() Reason {
	return e.reason
}

// IsRevertErr reports whether err is a domain revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// AsRevert unwraps err into a domain revert if it is one.
func AsRevert(err error) (*ErrRevert, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// Is reports whether err is a revert with the given reason.
func Is(err error, reason Reason) bool {
	var ve *ErrRevert
	if !errors.As(err, &ve) {
		return false
	}
	return ve.reason == reason
}

// Convenience constructors, one per taxonomy entry.

func UnsupportedCollateral(format string, args ...any) *ErrRevert {
	return New(ReasonUnsupportedCollateral, format, args...)
}

func DuplicateStake(format string, args ...any) *ErrRevert {
	return New(ReasonDuplicateStake, format, args...)
}

func NotStaked(format string, args ...any) *ErrRevert {
	return New(ReasonNotStaked, format, args...)
}

func ZeroAmount() *ErrRevert { return New(ReasonZeroAmount, "") }

func ZeroWeight(format string, args ...any) *ErrRevert {
	return New(ReasonZeroWeight, format, args...)
}

func InsufficientLedgerBalance(format string, args ...any) *ErrRevert {
	return New(ReasonInsufficientLedgerBalance, format, args...)
}

func ClaimExceedsAllowance(format string, args ...any) *ErrRevert {
	return New(ReasonClaimExceedsAllowance, format, args...)
}

func NoPendingProposal() *ErrRevert { return New(ReasonNoPendingProposal, "") }

func TimelockNotElapsed(format string, args ...any) *ErrRevert {
	return New(ReasonTimelockNotElapsed, format, args...)
}

func ProposalUnchanged() *ErrRevert { return New(ReasonProposalUnchanged, "") }

func RateOutOfBounds(format string, args ...any) *ErrRevert {
	return New(ReasonRateOutOfBounds, format, args...)
}

func EmptyBatch() *ErrRevert { return New(ReasonEmptyBatch, "") }

func InvalidRange(format string, args ...any) *ErrRevert {
	return New(ReasonInvalidRange, format, args...)
}

func Paused() *ErrRevert { return New(ReasonPaused, "") }

func Reentrancy() *ErrRevert { return New(ReasonReentrancy, "") }
