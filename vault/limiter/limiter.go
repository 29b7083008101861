// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package limiter

import (
	"math/big"

	"github.com/vechain/stakevault/stakevault"
)

// Params is the withdrawal-rate limit in force: during the window after
// schedule start, a depositor may only have withdrawn Rate/RateScale of
// their lifetime earnings.
type Params struct {
	Window uint64 // seconds after schedule start the limit applies for
	Rate   uint32 // fraction of lifetime earnings withdrawable early, in units of RateScale
}

// NoLimit reports whether params degenerate to "no limit at all".
func (p Params) NoLimit() bool {
	return p.Window == 0 || p.Rate >= stakevault.RateScale
}

// Withdrawable returns how much of claimable may be withdrawn at `now`,
// given the depositor's cumulative claimed amount and the schedule start.
//
// Inside [start, start+window) the lifetime allowance is
// floor((claimed + claimable) * rate / RateScale); what is withdrawable now
// is the unexercised part of that allowance, capped at claimable. Outside
// the window the full claimable balance is withdrawable.
//
// Monotonic: growing claimed, claimable or now never shrinks the result
// below what was already allowed.
func Withdrawable(p Params, start, now uint64, claimed, claimable *big.Int) *big.Int {
	if claimable.Sign() <= 0 {
		return new(big.Int)
	}
	if p.NoLimit() || now >= start+p.Window {
		return new(big.Int).Set(claimable)
	}

	lifetime := new(big.Int).Add(claimed, claimable)
	allowed := lifetime.Mul(lifetime, new(big.Int).SetUint64(uint64(p.Rate)))
	allowed.Div(allowed, new(big.Int).SetUint64(uint64(stakevault.RateScale)))

	avail := allowed.Sub(allowed, claimed)
	if avail.Sign() < 0 {
		return new(big.Int)
	}
	if avail.Cmp(claimable) > 0 {
		return new(big.Int).Set(claimable)
	}
	return avail
}
