// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.False(t, IsRevertErr("not an error"))

	assert.True(t, IsRevertErr(DuplicateStake("class %d id %d", 1, 7)))
	assert.True(t, IsRevertErr(errors.Wrap(NotStaked(""), "wrapped")))
}

func TestReasonMatching(t *testing.T) {
	err := TimelockNotElapsed("eta %d", 100)
	assert.True(t, Is(err, ReasonTimelockNotElapsed))
	assert.False(t, Is(err, ReasonNoPendingProposal))
	assert.True(t, Is(errors.Wrap(err, "apply"), ReasonTimelockNotElapsed))

	assert.Equal(t, "timelock not elapsed: eta 100", err.Error())
	assert.Equal(t, "zero amount", ZeroAmount().Error())
}
