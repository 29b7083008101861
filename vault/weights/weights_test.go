// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/reverts"
)

func TestTable(t *testing.T) {
	table, err := NewTable(map[stakevault.Class]uint64{
		stakevault.ClassLight:    1,
		stakevault.ClassStandard: 5,
		stakevault.ClassHeavy:    25,
	})
	require.NoError(t, err)

	w, err := table.Weight(stakevault.ClassHeavy)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), w)

	_, err = table.Weight(stakevault.ClassUnknown)
	assert.True(t, reverts.Is(err, reverts.ReasonUnsupportedCollateral))

	assert.True(t, table.Supports(stakevault.ClassLight))
	assert.False(t, table.Supports(stakevault.Class(99)))
	assert.Len(t, table.Classes(), 3)
}

func TestTableRejectsBadEntries(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	_, err = NewTable(map[stakevault.Class]uint64{stakevault.ClassLight: 0})
	assert.True(t, reverts.Is(err, reverts.ReasonZeroWeight))
}
