// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vaultapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakevault/api/vaultapi"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/fortest"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/state"
	"github.com/vechain/stakevault/vault"
	"github.com/vechain/stakevault/vault/governance"
	"github.com/vechain/stakevault/vault/rewards"
	"github.com/vechain/stakevault/vault/schedule"
	"github.com/vechain/stakevault/vault/weights"
)

const start = uint64(1000)

var (
	self  = stakevault.BytesToAddress([]byte("vault"))
	alice = stakevault.BytesToAddress([]byte("alice"))
)

func newServer(t *testing.T) (*httptest.Server, *vault.Vault) {
	table, err := weights.NewTable(map[stakevault.Class]uint64{
		stakevault.ClassLight: 1,
		stakevault.ClassHeavy: 25,
	})
	require.NoError(t, err)
	sched, err := schedule.NewHalving(start, big.NewInt(600), 600)
	require.NoError(t, err)

	tokens := fortest.NewTokenLedger()
	items := fortest.NewItemRegistry()
	events, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(events.Close)

	v, err := vault.New(state.New(), vault.Options{
		Self:            self,
		Table:           table,
		Schedule:        sched,
		Residue:         rewards.ResidueSweepToFee,
		GovernanceDelay: 300,
		Params: governance.Params{
			FeeRecipient: stakevault.BytesToAddress([]byte("treasury")),
			WithdrawRate: stakevault.RateScale,
		},
		Recorder: events,
	}, tokens, items)
	require.NoError(t, err)

	tokens.Mint(self, big.NewInt(1_000_000))
	items.Issue(alice, stakevault.ClassLight, 1)
	items.Issue(alice, stakevault.ClassHeavy, 2)
	require.NoError(t, v.Stake(alice, stakevault.ClassLight, 1, start))
	require.NoError(t, v.Stake(alice, stakevault.ClassHeavy, 2, start))

	router := mux.NewRouter()
	vaultapi.New(v, events).Mount(router, "/")
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, v
}

func httpGet(t *testing.T, url string, out any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	if out != nil && res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestGetVaultState(t *testing.T) {
	srv, _ := newServer(t)

	var vs vaultapi.VaultState
	status := httpGet(t, srv.URL+"/vault", &vs)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "26", (*big.Int)(vs.TotalWeight).String())
	assert.False(t, vs.Paused)
}

func TestGetDepositor(t *testing.T) {
	srv, _ := newServer(t)

	var dep vaultapi.Depositor
	status := httpGet(t, fmt.Sprintf("%s/depositors/%v", srv.URL, alice), &dep)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(26), dep.Weight)
	assert.Equal(t, uint64(2), dep.ItemCount)

	status = httpGet(t, srv.URL+"/depositors/not-an-address", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetItems(t *testing.T) {
	srv, _ := newServer(t)

	var items []*vaultapi.Item
	status := httpGet(t, fmt.Sprintf("%s/depositors/%v/items", srv.URL, alice), &items)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items, 2)

	status = httpGet(t, fmt.Sprintf("%s/depositors/%v/items?from=5&to=1", srv.URL, alice), nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGetQuotes(t *testing.T) {
	srv, _ := newServer(t)

	var quote vaultapi.Quote
	url := fmt.Sprintf("%s/depositors/%v/claimable?at=%d", srv.URL, alice, start+600)
	status := httpGet(t, url, &quote)
	require.Equal(t, http.StatusOK, status)
	// floor(600e18/26)*26/1e18; the rounding unit goes to the fee pool
	assert.Equal(t, "599", (*big.Int)(quote.Amount).String())

	// second read is served from the quote cache and must agree
	var again vaultapi.Quote
	status = httpGet(t, url, &again)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, quote, again)

	var withdrawable vaultapi.Quote
	url = fmt.Sprintf("%s/depositors/%v/withdrawable?at=%d", srv.URL, alice, start+600)
	status = httpGet(t, url, &withdrawable)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "599", (*big.Int)(withdrawable.Amount).String())
}

func TestGetSchedule(t *testing.T) {
	srv, _ := newServer(t)

	var desc schedule.Descriptor
	status := httpGet(t, srv.URL+"/schedule", &desc)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, start, desc.Start)
}

func TestGetGovernance(t *testing.T) {
	srv, v := newServer(t)

	var gov vaultapi.Governance
	status := httpGet(t, srv.URL+"/governance", &gov)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, gov.Current)
	assert.Equal(t, uint64(300), gov.Delay)
	assert.Equal(t, stakevault.RateScale, gov.Current.WithdrawRate)
	assert.Nil(t, gov.Pending)

	next := governance.Params{
		FeeRecipient: stakevault.BytesToAddress([]byte("treasury")),
		FeeRate:      500,
		WithdrawRate: stakevault.RateScale,
	}
	require.NoError(t, v.ProposeParams(next, start))

	status = httpGet(t, srv.URL+"/governance", &gov)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, gov.Pending)
	assert.Equal(t, uint32(500), gov.Pending.Params.FeeRate)
	assert.Equal(t, start+300, gov.Pending.ETA)
}

func TestQueryEvents(t *testing.T) {
	srv, _ := newServer(t)

	body, err := json.Marshal(&vaultapi.EventFilter{Depositor: &alice})
	require.NoError(t, err)

	res, err := http.Post(srv.URL+"/events/query", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var events []*vaultapi.Event
	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &events))
	assert.Len(t, events, 2)
	assert.Equal(t, string(vault.EventStake), events[0].Kind)
}
