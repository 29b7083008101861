// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vaultapi exposes the vault's read-only surface over HTTP.
package vaultapi

import (
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/api/utils"
	"github.com/vechain/stakevault/eventdb"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault"
	"github.com/vechain/stakevault/vault/reverts"
)

const quoteCacheSize = 1024

type quoteKey struct {
	kind    string
	addr    stakevault.Address
	version uint64
	at      uint64
}

// API wraps a vault engine and its optional event history.
type API struct {
	vault  *vault.Vault
	events *eventdb.EventDB // nil disables the events route
	quotes *lru.Cache
}

func New(v *vault.Vault, events *eventdb.EventDB) *API {
	quotes, _ := lru.New(quoteCacheSize)
	return &API{
		vault:  v,
		events: events,
		quotes: quotes,
	}
}

func (a *API) handleGetVault(w http.ResponseWriter, _ *http.Request) error {
	accumulator, err := a.vault.Accumulator()
	if err != nil {
		return err
	}
	totalWeight, err := a.vault.TotalWeight()
	if err != nil {
		return err
	}
	feePool, err := a.vault.FeePool()
	if err != nil {
		return err
	}
	lastSettled, err := a.vault.LastSettled()
	if err != nil {
		return err
	}
	paused, err := a.vault.Paused()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &VaultState{
		Accumulator: decimal(accumulator),
		TotalWeight: decimal(totalWeight),
		FeePool:     decimal(feePool),
		LastSettled: lastSettled,
		Paused:      paused,
		Version:     a.vault.Version(),
	})
}

func (a *API) handleGetDepositor(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}
	weight, err := a.vault.DepositorWeight(addr)
	if err != nil {
		return err
	}
	account, err := a.vault.DepositorAccount(addr)
	if err != nil {
		return err
	}
	count, err := a.vault.ItemCount(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Depositor{
		Address:   addr,
		Weight:    weight,
		Debt:      decimal(account.Debt),
		Pending:   decimal(account.Pending),
		Claimed:   decimal(account.Claimed),
		ItemCount: count,
	})
}

func (a *API) handleGetItems(w http.ResponseWriter, r *http.Request) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}
	count, err := a.vault.ItemCount(addr)
	if err != nil {
		return err
	}
	from, err := uintQuery(r, "from", 0)
	if err != nil {
		return err
	}
	to, err := uintQuery(r, "to", count)
	if err != nil {
		return err
	}
	items, err := a.vault.Items(addr, from, to)
	if err != nil {
		if reverts.Is(err, reverts.ReasonInvalidRange) {
			return utils.BadRequest(err)
		}
		return err
	}
	out := make([]*Item, len(items))
	for i, item := range items {
		out[i] = convertItem(item)
	}
	return utils.WriteJSON(w, out)
}

func (a *API) handleGetClaimable(w http.ResponseWriter, r *http.Request) error {
	return a.handleQuote(w, r, "claimable", a.vault.Claimable)
}

func (a *API) handleGetWithdrawable(w http.ResponseWriter, r *http.Request) error {
	return a.handleQuote(w, r, "withdrawable", a.vault.Withdrawable)
}

func (a *API) handleQuote(w http.ResponseWriter, r *http.Request, kind string, quote func(stakevault.Address, uint64) (*big.Int, error)) error {
	addr, err := addressParam(r)
	if err != nil {
		return err
	}
	at, err := uintQuery(r, "at", uint64(time.Now().Unix()))
	if err != nil {
		return err
	}

	// quotes are pure functions of the committed state version
	key := quoteKey{kind: kind, addr: addr, version: a.vault.Version(), at: at}
	if cached, ok := a.quotes.Get(key); ok {
		return utils.WriteJSON(w, cached.(*Quote))
	}
	amount, err := quote(addr, at)
	if err != nil {
		return err
	}
	out := &Quote{At: at, Amount: decimal(amount)}
	a.quotes.Add(key, out)
	return utils.WriteJSON(w, out)
}

func (a *API) handleGetSchedule(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, a.vault.Schedule().Descriptor())
}

func (a *API) handleGetGovernance(w http.ResponseWriter, _ *http.Request) error {
	current, err := a.vault.GovernanceParams()
	if err != nil {
		return err
	}
	pending, err := a.vault.PendingProposal()
	if err != nil {
		return err
	}
	out := &Governance{Delay: a.vault.GovernanceDelay(), Current: convertParams(current)}
	if pending != nil {
		out.Pending = &Proposal{Params: *convertParams(&pending.Params), ETA: pending.ETA}
	}
	return utils.WriteJSON(w, out)
}

func (a *API) handleQueryEvents(w http.ResponseWriter, r *http.Request) error {
	if a.events == nil {
		return utils.HTTPError(errors.New("event history disabled"), http.StatusNotImplemented)
	}
	var req EventFilter
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	filter := &eventdb.Filter{
		Depositor: req.Depositor,
		Range:     req.Range,
		Options:   req.Options,
		Order:     req.Order,
	}
	if req.Kind != nil {
		kind := vault.EventKind(*req.Kind)
		filter.Kind = &kind
	}
	events, err := a.events.Filter(filter)
	if err != nil {
		return err
	}
	out := make([]*Event, len(events))
	for i, ev := range events {
		out[i] = convertEvent(ev)
	}
	return utils.WriteJSON(w, out)
}

func addressParam(r *http.Request) (stakevault.Address, error) {
	addr, err := stakevault.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		return stakevault.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func uintQuery(r *http.Request, name string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/vault").
		Methods(http.MethodGet).
		Name("vault_state").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetVault))
	sub.Path("/schedule").
		Methods(http.MethodGet).
		Name("vault_schedule").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetSchedule))
	sub.Path("/governance").
		Methods(http.MethodGet).
		Name("vault_governance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetGovernance))
	sub.Path("/depositors/{address}").
		Methods(http.MethodGet).
		Name("vault_depositor").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetDepositor))
	sub.Path("/depositors/{address}/items").
		Methods(http.MethodGet).
		Name("vault_items").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetItems))
	sub.Path("/depositors/{address}/claimable").
		Methods(http.MethodGet).
		Name("vault_claimable").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetClaimable))
	sub.Path("/depositors/{address}/withdrawable").
		Methods(http.MethodGet).
		Name("vault_withdrawable").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetWithdrawable))
	sub.Path("/events/query").
		Methods(http.MethodPost).
		Name("vault_events").
		HandlerFunc(utils.WrapHandlerFunc(a.handleQueryEvents))
}
