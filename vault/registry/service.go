// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/solidity"
	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/reverts"
)

var (
	slotIndex   = stakevault.BytesToBytes32([]byte("registry-index"))
	slotWeights = stakevault.BytesToBytes32([]byte("registry-weights"))
	slotItems   = []byte("registry-items")
)

// Service is the stake registry: who holds which collateral items.
//
// Each depositor owns a dynamic item array; a reverse index maps every
// staked (class, id) pair to its owner and its position in that array, so
// ownership lookup and removal are O(1). Removal swaps the last element
// into the vacated position, which reorders the list; nothing depends on
// item order, only on presence and per-item data.
type Service struct {
	sctx    *solidity.Context
	index   *solidity.Mapping[ItemKey, *ref]
	weights *solidity.Mapping[stakevault.Address, uint64]
}

// New creates the registry service over sctx.
func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:    sctx,
		index:   solidity.NewMapping[ItemKey, *ref](sctx, slotIndex),
		weights: solidity.NewMapping[stakevault.Address, uint64](sctx, slotWeights),
	}
}

func (s *Service) itemsOf(addr stakevault.Address) *solidity.Array[*Item] {
	return solidity.NewArray[*Item](s.sctx, stakevault.Blake2b(slotItems, addr.Bytes()))
}

// WeightOf returns the depositor's current total weight.
func (s *Service) WeightOf(addr stakevault.Address) (uint64, error) {
	return s.weights.Get(addr)
}

// ItemCount returns how many items the depositor holds.
func (s *Service) ItemCount(addr stakevault.Address) (uint64, error) {
	return s.itemsOf(addr).Len()
}

// OwnerOf resolves the depositor holding (class, id). The second return
// value is false when the item is not staked. Presence in this index is
// the authoritative "is staked" predicate.
func (s *Service) OwnerOf(class stakevault.Class, id stakevault.ItemID) (stakevault.Address, bool, error) {
	key := ItemKey{Class: class, ID: id}
	staked, err := s.index.Has(key)
	if err != nil || !staked {
		return stakevault.Address{}, false, err
	}
	entry, err := s.index.Get(key)
	if err != nil {
		return stakevault.Address{}, false, err
	}
	return entry.Owner, true, nil
}

// Items returns the depositor's held items in [from, to), bounds checked.
func (s *Service) Items(addr stakevault.Address, from, to uint64) ([]*Item, error) {
	items := s.itemsOf(addr)
	n, err := items.Len()
	if err != nil {
		return nil, err
	}
	if from > to || to > n {
		return nil, reverts.InvalidRange("[%d, %d) of %d items", from, to, n)
	}

	out := make([]*Item, 0, to-from)
	for i := from; i < to; i++ {
		item, err := items.Get(i)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// AllItems returns every item the depositor holds.
func (s *Service) AllItems(addr stakevault.Address) ([]*Item, error) {
	n, err := s.ItemCount(addr)
	if err != nil {
		return nil, err
	}
	return s.Items(addr, 0, n)
}

// Add registers (class, id) as held by addr, adding weight to the
// depositor's total. Fails with DuplicateStake if any depositor already
// holds the pair.
func (s *Service) Add(addr stakevault.Address, class stakevault.Class, id stakevault.ItemID, weight uint64, now uint64) error {
	key := ItemKey{Class: class, ID: id}
	staked, err := s.index.Has(key)
	if err != nil {
		return err
	}
	if staked {
		return reverts.DuplicateStake("class %v id %d", class, id)
	}

	index, err := s.itemsOf(addr).Push(&Item{Class: class, ID: id, DepositTime: now})
	if err != nil {
		return err
	}
	if err := s.index.Set(key, &ref{Owner: addr, Index: index}); err != nil {
		return err
	}
	return s.addWeight(addr, weight)
}

// Remove unregisters (class, id) from addr, subtracting weight. Fails with
// NotStaked unless addr holds the pair. Returns the removed item.
func (s *Service) Remove(addr stakevault.Address, class stakevault.Class, id stakevault.ItemID, weight uint64) (*Item, error) {
	key := ItemKey{Class: class, ID: id}
	staked, err := s.index.Has(key)
	if err != nil {
		return nil, err
	}
	if !staked {
		return nil, reverts.NotStaked("class %v id %d", class, id)
	}
	entry, err := s.index.Get(key)
	if err != nil {
		return nil, err
	}
	if entry.Owner != addr {
		return nil, reverts.NotStaked("class %v id %d held by %v", class, id, entry.Owner)
	}

	items := s.itemsOf(addr)
	removed, err := items.Get(entry.Index)
	if err != nil {
		return nil, err
	}

	// overwrite-with-last, then truncate
	last, err := items.Pop()
	if err != nil {
		return nil, err
	}
	if last.Key() != key {
		if err := items.Set(entry.Index, last); err != nil {
			return nil, err
		}
		if err := s.index.Set(last.Key(), &ref{Owner: addr, Index: entry.Index}); err != nil {
			return nil, err
		}
	}
	s.index.Clear(key)

	if err := s.subWeight(addr, weight); err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Service) addWeight(addr stakevault.Address, delta uint64) error {
	weight, err := s.weights.Get(addr)
	if err != nil {
		return err
	}
	return s.weights.Set(addr, weight+delta)
}

func (s *Service) subWeight(addr stakevault.Address, delta uint64) error {
	weight, err := s.weights.Get(addr)
	if err != nil {
		return err
	}
	if weight < delta {
		return errors.Errorf("weight underflow: %d - %d", weight, delta)
	}
	return s.weights.Set(addr, weight-delta)
}
