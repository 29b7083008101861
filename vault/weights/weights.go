// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package weights

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/stakevault"
	"github.com/vechain/stakevault/vault/reverts"
)

// Table maps each supported collateral class to its fixed weight.
// Immutable after construction.
type Table struct {
	weights map[stakevault.Class]uint64
}

// NewTable builds a weight table. Every entry must carry a nonzero weight.
func NewTable(entries map[stakevault.Class]uint64) (*Table, error) {
	if len(entries) == 0 {
		return nil, errors.New("weight table must not be empty")
	}
	weights := make(map[stakevault.Class]uint64, len(entries))
	for class, weight := range entries {
		if weight == 0 {
			return nil, reverts.ZeroWeight("class %v", class)
		}
		weights[class] = weight
	}
	return &Table{weights: weights}, nil
}

// Weight returns the weight of class. Unsupported classes revert.
func (t *Table) Weight(class stakevault.Class) (uint64, error) {
	weight, ok := t.weights[class]
	if !ok {
		return 0, reverts.UnsupportedCollateral("class %v", class)
	}
	return weight, nil
}

// Supports reports whether class is in the table.
func (t *Table) Supports(class stakevault.Class) bool {
	_, ok := t.weights[class]
	return ok
}

// Classes returns the supported classes, unordered.
func (t *Table) Classes() []stakevault.Class {
	classes := make([]stakevault.Class, 0, len(t.weights))
	for class := range t.weights {
		classes = append(classes, class)
	}
	return classes
}
