// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakevault/stakevault"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction, similar to the mapping in Solidity.
// Values are RLP encoded; the zero raw value decodes to V's zero value.
type Mapping[K Key, V any] struct {
	context *Context
	basePos stakevault.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos stakevault.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) stakevault.Bytes32 {
	return stakevault.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Clear resets the slot of key to the zero raw value.
func (m *Mapping[K, V]) Clear(key K) {
	m.context.state.SetRawStorage(m.position(key), nil)
}

// Has reports whether a non-zero raw value is stored for key.
func (m *Mapping[K, V]) Has(key K) (bool, error) {
	var has bool
	err := m.context.state.DecodeStorage(m.position(key), func(raw []byte) error {
		has = len(raw) > 0
		return nil
	})
	return has, err
}
