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

// Value is a single-slot RLP-encoded storage value.
type Value[V any] struct {
	context *Context
	pos     stakevault.Bytes32
}

func NewValue[V any](context *Context, slot stakevault.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: slot}
}

func (v *Value[V]) Get() (value V, err error) {
	err = v.context.state.DecodeStorage(v.pos, func(raw []byte) error {
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

func (v *Value[V]) Set(value V) error {
	return v.context.state.EncodeStorage(v.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Clear resets the slot to the zero raw value.
func (v *Value[V]) Clear() {
	v.context.state.SetRawStorage(v.pos, nil)
}

// IsSet reports whether a non-zero raw value is stored.
func (v *Value[V]) IsSet() (bool, error) {
	var set bool
	err := v.context.state.DecodeStorage(v.pos, func(raw []byte) error {
		set = len(raw) > 0
		return nil
	})
	return set, err
}
