// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakevault/stakevault"
)

// Array is a dynamic array storage abstraction, similar to a Solidity dynamic
// array: the base slot holds the length, elements live in slots derived from
// the base position and their index. Elements are RLP encoded.
type Array[V any] struct {
	context *Context
	basePos stakevault.Bytes32
}

func NewArray[V any](context *Context, pos stakevault.Bytes32) *Array[V] {
	return &Array[V]{context: context, basePos: pos}
}

func (a *Array[V]) elemPosition(index uint64) stakevault.Bytes32 {
	var ib [8]byte
	binary.BigEndian.PutUint64(ib[:], index)
	return stakevault.Blake2b(a.basePos.Bytes(), ib[:])
}

// Len returns the number of stored elements.
func (a *Array[V]) Len() (uint64, error) {
	storage, err := a.context.state.GetStorage(a.basePos)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(storage[24:]), nil
}

func (a *Array[V]) setLen(n uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	a.context.state.SetStorage(a.basePos, stakevault.BytesToBytes32(b[:]))
}

// Get returns the element at index. Out of bounds reads fail.
func (a *Array[V]) Get(index uint64) (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if index >= n {
		return value, errors.Errorf("array index %d out of bounds (len %d)", index, n)
	}
	err = a.context.state.DecodeStorage(a.elemPosition(index), func(raw []byte) error {
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

// Set overwrites the element at index. Out of bounds writes fail.
func (a *Array[V]) Set(index uint64, value V) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return errors.Errorf("array index %d out of bounds (len %d)", index, n)
	}
	return a.context.state.EncodeStorage(a.elemPosition(index), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.context.state.EncodeStorage(a.elemPosition(n), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	}); err != nil {
		return 0, err
	}
	a.setLen(n + 1)
	return n, nil
}

// Pop removes and returns the last element.
func (a *Array[V]) Pop() (value V, err error) {
	n, err := a.Len()
	if err != nil {
		return value, err
	}
	if n == 0 {
		return value, errors.New("pop from empty array")
	}
	if value, err = a.Get(n - 1); err != nil {
		return value, err
	}
	a.context.state.SetRawStorage(a.elemPosition(n-1), nil)
	a.setLen(n - 1)
	return value, nil
}
