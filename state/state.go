// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakevault/stackedmap"
	"github.com/vechain/stakevault/stakevault"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// State is the vault's mutable world state. Values are kept RLP-encoded, so
// reads never alias live objects. Changes are journaled on a stack of
// revisions, which gives every engine operation save/revert semantics.
type State struct {
	committed map[stakevault.Bytes32]rlp.RawValue
	sm        *stackedmap.StackedMap[stakevault.Bytes32, rlp.RawValue]
}

// New create an empty state.
func New() *State {
	state := State{
		committed: make(map[stakevault.Bytes32]rlp.RawValue),
	}
	state.sm = stackedmap.New(func(key stakevault.Bytes32) (rlp.RawValue, bool) {
		raw, ok := state.committed[key]
		return raw, ok
	})
	// base revision, never popped
	state.sm.Push()
	return &state
}

// GetRawStorage returns storage value in rlp raw for the given key.
func (s *State) GetRawStorage(key stakevault.Bytes32) rlp.RawValue {
	raw, _ := s.sm.Get(key)
	return raw
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(key stakevault.Bytes32, raw rlp.RawValue) {
	s.sm.Put(key, raw)
}

// GetStorage returns word-sized storage value for the given key.
func (s *State) GetStorage(key stakevault.Bytes32) (stakevault.Bytes32, error) {
	raw := s.GetRawStorage(key)
	if len(raw) == 0 {
		return stakevault.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return stakevault.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return stakevault.Blake2b(raw), nil
	}
	return stakevault.BytesToBytes32(content), nil
}

// SetStorage set word-sized storage value for the given key.
// Zero value clears the slot.
func (s *State) SetStorage(key, value stakevault.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(key, v)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(key stakevault.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(key stakevault.Bytes32, dec func([]byte) error) error {
	if err := dec(s.GetRawStorage(key)); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Commit folds all journaled changes into the committed storage and resets
// the revision stack. Checkpoints taken before the call become invalid.
func (s *State) Commit() {
	s.sm.Journal(func(key stakevault.Bytes32, raw rlp.RawValue) bool {
		if len(raw) == 0 {
			delete(s.committed, key)
		} else {
			s.committed[key] = raw
		}
		return true
	})
	s.sm.PopTo(0)
	s.sm.Push()
}
