// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakevault/stackedmap"
)

func TestStackedMap(t *testing.T) {
	assert := assert.New(t)
	src := make(map[string]string)
	src["foo"] = "bar"

	sm := stackedmap.New(func(key string) (string, bool) {
		v, r := src[key]
		return v, r
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 0, "", "", "foo", []any{"bar", true}},
		{func() { sm.Push() }, 1, "foo", "baz", "foo", []any{"baz", true}},
		{func() { sm.Push() }, 2, "foo", "qux", "foo", []any{"qux", true}},
		{func() { sm.Pop() }, 1, "", "", "foo", []any{"baz", true}},
		{func() { sm.Pop() }, 0, "", "", "foo", []any{"bar", true}},

		{func() { sm.Push(); sm.Push() }, 2, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(sm.Depth(), test.depth)
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			v, ok := sm.Get(test.getKey)
			assert.Equal([]any{v, ok}, test.getReturn)
		}
	}
}

func TestStackedMapRepeatedPut(t *testing.T) {
	assert := assert.New(t)
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool) {
		v, r := src[key]
		return v, r
	})

	sm.Push()
	sm.Put("foo", "baz")
	sm.Put("foo", "qux")

	v, ok := sm.Get("foo")
	assert.True(ok)
	assert.Equal("qux", v)

	sm.Pop()
	v, ok = sm.Get("foo")
	assert.True(ok)
	assert.Equal("bar", v, "pop should fully revert a key written twice at the same level")

	// same pattern through PopTo, as Commit drains the stack
	sm.Push()
	sm.Put("foo", "baz")
	sm.Push()
	sm.Put("foo", "qux")
	sm.Put("foo", "quux")
	sm.PopTo(0)
	v, ok = sm.Get("foo")
	assert.True(ok)
	assert.Equal("bar", v)
}

func TestStackedMapJournal(t *testing.T) {
	assert := assert.New(t)
	sm := stackedmap.New(func(_ string) (string, bool) {
		return "", false
	})

	kvs := []struct {
		k, v string
	}{
		{"a", "b"},
		{"a", "c"},
		{"a1", "b1"},
		{"a2", "b2"},
		{"a3", "b3"},
		{"a4", "b4"},
	}

	sm.Push()
	for _, kv := range kvs {
		sm.Put(kv.k, kv.v)
	}
	i := 0
	sm.Journal(func(k, v string) bool {
		assert.Equal(kvs[i].k, k)
		assert.Equal(kvs[i].v, v)
		i++
		return true
	})
	assert.Equal(len(kvs), i, "journal traversal should visit all puts")

	i = 0
	sm.Journal(func(_, _ string) bool {
		i++
		return false
	})
	assert.Equal(1, i, "journal traversal should stop early")
}
