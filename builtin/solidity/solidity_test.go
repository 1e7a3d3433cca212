// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

type testStruct struct {
	Field1 uint64
	Amount *big.Int
	Addr   thor.Address
	Name   string
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.SlotOf("total"))

	u.Set(big.NewInt(1000))
	value, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), value)

	require.NoError(t, u.Add(big.NewInt(500)))
	require.NoError(t, u.Sub(big.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)

	assert.ErrorIs(t, u.Sub(big.NewInt(1301)), ErrUnderflow)
	value, _ = u.Get()
	assert.Equal(t, big.NewInt(1300), value)
}

func TestAddressAndRaw(t *testing.T) {
	ctx := newTestContext(t)

	a := NewAddress(ctx, thor.SlotOf("owner"))
	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	owner := thor.BytesToAddress([]byte("owner"))
	a.Set(owner)
	got, _ = a.Get()
	assert.Equal(t, owner, got)

	flag := NewRaw[bool](ctx, thor.SlotOf("flag"))
	v, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, v)
	require.NoError(t, flag.Set(true))
	v, _ = flag.Get()
	assert.True(t, v)

	list := NewRaw[[]thor.Address](ctx, thor.SlotOf("owners"))
	require.NoError(t, list.Set([]thor.Address{owner, {2}}))
	owners, err := list.Get()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{owner, {2}}, owners)
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)

	t.Run("struct pointer", func(t *testing.T) {
		m := NewMapping[StringKey, *testStruct](ctx, thor.SlotOf("structs"))
		got, err := m.Get("missing")
		require.NoError(t, err)
		assert.Nil(t, got)

		value := &testStruct{Field1: 7, Amount: big.NewInt(42), Addr: thor.Address{9}, Name: "n"}
		require.NoError(t, m.Set("k", value))
		got, err = m.Get("k")
		require.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := m.Has("k")
		require.NoError(t, err)
		assert.True(t, has)

		require.NoError(t, m.Set("k", nil))
		got, _ = m.Get("k")
		assert.Nil(t, got)
	})

	t.Run("value types", func(t *testing.T) {
		m := NewMapping[thor.Address, thor.Address](ctx, thor.SlotOf("addrs"))
		got, err := m.Get(thor.Address{1})
		require.NoError(t, err)
		assert.Equal(t, thor.Address{}, got)

		require.NoError(t, m.Set(thor.Address{1}, thor.Address{2}))
		got, _ = m.Get(thor.Address{1})
		assert.Equal(t, thor.Address{2}, got)

		m.Delete(thor.Address{1})
		has, _ := m.Has(thor.Address{1})
		assert.False(t, has)
	})

	t.Run("bases do not collide", func(t *testing.T) {
		a := NewMapping[StringKey, uint64](ctx, thor.SlotOf("a"))
		b := NewMapping[StringKey, uint64](ctx, thor.SlotOf("b"))
		require.NoError(t, a.Set("x", 1))
		require.NoError(t, b.Set("x", 2))
		va, _ := a.Get("x")
		vb, _ := b.Get("x")
		assert.Equal(t, uint64(1), va)
		assert.Equal(t, uint64(2), vb)
	})
}

func TestJoin(t *testing.T) {
	assert.NotEqual(t,
		Join(StringKey("ab"), StringKey("c")).Bytes(),
		Join(StringKey("a"), StringKey("bc")).Bytes())
	assert.Equal(t,
		Join(Uint64Key(1), thor.Address{1}).Bytes(),
		Join(Uint64Key(1), thor.Address{1}).Bytes())
}

func TestArray(t *testing.T) {
	ctx := newTestContext(t)
	arr := NewArray[*testStruct](ctx, thor.SlotOf("schedules"))

	n, err := arr.Len()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)

	_, err = arr.Get(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	for i := range uint64(3) {
		idx, err := arr.Append(&testStruct{Field1: i, Amount: big.NewInt(int64(i))})
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}

	require.NoError(t, arr.Set(1, &testStruct{Field1: 100, Amount: big.NewInt(0)}))
	assert.ErrorIs(t, arr.Set(3, &testStruct{}), ErrIndexOutOfRange)

	all, err := arr.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(0), all[0].Field1)
	assert.Equal(t, uint64(100), all[1].Field1)
	assert.Equal(t, uint64(2), all[2].Field1)
}
