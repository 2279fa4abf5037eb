// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

type TestStruct struct {
	Field1 uint64
	Amount *big.Int
	Owner  tez.Address
}

// newTestContext returns a fresh Context with in-memory DB.
func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.NewStater(db).NewState()
	return NewContext(tez.BytesToAddress(tez.PrefixKT1, []byte{1}), st)
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[Uint64Key, *TestStruct](ctx, tez.BytesToBytes32([]byte("structs")))

	v, err := m.Get(1)
	require.NoError(t, err)
	assert.Nil(t, v)

	want := &TestStruct{Field1: 7, Amount: big.NewInt(100), Owner: tez.ZeroAddress}
	require.NoError(t, m.Set(1, want))

	v, err = m.Get(1)
	require.NoError(t, err)
	assert.Equal(t, want, v)

	other, err := m.Get(2)
	require.NoError(t, err)
	assert.Nil(t, other)

	m.Delete(1)
	v, err = m.Get(1)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMappingDistinctBase(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[Uint64Key, uint64](ctx, tez.BytesToBytes32([]byte("a")))
	b := NewMapping[Uint64Key, uint64](ctx, tez.BytesToBytes32([]byte("b")))

	require.NoError(t, a.Set(1, 10))
	v, err := b.Get(1)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestRaw(t *testing.T) {
	ctx := newTestContext(t)
	r := NewRaw[tez.Address](ctx, tez.BytesToBytes32([]byte("admin")))

	v, err := r.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, r.Set(tez.ZeroAddress))
	v, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, tez.ZeroAddress, v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, tez.BytesToBytes32([]byte("counter")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Sub(big.NewInt(3)))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), v)

	assert.EqualError(t, u.Sub(big.NewInt(8)), "uint256 underflow")
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.EqualError(t, u.Add(max), "uint256 overflow")
	assert.EqualError(t, u.Set(new(big.Int).Add(max, big.NewInt(1))), "uint256 overflow")
	require.NoError(t, u.Set(max))

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, max, v)
}
