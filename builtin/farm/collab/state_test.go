// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collab

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/test/datagen"
)

func newDirectory(t *testing.T) (*StateDirectory, *token.Ledger) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.NewStater(db).NewState()
	ledger := token.NewLedger(st)
	return NewStateDirectory(st, ledger), ledger
}

func TestRegistry(t *testing.T) {
	dir, _ := newDirectory(t)
	addr, baker := datagen.RandContract(), datagen.RandAddress()

	banned, err := dir.BakerRegistry(addr).IsBanned(baker, 10)
	require.NoError(t, err)
	assert.False(t, banned)

	require.NoError(t, dir.Registry(addr).BanUntil(baker, 100))
	banned, err = dir.BakerRegistry(addr).IsBanned(baker, 99)
	require.NoError(t, err)
	assert.True(t, banned)
	banned, err = dir.BakerRegistry(addr).IsBanned(baker, 100)
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestBurner(t *testing.T) {
	dir, ledger := newDirectory(t)
	addr, from := datagen.RandContract(), datagen.RandContract()
	require.NoError(t, ledger.Mint(token.Tez, from, big.NewInt(100)))

	require.NoError(t, dir.Burner(addr).Burn(from, big.NewInt(40)))
	burned, err := dir.TezBurner(addr).Burned()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), burned)

	bal, err := ledger.BalanceOf(token.Tez, from)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), bal)

	assert.ErrorIs(t, dir.Burner(addr).Burn(from, big.NewInt(61)), reverts.ErrInsufficientBalance)
}

func TestMinter(t *testing.T) {
	dir, ledger := newDirectory(t)
	addr, farm, user := datagen.RandContract(), datagen.RandContract(), datagen.RandAddress()
	gov := token.Token{Standard: token.FA2, Contract: datagen.RandContract()}

	assert.ErrorIs(t, dir.ProxyMinter(addr).Mint(farm, gov, user, big.NewInt(5)), reverts.ErrNotMinter)

	require.NoError(t, dir.Minter(addr).SetMinter(farm, true))
	require.NoError(t, dir.ProxyMinter(addr).Mint(farm, gov, user, big.NewInt(5)))
	bal, err := ledger.BalanceOf(gov, user)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), bal)

	require.NoError(t, dir.Minter(addr).SetMinter(farm, false))
	assert.ErrorIs(t, dir.ProxyMinter(addr).Mint(farm, gov, user, big.NewInt(5)), reverts.ErrNotMinter)
}

func TestPool(t *testing.T) {
	dir, ledger := newDirectory(t)
	addr, farm, baker, receiver := datagen.RandContract(), datagen.RandContract(), datagen.RandAddress(), datagen.RandAddress()
	pool := dir.LiquidityPool(addr)

	require.NoError(t, dir.Pool(addr).Vote(farm, baker, big.NewInt(50)))
	v, err := pool.VoteOf(farm)
	require.NoError(t, err)
	assert.Equal(t, baker, v.Delegate)
	assert.Equal(t, big.NewInt(50), v.Amount)

	amount, err := dir.Pool(addr).WithdrawProfit(farm, receiver)
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Sign())

	require.NoError(t, pool.AccrueProfit(farm, big.NewInt(1000)))
	amount, err = dir.Pool(addr).WithdrawProfit(farm, receiver)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), amount)

	bal, err := ledger.BalanceOf(token.Tez, receiver)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), bal)
}
