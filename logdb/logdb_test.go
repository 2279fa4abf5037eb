// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/test/datagen"
	"github.com/quipuswap/farmland/tez"
)

func fid(v uint64) *uint64 { return &v }

func newCall(farmAddr, user tez.Address, id uint64, n int) *logdb.Call {
	lp := token.Token{Standard: token.FA2, Contract: datagen.RandContract(), ID: 3}
	call := &logdb.Call{
		Entrypoint: "deposit",
		Sender:     user,
		Time:       1000,
		FID:        fid(id),
	}
	for k := 0; k < n; k++ {
		call.Ops = append(call.Ops, farm.Operation{
			Kind:   farm.OpTransfer,
			Token:  lp,
			From:   user,
			To:     farmAddr,
			Amount: datagen.RandAmount(1_000_000),
		})
	}
	return call
}

func TestInsertAndFilter(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	farmAddr := datagen.RandContract()
	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	var first *logdb.Call
	for i := 0; i < 10; i++ {
		user := alice
		if i%2 == 1 {
			user = bob
		}
		call := newCall(farmAddr, user, uint64(i%3), 3)
		if first == nil {
			first = call
		}
		num, err := db.Insert(ctx, call)
		require.NoError(t, err)
		assert.Equal(t, uint32(i+1), num)
	}
	assert.Equal(t, uint32(10), db.LastCall())

	all, err := db.Filter(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 30)
	assert.Equal(t, uint32(1), all[0].Call)
	assert.Equal(t, uint32(0), all[0].Index)
	assert.Equal(t, alice, all[0].Sender)
	assert.Equal(t, farmAddr, all[0].Op.To)
	assert.Equal(t, first.Ops[0].Amount.String(), all[0].Op.Amount.String())
	assert.Equal(t, uint64(3), all[0].Op.Token.ID)
	assert.True(t, all[0].Op.Delegate.IsZero())

	byFarm, err := db.Filter(ctx, &logdb.Filter{FID: fid(1)})
	require.NoError(t, err)
	assert.Len(t, byFarm, 9)
	for _, r := range byFarm {
		assert.Equal(t, uint64(1), *r.FID)
	}

	byAddr, err := db.Filter(ctx, &logdb.Filter{Address: &bob, Order: logdb.DESC, Options: &logdb.Options{Limit: 4}})
	require.NoError(t, err)
	require.Len(t, byAddr, 4)
	assert.Equal(t, uint32(10), byAddr[0].Call)
	assert.Equal(t, uint32(2), byAddr[0].Index)

	ranged, err := db.Filter(ctx, &logdb.Filter{Range: &logdb.Range{From: 2, To: 3}})
	require.NoError(t, err)
	assert.Len(t, ranged, 6)

	kind := farm.OpMint
	none, err := db.Filter(ctx, &logdb.Filter{Kind: &kind})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEmptyCallIsNumbered(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	num, err := db.Insert(context.Background(), &logdb.Call{Entrypoint: "set_admin", Sender: datagen.RandAddress()})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), num)

	records, err := db.Filter(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.db")
	db, err := logdb.New(path)
	require.NoError(t, err)

	_, err = db.Insert(context.Background(), newCall(datagen.RandContract(), datagen.RandAddress(), 0, 2))
	require.NoError(t, err)
	_, err = db.Insert(context.Background(), newCall(datagen.RandContract(), datagen.RandAddress(), 0, 1))
	require.NoError(t, err)
	// a trailing call without operations keeps its number
	_, err = db.Insert(context.Background(), &logdb.Call{Entrypoint: "pause_farms", Sender: datagen.RandAddress()})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = logdb.New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())
	assert.Equal(t, uint32(3), db.LastCall())
}
