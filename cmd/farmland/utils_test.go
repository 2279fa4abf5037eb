// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/api/farms"
	"github.com/quipuswap/farmland/genesis"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/runtime"
)

const launchTime = 1_000_000

func TestContractProps(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, found, err := loadContract(db)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, saveContract(db, genesis.DevContract))
	addr, found, err := loadContract(db)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, genesis.DevContract, addr)
}

func TestReadCalls(t *testing.T) {
	user := genesis.DevAccounts()[1]

	_, err := readCalls(strings.NewReader(""), 0)
	assert.EqualError(t, err, "no calls")

	_, err = readCalls(strings.NewReader("- sender: "+user.String()+"\n"), 0)
	assert.EqualError(t, err, "call 0: missing entrypoint")

	_, err = readCalls(strings.NewReader("- entrypoint: default\n"), 0)
	assert.EqualError(t, err, "call 0: missing sender")

	calls, err := readCalls(strings.NewReader(fmt.Sprintf(`
- entrypoint: default
  sender: %v
  amount: 15
- entrypoint: harvest
  sender: %v
  now: 42
  params:
    fid: 1
`, user, user)), 7)
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, uint64(7), calls[0].Now)
	assert.Equal(t, int64(15), calls[0].Amount.Int64())
	assert.Equal(t, uint64(42), calls[1].Now)
	assert.Nil(t, calls[1].Amount)
}

func TestExecCalls(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	logDB, err := logdb.NewMem()
	require.NoError(t, err)
	defer logDB.Close()

	ctx := context.Background()
	rt := runtime.New(db, genesis.DevContract).SetLogDB(logDB)
	require.NoError(t, genesis.NewDevnet(launchTime).Build(ctx, rt))
	before := logDB.LastCall()

	user := genesis.DevAccounts()[1]
	calls, err := readCalls(strings.NewReader(fmt.Sprintf(`
- entrypoint: deposit
  sender: %v
  now: %v
  params:
    fid: 0
    amount: 1000
    rewards_receiver: %v
`, user, launchTime+60, user)), 0)
	require.NoError(t, err)

	receipt, err := rt.ExecuteBatch(ctx, calls)
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	require.Len(t, receipt.Outputs, 1)
	require.NotNil(t, receipt.Outputs[0].FID)
	assert.Equal(t, uint64(0), *receipt.Outputs[0].FID)
	assert.Equal(t, before+1, logDB.LastCall())

	fm, err := farms.LoadFarm(rt, 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", fm.Staked)

	pos, err := farms.LoadPosition(rt, 0, user, launchTime+70)
	require.NoError(t, err)
	assert.Equal(t, "1000", pos.Staked)
	assert.Equal(t, "1000", pos.PendingReward)
}
