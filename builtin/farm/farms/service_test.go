// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/test/datagen"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.NewStater(db).NewState()
	return New(solidity.NewContext(datagen.RandContract(), st))
}

func TestService(t *testing.T) {
	svc := newService(t)

	_, err := svc.GetExisting(0)
	assert.ErrorIs(t, err, reverts.ErrFarmNotSet)

	staked := token.Token{Standard: token.FA2, Contract: datagen.RandContract()}
	fid, err := svc.Add(&Farm{
		Kind:            KindQuota,
		RewardPerSecond: big.NewInt(100),
		StartTime:       10,
		EndTime:         20,
		StakeParams:     StakeParams{StakedToken: staked, IsLPStakedToken: true},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), fid)

	fid, err = svc.Add(&Farm{Kind: KindTimed})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), fid)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	f, err := svc.GetExisting(0)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), f.RewardPerSecond)
	assert.Equal(t, 0, f.Staked.Sign())
	assert.Equal(t, 0, f.Fees.BurnReward.Sign())
	assert.True(t, f.IsLP())
	assert.Equal(t, staked, f.StakeParams.StakedToken)

	f.Paused = true
	require.NoError(t, svc.Update(f))
	f, err = svc.GetExisting(0)
	require.NoError(t, err)
	assert.True(t, f.Paused)
}

func TestLifetime(t *testing.T) {
	f := &Farm{Kind: KindQuota, StartTime: 100, EndTime: 200}
	assert.Equal(t, uint64(100), f.Remaining(50))
	assert.Equal(t, uint64(50), f.Remaining(150))
	assert.Equal(t, uint64(0), f.Remaining(250))
	assert.False(t, f.Finished(199))
	assert.True(t, f.Finished(200))

	timed := &Farm{Kind: KindTimed}
	assert.False(t, timed.Finished(1<<60))
	assert.Equal(t, uint64(0), timed.Remaining(0))
}
