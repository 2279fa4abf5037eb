// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/test/datagen"
	"github.com/quipuswap/farmland/tez"
)

func TestDepositHarvestWithdraw(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(true))
	me, candidate := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(me, 50)

	ops := tc.deposit(me, fid, 50, candidate)
	transfers := Filter(ops, OpTransfer)
	require.Len(t, transfers, 1)
	assertOp(t, transfers[0], tc.farm.Address(), 50)

	tc.advance(1)
	mints := Filter(tc.harvest(me, fid), OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[0], tez.ZeroAddress, 30)
	assertOp(t, mints[1], me, 5970)

	transfers = Filter(tc.withdraw(me, fid, 50), OpTransfer)
	require.Len(t, transfers, 1)
	assertOp(t, transfers[0], me, 50)

	assert.Equal(t, int64(5970), tc.balance(tc.gov, me))
	assert.Equal(t, int64(30), tc.balance(tc.gov, tez.ZeroAddress))
	assert.Equal(t, int64(50), tc.balance(tc.lp, me))
	assert.Equal(t, big.NewInt(6000), tc.getFarm(fid).Claimed)
}

func TestDecreasingRewardRate(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(true))
	me := datagen.RandAddress()
	tc.fund(me, 50)
	tc.deposit(me, fid, 50, datagen.RandAddress())

	tc.advance(1)
	_, err := tc.farm.SetRewardPerSecond(tc.env(tc.admin), []RewardPerSecondParams{{FID: fid, RewardPerSecond: scaled(5)}})
	require.NoError(t, err)

	tc.advance(1)
	mints := Filter(tc.harvest(me, fid), OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[0], tez.ZeroAddress, 30+1)
	assertOp(t, mints[1], me, 5970+299)
}

func TestTimelockBurnsEarlyReward(t *testing.T) {
	tc := newTestChain(t)
	params := tc.timedParams(true)
	params.Timelock = 120
	fid := tc.addFarm(params)
	me, candidate := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(me, 51)

	tc.deposit(me, fid, 50, candidate)
	tc.advance(1)

	ops := tc.deposit(me, fid, 1, candidate)
	assert.Empty(t, Filter(ops, OpMint))
	// accrued reward is kept until the next payout
	pending, err := tc.farm.PendingReward(fid, me, tc.now)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6000), pending)

	ops = tc.withdraw(me, fid, 50)
	mints := Filter(ops, OpMint)
	require.Len(t, mints, 1)
	assertOp(t, mints[0], tez.ZeroAddress, 6000)

	transfers := Filter(ops, OpTransfer)
	require.Len(t, transfers, 1)
	assertOp(t, transfers[0], me, 50)
}

func TestHarvestBeforeTimelockBurns(t *testing.T) {
	tc := newTestChain(t)
	params := tc.timedParams(false)
	params.Timelock = 10
	fid := tc.addFarm(params)
	me, referrer := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(me, 10)

	_, err := tc.farm.Deposit(tc.env(me), &DepositParams{FID: fid, Amount: big.NewInt(10), Referrer: referrer, RewardsReceiver: me})
	require.NoError(t, err)
	tc.now += 3

	mints := Filter(tc.harvest(me, fid), OpMint)
	require.Len(t, mints, 1)
	assertOp(t, mints[0], tez.ZeroAddress, 300)
	assert.Equal(t, int64(0), tc.balance(tc.gov, referrer))
}

func TestFairRewardDistribution(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(alice, 10)
	tc.fund(bob, 30)

	tc.deposit(alice, fid, 10, tez.Address{})
	tc.advance(1)
	tc.deposit(bob, fid, 30, tez.Address{})
	tc.advance(1)

	mints := Filter(tc.harvest(alice, fid), OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[0], tez.ZeroAddress, 37)
	assertOp(t, mints[1], alice, 7463)

	mints = Filter(tc.harvest(bob, fid), OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[0], tez.ZeroAddress, 22)
	assertOp(t, mints[1], bob, 4478)
}

func TestRewardMinuscule(t *testing.T) {
	tc := newTestChain(t)
	params := tc.timedParams(false)
	params.RewardPerSecond = big.NewInt(1)
	fid := tc.addFarm(params)
	me := datagen.RandAddress()
	tc.fund(me, 1_000_000)

	tc.deposit(me, fid, 1_000_000, tez.Address{})
	tc.advance(1)
	assert.Empty(t, Filter(tc.harvest(me, fid), OpMint))

	pos, err := tc.farm.GetPosition(fid, me)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Claimed.Sign())
}

func TestHarvestTwiceInOneBlock(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(true))
	me := datagen.RandAddress()
	tc.fund(me, 50)
	tc.deposit(me, fid, 50, datagen.RandAddress())
	tc.advance(1)
	tc.harvest(me, fid)

	farmBefore := tc.getFarm(fid)
	posBefore, err := tc.farm.GetPosition(fid, me)
	require.NoError(t, err)

	assert.Empty(t, tc.harvest(me, fid))

	assert.Equal(t, farmBefore, tc.getFarm(fid))
	posAfter, err := tc.farm.GetPosition(fid, me)
	require.NoError(t, err)
	assert.Equal(t, posBefore, posAfter)
}

func TestZeroJoinAndQuit(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(true))
	me := datagen.RandAddress()

	assert.Empty(t, Filter(tc.deposit(me, fid, 0, datagen.RandAddress()), OpTransfer))

	transfers := Filter(tc.withdraw(me, fid, 0), OpTransfer)
	require.Len(t, transfers, 1)
	assertOp(t, transfers[0], me, 0)
}

func TestFarmsDontAffectEachOther(t *testing.T) {
	tc := newTestChain(t)
	fid0 := tc.addFarm(tc.timedParams(true))
	fid1 := tc.addFarm(tc.timedParams(true))
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(alice, 50)
	tc.fund(bob, 50)

	tc.deposit(alice, fid0, 50, datagen.RandAddress())
	tc.deposit(bob, fid1, 50, datagen.RandAddress())

	before := tc.getFarm(fid0)
	tc.advance(1)
	tc.withdraw(bob, fid1, 25)
	assert.Equal(t, before, tc.getFarm(fid0))

	before = tc.getFarm(fid1)
	tc.advance(1)
	tc.harvest(alice, fid0)
	assert.Equal(t, before, tc.getFarm(fid1))
}

func TestMinusculeWithdrawalFee(t *testing.T) {
	tc := newTestChain(t)
	params := tc.timedParams(true)
	params.Timelock = 100
	fid := tc.addFarm(params)
	me := datagen.RandAddress()
	tc.fund(me, 10_000)

	transfers := Filter(tc.deposit(me, fid, 10_000, datagen.RandAddress()), OpTransfer)
	require.Len(t, transfers, 1)
	assertOp(t, transfers[0], tc.farm.Address(), 10_000)

	tests := []struct {
		amount, back, kept int64
	}{
		{1000, 995, 5},
		{200, 199, 1},
		{10, 10, 0},
		{1, 1, 0},
	}
	for _, tt := range tests {
		rev := tc.st.NewCheckpoint()
		transfers := Filter(tc.withdraw(me, fid, tt.amount), OpTransfer)
		require.Len(t, transfers, 1)
		assertOp(t, transfers[0], me, tt.back)
		assert.Equal(t, tt.kept, tc.position(fid, tc.farm.Address()).Staked)
		assert.Equal(t, big.NewInt(10_000-tt.amount+tt.kept), tc.getFarm(fid).Staked)
		tc.st.RevertTo(rev)
	}
}

func TestQuotaFarmTimelockPaysAdmin(t *testing.T) {
	tc := newTestChain(t)
	tc.fundAdmin(big.NewInt(1_000_000))
	params := tc.quotaParams(3600)
	params.Timelock = 120
	fid := tc.addFarm(params)
	assert.Equal(t, int64(360_000), tc.balance(tc.reward, tc.farm.Address()))

	me := datagen.RandAddress()
	tc.fund(me, 10_000_000)

	tc.deposit(me, fid, 50, tez.Address{})
	tc.advance(1)
	transfers := Filter(tc.deposit(me, fid, 1, tez.Address{}), OpTransfer)
	require.Len(t, transfers, 1)

	transfers = Filter(tc.withdraw(me, fid, 50), OpTransfer)
	require.Len(t, transfers, 2)
	assertOp(t, transfers[0], me, 49)
	assertOp(t, transfers[1], tc.admin, 6000)

	tc.advance(1)
	tc.deposit(me, fid, 7_777_777, tez.Address{})
	transfers = Filter(tc.withdraw(me, fid, 7_777_777), OpTransfer)
	require.Len(t, transfers, 2)
	assertOp(t, transfers[0], me, 7_738_888)
	assertOp(t, transfers[1], tc.admin, 3000)
}

func TestQuotaFarmStopsAtEndTime(t *testing.T) {
	tc := newTestChain(t)
	tc.fundAdmin(big.NewInt(1_000_000))
	fid := tc.addFarm(tc.quotaParams(120))
	me := datagen.RandAddress()
	tc.fund(me, 10)

	tc.deposit(me, fid, 10, tez.Address{})
	tc.advance(5)

	transfers := Filter(tc.harvest(me, fid), OpTransfer)
	require.Len(t, transfers, 2)
	assertOp(t, transfers[0], tez.ZeroAddress, 60)
	assertOp(t, transfers[1], me, 11_940)
	assert.Equal(t, int64(0), tc.balance(tc.reward, tc.farm.Address()))
}

func TestQuotaFarmStartsLater(t *testing.T) {
	tc := newTestChain(t)
	tc.fundAdmin(big.NewInt(1_000_000))
	params := tc.quotaParams(1200)
	params.StartTime = 600
	fid := tc.addFarm(params)
	assert.Equal(t, int64(60_000), tc.balance(tc.reward, tc.farm.Address()))

	me := datagen.RandAddress()
	tc.fund(me, 10)
	tc.deposit(me, fid, 10, tez.Address{})

	tc.now = 600
	pending, err := tc.farm.PendingReward(fid, me, tc.now)
	require.NoError(t, err)
	assert.Equal(t, 0, pending.Sign())

	tc.now = 660
	pending, err = tc.farm.PendingReward(fid, me, tc.now)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(6000), pending)
}

func TestReferrer(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	alice, bob, carol := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	tc.fund(alice, 20)

	_, err := tc.farm.Deposit(tc.env(alice), &DepositParams{FID: fid, Amount: big.NewInt(10), Referrer: alice, RewardsReceiver: alice})
	assert.ErrorIs(t, err, reverts.ErrCanNotReferYourself)

	_, err = tc.farm.Deposit(tc.env(alice), &DepositParams{FID: fid, Amount: big.NewInt(10), Referrer: bob, RewardsReceiver: alice})
	require.NoError(t, err)
	_, err = tc.farm.Deposit(tc.env(alice), &DepositParams{FID: fid, Amount: big.NewInt(10), Referrer: carol, RewardsReceiver: alice})
	require.NoError(t, err)

	referrer, err := tc.farm.GetReferrer(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, referrer)

	tc.advance(1)
	mints := Filter(tc.harvest(alice, fid), OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[0], bob, 30)
	assertOp(t, mints[1], alice, 5970)
}

func TestRewardsReceiver(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	me, wallet := datagen.RandAddress(), datagen.RandAddress()
	tc.fund(me, 20)
	tc.deposit(me, fid, 10, tez.Address{})
	tc.advance(1)

	// a deposit after the timelock pays what was accrued
	ops, err := tc.farm.Deposit(tc.env(me), &DepositParams{FID: fid, Amount: big.NewInt(10), RewardsReceiver: wallet})
	require.NoError(t, err)
	mints := Filter(ops, OpMint)
	require.Len(t, mints, 2)
	assertOp(t, mints[1], wallet, 5970)
	assert.Equal(t, OpTransfer, ops[0].Kind)
}

func TestPausedFarm(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	me := datagen.RandAddress()
	tc.fund(me, 20)
	tc.deposit(me, fid, 10, tez.Address{})

	require.NoError(t, tc.farm.PauseFarms(tc.env(tc.admin), []PauseParams{{FID: fid, Pause: true}}))
	_, err := tc.farm.Deposit(tc.env(me), &DepositParams{FID: fid, Amount: big.NewInt(10), RewardsReceiver: me})
	assert.ErrorIs(t, err, reverts.ErrFarmPaused)

	tc.advance(1)
	assert.Len(t, Filter(tc.harvest(me, fid), OpMint), 2)
	tc.withdraw(me, fid, 10)
}

func TestWithdrawTooMuch(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	me := datagen.RandAddress()
	tc.fund(me, 10)
	tc.deposit(me, fid, 10, tez.Address{})

	_, err := tc.farm.Withdraw(tc.env(me), &WithdrawParams{FID: fid, Amount: big.NewInt(11), Receiver: me, RewardsReceiver: me})
	assert.ErrorIs(t, err, reverts.ErrBalanceTooLow)

	_, err = tc.farm.Withdraw(tc.env(me), &WithdrawParams{FID: 7, Amount: big.NewInt(1), Receiver: me, RewardsReceiver: me})
	assert.ErrorIs(t, err, reverts.ErrFarmNotSet)
}

func TestDepositNeedsOperator(t *testing.T) {
	tc := newTestChain(t)
	fid := tc.addFarm(tc.timedParams(false))
	me := datagen.RandAddress()
	require.NoError(t, tc.ledger.Mint(tc.lp, me, big.NewInt(10)))

	_, err := tc.farm.Deposit(tc.env(me), &DepositParams{FID: fid, Amount: big.NewInt(10), RewardsReceiver: me})
	assert.ErrorIs(t, err, reverts.ErrNotOperator)
}
