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

	"github.com/quipuswap/farmland/builtin/farm/collab"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/test/datagen"
	"github.com/quipuswap/farmland/tez"
)

// block is the time between two test blocks.
const block = 60

type testChain struct {
	t      *testing.T
	st     *state.State
	ledger *token.Ledger
	dir    *collab.StateDirectory
	farm   *Farmland
	now    uint64

	admin    tez.Address
	burner   tez.Address
	registry tez.Address
	minter   tez.Address
	pool     tez.Address

	gov    token.Token
	lp     token.Token
	reward token.Token
}

func newTestChain(t *testing.T) *testChain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db).NewState()
	ledger := token.NewLedger(st)
	dir := collab.NewStateDirectory(st, ledger)
	tc := &testChain{
		t:        t,
		st:       st,
		ledger:   ledger,
		dir:      dir,
		farm:     New(datagen.RandContract(), st, ledger, dir),
		admin:    datagen.RandAddress(),
		burner:   datagen.RandContract(),
		registry: datagen.RandContract(),
		minter:   datagen.RandContract(),
		pool:     datagen.RandContract(),
		gov:      token.Token{Standard: token.FA2, Contract: datagen.RandContract()},
		lp:       token.Token{Standard: token.FA2, Contract: datagen.RandContract()},
		reward:   token.Token{Standard: token.FA12, Contract: datagen.RandContract()},
	}
	require.NoError(t, tc.farm.Initialize(&Config{
		Admin:         tc.admin,
		Burner:        tc.burner,
		BakerRegistry: tc.registry,
		ProxyMinter:   tc.minter,
		GovToken:      tc.gov,
	}))
	require.NoError(t, dir.Minter(tc.minter).SetMinter(tc.farm.Address(), true))
	return tc
}

func (tc *testChain) env(sender tez.Address) *Env {
	return &Env{Sender: sender, Now: tc.now}
}

func (tc *testChain) advance(blocks uint64) {
	tc.now += blocks * block
}

// fund gives holder staked tokens and lets the farm pull them.
func (tc *testChain) fund(holder tez.Address, amount int64) {
	require.NoError(tc.t, tc.ledger.Mint(tc.lp, holder, big.NewInt(amount)))
	require.NoError(tc.t, tc.ledger.SetOperator(tc.lp, holder, tc.farm.Address(), true))
}

func (tc *testChain) fundAdmin(amount *big.Int) {
	require.NoError(tc.t, tc.ledger.Mint(tc.reward, tc.admin, amount))
	require.NoError(tc.t, tc.ledger.Approve(tc.reward, tc.admin, tc.farm.Address(), amount))
}

func scaled(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), precision.Scale)
}

// permille returns a fee of p/1000.
func permille(p int64) *big.Int {
	return new(big.Int).Div(scaled(p), big.NewInt(1000))
}

func defaultFees() farms.Fees {
	return farms.Fees{
		HarvestFee:    permille(5),
		WithdrawalFee: permille(5),
		BurnReward:    permille(5),
	}
}

func (tc *testChain) timedParams(lp bool) *NewFarmParams {
	return &NewFarmParams{
		Kind: farms.KindTimed,
		Fees: defaultFees(),
		StakeParams: farms.StakeParams{
			StakedToken:     tc.lp,
			IsLPStakedToken: lp,
			Pool:            tc.pool,
		},
		RewardPerSecond: scaled(100),
	}
}

func (tc *testChain) quotaParams(end uint64) *NewFarmParams {
	p := tc.timedParams(false)
	p.Kind = farms.KindQuota
	p.RewardToken = tc.reward
	p.EndTime = end
	return p
}

func (tc *testChain) addFarm(params *NewFarmParams) uint64 {
	fid, _, err := tc.farm.AddNewFarm(tc.env(tc.admin), params)
	require.NoError(tc.t, err)
	return fid
}

func (tc *testChain) deposit(sender tez.Address, fid uint64, amount int64, candidate tez.Address) []Operation {
	ops, err := tc.farm.Deposit(tc.env(sender), &DepositParams{
		FID:             fid,
		Amount:          big.NewInt(amount),
		RewardsReceiver: sender,
		Candidate:       candidate,
	})
	require.NoError(tc.t, err)
	return ops
}

func (tc *testChain) withdraw(sender tez.Address, fid uint64, amount int64) []Operation {
	ops, err := tc.farm.Withdraw(tc.env(sender), &WithdrawParams{
		FID:             fid,
		Amount:          big.NewInt(amount),
		Receiver:        sender,
		RewardsReceiver: sender,
	})
	require.NoError(tc.t, err)
	return ops
}

func (tc *testChain) harvest(sender tez.Address, fid uint64) []Operation {
	ops, err := tc.farm.Harvest(tc.env(sender), &HarvestParams{FID: fid, RewardsReceiver: sender})
	require.NoError(tc.t, err)
	return ops
}

func (tc *testChain) position(fid uint64, holder tez.Address) *positionView {
	pos, err := tc.farm.GetPosition(fid, holder)
	require.NoError(tc.t, err)
	return &positionView{Staked: pos.Staked.Int64(), LastStaked: pos.LastStaked}
}

func (tc *testChain) getFarm(fid uint64) *farms.Farm {
	fm, err := tc.farm.GetFarm(fid)
	require.NoError(tc.t, err)
	return fm
}

func (tc *testChain) balance(t token.Token, holder tez.Address) int64 {
	bal, err := tc.ledger.BalanceOf(t, holder)
	require.NoError(tc.t, err)
	return bal.Int64()
}

// positionView is the part of a position most tests look at.
type positionView struct {
	Staked     int64
	LastStaked uint64
}

func assertOp(t *testing.T, op Operation, to tez.Address, amount int64) {
	t.Helper()
	assert.Equal(t, to, op.To, "destination")
	assert.Equal(t, big.NewInt(amount), op.Amount, "amount")
}
