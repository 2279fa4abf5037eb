// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/users"
)

// permille returns p/1000 scaled by precision.Scale.
func permille(p int64) *big.Int {
	return new(big.Int).Div(new(big.Int).Mul(big.NewInt(p), precision.Scale), big.NewInt(1000))
}

func newFarm(kind farms.Kind, harvest, withdrawal int64) *farms.Farm {
	return &farms.Farm{
		Kind: kind,
		Fees: farms.Fees{
			HarvestFee:    permille(harvest),
			WithdrawalFee: permille(withdrawal),
			BurnReward:    permille(10),
		},
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(newFarm(farms.KindTimed, 5, 5).Fees))

	f := newFarm(farms.KindTimed, 5, 5).Fees
	f.HarvestFee = new(big.Int).Add(precision.Scale, big.NewInt(1))
	assert.ErrorIs(t, Validate(f), reverts.ErrWrongFee)

	f = newFarm(farms.KindTimed, 5, 5).Fees
	f.BurnReward = nil
	assert.ErrorIs(t, Validate(f), reverts.ErrWrongFee)
}

func TestTakePayable(t *testing.T) {
	p := &users.Position{Earned: new(big.Int).Add(new(big.Int).Mul(big.NewInt(6000), precision.Scale), big.NewInt(7))}
	assert.Equal(t, big.NewInt(6000), TakePayable(p))
	assert.Equal(t, big.NewInt(7), p.Earned)
}

func TestSplitHarvest(t *testing.T) {
	h, err := SplitHarvest(newFarm(farms.KindTimed, 5, 5), big.NewInt(6000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5970), h.User)
	assert.Equal(t, big.NewInt(30), h.Referral)

	h, err = SplitHarvest(newFarm(farms.KindQuota, 5, 5), big.NewInt(6000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5970), h.User)
	assert.Equal(t, big.NewInt(30), h.Referral)
}

func TestSplitWithdrawal(t *testing.T) {
	timed := newFarm(farms.KindTimed, 5, 5)
	quota := newFarm(farms.KindQuota, 5, 5)

	tests := []struct {
		farm   *farms.Farm
		amount int64
		back   int64
	}{
		{timed, 1000, 995},
		{timed, 200, 199},
		{timed, 10, 10},
		{timed, 1, 1},
		{quota, 10, 9},
		{quota, 1, 0},
		{quota, 7_777_777, 7_738_888},
	}
	for _, tt := range tests {
		back, kept, err := SplitWithdrawal(tt.farm, big.NewInt(tt.amount))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(tt.back).String(), back.String(), "%v %d", tt.farm.Kind, tt.amount)
		assert.Equal(t, big.NewInt(tt.amount-tt.back).String(), kept.String(), "%v %d", tt.farm.Kind, tt.amount)
	}
}

func TestSplitBurn(t *testing.T) {
	bounty, burned, err := SplitBurn(newFarm(farms.KindTimed, 5, 5), big.NewInt(6000))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), bounty)
	assert.Equal(t, big.NewInt(5940), burned)
}
