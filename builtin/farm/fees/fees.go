// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fees splits payouts and withdrawals between holders and fee receivers.
package fees

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/users"
)

// Validate checks every fee of f is a fraction of precision.Scale.
func Validate(f farms.Fees) error {
	for _, v := range []*big.Int{f.HarvestFee, f.WithdrawalFee, f.BurnReward} {
		if v == nil || v.Sign() < 0 || v.Cmp(precision.Scale) > 0 {
			return reverts.ErrWrongFee
		}
	}
	return nil
}

// TakePayable removes the whole units from the earned reward of p and returns them.
// The sub-unit remainder stays accrued.
func TakePayable(p *users.Position) *big.Int {
	payable, rest := precision.Descale(p.Earned)
	p.Earned = rest
	return payable
}

// Harvest is the split of a reward payout.
type Harvest struct {
	User     *big.Int
	Referral *big.Int
}

// SplitHarvest divides payable into the holder's share and the referral commission.
func SplitHarvest(f *farms.Farm, payable *big.Int) (*Harvest, error) {
	user, fee, err := precision.Split(payable, f.Fees.HarvestFee, f.Kind.Rounding())
	if err != nil {
		return nil, errors.Wrap(err, "failed to split harvest")
	}
	return &Harvest{User: user, Referral: fee}, nil
}

// SplitWithdrawal divides a withdrawn principal into what returns to the
// holder and what the farm keeps as stake.
func SplitWithdrawal(f *farms.Farm, amount *big.Int) (back, kept *big.Int, err error) {
	back, kept, err = precision.Split(amount, f.Fees.WithdrawalFee, f.Kind.Rounding())
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to split withdrawal")
	}
	return back, kept, nil
}

// SplitBurn divides a burned reward of a timed farm into the caller's bounty
// and the burned rest.
func SplitBurn(f *farms.Farm, payable *big.Int) (bounty, burned *big.Int, err error) {
	bounty, err = precision.MulDiv(payable, f.Fees.BurnReward, precision.Scale)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to split burn")
	}
	return bounty, new(big.Int).Sub(payable, bounty), nil
}
