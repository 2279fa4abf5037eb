// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/accumulator"
	"github.com/quipuswap/farmland/builtin/farm/fees"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/timelock"
)

// Deposit stakes tokens of the sender. Reward accrued so far is paid to the
// rewards receiver when the timelock has passed and kept otherwise.
func (f *Farmland) Deposit(env *Env, params *DepositParams) ([]Operation, error) {
	logger.Debug("deposit", "sender", env.Sender, "fid", params.FID, "amount", params.Amount)
	c := f.newCall(env)

	fm, err := c.loadFarm(params.FID)
	if err != nil {
		return nil, err
	}
	if fm.Paused {
		return nil, reverts.ErrFarmPaused
	}
	pos, err := c.loadPosition(fm, env.Sender)
	if err != nil {
		return nil, err
	}

	if !params.Referrer.IsZero() {
		if params.Referrer == env.Sender {
			return nil, reverts.ErrCanNotReferYourself
		}
		existing, err := f.userService.Referrer(env.Sender)
		if err != nil {
			return nil, err
		}
		if existing.IsZero() {
			if err := f.userService.SetReferrer(env.Sender, params.Referrer); err != nil {
				return nil, err
			}
		}
	}

	var reward *payout
	if timelock.Finished(pos.LastStaked, fm.Timelock, env.Now) {
		if reward, err = c.settle(fm, pos, env.Sender, params.RewardsReceiver); err != nil {
			return nil, err
		}
	}

	amount := orZero(params.Amount)
	pos.Staked = new(big.Int).Add(pos.Staked, amount)
	pos.LastStaked = env.Now
	fm.Staked = new(big.Int).Add(fm.Staked, amount)
	if err := accumulator.Snapshot(fm, pos); err != nil {
		return nil, err
	}

	if fm.IsLP() {
		candidate := params.Candidate
		if candidate.IsZero() {
			if candidate, err = c.candidateOf(fm, env.Sender); err != nil {
				return nil, err
			}
		} else if err := c.checkBaker(candidate); err != nil {
			return nil, err
		}
		if err := c.revote(fm, env.Sender, pos, candidate); err != nil {
			return nil, err
		}
	}
	if err := c.save(fm, env.Sender, pos); err != nil {
		return nil, err
	}

	if amount.Sign() > 0 {
		if err := c.transfer(fm.StakeParams.StakedToken, env.Sender, f.addr, amount); err != nil {
			return nil, err
		}
	}
	if err := c.pay(fm, reward); err != nil {
		return nil, err
	}
	if err := c.poolVote(fm); err != nil {
		return nil, err
	}
	return c.ops, nil
}

// Withdraw unstakes tokens of the sender to the receiver, minus the
// withdrawal fee which the farm keeps staked.
func (f *Farmland) Withdraw(env *Env, params *WithdrawParams) ([]Operation, error) {
	logger.Debug("withdraw", "sender", env.Sender, "fid", params.FID, "amount", params.Amount)
	c := f.newCall(env)

	fm, err := c.loadFarm(params.FID)
	if err != nil {
		return nil, err
	}
	pos, err := c.loadPosition(fm, env.Sender)
	if err != nil {
		return nil, err
	}
	amount := orZero(params.Amount)
	if amount.Cmp(pos.Staked) > 0 {
		return nil, reverts.ErrBalanceTooLow
	}

	reward, err := c.settle(fm, pos, env.Sender, params.RewardsReceiver)
	if err != nil {
		return nil, err
	}

	pos.Staked = new(big.Int).Sub(pos.Staked, amount)
	fm.Staked = new(big.Int).Sub(fm.Staked, amount)
	if err := accumulator.Snapshot(fm, pos); err != nil {
		return nil, err
	}
	back, kept, err := fees.SplitWithdrawal(fm, amount)
	if err != nil {
		return nil, err
	}

	candidate, err := c.candidateOf(fm, env.Sender)
	if err != nil {
		return nil, err
	}
	if err := c.revote(fm, env.Sender, pos, candidate); err != nil {
		return nil, err
	}
	if err := c.userService.Set(fm.FID, env.Sender, pos); err != nil {
		return nil, err
	}
	if err := c.stakeFee(fm, kept); err != nil {
		return nil, err
	}
	if err := f.farmService.Update(fm); err != nil {
		return nil, err
	}

	if err := c.transfer(fm.StakeParams.StakedToken, f.addr, params.Receiver, back); err != nil {
		return nil, err
	}
	if err := c.pay(fm, reward); err != nil {
		return nil, err
	}
	if err := c.poolVote(fm); err != nil {
		return nil, err
	}
	logger.Debug("withdrawn", "fid", fm.FID, "back", back, "kept", kept)
	return c.ops, nil
}

// Harvest pays the accrued reward of the sender, or burns it while the
// timelock is running.
func (f *Farmland) Harvest(env *Env, params *HarvestParams) ([]Operation, error) {
	logger.Debug("harvest", "sender", env.Sender, "fid", params.FID)
	c := f.newCall(env)

	fm, err := c.loadFarm(params.FID)
	if err != nil {
		return nil, err
	}
	pos, err := c.loadPosition(fm, env.Sender)
	if err != nil {
		return nil, err
	}
	reward, err := c.settle(fm, pos, env.Sender, params.RewardsReceiver)
	if err != nil {
		return nil, err
	}
	if err := c.save(fm, env.Sender, pos); err != nil {
		return nil, err
	}
	if err := c.pay(fm, reward); err != nil {
		return nil, err
	}
	return c.ops, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
