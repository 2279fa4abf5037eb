// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/accumulator"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/fees"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/tez"
)

//
// Admin handover
//

// SetAdmin proposes a new admin, who becomes admin once confirmed.
func (f *Farmland) SetAdmin(env *Env, admin tez.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	return errors.Wrap(f.pendingAdmin.Set(admin), "failed to set pending admin")
}

func (f *Farmland) ConfirmAdmin(env *Env) error {
	pending, err := f.getAddress(f.pendingAdmin, "pending admin")
	if err != nil {
		return err
	}
	if pending.IsZero() || env.Sender != pending {
		return reverts.ErrNotPendingAdmin
	}
	if err := f.admin.Set(pending); err != nil {
		return errors.Wrap(err, "failed to set admin")
	}
	logger.Info("admin confirmed", "admin", pending)
	return errors.Wrap(f.pendingAdmin.Set(tez.Address{}), "failed to clear pending admin")
}

func (f *Farmland) SetBurner(env *Env, burner tez.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	return errors.Wrap(f.burner.Set(burner), "failed to set burner")
}

func (f *Farmland) SetBakerRegistry(env *Env, registry tez.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	return errors.Wrap(f.bakerRegistry.Set(registry), "failed to set baker registry")
}

func (f *Farmland) SetProxyMinter(env *Env, minter tez.Address) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	return errors.Wrap(f.proxyMinter.Set(minter), "failed to set proxy minter")
}

//
// Farm registry
//

// AddNewFarm creates a farm and returns its id. A quota farm is funded from
// the admin with the reward of its whole remaining lifetime.
func (f *Farmland) AddNewFarm(env *Env, params *NewFarmParams) (uint64, []Operation, error) {
	if err := f.onlyAdmin(env); err != nil {
		return 0, nil, err
	}
	if err := fees.Validate(params.Fees); err != nil {
		return 0, nil, err
	}
	rps := orZero(params.RewardPerSecond)

	fm := &farms.Farm{
		Kind:             params.Kind,
		Staked:           new(big.Int),
		Claimed:          new(big.Int),
		RewardPerShare:   new(big.Int),
		RewardPerSecond:  new(big.Int).Set(rps),
		Upd:              max(params.StartTime, env.Now),
		StartTime:        params.StartTime,
		Paused:           params.Paused,
		Timelock:         params.Timelock,
		Fees:             params.Fees,
		StakeParams:      params.StakeParams,
		RewardToken:      params.RewardToken,
		CurrentDelegated: tez.ZeroAddress,
		NextCandidate:    tez.ZeroAddress,
		Metadata:         params.Metadata,
	}
	switch params.Kind {
	case farms.KindQuota:
		if params.EndTime <= params.StartTime || params.EndTime <= env.Now {
			return 0, nil, reverts.ErrWrongEndTime
		}
		if params.Timelock > params.EndTime-params.StartTime {
			return 0, nil, reverts.ErrWrongTimelock
		}
		fm.EndTime = params.EndTime
	case farms.KindTimed:
		gov, err := f.govToken.Get()
		if err != nil {
			return 0, nil, errors.Wrap(err, "failed to get gov token")
		}
		fm.RewardToken = gov
	default:
		return 0, nil, reverts.ErrWrongFarmKind
	}

	fid, err := f.farmService.Add(fm)
	if err != nil {
		return 0, nil, err
	}
	c := f.newCall(env)
	if fm.Kind == farms.KindQuota {
		fund, err := precision.MulDiv(rps, new(big.Int).SetUint64(fm.Remaining(env.Now)), precision.Scale)
		if err != nil {
			return 0, nil, errors.Wrap(err, "failed to compute farm funding")
		}
		if err := c.transfer(fm.RewardToken, env.Sender, f.addr, fund); err != nil {
			return 0, nil, err
		}
	}
	logger.Info("added farm", "fid", fid, "kind", fm.Kind, "staked", fm.StakeParams.StakedToken, "reward", fm.RewardToken)
	return fid, c.ops, nil
}

// existingFarms loads every farm of a batch, failing before any change when
// one is unknown.
func (f *Farmland) existingFarms(fids []uint64) ([]*farms.Farm, error) {
	out := make([]*farms.Farm, 0, len(fids))
	for _, fid := range fids {
		fm, err := f.farmService.GetExisting(fid)
		if err != nil {
			return nil, err
		}
		out = append(out, fm)
	}
	return out, nil
}

func (f *Farmland) SetFees(env *Env, params []FeesParams) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	fids := make([]uint64, 0, len(params))
	for _, p := range params {
		if err := fees.Validate(p.Fees); err != nil {
			return err
		}
		fids = append(fids, p.FID)
	}
	list, err := f.existingFarms(fids)
	if err != nil {
		return err
	}
	for i, fm := range list {
		fm.Fees = params[i].Fees
		if err := f.farmService.Update(fm); err != nil {
			return err
		}
	}
	return nil
}

func (f *Farmland) PauseFarms(env *Env, params []PauseParams) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	fids := make([]uint64, 0, len(params))
	for _, p := range params {
		fids = append(fids, p.FID)
	}
	list, err := f.existingFarms(fids)
	if err != nil {
		return err
	}
	for i, fm := range list {
		fm.Paused = params[i].Pause
		if err := f.farmService.Update(fm); err != nil {
			return err
		}
	}
	return nil
}

func (f *Farmland) BanBakers(env *Env, params []BanParams) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	for _, p := range params {
		if err := f.votingService.Ban(p.Baker, p.Period, env.Now); err != nil {
			return err
		}
	}
	return nil
}

// SetRewardPerSecond changes reward rates after accruing at the old ones.
// Quota farms are topped up from or refunded to the admin so the balance
// covers the rest of their lifetime.
func (f *Farmland) SetRewardPerSecond(env *Env, params []RewardPerSecondParams) ([]Operation, error) {
	if err := f.onlyAdmin(env); err != nil {
		return nil, err
	}
	fids := make([]uint64, 0, len(params))
	for _, p := range params {
		fids = append(fids, p.FID)
	}
	list, err := f.existingFarms(fids)
	if err != nil {
		return nil, err
	}
	for i, fm := range list {
		rps := orZero(params[i].RewardPerSecond)
		if rps.Cmp(fm.RewardPerSecond) == 0 {
			return nil, reverts.ErrWrongRewardRate
		}
		if fm.Finished(env.Now) {
			return nil, reverts.ErrFarmFinished
		}
	}

	c := f.newCall(env)
	for i := range list {
		fm, err := c.loadFarm(params[i].FID)
		if err != nil {
			return nil, err
		}
		rps := orZero(params[i].RewardPerSecond)
		if fm.Kind == farms.KindQuota {
			diff := new(big.Int).Sub(rps, fm.RewardPerSecond)
			amount, err := precision.MulDiv(new(big.Int).Abs(diff), new(big.Int).SetUint64(fm.Remaining(env.Now)), precision.Scale)
			if err != nil {
				return nil, errors.Wrap(err, "failed to compute funding change")
			}
			if diff.Sign() > 0 {
				err = c.transfer(fm.RewardToken, env.Sender, f.addr, amount)
			} else {
				err = c.transfer(fm.RewardToken, f.addr, env.Sender, amount)
			}
			if err != nil {
				return nil, err
			}
		}
		fm.RewardPerSecond = new(big.Int).Set(rps)
		if err := f.farmService.Update(fm); err != nil {
			return nil, err
		}
		logger.Info("reward per second changed", "fid", fm.FID, "rps", rps)
	}
	return c.ops, nil
}

// UpdateTokenMetadata merges metadata entries into the share token metadata.
func (f *Farmland) UpdateTokenMetadata(env *Env, params []MetadataParams) error {
	if err := f.onlyAdmin(env); err != nil {
		return err
	}
	fids := make([]uint64, 0, len(params))
	for _, p := range params {
		fids = append(fids, p.FID)
	}
	list, err := f.existingFarms(fids)
	if err != nil {
		return err
	}
	for i, fm := range list {
		for _, entry := range params[i].Metadata {
			fm.Metadata = setMetadata(fm.Metadata, entry)
		}
		if err := f.farmService.Update(fm); err != nil {
			return err
		}
	}
	return nil
}

func setMetadata(entries []farms.MetadataEntry, entry farms.MetadataEntry) []farms.MetadataEntry {
	for i := range entries {
		if entries[i].Key == entry.Key {
			entries[i].Value = bytes.Clone(entry.Value)
			return entries
		}
	}
	return append(entries, farms.MetadataEntry{Key: entry.Key, Value: bytes.Clone(entry.Value)})
}

//
// Farm-owned position
//

// WithdrawFarmDepo sends principal staked by the farm itself to the admin.
func (f *Farmland) WithdrawFarmDepo(env *Env, params *WithdrawFarmDepoParams) ([]Operation, error) {
	if err := f.onlyAdmin(env); err != nil {
		return nil, err
	}
	c := f.newCall(env)
	fm, err := c.loadFarm(params.FID)
	if err != nil {
		return nil, err
	}
	pos, err := c.loadPosition(fm, f.addr)
	if err != nil {
		return nil, err
	}
	amount := orZero(params.Amount)
	if amount.Cmp(pos.Staked) > 0 {
		return nil, reverts.ErrBalanceTooLow
	}
	pos.Staked = new(big.Int).Sub(pos.Staked, amount)
	fm.Staked = new(big.Int).Sub(fm.Staked, amount)
	if err := accumulator.Snapshot(fm, pos); err != nil {
		return nil, err
	}
	candidate, err := c.candidateOf(fm, f.addr)
	if err != nil {
		return nil, err
	}
	if err := c.revote(fm, f.addr, pos, candidate); err != nil {
		return nil, err
	}
	if err := c.save(fm, f.addr, pos); err != nil {
		return nil, err
	}
	if err := c.transfer(fm.StakeParams.StakedToken, f.addr, env.Sender, amount); err != nil {
		return nil, err
	}
	if err := c.poolVote(fm); err != nil {
		return nil, err
	}
	return c.ops, nil
}

// ClaimFarmRewards sends the reward earned by the farm-owned position of a
// quota farm to the admin.
func (f *Farmland) ClaimFarmRewards(env *Env, fid uint64) ([]Operation, error) {
	if err := f.onlyAdmin(env); err != nil {
		return nil, err
	}
	c := f.newCall(env)
	fm, pos, payable, err := c.takeFarmReward(fid, farms.KindQuota)
	if err != nil {
		return nil, err
	}
	if err := c.save(fm, f.addr, pos); err != nil {
		return nil, err
	}
	if err := c.reward(fm, env.Sender, payable); err != nil {
		return nil, err
	}
	return c.ops, nil
}

// BurnFarmRewards burns the reward earned by the farm-owned position of a
// timed farm. The caller is minted the burn reward share, the rest is never
// minted.
func (f *Farmland) BurnFarmRewards(env *Env, fid uint64) ([]Operation, error) {
	c := f.newCall(env)
	fm, pos, payable, err := c.takeFarmReward(fid, farms.KindTimed)
	if err != nil {
		return nil, err
	}
	bounty, burned, err := fees.SplitBurn(fm, payable)
	if err != nil {
		return nil, err
	}
	if err := c.save(fm, f.addr, pos); err != nil {
		return nil, err
	}
	if err := c.reward(fm, env.Sender, bounty); err != nil {
		return nil, err
	}
	logger.Debug("burned farm rewards", "fid", fid, "bounty", bounty, "burned", burned)
	return c.ops, nil
}

func (c *call) takeFarmReward(fid uint64, kind farms.Kind) (*farms.Farm, *users.Position, *big.Int, error) {
	fm, err := c.loadFarm(fid)
	if err != nil {
		return nil, nil, nil, err
	}
	if fm.Kind != kind {
		return nil, nil, nil, reverts.ErrWrongFarmKind
	}
	pos, err := c.loadPosition(fm, c.addr)
	if err != nil {
		return nil, nil, nil, err
	}
	payable := fees.TakePayable(pos)
	fm.Claimed = new(big.Int).Add(fm.Claimed, payable)
	pos.Claimed = new(big.Int).Add(pos.Claimed, payable)
	return fm, pos, payable, nil
}
