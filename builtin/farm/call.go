// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/accumulator"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/fees"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/timelock"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/tez"
)

// call collects the operations of one entrypoint invocation.
type call struct {
	*Farmland
	env *Env
	ops []Operation
}

func (f *Farmland) newCall(env *Env) *call {
	return &call{Farmland: f, env: env}
}

// loadFarm returns the farm accrued up to now.
func (c *call) loadFarm(fid uint64) (*farms.Farm, error) {
	fm, err := c.farmService.GetExisting(fid)
	if err != nil {
		return nil, err
	}
	if err := accumulator.UpdateFarm(fm, c.env.Now); err != nil {
		return nil, err
	}
	return fm, nil
}

// loadPosition returns the position of holder with its reward accrued.
func (c *call) loadPosition(fm *farms.Farm, holder tez.Address) (*users.Position, error) {
	pos, err := c.userService.Get(fm.FID, holder)
	if err != nil {
		return nil, err
	}
	if err := accumulator.UpdateUser(fm, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// transfer moves amount of t between an account and the contract.
func (c *call) transfer(t token.Token, from, to tez.Address, amount *big.Int) error {
	h, err := token.NewHandle(c.ledger, t, c.addr)
	if err != nil {
		return err
	}
	if from == c.addr {
		err = h.Credit(to, amount)
	} else {
		err = h.Debit(from, amount)
	}
	if err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Kind: OpTransfer, Token: t, From: from, To: to, Amount: new(big.Int).Set(amount)})
	return nil
}

// reward pays amount of the farm's reward token to the account.
func (c *call) reward(fm *farms.Farm, to tez.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if fm.Kind == farms.KindQuota {
		return c.transfer(fm.RewardToken, c.addr, to, amount)
	}
	minter, err := c.getAddress(c.proxyMinter, "proxy minter")
	if err != nil {
		return err
	}
	if err := c.dir.ProxyMinter(minter).Mint(c.addr, fm.RewardToken, to, amount); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Kind: OpMint, Token: fm.RewardToken, To: to, Amount: new(big.Int).Set(amount)})
	return nil
}

// burnReward destroys a forfeited reward. Timed farms mint it to the zero
// address, quota farms return it to the admin.
func (c *call) burnReward(fm *farms.Farm, amount *big.Int) error {
	if fm.Kind == farms.KindTimed {
		return c.reward(fm, tez.ZeroAddress, amount)
	}
	admin, err := c.getAddress(c.admin, "admin")
	if err != nil {
		return err
	}
	return c.reward(fm, admin, amount)
}

// payout is a settled reward waiting to be paid.
type payout struct {
	referrer tez.Address
	referral *big.Int
	receiver tez.Address
	user     *big.Int
	burn     *big.Int
}

// settle takes the payable reward of holder off its position. The reward is
// split with the referrer once the timelock passed and burned otherwise.
func (c *call) settle(fm *farms.Farm, pos *users.Position, holder, receiver tez.Address) (*payout, error) {
	payable := fees.TakePayable(pos)
	if payable.Sign() == 0 {
		return nil, nil
	}
	fm.Claimed = new(big.Int).Add(fm.Claimed, payable)
	pos.Claimed = new(big.Int).Add(pos.Claimed, payable)

	if !timelock.Finished(pos.LastStaked, fm.Timelock, c.env.Now) {
		return &payout{burn: payable}, nil
	}
	split, err := fees.SplitHarvest(fm, payable)
	if err != nil {
		return nil, err
	}
	referrer, err := c.userService.Referrer(holder)
	if err != nil {
		return nil, err
	}
	if referrer.IsZero() {
		referrer = tez.ZeroAddress
	}
	return &payout{referrer: referrer, referral: split.Referral, receiver: receiver, user: split.User}, nil
}

func (c *call) pay(fm *farms.Farm, p *payout) error {
	if p == nil {
		return nil
	}
	if p.burn != nil {
		return c.burnReward(fm, p.burn)
	}
	if err := c.reward(fm, p.referrer, p.referral); err != nil {
		return err
	}
	return c.reward(fm, p.receiver, p.user)
}

// checkBaker fails when baker is banned locally or by the registry.
func (c *call) checkBaker(baker tez.Address) error {
	banned, err := c.votingService.IsBanned(baker, c.env.Now)
	if err != nil {
		return err
	}
	if !banned {
		registry, err := c.getAddress(c.bakerRegistry, "baker registry")
		if err != nil {
			return err
		}
		if !registry.IsZero() {
			if banned, err = c.dir.BakerRegistry(registry).IsBanned(baker, c.env.Now); err != nil {
				return errors.Wrap(err, "failed to query baker registry")
			}
		}
	}
	if banned {
		return reverts.ErrBakerBanned
	}
	return nil
}

// candidateOf returns the candidate holder votes for, falling back to the
// farm's current delegate.
func (c *call) candidateOf(fm *farms.Farm, holder tez.Address) (tez.Address, error) {
	candidate, err := c.votingService.Candidate(fm.FID, holder)
	if err != nil {
		return tez.Address{}, err
	}
	if candidate.IsZero() {
		return fm.CurrentDelegated, nil
	}
	return candidate, nil
}

// revote moves the whole stake of holder to candidate.
func (c *call) revote(fm *farms.Farm, holder tez.Address, pos *users.Position, candidate tez.Address) error {
	if !fm.IsLP() {
		return nil
	}
	return c.votingService.Vote(fm, holder, pos, candidate, pos.Staked)
}

// poolVote reports the farm's delegate and stake to the liquidity pool.
func (c *call) poolVote(fm *farms.Farm) error {
	if !fm.IsLP() {
		return nil
	}
	if err := c.dir.Pool(fm.StakeParams.Pool).Vote(c.addr, fm.CurrentDelegated, fm.Staked); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{
		Kind:     OpVote,
		Token:    fm.StakeParams.StakedToken,
		From:     c.addr,
		To:       fm.StakeParams.Pool,
		Amount:   new(big.Int).Set(fm.Staked),
		Delegate: fm.CurrentDelegated,
	})
	return nil
}

// stakeFee adds a withdrawal fee to the farm-owned position.
func (c *call) stakeFee(fm *farms.Farm, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	pos, err := c.loadPosition(fm, c.addr)
	if err != nil {
		return err
	}
	pos.Staked = new(big.Int).Add(pos.Staked, amount)
	pos.LastStaked = c.env.Now
	fm.Staked = new(big.Int).Add(fm.Staked, amount)
	if err := accumulator.Snapshot(fm, pos); err != nil {
		return err
	}
	candidate, err := c.candidateOf(fm, c.addr)
	if err != nil {
		return err
	}
	if err := c.revote(fm, c.addr, pos, candidate); err != nil {
		return err
	}
	return c.userService.Set(fm.FID, c.addr, pos)
}

func (c *call) save(fm *farms.Farm, holder tez.Address, pos *users.Position) error {
	if err := c.userService.Set(fm.FID, holder, pos); err != nil {
		return err
	}
	return c.farmService.Update(fm)
}
