// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/fees"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
)

// BurnTezRewards collects the baking profit of an LP farm from its pool,
// pays the caller the burn reward share and burns the rest.
func (f *Farmland) BurnTezRewards(env *Env, fid uint64) ([]Operation, error) {
	fm, err := f.farmService.GetExisting(fid)
	if err != nil {
		return nil, err
	}
	if !fm.IsLP() {
		return nil, reverts.ErrNotLPFarm
	}
	c := f.newCall(env)

	profit, err := f.dir.Pool(fm.StakeParams.Pool).WithdrawProfit(f.addr, f.addr)
	if err != nil {
		return nil, err
	}
	c.ops = append(c.ops, Operation{Kind: OpWithdrawProfit, Token: token.Tez, From: fm.StakeParams.Pool, To: f.addr, Amount: profit})

	bounty, rest, err := fees.SplitBurn(fm, profit)
	if err != nil {
		return nil, err
	}
	if bounty.Sign() > 0 {
		if err := c.transfer(token.Tez, f.addr, env.Sender, bounty); err != nil {
			return nil, err
		}
	}
	if err := c.burnTez(rest); err != nil {
		return nil, err
	}
	logger.Debug("burned tez rewards", "fid", fid, "profit", profit, "bounty", bounty)
	return c.ops, nil
}

// Default accepts tez sent to the contract and forwards it to the burner.
func (f *Farmland) Default(env *Env) ([]Operation, error) {
	amount := env.amount()
	if amount.Sign() == 0 {
		return nil, nil
	}
	c := f.newCall(env)
	if err := f.ledger.Move(token.Tez, env.Sender, f.addr, amount); err != nil {
		return nil, err
	}
	if err := c.burnTez(amount); err != nil {
		return nil, err
	}
	return c.ops, nil
}

func (c *call) burnTez(amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	burner, err := c.getAddress(c.burner, "burner")
	if err != nil {
		return err
	}
	if err := c.dir.Burner(burner).Burn(c.addr, amount); err != nil {
		return err
	}
	c.ops = append(c.ops, Operation{Kind: OpBurn, Token: token.Tez, From: c.addr, To: burner, Amount: new(big.Int).Set(amount)})
	return nil
}
