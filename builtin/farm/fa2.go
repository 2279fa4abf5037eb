// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/accumulator"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/timelock"
)

// Transfer moves staked shares between holders. The token id of each
// destination is the farm id.
func (f *Farmland) Transfer(env *Env, params []TransferParams) ([]Operation, error) {
	c := f.newCall(env)
	for _, param := range params {
		for _, dst := range param.Txs {
			if err := c.transferShare(param, dst); err != nil {
				logger.Debug("transfer failed", "from", param.From, "to", dst.To, "fid", dst.FID, "error", err)
				return nil, err
			}
		}
	}
	return c.ops, nil
}

func (c *call) transferShare(param TransferParams, dst TransferDestination) error {
	fm, err := c.loadFarm(dst.FID)
	if err != nil {
		return err
	}
	src, err := c.loadPosition(fm, param.From)
	if err != nil {
		return err
	}
	if c.env.Sender != param.From && !src.IsOperator(c.env.Sender) {
		return reverts.ErrNotOperator
	}
	if dst.To == c.addr || dst.To == param.From {
		return reverts.ErrIllegalTransfer
	}
	if !timelock.Finished(src.LastStaked, fm.Timelock, c.env.Now) {
		return reverts.ErrTimelockNotFinished
	}
	amount := orZero(dst.Amount)
	if amount.Cmp(src.Staked) > 0 {
		return reverts.ErrFA2InsufficientBal
	}
	rcv, err := c.loadPosition(fm, dst.To)
	if err != nil {
		return err
	}

	src.Staked = new(big.Int).Sub(src.Staked, amount)
	rcv.Staked = new(big.Int).Add(rcv.Staked, amount)
	rcv.LastStaked = c.env.Now
	if err := accumulator.Snapshot(fm, src); err != nil {
		return err
	}
	if err := accumulator.Snapshot(fm, rcv); err != nil {
		return err
	}

	if fm.IsLP() {
		srcCandidate, err := c.candidateOf(fm, param.From)
		if err != nil {
			return err
		}
		rcvCandidate, err := c.votingService.Candidate(fm.FID, dst.To)
		if err != nil {
			return err
		}
		if rcvCandidate.IsZero() {
			rcvCandidate = srcCandidate
		}
		if err := c.revote(fm, param.From, src, srcCandidate); err != nil {
			return err
		}
		if err := c.revote(fm, dst.To, rcv, rcvCandidate); err != nil {
			return err
		}
	}

	if err := c.userService.Set(fm.FID, dst.To, rcv); err != nil {
		return err
	}
	if err := c.save(fm, param.From, src); err != nil {
		return err
	}
	return c.poolVote(fm)
}

// UpdateOperators adds or removes share operators of the sender.
func (f *Farmland) UpdateOperators(env *Env, params []OperatorParams) error {
	for _, p := range params {
		if p.Owner != env.Sender {
			return reverts.ErrNotOwner
		}
		if _, err := f.farmService.GetExisting(p.FID); err != nil {
			return err
		}
		pos, err := f.userService.Get(p.FID, p.Owner)
		if err != nil {
			return err
		}
		if p.Add {
			pos.AddOperator(p.Operator)
		} else {
			pos.RemoveOperator(p.Operator)
		}
		if err := f.userService.Set(p.FID, p.Owner, pos); err != nil {
			return err
		}
	}
	return nil
}

// BalanceOf returns the staked shares of each requested holder.
func (f *Farmland) BalanceOf(requests []BalanceRequest) ([]BalanceResponse, error) {
	out := make([]BalanceResponse, 0, len(requests))
	for _, req := range requests {
		if _, err := f.farmService.GetExisting(req.FID); err != nil {
			return nil, err
		}
		pos, err := f.userService.Get(req.FID, req.Owner)
		if err != nil {
			return nil, err
		}
		out = append(out, BalanceResponse{Request: req, Balance: pos.Staked})
	}
	return out, nil
}
