// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/tez"
)

// amounts are rendered as decimal strings, they do not fit in a JSON number.
func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

type Fees struct {
	HarvestFee    string `json:"harvestFee"`
	WithdrawalFee string `json:"withdrawalFee"`
	BurnReward    string `json:"burnReward"`
}

type Farm struct {
	FID              uint64            `json:"fid"`
	Kind             farms.Kind        `json:"kind"`
	Paused           bool              `json:"paused"`
	Staked           string            `json:"staked"`
	Claimed          string            `json:"claimed"`
	RewardPerShare   string            `json:"rewardPerShare"`
	RewardPerSecond  string            `json:"rewardPerSecond"`
	Upd              uint64            `json:"upd"`
	StartTime        uint64            `json:"startTime"`
	EndTime          uint64            `json:"endTime,omitempty"`
	Timelock         uint64            `json:"timelock"`
	Fees             Fees              `json:"fees"`
	StakedToken      token.Token       `json:"stakedToken"`
	IsLPStakedToken  bool              `json:"isLpStakedToken"`
	Pool             tez.Address       `json:"pool"`
	RewardToken      token.Token       `json:"rewardToken"`
	CurrentDelegated tez.Address       `json:"currentDelegated"`
	NextCandidate    tez.Address       `json:"nextCandidate"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

func convertFarm(f *farms.Farm) *Farm {
	out := &Farm{
		FID:             f.FID,
		Kind:            f.Kind,
		Paused:          f.Paused,
		Staked:          amount(f.Staked),
		Claimed:         amount(f.Claimed),
		RewardPerShare:  amount(f.RewardPerShare),
		RewardPerSecond: amount(f.RewardPerSecond),
		Upd:             f.Upd,
		StartTime:       f.StartTime,
		EndTime:         f.EndTime,
		Timelock:        f.Timelock,
		Fees: Fees{
			HarvestFee:    amount(f.Fees.HarvestFee),
			WithdrawalFee: amount(f.Fees.WithdrawalFee),
			BurnReward:    amount(f.Fees.BurnReward),
		},
		StakedToken:      f.StakeParams.StakedToken,
		IsLPStakedToken:  f.StakeParams.IsLPStakedToken,
		Pool:             f.StakeParams.Pool,
		RewardToken:      f.RewardToken,
		CurrentDelegated: f.CurrentDelegated,
		NextCandidate:    f.NextCandidate,
	}
	if len(f.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(f.Metadata))
		for _, e := range f.Metadata {
			out.Metadata[e.Key] = string(e.Value)
		}
	}
	return out
}

type Position struct {
	Staked        string        `json:"staked"`
	Earned        string        `json:"earned"`
	Claimed       string        `json:"claimed"`
	LastStaked    uint64        `json:"lastStaked"`
	Candidate     tez.Address   `json:"candidate"`
	Operators     []tez.Address `json:"operators"`
	PendingReward string        `json:"pendingReward"`
}

func convertPosition(p *users.Position, candidate tez.Address, pending *big.Int) *Position {
	ops := p.Allowances
	if ops == nil {
		ops = []tez.Address{}
	}
	return &Position{
		Staked:        amount(p.Staked),
		Earned:        amount(p.Earned),
		Claimed:       amount(p.Claimed),
		LastStaked:    p.LastStaked,
		Candidate:     candidate,
		Operators:     ops,
		PendingReward: amount(pending),
	}
}

type Operation struct {
	Call       uint32      `json:"call"`
	Index      uint32      `json:"index"`
	Entrypoint string      `json:"entrypoint"`
	Sender     tez.Address `json:"sender"`
	Time       uint64      `json:"time"`
	Kind       string      `json:"kind"`
	Token      token.Token `json:"token"`
	From       tez.Address `json:"from"`
	To         tez.Address `json:"to"`
	Amount     string      `json:"amount"`
	Delegate   tez.Address `json:"delegate"`
}

func convertRecord(r *logdb.Record) *Operation {
	return &Operation{
		Call:       r.Call,
		Index:      r.Index,
		Entrypoint: r.Entrypoint,
		Sender:     r.Sender,
		Time:       r.Time,
		Kind:       r.Op.Kind.String(),
		Token:      r.Op.Token,
		From:       r.Op.From,
		To:         r.Op.To,
		Amount:     amount(r.Op.Amount),
		Delegate:   r.Op.Delegate,
	}
}
