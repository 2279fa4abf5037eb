// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

// DepositParams stakes Amount into farm FID. Referrer and Candidate are optional.
type DepositParams struct {
	FID             uint64      `json:"fid" yaml:"fid"`
	Amount          *big.Int    `json:"amount" yaml:"amount"`
	Referrer        tez.Address `json:"referrer" yaml:"referrer"`
	RewardsReceiver tez.Address `json:"rewardsReceiver" yaml:"rewards_receiver"`
	Candidate       tez.Address `json:"candidate" yaml:"candidate"`
}

type WithdrawParams struct {
	FID             uint64      `json:"fid" yaml:"fid"`
	Amount          *big.Int    `json:"amount" yaml:"amount"`
	Receiver        tez.Address `json:"receiver" yaml:"receiver"`
	RewardsReceiver tez.Address `json:"rewardsReceiver" yaml:"rewards_receiver"`
}

type HarvestParams struct {
	FID             uint64      `json:"fid" yaml:"fid"`
	RewardsReceiver tez.Address `json:"rewardsReceiver" yaml:"rewards_receiver"`
}

// TransferDestination moves Amount of the share token FID to To.
type TransferDestination struct {
	To     tez.Address `json:"to" yaml:"to"`
	FID    uint64      `json:"tokenId" yaml:"token_id"`
	Amount *big.Int    `json:"amount" yaml:"amount"`
}

type TransferParams struct {
	From tez.Address           `json:"from" yaml:"from"`
	Txs  []TransferDestination `json:"txs" yaml:"txs"`
}

type OperatorParams struct {
	Add      bool        `json:"add" yaml:"add"`
	Owner    tez.Address `json:"owner" yaml:"owner"`
	Operator tez.Address `json:"operator" yaml:"operator"`
	FID      uint64      `json:"tokenId" yaml:"token_id"`
}

type BalanceRequest struct {
	Owner tez.Address `json:"owner" yaml:"owner"`
	FID   uint64      `json:"tokenId" yaml:"token_id"`
}

type BalanceResponse struct {
	Request BalanceRequest `json:"request"`
	Balance *big.Int       `json:"balance"`
}

// NewFarmParams creates a farm. RewardToken and EndTime are ignored for
// timed farms, which mint the governance token forever.
type NewFarmParams struct {
	Kind            farms.Kind            `json:"kind" yaml:"kind"`
	Fees            farms.Fees            `json:"fees" yaml:"fees"`
	StakeParams     farms.StakeParams     `json:"stakeParams" yaml:"stake_params"`
	RewardToken     token.Token           `json:"rewardToken" yaml:"reward_token"`
	Paused          bool                  `json:"paused" yaml:"paused"`
	RewardPerSecond *big.Int              `json:"rewardPerSecond" yaml:"reward_per_second"`
	Timelock        uint64                `json:"timelock" yaml:"timelock"`
	StartTime       uint64                `json:"startTime" yaml:"start_time"`
	EndTime         uint64                `json:"endTime" yaml:"end_time"`
	Metadata        []farms.MetadataEntry `json:"metadata" yaml:"metadata"`
}

type FeesParams struct {
	FID  uint64     `json:"fid" yaml:"fid"`
	Fees farms.Fees `json:"fees" yaml:"fees"`
}

type PauseParams struct {
	FID   uint64 `json:"fid" yaml:"fid"`
	Pause bool   `json:"pause" yaml:"pause"`
}

// BanParams bans Baker for Period seconds, zero lifts the ban.
type BanParams struct {
	Baker  tez.Address `json:"baker" yaml:"baker"`
	Period uint64      `json:"period" yaml:"period"`
}

type RewardPerSecondParams struct {
	FID             uint64   `json:"fid" yaml:"fid"`
	RewardPerSecond *big.Int `json:"rewardPerSecond" yaml:"reward_per_second"`
}

type MetadataParams struct {
	FID      uint64                `json:"fid" yaml:"fid"`
	Metadata []farms.MetadataEntry `json:"metadata" yaml:"metadata"`
}

type WithdrawFarmDepoParams struct {
	FID    uint64   `json:"fid" yaml:"fid"`
	Amount *big.Int `json:"amount" yaml:"amount"`
}
