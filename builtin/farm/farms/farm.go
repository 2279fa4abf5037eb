// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"fmt"
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

// Kind is the farm family.
type Kind uint8

const (
	// KindTimed farms run forever and mint their reward through the proxy minter.
	KindTimed Kind = iota
	// KindQuota farms run between start and end time on a reward budget funded up front.
	KindQuota
)

func (k Kind) String() string {
	switch k {
	case KindTimed:
		return "timed"
	case KindQuota:
		return "quota"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "timed", "time-based":
		*k = KindTimed
	case "quota", "quota-based":
		*k = KindQuota
	default:
		return fmt.Errorf("unknown farm kind %q", text)
	}
	return nil
}

// Rounding returns which side absorbs the rounding loss of fee splits.
func (k Kind) Rounding() precision.Rounding {
	if k == KindQuota {
		return precision.FeeUp
	}
	return precision.FeeDown
}

// Fees are scaled by precision.Scale.
type Fees struct {
	HarvestFee    *big.Int `json:"harvestFee" yaml:"harvest_fee"`
	WithdrawalFee *big.Int `json:"withdrawalFee" yaml:"withdrawal_fee"`
	BurnReward    *big.Int `json:"burnReward" yaml:"burn_reward"`
}

type StakeParams struct {
	StakedToken     token.Token `json:"stakedToken" yaml:"staked_token"`
	IsLPStakedToken bool        `json:"isLpStakedToken" yaml:"is_lp_staked_token"`
	Pool            tez.Address `json:"pool,omitempty" yaml:"pool"`
}

// MetadataEntry is one key of the FA2 metadata of the farm share token.
type MetadataEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value []byte `json:"value" yaml:"value"`
}

// Farm is the record of one staking pool.
type Farm struct {
	FID              uint64
	Kind             Kind
	Staked           *big.Int
	Claimed          *big.Int
	RewardPerShare   *big.Int
	RewardPerSecond  *big.Int
	Upd              uint64
	StartTime        uint64
	EndTime          uint64
	Paused           bool
	Timelock         uint64
	Fees             Fees
	StakeParams      StakeParams
	RewardToken      token.Token
	CurrentDelegated tez.Address
	NextCandidate    tez.Address
	Metadata         []MetadataEntry
}

// IsLP returns whether the farm stakes liquidity tokens and votes for bakers.
func (f *Farm) IsLP() bool {
	return f.StakeParams.IsLPStakedToken
}

// Bounded returns whether the farm stops accruing at EndTime.
func (f *Farm) Bounded() bool {
	return f.Kind == KindQuota
}

// Finished returns whether a bounded farm's lifetime is over.
func (f *Farm) Finished(now uint64) bool {
	return f.Bounded() && now >= f.EndTime
}

// Remaining returns the seconds left to accrue for a bounded farm.
func (f *Farm) Remaining(now uint64) uint64 {
	from := max(now, f.StartTime)
	if !f.Bounded() || from >= f.EndTime {
		return 0
	}
	return f.EndTime - from
}
