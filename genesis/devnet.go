// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

const devAccountCount = 10

var devAccounts atomic.Value

func devAddress(prefix [3]byte, name string) tez.Address {
	return tez.BytesToAddress(prefix, tez.Blake2b([]byte(name)).Bytes())
}

// DevAccounts returns pre-alloced implicit accounts for development.
func DevAccounts() []tez.Address {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]tez.Address)
	}
	accs := make([]tez.Address, 0, devAccountCount)
	for i := 0; i < devAccountCount; i++ {
		accs = append(accs, devAddress(tez.PrefixTz1, fmt.Sprintf("dev-account-%d", i)))
	}
	devAccounts.Store(accs)
	return accs
}

// Dev contracts of the development genesis.
var (
	DevContract      = devAddress(tez.PrefixKT1, "farmland")
	DevBurner        = devAddress(tez.PrefixKT1, "burner")
	DevBakerRegistry = devAddress(tez.PrefixKT1, "baker-registry")
	DevProxyMinter   = devAddress(tez.PrefixKT1, "proxy-minter")
	DevPool          = devAddress(tez.PrefixKT1, "pool")

	DevGovToken    = token.Token{Standard: token.FA2, Contract: devAddress(tez.PrefixKT1, "gov-token")}
	DevLPToken     = token.Token{Standard: token.FA2, Contract: DevPool}
	DevRewardToken = token.Token{Standard: token.FA12, Contract: devAddress(tez.PrefixKT1, "reward-token")}
)

func devFees() farms.Fees {
	fee := new(big.Int).Div(precision.Scale, big.NewInt(200))
	return farms.Fees{
		HarvestFee:    fee,
		WithdrawalFee: fee,
		BurnReward:    fee,
	}
}

// NewDevnet returns the development genesis. The first dev account is the
// admin. Every account holds LP tokens the contract may pull, and the admin
// funds one timed and one quota farm.
func NewDevnet(launchTime uint64) *Genesis {
	accs := DevAccounts()
	admin := accs[0]

	rewardSupply := new(big.Int).Mul(big.NewInt(1_000_000_000), big.NewInt(1_000_000))
	gen := &Genesis{
		Name:       "devnet",
		LaunchTime: launchTime,
		Contract:   DevContract,
		Config: farm.Config{
			Admin:         admin,
			Burner:        DevBurner,
			BakerRegistry: DevBakerRegistry,
			ProxyMinter:   DevProxyMinter,
			GovToken:      DevGovToken,
		},
		Balances: []Balance{{
			Holder:    admin,
			Token:     DevRewardToken,
			Amount:    rewardSupply,
			Approvals: []Approval{{Spender: DevContract, Amount: rewardSupply}},
		}},
	}
	for _, acc := range accs {
		gen.Balances = append(gen.Balances,
			Balance{
				Holder:    acc,
				Token:     DevLPToken,
				Amount:    big.NewInt(1_000_000_000),
				Operators: []tez.Address{DevContract},
			},
			Balance{
				Holder: acc,
				Token:  token.Tez,
				Amount: big.NewInt(1_000_000_000),
			})
	}

	stake := farms.StakeParams{
		StakedToken:     DevLPToken,
		IsLPStakedToken: true,
		Pool:            DevPool,
	}
	gen.Farms = []farm.NewFarmParams{
		{
			Kind:            farms.KindTimed,
			Fees:            devFees(),
			StakeParams:     stake,
			RewardPerSecond: new(big.Int).Mul(big.NewInt(100), precision.Scale),
			Timelock:        3600,
			StartTime:       launchTime,
		},
		{
			Kind:            farms.KindQuota,
			Fees:            devFees(),
			StakeParams:     stake,
			RewardToken:     DevRewardToken,
			RewardPerSecond: new(big.Int).Mul(big.NewInt(1000), precision.Scale),
			Timelock:        3600,
			StartTime:       launchTime,
			EndTime:         launchTime + 30*24*3600,
		},
	}
	return gen
}
