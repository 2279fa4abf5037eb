// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quipuswap/farmland/builtin/farm"
)

// Decoder fills v with the call arguments.
type Decoder func(v any) error

func noParams(any) error { return nil }

// JSONParams decodes arguments from a JSON document. Empty input means no arguments.
func JSONParams(raw []byte) Decoder {
	return func(v any) error {
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, v)
	}
}

// YAMLParams decodes arguments from a YAML node. A nil node means no arguments.
func YAMLParams(node *yaml.Node) Decoder {
	return func(v any) error {
		if node == nil || node.IsZero() {
			return nil
		}
		return node.Decode(v)
	}
}

type entrypoint func(f *farm.Farmland, env *farm.Env, decode Decoder) (fid *uint64, ops []farm.Operation, err error)

func decodeParams[T any](decode Decoder) (T, error) {
	var p T
	if err := decode(&p); err != nil {
		return p, errors.Wrap(err, "decode params")
	}
	return p, nil
}

// withParams adapts an entrypoint taking decoded arguments. fid, when given,
// tells which farm the call is scoped to.
func withParams[T any](
	run func(*farm.Farmland, *farm.Env, T) ([]farm.Operation, error),
	fid func(T) uint64,
) entrypoint {
	return func(f *farm.Farmland, env *farm.Env, decode Decoder) (*uint64, []farm.Operation, error) {
		p, err := decodeParams[T](decode)
		if err != nil {
			return nil, nil, err
		}
		ops, err := run(f, env, p)
		if err != nil {
			return nil, nil, err
		}
		if fid == nil {
			return nil, ops, nil
		}
		id := fid(p)
		return &id, ops, nil
	}
}

// withStruct is withParams for entrypoints taking a pointer to their arguments.
func withStruct[T any](
	run func(*farm.Farmland, *farm.Env, *T) ([]farm.Operation, error),
	fid func(*T) uint64,
) entrypoint {
	return withParams(func(f *farm.Farmland, env *farm.Env, p T) ([]farm.Operation, error) {
		return run(f, env, &p)
	}, func(p T) uint64 {
		return fid(&p)
	})
}

func noOps[T any](run func(*farm.Farmland, *farm.Env, T) error) func(*farm.Farmland, *farm.Env, T) ([]farm.Operation, error) {
	return func(f *farm.Farmland, env *farm.Env, p T) ([]farm.Operation, error) {
		return nil, run(f, env, p)
	}
}

func self(fid uint64) uint64 { return fid }

var entrypoints = map[string]entrypoint{
	"deposit":  withStruct((*farm.Farmland).Deposit, func(p *farm.DepositParams) uint64 { return p.FID }),
	"withdraw": withStruct((*farm.Farmland).Withdraw, func(p *farm.WithdrawParams) uint64 { return p.FID }),
	"harvest":  withStruct((*farm.Farmland).Harvest, func(p *farm.HarvestParams) uint64 { return p.FID }),

	"transfer":         withParams((*farm.Farmland).Transfer, nil),
	"update_operators": withParams(noOps((*farm.Farmland).UpdateOperators), nil),

	"set_admin": withParams(noOps((*farm.Farmland).SetAdmin), nil),

	"confirm_admin": func(f *farm.Farmland, env *farm.Env, _ Decoder) (*uint64, []farm.Operation, error) {
		return nil, nil, f.ConfirmAdmin(env)
	},

	"set_burner":         withParams(noOps((*farm.Farmland).SetBurner), nil),
	"set_baker_registry": withParams(noOps((*farm.Farmland).SetBakerRegistry), nil),
	"set_proxy_minter":   withParams(noOps((*farm.Farmland).SetProxyMinter), nil),

	"add_new_farm": func(f *farm.Farmland, env *farm.Env, decode Decoder) (*uint64, []farm.Operation, error) {
		p, err := decodeParams[farm.NewFarmParams](decode)
		if err != nil {
			return nil, nil, err
		}
		fid, ops, err := f.AddNewFarm(env, &p)
		if err != nil {
			return nil, nil, err
		}
		return &fid, ops, nil
	},

	"set_fees":              withParams(noOps((*farm.Farmland).SetFees), nil),
	"pause_farms":           withParams(noOps((*farm.Farmland).PauseFarms), nil),
	"ban_bakers":            withParams(noOps((*farm.Farmland).BanBakers), nil),
	"set_reward_per_second": withParams((*farm.Farmland).SetRewardPerSecond, nil),
	"update_token_metadata": withParams(noOps((*farm.Farmland).UpdateTokenMetadata), nil),

	"withdraw_farm_depo": withStruct((*farm.Farmland).WithdrawFarmDepo, func(p *farm.WithdrawFarmDepoParams) uint64 { return p.FID }),
	"claim_farm_rewards": withParams((*farm.Farmland).ClaimFarmRewards, self),
	"burn_farm_rewards":  withParams((*farm.Farmland).BurnFarmRewards, self),
	"burn_tez_rewards":   withParams((*farm.Farmland).BurnTezRewards, self),

	"default": func(f *farm.Farmland, env *farm.Env, _ Decoder) (*uint64, []farm.Operation, error) {
		ops, err := f.Default(env)
		return nil, ops, err
	},
}

// Entrypoints returns the names of the callable entrypoints.
func Entrypoints() []string {
	names := make([]string, 0, len(entrypoints))
	for name := range entrypoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
