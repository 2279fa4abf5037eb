// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
)

var slotGenesisID = tez.BytesToBytes32([]byte("genesis-id"))

// Genesis describes the initial state of a deployment.
type Genesis struct {
	Name       string      `yaml:"name"`
	LaunchTime uint64      `yaml:"launch_time"`
	Contract   tez.Address `yaml:"contract"`
	Config     farm.Config `yaml:"config"`

	Balances     []Balance            `yaml:"balances,omitempty"`
	BannedBakers []BannedBaker        `yaml:"banned_bakers,omitempty"`
	Farms        []farm.NewFarmParams `yaml:"farms,omitempty"`
}

// Balance credits Amount of Token to Holder.
type Balance struct {
	Holder    tez.Address   `yaml:"holder"`
	Token     token.Token   `yaml:"token"`
	Amount    *big.Int      `yaml:"amount"`
	Operators []tez.Address `yaml:"operators,omitempty"`
	Approvals []Approval    `yaml:"approvals,omitempty"`
}

// Approval is an FA1.2 allowance.
type Approval struct {
	Spender tez.Address `yaml:"spender"`
	Amount  *big.Int    `yaml:"amount"`
}

// BannedBaker is a ban recorded in the external baker registry.
type BannedBaker struct {
	Baker tez.Address `yaml:"baker"`
	Until uint64      `yaml:"until"`
}

// Parse decodes a YAML genesis document.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &gen, nil
}

// Load reads a YAML genesis file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ID identifies the genesis by the hash of its canonical encoding.
func (g *Genesis) ID() (tez.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return tez.Bytes32{}, err
	}
	return tez.Blake2b(data), nil
}

func (g *Genesis) validate() error {
	if !g.Contract.IsContract() {
		return errors.New("contract must be a KT1 address")
	}
	if g.Config.Admin.IsZero() {
		return errors.New("admin must be set")
	}
	for _, b := range g.Balances {
		if b.Amount == nil || b.Amount.Sign() < 1 {
			return fmt.Errorf("%s: balance must be a non-zero integer", b.Holder)
		}
		for _, a := range b.Approvals {
			if a.Amount == nil || a.Amount.Sign() < 0 {
				return fmt.Errorf("%s: approval must be a non-negative integer", b.Holder)
			}
		}
	}
	if len(g.BannedBakers) > 0 && g.Config.BakerRegistry.IsZero() {
		return errors.New("banned bakers need a baker registry")
	}
	return nil
}

// Builder returns the builder of the described state.
func (g *Genesis) Builder() (*Builder, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	id, err := g.ID()
	if err != nil {
		return nil, err
	}

	builder := new(Builder).
		Timestamp(g.LaunchTime).
		State(func(chain *runtime.Chain) error {
			if err := chain.Farm.Initialize(&g.Config); err != nil {
				return err
			}
			if !g.Config.ProxyMinter.IsZero() {
				if err := chain.Dir.Minter(g.Config.ProxyMinter).SetMinter(g.Contract, true); err != nil {
					return err
				}
			}
			for _, b := range g.Balances {
				if err := chain.Ledger.Mint(b.Token, b.Holder, b.Amount); err != nil {
					return errors.Wrapf(err, "%s: mint", b.Holder)
				}
				for _, op := range b.Operators {
					if err := chain.Ledger.SetOperator(b.Token, b.Holder, op, true); err != nil {
						return err
					}
				}
				for _, a := range b.Approvals {
					if err := chain.Ledger.Approve(b.Token, b.Holder, a.Spender, a.Amount); err != nil {
						return err
					}
				}
			}
			for _, ban := range g.BannedBakers {
				if err := chain.Dir.Registry(g.Config.BakerRegistry).BanUntil(ban.Baker, ban.Until); err != nil {
					return err
				}
			}
			chain.State.SetStorage(g.Contract, slotGenesisID, id)
			return nil
		})

	for i := range g.Farms {
		params := g.Farms[i]
		builder.Call("add_new_farm", g.Config.Admin, func(v any) error {
			*v.(*farm.NewFarmParams) = params
			return nil
		})
	}
	return builder, nil
}

// Build bootstraps the state of rt, which must be bound to the genesis contract.
func (g *Genesis) Build(ctx context.Context, rt *runtime.Runtime) error {
	if rt.Address() != g.Contract {
		return errors.New("runtime is bound to another contract")
	}
	if id, err := ID(rt); err != nil {
		return err
	} else if !id.IsZero() {
		return errors.Errorf("already initialized with genesis %v", id)
	}
	builder, err := g.Builder()
	if err != nil {
		return err
	}
	return builder.Build(ctx, rt)
}

// ID returns the id of the genesis rt was initialized with, zero if none.
func ID(rt *runtime.Runtime) (id tez.Bytes32, err error) {
	err = rt.View(func(chain *runtime.Chain) error {
		id, err = chain.State.GetStorage(rt.Address(), slotGenesisID)
		return err
	})
	return
}
