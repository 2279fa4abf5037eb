// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/genesis"
	"github.com/quipuswap/farmland/lvldb"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/test/datagen"
	"github.com/quipuswap/farmland/tez"
)

func newRuntime(t *testing.T, addr tez.Address) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return runtime.New(db, addr)
}

func TestDevnet(t *testing.T) {
	gen := genesis.NewDevnet(1_700_000_000)
	rt := newRuntime(t, genesis.DevContract)
	require.NoError(t, gen.Build(context.Background(), rt))

	id, err := gen.ID()
	require.NoError(t, err)
	stored, err := genesis.ID(rt)
	require.NoError(t, err)
	assert.Equal(t, id, stored)

	admin := genesis.DevAccounts()[0]
	require.NoError(t, rt.View(func(c *runtime.Chain) error {
		cfg, err := c.Farm.Config()
		require.NoError(t, err)
		assert.Equal(t, admin, cfg.Admin)
		assert.Equal(t, uint64(2), cfg.FarmsCount)

		quota, err := c.Farm.GetFarm(1)
		require.NoError(t, err)
		assert.Equal(t, farms.KindQuota, quota.Kind)

		// the quota farm is funded up front
		funded, err := c.Ledger.BalanceOf(genesis.DevRewardToken, genesis.DevContract)
		require.NoError(t, err)
		assert.Equal(t, new(big.Int).Mul(big.NewInt(1000), big.NewInt(30*24*3600)), funded)

		lp, err := c.Ledger.BalanceOf(genesis.DevLPToken, genesis.DevAccounts()[3])
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1_000_000_000), lp)
		return nil
	}))

	err = gen.Build(context.Background(), rt)
	assert.ErrorContains(t, err, "already initialized")
}

func TestParseAndBuild(t *testing.T) {
	contract := datagen.RandContract()
	admin := datagen.RandAddress()
	holder := datagen.RandAddress()
	registry := datagen.RandContract()
	baker := datagen.RandAddress()
	lp := datagen.RandContract()

	doc := map[string]any{
		"name":        "custom",
		"launch_time": 100,
		"contract":    contract.String(),
		"config": map[string]any{
			"admin":          admin.String(),
			"baker_registry": registry.String(),
			"gov_token":      map[string]any{"standard": "fa2", "contract": datagen.RandContract().String()},
		},
		"balances": []any{map[string]any{
			"holder":    holder.String(),
			"token":     map[string]any{"standard": "fa2", "contract": lp.String(), "id": 4},
			"amount":    "5000",
			"operators": []string{contract.String()},
		}},
		"banned_bakers": []any{map[string]any{"baker": baker.String(), "until": 500}},
	}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	gen, err := genesis.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "custom", gen.Name)
	assert.Equal(t, contract, gen.Contract)
	assert.Equal(t, big.NewInt(5000), gen.Balances[0].Amount)

	rt := newRuntime(t, contract)
	require.NoError(t, gen.Build(context.Background(), rt))

	lpToken := token.Token{Standard: token.FA2, Contract: lp, ID: 4}
	require.NoError(t, rt.View(func(c *runtime.Chain) error {
		ok, err := c.Ledger.IsOperator(lpToken, holder, contract)
		require.NoError(t, err)
		assert.True(t, ok)

		banned, err := c.Dir.Registry(registry).IsBanned(baker, 499)
		require.NoError(t, err)
		assert.True(t, banned)
		return nil
	}))
}

func TestValidate(t *testing.T) {
	base := func() *genesis.Genesis {
		return &genesis.Genesis{
			Contract: datagen.RandContract(),
			Config:   farm.Config{Admin: datagen.RandAddress()},
		}
	}

	tests := []struct {
		name   string
		modify func(*genesis.Genesis)
		errMsg string
	}{
		{"implicit contract", func(g *genesis.Genesis) { g.Contract = datagen.RandAddress() }, "KT1"},
		{"no admin", func(g *genesis.Genesis) { g.Config.Admin = tez.Address{} }, "admin"},
		{"zero balance", func(g *genesis.Genesis) {
			g.Balances = []genesis.Balance{{Holder: datagen.RandAddress(), Amount: new(big.Int)}}
		}, "non-zero"},
		{"ban without registry", func(g *genesis.Genesis) {
			g.BannedBakers = []genesis.BannedBaker{{Baker: datagen.RandAddress(), Until: 1}}
		}, "registry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := base()
			tt.modify(g)
			_, err := g.Builder()
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	_, err := base().Builder()
	assert.NoError(t, err)
}

func TestBuildWrongContract(t *testing.T) {
	gen := genesis.NewDevnet(0)
	err := gen.Build(context.Background(), newRuntime(t, datagen.RandContract()))
	assert.ErrorContains(t, err, "another contract")
}
