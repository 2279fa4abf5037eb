// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/collab"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/builtin/farm/voting"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/log"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

var logger = log.WithContext("pkg", "farm")

var (
	slotAdmin         = tez.BytesToBytes32([]byte("admin"))
	slotPendingAdmin  = tez.BytesToBytes32([]byte("pending-admin"))
	slotBurner        = tez.BytesToBytes32([]byte("burner"))
	slotBakerRegistry = tez.BytesToBytes32([]byte("baker-registry"))
	slotProxyMinter   = tez.BytesToBytes32([]byte("proxy-minter"))
	slotGovToken      = tez.BytesToBytes32([]byte("gov-token"))
)

// Config holds the contract-wide settings.
type Config struct {
	Admin         tez.Address `json:"admin" yaml:"admin"`
	PendingAdmin  tez.Address `json:"pendingAdmin" yaml:"pending_admin"`
	Burner        tez.Address `json:"burner" yaml:"burner"`
	BakerRegistry tez.Address `json:"bakerRegistry" yaml:"baker_registry"`
	ProxyMinter   tez.Address `json:"proxyMinter" yaml:"proxy_minter"`
	GovToken      token.Token `json:"govToken" yaml:"gov_token"`
	FarmsCount    uint64      `json:"farmsCount" yaml:"-"`
}

// Farmland implements the entrypoints of the farming contract at one address.
type Farmland struct {
	addr   tez.Address
	ledger *token.Ledger
	dir    collab.Directory

	farmService   *farms.Service
	userService   *users.Service
	votingService *voting.Service

	admin         *solidity.Raw[tez.Address]
	pendingAdmin  *solidity.Raw[tez.Address]
	burner        *solidity.Raw[tez.Address]
	bakerRegistry *solidity.Raw[tez.Address]
	proxyMinter   *solidity.Raw[tez.Address]
	govToken      *solidity.Raw[token.Token]
}

// New create a new instance.
func New(addr tez.Address, st *state.State, ledger *token.Ledger, dir collab.Directory) *Farmland {
	sctx := solidity.NewContext(addr, st)
	return &Farmland{
		addr:   addr,
		ledger: ledger,
		dir:    dir,

		farmService:   farms.New(sctx),
		userService:   users.New(sctx),
		votingService: voting.New(sctx),

		admin:         solidity.NewRaw[tez.Address](sctx, slotAdmin),
		pendingAdmin:  solidity.NewRaw[tez.Address](sctx, slotPendingAdmin),
		burner:        solidity.NewRaw[tez.Address](sctx, slotBurner),
		bakerRegistry: solidity.NewRaw[tez.Address](sctx, slotBakerRegistry),
		proxyMinter:   solidity.NewRaw[tez.Address](sctx, slotProxyMinter),
		govToken:      solidity.NewRaw[token.Token](sctx, slotGovToken),
	}
}

// Address returns the contract address, which also holds the farm-owned positions.
func (f *Farmland) Address() tez.Address {
	return f.addr
}

// Initialize writes the initial config. Farm count is ignored.
func (f *Farmland) Initialize(cfg *Config) error {
	if err := f.admin.Set(cfg.Admin); err != nil {
		return errors.Wrap(err, "failed to set admin")
	}
	if err := f.pendingAdmin.Set(cfg.PendingAdmin); err != nil {
		return errors.Wrap(err, "failed to set pending admin")
	}
	if err := f.burner.Set(cfg.Burner); err != nil {
		return errors.Wrap(err, "failed to set burner")
	}
	if err := f.bakerRegistry.Set(cfg.BakerRegistry); err != nil {
		return errors.Wrap(err, "failed to set baker registry")
	}
	if err := f.proxyMinter.Set(cfg.ProxyMinter); err != nil {
		return errors.Wrap(err, "failed to set proxy minter")
	}
	return errors.Wrap(f.govToken.Set(cfg.GovToken), "failed to set gov token")
}

func (f *Farmland) getAddress(r *solidity.Raw[tez.Address], name string) (tez.Address, error) {
	addr, err := r.Get()
	if err != nil {
		return tez.Address{}, errors.Wrapf(err, "failed to get %s", name)
	}
	return addr, nil
}

func (f *Farmland) onlyAdmin(env *Env) error {
	admin, err := f.getAddress(f.admin, "admin")
	if err != nil {
		return err
	}
	if env.Sender != admin {
		return reverts.ErrNotAdmin
	}
	return nil
}

// Env carries the call context supplied by the host.
type Env struct {
	Sender tez.Address
	Now    uint64
	// Amount is the tez sent along with the call.
	Amount *big.Int
}

func (e *Env) amount() *big.Int {
	if e.Amount == nil {
		return new(big.Int)
	}
	return e.Amount
}
