// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collab defines the external contracts a farm talks to and provides
// state-backed implementations of them.
package collab

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

// BakerRegistry answers whether a baker may receive delegations.
type BakerRegistry interface {
	IsBanned(baker tez.Address, now uint64) (bool, error)
}

// Burner accepts tez, swaps it for the governance token and burns it.
type Burner interface {
	Burn(from tez.Address, amount *big.Int) error
}

// ProxyMinter mints reward tokens on behalf of allowed minters.
type ProxyMinter interface {
	Mint(minter tez.Address, t token.Token, to tez.Address, amount *big.Int) error
}

// Pool is the liquidity pool an LP farm votes in and collects baking profit from.
type Pool interface {
	Vote(voter, delegate tez.Address, amount *big.Int) error
	WithdrawProfit(voter, receiver tez.Address) (*big.Int, error)
}

// Directory resolves collaborators by their configured address.
type Directory interface {
	BakerRegistry(addr tez.Address) BakerRegistry
	Burner(addr tez.Address) Burner
	ProxyMinter(addr tez.Address) ProxyMinter
	Pool(addr tez.Address) Pool
}
