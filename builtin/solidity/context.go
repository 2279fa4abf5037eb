// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity lays typed values out in the storage of a contract address,
// the way a solidity contract would use its storage slots.
package solidity

import (
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

type Context struct {
	address tez.Address
	state   *state.State
}

func NewContext(address tez.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() tez.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
