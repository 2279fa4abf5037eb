// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package users

import (
	"math/big"
	"slices"

	"github.com/quipuswap/farmland/tez"
)

// Position is the stake of one holder in one farm. Earned and PrevEarned are
// scaled by precision.Scale.
type Position struct {
	Staked     *big.Int
	Earned     *big.Int
	PrevEarned *big.Int
	PrevStaked *big.Int
	LastStaked uint64
	Claimed    *big.Int
	Allowances []tez.Address
}

func newPosition() *Position {
	return &Position{
		Staked:     new(big.Int),
		Earned:     new(big.Int),
		PrevEarned: new(big.Int),
		PrevStaked: new(big.Int),
		Claimed:    new(big.Int),
	}
}

// IsOperator returns whether operator may transfer this position.
func (p *Position) IsOperator(operator tez.Address) bool {
	return slices.Contains(p.Allowances, operator)
}

func (p *Position) AddOperator(operator tez.Address) {
	if !p.IsOperator(operator) {
		p.Allowances = append(p.Allowances, operator)
	}
}

func (p *Position) RemoveOperator(operator tez.Address) {
	p.Allowances = slices.DeleteFunc(p.Allowances, func(a tez.Address) bool { return a == operator })
}
