// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"fmt"
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/tez"
)

type OperationKind uint8

const (
	OpTransfer OperationKind = iota
	OpMint
	OpVote
	OpWithdrawProfit
	OpBurn
)

func (k OperationKind) String() string {
	switch k {
	case OpTransfer:
		return "transfer"
	case OpMint:
		return "mint"
	case OpVote:
		return "vote"
	case OpWithdrawProfit:
		return "withdraw_profit"
	case OpBurn:
		return "burn"
	}
	return fmt.Sprintf("op(%d)", uint8(k))
}

func (k OperationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Operation is one external effect performed by an entrypoint. Calls return
// them in execution order as their receipt.
type Operation struct {
	Kind     OperationKind `json:"kind"`
	Token    token.Token   `json:"token"`
	From     tez.Address   `json:"from"`
	To       tez.Address   `json:"to"`
	Amount   *big.Int      `json:"amount"`
	Delegate tez.Address   `json:"delegate"`
}

// Filter returns the operations of the given kind.
func Filter(ops []Operation, kind OperationKind) []Operation {
	var out []Operation
	for _, op := range ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
