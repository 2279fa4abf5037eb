// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/tez"
)

// Handle moves one token in and out of a holding contract.
type Handle interface {
	Token() Token
	// Debit pulls amount from the account into the holder.
	Debit(from tez.Address, amount *big.Int) error
	// Credit pays amount from the holder to the account.
	Credit(to tez.Address, amount *big.Int) error
}

// NewHandle returns the handle of t for the given holder.
func NewHandle(l *Ledger, t Token, holder tez.Address) (Handle, error) {
	base := handle{ledger: l, token: t, holder: holder}
	switch t.Standard {
	case Native:
		return &nativeHandle{base}, nil
	case FA12:
		return &fa12Handle{base}, nil
	case FA2:
		return &fa2Handle{base}, nil
	}
	return nil, reverts.ErrUnsupportedToken
}

type handle struct {
	ledger *Ledger
	token  Token
	holder tez.Address
}

func (h *handle) Token() Token {
	return h.token
}

func (h *handle) Credit(to tez.Address, amount *big.Int) error {
	return h.ledger.Move(h.token, h.holder, to, amount)
}

// nativeHandle debits tez the caller attached to the call.
type nativeHandle struct {
	handle
}

func (h *nativeHandle) Debit(from tez.Address, amount *big.Int) error {
	return h.ledger.Move(h.token, from, h.holder, amount)
}

// fa12Handle spends the allowance the account granted to the holder.
type fa12Handle struct {
	handle
}

func (h *fa12Handle) Debit(from tez.Address, amount *big.Int) error {
	if from != h.holder {
		allowance, err := h.ledger.Allowance(h.token, from, h.holder)
		if err != nil {
			return err
		}
		if allowance.Cmp(amount) < 0 {
			return reverts.ErrNotEnoughAllowance
		}
		if err := h.ledger.Approve(h.token, from, h.holder, allowance.Sub(allowance, amount)); err != nil {
			return err
		}
	}
	return h.ledger.Move(h.token, from, h.holder, amount)
}

// fa2Handle requires the holder to be an operator of the account.
type fa2Handle struct {
	handle
}

func (h *fa2Handle) Debit(from tez.Address, amount *big.Int) error {
	if from != h.holder {
		ok, err := h.ledger.IsOperator(h.token, from, h.holder)
		if err != nil {
			return err
		}
		if !ok {
			return reverts.ErrNotOperator
		}
	}
	return h.ledger.Move(h.token, from, h.holder, amount)
}
