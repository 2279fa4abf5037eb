// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

var (
	slotBalances   = tez.BytesToBytes32([]byte("balances"))
	slotAllowances = tez.BytesToBytes32([]byte("allowances"))
	slotOperators  = tez.BytesToBytes32([]byte("operators"))
	slotSupply     = tez.BytesToBytes32([]byte("supply"))
)

// LedgerAddress is the storage owner of every token balance.
var LedgerAddress = tez.BytesToAddress(tez.PrefixKT1, []byte("token-ledger"))

type accountKey struct {
	token Token
	owner tez.Address
}

func (k accountKey) Bytes() []byte {
	return append(k.token.Bytes(), k.owner[:]...)
}

type delegateKey struct {
	token    Token
	owner    tez.Address
	delegate tez.Address
}

func (k delegateKey) Bytes() []byte {
	return append(append(k.token.Bytes(), k.owner[:]...), k.delegate[:]...)
}

// Ledger keeps balances, FA1.2 allowances and FA2 operators of every token
// known to the host.
type Ledger struct {
	balances   *solidity.Mapping[accountKey, *big.Int]
	allowances *solidity.Mapping[delegateKey, *big.Int]
	operators  *solidity.Mapping[delegateKey, bool]
	supply     *solidity.Mapping[Token, *big.Int]
}

func NewLedger(st *state.State) *Ledger {
	sctx := solidity.NewContext(LedgerAddress, st)
	return &Ledger{
		balances:   solidity.NewMapping[accountKey, *big.Int](sctx, slotBalances),
		allowances: solidity.NewMapping[delegateKey, *big.Int](sctx, slotAllowances),
		operators:  solidity.NewMapping[delegateKey, bool](sctx, slotOperators),
		supply:     solidity.NewMapping[Token, *big.Int](sctx, slotSupply),
	}
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// BalanceOf returns the balance of owner.
func (l *Ledger) BalanceOf(t Token, owner tez.Address) (*big.Int, error) {
	b, err := l.balances.Get(accountKey{t, owner})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return orZero(b), nil
}

// Supply returns the minted amount of t.
func (l *Ledger) Supply(t Token) (*big.Int, error) {
	s, err := l.supply.Get(t)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get supply")
	}
	return orZero(s), nil
}

func (l *Ledger) setBalance(t Token, owner tez.Address, amount *big.Int) error {
	key := accountKey{t, owner}
	if amount.Sign() == 0 {
		l.balances.Delete(key)
		return nil
	}
	return errors.Wrap(l.balances.Set(key, amount), "failed to set balance")
}

// Mint creates amount of t for to.
func (l *Ledger) Mint(t Token, to tez.Address, amount *big.Int) error {
	bal, err := l.BalanceOf(t, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(t, to, bal.Add(bal, amount)); err != nil {
		return err
	}
	supply, err := l.Supply(t)
	if err != nil {
		return err
	}
	return errors.Wrap(l.supply.Set(t, supply.Add(supply, amount)), "failed to set supply")
}

// Move transfers amount of t without any authorization check.
func (l *Ledger) Move(t Token, from, to tez.Address, amount *big.Int) error {
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal, err := l.BalanceOf(t, from)
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	toBal, err := l.BalanceOf(t, to)
	if err != nil {
		return err
	}
	if err := l.setBalance(t, from, fromBal.Sub(fromBal, amount)); err != nil {
		return err
	}
	return l.setBalance(t, to, toBal.Add(toBal, amount))
}

// Allowance returns the FA1.2 amount spender may move on behalf of owner.
func (l *Ledger) Allowance(t Token, owner, spender tez.Address) (*big.Int, error) {
	a, err := l.allowances.Get(delegateKey{t, owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return orZero(a), nil
}

// Approve sets the FA1.2 allowance of spender.
func (l *Ledger) Approve(t Token, owner, spender tez.Address, amount *big.Int) error {
	key := delegateKey{t, owner, spender}
	if amount.Sign() == 0 {
		l.allowances.Delete(key)
		return nil
	}
	return errors.Wrap(l.allowances.Set(key, amount), "failed to set allowance")
}

// IsOperator returns whether operator may move the FA2 token of owner.
func (l *Ledger) IsOperator(t Token, owner, operator tez.Address) (bool, error) {
	ok, err := l.operators.Get(delegateKey{t, owner, operator})
	return ok, errors.Wrap(err, "failed to get operator")
}

// SetOperator grants or revokes an FA2 operator.
func (l *Ledger) SetOperator(t Token, owner, operator tez.Address, allowed bool) error {
	key := delegateKey{t, owner, operator}
	if !allowed {
		l.operators.Delete(key)
		return nil
	}
	return errors.Wrap(l.operators.Set(key, true), "failed to set operator")
}
