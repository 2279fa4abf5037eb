// Copyright (c) 2025 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/tez"
)

var (
	errUint256Overflow  = errors.New("uint256 overflow")
	errUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is an unsigned counter kept in one slot.
// Add and Sub fail instead of wrapping around.
type Uint256 struct {
	context *Context
	pos     tez.Bytes32
}

func NewUint256(context *Context, slot tez.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) load() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) store(v *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, tez.Bytes32(v.Bytes32()))
}

func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.load()
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

// Set stores value, which must be in [0, 2^256).
func (u *Uint256) Set(value *big.Int) error {
	if value.Sign() < 0 {
		return errUint256Underflow
	}
	v, overflow := uint256.FromBig(value)
	if overflow {
		return errUint256Overflow
	}
	u.store(v)
	return nil
}

func (u *Uint256) Add(value *big.Int) error {
	cur, err := u.load()
	if err != nil {
		return err
	}
	delta, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 {
		return errUint256Overflow
	}
	if _, overflow = cur.AddOverflow(cur, delta); overflow {
		return errUint256Overflow
	}
	u.store(cur)
	return nil
}

func (u *Uint256) Sub(value *big.Int) error {
	cur, err := u.load()
	if err != nil {
		return err
	}
	delta, overflow := uint256.FromBig(value)
	if overflow || value.Sign() < 0 || cur.Lt(delta) {
		return errUint256Underflow
	}
	u.store(cur.Sub(cur, delta))
	return nil
}
