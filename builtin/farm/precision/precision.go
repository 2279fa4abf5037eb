// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package precision holds the fixed point helpers shared by the reward engine.
// Every helper works on non-negative 256 bits integers and reports overflow as
// an error instead of wrapping.
package precision

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Scale is the fixed point unit of fees, reward rates and reward per share.
var Scale = big.NewInt(1e18)

var (
	ErrOverflow       = errors.New("precision: uint256 overflow")
	ErrNegative       = errors.New("precision: negative operand")
	ErrDivisionByZero = errors.New("precision: division by zero")
)

func toU256(x *big.Int) (*uint256.Int, error) {
	if x.Sign() < 0 {
		return nil, ErrNegative
	}
	u, overflow := uint256.FromBig(x)
	if overflow {
		return nil, ErrOverflow
	}
	return u, nil
}

func operands(a, b, c *big.Int) (x, y, d *uint256.Int, err error) {
	if x, err = toU256(a); err != nil {
		return
	}
	if y, err = toU256(b); err != nil {
		return
	}
	if d, err = toU256(c); err != nil {
		return
	}
	if d.IsZero() {
		err = ErrDivisionByZero
	}
	return
}

// MulDiv returns floor(a * b / c).
func MulDiv(a, b, c *big.Int) (*big.Int, error) {
	x, y, d, err := operands(a, b, c)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// MulDivUp returns ceil(a * b / c).
func MulDivUp(a, b, c *big.Int) (*big.Int, error) {
	x, y, d, err := operands(a, b, c)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	if !new(uint256.Int).MulMod(x, y, d).IsZero() {
		if z, overflow = z.AddOverflow(z, uint256.NewInt(1)); overflow {
			return nil, ErrOverflow
		}
	}
	return z.ToBig(), nil
}

// Mul returns a * b.
func Mul(a, b *big.Int) (*big.Int, error) {
	x, err := toU256(a)
	if err != nil {
		return nil, err
	}
	y, err := toU256(b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// Descale splits a scaled value into its whole units and the scaled remainder.
func Descale(x *big.Int) (units, remainder *big.Int) {
	return new(big.Int).QuoRem(x, Scale, new(big.Int))
}

// Rounding selects which side of a split absorbs the rounding loss.
type Rounding uint8

const (
	// FeeDown floors the fee, the holder keeps the remainder.
	FeeDown Rounding = iota
	// FeeUp floors the holder share, the fee takes the remainder.
	FeeUp
)

// Split divides amount into (net, fee) for a fee scaled by Scale.
func Split(amount, fee *big.Int, rounding Rounding) (net, cut *big.Int, err error) {
	switch rounding {
	case FeeUp:
		if net, err = MulDiv(amount, new(big.Int).Sub(Scale, fee), Scale); err != nil {
			return nil, nil, err
		}
		return net, new(big.Int).Sub(amount, net), nil
	default:
		if cut, err = MulDiv(amount, fee, Scale); err != nil {
			return nil, nil, err
		}
		return new(big.Int).Sub(amount, cut), cut, nil
	}
}
