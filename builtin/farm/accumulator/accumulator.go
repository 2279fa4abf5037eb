// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accumulator brings farms and positions up to date with the elapsed time.
package accumulator

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/users"
)

// UpdateFarm distributes the reward emitted since the last update over the
// staked amount. Windows with nothing staked are forfeited.
func UpdateFarm(f *farms.Farm, now uint64) error {
	if now <= f.Upd {
		return nil
	}
	until := now
	if f.Bounded() {
		until = min(now, f.EndTime)
	}
	if until > f.Upd && f.Staked.Sign() > 0 {
		elapsed := new(big.Int).SetUint64(until - f.Upd)
		delta, err := precision.MulDiv(elapsed, f.RewardPerSecond, f.Staked)
		if err != nil {
			return errors.Wrap(err, "failed to accrue farm")
		}
		f.RewardPerShare = new(big.Int).Add(f.RewardPerShare, delta)
	}
	f.Upd = now
	return nil
}

// UpdateUser credits p with its share of the farm reward since its last snapshot.
func UpdateUser(f *farms.Farm, p *users.Position) error {
	cur, err := precision.Mul(f.RewardPerShare, p.Staked)
	if err != nil {
		return errors.Wrap(err, "failed to accrue position")
	}
	p.Earned = new(big.Int).Add(p.Earned, new(big.Int).Sub(cur, p.PrevEarned))
	p.PrevEarned = cur
	return nil
}

// Snapshot resets the accrual baseline of p after its stake changed.
func Snapshot(f *farms.Farm, p *users.Position) error {
	cur, err := precision.Mul(f.RewardPerShare, p.Staked)
	if err != nil {
		return errors.Wrap(err, "failed to snapshot position")
	}
	p.PrevEarned = cur
	return nil
}

// Pending returns the scaled reward p would hold after an update at now,
// without mutating either record.
func Pending(f *farms.Farm, p *users.Position, now uint64) (*big.Int, error) {
	fc := *f
	pc := *p
	if err := UpdateFarm(&fc, now); err != nil {
		return nil, err
	}
	if err := UpdateUser(&fc, &pc); err != nil {
		return nil, err
	}
	return pc.Earned, nil
}
