// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/accumulator"
	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/precision"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/builtin/farm/voting"
	"github.com/quipuswap/farmland/tez"
)

//
// Views - no state change
//

// Config returns the contract-wide settings.
func (f *Farmland) Config() (*Config, error) {
	cfg := &Config{}
	var err error
	if cfg.Admin, err = f.getAddress(f.admin, "admin"); err != nil {
		return nil, err
	}
	if cfg.PendingAdmin, err = f.getAddress(f.pendingAdmin, "pending admin"); err != nil {
		return nil, err
	}
	if cfg.Burner, err = f.getAddress(f.burner, "burner"); err != nil {
		return nil, err
	}
	if cfg.BakerRegistry, err = f.getAddress(f.bakerRegistry, "baker registry"); err != nil {
		return nil, err
	}
	if cfg.ProxyMinter, err = f.getAddress(f.proxyMinter, "proxy minter"); err != nil {
		return nil, err
	}
	if cfg.GovToken, err = f.govToken.Get(); err != nil {
		return nil, errors.Wrap(err, "failed to get gov token")
	}
	if cfg.FarmsCount, err = f.farmService.Count(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *Farmland) GetFarm(fid uint64) (*farms.Farm, error) {
	return f.farmService.GetExisting(fid)
}

func (f *Farmland) GetPosition(fid uint64, holder tez.Address) (*users.Position, error) {
	return f.userService.Get(fid, holder)
}

func (f *Farmland) GetVotes(fid uint64, candidate tez.Address) (*big.Int, error) {
	return f.votingService.Tally(fid, candidate)
}

func (f *Farmland) GetCandidate(fid uint64, holder tez.Address) (tez.Address, error) {
	return f.votingService.Candidate(fid, holder)
}

func (f *Farmland) GetReferrer(user tez.Address) (tez.Address, error) {
	return f.userService.Referrer(user)
}

// GetBannedBaker returns the local ban of baker, nil when never banned.
func (f *Farmland) GetBannedBaker(baker tez.Address) (*voting.BannedBaker, error) {
	return f.votingService.Banned(baker)
}

// PendingReward returns the whole reward units holder could harvest at now.
func (f *Farmland) PendingReward(fid uint64, holder tez.Address, now uint64) (*big.Int, error) {
	fm, err := f.farmService.GetExisting(fid)
	if err != nil {
		return nil, err
	}
	pos, err := f.userService.Get(fid, holder)
	if err != nil {
		return nil, err
	}
	earned, err := accumulator.Pending(fm, pos, now)
	if err != nil {
		return nil, err
	}
	units, _ := precision.Descale(earned)
	return units, nil
}
