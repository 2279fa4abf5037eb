// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/tez"
)

var (
	slotFarms      = tez.BytesToBytes32([]byte("farms"))
	slotFarmsCount = tez.BytesToBytes32([]byte("farms-count"))
)

type Service struct {
	farms *solidity.Mapping[solidity.Uint64Key, *Farm]
	count *solidity.Raw[uint64]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		farms: solidity.NewMapping[solidity.Uint64Key, *Farm](sctx, slotFarms),
		count: solidity.NewRaw[uint64](sctx, slotFarmsCount),
	}
}

// Count returns the number of farms, which is also the next farm id.
func (s *Service) Count() (uint64, error) {
	n, err := s.count.Get()
	return n, errors.Wrap(err, "failed to get farms count")
}

// Get returns the farm, nil if not set.
func (s *Service) Get(fid uint64) (*Farm, error) {
	f, err := s.farms.Get(solidity.Uint64Key(fid))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get farm")
	}
	if f != nil {
		normalize(f)
	}
	return f, nil
}

// GetExisting returns the farm or reverts when it is not set.
func (s *Service) GetExisting(fid uint64) (*Farm, error) {
	f, err := s.Get(fid)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, reverts.ErrFarmNotSet
	}
	return f, nil
}

// Add stores a new farm under the next id and returns the id.
func (s *Service) Add(f *Farm) (uint64, error) {
	fid, err := s.Count()
	if err != nil {
		return 0, err
	}
	f.FID = fid
	if err := s.Update(f); err != nil {
		return 0, err
	}
	if err := s.count.Set(fid + 1); err != nil {
		return 0, errors.Wrap(err, "failed to set farms count")
	}
	return fid, nil
}

func (s *Service) Update(f *Farm) error {
	return errors.Wrap(s.farms.Set(solidity.Uint64Key(f.FID), f), "failed to set farm")
}

// normalize allocates the numeric fields left nil by construction.
func normalize(f *Farm) {
	for _, p := range []**big.Int{
		&f.Staked, &f.Claimed, &f.RewardPerShare, &f.RewardPerSecond,
		&f.Fees.HarvestFee, &f.Fees.WithdrawalFee, &f.Fees.BurnReward,
	} {
		if *p == nil {
			*p = new(big.Int)
		}
	}
}
