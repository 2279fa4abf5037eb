// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package users

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/tez"
)

var (
	slotPositions = tez.BytesToBytes32([]byte("positions"))
	slotReferrers = tez.BytesToBytes32([]byte("referrers"))
)

// Key addresses a holder inside a farm.
type Key struct {
	FID    uint64
	Holder tez.Address
}

func (k Key) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.FID), k.Holder[:]...)
}

type Service struct {
	positions *solidity.Mapping[Key, *Position]
	referrers *solidity.Mapping[tez.Address, tez.Address]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		positions: solidity.NewMapping[Key, *Position](sctx, slotPositions),
		referrers: solidity.NewMapping[tez.Address, tez.Address](sctx, slotReferrers),
	}
}

// Get returns the position of holder, an empty one if it was never created.
func (s *Service) Get(fid uint64, holder tez.Address) (*Position, error) {
	p, err := s.positions.Get(Key{fid, holder})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if p == nil {
		return newPosition(), nil
	}
	for _, v := range []**big.Int{&p.Staked, &p.Earned, &p.PrevEarned, &p.PrevStaked, &p.Claimed} {
		if *v == nil {
			*v = new(big.Int)
		}
	}
	return p, nil
}

func (s *Service) Set(fid uint64, holder tez.Address, p *Position) error {
	return errors.Wrap(s.positions.Set(Key{fid, holder}, p), "failed to set position")
}

// Referrer returns the referrer of user, the zero value if none.
func (s *Service) Referrer(user tez.Address) (tez.Address, error) {
	r, err := s.referrers.Get(user)
	return r, errors.Wrap(err, "failed to get referrer")
}

func (s *Service) SetReferrer(user, referrer tez.Address) error {
	return errors.Wrap(s.referrers.Set(user, referrer), "failed to set referrer")
}
