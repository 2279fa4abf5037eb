// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package voting tallies the baker votes of LP farm stakers and keeps the
// current and next delegate of every farm.
package voting

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/farms"
	"github.com/quipuswap/farmland/builtin/farm/users"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/log"
	"github.com/quipuswap/farmland/tez"
)

var logger = log.WithContext("pkg", "voting")

var (
	slotVotes      = tez.BytesToBytes32([]byte("votes"))
	slotCandidates = tez.BytesToBytes32([]byte("candidates"))
	slotBanned     = tez.BytesToBytes32([]byte("banned-bakers"))
)

type farmKey struct {
	fid  uint64
	addr tez.Address
}

func (k farmKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.fid), k.addr[:]...)
}

// BannedBaker is banned while now < Start + Period.
type BannedBaker struct {
	Start  uint64
	Period uint64
}

func (b *BannedBaker) Active(now uint64) bool {
	return b != nil && now < b.Start+b.Period
}

type Service struct {
	votes      *solidity.Mapping[farmKey, *big.Int]
	candidates *solidity.Mapping[farmKey, tez.Address]
	banned     *solidity.Mapping[tez.Address, *BannedBaker]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		votes:      solidity.NewMapping[farmKey, *big.Int](sctx, slotVotes),
		candidates: solidity.NewMapping[farmKey, tez.Address](sctx, slotCandidates),
		banned:     solidity.NewMapping[tez.Address, *BannedBaker](sctx, slotBanned),
	}
}

// Tally returns the weight voted for candidate in farm fid.
func (s *Service) Tally(fid uint64, candidate tez.Address) (*big.Int, error) {
	v, err := s.votes.Get(farmKey{fid, candidate})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get votes")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

func (s *Service) setTally(fid uint64, candidate tez.Address, v *big.Int) error {
	if v.Sign() == 0 {
		s.votes.Delete(farmKey{fid, candidate})
		return nil
	}
	return errors.Wrap(s.votes.Set(farmKey{fid, candidate}, v), "failed to set votes")
}

// Candidate returns the baker voter supports in farm fid, the zero address if none.
func (s *Service) Candidate(fid uint64, voter tez.Address) (tez.Address, error) {
	c, err := s.candidates.Get(farmKey{fid, voter})
	return c, errors.Wrap(err, "failed to get candidate")
}

// Vote moves the weight of voter to candidate and re-elects the farm's
// current and next delegate. The previous weight is read from p.PrevStaked,
// which is updated to weight.
func (s *Service) Vote(f *farms.Farm, voter tez.Address, p *users.Position, candidate tez.Address, weight *big.Int) error {
	old, err := s.Candidate(f.FID, voter)
	if err != nil {
		return err
	}
	if p.PrevStaked.Sign() > 0 {
		oldTally, err := s.Tally(f.FID, old)
		if err != nil {
			return err
		}
		if err := s.setTally(f.FID, old, oldTally.Sub(oldTally, p.PrevStaked)); err != nil {
			return err
		}
	}

	newTally, err := s.Tally(f.FID, candidate)
	if err != nil {
		return err
	}
	newTally.Add(newTally, weight)
	if err := s.setTally(f.FID, candidate, newTally); err != nil {
		return err
	}
	if weight.Sign() == 0 {
		s.candidates.Delete(farmKey{f.FID, voter})
	} else if err := s.candidates.Set(farmKey{f.FID, voter}, candidate); err != nil {
		return errors.Wrap(err, "failed to set candidate")
	}
	p.PrevStaked = new(big.Int).Set(weight)

	current, err := s.Tally(f.FID, f.CurrentDelegated)
	if err != nil {
		return err
	}
	if candidate != f.CurrentDelegated {
		next, err := s.Tally(f.FID, f.NextCandidate)
		if err != nil {
			return err
		}
		if newTally.Cmp(current) > 0 {
			f.NextCandidate = f.CurrentDelegated
			f.CurrentDelegated = candidate
		} else if candidate != f.NextCandidate && newTally.Cmp(next) > 0 {
			f.NextCandidate = candidate
		}
	}

	current, err = s.Tally(f.FID, f.CurrentDelegated)
	if err != nil {
		return err
	}
	next, err := s.Tally(f.FID, f.NextCandidate)
	if err != nil {
		return err
	}
	if next.Cmp(current) > 0 {
		f.CurrentDelegated, f.NextCandidate = f.NextCandidate, f.CurrentDelegated
	}
	logger.Trace("vote", "fid", f.FID, "voter", voter, "candidate", candidate, "weight", weight, "current", f.CurrentDelegated)
	return nil
}

// Ban bans baker for period seconds starting at now. A zero period lifts the ban.
func (s *Service) Ban(baker tez.Address, period, now uint64) error {
	if period == 0 {
		s.banned.Delete(baker)
		return nil
	}
	return errors.Wrap(s.banned.Set(baker, &BannedBaker{Start: now, Period: period}), "failed to ban baker")
}

// Banned returns the ban record of baker, nil if it was never banned.
func (s *Service) Banned(baker tez.Address) (*BannedBaker, error) {
	b, err := s.banned.Get(baker)
	return b, errors.Wrap(err, "failed to get banned baker")
}

// IsBanned reports whether baker is in the local ban list at now.
func (s *Service) IsBanned(baker tez.Address, now uint64) (bool, error) {
	b, err := s.Banned(baker)
	if err != nil {
		return false, err
	}
	return b.Active(now), nil
}
