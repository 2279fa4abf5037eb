// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collab

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/builtin/solidity"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

var (
	slotBanUntil = tez.BytesToBytes32([]byte("ban-until"))
	slotBurned   = tez.BytesToBytes32([]byte("burned"))
	slotMinters  = tez.BytesToBytes32([]byte("minters"))
	slotVotes    = tez.BytesToBytes32([]byte("pool-votes"))
	slotProfits  = tez.BytesToBytes32([]byte("pool-profits"))
)

// StateDirectory runs every collaborator as a contract inside the same state
// as the farms, so their effects revert together with the calling farm.
type StateDirectory struct {
	st     *state.State
	ledger *token.Ledger
}

func NewStateDirectory(st *state.State, ledger *token.Ledger) *StateDirectory {
	return &StateDirectory{st: st, ledger: ledger}
}

func (d *StateDirectory) BakerRegistry(addr tez.Address) BakerRegistry {
	return d.Registry(addr)
}

func (d *StateDirectory) Burner(addr tez.Address) Burner {
	return d.TezBurner(addr)
}

func (d *StateDirectory) ProxyMinter(addr tez.Address) ProxyMinter {
	return d.Minter(addr)
}

func (d *StateDirectory) Pool(addr tez.Address) Pool {
	return d.LiquidityPool(addr)
}

// Registry returns the concrete registry at addr.
func (d *StateDirectory) Registry(addr tez.Address) *Registry {
	return &Registry{until: solidity.NewMapping[tez.Address, uint64](solidity.NewContext(addr, d.st), slotBanUntil)}
}

// TezBurner returns the concrete burner at addr.
func (d *StateDirectory) TezBurner(addr tez.Address) *TezBurner {
	return &TezBurner{
		addr:   addr,
		ledger: d.ledger,
		burned: solidity.NewUint256(solidity.NewContext(addr, d.st), slotBurned),
	}
}

// Minter returns the concrete proxy minter at addr.
func (d *StateDirectory) Minter(addr tez.Address) *Minter {
	return &Minter{
		ledger:  d.ledger,
		minters: solidity.NewMapping[tez.Address, bool](solidity.NewContext(addr, d.st), slotMinters),
	}
}

// LiquidityPool returns the concrete pool at addr.
func (d *StateDirectory) LiquidityPool(addr tez.Address) *LiquidityPool {
	sctx := solidity.NewContext(addr, d.st)
	return &LiquidityPool{
		addr:    addr,
		ledger:  d.ledger,
		votes:   solidity.NewMapping[tez.Address, *PoolVote](sctx, slotVotes),
		profits: solidity.NewMapping[tez.Address, *big.Int](sctx, slotProfits),
	}
}

// Registry bans bakers until a timestamp.
type Registry struct {
	until *solidity.Mapping[tez.Address, uint64]
}

func (r *Registry) IsBanned(baker tez.Address, now uint64) (bool, error) {
	until, err := r.until.Get(baker)
	if err != nil {
		return false, errors.Wrap(err, "failed to get ban")
	}
	return now < until, nil
}

// BanUntil bans baker while now < until.
func (r *Registry) BanUntil(baker tez.Address, until uint64) error {
	return errors.Wrap(r.until.Set(baker, until), "failed to set ban")
}

// TezBurner takes the tez and counts it as burned.
type TezBurner struct {
	addr   tez.Address
	ledger *token.Ledger
	burned *solidity.Uint256
}

func (b *TezBurner) Burn(from tez.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := b.ledger.Move(token.Tez, from, b.addr, amount); err != nil {
		return err
	}
	return b.burned.Add(amount)
}

// Burned returns the total tez burned so far.
func (b *TezBurner) Burned() (*big.Int, error) {
	return b.burned.Get()
}

// Minter mints any token for the addresses it allows.
type Minter struct {
	ledger  *token.Ledger
	minters *solidity.Mapping[tez.Address, bool]
}

func (m *Minter) Mint(minter tez.Address, t token.Token, to tez.Address, amount *big.Int) error {
	ok, err := m.minters.Get(minter)
	if err != nil {
		return errors.Wrap(err, "failed to get minter")
	}
	if !ok {
		return reverts.ErrNotMinter
	}
	return m.ledger.Mint(t, to, amount)
}

// SetMinter allows or forbids minter.
func (m *Minter) SetMinter(minter tez.Address, allowed bool) error {
	if !allowed {
		m.minters.Delete(minter)
		return nil
	}
	return errors.Wrap(m.minters.Set(minter, true), "failed to set minter")
}

// PoolVote is the last vote a voter cast in the pool.
type PoolVote struct {
	Delegate tez.Address
	Amount   *big.Int
}

// LiquidityPool records votes and pays out baking profit in tez.
type LiquidityPool struct {
	addr    tez.Address
	ledger  *token.Ledger
	votes   *solidity.Mapping[tez.Address, *PoolVote]
	profits *solidity.Mapping[tez.Address, *big.Int]
}

func (p *LiquidityPool) Vote(voter, delegate tez.Address, amount *big.Int) error {
	return errors.Wrap(p.votes.Set(voter, &PoolVote{Delegate: delegate, Amount: amount}), "failed to set pool vote")
}

// VoteOf returns the last vote of voter, nil if none.
func (p *LiquidityPool) VoteOf(voter tez.Address) (*PoolVote, error) {
	v, err := p.votes.Get(voter)
	return v, errors.Wrap(err, "failed to get pool vote")
}

// AccrueProfit credits voter with amount of baking profit held by the pool.
func (p *LiquidityPool) AccrueProfit(voter tez.Address, amount *big.Int) error {
	if err := p.ledger.Mint(token.Tez, p.addr, amount); err != nil {
		return err
	}
	profit, err := p.profits.Get(voter)
	if err != nil {
		return errors.Wrap(err, "failed to get profit")
	}
	if profit == nil {
		profit = new(big.Int)
	}
	return errors.Wrap(p.profits.Set(voter, profit.Add(profit, amount)), "failed to set profit")
}

func (p *LiquidityPool) WithdrawProfit(voter, receiver tez.Address) (*big.Int, error) {
	profit, err := p.profits.Get(voter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profit")
	}
	if profit == nil || profit.Sign() == 0 {
		return new(big.Int), nil
	}
	p.profits.Delete(voter)
	if err := p.ledger.Move(token.Tez, p.addr, receiver, profit); err != nil {
		return nil, err
	}
	return profit, nil
}
