// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/quipuswap/farmland/kv"
)

const defaultCacheSize = 4096

// Stater is the state creator. It shares a read cache of committed storage
// between the states it creates.
type Stater struct {
	db    kv.Getter
	cache *lru.Cache
}

// NewStater create a new stater.
func NewStater(db kv.Getter) *Stater {
	cache, _ := lru.New(defaultCacheSize)
	return &Stater{db, cache}
}

// NewState create a new state object on top of the committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

func (s *Stater) load(k storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache.Get(k); ok {
		return v.(rlp.RawValue), true, nil
	}
	v, err := s.db.Get(k.bytes())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	s.cache.Add(k, rlp.RawValue(v))
	return v, true, nil
}
