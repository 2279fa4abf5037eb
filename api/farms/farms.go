// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farms

import (
	"math/big"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quipuswap/farmland/api/utils"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
)

const defaultLimit = 100

type Farms struct {
	rt    *runtime.Runtime
	limit uint64
	// now returns the time pending rewards are computed at when the request gives none.
	now func() uint64
}

func New(rt *runtime.Runtime, limit uint64) *Farms {
	if limit == 0 {
		limit = defaultLimit
	}
	return &Farms{
		rt:    rt,
		limit: limit,
		now:   func() uint64 { return uint64(time.Now().Unix()) },
	}
}

func (f *Farms) page(req *http.Request) (offset, limit uint64, err error) {
	if offset, err = utils.Uint64Query(req, "offset", 0); err != nil {
		return
	}
	if limit, err = utils.Uint64Query(req, "limit", f.limit); err != nil {
		return
	}
	limit = min(limit, f.limit)
	return
}

func (f *Farms) handleGetFarms(w http.ResponseWriter, req *http.Request) error {
	offset, limit, err := f.page(req)
	if err != nil {
		return err
	}
	list := make([]*Farm, 0)
	err = f.rt.View(func(c *runtime.Chain) error {
		cfg, err := c.Farm.Config()
		if err != nil {
			return err
		}
		for fid := offset; fid < cfg.FarmsCount && uint64(len(list)) < limit; fid++ {
			fm, err := c.Farm.GetFarm(fid)
			if err != nil {
				return err
			}
			list = append(list, convertFarm(fm))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, list)
}

// LoadFarm returns the view of farm fid.
func LoadFarm(rt *runtime.Runtime, fid uint64) (out *Farm, err error) {
	err = rt.View(func(c *runtime.Chain) error {
		fm, err := c.Farm.GetFarm(fid)
		if err != nil {
			return err
		}
		out = convertFarm(fm)
		return nil
	})
	return
}

// LoadPosition returns the position of holder in farm fid, with the reward pending at now.
func LoadPosition(rt *runtime.Runtime, fid uint64, holder tez.Address, now uint64) (out *Position, err error) {
	err = rt.View(func(c *runtime.Chain) error {
		pending, err := c.Farm.PendingReward(fid, holder, now)
		if err != nil {
			return err
		}
		pos, err := c.Farm.GetPosition(fid, holder)
		if err != nil {
			return err
		}
		candidate, err := c.Farm.GetCandidate(fid, holder)
		if err != nil {
			return err
		}
		out = convertPosition(pos, candidate, pending)
		return nil
	})
	return
}

func (f *Farms) handleGetFarm(w http.ResponseWriter, req *http.Request) error {
	fid, err := utils.Uint64Var(req, "fid")
	if err != nil {
		return err
	}
	out, err := LoadFarm(f.rt, fid)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, out)
}

func (f *Farms) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	fid, err := utils.Uint64Var(req, "fid")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := utils.Uint64Query(req, "now", f.now())
	if err != nil {
		return err
	}

	out, err := LoadPosition(f.rt, fid, holder, now)
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, out)
}

func (f *Farms) handleGetVotes(w http.ResponseWriter, req *http.Request) error {
	fid, err := utils.Uint64Var(req, "fid")
	if err != nil {
		return err
	}
	candidate, err := utils.AddressVar(req, "candidate")
	if err != nil {
		return err
	}
	var votes *big.Int
	err = f.rt.View(func(c *runtime.Chain) error {
		if _, err := c.Farm.GetFarm(fid); err != nil {
			return err
		}
		votes, err = c.Farm.GetVotes(fid, candidate)
		return err
	})
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, utils.M{"candidate": candidate, "votes": amount(votes)})
}

func (f *Farms) handleGetCandidate(w http.ResponseWriter, req *http.Request) error {
	fid, err := utils.Uint64Var(req, "fid")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var candidate tez.Address
	err = f.rt.View(func(c *runtime.Chain) error {
		if _, err := c.Farm.GetFarm(fid); err != nil {
			return err
		}
		candidate, err = c.Farm.GetCandidate(fid, holder)
		return err
	})
	if err != nil {
		return utils.FromRevert(err)
	}
	return utils.WriteJSON(w, utils.M{"holder": holder, "candidate": candidate})
}

func (f *Farms) handleGetOperations(w http.ResponseWriter, req *http.Request) error {
	fid, err := utils.Uint64Var(req, "fid")
	if err != nil {
		return err
	}
	offset, limit, err := f.page(req)
	if err != nil {
		return err
	}
	order := logdb.ASC
	if req.URL.Query().Get("order") == string(logdb.DESC) {
		order = logdb.DESC
	}

	ops := make([]*Operation, 0)
	logDB := f.rt.LogDB()
	if logDB == nil {
		return utils.WriteJSON(w, ops)
	}
	records, err := logDB.Filter(req.Context(), &logdb.Filter{
		FID:     &fid,
		Order:   order,
		Options: &logdb.Options{Offset: offset, Limit: limit},
	})
	if err != nil {
		return err
	}
	for _, r := range records {
		ops = append(ops, convertRecord(r))
	}
	return utils.WriteJSON(w, ops)
}

func (f *Farms) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /farms").HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarms))
	sub.Path("/{fid:[0-9]+}").Methods(http.MethodGet).Name("GET /farms/{fid}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetFarm))
	sub.Path("/{fid:[0-9]+}/positions/{address}").Methods(http.MethodGet).Name("GET /farms/{fid}/positions/{address}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetPosition))
	sub.Path("/{fid:[0-9]+}/votes/{candidate}").Methods(http.MethodGet).Name("GET /farms/{fid}/votes/{candidate}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetVotes))
	sub.Path("/{fid:[0-9]+}/candidates/{address}").Methods(http.MethodGet).Name("GET /farms/{fid}/candidates/{address}").HandlerFunc(utils.WrapHandlerFunc(f.handleGetCandidate))
	sub.Path("/{fid:[0-9]+}/operations").Methods(http.MethodGet).Name("GET /farms/{fid}/operations").HandlerFunc(utils.WrapHandlerFunc(f.handleGetOperations))
}
