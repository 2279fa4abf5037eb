// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quipuswap/farmland/api/utils"
	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
)

// Accounts serves the per-address lookups which are not scoped to a farm.
type Accounts struct {
	rt  *runtime.Runtime
	now func() uint64
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{
		rt:  rt,
		now: func() uint64 { return uint64(time.Now().Unix()) },
	}
}

func (a *Accounts) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *farm.Config
	err := a.rt.View(func(c *runtime.Chain) (err error) {
		cfg, err = c.Farm.Config()
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

func (a *Accounts) handleGetReferrer(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var referrer tez.Address
	err = a.rt.View(func(c *runtime.Chain) (err error) {
		referrer, err = c.Farm.GetReferrer(user)
		return
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"user": user, "referrer": referrer})
}

func (a *Accounts) handleGetBaker(w http.ResponseWriter, req *http.Request) error {
	baker, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	now, err := utils.Uint64Query(req, "now", a.now())
	if err != nil {
		return err
	}
	var out utils.M
	err = a.rt.View(func(c *runtime.Chain) error {
		ban, err := c.Farm.GetBannedBaker(baker)
		if err != nil {
			return err
		}
		out = utils.M{"baker": baker, "banned": false}
		if ban != nil {
			out["start"] = ban.Start
			out["period"] = ban.Period
			out["banned"] = ban.Active(now)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

// Mount registers /config, /referrers/{address} and /bakers/{address} on root.
func (a *Accounts) Mount(root *mux.Router) {
	root.Path("/config").Methods(http.MethodGet).Name("GET /config").HandlerFunc(utils.WrapHandlerFunc(a.handleGetConfig))
	root.Path("/referrers/{address}").Methods(http.MethodGet).Name("GET /referrers/{address}").HandlerFunc(utils.WrapHandlerFunc(a.handleGetReferrer))
	root.Path("/bakers/{address}").Methods(http.MethodGet).Name("GET /bakers/{address}").HandlerFunc(utils.WrapHandlerFunc(a.handleGetBaker))
}
