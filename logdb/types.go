// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/tez"
)

// Call is the receipt of one committed entrypoint invocation.
type Call struct {
	Entrypoint string
	Sender     tez.Address
	Time       uint64
	FID        *uint64 // nil for calls not scoped to a single farm
	Ops        []farm.Operation
}

// Record is a stored operation.
type Record struct {
	Call       uint32         `json:"call"`
	Index      uint32         `json:"index"`
	Entrypoint string         `json:"entrypoint"`
	Sender     tez.Address    `json:"sender"`
	Time       uint64         `json:"time"`
	FID        *uint64        `json:"fid,omitempty"`
	Op         farm.Operation `json:"operation"`
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects records. Nil fields match everything.
type Filter struct {
	FID     *uint64
	Address *tez.Address // matches either side of the operation
	Kind    *farm.OperationKind
	Range   *Range
	Options *Options
	Order   Order
}
