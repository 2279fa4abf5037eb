// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/builtin/farm"
	"github.com/quipuswap/farmland/builtin/farm/collab"
	"github.com/quipuswap/farmland/builtin/farm/reverts"
	"github.com/quipuswap/farmland/builtin/farm/token"
	"github.com/quipuswap/farmland/kv"
	"github.com/quipuswap/farmland/log"
	"github.com/quipuswap/farmland/logdb"
	"github.com/quipuswap/farmland/state"
	"github.com/quipuswap/farmland/tez"
)

var logger = log.WithContext("pkg", "runtime")

// Chain exposes the contract and its collaborators bound to one state.
type Chain struct {
	State  *state.State
	Farm   *farm.Farmland
	Ledger *token.Ledger
	Dir    *collab.StateDirectory
}

func newChain(addr tez.Address, st *state.State) *Chain {
	ledger := token.NewLedger(st)
	dir := collab.NewStateDirectory(st, ledger)
	return &Chain{
		State:  st,
		Farm:   farm.New(addr, st, ledger, dir),
		Ledger: ledger,
		Dir:    dir,
	}
}

// Runtime serializes entrypoint calls against the persisted state.
// Calls are executed one at a time; views may run concurrently.
type Runtime struct {
	db     kv.Store
	stater *state.Stater
	addr   tez.Address
	logDB  *logdb.LogDB

	lock sync.RWMutex
}

// New create a Runtime for the contract at addr.
func New(db kv.Store, addr tez.Address) *Runtime {
	return &Runtime{
		db:     db,
		stater: state.NewStater(db),
		addr:   addr,
	}
}

// SetLogDB makes committed receipts recorded into logDB.
// Returns this runtime.
func (rt *Runtime) SetLogDB(logDB *logdb.LogDB) *Runtime {
	rt.logDB = logDB
	return rt
}

func (rt *Runtime) Address() tez.Address { return rt.addr }
func (rt *Runtime) LogDB() *logdb.LogDB  { return rt.logDB }

// Call is one entrypoint invocation.
type Call struct {
	Entrypoint string
	Sender     tez.Address
	Now        uint64
	// Amount is the tez sent along.
	Amount *big.Int
	// Params decodes the entrypoint arguments.
	Params Decoder
}

// Output is the result of one executed call.
type Output struct {
	Entrypoint string           `json:"entrypoint"`
	FID        *uint64          `json:"fid,omitempty"`
	Ops        []farm.Operation `json:"operations"`
	// Call is the call number assigned by the log db, 0 when not recorded.
	Call uint32 `json:"call,omitempty"`
}

// Receipt of a batch.
type Receipt struct {
	Reverted bool      `json:"reverted"`
	Outputs  []*Output `json:"outputs"`
}

// Execute runs a single call. A reverted call is returned as error.
func (rt *Runtime) Execute(ctx context.Context, call *Call) (*Output, error) {
	receipt, err := rt.ExecuteBatch(ctx, []*Call{call})
	if err != nil {
		return nil, err
	}
	return receipt.Outputs[0], nil
}

// ExecuteBatch runs calls atomically. If some call failed, all executed calls
// are reverted, the returned receipt is marked reverted and the error is the
// failure of that call.
func (rt *Runtime) ExecuteBatch(ctx context.Context, calls []*Call) (*Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rt.lock.Lock()
	defer rt.lock.Unlock()

	chain := newChain(rt.addr, rt.stater.NewState())
	// checkpoint to be reverted when call failure.
	checkpoint := chain.State.NewCheckpoint()

	receipt := &Receipt{Outputs: make([]*Output, 0, len(calls))}
	for i, call := range calls {
		output, err := rt.run(chain, call)
		if err != nil {
			chain.State.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.Outputs = nil
			logger.Warn("batch reverted", "index", i, "entrypoint", call.Entrypoint, "err", err)
			return receipt, errors.WithMessagef(err, "call %d (%s)", i, call.Entrypoint)
		}
		receipt.Outputs = append(receipt.Outputs, output)
	}

	if err := chain.State.Stage().Commit(rt.db.NewBatch()); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}

	for i, call := range calls {
		output := receipt.Outputs[i]
		metricPayouts(output.Ops)
		if rt.logDB == nil {
			continue
		}
		num, err := rt.logDB.Insert(ctx, &logdb.Call{
			Entrypoint: output.Entrypoint,
			Sender:     call.Sender,
			Time:       call.Now,
			FID:        output.FID,
			Ops:        output.Ops,
		})
		if err != nil {
			// state is already committed
			logger.Warn("failed to record receipt", "entrypoint", call.Entrypoint, "err", err)
			continue
		}
		output.Call = num
	}
	return receipt, nil
}

func (rt *Runtime) run(chain *Chain, call *Call) (*Output, error) {
	start := time.Now()
	ep, ok := entrypoints[call.Entrypoint]
	if !ok {
		metricCalls().AddWithLabel(1, map[string]string{"entrypoint": "unknown", "result": "error"})
		return nil, errors.Errorf("unknown entrypoint %q", call.Entrypoint)
	}

	env := &farm.Env{Sender: call.Sender, Now: call.Now, Amount: call.Amount}
	decode := call.Params
	if decode == nil {
		decode = noParams
	}
	fid, ops, err := ep(chain.Farm, env, decode)

	result := "ok"
	switch {
	case err == nil:
	case reverts.IsRevertErr(err):
		result = "reverted"
	default:
		result = "error"
	}
	labels := map[string]string{"entrypoint": call.Entrypoint, "result": result}
	metricCalls().AddWithLabel(1, labels)
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"entrypoint": call.Entrypoint})
	if err != nil {
		return nil, err
	}

	logger.Trace("call executed", "entrypoint", call.Entrypoint, "sender", call.Sender, "ops", len(ops))
	return &Output{Entrypoint: call.Entrypoint, FID: fid, Ops: ops}, nil
}

// Apply runs fn against a fresh state and commits its changes when fn succeeds.
// It bypasses the entrypoints, and is meant for bootstrapping.
func (rt *Runtime) Apply(ctx context.Context, fn func(*Chain) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rt.lock.Lock()
	defer rt.lock.Unlock()

	chain := newChain(rt.addr, rt.stater.NewState())
	if err := fn(chain); err != nil {
		return err
	}
	return errors.Wrap(chain.State.Stage().Commit(rt.db.NewBatch()), "commit state")
}

// View runs fn against the committed state. Changes made by fn are dropped.
func (rt *Runtime) View(fn func(*Chain) error) error {
	rt.lock.RLock()
	defer rt.lock.RUnlock()

	return fn(newChain(rt.addr, rt.stater.NewState()))
}
