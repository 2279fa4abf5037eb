// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"context"

	"github.com/pkg/errors"

	"github.com/quipuswap/farmland/runtime"
	"github.com/quipuswap/farmland/tez"
)

// Builder helper to bootstrap the initial state.
type Builder struct {
	timestamp uint64

	stateProcs []func(chain *runtime.Chain) error
	calls      []*runtime.Call
}

// Timestamp set the time the calls are executed at.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process.
func (b *Builder) State(proc func(chain *runtime.Chain) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add an entrypoint call, executed after all state processes.
func (b *Builder) Call(entrypoint string, sender tez.Address, params runtime.Decoder) *Builder {
	b.calls = append(b.calls, &runtime.Call{
		Entrypoint: entrypoint,
		Sender:     sender,
		Params:     params,
	})
	return b
}

// Build applies state processes, then executes the calls as one batch.
func (b *Builder) Build(ctx context.Context, rt *runtime.Runtime) error {
	if err := rt.Apply(ctx, func(chain *runtime.Chain) error {
		for _, proc := range b.stateProcs {
			if err := proc(chain); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "state process")
	}

	if len(b.calls) == 0 {
		return nil
	}
	for _, call := range b.calls {
		call.Now = b.timestamp
	}
	if _, err := rt.ExecuteBatch(ctx, b.calls); err != nil {
		return errors.Wrap(err, "genesis calls")
	}
	return nil
}
