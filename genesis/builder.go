// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/runtime"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// Builder helper to build genesis state.
type Builder struct {
	chainID   uint64
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	clause *tx.Clause
	caller thor.Address
}

// ChainID set chain id.
func (b *Builder) ChainID(id uint64) *Builder {
	b.chainID = id
	return b
}

// Timestamp set timestamp.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a contract call, executed after all state processes.
func (b *Builder) Call(clause *tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// Build applies the presets and commits the resulting state to store.
func (b *Builder) Build(store kv.Store) (*state.State, tx.Events, error) {
	st := state.New(store)

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, nil, errors.Wrap(err, "state process")
		}
	}

	rt := runtime.New(st, new(big.Int).SetUint64(b.chainID), 0, b.timestamp)

	var events tx.Events
	for i, call := range b.calls {
		out, err := rt.Call(call.clause, 0, call.caller)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "call #%d", i)
		}
		if out.Reverted {
			return nil, nil, errors.Errorf("call #%d reverted: %s", i, out.RevertReason)
		}
		events = append(events, out.Events...)
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, nil, errors.Wrap(err, "stage state")
	}
	if err := stage.Commit(); err != nil {
		return nil, nil, errors.Wrap(err, "commit state")
	}
	return st, events, nil
}
