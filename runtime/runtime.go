// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes clauses against the builtin contracts. Execution is
// strictly serialized; a Runtime must not be used from several goroutines.
package runtime

import (
	"math/big"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/metrics"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
	"github.com/vechain/nodestake/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricCalls = metrics.LazyLoadCounterVec("builtin_calls_count", []string{"contract", "method", "outcome"})
)

// Receiver runs when a plain value transfer reaches its address.
type Receiver func(env *xenv.Environment) error

// Output is the result of one clause.
type Output struct {
	Data         []byte
	Events       tx.Events
	Reverted     bool
	RevertReason string
	RevertKind   reverts.Kind
}

// Receipt is the result of a set of clauses executed atomically.
type Receipt struct {
	Reverted bool
	Outputs  []*Output
}

// Runtime is to support clause execution.
type Runtime struct {
	state     *state.State
	chainID   *big.Int
	receivers map[thor.Address]Receiver

	// block env
	blockNumber uint32
	blockTime   uint64
}

// New create a Runtime object.
func New(state *state.State, chainID *big.Int, blockNumber uint32, blockTime uint64) *Runtime {
	return &Runtime{
		state:       state,
		chainID:     new(big.Int).Set(chainID),
		receivers:   make(map[thor.Address]Receiver),
		blockNumber: blockNumber,
		blockTime:   blockTime,
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) ChainID() *big.Int   { return new(big.Int).Set(rt.chainID) }
func (rt *Runtime) BlockNumber() uint32 { return rt.blockNumber }
func (rt *Runtime) BlockTime() uint64   { return rt.blockTime }

// SetBlock moves the runtime to a new block.
func (rt *Runtime) SetBlock(number uint32, time uint64) {
	rt.blockNumber = number
	rt.blockTime = time
}

// SetReceiver installs a hook run when value is sent to addr with empty data.
// Builtin receivers take precedence.
func (rt *Runtime) SetReceiver(addr thor.Address, fn Receiver) {
	if fn == nil {
		delete(rt.receivers, addr)
		return
	}
	rt.receivers[addr] = fn
}

// Call executes single clause. State changes are kept unless the clause reverts.
// The returned error is reserved for failures outside the contract semantics,
// e.g. storage faults, and leaves the state reverted as well.
func (rt *Runtime) Call(clause *tx.Clause, index uint32, origin thor.Address) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	output, err := rt.execute(clause, index, origin)
	if err != nil || output.Reverted {
		rt.state.RevertTo(checkpoint)
	}
	return output, err
}

// Inspect executes a clause and always discards its state changes.
func (rt *Runtime) Inspect(clause *tx.Clause, origin thor.Address) (*Output, error) {
	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)
	return rt.execute(clause, 0, origin)
}

// ExecuteClauses executes clauses in order. If some clause reverts, every
// executed clause is reverted and receipt.Outputs ends with the failed one.
func (rt *Runtime) ExecuteClauses(origin thor.Address, clauses []*tx.Clause) (*Receipt, error) {
	checkpoint := rt.state.NewCheckpoint()
	receipt := &Receipt{Outputs: make([]*Output, 0, len(clauses))}
	for i, clause := range clauses {
		output, err := rt.execute(clause, uint32(i), origin)
		if err != nil {
			rt.state.RevertTo(checkpoint)
			return nil, err
		}
		receipt.Outputs = append(receipt.Outputs, output)
		if output.Reverted {
			rt.state.RevertTo(checkpoint)
			receipt.Reverted = true
			break
		}
	}
	return receipt, nil
}

func (rt *Runtime) execute(clause *tx.Clause, index uint32, origin thor.Address) (*Output, error) {
	h := &host{
		rt: rt,
		blockCtx: &xenv.BlockContext{
			Number: rt.blockNumber,
			Time:   rt.blockTime,
		},
		txCtx: &xenv.TransactionContext{
			ChainID:     rt.ChainID(),
			Origin:      origin,
			ClauseIndex: index,
		},
	}
	data, err := h.Call(origin, clause.To(), clause.Value(), clause.Data(), 0)
	if err != nil {
		if reverts.IsRevertErr(err) {
			logger.Debug("clause reverted", "to", clause.To(), "origin", origin, "reason", err)
			return &Output{
				Reverted:     true,
				RevertReason: err.Error(),
				RevertKind:   reverts.KindOf(err),
			}, nil
		}
		logger.Error("clause failed", "to", clause.To(), "origin", origin, "error", err)
		return nil, err
	}
	return &Output{Data: data, Events: h.events}, nil
}
