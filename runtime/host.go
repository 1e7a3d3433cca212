// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"math/big"

	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
	"github.com/vechain/nodestake/xenv"
)

// host carries one clause through its nested calls.
type host struct {
	rt       *Runtime
	blockCtx *xenv.BlockContext
	txCtx    *xenv.TransactionContext
	events   tx.Events
}

// Call runs a message in its own checkpoint. A failed message leaves neither
// state changes nor events behind.
func (h *host) Call(from, to thor.Address, value *big.Int, data []byte, depth int) ([]byte, error) {
	if depth > thor.MaxCallDepth {
		return nil, reverts.New("call depth exceeded")
	}
	if value == nil {
		value = new(big.Int)
	}
	checkpoint := h.rt.state.NewCheckpoint()
	nEvents := len(h.events)

	out, err := h.call(from, to, value, data, depth)
	if err != nil {
		h.rt.state.RevertTo(checkpoint)
		h.events = h.events[:nEvents]
		return nil, err
	}
	return out, nil
}

func (h *host) AddEvent(ev *tx.Event) {
	h.events = append(h.events, ev)
}

func (h *host) call(from, to thor.Address, value *big.Int, data []byte, depth int) ([]byte, error) {
	if value.Sign() < 0 {
		return nil, reverts.New("negative value")
	}
	if value.Sign() > 0 {
		ok, err := h.rt.state.SubBalance(from, value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, reverts.NewInsufficientFunds("insufficient balance")
		}
		if err := h.rt.state.AddBalance(to, value); err != nil {
			return nil, err
		}
	}

	if len(data) == 0 {
		return nil, h.receive(from, to, value, depth)
	}

	method, run, found := builtin.FindNativeCall(to, data)
	if !found {
		if name, ok := builtin.NameOf(to); ok {
			metricCalls().AddWithLabel(1, map[string]string{"contract": name, "method": "unknown", "outcome": "reverted"})
			return nil, reverts.New("method not found")
		}
		// plain accounts accept any message
		return nil, nil
	}

	env := xenv.New(method, h.rt.state, h.blockCtx, h.txCtx, h, from, to, value, data, depth)
	out, err := env.Call(run)()

	name, _ := builtin.NameOf(to)
	outcome := "success"
	if err != nil {
		outcome = "reverted"
		if !reverts.IsRevertErr(err) {
			outcome = "failed"
		}
	}
	metricCalls().AddWithLabel(1, map[string]string{"contract": name, "method": method.Name(), "outcome": outcome})
	return out, err
}

func (h *host) receive(from, to thor.Address, value *big.Int, depth int) error {
	fn, ok := builtin.FindReceiver(to)
	if !ok {
		if recv, found := h.rt.receivers[to]; found {
			fn, ok = recv, true
		}
	}
	if !ok {
		return nil
	}
	env := xenv.New(nil, h.rt.state, h.blockCtx, h.txCtx, h, from, to, value, nil, depth)
	return fn(env)
}
