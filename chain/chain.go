// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain serializes clause execution against a persistent state store.
package chain

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/metrics"
	"github.com/vechain/nodestake/runtime"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

var (
	logger = log.WithContext("pkg", "chain")

	metricHeadNumber = metrics.LazyLoadGauge("chain_head_number")
	metricExecutions = metrics.LazyLoadCounterVec("chain_executions_count", []string{"outcome"})

	headStore = kv.Bucket("h")
	headKey   = []byte("head")
)

// Head is the latest committed block.
type Head struct {
	Number uint32
	Time   uint64
}

// Chain owns the state store. Each successful Execute commits one block.
type Chain struct {
	store   kv.Store
	heads   kv.Store
	chainID *big.Int
	clock   func() uint64

	mu   sync.Mutex
	head Head
}

// Receipt is the outcome of Execute. Head is the block the clauses were
// committed in, or the unchanged head when they reverted.
type Receipt struct {
	*runtime.Receipt
	Head Head
}

// Option customizes a Chain.
type Option func(*Chain)

// WithClock replaces the wall clock used to time new blocks.
func WithClock(clock func() uint64) Option {
	return func(c *Chain) { c.clock = clock }
}

func systemClock() uint64 {
	return uint64(time.Now().Unix())
}

// New opens the chain stored in store, building gen into it when the store is empty.
func New(store kv.Store, gen *genesis.Genesis, opts ...Option) (*Chain, error) {
	c := &Chain{
		store:   store,
		heads:   headStore.NewStore(store),
		chainID: new(big.Int).SetUint64(gen.ChainID()),
		clock:   systemClock,
	}
	for _, opt := range opts {
		opt(c)
	}

	data, err := c.heads.Get(headKey)
	switch {
	case err == nil:
		if err := rlp.DecodeBytes(data, &c.head); err != nil {
			return nil, errors.Wrap(err, "decode head")
		}
		logger.Info("chain loaded", "number", c.head.Number, "time", c.head.Time)
	case c.heads.IsNotFound(err):
		if _, _, err := gen.Build(store); err != nil {
			return nil, errors.WithMessage(err, "build genesis")
		}
		if err := c.saveHead(Head{0, gen.LaunchTime()}); err != nil {
			return nil, err
		}
		logger.Info("genesis built", "chainID", c.chainID, "launchTime", gen.LaunchTime())
	default:
		return nil, errors.Wrap(err, "load head")
	}
	metricHeadNumber().Set(int64(c.head.Number))
	return c, nil
}

func (c *Chain) saveHead(head Head) error {
	data, err := rlp.EncodeToBytes(&head)
	if err != nil {
		return errors.Wrap(err, "encode head")
	}
	if err := c.heads.Put(headKey, data); err != nil {
		return errors.Wrap(err, "save head")
	}
	c.head = head
	return nil
}

func (c *Chain) ChainID() *big.Int { return new(big.Int).Set(c.chainID) }

// Head returns the latest committed block.
func (c *Chain) Head() Head {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head
}

// now is the time of the next block. It never runs behind the head.
func (c *Chain) now() uint64 {
	if t := c.clock(); t > c.head.Time {
		return t
	}
	return c.head.Time
}

// Execute runs clauses atomically on behalf of origin. The changes are
// committed as a new block unless some clause reverts.
func (c *Chain) Execute(origin thor.Address, clauses []*tx.Clause) (*Receipt, error) {
	if len(clauses) == 0 {
		return nil, errors.New("no clauses")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := Head{c.head.Number + 1, c.now()}
	st := state.New(c.store)
	rt := runtime.New(st, c.chainID, next.Number, next.Time)

	receipt, err := rt.ExecuteClauses(origin, clauses)
	if err != nil {
		metricExecutions().AddWithLabel(1, map[string]string{"outcome": "error"})
		return nil, err
	}
	if receipt.Reverted {
		metricExecutions().AddWithLabel(1, map[string]string{"outcome": "reverted"})
		return &Receipt{receipt, c.head}, nil
	}

	stage, err := st.Stage()
	if err != nil {
		return nil, errors.Wrap(err, "stage state")
	}
	if err := stage.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	if err := c.saveHead(next); err != nil {
		return nil, err
	}
	metricExecutions().AddWithLabel(1, map[string]string{"outcome": "committed"})
	metricHeadNumber().Set(int64(next.Number))
	logger.Debug("block committed", "number", next.Number, "origin", origin, "clauses", len(clauses), "changes", stage.Len())
	return &Receipt{receipt, next}, nil
}

// Inspect runs clause against the latest state as if it were included in
// the next block, and discards every change.
func (c *Chain) Inspect(clause *tx.Clause, origin thor.Address) (*runtime.Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rt := runtime.New(state.New(c.store), c.chainID, c.head.Number+1, c.now())
	return rt.Inspect(clause, origin)
}

// View calls fn with a read-only snapshot of the latest state and the
// time queries should be evaluated at.
func (c *Chain) View(fn func(st *state.State, now uint64) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return fn(state.New(c.store), c.now())
}
