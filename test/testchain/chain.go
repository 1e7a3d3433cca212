// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testchain runs a dev genesis chain in memory with a controllable clock.
package testchain

import (
	"fmt"
	"sync/atomic"

	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// Chain wraps a chain.Chain built from the dev genesis.
type Chain struct {
	*chain.Chain
	genesis *genesis.Genesis
	clock   atomic.Uint64
}

// NewDefault creates a Chain from genesis.DevConfig.
func NewDefault() (*Chain, error) {
	return NewWithConfig(genesis.DevConfig())
}

// NewWithConfig creates a Chain over an in-memory store. The clock starts at
// the configured launch time and only moves when Advance is called.
func NewWithConfig(cfg *genesis.Config) (*Chain, error) {
	gen, err := genesis.New(cfg)
	if err != nil {
		return nil, err
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	c := &Chain{genesis: gen}
	c.clock.Store(gen.LaunchTime())
	c.Chain, err = chain.New(db, gen, chain.WithClock(c.clock.Load))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chain) Genesis() *genesis.Genesis { return c.genesis }

// Now returns the time the next block will carry.
func (c *Chain) Now() uint64 { return c.clock.Load() }

// Advance moves the clock forward by the given number of periods.
func (c *Chain) Advance(periods uint64) {
	c.clock.Add(periods * thor.PeriodLength)
}

// State returns a snapshot of the latest committed state.
func (c *Chain) State() *state.State {
	var snapshot *state.State
	_ = c.View(func(st *state.State, _ uint64) error {
		snapshot = st
		return nil
	})
	return snapshot
}

// MintClauses executes clauses as a new block and fails if any clause reverts.
func (c *Chain) MintClauses(account genesis.DevAccount, clauses []*tx.Clause) (*chain.Receipt, error) {
	receipt, err := c.Execute(account.Address, clauses)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		last := receipt.Outputs[len(receipt.Outputs)-1]
		return receipt, fmt.Errorf("clause #%d reverted: %s", len(receipt.Outputs)-1, last.RevertReason)
	}
	return receipt, nil
}

// BindNode binds nodeID to the beneficiary using a signature of the dev manager.
func (c *Chain) BindNode(beneficiary genesis.DevAccount, nodeID, nonce string) error {
	manager := genesis.DevAccounts()[1]
	hash := sigauth.BindDigest(c.ChainID(), beneficiary.Address, nodeID, nonce)
	sig, err := sigauth.Sign(hash, manager.PrivateKey)
	if err != nil {
		return err
	}
	return c.NodeStake(beneficiary).MintTransaction("bindNode", nil, nodeID, beneficiary.Address, nonce, sig)
}

func (c *Chain) NodeStake(acc genesis.DevAccount) *Contract {
	return NewContract(c, acc, builtin.NodeStake.Address, builtin.NodeStake.ABI)
}

func (c *Chain) Token(acc genesis.DevAccount) *Contract {
	return NewContract(c, acc, builtin.Token.Address, builtin.Token.ABI)
}

func (c *Chain) MultiSig(acc genesis.DevAccount) *Contract {
	return NewContract(c, acc, builtin.MultiSig.Address, builtin.MultiSig.ABI)
}
