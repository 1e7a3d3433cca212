// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multisig implements owner voting over owner set changes and over
// arbitrary calls made by the contract.
package multisig

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	logger = log.WithContext("pkg", "multisig")

	slotOwners          = thor.SlotOf("owners")
	slotRequired        = thor.SlotOf("required")
	slotProposals       = thor.SlotOf("proposals")
	slotProposalConfirm = thor.SlotOf("proposal-confirmations")
	slotTxs             = thor.SlotOf("transactions")
	slotTxConfirm       = thor.SlotOf("transaction-confirmations")
)

// Caller performs an executed transaction on behalf of the multisig contract.
type Caller interface {
	CallContract(to thor.Address, value *big.Int, data []byte) ([]byte, error)
}

// MultiSig implements native methods of the `MultiSig` contract.
type MultiSig struct {
	addr             thor.Address
	owners           *solidity.Raw[[]thor.Address]
	required         *solidity.Raw[uint64]
	proposals        *solidity.Array[*Proposal]
	proposalConfirms *solidity.Mapping[solidity.BytesKey, bool]
	txs              *solidity.Array[*Transaction]
	txConfirms       *solidity.Mapping[solidity.BytesKey, bool]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *MultiSig {
	sctx := solidity.NewContext(addr, state)
	return &MultiSig{
		addr:             addr,
		owners:           solidity.NewRaw[[]thor.Address](sctx, slotOwners),
		required:         solidity.NewRaw[uint64](sctx, slotRequired),
		proposals:        solidity.NewArray[*Proposal](sctx, slotProposals),
		proposalConfirms: solidity.NewMapping[solidity.BytesKey, bool](sctx, slotProposalConfirm),
		txs:              solidity.NewArray[*Transaction](sctx, slotTxs),
		txConfirms:       solidity.NewMapping[solidity.BytesKey, bool](sctx, slotTxConfirm),
	}
}

func (m *MultiSig) Address() thor.Address { return m.addr }

// Initialize sets the initial owner set at genesis.
func (m *MultiSig) Initialize(owners []thor.Address, required uint64) error {
	if len(owners) < thor.MinOwnerCount {
		return errors.Errorf("multisig: at least %d owners required", thor.MinOwnerCount)
	}
	seen := make(map[thor.Address]bool, len(owners))
	for _, o := range owners {
		if o.IsZero() || seen[o] {
			return errors.Errorf("multisig: invalid owner %v", o)
		}
		seen[o] = true
	}
	if required == 0 || required > uint64(len(owners)) {
		return errors.Errorf("multisig: required %d out of range", required)
	}
	if err := m.owners.Set(owners); err != nil {
		return err
	}
	return m.required.Set(required)
}

// GetOwners returns the live owner set in insertion order.
func (m *MultiSig) GetOwners() ([]thor.Address, error) {
	return m.owners.Get()
}

func (m *MultiSig) IsOwner(addr thor.Address) (bool, error) {
	owners, err := m.owners.Get()
	if err != nil {
		return false, err
	}
	return indexOf(owners, addr) >= 0, nil
}

func (m *MultiSig) Required() (uint64, error) { return m.required.Get() }

// GetThreshold is the number of confirmations an execution needs: the
// configured minimum or a strict majority of owners, whichever is larger,
// never more than the owner count.
func (m *MultiSig) GetThreshold() (uint64, error) {
	owners, err := m.owners.Get()
	if err != nil {
		return 0, err
	}
	required, err := m.required.Get()
	if err != nil {
		return 0, err
	}
	return threshold(required, len(owners)), nil
}

func threshold(required uint64, owners int) uint64 {
	n := uint64(owners)
	t := max(required, n/2+1)
	return min(t, n)
}

func indexOf(owners []thor.Address, addr thor.Address) int {
	for i, o := range owners {
		if o == addr {
			return i
		}
	}
	return -1
}

func (m *MultiSig) requireOwner(caller thor.Address) error {
	ok, err := m.IsOwner(caller)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.NewAuthorization("not owner")
	}
	return nil
}

func confirmKey(id uint64, owner thor.Address) solidity.BytesKey {
	return solidity.Join(solidity.Uint64Key(id), owner)
}

// liveConfirmations counts confirmations held by current owners only.
func (m *MultiSig) liveConfirmations(confirms *solidity.Mapping[solidity.BytesKey, bool], id uint64) (uint64, error) {
	owners, err := m.owners.Get()
	if err != nil {
		return 0, err
	}
	var n uint64
	for _, o := range owners {
		ok, err := confirms.Get(confirmKey(id, o))
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// dropConfirmations clears what a removed owner confirmed on pending
// proposals and transactions, so re-adding the owner starts from nothing.
func (m *MultiSig) dropConfirmations(owner thor.Address) error {
	proposals, err := m.proposals.All()
	if err != nil {
		return err
	}
	for id, p := range proposals {
		key := confirmKey(uint64(id), owner)
		ok, err := m.proposalConfirms.Get(key)
		if err != nil {
			return err
		}
		if p.Executed || !ok {
			continue
		}
		m.proposalConfirms.Delete(key)
		p.NumConfirmations--
		if err := m.proposals.Set(uint64(id), p); err != nil {
			return err
		}
	}

	txs, err := m.txs.All()
	if err != nil {
		return err
	}
	for id, tx := range txs {
		key := confirmKey(uint64(id), owner)
		ok, err := m.txConfirms.Get(key)
		if err != nil {
			return err
		}
		if tx.Executed || !ok {
			continue
		}
		m.txConfirms.Delete(key)
		tx.NumConfirmations--
		if err := m.txs.Set(uint64(id), tx); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSig) canExecute(confirms *solidity.Mapping[solidity.BytesKey, bool], id uint64) (bool, error) {
	n, err := m.liveConfirmations(confirms, id)
	if err != nil {
		return false, err
	}
	t, err := m.GetThreshold()
	if err != nil {
		return false, err
	}
	return n >= t, nil
}
