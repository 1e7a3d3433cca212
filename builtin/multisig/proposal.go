// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"errors"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/thor"
)

// ProposalKind is the owner set change a proposal makes.
type ProposalKind uint8

const (
	AddOwner ProposalKind = iota
	RemoveOwner
)

func (k ProposalKind) String() string {
	switch k {
	case AddOwner:
		return "AddOwner"
	case RemoveOwner:
		return "RemoveOwner"
	default:
		return "Unknown"
	}
}

// Proposal is a pending or executed owner set change.
type Proposal struct {
	Owner            thor.Address
	Kind             ProposalKind
	ProposedTime     uint64
	Executed         bool
	NumConfirmations uint64
}

func (m *MultiSig) GetProposalCount() (uint64, error) {
	return m.proposals.Len()
}

func (m *MultiSig) GetProposal(id uint64) (*Proposal, error) {
	p, err := m.proposals.Get(id)
	if errors.Is(err, solidity.ErrIndexOutOfRange) {
		return nil, reverts.New("proposal does not exist")
	}
	return p, err
}

func (m *MultiSig) IsProposalConfirmed(id uint64, owner thor.Address) (bool, error) {
	return m.proposalConfirms.Get(confirmKey(id, owner))
}

func (m *MultiSig) requireChangeAllowed(candidate thor.Address, kind ProposalKind) error {
	owners, err := m.owners.Get()
	if err != nil {
		return err
	}
	switch kind {
	case AddOwner:
		if candidate.IsZero() {
			return reverts.New("invalid owner")
		}
		if indexOf(owners, candidate) >= 0 {
			return reverts.New("already a owner")
		}
	case RemoveOwner:
		if indexOf(owners, candidate) < 0 {
			return reverts.New("not a owner")
		}
		if len(owners)-1 < thor.MinOwnerCount {
			return reverts.New("the number of owner is too small")
		}
	default:
		return reverts.New("invalid proposal type")
	}
	return nil
}

// ProposeOwner opens a proposal to add or remove candidate and returns its id.
func (m *MultiSig) ProposeOwner(caller, candidate thor.Address, kind ProposalKind, now uint64) (uint64, error) {
	if err := m.requireOwner(caller); err != nil {
		return 0, err
	}
	if err := m.requireChangeAllowed(candidate, kind); err != nil {
		return 0, err
	}
	id, err := m.proposals.Append(&Proposal{
		Owner:        candidate,
		Kind:         kind,
		ProposedTime: now,
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("owner proposed", "id", id, "kind", kind, "candidate", candidate)
	return id, nil
}

// pendingProposal loads a proposal that exists and was not executed.
func (m *MultiSig) pendingProposal(caller thor.Address, id uint64) (*Proposal, error) {
	if err := m.requireOwner(caller); err != nil {
		return nil, err
	}
	p, err := m.GetProposal(id)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, reverts.NewReplay("proposal already executed")
	}
	return p, nil
}

func (m *MultiSig) ConfirmProposal(caller thor.Address, id uint64) error {
	p, err := m.pendingProposal(caller, id)
	if err != nil {
		return err
	}
	confirmed, err := m.IsProposalConfirmed(id, caller)
	if err != nil {
		return err
	}
	if confirmed {
		return reverts.NewReplay("proposal already confirmed")
	}
	if err := m.proposalConfirms.Set(confirmKey(id, caller), true); err != nil {
		return err
	}
	p.NumConfirmations++
	return m.proposals.Set(id, p)
}

// RevokeProposal withdraws the caller's own confirmation.
func (m *MultiSig) RevokeProposal(caller thor.Address, id uint64) error {
	p, err := m.pendingProposal(caller, id)
	if err != nil {
		return err
	}
	confirmed, err := m.IsProposalConfirmed(id, caller)
	if err != nil {
		return err
	}
	if !confirmed {
		return reverts.New("proposal not confirmed")
	}
	m.proposalConfirms.Delete(confirmKey(id, caller))
	p.NumConfirmations--
	return m.proposals.Set(id, p)
}

// ExecuteProposal applies a proposal that reached the threshold. The change is
// validated again against the current owner set.
func (m *MultiSig) ExecuteProposal(caller thor.Address, id uint64) error {
	p, err := m.pendingProposal(caller, id)
	if err != nil {
		return err
	}
	ok, err := m.canExecute(m.proposalConfirms, id)
	if err != nil {
		return err
	}
	if !ok {
		return reverts.NewAuthorization("cannot execute proposal")
	}
	if err := m.requireChangeAllowed(p.Owner, p.Kind); err != nil {
		return err
	}

	owners, err := m.owners.Get()
	if err != nil {
		return err
	}
	if p.Kind == AddOwner {
		owners = append(owners, p.Owner)
	} else {
		i := indexOf(owners, p.Owner)
		owners = append(owners[:i], owners[i+1:]...)
	}
	if err := m.owners.Set(owners); err != nil {
		return err
	}
	p.Executed = true
	if err := m.proposals.Set(id, p); err != nil {
		return err
	}
	if p.Kind == RemoveOwner {
		if err := m.dropConfirmations(p.Owner); err != nil {
			return err
		}
	}
	logger.Info("owner set changed", "id", id, "kind", p.Kind, "owner", p.Owner, "owners", len(owners))
	return nil
}
