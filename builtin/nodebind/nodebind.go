// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package nodebind maps node ids to the beneficiary address entitled to act for them.
package nodebind

import (
	"math/big"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/thor"
)

var (
	logger = log.WithContext("pkg", "nodebind")

	slotBeneficiaries = thor.SlotOf("node-beneficiaries")
	slotNodes         = thor.SlotOf("beneficiary-nodes")
	slotListed        = thor.SlotOf("beneficiary-listed")
)

// Registry keeps node bindings in the storage of the contract that embeds it.
// Bind signatures are issued by the holder of the signer role.
type Registry struct {
	ctx           *solidity.Context
	beneficiaries *solidity.Mapping[solidity.StringKey, thor.Address]
	listed        *solidity.Mapping[solidity.BytesKey, bool]
	nonces        *sigauth.Authority
	signer        *ownable.Role
}

// New creates a registry. The signer role authorizes binds and may revoke bind nonces.
func New(ctx *solidity.Context, signer *ownable.Role) *Registry {
	return &Registry{
		ctx:           ctx,
		beneficiaries: solidity.NewMapping[solidity.StringKey, thor.Address](ctx, slotBeneficiaries),
		listed:        solidity.NewMapping[solidity.BytesKey, bool](ctx, slotListed),
		nonces:        sigauth.New(ctx, sigauth.PurposeBind),
		signer:        signer,
	}
}

func (r *Registry) nodes(beneficiary thor.Address) *solidity.Array[string] {
	return solidity.NewArray[string](r.ctx, thor.Blake2b(slotNodes.Bytes(), beneficiary.Bytes()))
}

// BeneficiaryOf returns the current beneficiary of the node, zero if never bound.
func (r *Registry) BeneficiaryOf(nodeID string) (thor.Address, error) {
	return r.beneficiaries.Get(solidity.StringKey(nodeID))
}

// RequireBeneficiary fails with message unless nodeID is bound to caller.
func (r *Registry) RequireBeneficiary(nodeID string, caller thor.Address, message string) error {
	current, err := r.BeneficiaryOf(nodeID)
	if err != nil {
		return err
	}
	if current.IsZero() || current != caller {
		return reverts.NewAuthorization(message)
	}
	return nil
}

// NodesOf returns the ids of nodes currently bound to beneficiary, in first-bind order.
func (r *Registry) NodesOf(beneficiary thor.Address) ([]string, error) {
	all, err := r.nodes(beneficiary).All()
	if err != nil {
		return nil, err
	}
	bound := make([]string, 0, len(all))
	for _, id := range all {
		current, err := r.BeneficiaryOf(id)
		if err != nil {
			return nil, err
		}
		if current == beneficiary {
			bound = append(bound, id)
		}
	}
	return bound, nil
}

// IsNonceConsumed reports whether a bind nonce was used or revoked.
func (r *Registry) IsNonceConsumed(nonce string) (bool, error) {
	return r.nonces.IsConsumed(nonce)
}

// Bind binds nodeID to beneficiary using a signature of the signer role over
// BindDigest(chainID, caller, nodeID, nonce). An already bound node may only be
// bound again by its current beneficiary; moving it elsewhere is Rebind.
func (r *Registry) Bind(chainID *big.Int, caller thor.Address, nodeID string, beneficiary thor.Address, nonce string, sig []byte) error {
	if nodeID == "" {
		return reverts.New("bindNode: nodeId not good")
	}
	signer, err := r.signer.Get()
	if err != nil {
		return err
	}
	hash := sigauth.BindDigest(chainID, caller, nodeID, nonce)
	if err := r.nonces.Check(hash, nonce, sig, signer, "signature validation failed"); err != nil {
		return err
	}
	if caller != beneficiary {
		return reverts.NewAuthorization("bindNode: caller is not beneficiary")
	}
	current, err := r.BeneficiaryOf(nodeID)
	if err != nil {
		return err
	}
	if !current.IsZero() && current != caller {
		return reverts.NewAuthorization("bindNode: caller is not beneficiary")
	}
	if err := r.nonces.Consume(nonce); err != nil {
		return err
	}
	if err := r.assign(nodeID, beneficiary); err != nil {
		return err
	}
	logger.Debug("node bound", "node", nodeID, "beneficiary", beneficiary)
	return nil
}

// Rebind moves nodeID from its current beneficiary (the caller) to next.
func (r *Registry) Rebind(caller thor.Address, nodeID string, next thor.Address) error {
	if err := r.RequireBeneficiary(nodeID, caller, "caller is not beneficiary"); err != nil {
		return err
	}
	if next.IsZero() {
		return reverts.New("rebind: beneficiary not good")
	}
	if err := r.assign(nodeID, next); err != nil {
		return err
	}
	logger.Debug("node rebound", "node", nodeID, "from", caller, "to", next)
	return nil
}

// Revoke lets the signer role cancel a bind authorization it issued.
func (r *Registry) Revoke(caller thor.Address, nonce string) error {
	if err := r.signer.Require(caller); err != nil {
		return err
	}
	return r.nonces.Consume(nonce)
}

func (r *Registry) assign(nodeID string, beneficiary thor.Address) error {
	if err := r.beneficiaries.Set(solidity.StringKey(nodeID), beneficiary); err != nil {
		return err
	}
	key := solidity.Join(solidity.BytesKey(beneficiary.Bytes()), solidity.StringKey(nodeID))
	listed, err := r.listed.Get(key)
	if err != nil {
		return err
	}
	if listed {
		return nil
	}
	if _, err := r.nodes(beneficiary).Append(nodeID); err != nil {
		return err
	}
	return r.listed.Set(key, true)
}
