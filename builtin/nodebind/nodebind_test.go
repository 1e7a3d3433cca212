// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nodebind

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

const nodeID = "16Uiu2HAm2xsgciiJfwP8E1o8ckAw4QJAgG4wsjXqCBgdZVVVLAZU"

var (
	chainID = big.NewInt(42161)
	staker1 = thor.BytesToAddress([]byte("staker1"))
	staker2 = thor.BytesToAddress([]byte("staker2"))
)

type fixture struct {
	registry   *Registry
	managerKey *ecdsa.PrivateKey
	manager    thor.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := solidity.NewContext(thor.BytesToAddress([]byte("NodeStake")), state.New(db))
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	manager := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	role := ownable.NewManager(ctx)
	role.Set(manager)
	return &fixture{New(ctx, role), key, manager}
}

func (f *fixture) sign(t *testing.T, caller thor.Address, node, nonce string) []byte {
	sig, err := sigauth.Sign(sigauth.BindDigest(chainID, caller, node, nonce), f.managerKey)
	require.NoError(t, err)
	return sig
}

func TestBind(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.registry.Bind(chainID, staker1, nodeID, staker1, "a01231", f.sign(t, staker1, nodeID, "a01231")))
	got, err := f.registry.BeneficiaryOf(nodeID)
	require.NoError(t, err)
	assert.Equal(t, staker1, got)

	// nonce reuse
	err = f.registry.Bind(chainID, staker1, nodeID, staker1, "a01231", f.sign(t, staker1, nodeID, "a01231"))
	assert.EqualError(t, err, "signature validation failed")
	assert.Equal(t, reverts.Replay, reverts.KindOf(err))

	// signed for another nonce
	err = f.registry.Bind(chainID, staker2, nodeID, staker2, "a01231", f.sign(t, staker2, nodeID, "a01232"))
	assert.EqualError(t, err, "signature validation failed")

	// valid signature, but the node belongs to staker1
	err = f.registry.Bind(chainID, staker2, nodeID, staker2, "a01232", f.sign(t, staker2, nodeID, "a01232"))
	assert.EqualError(t, err, "bindNode: caller is not beneficiary")
	used, err := f.registry.IsNonceConsumed("a01232")
	require.NoError(t, err)
	assert.False(t, used)

	// caller binding for someone else
	err = f.registry.Bind(chainID, staker2, "node-2", staker1, "a01233", f.sign(t, staker2, "node-2", "a01233"))
	assert.EqualError(t, err, "bindNode: caller is not beneficiary")

	// another chain
	err = f.registry.Bind(big.NewInt(1), staker2, "node-2", staker2, "a01234", f.sign(t, staker2, "node-2", "a01234"))
	assert.EqualError(t, err, "signature validation failed")

	err = f.registry.Bind(chainID, staker2, "", staker2, "a01235", f.sign(t, staker2, "", "a01235"))
	assert.EqualError(t, err, "bindNode: nodeId not good")
}

func TestRebind(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.registry.Bind(chainID, staker1, nodeID, staker1, "n1", f.sign(t, staker1, nodeID, "n1")))
	require.NoError(t, f.registry.Bind(chainID, staker1, "node-2", staker1, "n2", f.sign(t, staker1, "node-2", "n2")))

	nodes, err := f.registry.NodesOf(staker1)
	require.NoError(t, err)
	assert.Equal(t, []string{nodeID, "node-2"}, nodes)

	err = f.registry.Rebind(staker2, nodeID, staker2)
	assert.EqualError(t, err, "caller is not beneficiary")
	assert.Equal(t, reverts.Authorization, reverts.KindOf(err))

	assert.Error(t, f.registry.Rebind(staker1, nodeID, thor.Address{}))

	require.NoError(t, f.registry.Rebind(staker1, nodeID, staker2))
	got, err := f.registry.BeneficiaryOf(nodeID)
	require.NoError(t, err)
	assert.Equal(t, staker2, got)

	assert.NoError(t, f.registry.RequireBeneficiary(nodeID, staker2, "x"))
	assert.EqualError(t, f.registry.RequireBeneficiary(nodeID, staker1, "x"), "x")
	assert.EqualError(t, f.registry.RequireBeneficiary("unknown", thor.Address{}, "x"), "x")

	nodes, err = f.registry.NodesOf(staker1)
	require.NoError(t, err)
	assert.Equal(t, []string{"node-2"}, nodes)
	nodes, err = f.registry.NodesOf(staker2)
	require.NoError(t, err)
	assert.Equal(t, []string{nodeID}, nodes)

	// moving back does not duplicate the listing
	require.NoError(t, f.registry.Rebind(staker2, nodeID, staker1))
	nodes, err = f.registry.NodesOf(staker1)
	require.NoError(t, err)
	assert.Equal(t, []string{nodeID, "node-2"}, nodes)
}

func TestRevoke(t *testing.T) {
	f := newFixture(t)

	err := f.registry.Revoke(staker1, "n1")
	assert.EqualError(t, err, "caller is not the manager")

	require.NoError(t, f.registry.Revoke(f.manager, "n1"))
	err = f.registry.Bind(chainID, staker1, nodeID, staker1, "n1", f.sign(t, staker1, nodeID, "n1"))
	assert.EqualError(t, err, "signature validation failed")

	_, err = f.registry.BeneficiaryOf(nodeID)
	require.NoError(t, err)
}
