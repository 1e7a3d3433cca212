// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claim

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

const nodeID = "16Uiu2HAmKS1Sfixq3i6Pt1rqXhSsAvv5EML8C2AL3Y8WK7BamKhT"

var (
	chainID = big.NewInt(42161)
	owner   = thor.BytesToAddress([]byte("owner"))
	manager = thor.BytesToAddress([]byte("manager"))
	staker1 = thor.BytesToAddress([]byte("staker1"))
	staker2 = thor.BytesToAddress([]byte("staker2"))
	oneEth  = new(big.Int).Set(thor.Ether)
)

type registry map[string]thor.Address

func (r registry) BeneficiaryOf(nodeID string) (thor.Address, error) { return r[nodeID], nil }

type pool struct {
	balance *big.Int
	paid    map[thor.Address]*big.Int
}

func (p *pool) Push(to thor.Address, amount *big.Int) error {
	p.balance.Sub(p.balance, amount)
	if p.paid[to] == nil {
		p.paid[to] = new(big.Int)
	}
	p.paid[to].Add(p.paid[to], amount)
	return nil
}

func (p *pool) Balance() (*big.Int, error) { return new(big.Int).Set(p.balance), nil }

type fixture struct {
	claim    *Claim
	keys     []*ecdsa.PrivateKey
	registry registry
	pool     *pool
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		claim:    New(thor.BytesToAddress([]byte("SignedClaim")), state.New(db)),
		registry: registry{nodeID: staker1},
		pool: &pool{
			balance: new(big.Int).Mul(big.NewInt(100), thor.Ether),
			paid:    map[thor.Address]*big.Int{},
		},
	}
	signers := make([]thor.Address, SignerCount)
	for i := range signers {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		f.keys = append(f.keys, key)
		signers[i] = thor.Address(crypto.PubkeyToAddress(key.PublicKey))
	}
	require.NoError(t, f.claim.Initialize(owner, manager, thor.Address{}, signers, DefaultRequired))
	return f
}

func (f *fixture) sign(t *testing.T, slot int, amount *big.Int, beneficiary thor.Address, node, nonce string) []byte {
	sig, err := sigauth.Sign(sigauth.ClaimDigest(chainID, amount, node, beneficiary, nonce), f.keys[slot])
	require.NoError(t, err)
	return sig
}

func (f *fixture) claimWith(amount *big.Int, beneficiary thor.Address, node, nonce string, sigs ...[]byte) error {
	return f.claim.ClaimWithSignature(chainID, amount, beneficiary, node, nonce, sigs, f.registry, f.pool)
}

func TestClaimWithSignature(t *testing.T) {
	f := newFixture(t)
	fifty := new(big.Int).Mul(big.NewInt(50), thor.Ether)

	err := f.claimWith(fifty, staker1, nodeID, "c0001",
		f.sign(t, 0, new(big.Int).Mul(big.NewInt(10), thor.Ether), staker1, nodeID, "c0001"),
		f.sign(t, 1, fifty, staker1, nodeID, "c0001"),
		f.sign(t, 2, fifty, staker1, nodeID, "c0001"))
	assert.EqualError(t, err, "verifyClaimSigner: signatureA validation failed")
	assert.Equal(t, reverts.Authorization, reverts.KindOf(err))

	err = f.claimWith(fifty, staker1, nodeID, "c0001",
		f.sign(t, 0, fifty, staker1, nodeID, "c0001"),
		f.sign(t, 1, fifty, staker1, nodeID, "c0000"),
		f.sign(t, 2, fifty, staker1, nodeID, "c0001"))
	assert.EqualError(t, err, "verifyClaimSigner: signatureB validation failed")

	err = f.claimWith(fifty, staker1, nodeID, "c0001",
		f.sign(t, 0, fifty, staker1, nodeID, "c0001"),
		f.sign(t, 1, fifty, staker1, nodeID, "c0001"),
		f.sign(t, 2, fifty, staker1, nodeID, "c0000"))
	assert.EqualError(t, err, "verifyClaimSigner: signatureC validation failed")
	assert.Empty(t, f.pool.paid)

	err = f.claimWith(oneEth, staker2, nodeID, "c0002",
		f.sign(t, 0, oneEth, staker2, nodeID, "c0002"),
		f.sign(t, 1, oneEth, staker2, nodeID, "c0002"),
		f.sign(t, 2, oneEth, staker2, nodeID, "c0002"))
	assert.EqualError(t, err, "verifyClaimSigner: _beneficiary not good")

	otherNode := nodeID[:len(nodeID)-1] + "B"
	err = f.claimWith(oneEth, staker1, otherNode, "c0002",
		f.sign(t, 0, oneEth, staker1, otherNode, "c0002"),
		f.sign(t, 1, oneEth, staker1, otherNode, "c0002"),
		f.sign(t, 2, oneEth, staker1, otherNode, "c0002"))
	assert.EqualError(t, err, "verifyClaimSigner: _beneficiary not good")

	require.NoError(t, f.claimWith(oneEth, staker1, nodeID, "c0002",
		f.sign(t, 0, oneEth, staker1, nodeID, "c0002"),
		f.sign(t, 1, oneEth, staker1, nodeID, "c0002"),
		f.sign(t, 2, oneEth, staker1, nodeID, "c0002")))
	assert.Equal(t, oneEth, f.pool.paid[staker1])

	claimed, err := f.claim.Claimed()
	require.NoError(t, err)
	assert.Equal(t, oneEth, claimed)

	// replay
	err = f.claimWith(oneEth, staker1, nodeID, "c0002",
		f.sign(t, 0, oneEth, staker1, nodeID, "c0002"),
		f.sign(t, 1, oneEth, staker1, nodeID, "c0002"),
		f.sign(t, 2, oneEth, staker1, nodeID, "c0002"))
	assert.EqualError(t, err, "verifyClaimSigner: signature validation failed")
	assert.Equal(t, reverts.Replay, reverts.KindOf(err))
	assert.Equal(t, oneEth, f.pool.paid[staker1])
}

func TestClaimThreshold(t *testing.T) {
	f := newFixture(t)

	// two of three slots are enough
	require.NoError(t, f.claimWith(oneEth, staker1, nodeID, "t1",
		f.sign(t, 0, oneEth, staker1, nodeID, "t1"),
		nil,
		f.sign(t, 2, oneEth, staker1, nodeID, "t1")))

	err := f.claimWith(oneEth, staker1, nodeID, "t2",
		nil,
		f.sign(t, 1, oneEth, staker1, nodeID, "t2"),
		nil)
	assert.EqualError(t, err, "verifyClaimSigner: signature validation failed")

	require.NoError(t, f.claim.SetRequired(owner, 3))
	err = f.claimWith(oneEth, staker1, nodeID, "t3",
		f.sign(t, 0, oneEth, staker1, nodeID, "t3"),
		f.sign(t, 1, oneEth, staker1, nodeID, "t3"),
		nil)
	assert.EqualError(t, err, "verifyClaimSigner: signature validation failed")
}

func TestClaimGuards(t *testing.T) {
	f := newFixture(t)
	sigs := func(amount *big.Int, nonce string) [][]byte {
		return [][]byte{
			f.sign(t, 0, amount, staker1, nodeID, nonce),
			f.sign(t, 1, amount, staker1, nodeID, nonce),
			nil,
		}
	}

	assert.EqualError(t, f.claim.SetCanClaim(staker1, false), "caller is not the owner")
	require.NoError(t, f.claim.SetCanClaim(owner, false))
	err := f.claimWith(oneEth, staker1, nodeID, "g1", sigs(oneEth, "g1")...)
	assert.EqualError(t, err, "claim stop")
	require.NoError(t, f.claim.SetCanClaim(owner, true))

	tooMuch := new(big.Int).Mul(big.NewInt(101), thor.Ether)
	err = f.claimWith(tooMuch, staker1, nodeID, "g1", sigs(tooMuch, "g1")...)
	assert.EqualError(t, err, "claim: balance is not enough")
	assert.Equal(t, reverts.InsufficientFunds, reverts.KindOf(err))

	assert.EqualError(t, f.claim.Revoke(owner, "g1"), "caller is not the manager")
	require.NoError(t, f.claim.Revoke(manager, "g1"))
	err = f.claimWith(oneEth, staker1, nodeID, "g1", sigs(oneEth, "g1")...)
	assert.Equal(t, reverts.Replay, reverts.KindOf(err))
}

func TestClaimSigners(t *testing.T) {
	f := newFixture(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	next := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	assert.EqualError(t, f.claim.SetSigner(staker1, 0, next), "caller is not the owner")
	assert.EqualError(t, f.claim.SetSigner(owner, 3, next), "setSigner: slot not good")
	assert.EqualError(t, f.claim.SetSigner(owner, 0, thor.Address{}), "setSigner: signer not good")
	require.NoError(t, f.claim.SetSigner(owner, 0, next))

	signers, err := f.claim.Signers()
	require.NoError(t, err)
	assert.Equal(t, next, signers[0])

	// the rotated out key no longer counts
	err = f.claimWith(oneEth, staker1, nodeID, "s1",
		f.sign(t, 0, oneEth, staker1, nodeID, "s1"),
		f.sign(t, 1, oneEth, staker1, nodeID, "s1"),
		nil)
	assert.EqualError(t, err, "verifyClaimSigner: signatureA validation failed")

	f.keys[0] = key
	require.NoError(t, f.claimWith(oneEth, staker1, nodeID, "s1",
		f.sign(t, 0, oneEth, staker1, nodeID, "s1"),
		f.sign(t, 1, oneEth, staker1, nodeID, "s1"),
		nil))

	assert.EqualError(t, f.claim.SetManager(owner, thor.Address{}), "setManager: manager not good")
	prev, err := f.claim.TransferOwnership(owner, staker2)
	require.NoError(t, err)
	assert.Equal(t, owner, prev)
}
