// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package executor

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	chainID = big.NewInt(42161)
	owner   = thor.BytesToAddress([]byte("owner"))
	target  = thor.BytesToAddress([]byte("NodeStake"))
	payload = []byte{0xde, 0xad, 0xbe, 0xef}
)

type call struct {
	to    thor.Address
	value *big.Int
	data  []byte
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) CallContract(to thor.Address, value *big.Int, data []byte) ([]byte, error) {
	r.calls = append(r.calls, call{to, value, data})
	if r.err != nil {
		return nil, r.err
	}
	return []byte{1}, nil
}

type fixture struct {
	executor *Executor
	state    *state.State
	keys     []*ecdsa.PrivateKey
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	f := &fixture{executor: New(thor.BytesToAddress([]byte("Executor")), st), state: st}
	signers := make([]thor.Address, SignerCount)
	for i := range signers {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		f.keys = append(f.keys, key)
		signers[i] = thor.Address(crypto.PubkeyToAddress(key.PublicKey))
	}
	require.NoError(t, f.executor.Initialize(owner, signers))
	return f
}

func (f *fixture) sigs(t *testing.T, value *big.Int, data []byte, nonce string) [][]byte {
	hash := sigauth.ExecuteDigest(chainID, target, value, data, nonce)
	out := make([][]byte, 0, SignerCount)
	for _, key := range f.keys {
		sig, err := sigauth.Sign(hash, key)
		require.NoError(t, err)
		out = append(out, sig)
	}
	return out
}

func TestExecute(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	value := big.NewInt(5)

	out, err := f.executor.Execute(chainID, target, value, payload, "e001", f.sigs(t, value, payload, "e001"), rec)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, out)
	require.Len(t, rec.calls, 1)
	assert.Equal(t, call{target, value, payload}, rec.calls[0])

	executed, err := f.executor.IsExecuted("e001")
	require.NoError(t, err)
	assert.True(t, executed)
	count, err := f.executor.ExecutedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	_, err = f.executor.Execute(chainID, target, value, payload, "e001", f.sigs(t, value, payload, "e001"), rec)
	assert.EqualError(t, err, "tx already executed")
	assert.Equal(t, reverts.Replay, reverts.KindOf(err))
	assert.Len(t, rec.calls, 1)
}

func TestExecuteNamesFailingSlot(t *testing.T) {
	f := newFixture(t)
	rec := &recorder{}
	value := new(big.Int)

	for slot, want := range []string{
		"executeTransaction: signatureA validation failed",
		"executeTransaction: signatureB validation failed",
		"executeTransaction: signatureC validation failed",
	} {
		sigs := f.sigs(t, value, payload, "e002")
		sigs[slot] = f.sigs(t, value, payload, "other")[slot]
		_, err := f.executor.Execute(chainID, target, value, payload, "e002", sigs, rec)
		assert.EqualError(t, err, want)
	}

	// a valid set for a different payload
	_, err := f.executor.Execute(chainID, target, value, []byte{1}, "e002", f.sigs(t, value, payload, "e002"), rec)
	assert.EqualError(t, err, "executeTransaction: signatureA validation failed")

	_, err = f.executor.Execute(chainID, target, value, payload, "e002", nil, rec)
	assert.EqualError(t, err, "executeTransaction: signature validation failed")

	assert.Empty(t, rec.calls)
	executed, err := f.executor.IsExecuted("e002")
	require.NoError(t, err)
	assert.False(t, executed)
}

func TestExecuteInnerFailure(t *testing.T) {
	f := newFixture(t)
	value := new(big.Int)

	rec := &recorder{err: reverts.New("caller is not the owner")}
	_, err := f.executor.Execute(chainID, target, value, payload, "e003", f.sigs(t, value, payload, "e003"), rec)
	assert.EqualError(t, err, "executeTransaction: tx failed: caller is not the owner")
	assert.True(t, reverts.IsRevertErr(err))

	infra := errors.New("disk failure")
	rec = &recorder{err: infra}
	_, err = f.executor.Execute(chainID, target, value, payload, "e004", f.sigs(t, value, payload, "e004"), rec)
	assert.Equal(t, infra, err)
}

func TestSetSigner(t *testing.T) {
	f := newFixture(t)
	next := thor.BytesToAddress([]byte("next"))

	assert.EqualError(t, f.executor.SetSigner(next, 1, next), "caller is not the owner")
	assert.EqualError(t, f.executor.SetSigner(owner, -1, next), "setSigner: slot not good")
	assert.EqualError(t, f.executor.SetSigner(owner, 1, thor.Address{}), "setSigner: signer not good")
	require.NoError(t, f.executor.SetSigner(owner, 1, next))

	signers, err := f.executor.Signers()
	require.NoError(t, err)
	assert.Equal(t, next, signers[1])

	multisig := thor.BytesToAddress([]byte("MultiSig"))
	_, err = f.executor.TransferOwnership(owner, multisig)
	require.NoError(t, err)
	assert.EqualError(t, f.executor.SetSigner(owner, 1, owner), "caller is not the owner")
	require.NoError(t, f.executor.SetSigner(multisig, 1, owner))
}
