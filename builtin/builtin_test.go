// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/abi"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/runtime"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
	"github.com/vechain/nodestake/xenv"
)

const (
	t0     uint64 = 1_700_000_000
	nodeID        = "node-1"
)

var (
	owner   = thor.BytesToAddress([]byte("owner"))
	staker  = thor.BytesToAddress([]byte("staker"))
	other   = thor.BytesToAddress([]byte("other"))
	carol   = thor.BytesToAddress([]byte("carol"))
	chainID = new(big.Int).SetUint64(thor.DefaultChainID)
)

type testChain struct {
	t       *testing.T
	st      *state.State
	rt      *runtime.Runtime
	manager *ecdsa.PrivateKey
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func addrOf(key *ecdsa.PrivateKey) thor.Address {
	return thor.Address(crypto.PubkeyToAddress(key.PublicKey))
}

// newTestChain initializes NodeStake with the given token and funds owner and staker.
func newTestChain(t *testing.T, token thor.Address) *testChain {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	st := state.New(db)
	manager := newKey(t)

	limits := staking.Limits{Min: big.NewInt(1), Max: new(big.Int)}
	require.NoError(t, builtin.NodeStake.WithState(st).Initialize(owner, addrOf(manager), token, thor.Address{}, limits, schedule.DefaultReleaseTable()))
	require.NoError(t, st.SetBalance(owner, big.NewInt(10_000)))
	require.NoError(t, st.SetBalance(staker, big.NewInt(10_000)))

	return &testChain{
		t:       t,
		st:      st,
		rt:      runtime.New(st, chainID, 1, t0),
		manager: manager,
	}
}

func encode(t *testing.T, a *abi.ABI, method string, args ...any) []byte {
	data, err := a.MustMethod(method).EncodeInput(args...)
	require.NoError(t, err)
	return data
}

func (c *testChain) call(from, to thor.Address, value int64, data []byte) *runtime.Output {
	out, err := c.rt.Call(tx.NewClause(to).WithValue(big.NewInt(value)).WithData(data), 0, from)
	require.NoError(c.t, err)
	return out
}

func (c *testChain) mustCall(from, to thor.Address, value int64, data []byte) *runtime.Output {
	out := c.call(from, to, value, data)
	require.False(c.t, out.Reverted, out.RevertReason)
	return out
}

func (c *testChain) query(a *abi.ABI, to thor.Address, method string, v any, args ...any) {
	out, err := c.rt.Inspect(tx.NewClause(to).WithData(encode(c.t, a, method, args...)), other)
	require.NoError(c.t, err)
	require.False(c.t, out.Reverted, out.RevertReason)
	require.NoError(c.t, a.MustMethod(method).DecodeOutput(out.Data, v))
}

func (c *testChain) balance(addr thor.Address) int64 {
	bal, err := c.st.GetBalance(addr)
	require.NoError(c.t, err)
	return bal.Int64()
}

func (c *testChain) stake(method string, args ...any) []byte {
	return encode(c.t, builtin.NodeStake.ABI, method, args...)
}

// bind binds nodeID to beneficiary with a manager signature.
func (c *testChain) bind(beneficiary thor.Address, node, nonce string) {
	sig, err := sigauth.Sign(sigauth.BindDigest(chainID, beneficiary, node, nonce), c.manager)
	require.NoError(c.t, err)
	c.mustCall(beneficiary, builtin.NodeStake.Address, 0, c.stake("bindNode", node, beneficiary, nonce, sig))
}

func (c *testChain) advance(periods uint64) {
	c.rt.SetBlock(c.rt.BlockNumber()+1, c.rt.BlockTime()+periods*thor.PeriodLength)
}

func TestNativeStakingFlow(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns := builtin.NodeStake.Address

	c.bind(staker, nodeID, "n1")
	var bound thor.Address
	c.query(builtin.NodeStake.ABI, ns, "beneficiaryOf", &bound, nodeID)
	assert.Equal(t, staker, bound)

	out := c.call(staker, ns, 999, c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(1000)))
	assert.Equal(t, "value not equal to amount", out.RevertReason)
	assert.Equal(t, int64(10_000), c.balance(staker))

	out = c.mustCall(staker, ns, 1000, c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(1000)))
	require.Len(t, out.Events, 1)
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Deposited").ID(), out.Events[0].Topics[0])
	assert.Equal(t, int64(9000), c.balance(staker))
	assert.Equal(t, int64(1000), c.balance(ns))

	out = c.call(staker, ns, 100, c.stake("transferRewardTo", nodeID, big.NewInt(100)))
	assert.Equal(t, "caller is not the owner", out.RevertReason)
	assert.Equal(t, reverts.Authorization, out.RevertKind)
	c.mustCall(owner, ns, 100, c.stake("transferRewardTo", nodeID, big.NewInt(100)))
	c.mustCall(owner, ns, 50, nil)

	c.advance(1)
	var claimable *big.Int
	c.query(builtin.NodeStake.ABI, ns, "claimableBalance", &claimable, nodeID)
	assert.Equal(t, int64(110), claimable.Int64())

	out = c.call(other, ns, 0, c.stake("claim", nodeID, other))
	assert.Equal(t, "claim: beneficiary is invalid", out.RevertReason)

	out = c.mustCall(staker, ns, 0, c.stake("claim", nodeID, staker))
	require.Len(t, out.Events, 1)
	values, err := builtin.NodeStake.ABI.MustEvent("Claimed").Unpack(out.Events[0].Data)
	require.NoError(t, err)
	assert.Equal(t, int64(100), values[2].(*big.Int).Int64())
	assert.Equal(t, int64(10), values[3].(*big.Int).Int64())
	assert.Equal(t, int64(9110), c.balance(staker))

	out = c.mustCall(staker, ns, 0, c.stake("withdraw", nodeID, big.NewInt(0), staker))
	require.Len(t, out.Events, 2)
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Withdrawed").ID(), out.Events[0].Topics[0])
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Claimed").ID(), out.Events[1].Topics[0])
	values, err = builtin.NodeStake.ABI.MustEvent("Claimed").Unpack(out.Events[1].Data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), values[2].(*big.Int).Int64())
	assert.Equal(t, int64(0), values[3].(*big.Int).Int64())
	assert.Equal(t, int64(9360), c.balance(staker))

	out = c.call(staker, ns, 0, c.stake("withdraw", nodeID, big.NewInt(0), staker))
	assert.Equal(t, "withdraw: withdrawableBalance is zero", out.RevertReason)

	var tokenInPool *big.Int
	c.query(builtin.NodeStake.ABI, ns, "tokenInPool", &tokenInPool)
	assert.Equal(t, int64(750), tokenInPool.Int64())

	res, err := c.rt.Inspect(tx.NewClause(ns).WithData(c.stake("balanceOfSchedule", nodeID, big.NewInt(0))), other)
	require.NoError(t, err)
	require.False(t, res.Reverted, res.RevertReason)
	values, err = builtin.NodeStake.ABI.MustMethod("balanceOfSchedule").UnpackOutput(res.Data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), values[0].(*big.Int).Int64())
	assert.Equal(t, int64(750), values[2].(*big.Int).Int64())
}

func TestExecutorDrivesNodeStake(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns, ex := builtin.NodeStake.Address, builtin.Executor.Address

	keys := []*ecdsa.PrivateKey{newKey(t), newKey(t), newKey(t)}
	signers := []thor.Address{addrOf(keys[0]), addrOf(keys[1]), addrOf(keys[2])}
	require.NoError(t, builtin.Executor.WithState(c.st).Initialize(owner, signers))
	builtin.NodeStake.WithState(c.st).Owner().Set(ex)
	c.bind(staker, nodeID, "n1")
	c.mustCall(owner, ex, 600, nil)

	signAll := func(to thor.Address, value int64, data []byte, nonce string, keys ...*ecdsa.PrivateKey) []any {
		hash := sigauth.ExecuteDigest(chainID, to, big.NewInt(value), data, nonce)
		args := []any{to, big.NewInt(value), data, nonce}
		for _, key := range keys {
			sig, err := sigauth.Sign(hash, key)
			require.NoError(t, err)
			args = append(args, sig)
		}
		return args
	}
	execute := func(args []any) *runtime.Output {
		return c.call(other, ex, 0, encode(t, builtin.Executor.ABI, "executeTransaction", args...))
	}

	reward := c.stake("transferRewardTo", nodeID, big.NewInt(100))
	out := execute(signAll(ns, 100, reward, "e1", keys...))
	require.False(t, out.Reverted, out.RevertReason)
	require.Len(t, out.Events, 2)
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("TransferReward").ID(), out.Events[0].Topics[0])
	assert.Equal(t, builtin.Executor.ABI.MustEvent("ExecuteTransaction").ID(), out.Events[1].Topics[0])
	assert.Equal(t, int64(500), c.balance(ex))

	var nodeReward *big.Int
	c.query(builtin.NodeStake.ABI, ns, "nodeReward", &nodeReward, nodeID)
	assert.Equal(t, int64(100), nodeReward.Int64())

	out = execute(signAll(ns, 100, reward, "e1", keys...))
	assert.Equal(t, "tx already executed", out.RevertReason)
	assert.Equal(t, reverts.Replay, out.RevertKind)

	out = execute(signAll(ns, 100, reward, "e2", keys[0], newKey(t), keys[2]))
	assert.Equal(t, "executeTransaction: signatureB validation failed", out.RevertReason)
	assert.Equal(t, reverts.Authorization, out.RevertKind)

	bad := c.stake("transferRewardTo", "", big.NewInt(1))
	out = execute(signAll(ns, 0, bad, "e2", keys...))
	assert.Equal(t, "executeTransaction: tx failed: transferRewardTo: nodeId not good", out.RevertReason)

	var executed bool
	c.query(builtin.Executor.ABI, ex, "isExecuted", &executed, "e2")
	assert.False(t, executed)

	deposit := c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(500))
	c.mustCall(other, ex, 0, encode(t, builtin.Executor.ABI, "executeTransaction", signAll(ns, 500, deposit, "e3", keys...)...))
	var staked *big.Int
	c.query(builtin.NodeStake.ABI, ns, "balanceOfNode", &staked, nodeID)
	assert.Equal(t, int64(500), staked.Int64())
	assert.Equal(t, int64(0), c.balance(ex))

	var count uint64
	c.query(builtin.Executor.ABI, ex, "executedCount", &count)
	assert.Equal(t, uint64(2), count)
}

func TestMultiSigDrivesNodeStake(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns, ms := builtin.NodeStake.Address, builtin.MultiSig.Address

	o1 := thor.BytesToAddress([]byte("o1"))
	o2 := thor.BytesToAddress([]byte("o2"))
	o3 := thor.BytesToAddress([]byte("o3"))
	require.NoError(t, builtin.MultiSig.WithState(c.st).Initialize([]thor.Address{o1, o2, o3}, 2))
	builtin.NodeStake.WithState(c.st).Owner().Set(ms)

	multisig := func(method string, args ...any) []byte {
		return encode(t, builtin.MultiSig.ABI, method, args...)
	}
	submit := func(data []byte) *big.Int {
		out := c.mustCall(o1, ms, 0, multisig("submitTransaction", ns, big.NewInt(0), data))
		var id *big.Int
		require.NoError(t, builtin.MultiSig.ABI.MustMethod("submitTransaction").DecodeOutput(out.Data, &id))
		return id
	}

	out := c.call(other, ms, 0, multisig("submitTransaction", ns, big.NewInt(0), []byte{}))
	assert.Equal(t, "not owner", out.RevertReason)

	newManager := thor.BytesToAddress([]byte("new-manager"))
	id := submit(c.stake("setManager", newManager))
	assert.Equal(t, int64(0), id.Int64())

	out = c.call(o3, ms, 0, multisig("executeTransaction", id))
	assert.Equal(t, "cannot execute tx", out.RevertReason)

	c.mustCall(o1, ms, 0, multisig("confirmTransaction", id))
	c.mustCall(o2, ms, 0, multisig("confirmTransaction", id))
	c.mustCall(o3, ms, 0, multisig("executeTransaction", id))

	var manager thor.Address
	c.query(builtin.NodeStake.ABI, ns, "manager", &manager)
	assert.Equal(t, newManager, manager)

	out = c.call(o3, ms, 0, multisig("executeTransaction", id))
	assert.Equal(t, "tx already executed", out.RevertReason)

	id = submit(c.stake("setLimit", big.NewInt(10), big.NewInt(5)))
	c.mustCall(o1, ms, 0, multisig("confirmTransaction", id))
	c.mustCall(o2, ms, 0, multisig("confirmTransaction", id))
	out = c.call(o1, ms, 0, multisig("executeTransaction", id))
	assert.Equal(t, "tx failed: setLimit: min greater than max", out.RevertReason)

	res, err := c.rt.Inspect(tx.NewClause(ms).WithData(multisig("getTransaction", id)), other)
	require.NoError(t, err)
	values, err := builtin.MultiSig.ABI.MustMethod("getTransaction").UnpackOutput(res.Data)
	require.NoError(t, err)
	assert.False(t, values[3].(bool))
	assert.Equal(t, int64(2), values[4].(*big.Int).Int64())

	id = submit(c.stake("setLimit", big.NewInt(10), big.NewInt(0)))
	c.mustCall(o1, ms, 0, multisig("confirmTransaction", id))
	c.mustCall(o2, ms, 0, multisig("confirmTransaction", id))
	c.mustCall(o1, ms, 0, multisig("executeTransaction", id))

	var minLimit *big.Int
	c.query(builtin.NodeStake.ABI, ns, "minLimit", &minLimit)
	assert.Equal(t, int64(10), minLimit.Int64())
}

func TestReentrantClaimRejected(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns := builtin.NodeStake.Address

	c.bind(staker, nodeID, "n1")
	c.mustCall(staker, ns, 1000, c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(1000)))
	c.mustCall(owner, ns, 100, c.stake("transferRewardTo", nodeID, big.NewInt(100)))
	c.mustCall(owner, ns, 50, nil)
	c.advance(1)

	c.rt.SetReceiver(carol, func(env *xenv.Environment) error {
		_, err := env.CallContract(ns, new(big.Int), c.stake("claim", nodeID, carol))
		return err
	})
	out := c.call(staker, ns, 0, c.stake("claim", nodeID, carol))
	assert.True(t, out.Reverted)
	assert.Equal(t, "reentrant call", out.RevertReason)
	assert.Equal(t, int64(0), c.balance(carol))

	var nodeReward *big.Int
	c.query(builtin.NodeStake.ABI, ns, "nodeReward", &nodeReward, nodeID)
	assert.Equal(t, int64(100), nodeReward.Int64())

	c.rt.SetReceiver(carol, nil)
	c.mustCall(staker, ns, 0, c.stake("claim", nodeID, carol))
	assert.Equal(t, int64(110), c.balance(carol))
}

func TestSignedClaim(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	sc := builtin.SignedClaim.Address

	keys := []*ecdsa.PrivateKey{newKey(t), newKey(t), newKey(t)}
	signers := []thor.Address{addrOf(keys[0]), addrOf(keys[1]), addrOf(keys[2])}
	require.NoError(t, builtin.SignedClaim.WithState(c.st).Initialize(owner, addrOf(c.manager), thor.Address{}, signers, 2))
	c.bind(staker, nodeID, "n1")
	c.mustCall(owner, sc, 500, nil)

	claimData := func(amount int64, beneficiary thor.Address, nonce string, sign ...bool) []byte {
		hash := sigauth.ClaimDigest(chainID, big.NewInt(amount), nodeID, staker, nonce)
		sigs := make([]any, 3)
		for i := range sigs {
			sigs[i] = []byte{}
			if i < len(sign) && sign[i] {
				sig, err := sigauth.Sign(hash, keys[i])
				require.NoError(t, err)
				sigs[i] = sig
			}
		}
		args := append([]any{big.NewInt(amount), beneficiary, nodeID, nonce}, sigs...)
		return encode(t, builtin.SignedClaim.ABI, "ClaimWithSignature", args...)
	}

	out := c.mustCall(staker, sc, 0, claimData(100, staker, "c1", true, true))
	require.Len(t, out.Events, 1)
	assert.Equal(t, builtin.SignedClaim.ABI.MustEvent("Claimed").ID(), out.Events[0].Topics[0])
	assert.Equal(t, int64(10_100), c.balance(staker))
	assert.Equal(t, int64(400), c.balance(sc))

	out = c.call(staker, sc, 0, claimData(100, staker, "c1", true, true))
	assert.Equal(t, "verifyClaimSigner: signature validation failed", out.RevertReason)
	assert.Equal(t, reverts.Replay, out.RevertKind)

	out = c.call(staker, sc, 0, claimData(100, staker, "c2", false, false, true))
	assert.Equal(t, "verifyClaimSigner: signature validation failed", out.RevertReason)

	out = c.call(staker, sc, 0, claimData(100, other, "c2", true, true))
	assert.Equal(t, "verifyClaimSigner: _beneficiary not good", out.RevertReason)

	out = c.call(staker, sc, 0, claimData(1000, staker, "c2", true, false, true))
	assert.Equal(t, "claim: balance is not enough", out.RevertReason)

	var total *big.Int
	c.query(builtin.SignedClaim.ABI, sc, "totalClaimed", &total)
	assert.Equal(t, int64(100), total.Int64())
}

func TestWithdrawIntoVesting(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns, vs := builtin.NodeStake.Address, builtin.Vesting.Address

	require.NoError(t, builtin.Vesting.WithState(c.st).Initialize(owner, 3, thor.Address{}))
	out := c.call(staker, ns, 0, c.stake("setVault", vs))
	assert.Equal(t, "caller is not the owner", out.RevertReason)
	c.mustCall(owner, ns, 0, c.stake("setVault", vs))

	c.bind(staker, nodeID, "n1")
	c.mustCall(staker, ns, 1000, c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(1000)))
	c.advance(1)

	out = c.mustCall(staker, ns, 0, c.stake("withdraw", nodeID, big.NewInt(0), staker))
	require.Len(t, out.Events, 3)
	assert.Equal(t, builtin.Vesting.ABI.MustEvent("VestingScheduleCreated").ID(), out.Events[0].Topics[0])
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Withdrawed").ID(), out.Events[1].Topics[0])
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Claimed").ID(), out.Events[2].Topics[0])
	assert.Equal(t, int64(9000), c.balance(staker))
	assert.Equal(t, int64(250), c.balance(vs))

	var locked *big.Int
	c.query(builtin.Vesting.ABI, vs, "locked", &locked)
	assert.Equal(t, int64(250), locked.Int64())

	out = c.call(staker, vs, 0, encode(t, builtin.Vesting.ABI, "release"))
	assert.Equal(t, "release: releasable amount is zero", out.RevertReason)

	c.advance(3)
	c.mustCall(staker, vs, 0, encode(t, builtin.Vesting.ABI, "release"))
	assert.Equal(t, int64(9250), c.balance(staker))
	assert.Equal(t, int64(0), c.balance(vs))
}

func TestTokenStaking(t *testing.T) {
	c := newTestChain(t, builtin.Token.Address)
	ns, tk := builtin.NodeStake.Address, builtin.Token.Address

	require.NoError(t, builtin.Token.WithState(c.st).Initialize(owner, "Wrapped Token", "WTK", 18))
	token := func(method string, args ...any) []byte {
		return encode(t, builtin.Token.ABI, method, args...)
	}
	c.mustCall(owner, tk, 0, token("mint", staker, big.NewInt(1000)))
	c.bind(staker, nodeID, "n1")

	deposit := c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(600))
	out := c.call(staker, ns, 0, deposit)
	assert.Equal(t, "ERC20: insufficient allowance", out.RevertReason)

	c.mustCall(staker, tk, 0, token("approve", ns, big.NewInt(1000)))
	out = c.call(staker, ns, 600, deposit)
	assert.Equal(t, "value not accepted", out.RevertReason)
	assert.Equal(t, int64(10_000), c.balance(staker))

	out = c.mustCall(staker, ns, 0, deposit)
	// token Transfer, then Deposited
	require.Len(t, out.Events, 2)
	assert.Equal(t, tk, out.Events[0].Address)

	var bal *big.Int
	c.query(builtin.Token.ABI, tk, "balanceOf", &bal, ns)
	assert.Equal(t, int64(600), bal.Int64())

	c.mustCall(owner, tk, 0, token("mint", owner, big.NewInt(100)))
	c.mustCall(owner, tk, 0, token("transfer", ns, big.NewInt(40)))
	var rewardInPool *big.Int
	c.query(builtin.NodeStake.ABI, ns, "rewardInPool", &rewardInPool)
	assert.Equal(t, int64(40), rewardInPool.Int64())

	c.advance(1)
	out = c.mustCall(staker, ns, 0, c.stake("withdraw", nodeID, big.NewInt(0), staker))
	claimed := out.Events[len(out.Events)-1]
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Claimed").ID(), claimed.Topics[0])
	values, err := builtin.NodeStake.ABI.MustEvent("Claimed").Unpack(claimed.Data)
	require.NoError(t, err)
	assert.Equal(t, int64(6), values[3].(*big.Int).Int64())
	c.query(builtin.Token.ABI, tk, "balanceOf", &bal, staker)
	// principal 150 plus 6 interest paid from the free surplus
	assert.Equal(t, int64(400+150+6), bal.Int64())
}

func TestStakingReceipt(t *testing.T) {
	c := newTestChain(t, thor.Address{})
	ns, st := builtin.NodeStake.Address, builtin.StakingToken.Address
	receipt := func(method string, args ...any) []byte {
		return encode(t, builtin.StakingToken.ABI, method, args...)
	}

	require.NoError(t, builtin.StakingToken.WithState(c.st).Initialize(ns, "Staking Token", "STST", 18))
	out := c.call(staker, ns, 0, c.stake("setStakingToken", st))
	assert.Equal(t, "caller is not the owner", out.RevertReason)
	c.mustCall(owner, ns, 0, c.stake("setStakingToken", st))
	var addr thor.Address
	c.query(builtin.NodeStake.ABI, ns, "stakingToken", &addr)
	assert.Equal(t, st, addr)

	// only the ledger mints
	out = c.call(owner, st, 0, receipt("mint", owner, big.NewInt(1)))
	assert.Equal(t, "caller is not the owner", out.RevertReason)

	c.bind(staker, nodeID, "n1")
	out = c.mustCall(staker, ns, 1000, c.stake("deposit", nodeID, big.NewInt(0), big.NewInt(1000)))
	require.Len(t, out.Events, 2)
	assert.Equal(t, st, out.Events[0].Address)
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Deposited").ID(), out.Events[1].Topics[0])

	var bal, supply *big.Int
	c.query(builtin.StakingToken.ABI, st, "balanceOf", &bal, staker)
	assert.Equal(t, int64(1000), bal.Int64())
	c.query(builtin.StakingToken.ABI, st, "totalSupply", &supply)
	assert.Equal(t, int64(1000), supply.Int64())

	c.advance(1)
	withdraw := c.stake("withdraw", nodeID, big.NewInt(0), staker)
	out = c.call(staker, ns, 0, withdraw)
	assert.Equal(t, "ERC20: insufficient allowance", out.RevertReason)

	c.mustCall(staker, st, 0, receipt("approve", ns, big.NewInt(1000)))
	c.mustCall(staker, st, 0, receipt("transfer", other, big.NewInt(900)))
	out = c.call(staker, ns, 0, withdraw)
	assert.Equal(t, "ERC20: burn amount exceeds balance", out.RevertReason)
	assert.Equal(t, reverts.InsufficientFunds, out.RevertKind)

	c.mustCall(other, st, 0, receipt("transfer", staker, big.NewInt(900)))
	out = c.mustCall(staker, ns, 0, withdraw)
	require.Len(t, out.Events, 3)
	assert.Equal(t, st, out.Events[0].Address)
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Withdrawed").ID(), out.Events[1].Topics[0])
	assert.Equal(t, builtin.NodeStake.ABI.MustEvent("Claimed").ID(), out.Events[2].Topics[0])

	c.query(builtin.StakingToken.ABI, st, "balanceOf", &bal, staker)
	assert.Equal(t, int64(750), bal.Int64())
	c.query(builtin.StakingToken.ABI, st, "totalSupply", &supply)
	assert.Equal(t, int64(750), supply.Int64())
	assert.Equal(t, int64(9250), c.balance(staker))
}
