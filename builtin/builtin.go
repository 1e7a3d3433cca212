// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/nodestake/builtin/claim"
	"github.com/vechain/nodestake/builtin/executor"
	"github.com/vechain/nodestake/builtin/multisig"
	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/builtin/token"
	"github.com/vechain/nodestake/builtin/vesting"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

// Builtin contracts binding.
var (
	NodeStake    = &nodeStakeContract{mustLoadContract("NodeStake")}
	SignedClaim  = &signedClaimContract{mustLoadContract("SignedClaim")}
	Executor     = &executorContract{mustLoadContract("Executor")}
	MultiSig     = &multiSigContract{mustLoadContract("MultiSig")}
	Token        = &tokenContract{mustLoadContract("Token")}
	StakingToken = &tokenContract{mustLoadContract("StakingToken")}
	Vesting      = &vestingContract{mustLoadContract("Vesting")}
)

type (
	nodeStakeContract   struct{ *contract }
	signedClaimContract struct{ *contract }
	executorContract    struct{ *contract }
	multiSigContract    struct{ *contract }
	tokenContract       struct{ *contract }
	vestingContract     struct{ *contract }
)

func (n *nodeStakeContract) WithState(state *state.State) *staking.Ledger {
	return staking.New(n.Address, state)
}

func (c *signedClaimContract) WithState(state *state.State) *claim.Claim {
	return claim.New(c.Address, state)
}

func (e *executorContract) WithState(state *state.State) *executor.Executor {
	return executor.New(e.Address, state)
}

func (m *multiSigContract) WithState(state *state.State) *multisig.MultiSig {
	return multisig.New(m.Address, state)
}

func (t *tokenContract) WithState(state *state.State) *token.Token {
	return token.New(t.Address, state)
}

func (v *vestingContract) WithState(state *state.State) *vesting.Vesting {
	return vesting.New(v.Address, state)
}

// All returns every builtin contract in a stable order.
func All() []*contract {
	return []*contract{
		NodeStake.contract,
		SignedClaim.contract,
		Executor.contract,
		MultiSig.contract,
		Token.contract,
		StakingToken.contract,
		Vesting.contract,
	}
}

// Lookup finds a builtin by name.
func Lookup(name string) (*contract, bool) {
	for _, c := range All() {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// NameOf returns the builtin name deployed at addr.
func NameOf(addr thor.Address) (string, bool) {
	for _, c := range All() {
		if c.Address == addr {
			return c.name, true
		}
	}
	return "", false
}
