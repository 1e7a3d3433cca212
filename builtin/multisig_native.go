// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/multisig"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

func init() {
	var (
		ev = MultiSig.ABI.MustEvent

		proposeEvent       = ev("ProposeOwner")
		confirmProposalEv  = ev("ConfirmProposal")
		executeProposalEv  = ev("ExecuteProposal")
		revokeProposalEv   = ev("RevokeProposal")
		submitEvent        = ev("SubmitTransaction")
		confirmTxEvent     = ev("ConfirmTransaction")
		executeTxEvent     = ev("ExecuteTransaction")
		revokeConfirmation = ev("RevokeConfirmation")
		depositEvent       = ev("Deposit")
		multiSigOf         = func(env *xenv.Environment) *multisig.MultiSig { return MultiSig.WithState(env.State()) }
		proposalID         = func(env *xenv.Environment, v *big.Int) uint64 { return mustUint64(env, v, "proposal does not exist") }
		txIndex            = func(env *xenv.Environment, v *big.Int) uint64 { return mustUint64(env, v, "tx does not exist") }
		uint64ToBig        = func(v uint64) *big.Int { return new(big.Int).SetUint64(v) }
	)

	defines := []nativeDefine{
		// owner proposals
		{"proposeOwner", func(env *xenv.Environment) []any {
			var args struct {
				Owner        common.Address
				ProposalType uint8
			}
			env.ParseArgs(&args)

			candidate := thor.Address(args.Owner)
			id, err := multiSigOf(env).ProposeOwner(env.Caller(), candidate, multisig.ProposalKind(args.ProposalType), env.BlockContext().Time)
			env.Must(err)
			env.Log(proposeEvent, nil, env.Caller(), uint64ToBig(id), args.ProposalType, candidate)
			return []any{uint64ToBig(id)}
		}},
		{"confirmProposal", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			env.Must(multiSigOf(env).ConfirmProposal(env.Caller(), proposalID(env, id)))
			env.Log(confirmProposalEv, nil, env.Caller(), id)
			return nil
		}},
		{"executeProposal", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			env.Must(multiSigOf(env).ExecuteProposal(env.Caller(), proposalID(env, id)))
			env.Log(executeProposalEv, nil, env.Caller(), id)
			return nil
		}},
		{"revokeProposal", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			env.Must(multiSigOf(env).RevokeProposal(env.Caller(), proposalID(env, id)))
			env.Log(revokeProposalEv, nil, env.Caller(), id)
			return nil
		}},

		// transactions
		{"submitTransaction", func(env *xenv.Environment) []any {
			var args struct {
				To    common.Address
				Value *big.Int
				Data  []byte
			}
			env.ParseArgs(&args)

			to := thor.Address(args.To)
			id, err := multiSigOf(env).SubmitTransaction(env.Caller(), to, args.Value, args.Data)
			env.Must(err)
			env.Log(submitEvent, nil, env.Caller(), uint64ToBig(id), to, args.Value, args.Data)
			return []any{uint64ToBig(id)}
		}},
		{"confirmTransaction", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			env.Must(multiSigOf(env).ConfirmTransaction(env.Caller(), txIndex(env, id)))
			env.Log(confirmTxEvent, nil, env.Caller(), id)
			return nil
		}},
		{"executeTransaction", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			out, err := multiSigOf(env).ExecuteTransaction(env.Caller(), txIndex(env, id), env)
			env.Must(err)
			env.Log(executeTxEvent, nil, env.Caller(), id)
			if out == nil {
				out = []byte{}
			}
			return []any{out}
		}},
		{"revokeConfirmation", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			env.Must(multiSigOf(env).RevokeConfirmation(env.Caller(), txIndex(env, id)))
			env.Log(revokeConfirmation, nil, env.Caller(), id)
			return nil
		}},

		// queries
		{"getOwners", func(env *xenv.Environment) []any {
			owners, err := multiSigOf(env).GetOwners()
			env.Must(err)
			if owners == nil {
				owners = []thor.Address{}
			}
			return []any{owners}
		}},
		{"getThreshold", func(env *xenv.Environment) []any {
			t, err := multiSigOf(env).GetThreshold()
			env.Must(err)
			return []any{uint64ToBig(t)}
		}},
		{"getProposalCount", func(env *xenv.Environment) []any {
			n, err := multiSigOf(env).GetProposalCount()
			env.Must(err)
			return []any{uint64ToBig(n)}
		}},
		{"getProposal", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			p, err := multiSigOf(env).GetProposal(proposalID(env, id))
			env.Must(err)
			return []any{p.Owner, uint8(p.Kind), uint64ToBig(p.ProposedTime), p.Executed, uint64ToBig(p.NumConfirmations)}
		}},
		{"isProposalConfirmed", func(env *xenv.Environment) []any {
			var args struct {
				ProposalID *big.Int `abi:"proposalId"`
				Owner      common.Address
			}
			env.ParseArgs(&args)

			ok, err := multiSigOf(env).IsProposalConfirmed(proposalID(env, args.ProposalID), thor.Address(args.Owner))
			env.Must(err)
			return []any{ok}
		}},
		{"getTransactionCount", func(env *xenv.Environment) []any {
			n, err := multiSigOf(env).GetTransactionCount()
			env.Must(err)
			return []any{uint64ToBig(n)}
		}},
		{"getTransaction", func(env *xenv.Environment) []any {
			var id *big.Int
			env.ParseArgs(&id)

			t, err := multiSigOf(env).GetTransaction(txIndex(env, id))
			env.Must(err)
			data := t.Data
			if data == nil {
				data = []byte{}
			}
			return []any{t.To, t.Value, data, t.Executed, uint64ToBig(t.NumConfirmations)}
		}},
		{"isConfirmed", func(env *xenv.Environment) []any {
			var args struct {
				TxIndex *big.Int
				Owner   common.Address
			}
			env.ParseArgs(&args)

			ok, err := multiSigOf(env).IsConfirmed(txIndex(env, args.TxIndex), thor.Address(args.Owner))
			env.Must(err)
			return []any{ok}
		}},
	}
	registerNatives(MultiSig.contract, defines)

	nativeReceivers[MultiSig.Address] = func(env *xenv.Environment) error {
		env.Log(depositEvent, nil, env.Caller(), env.Value())
		return nil
	}
}
