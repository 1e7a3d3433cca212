// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/executor"
	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

func init() {
	var (
		executedEvent = Executor.ABI.MustEvent("ExecuteTransaction")
		executorOf    = func(env *xenv.Environment) *executor.Executor { return Executor.WithState(env.State()) }
	)

	defines := []nativeDefine{
		{"executeTransaction", func(env *xenv.Environment) []any {
			var args struct {
				To    common.Address
				Value *big.Int
				Data  []byte
				Nonce string
				SigA  []byte
				SigB  []byte
				SigC  []byte
			}
			env.ParseArgs(&args)

			to := thor.Address(args.To)
			out, err := executorOf(env).Execute(
				env.TransactionContext().ChainID,
				to,
				args.Value,
				args.Data,
				args.Nonce,
				[][]byte{args.SigA, args.SigB, args.SigC},
				env,
			)
			env.Must(err)
			env.Log(executedEvent, nil, env.Caller(), args.Nonce, to, args.Value, args.Data)
			if out == nil {
				out = []byte{}
			}
			return []any{out}
		}},
		{"setSigner", func(env *xenv.Environment) []any {
			var args struct {
				Slot   uint8
				Signer common.Address
			}
			env.ParseArgs(&args)

			env.Must(executorOf(env).SetSigner(env.Caller(), int(args.Slot), thor.Address(args.Signer)))
			return nil
		}},
		{"signers", func(env *xenv.Environment) []any {
			signers, err := executorOf(env).Signers()
			env.Must(err)
			return []any{signers}
		}},
		{"isExecuted", func(env *xenv.Environment) []any {
			var nonce string
			env.ParseArgs(&nonce)

			done, err := executorOf(env).IsExecuted(nonce)
			env.Must(err)
			return []any{done}
		}},
		{"executedCount", func(env *xenv.Environment) []any {
			count, err := executorOf(env).ExecutedCount()
			env.Must(err)
			return []any{count}
		}},
	}
	defines = append(defines, ownableNatives(Executor.contract, func(env *xenv.Environment) *ownable.Role {
		return executorOf(env).Owner()
	})...)
	registerNatives(Executor.contract, defines)
}
