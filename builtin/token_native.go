// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/token"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

func init() {
	registerTokenNatives(Token)
	registerTokenNatives(StakingToken)
}

// registerTokenNatives binds the ERC-20 natives of one token deployment.
func registerTokenNatives(c *tokenContract) {
	var (
		transferEvent = c.ABI.MustEvent("Transfer")
		approvalEvent = c.ABI.MustEvent("Approval")
		tokenOf       = func(env *xenv.Environment) *token.Token { return c.WithState(env.State()) }
		logTransfer   = func(env *xenv.Environment, from, to thor.Address, value *big.Int) {
			env.Log(transferEvent, []thor.Bytes32{addressTopic(from), addressTopic(to)}, value)
		}
	)

	defines := []nativeDefine{
		{"name", func(env *xenv.Environment) []any {
			name, err := tokenOf(env).Name()
			env.Must(err)
			return []any{name}
		}},
		{"symbol", func(env *xenv.Environment) []any {
			symbol, err := tokenOf(env).Symbol()
			env.Must(err)
			return []any{symbol}
		}},
		{"decimals", func(env *xenv.Environment) []any {
			decimals, err := tokenOf(env).Decimals()
			env.Must(err)
			return []any{decimals}
		}},
		{"totalSupply", func(env *xenv.Environment) []any {
			supply, err := tokenOf(env).TotalSupply()
			env.Must(err)
			return []any{supply}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var account common.Address
			env.ParseArgs(&account)

			balance, err := tokenOf(env).BalanceOf(thor.Address(account))
			env.Must(err)
			return []any{balance}
		}},
		{"allowance", func(env *xenv.Environment) []any {
			var args struct {
				Owner   common.Address
				Spender common.Address
			}
			env.ParseArgs(&args)

			allowance, err := tokenOf(env).Allowance(thor.Address(args.Owner), thor.Address(args.Spender))
			env.Must(err)
			return []any{allowance}
		}},
		{"transfer", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			to := thor.Address(args.To)
			env.Must(tokenOf(env).Transfer(env.Caller(), to, args.Amount))
			logTransfer(env, env.Caller(), to, args.Amount)
			return []any{true}
		}},
		{"approve", func(env *xenv.Environment) []any {
			var args struct {
				Spender common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)

			spender := thor.Address(args.Spender)
			env.Must(tokenOf(env).Approve(env.Caller(), spender, args.Amount))
			env.Log(approvalEvent, []thor.Bytes32{addressTopic(env.Caller()), addressTopic(spender)}, args.Amount)
			return []any{true}
		}},
		{"transferFrom", func(env *xenv.Environment) []any {
			var args struct {
				From   common.Address
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			from, to := thor.Address(args.From), thor.Address(args.To)
			env.Must(tokenOf(env).TransferFrom(env.Caller(), from, to, args.Amount))
			logTransfer(env, from, to, args.Amount)
			return []any{true}
		}},
		{"mint", func(env *xenv.Environment) []any {
			var args struct {
				To     common.Address
				Amount *big.Int
			}
			env.ParseArgs(&args)

			to := thor.Address(args.To)
			env.Must(tokenOf(env).Mint(env.Caller(), to, args.Amount))
			logTransfer(env, thor.Address{}, to, args.Amount)
			return nil
		}},
		{"burn", func(env *xenv.Environment) []any {
			var amount *big.Int
			env.ParseArgs(&amount)

			env.Must(tokenOf(env).Burn(env.Caller(), amount))
			logTransfer(env, env.Caller(), thor.Address{}, amount)
			return nil
		}},
		{"burnFrom", func(env *xenv.Environment) []any {
			var args struct {
				Account common.Address
				Amount  *big.Int
			}
			env.ParseArgs(&args)

			from := thor.Address(args.Account)
			env.Must(tokenOf(env).BurnFrom(env.Caller(), from, args.Amount))
			logTransfer(env, from, thor.Address{}, args.Amount)
			return nil
		}},
	}
	defines = append(defines, ownableNatives(c.contract, func(env *xenv.Environment) *ownable.Role {
		return tokenOf(env).Owner()
	})...)
	registerNatives(c.contract, defines)
}
