// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

// scheduleTuple is the ABI shape of one schedule returned by getSchedules.
type scheduleTuple struct {
	DepositType    *big.Int
	Start          *big.Int
	Duration       *big.Int
	AmountTotal    *big.Int
	Withdrawed     *big.Int
	YieldRate      *big.Int
	Rewarded       *big.Int
	WithdrawedTime *big.Int
}

func ledgerAsset(env *xenv.Environment, l *staking.Ledger) staking.Asset {
	token, err := l.Token()
	env.Must(err)
	return assetAt(env, token)
}

// ledgerVault returns nil when withdrawn principal is paid out directly.
func ledgerVault(env *xenv.Environment, l *staking.Ledger) staking.Vault {
	vault, err := l.Vault()
	env.Must(err)
	if vault.IsZero() {
		return nil
	}
	token, err := l.Token()
	env.Must(err)
	return &vestingVault{env, vault, token}
}

// ledgerReceipt returns nil when deposits issue no staking token.
func ledgerReceipt(env *xenv.Environment, l *staking.Ledger) staking.Receipt {
	token, err := l.StakingToken()
	env.Must(err)
	if token.IsZero() {
		return nil
	}
	return &stakingReceipt{env, token}
}

func init() {
	var (
		ev = NodeStake.ABI.MustEvent

		bindEvent       = ev("Bind")
		depositedEvent  = ev("Deposited")
		withdrawedEvent = ev("Withdrawed")
		claimedEvent    = ev("Claimed")
		rewardEvent     = ev("TransferReward")
		emergencyEvent  = ev("WithdrawedForEmergency")
		revokedEvent    = ev("Revoked")
		ledgerOf        = func(env *xenv.Environment) *staking.Ledger { return NodeStake.WithState(env.State()) }
		now             = func(env *xenv.Environment) uint64 { return env.BlockContext().Time }
	)

	defines := []nativeDefine{
		{"manager", func(env *xenv.Environment) []any {
			addr, err := ledgerOf(env).Manager().Get()
			env.Must(err)
			return []any{addr}
		}},

		// node binding
		{"bindNode", func(env *xenv.Environment) []any {
			var args struct {
				NodeID      string `abi:"nodeId"`
				Beneficiary common.Address
				Nonce       string
				Signature   []byte
			}
			env.ParseArgs(&args)

			beneficiary := thor.Address(args.Beneficiary)
			err := ledgerOf(env).Registry().Bind(env.TransactionContext().ChainID, env.Caller(), args.NodeID, beneficiary, args.Nonce, args.Signature)
			env.Must(err)
			env.Log(bindEvent, nil, beneficiary, args.NodeID)
			return nil
		}},
		{"rebind", func(env *xenv.Environment) []any {
			var args struct {
				NodeID      string `abi:"nodeId"`
				Beneficiary common.Address
			}
			env.ParseArgs(&args)

			beneficiary := thor.Address(args.Beneficiary)
			env.Must(ledgerOf(env).Registry().Rebind(env.Caller(), args.NodeID, beneficiary))
			env.Log(bindEvent, nil, beneficiary, args.NodeID)
			return nil
		}},
		{"revoke", func(env *xenv.Environment) []any {
			var nonce string
			env.ParseArgs(&nonce)

			env.Must(ledgerOf(env).Registry().Revoke(env.Caller(), nonce))
			env.Log(revokedEvent, nil, env.Caller(), nonce)
			return nil
		}},
		{"beneficiaryOf", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			addr, err := ledgerOf(env).Registry().BeneficiaryOf(nodeID)
			env.Must(err)
			return []any{addr}
		}},
		{"nodesOf", func(env *xenv.Environment) []any {
			var beneficiary common.Address
			env.ParseArgs(&beneficiary)

			nodes, err := ledgerOf(env).Registry().NodesOf(thor.Address(beneficiary))
			env.Must(err)
			if nodes == nil {
				nodes = []string{}
			}
			return []any{nodes}
		}},
		{"isNonceConsumed", func(env *xenv.Environment) []any {
			var nonce string
			env.ParseArgs(&nonce)

			used, err := ledgerOf(env).Registry().IsNonceConsumed(nonce)
			env.Must(err)
			return []any{used}
		}},

		// staking
		{"deposit", func(env *xenv.Environment) []any {
			var args struct {
				NodeID      string `abi:"nodeId"`
				DepositType *big.Int
				Amount      *big.Int
			}
			env.ParseArgs(&args)

			depositType := mustUint8(env, args.DepositType, "deposit: depositType not good")
			l := ledgerOf(env)
			res, err := l.Deposit(env.Caller(), args.NodeID, depositType, args.Amount, now(env), ledgerAsset(env, l), ledgerReceipt(env, l))
			env.Must(err)
			env.Log(depositedEvent, nil, res.Beneficiary, args.Amount, args.NodeID, args.DepositType)
			return nil
		}},
		{"withdraw", func(env *xenv.Environment) []any {
			var args struct {
				NodeID        string `abi:"nodeId"`
				ScheduleIndex *big.Int
				Destination   common.Address
			}
			env.ParseArgs(&args)

			index := mustUint64(env, args.ScheduleIndex, "withdraw: schedule is not exsit")
			destination := thor.Address(args.Destination)
			l := ledgerOf(env)
			res, err := l.Withdraw(env.Caller(), args.NodeID, index, destination, now(env), ledgerAsset(env, l), ledgerVault(env, l), ledgerReceipt(env, l))
			env.Must(err)
			env.Log(withdrawedEvent, nil, res.Beneficiary, destination, res.Amount, args.ScheduleIndex)
			env.Log(claimedEvent, nil, res.Beneficiary, destination, new(big.Int), res.Interest)
			return nil
		}},
		{"claim", func(env *xenv.Environment) []any {
			var args struct {
				NodeID      string `abi:"nodeId"`
				Destination common.Address
			}
			env.ParseArgs(&args)

			destination := thor.Address(args.Destination)
			l := ledgerOf(env)
			res, err := l.Claim(env.Caller(), args.NodeID, destination, now(env), ledgerAsset(env, l))
			env.Must(err)
			env.Log(claimedEvent, nil, res.Beneficiary, destination, res.Reward, res.Interest)
			return nil
		}},
		{"transferRewardTo", func(env *xenv.Environment) []any {
			var args struct {
				NodeID string `abi:"nodeId"`
				Amount *big.Int
			}
			env.ParseArgs(&args)

			l := ledgerOf(env)
			env.Must(l.TransferRewardTo(env.Caller(), args.NodeID, args.Amount, ledgerAsset(env, l)))
			env.Log(rewardEvent, nil, env.Caller(), args.Amount, args.NodeID)
			return nil
		}},
		{"withdrawRewardForEmergency", func(env *xenv.Environment) []any {
			var amount *big.Int
			env.ParseArgs(&amount)

			l := ledgerOf(env)
			env.Must(l.WithdrawRewardForEmergency(env.Caller(), amount, ledgerAsset(env, l)))
			env.Log(emergencyEvent, nil, env.Caller(), amount)
			return nil
		}},

		// configuration
		{"setLimit", func(env *xenv.Environment) []any {
			var args struct {
				Min *big.Int
				Max *big.Int
			}
			env.ParseArgs(&args)

			env.Must(ledgerOf(env).SetLimit(env.Caller(), args.Min, args.Max))
			return nil
		}},
		{"setCanDeposit", func(env *xenv.Environment) []any {
			var canDeposit bool
			env.ParseArgs(&canDeposit)

			env.Must(ledgerOf(env).SetCanDeposit(env.Caller(), canDeposit))
			return nil
		}},
		{"setCanWithdraw", func(env *xenv.Environment) []any {
			var canWithdraw bool
			env.ParseArgs(&canWithdraw)

			env.Must(ledgerOf(env).SetCanWithdraw(env.Caller(), canWithdraw))
			return nil
		}},
		{"setManager", func(env *xenv.Environment) []any {
			var manager common.Address
			env.ParseArgs(&manager)

			env.Must(ledgerOf(env).SetManager(env.Caller(), thor.Address(manager)))
			return nil
		}},
		{"setDepositTerms", func(env *xenv.Environment) []any {
			var args struct {
				DepositType *big.Int
				Duration    *big.Int
				YieldRate   *big.Int
			}
			env.ParseArgs(&args)

			depositType := mustUint8(env, args.DepositType, "setDepositTerms: depositType not good")
			duration := mustUint64(env, args.Duration, "invalid duration")
			env.Must(ledgerOf(env).SetDepositTerms(env.Caller(), depositType, duration, args.YieldRate))
			return nil
		}},
		{"setReleaseTable", func(env *xenv.Environment) []any {
			var args struct {
				Periods   []*big.Int
				Permilles []*big.Int
			}
			env.ParseArgs(&args)

			env.Require(len(args.Periods) == len(args.Permilles), "setReleaseTable: length mismatch")
			table := make(schedule.ReleaseTable, 0, len(args.Periods))
			for i := range args.Periods {
				table = append(table, schedule.Milestone{
					Periods:  mustUint64(env, args.Periods[i], "setReleaseTable: periods not good"),
					Permille: mustUint64(env, args.Permilles[i], "setReleaseTable: permille not good"),
				})
			}
			env.Must(ledgerOf(env).SetReleaseTable(env.Caller(), table))
			return nil
		}},
		{"setVault", func(env *xenv.Environment) []any {
			var vault common.Address
			env.ParseArgs(&vault)

			env.Must(ledgerOf(env).SetVault(env.Caller(), thor.Address(vault)))
			return nil
		}},
		{"setStakingToken", func(env *xenv.Environment) []any {
			var token common.Address
			env.ParseArgs(&token)

			env.Must(ledgerOf(env).SetStakingToken(env.Caller(), thor.Address(token)))
			return nil
		}},

		// configuration getters
		{"minLimit", func(env *xenv.Environment) []any {
			limits, err := ledgerOf(env).Limits()
			env.Must(err)
			return []any{limits.Min}
		}},
		{"maxLimit", func(env *xenv.Environment) []any {
			limits, err := ledgerOf(env).Limits()
			env.Must(err)
			return []any{limits.Max}
		}},
		{"limits", func(env *xenv.Environment) []any {
			limits, err := ledgerOf(env).Limits()
			env.Must(err)
			return []any{limits.Min, limits.Max}
		}},
		{"flags", func(env *xenv.Environment) []any {
			l := ledgerOf(env)
			canDeposit, err := l.CanDeposit()
			env.Must(err)
			canWithdraw, err := l.CanWithdraw()
			env.Must(err)
			return []any{canDeposit, canWithdraw}
		}},
		{"depositTerms", func(env *xenv.Environment) []any {
			var depositType *big.Int
			env.ParseArgs(&depositType)

			// IMPORTANT, DO NOT return nil pointers, EncodeOutput cannot pack them.
			if !depositType.IsUint64() || depositType.Uint64() > 255 {
				return []any{new(big.Int), new(big.Int)}
			}
			terms, err := ledgerOf(env).Terms(uint8(depositType.Uint64()))
			env.Must(err)
			if terms == nil {
				return []any{new(big.Int), new(big.Int)}
			}
			return []any{new(big.Int).SetUint64(terms.Duration), terms.YieldRate}
		}},
		{"releaseTable", func(env *xenv.Environment) []any {
			table, err := ledgerOf(env).ReleaseTable()
			env.Must(err)
			periods := make([]*big.Int, 0, len(table))
			permilles := make([]*big.Int, 0, len(table))
			for _, m := range table {
				periods = append(periods, new(big.Int).SetUint64(m.Periods))
				permilles = append(permilles, new(big.Int).SetUint64(m.Permille))
			}
			return []any{periods, permilles}
		}},
		{"token", func(env *xenv.Environment) []any {
			addr, err := ledgerOf(env).Token()
			env.Must(err)
			return []any{addr}
		}},
		{"vault", func(env *xenv.Environment) []any {
			addr, err := ledgerOf(env).Vault()
			env.Must(err)
			return []any{addr}
		}},
		{"stakingToken", func(env *xenv.Environment) []any {
			addr, err := ledgerOf(env).StakingToken()
			env.Must(err)
			return []any{addr}
		}},
		{"tokenInPool", func(env *xenv.Environment) []any {
			v, err := ledgerOf(env).TokenInPool()
			env.Must(err)
			return []any{v}
		}},
		{"rewardInPool", func(env *xenv.Environment) []any {
			l := ledgerOf(env)
			v, err := l.RewardInPool(ledgerAsset(env, l))
			env.Must(err)
			return []any{v}
		}},
		{"nodeReward", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			v, err := ledgerOf(env).NodeReward(nodeID)
			env.Must(err)
			return []any{v}
		}},

		// balances
		{"getSchedules", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			scheds, err := ledgerOf(env).GetSchedules(nodeID)
			env.Must(err)
			out := make([]scheduleTuple, 0, len(scheds))
			for _, s := range scheds {
				out = append(out, scheduleTuple{
					DepositType:    new(big.Int).SetUint64(uint64(s.DepositType)),
					Start:          new(big.Int).SetUint64(s.Start),
					Duration:       new(big.Int).SetUint64(s.Duration),
					AmountTotal:    s.AmountTotal,
					Withdrawed:     s.Withdrawed,
					YieldRate:      s.YieldRate,
					Rewarded:       s.Rewarded,
					WithdrawedTime: new(big.Int).SetUint64(s.WithdrawedTime),
				})
			}
			return []any{out}
		}},
		{"balanceOfNode", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			v, err := ledgerOf(env).BalanceOfNode(nodeID)
			env.Must(err)
			return []any{v}
		}},
		{"balanceOfNodeByDepositType", func(env *xenv.Environment) []any {
			var args struct {
				NodeID      string `abi:"nodeId"`
				DepositType *big.Int
			}
			env.ParseArgs(&args)

			if !args.DepositType.IsUint64() || args.DepositType.Uint64() > 255 {
				return []any{new(big.Int)}
			}
			v, err := ledgerOf(env).BalanceOfNodeByDepositType(args.NodeID, uint8(args.DepositType.Uint64()))
			env.Must(err)
			return []any{v}
		}},
		{"balanceOfSchedule", func(env *xenv.Environment) []any {
			var args struct {
				NodeID        string `abi:"nodeId"`
				ScheduleIndex *big.Int
			}
			env.ParseArgs(&args)

			index := mustUint64(env, args.ScheduleIndex, "schedule is not exsit")
			b, err := ledgerOf(env).BalanceOfSchedule(args.NodeID, index, now(env))
			env.Must(err)
			return []any{b.Withdrawable, b.Interest, b.Remaining}
		}},
		{"claimableBalance", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			v, err := ledgerOf(env).ClaimableBalance(nodeID, now(env))
			env.Must(err)
			return []any{v}
		}},
		{"claimableRewardBalance", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			v, err := ledgerOf(env).ClaimableRewardBalance(nodeID)
			env.Must(err)
			return []any{v}
		}},
		{"claimableInterestBalance", func(env *xenv.Environment) []any {
			var nodeID string
			env.ParseArgs(&nodeID)

			v, err := ledgerOf(env).ClaimableInterestBalance(nodeID, now(env))
			env.Must(err)
			return []any{v}
		}},
		{"balanceOf", func(env *xenv.Environment) []any {
			var beneficiary common.Address
			env.ParseArgs(&beneficiary)

			v, err := ledgerOf(env).BalanceOf(thor.Address(beneficiary))
			env.Must(err)
			return []any{v}
		}},
		{"claimableBalanceOf", func(env *xenv.Environment) []any {
			var beneficiary common.Address
			env.ParseArgs(&beneficiary)

			v, err := ledgerOf(env).ClaimableBalanceOf(thor.Address(beneficiary), now(env))
			env.Must(err)
			return []any{v}
		}},
	}
	defines = append(defines, ownableNatives(NodeStake.contract, func(env *xenv.Environment) *ownable.Role {
		return ledgerOf(env).Owner()
	})...)
	registerNatives(NodeStake.contract, defines)
}
