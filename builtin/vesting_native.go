// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/vesting"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

// vestingTuple is the ABI shape of one lock returned by getVestingSchedule.
type vestingTuple struct {
	Beneficiary thor.Address
	Start       *big.Int
	Duration    *big.Int
	AmountTotal *big.Int
	Released    *big.Int
}

func init() {
	var (
		createdEvent  = Vesting.ABI.MustEvent("VestingScheduleCreated")
		releasedEvent = Vesting.ABI.MustEvent("Released")
		vestingOf     = func(env *xenv.Environment) *vesting.Vesting { return Vesting.WithState(env.State()) }
		vaultAsset    = func(env *xenv.Environment, v *vesting.Vesting) vesting.Asset {
			token, err := v.Token()
			env.Must(err)
			return assetAt(env, token)
		}
	)

	defines := []nativeDefine{
		{"token", func(env *xenv.Environment) []any {
			addr, err := vestingOf(env).Token()
			env.Must(err)
			return []any{addr}
		}},
		{"periods", func(env *xenv.Environment) []any {
			periods, err := vestingOf(env).Periods()
			env.Must(err)
			return []any{periods}
		}},
		{"setPeriods", func(env *xenv.Environment) []any {
			var periods uint64
			env.ParseArgs(&periods)

			env.Must(vestingOf(env).SetPeriods(env.Caller(), periods))
			return nil
		}},
		{"createSchedule", func(env *xenv.Environment) []any {
			var args struct {
				Beneficiary common.Address
				Amount      *big.Int
			}
			env.ParseArgs(&args)

			v := vestingOf(env)
			beneficiary := thor.Address(args.Beneficiary)
			start := env.BlockContext().Time
			index, err := v.CreateSchedule(env.Caller(), beneficiary, args.Amount, start, vaultAsset(env, v))
			env.Must(err)
			periods, err := v.Periods()
			env.Must(err)
			env.Log(createdEvent, nil, beneficiary, args.Amount, new(big.Int).SetUint64(start), new(big.Int).SetUint64(periods))
			return []any{new(big.Int).SetUint64(index)}
		}},
		{"getReleasableAmount", func(env *xenv.Environment) []any {
			var beneficiary common.Address
			env.ParseArgs(&beneficiary)

			amount, err := vestingOf(env).GetReleasableAmount(thor.Address(beneficiary), env.BlockContext().Time)
			env.Must(err)
			return []any{amount}
		}},
		{"release", func(env *xenv.Environment) []any {
			v := vestingOf(env)
			amount, err := v.Release(env.Caller(), env.BlockContext().Time, vaultAsset(env, v))
			env.Must(err)
			env.Log(releasedEvent, nil, env.Caller(), amount)
			return []any{amount}
		}},
		{"getVestingSchedule", func(env *xenv.Environment) []any {
			var beneficiary common.Address
			env.ParseArgs(&beneficiary)

			all, err := vestingOf(env).GetVestingSchedule(thor.Address(beneficiary))
			env.Must(err)
			out := make([]vestingTuple, 0, len(all))
			for _, s := range all {
				out = append(out, vestingTuple{
					Beneficiary: s.Beneficiary,
					Start:       new(big.Int).SetUint64(s.Start),
					Duration:    new(big.Int).SetUint64(s.Duration),
					AmountTotal: s.AmountTotal,
					Released:    s.Released,
				})
			}
			return []any{out}
		}},
		{"locked", func(env *xenv.Environment) []any {
			locked, err := vestingOf(env).Locked()
			env.Must(err)
			return []any{locked}
		}},
	}
	defines = append(defines, ownableNatives(Vesting.contract, func(env *xenv.Environment) *ownable.Role {
		return vestingOf(env).Owner()
	})...)
	registerNatives(Vesting.contract, defines)
}
