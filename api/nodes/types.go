// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nodes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/thor"
)

// Node summarizes a node's binding and balances.
type Node struct {
	ID            string                `json:"id"`
	Beneficiary   *thor.Address         `json:"beneficiary"`
	Balance       *math.HexOrDecimal256 `json:"balance"`
	Reward        *math.HexOrDecimal256 `json:"reward"`
	Claimable     *math.HexOrDecimal256 `json:"claimable"`
	ScheduleCount int                   `json:"scheduleCount"`
}

// Balance splits what the node could claim right now.
type Balance struct {
	Staked            *math.HexOrDecimal256 `json:"staked"`
	ClaimableReward   *math.HexOrDecimal256 `json:"claimableReward"`
	ClaimableInterest *math.HexOrDecimal256 `json:"claimableInterest"`
	Claimable         *math.HexOrDecimal256 `json:"claimable"`
}

type Schedule struct {
	Index          uint64                `json:"index"`
	DepositType    uint8                 `json:"depositType"`
	Start          uint64                `json:"start"`
	End            uint64                `json:"end"`
	Duration       uint64                `json:"duration"`
	AmountTotal    *math.HexOrDecimal256 `json:"amountTotal"`
	Withdrawed     *math.HexOrDecimal256 `json:"withdrawed"`
	YieldRate      *math.HexOrDecimal256 `json:"yieldRate"`
	Rewarded       *math.HexOrDecimal256 `json:"rewarded"`
	WithdrawedTime uint64                `json:"withdrawedTime"`
	Withdrawable   *math.HexOrDecimal256 `json:"withdrawable"`
	Interest       *math.HexOrDecimal256 `json:"interest"`
	Remaining      *math.HexOrDecimal256 `json:"remaining"`
}

func hex(b *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(b)
}

func convertSchedule(index uint64, s *schedule.Schedule, bal *staking.ScheduleBalance) *Schedule {
	return &Schedule{
		Index:          index,
		DepositType:    s.DepositType,
		Start:          s.Start,
		End:            s.End(),
		Duration:       s.Duration,
		AmountTotal:    hex(s.AmountTotal),
		Withdrawed:     hex(s.Withdrawed),
		YieldRate:      hex(s.YieldRate),
		Rewarded:       hex(s.Rewarded),
		WithdrawedTime: s.WithdrawedTime,
		Withdrawable:   hex(bal.Withdrawable),
		Interest:       hex(bal.Interest),
		Remaining:      hex(bal.Remaining),
	}
}
