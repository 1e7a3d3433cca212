// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/thor"
)

// ScheduleBalance is the read-only view of one schedule at a point in time.
type ScheduleBalance struct {
	Withdrawable *big.Int
	Interest     *big.Int
	Remaining    *big.Int
}

// GetSchedules returns every schedule of the node, in deposit order.
func (l *Ledger) GetSchedules(nodeID string) ([]*schedule.Schedule, error) {
	return l.schedules.All(nodeID)
}

// BalanceOfNode is the outstanding principal staked for the node.
func (l *Ledger) BalanceOfNode(nodeID string) (*big.Int, error) {
	return l.sumRemaining(nodeID, func(*schedule.Schedule) bool { return true })
}

// BalanceOfNodeByDepositType is BalanceOfNode restricted to one deposit type.
func (l *Ledger) BalanceOfNodeByDepositType(nodeID string, depositType uint8) (*big.Int, error) {
	return l.sumRemaining(nodeID, func(s *schedule.Schedule) bool { return s.DepositType == depositType })
}

func (l *Ledger) sumRemaining(nodeID string, filter func(*schedule.Schedule) bool) (*big.Int, error) {
	scheds, err := l.schedules.All(nodeID)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, s := range scheds {
		if filter(s) {
			sum.Add(sum, s.Remaining())
		}
	}
	return sum, nil
}

// BalanceOfSchedule returns the withdrawable principal, claimable interest and
// remaining principal of one schedule.
func (l *Ledger) BalanceOfSchedule(nodeID string, index uint64, now uint64) (*ScheduleBalance, error) {
	sched, err := l.schedules.Get(nodeID, index)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			return nil, reverts.New("schedule is not exsit")
		}
		return nil, err
	}
	table, err := l.ReleaseTable()
	if err != nil {
		return nil, err
	}
	withdrawable, err := sched.WithdrawableBalance(now, table)
	if err != nil {
		return nil, err
	}
	interest, err := sched.ClaimableReward(now)
	if err != nil {
		return nil, err
	}
	return &ScheduleBalance{withdrawable, interest, sched.Remaining()}, nil
}

// ClaimableRewardBalance is the owner funded reward waiting in the node's pool.
func (l *Ledger) ClaimableRewardBalance(nodeID string) (*big.Int, error) {
	return l.NodeReward(nodeID)
}

// ClaimableInterestBalance is the interest accrued and not yet paid over all node schedules.
func (l *Ledger) ClaimableInterestBalance(nodeID string, now uint64) (*big.Int, error) {
	scheds, err := l.schedules.All(nodeID)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, s := range scheds {
		v, err := s.ClaimableReward(now)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, v)
	}
	return sum, nil
}

// ClaimableBalance is what Claim would pay for the node.
func (l *Ledger) ClaimableBalance(nodeID string, now uint64) (*big.Int, error) {
	reward, err := l.ClaimableRewardBalance(nodeID)
	if err != nil {
		return nil, err
	}
	interest, err := l.ClaimableInterestBalance(nodeID, now)
	if err != nil {
		return nil, err
	}
	return reward.Add(reward, interest), nil
}

// BalanceOf sums the outstanding principal of every node bound to beneficiary.
func (l *Ledger) BalanceOf(beneficiary thor.Address) (*big.Int, error) {
	return l.sumNodes(beneficiary, func(nodeID string) (*big.Int, error) {
		return l.BalanceOfNode(nodeID)
	})
}

// ClaimableBalanceOf sums ClaimableBalance over every node bound to beneficiary.
func (l *Ledger) ClaimableBalanceOf(beneficiary thor.Address, now uint64) (*big.Int, error) {
	return l.sumNodes(beneficiary, func(nodeID string) (*big.Int, error) {
		return l.ClaimableBalance(nodeID, now)
	})
}

func (l *Ledger) sumNodes(beneficiary thor.Address, fn func(string) (*big.Int, error)) (*big.Int, error) {
	nodes, err := l.registry.NodesOf(beneficiary)
	if err != nil {
		return nil, err
	}
	sum := new(big.Int)
	for _, id := range nodes {
		v, err := fn(id)
		if err != nil {
			return nil, err
		}
		sum.Add(sum, v)
	}
	return sum, nil
}
