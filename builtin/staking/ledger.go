// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/thor"
)

// Deposited describes an accepted deposit.
type Deposited struct {
	Beneficiary thor.Address
	Index       uint64
}

// Withdrawal describes a principal release with its settled interest.
type Withdrawal struct {
	Beneficiary thor.Address
	Amount      *big.Int
	Interest    *big.Int
	Index       uint64
}

// Claim describes a reward and interest payout.
type Claim struct {
	Beneficiary thor.Address
	Reward      *big.Int
	Interest    *big.Int
}

// Deposit stakes amount for nodeID under the terms of depositType. A non-nil
// receipt mints the same amount of staking token to the caller.
func (l *Ledger) Deposit(caller thor.Address, nodeID string, depositType uint8, amount *big.Int, now uint64, asset Asset, receipt Receipt) (*Deposited, error) {
	var result *Deposited
	err := l.nonReentrant(func() error {
		ok, err := l.canDeposit.Get()
		if err != nil {
			return err
		}
		if !ok {
			return reverts.New("deposit stop")
		}
		limits, err := l.Limits()
		if err != nil {
			return err
		}
		if amount.Cmp(limits.Min) < 0 {
			return reverts.New("deposit: less than minimum limit")
		}
		if limits.Max.Sign() != 0 && amount.Cmp(limits.Max) > 0 {
			return reverts.New("deposit: greater than maximum limit")
		}
		if amount.Sign() <= 0 {
			return reverts.New("deposit: amount not good")
		}
		beneficiary, err := l.registry.BeneficiaryOf(nodeID)
		if err != nil {
			return err
		}
		if beneficiary.IsZero() {
			return reverts.NewAuthorization("deposit: beneficiary not good")
		}
		terms, err := l.Terms(depositType)
		if err != nil {
			return err
		}
		if terms == nil {
			return reverts.New("deposit: depositType not good")
		}

		if err := asset.Pull(caller, amount); err != nil {
			return err
		}
		index, err := l.schedules.Append(schedule.New(depositType, nodeID, now, terms.Duration, amount, terms.YieldRate))
		if err != nil {
			return err
		}
		if err := l.tokenInPool.Add(amount); err != nil {
			return err
		}
		if receipt != nil {
			if err := receipt.Mint(caller, amount); err != nil {
				return err
			}
		}
		result = &Deposited{Beneficiary: beneficiary, Index: index}
		return nil
	})
	if err != nil {
		logger.Info("deposit failed", "node", nodeID, "caller", caller, "error", err)
		return nil, err
	}
	logger.Debug("deposited", "node", nodeID, "amount", amount, "index", result.Index)
	return result, nil
}

// Withdraw releases the withdrawable principal of one schedule to destination
// and settles the schedule's interest as far as the reward surplus allows.
// A non-nil receipt burns the released amount of staking token from the caller.
func (l *Ledger) Withdraw(caller thor.Address, nodeID string, index uint64, destination thor.Address, now uint64, asset Asset, vault Vault, receipt Receipt) (*Withdrawal, error) {
	var result *Withdrawal
	err := l.nonReentrant(func() error {
		if err := l.requireWithdrawable(); err != nil {
			return err
		}
		if err := l.registry.RequireBeneficiary(nodeID, caller, "withdraw: beneficiary is invalid"); err != nil {
			return err
		}
		sched, err := l.schedules.Get(nodeID, index)
		if err != nil {
			if errors.Is(err, schedule.ErrNotFound) {
				return reverts.New("withdraw: schedule is not exsit")
			}
			return err
		}
		table, err := l.ReleaseTable()
		if err != nil {
			return err
		}
		amount, err := sched.WithdrawableBalance(now, table)
		if err != nil {
			return err
		}
		if amount.Sign() == 0 {
			return reverts.New("withdraw: withdrawableBalance is zero")
		}
		interest, err := sched.ClaimableReward(now)
		if err != nil {
			return err
		}
		surplus, err := l.freeSurplus(asset)
		if err != nil {
			return err
		}
		if interest.Cmp(surplus) > 0 {
			interest = surplus
		}

		// effects
		if receipt != nil {
			if err := receipt.Burn(caller, amount); err != nil {
				return err
			}
		}
		sched.Withdrawed = new(big.Int).Add(sched.Withdrawed, amount)
		sched.WithdrawedTime = now
		sched.Rewarded = new(big.Int).Add(sched.Rewarded, interest)
		if err := l.schedules.Update(index, sched); err != nil {
			return err
		}
		if err := l.tokenInPool.Sub(amount); err != nil {
			return err
		}

		// interactions
		if vault != nil {
			if err := vault.Lock(destination, amount); err != nil {
				return err
			}
		} else if err := asset.Push(destination, amount); err != nil {
			return err
		}
		if interest.Sign() > 0 {
			if err := asset.Push(destination, interest); err != nil {
				return err
			}
		}
		result = &Withdrawal{Beneficiary: caller, Amount: amount, Interest: interest, Index: index}
		return nil
	})
	if err != nil {
		logger.Info("withdraw failed", "node", nodeID, "index", index, "error", err)
		return nil, err
	}
	logger.Debug("withdrawed", "node", nodeID, "index", index, "amount", result.Amount, "interest", result.Interest)
	return result, nil
}

// Claim pays the node's reward pool and all claimable interest to destination.
func (l *Ledger) Claim(caller thor.Address, nodeID string, destination thor.Address, now uint64, asset Asset) (*Claim, error) {
	var result *Claim
	err := l.nonReentrant(func() error {
		if err := l.requireWithdrawable(); err != nil {
			return err
		}
		if nodeID == "" {
			return reverts.New("claim: nodeId not good")
		}
		if err := l.registry.RequireBeneficiary(nodeID, caller, "claim: beneficiary is invalid"); err != nil {
			return err
		}
		reward, err := l.NodeReward(nodeID)
		if err != nil {
			return err
		}
		scheds, err := l.schedules.All(nodeID)
		if err != nil {
			return err
		}
		interest := new(big.Int)
		claimable := make([]*big.Int, len(scheds))
		for i, sched := range scheds {
			if claimable[i], err = sched.ClaimableReward(now); err != nil {
				return err
			}
			interest.Add(interest, claimable[i])
		}
		total := new(big.Int).Add(reward, interest)
		if total.Sign() == 0 {
			return reverts.New("claim: claimable balance is zero")
		}
		// the node's own reward comes from its earmark, interest only from the unearmarked surplus
		pool, err := l.RewardInPool(asset)
		if err != nil {
			return err
		}
		free, err := l.freeSurplus(asset)
		if err != nil {
			return err
		}
		if reward.Cmp(pool) > 0 || interest.Cmp(free) > 0 {
			return reverts.NewInsufficientFunds("claim: rewardInPool is not enough")
		}

		// effects
		for i, sched := range scheds {
			if claimable[i].Sign() == 0 {
				continue
			}
			sched.Rewarded = new(big.Int).Add(sched.Rewarded, claimable[i])
			if err := l.schedules.Update(uint64(i), sched); err != nil {
				return err
			}
		}
		if reward.Sign() > 0 {
			if err := l.nodeRewards.Set(solidity.StringKey(nodeID), nil); err != nil {
				return err
			}
			if err := l.rewardTotal.Sub(reward); err != nil {
				return err
			}
		}

		// interactions
		if err := asset.Push(destination, total); err != nil {
			return err
		}
		result = &Claim{Beneficiary: caller, Reward: reward, Interest: interest}
		return nil
	})
	if err != nil {
		logger.Info("claim failed", "node", nodeID, "error", err)
		return nil, err
	}
	logger.Debug("claimed", "node", nodeID, "reward", result.Reward, "interest", result.Interest)
	return result, nil
}

// TransferRewardTo funds the reward pool of nodeID from the owner.
func (l *Ledger) TransferRewardTo(caller thor.Address, nodeID string, amount *big.Int, asset Asset) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	if nodeID == "" {
		return reverts.New("transferRewardTo: nodeId not good")
	}
	if amount.Sign() <= 0 {
		return reverts.New("transferRewardTo: amount not good")
	}
	if err := asset.Pull(caller, amount); err != nil {
		return err
	}
	current, err := l.NodeReward(nodeID)
	if err != nil {
		return err
	}
	if err := l.nodeRewards.Set(solidity.StringKey(nodeID), current.Add(current, amount)); err != nil {
		return err
	}
	if err := l.rewardTotal.Add(amount); err != nil {
		return err
	}
	logger.Debug("reward transferred", "node", nodeID, "amount", amount)
	return nil
}

// WithdrawRewardForEmergency returns surplus funds to the owner. Outstanding
// principal can never be touched.
func (l *Ledger) WithdrawRewardForEmergency(caller thor.Address, amount *big.Int, asset Asset) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	balance, err := asset.Balance()
	if err != nil {
		return err
	}
	if amount.Cmp(balance) > 0 {
		return reverts.NewInsufficientFunds("withdrawRewardForEmergency: balance of tokens is not enough")
	}
	surplus, err := l.RewardInPool(asset)
	if err != nil {
		return err
	}
	if amount.Cmp(surplus) > 0 {
		return reverts.NewInsufficientFunds("withdrawRewardForEmergency: rewardInPool is not enough")
	}
	if err := asset.Push(caller, amount); err != nil {
		return err
	}
	logger.Info("emergency withdrawal", "amount", amount)
	return nil
}

func (l *Ledger) requireWithdrawable() error {
	ok, err := l.canWithdraw.Get()
	if err != nil {
		return err
	}
	if !ok {
		return reverts.New("withdrawls and claims have been banned")
	}
	return nil
}

// freeSurplus is the reward surplus not earmarked for node reward pools.
func (l *Ledger) freeSurplus(asset Asset) (*big.Int, error) {
	surplus, err := l.RewardInPool(asset)
	if err != nil {
		return nil, err
	}
	earmarked, err := l.rewardTotal.Get()
	if err != nil {
		return nil, err
	}
	if surplus.Cmp(earmarked) <= 0 {
		return new(big.Int), nil
	}
	return surplus.Sub(surplus, earmarked), nil
}
