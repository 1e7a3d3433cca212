// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package schedule holds deposit accrual records and the pure accounting over them.
package schedule

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/nodestake/thor"
)

// ErrOverflow is returned when an accounting value does not fit in 256 bits.
var ErrOverflow = errors.New("schedule: uint256 overflow")

var precision = uint256.MustFromBig(thor.YieldRatePrecision)

// Schedule is the accrual record of one deposit.
type Schedule struct {
	DepositType    uint8
	NodeID         string
	Start          uint64
	Duration       uint64 // in periods
	AmountTotal    *big.Int
	Withdrawed     *big.Int
	YieldRate      *big.Int // 1e18 is 100% over the whole duration
	Rewarded       *big.Int
	WithdrawedTime uint64
}

// New creates a fresh schedule starting at start.
func New(depositType uint8, nodeID string, start, duration uint64, amount, yieldRate *big.Int) *Schedule {
	return &Schedule{
		DepositType: depositType,
		NodeID:      nodeID,
		Start:       start,
		Duration:    duration,
		AmountTotal: new(big.Int).Set(amount),
		Withdrawed:  new(big.Int),
		YieldRate:   new(big.Int).Set(yieldRate),
		Rewarded:    new(big.Int),
	}
}

func word(b *big.Int) (*uint256.Int, error) {
	if b == nil {
		return new(uint256.Int), nil
	}
	if b.Sign() < 0 {
		return nil, ErrOverflow
	}
	w, overflow := uint256.FromBig(b)
	if overflow {
		return nil, ErrOverflow
	}
	return w, nil
}

// subFloor returns a-b, or zero when b exceeds a.
func subFloor(a, b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int).Set(a)
	}
	if a.Cmp(b) <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(a, b)
}

// End returns the time at which the schedule has fully matured.
func (s *Schedule) End() uint64 {
	return s.Start + s.Duration*thor.PeriodLength
}

// ElapsedPeriods returns the whole periods passed since start, capped at the duration.
func (s *Schedule) ElapsedPeriods(now uint64) uint64 {
	if now <= s.Start {
		return 0
	}
	return min((now-s.Start)/thor.PeriodLength, s.Duration)
}

// AccruedReward is amountTotal * yieldRate / 1e18 * elapsed / duration.
func (s *Schedule) AccruedReward(now uint64) (*big.Int, error) {
	elapsed := s.ElapsedPeriods(now)
	if elapsed == 0 || s.Duration == 0 {
		return new(big.Int), nil
	}
	amount, err := word(s.AmountTotal)
	if err != nil {
		return nil, err
	}
	rate, err := word(s.YieldRate)
	if err != nil {
		return nil, err
	}
	v, overflow := new(uint256.Int).MulOverflow(amount, rate)
	if overflow {
		return nil, ErrOverflow
	}
	v.Div(v, precision)
	if _, overflow = v.MulOverflow(v, uint256.NewInt(elapsed)); overflow {
		return nil, ErrOverflow
	}
	v.Div(v, uint256.NewInt(s.Duration))
	return v.ToBig(), nil
}

// ClaimableReward is the accrued reward not yet paid out.
func (s *Schedule) ClaimableReward(now uint64) (*big.Int, error) {
	accrued, err := s.AccruedReward(now)
	if err != nil {
		return nil, err
	}
	return subFloor(accrued, s.Rewarded), nil
}

// ReleasedPrincipal is the part of the principal unlocked by the table at now.
// A matured schedule releases everything.
func (s *Schedule) ReleasedPrincipal(now uint64, table ReleaseTable) (*big.Int, error) {
	elapsed := s.ElapsedPeriods(now)
	if elapsed >= s.Duration {
		return new(big.Int).Set(s.AmountTotal), nil
	}
	permille := table.Permille(elapsed)
	if permille == 0 {
		return new(big.Int), nil
	}
	amount, err := word(s.AmountTotal)
	if err != nil {
		return nil, err
	}
	v, overflow := new(uint256.Int).MulOverflow(amount, uint256.NewInt(permille))
	if overflow {
		return nil, ErrOverflow
	}
	v.Div(v, uint256.NewInt(thor.PermilleBase))
	return v.ToBig(), nil
}

// WithdrawableBalance is the released principal not yet withdrawn.
func (s *Schedule) WithdrawableBalance(now uint64, table ReleaseTable) (*big.Int, error) {
	released, err := s.ReleasedPrincipal(now, table)
	if err != nil {
		return nil, err
	}
	return subFloor(released, s.Withdrawed), nil
}

// Remaining is the principal still held for the schedule.
func (s *Schedule) Remaining() *big.Int {
	return subFloor(s.AmountTotal, s.Withdrawed)
}

// IsFullyWithdrawn reports whether the schedule has reached its terminal state.
func (s *Schedule) IsFullyWithdrawn() bool {
	return s.Withdrawed != nil && s.Withdrawed.Cmp(s.AmountTotal) >= 0
}
