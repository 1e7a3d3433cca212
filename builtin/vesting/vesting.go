// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting implements a linear time-lock vault. Funds locked for a
// beneficiary become releasable pro rata over a fixed number of periods.
package vesting

import (
	"math/big"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	logger = log.WithContext("pkg", "vesting")

	slotPeriods   = thor.SlotOf("periods")
	slotSchedules = thor.SlotOf("schedules")
	slotLocked    = thor.SlotOf("locked")
	slotToken     = thor.SlotOf("token")
)

// Asset moves the locked asset in and out of the vault.
type Asset interface {
	Pull(from thor.Address, amount *big.Int) error
	Push(to thor.Address, amount *big.Int) error
}

// Schedule is one lock created for a beneficiary.
type Schedule struct {
	Beneficiary thor.Address
	Start       uint64
	Duration    uint64 // in periods
	AmountTotal *big.Int
	Released    *big.Int
}

// Vested is the amount unlocked at now.
func (s *Schedule) Vested(now uint64) *big.Int {
	if now <= s.Start {
		return new(big.Int)
	}
	span := s.Duration * thor.PeriodLength
	elapsed := now - s.Start
	if span == 0 || elapsed >= span {
		return new(big.Int).Set(s.AmountTotal)
	}
	v := new(big.Int).Mul(s.AmountTotal, new(big.Int).SetUint64(elapsed))
	return v.Div(v, new(big.Int).SetUint64(span))
}

// Releasable is the vested amount not yet released.
func (s *Schedule) Releasable(now uint64) *big.Int {
	return new(big.Int).Sub(s.Vested(now), s.Released)
}

// Vesting implements native methods of the `Vesting` contract.
type Vesting struct {
	sctx    *solidity.Context
	owner   *ownable.Role
	periods *solidity.Raw[uint64]
	locked  *solidity.Uint256
	token   *solidity.Address
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Vesting {
	sctx := solidity.NewContext(addr, state)
	return &Vesting{
		sctx:    sctx,
		owner:   ownable.NewOwner(sctx),
		periods: solidity.NewRaw[uint64](sctx, slotPeriods),
		locked:  solidity.NewUint256(sctx, slotLocked),
		token:   solidity.NewAddress(sctx, slotToken),
	}
}

func (v *Vesting) Address() thor.Address     { return v.sctx.Address() }
func (v *Vesting) Owner() *ownable.Role      { return v.owner }
func (v *Vesting) Periods() (uint64, error)  { return v.periods.Get() }
func (v *Vesting) Locked() (*big.Int, error) { return v.locked.Get() }

// Token is the locked token contract, zero when the vault holds native balance.
func (v *Vesting) Token() (thor.Address, error) { return v.token.Get() }

func (v *Vesting) schedules(beneficiary thor.Address) *solidity.Array[*Schedule] {
	return solidity.NewArray[*Schedule](v.sctx, thor.Blake2b(slotSchedules.Bytes(), beneficiary.Bytes()))
}

// Initialize configures the vault at genesis. A zero token locks native balance.
func (v *Vesting) Initialize(owner thor.Address, periods uint64, token thor.Address) error {
	v.owner.Set(owner)
	v.token.Set(token)
	return v.periods.Set(periods)
}

// SetPeriods changes the lock length of schedules created afterwards.
func (v *Vesting) SetPeriods(caller thor.Address, periods uint64) error {
	if err := v.owner.Require(caller); err != nil {
		return err
	}
	return v.periods.Set(periods)
}

// CreateSchedule locks amount pulled from caller for beneficiary, starting at now.
func (v *Vesting) CreateSchedule(caller, beneficiary thor.Address, amount *big.Int, now uint64, asset Asset) (uint64, error) {
	if beneficiary.IsZero() {
		return 0, reverts.New("createSchedule: beneficiary not good")
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, reverts.New("createSchedule: amount not good")
	}
	periods, err := v.periods.Get()
	if err != nil {
		return 0, err
	}
	if err := asset.Pull(caller, amount); err != nil {
		return 0, err
	}
	index, err := v.schedules(beneficiary).Append(&Schedule{
		Beneficiary: beneficiary,
		Start:       now,
		Duration:    periods,
		AmountTotal: new(big.Int).Set(amount),
		Released:    new(big.Int),
	})
	if err != nil {
		return 0, err
	}
	if err := v.locked.Add(amount); err != nil {
		return 0, err
	}
	logger.Debug("schedule created", "beneficiary", beneficiary, "amount", amount, "index", index)
	return index, nil
}

// GetVestingSchedule lists every schedule of beneficiary.
func (v *Vesting) GetVestingSchedule(beneficiary thor.Address) ([]*Schedule, error) {
	return v.schedules(beneficiary).All()
}

// GetReleasableAmount sums the releasable amounts of beneficiary at now.
func (v *Vesting) GetReleasableAmount(beneficiary thor.Address, now uint64) (*big.Int, error) {
	all, err := v.GetVestingSchedule(beneficiary)
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, s := range all {
		total.Add(total, s.Releasable(now))
	}
	return total, nil
}

// Release pays every releasable amount of caller to caller.
func (v *Vesting) Release(caller thor.Address, now uint64, asset Asset) (*big.Int, error) {
	arr := v.schedules(caller)
	all, err := arr.All()
	if err != nil {
		return nil, err
	}
	total := new(big.Int)
	for i, s := range all {
		amount := s.Releasable(now)
		if amount.Sign() == 0 {
			continue
		}
		s.Released.Add(s.Released, amount)
		if err := arr.Set(uint64(i), s); err != nil {
			return nil, err
		}
		total.Add(total, amount)
	}
	if total.Sign() == 0 {
		return nil, reverts.New("release: releasable amount is zero")
	}
	if err := v.locked.Sub(total); err != nil {
		return nil, err
	}
	if err := asset.Push(caller, total); err != nil {
		return nil, err
	}
	return total, nil
}
