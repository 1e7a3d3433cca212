// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the node staking ledger: deposits into vesting
// schedules, principal release, interest and owner funded node rewards.
package staking

import (
	"math/big"

	"github.com/vechain/nodestake/builtin/nodebind"
	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	logger = log.WithContext("pkg", "staking")

	slotCanDeposit   = thor.SlotOf("can-deposit")
	slotCanWithdraw  = thor.SlotOf("can-withdraw")
	slotMinLimit     = thor.SlotOf("min-limit")
	slotMaxLimit     = thor.SlotOf("max-limit")
	slotTokenInPool  = thor.SlotOf("token-in-pool")
	slotNodeRewards  = thor.SlotOf("node-rewards")
	slotRewardTotal  = thor.SlotOf("node-rewards-total")
	slotTerms        = thor.SlotOf("deposit-terms")
	slotReleaseTable = thor.SlotOf("release-table")
	slotSchedules    = thor.SlotOf("schedules")
	slotToken        = thor.SlotOf("token")
	slotVault        = thor.SlotOf("vault")
	slotStakingToken = thor.SlotOf("staking-token")
	slotEntered      = thor.SlotOf("entered")
)

// Terms are the product parameters a deposit type is opened with.
type Terms struct {
	Duration  uint64
	YieldRate *big.Int
}

// Limits bound a single deposit. A zero Max means no upper bound.
type Limits struct {
	Min *big.Int
	Max *big.Int
}

// Ledger implements the native methods of the `NodeStake` contract.
type Ledger struct {
	addr     thor.Address
	owner    *ownable.Role
	manager  *ownable.Role
	registry *nodebind.Registry

	canDeposit   *solidity.Raw[bool]
	canWithdraw  *solidity.Raw[bool]
	minLimit     *solidity.Uint256
	maxLimit     *solidity.Uint256
	tokenInPool  *solidity.Uint256
	rewardTotal  *solidity.Uint256
	nodeRewards  *solidity.Mapping[solidity.StringKey, *big.Int]
	terms        *solidity.Mapping[solidity.Uint64Key, *Terms]
	releaseTable *solidity.Raw[schedule.ReleaseTable]
	schedules    *schedule.Store
	token        *solidity.Address
	vault        *solidity.Address
	stakingToken *solidity.Address
	entered      *solidity.Raw[bool]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Ledger {
	sctx := solidity.NewContext(addr, state)
	manager := ownable.NewManager(sctx)
	return &Ledger{
		addr:         addr,
		owner:        ownable.NewOwner(sctx),
		manager:      manager,
		registry:     nodebind.New(sctx, manager),
		canDeposit:   solidity.NewRaw[bool](sctx, slotCanDeposit),
		canWithdraw:  solidity.NewRaw[bool](sctx, slotCanWithdraw),
		minLimit:     solidity.NewUint256(sctx, slotMinLimit),
		maxLimit:     solidity.NewUint256(sctx, slotMaxLimit),
		tokenInPool:  solidity.NewUint256(sctx, slotTokenInPool),
		rewardTotal:  solidity.NewUint256(sctx, slotRewardTotal),
		nodeRewards:  solidity.NewMapping[solidity.StringKey, *big.Int](sctx, slotNodeRewards),
		terms:        solidity.NewMapping[solidity.Uint64Key, *Terms](sctx, slotTerms),
		releaseTable: solidity.NewRaw[schedule.ReleaseTable](sctx, slotReleaseTable),
		schedules:    schedule.NewStore(sctx, slotSchedules),
		token:        solidity.NewAddress(sctx, slotToken),
		vault:        solidity.NewAddress(sctx, slotVault),
		stakingToken: solidity.NewAddress(sctx, slotStakingToken),
		entered:      solidity.NewRaw[bool](sctx, slotEntered),
	}
}

func (l *Ledger) Address() thor.Address               { return l.addr }
func (l *Ledger) Owner() *ownable.Role                { return l.owner }
func (l *Ledger) Manager() *ownable.Role              { return l.manager }
func (l *Ledger) Registry() *nodebind.Registry        { return l.registry }
func (l *Ledger) Schedules() *schedule.Store          { return l.schedules }
func (l *Ledger) TokenInPool() (*big.Int, error)      { return l.tokenInPool.Get() }
func (l *Ledger) RewardTotal() (*big.Int, error)      { return l.rewardTotal.Get() }
func (l *Ledger) Token() (thor.Address, error)        { return l.token.Get() }
func (l *Ledger) Vault() (thor.Address, error)        { return l.vault.Get() }
func (l *Ledger) StakingToken() (thor.Address, error) { return l.stakingToken.Get() }
func (l *Ledger) CanDeposit() (bool, error)           { return l.canDeposit.Get() }
func (l *Ledger) CanWithdraw() (bool, error)          { return l.canWithdraw.Get() }
func (l *Ledger) NodeReward(nodeID string) (*big.Int, error) {
	v, err := l.nodeRewards.Get(solidity.StringKey(nodeID))
	if err != nil || v == nil {
		return new(big.Int), err
	}
	return v, nil
}

// Limits returns the configured deposit bounds.
func (l *Ledger) Limits() (*Limits, error) {
	lo, err := l.minLimit.Get()
	if err != nil {
		return nil, err
	}
	hi, err := l.maxLimit.Get()
	if err != nil {
		return nil, err
	}
	return &Limits{Min: lo, Max: hi}, nil
}

// Terms returns the terms of a deposit type, nil when the type is not offered.
func (l *Ledger) Terms(depositType uint8) (*Terms, error) {
	return l.terms.Get(solidity.Uint64Key(depositType))
}

// ReleaseTable returns the configured principal release curve.
func (l *Ledger) ReleaseTable() (schedule.ReleaseTable, error) {
	table, err := l.releaseTable.Get()
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return schedule.DefaultReleaseTable(), nil
	}
	return table, nil
}

// RewardInPool is what the ledger holds beyond outstanding principal.
func (l *Ledger) RewardInPool(asset Asset) (*big.Int, error) {
	balance, err := asset.Balance()
	if err != nil {
		return nil, err
	}
	staked, err := l.tokenInPool.Get()
	if err != nil {
		return nil, err
	}
	if balance.Cmp(staked) <= 0 {
		return new(big.Int), nil
	}
	return balance.Sub(balance, staked), nil
}

// Initialize configures a freshly created ledger at genesis.
func (l *Ledger) Initialize(owner, manager, token, vault thor.Address, limits Limits, table schedule.ReleaseTable) error {
	if err := table.Validate(); err != nil {
		return err
	}
	l.owner.Set(owner)
	l.manager.Set(manager)
	l.token.Set(token)
	l.vault.Set(vault)
	l.minLimit.Set(limits.Min)
	l.maxLimit.Set(limits.Max)
	if err := l.releaseTable.Set(table); err != nil {
		return err
	}
	if err := l.canDeposit.Set(true); err != nil {
		return err
	}
	if err := l.canWithdraw.Set(true); err != nil {
		return err
	}
	return l.terms.Set(0, &Terms{Duration: thor.DefaultDuration, YieldRate: new(big.Int).Set(thor.DefaultYieldRate)})
}

func (l *Ledger) SetLimit(caller thor.Address, lo, hi *big.Int) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	if hi.Sign() != 0 && lo.Cmp(hi) > 0 {
		return reverts.New("setLimit: min greater than max")
	}
	l.minLimit.Set(lo)
	l.maxLimit.Set(hi)
	return nil
}

func (l *Ledger) SetCanDeposit(caller thor.Address, v bool) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	return l.canDeposit.Set(v)
}

func (l *Ledger) SetCanWithdraw(caller thor.Address, v bool) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	return l.canWithdraw.Set(v)
}

// SetManager replaces the bind signer.
func (l *Ledger) SetManager(caller, manager thor.Address) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	if manager.IsZero() {
		return reverts.New("setManager: manager not good")
	}
	l.manager.Set(manager)
	return nil
}

// SetDepositTerms opens (or changes) a deposit type. Existing schedules keep their terms.
func (l *Ledger) SetDepositTerms(caller thor.Address, depositType uint8, duration uint64, yieldRate *big.Int) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	if duration == 0 {
		return reverts.New("invalid duration")
	}
	return l.terms.Set(solidity.Uint64Key(depositType), &Terms{Duration: duration, YieldRate: new(big.Int).Set(yieldRate)})
}

func (l *Ledger) SetReleaseTable(caller thor.Address, table schedule.ReleaseTable) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return reverts.New("setReleaseTable: " + err.Error())
	}
	return l.releaseTable.Set(table)
}

// SetVault routes withdrawn principal into a time-lock vault, zero disables it.
func (l *Ledger) SetVault(caller, vault thor.Address) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	l.vault.Set(vault)
	return nil
}

// SetStakingToken selects the receipt token minted for deposits, zero disables receipts.
func (l *Ledger) SetStakingToken(caller, token thor.Address) error {
	if err := l.owner.Require(caller); err != nil {
		return err
	}
	l.stakingToken.Set(token)
	return nil
}

func (l *Ledger) TransferOwnership(caller, next thor.Address) (thor.Address, error) {
	return l.owner.Transfer(caller, next)
}

// nonReentrant runs fn with the ledger locked against nested entry.
func (l *Ledger) nonReentrant(fn func() error) error {
	entered, err := l.entered.Get()
	if err != nil {
		return err
	}
	if entered {
		return reverts.New("reentrant call")
	}
	if err := l.entered.Set(true); err != nil {
		return err
	}
	ferr := fn()
	if err := l.entered.Set(false); err != nil {
		return err
	}
	return ferr
}
