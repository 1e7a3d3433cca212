// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis turns a Config into the initial state of every builtin contract.
package genesis

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// Genesis is a validated genesis preset.
type Genesis struct {
	builder    *Builder
	chainID    uint64
	launchTime uint64
}

func (g *Genesis) ChainID() uint64    { return g.chainID }
func (g *Genesis) LaunchTime() uint64 { return g.launchTime }

// Build writes the genesis state into store.
func (g *Genesis) Build(store kv.Store) (*state.State, tx.Events, error) {
	return g.builder.Build(store)
}

// Build is a shorthand for New followed by Genesis.Build.
func Build(cfg *Config, store kv.Store) (*state.State, error) {
	gen, err := New(cfg)
	if err != nil {
		return nil, err
	}
	st, _, err := gen.Build(store)
	return st, err
}

// New validates cfg and prepares the genesis builder.
func New(cfg *Config) (*Genesis, error) {
	chainID := cfg.ChainID
	if chainID == 0 {
		chainID = thor.DefaultChainID
	}
	b := new(Builder).ChainID(chainID).Timestamp(cfg.LaunchTime)

	if err := allocAccounts(b, cfg.Accounts); err != nil {
		return nil, err
	}

	var token thor.Address
	if cfg.Token != nil {
		if err := setupToken(b, cfg.Token); err != nil {
			return nil, errors.WithMessage(err, "token")
		}
	}
	if cfg.NodeStake.UseToken {
		if cfg.Token == nil {
			return nil, errors.New("nodeStake: useToken requires a token section")
		}
		token = builtin.Token.Address
	}

	if cfg.Vesting != nil {
		owner, err := cfg.Vesting.Owner.Resolve()
		if err != nil {
			return nil, errors.WithMessage(err, "vesting")
		}
		periods := cfg.Vesting.Periods
		b.State(func(st *state.State) error {
			return builtin.Vesting.WithState(st).Initialize(owner, periods, token)
		})
	}

	if err := setupNodeStake(b, &cfg.NodeStake, token, cfg.Vesting != nil); err != nil {
		return nil, errors.WithMessage(err, "nodeStake")
	}
	if cfg.SignedClaim != nil {
		if err := setupSignedClaim(b, cfg.SignedClaim, token); err != nil {
			return nil, errors.WithMessage(err, "signedClaim")
		}
	}
	if cfg.Executor != nil {
		owner, err := cfg.Executor.Owner.Resolve()
		if err != nil {
			return nil, errors.WithMessage(err, "executor")
		}
		signers, err := resolveAll(cfg.Executor.Signers)
		if err != nil {
			return nil, errors.WithMessage(err, "executor")
		}
		b.State(func(st *state.State) error {
			return builtin.Executor.WithState(st).Initialize(owner, signers)
		})
	}
	if cfg.MultiSig != nil {
		owners, err := resolveAll(cfg.MultiSig.Owners)
		if err != nil {
			return nil, errors.WithMessage(err, "multiSig")
		}
		required := cfg.MultiSig.Required
		b.State(func(st *state.State) error {
			return builtin.MultiSig.WithState(st).Initialize(owners, required)
		})
	}

	return &Genesis{builder: b, chainID: chainID, launchTime: cfg.LaunchTime}, nil
}

func allocAccounts(b *Builder, accounts []Account) error {
	type alloc struct {
		addr    thor.Address
		balance *big.Int
	}
	allocs := make([]alloc, 0, len(accounts))
	for _, a := range accounts {
		addr, err := a.Address.Resolve()
		if err != nil {
			return errors.WithMessage(err, "accounts")
		}
		balance, err := a.Balance.Wei()
		if err != nil {
			return errors.WithMessagef(err, "accounts: %s", addr)
		}
		allocs = append(allocs, alloc{addr, balance})
	}
	b.State(func(st *state.State) error {
		for _, a := range allocs {
			if err := st.AddBalance(a.addr, a.balance); err != nil {
				return err
			}
		}
		return nil
	})
	return nil
}

func setupToken(b *Builder, cfg *Token) error {
	owner, err := cfg.Owner.Resolve()
	if err != nil {
		return err
	}
	b.State(func(st *state.State) error {
		return builtin.Token.WithState(st).Initialize(owner, cfg.Name, cfg.Symbol, cfg.Decimals)
	})
	for _, m := range cfg.Mint {
		to, err := m.Address.Resolve()
		if err != nil {
			return err
		}
		amount, err := m.Balance.Wei()
		if err != nil {
			return err
		}
		data, err := builtin.Token.ABI.MustMethod("mint").EncodeInput(to, amount)
		if err != nil {
			return errors.Wrap(err, "encode mint")
		}
		b.Call(tx.NewClause(builtin.Token.Address).WithData(data), owner)
	}
	return nil
}

func setupNodeStake(b *Builder, cfg *NodeStake, token thor.Address, hasVesting bool) error {
	owner, err := cfg.Owner.Resolve()
	if err != nil {
		return err
	}
	manager, err := cfg.Manager.Resolve()
	if err != nil {
		return err
	}
	var vault thor.Address
	if cfg.UseVault {
		if !hasVesting {
			return errors.New("useVault requires a vesting section")
		}
		vault = builtin.Vesting.Address
	}
	minLimit, err := cfg.MinLimit.Wei()
	if err != nil {
		return err
	}
	maxLimit, err := cfg.MaxLimit.Wei()
	if err != nil {
		return err
	}
	table := schedule.DefaultReleaseTable()
	if len(cfg.ReleaseTable) > 0 {
		table = make(schedule.ReleaseTable, 0, len(cfg.ReleaseTable))
		for _, m := range cfg.ReleaseTable {
			table = append(table, schedule.Milestone{Periods: m.Periods, Permille: m.Permille})
		}
	}
	type terms struct {
		depositType uint8
		duration    uint64
		yieldRate   *big.Int
	}
	allTerms := make([]terms, 0, len(cfg.Terms))
	for _, t := range cfg.Terms {
		rate, err := t.YieldRate.Wei()
		if err != nil {
			return errors.WithMessagef(err, "terms of type %d", t.DepositType)
		}
		allTerms = append(allTerms, terms{t.DepositType, t.Duration, rate})
	}

	b.State(func(st *state.State) error {
		ledger := builtin.NodeStake.WithState(st)
		limits := staking.Limits{Min: minLimit, Max: maxLimit}
		if err := ledger.Initialize(owner, manager, token, vault, limits, table); err != nil {
			return err
		}
		for _, t := range allTerms {
			if err := ledger.SetDepositTerms(owner, t.depositType, t.duration, t.yieldRate); err != nil {
				return errors.WithMessagef(err, "terms of type %d", t.depositType)
			}
		}
		if tc := cfg.StakingToken; tc != nil {
			receipt := builtin.StakingToken.WithState(st)
			if err := receipt.Initialize(ledger.Address(), tc.Name, tc.Symbol, tc.Decimals); err != nil {
				return errors.WithMessage(err, "staking token")
			}
			return ledger.SetStakingToken(owner, receipt.Address())
		}
		return nil
	})
	return nil
}

func setupSignedClaim(b *Builder, cfg *SignedClaim, token thor.Address) error {
	owner, err := cfg.Owner.Resolve()
	if err != nil {
		return err
	}
	manager, err := cfg.Manager.Resolve()
	if err != nil {
		return err
	}
	signers, err := resolveAll(cfg.Signers)
	if err != nil {
		return err
	}
	required := cfg.Required
	b.State(func(st *state.State) error {
		return builtin.SignedClaim.WithState(st).Initialize(owner, manager, token, signers, required)
	})
	return nil
}
