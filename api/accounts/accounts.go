// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/state"
)

// Account for marshal account
type Account struct {
	Balance       *math.HexOrDecimal256 `json:"balance"`
	TokenBalance  *math.HexOrDecimal256 `json:"tokenBalance"`
	Nodes         []string              `json:"nodes"`
	Staked        *math.HexOrDecimal256 `json:"staked"`
	Claimable     *math.HexOrDecimal256 `json:"claimable"`
	Vesting       *math.HexOrDecimal256 `json:"vesting"` // locked and not yet released
	Releasable    *math.HexOrDecimal256 `json:"releasable"`
	IsBuiltin     bool                  `json:"isBuiltin"`
	BuiltinName   string                `json:"builtinName,omitempty"`
	MultiSigOwner bool                  `json:"multiSigOwner"`
}

type Accounts struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Accounts {
	return &Accounts{chain}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}

	acc := &Account{}
	acc.BuiltinName, acc.IsBuiltin = builtin.NameOf(addr)
	err = a.chain.View(func(st *state.State, now uint64) error {
		balance, err := st.GetBalance(addr)
		if err != nil {
			return err
		}
		acc.Balance = (*math.HexOrDecimal256)(balance)

		tokenBalance, err := builtin.Token.WithState(st).BalanceOf(addr)
		if err != nil {
			return err
		}
		acc.TokenBalance = (*math.HexOrDecimal256)(tokenBalance)

		ledger := builtin.NodeStake.WithState(st)
		if acc.Nodes, err = ledger.Registry().NodesOf(addr); err != nil {
			return err
		}
		if acc.Nodes == nil {
			acc.Nodes = []string{}
		}
		staked, err := ledger.BalanceOf(addr)
		if err != nil {
			return err
		}
		acc.Staked = (*math.HexOrDecimal256)(staked)
		claimable, err := ledger.ClaimableBalanceOf(addr, now)
		if err != nil {
			return err
		}
		acc.Claimable = (*math.HexOrDecimal256)(claimable)

		vesting := builtin.Vesting.WithState(st)
		scheds, err := vesting.GetVestingSchedule(addr)
		if err != nil {
			return err
		}
		locked := new(big.Int)
		for _, s := range scheds {
			locked.Add(locked, s.AmountTotal)
			locked.Sub(locked, s.Released)
		}
		acc.Vesting = (*math.HexOrDecimal256)(locked)
		releasable, err := vesting.GetReleasableAmount(addr, now)
		if err != nil {
			return err
		}
		acc.Releasable = (*math.HexOrDecimal256)(releasable)

		acc.MultiSigOwner, err = builtin.MultiSig.WithState(st).IsOwner(addr)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
