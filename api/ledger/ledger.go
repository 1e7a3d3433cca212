// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/staking/schedule"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// Ledger is the global configuration and accounting of NodeStake.
type Ledger struct {
	Address      thor.Address          `json:"address"`
	Owner        thor.Address          `json:"owner"`
	Manager      thor.Address          `json:"manager"`
	Token        *thor.Address         `json:"token"`
	Vault        *thor.Address         `json:"vault"`
	StakingToken *thor.Address         `json:"stakingToken"`
	CanDeposit   bool                  `json:"canDeposit"`
	CanWithdraw  bool                  `json:"canWithdraw"`
	MinLimit     *math.HexOrDecimal256 `json:"minLimit"`
	MaxLimit     *math.HexOrDecimal256 `json:"maxLimit"`
	TokenInPool  *math.HexOrDecimal256 `json:"tokenInPool"`
	RewardInPool *math.HexOrDecimal256 `json:"rewardInPool"`
	RewardTotal  *math.HexOrDecimal256 `json:"rewardTotal"`
	ReleaseTable schedule.ReleaseTable `json:"releaseTable"`
}

type Terms struct {
	DepositType uint8                 `json:"depositType"`
	Duration    uint64                `json:"duration"`
	YieldRate   *math.HexOrDecimal256 `json:"yieldRate"`
}

type API struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *API {
	return &API{chain}
}

func optional(addr thor.Address) *thor.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

// rewardInPool depends on the asset the ledger holds, so it is read through
// the contract itself rather than from storage.
func (a *API) rewardInPool() (*big.Int, error) {
	method := builtin.NodeStake.ABI.MustMethod("rewardInPool")
	data, err := method.EncodeInput()
	if err != nil {
		return nil, err
	}
	out, err := a.chain.Inspect(tx.NewClause(builtin.NodeStake.Address).WithData(data), thor.Address{})
	if err != nil {
		return nil, err
	}
	if out.Reverted {
		return nil, errors.Errorf("rewardInPool reverted: %s", out.RevertReason)
	}
	var v *big.Int
	if err := method.DecodeOutput(out.Data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *API) handleGetLedger(w http.ResponseWriter, _ *http.Request) error {
	reward, err := a.rewardInPool()
	if err != nil {
		return err
	}

	res := &Ledger{
		Address:      builtin.NodeStake.Address,
		RewardInPool: (*math.HexOrDecimal256)(reward),
	}
	err = a.chain.View(func(st *state.State, _ uint64) error {
		var err error
		l := builtin.NodeStake.WithState(st)
		if res.Owner, err = l.Owner().Get(); err != nil {
			return err
		}
		if res.Manager, err = l.Manager().Get(); err != nil {
			return err
		}
		token, err := l.Token()
		if err != nil {
			return err
		}
		vault, err := l.Vault()
		if err != nil {
			return err
		}
		stakingToken, err := l.StakingToken()
		if err != nil {
			return err
		}
		res.Token, res.Vault, res.StakingToken = optional(token), optional(vault), optional(stakingToken)
		if res.CanDeposit, err = l.CanDeposit(); err != nil {
			return err
		}
		if res.CanWithdraw, err = l.CanWithdraw(); err != nil {
			return err
		}
		limits, err := l.Limits()
		if err != nil {
			return err
		}
		res.MinLimit = (*math.HexOrDecimal256)(limits.Min)
		res.MaxLimit = (*math.HexOrDecimal256)(limits.Max)
		inPool, err := l.TokenInPool()
		if err != nil {
			return err
		}
		res.TokenInPool = (*math.HexOrDecimal256)(inPool)
		total, err := l.RewardTotal()
		if err != nil {
			return err
		}
		res.RewardTotal = (*math.HexOrDecimal256)(total)
		res.ReleaseTable, err = l.ReleaseTable()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *API) handleGetTerms(w http.ResponseWriter, req *http.Request) error {
	v, err := utils.ParseUint64(mux.Vars(req)["type"], "type")
	if err != nil {
		return err
	}
	if v > 255 {
		return utils.BadRequest(errors.New("type: out of range"))
	}
	depositType := uint8(v)

	var res *Terms
	err = a.chain.View(func(st *state.State, _ uint64) error {
		terms, err := builtin.NodeStake.WithState(st).Terms(depositType)
		if err != nil {
			return err
		}
		if terms == nil {
			return utils.NotFound(errors.Errorf("deposit type %d is not offered", depositType))
		}
		res = &Terms{depositType, terms.Duration, (*math.HexOrDecimal256)(terms.YieldRate)}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /ledger").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetLedger))
	sub.Path("/terms/{type}").
		Methods(http.MethodGet).
		Name("GET /ledger/terms/{type}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTerms))
}
