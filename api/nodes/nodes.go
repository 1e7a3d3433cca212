// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package nodes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/state"
)

type Nodes struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Nodes {
	return &Nodes{chain}
}

func (n *Nodes) handleGetNode(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]

	var node *Node
	err := n.chain.View(func(st *state.State, now uint64) error {
		ledger := builtin.NodeStake.WithState(st)
		beneficiary, err := ledger.Registry().BeneficiaryOf(id)
		if err != nil {
			return err
		}
		balance, err := ledger.BalanceOfNode(id)
		if err != nil {
			return err
		}
		reward, err := ledger.NodeReward(id)
		if err != nil {
			return err
		}
		claimable, err := ledger.ClaimableBalance(id, now)
		if err != nil {
			return err
		}
		scheds, err := ledger.GetSchedules(id)
		if err != nil {
			return err
		}
		node = &Node{
			ID:            id,
			Balance:       hex(balance),
			Reward:        hex(reward),
			Claimable:     hex(claimable),
			ScheduleCount: len(scheds),
		}
		if !beneficiary.IsZero() {
			node.Beneficiary = &beneficiary
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, node)
}

func (n *Nodes) handleGetSchedules(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]

	schedules := make([]*Schedule, 0)
	err := n.chain.View(func(st *state.State, now uint64) error {
		ledger := builtin.NodeStake.WithState(st)
		scheds, err := ledger.GetSchedules(id)
		if err != nil {
			return err
		}
		for i, s := range scheds {
			bal, err := ledger.BalanceOfSchedule(id, uint64(i), now)
			if err != nil {
				return err
			}
			schedules = append(schedules, convertSchedule(uint64(i), s, bal))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, schedules)
}

func (n *Nodes) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	id := mux.Vars(req)["id"]

	var balance *Balance
	err := n.chain.View(func(st *state.State, now uint64) error {
		ledger := builtin.NodeStake.WithState(st)
		staked, err := ledger.BalanceOfNode(id)
		if err != nil {
			return err
		}
		reward, err := ledger.ClaimableRewardBalance(id)
		if err != nil {
			return err
		}
		interest, err := ledger.ClaimableInterestBalance(id, now)
		if err != nil {
			return err
		}
		claimable, err := ledger.ClaimableBalance(id, now)
		if err != nil {
			return err
		}
		balance = &Balance{
			Staked:            hex(staked),
			ClaimableReward:   hex(reward),
			ClaimableInterest: hex(interest),
			Claimable:         hex(claimable),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, balance)
}

func (n *Nodes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /nodes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetNode))
	sub.Path("/{id}/schedules").
		Methods(http.MethodGet).
		Name("GET /nodes/{id}/schedules").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetSchedules))
	sub.Path("/{id}/balance").
		Methods(http.MethodGet).
		Name("GET /nodes/{id}/balance").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetBalance))
}
