// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"

	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

type Summary struct {
	Owners           []thor.Address `json:"owners"`
	Required         uint64         `json:"required"`
	Threshold        uint64         `json:"threshold"`
	TransactionCount uint64         `json:"transactionCount"`
	ProposalCount    uint64         `json:"proposalCount"`
}

type Transaction struct {
	ID               uint64                `json:"id"`
	To               thor.Address          `json:"to"`
	Value            *math.HexOrDecimal256 `json:"value"`
	Data             hexutil.Bytes         `json:"data"`
	Executed         bool                  `json:"executed"`
	NumConfirmations uint64                `json:"numConfirmations"`
	ConfirmedBy      []thor.Address        `json:"confirmedBy"`
}

type Proposal struct {
	ID               uint64         `json:"id"`
	Owner            thor.Address   `json:"owner"`
	Kind             string         `json:"kind"`
	ProposedTime     uint64         `json:"proposedTime"`
	Executed         bool           `json:"executed"`
	NumConfirmations uint64         `json:"numConfirmations"`
	ConfirmedBy      []thor.Address `json:"confirmedBy"`
}

type MultiSig struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *MultiSig {
	return &MultiSig{chain}
}

// confirmedBy lists the live owners whose confirmation of id is recorded.
func confirmedBy(owners []thor.Address, isConfirmed func(uint64, thor.Address) (bool, error), id uint64) ([]thor.Address, error) {
	confirmed := make([]thor.Address, 0, len(owners))
	for _, o := range owners {
		ok, err := isConfirmed(id, o)
		if err != nil {
			return nil, err
		}
		if ok {
			confirmed = append(confirmed, o)
		}
	}
	return confirmed, nil
}

func notFound(err error) error {
	if reverts.IsRevertErr(err) {
		return utils.NotFound(err)
	}
	return err
}

func (m *MultiSig) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	res := &Summary{}
	err := m.chain.View(func(st *state.State, _ uint64) error {
		var err error
		ms := builtin.MultiSig.WithState(st)
		if res.Owners, err = ms.GetOwners(); err != nil {
			return err
		}
		if res.Required, err = ms.Required(); err != nil {
			return err
		}
		if res.Threshold, err = ms.GetThreshold(); err != nil {
			return err
		}
		if res.TransactionCount, err = ms.GetTransactionCount(); err != nil {
			return err
		}
		res.ProposalCount, err = ms.GetProposalCount()
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (m *MultiSig) handleGetTransaction(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}

	var res *Transaction
	err = m.chain.View(func(st *state.State, _ uint64) error {
		ms := builtin.MultiSig.WithState(st)
		trx, err := ms.GetTransaction(id)
		if err != nil {
			return notFound(err)
		}
		owners, err := ms.GetOwners()
		if err != nil {
			return err
		}
		confirmed, err := confirmedBy(owners, ms.IsConfirmed, id)
		if err != nil {
			return err
		}
		res = &Transaction{
			ID:               id,
			To:               trx.To,
			Value:            (*math.HexOrDecimal256)(trx.Value),
			Data:             trx.Data,
			Executed:         trx.Executed,
			NumConfirmations: trx.NumConfirmations,
			ConfirmedBy:      confirmed,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (m *MultiSig) handleGetProposal(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.ParseUint64(mux.Vars(req)["id"], "id")
	if err != nil {
		return err
	}

	var res *Proposal
	err = m.chain.View(func(st *state.State, _ uint64) error {
		ms := builtin.MultiSig.WithState(st)
		p, err := ms.GetProposal(id)
		if err != nil {
			return notFound(err)
		}
		owners, err := ms.GetOwners()
		if err != nil {
			return err
		}
		confirmed, err := confirmedBy(owners, ms.IsProposalConfirmed, id)
		if err != nil {
			return err
		}
		res = &Proposal{
			ID:               id,
			Owner:            p.Owner,
			Kind:             p.Kind.String(),
			ProposedTime:     p.ProposedTime,
			Executed:         p.Executed,
			NumConfirmations: p.NumConfirmations,
			ConfirmedBy:      confirmed,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (m *MultiSig) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /multisig").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetSummary))
	sub.Path("/transactions/{id}").
		Methods(http.MethodGet).
		Name("GET /multisig/transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetTransaction))
	sub.Path("/proposals/{id}").
		Methods(http.MethodGet).
		Name("GET /multisig/proposals/{id}").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetProposal))
}
