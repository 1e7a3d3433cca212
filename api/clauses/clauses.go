// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clauses

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/runtime"
)

var logger = log.WithContext("pkg", "clauses")

// Clauses accepts clause submissions. Without consensus every accepted
// submission is executed and committed immediately, one at a time.
type Clauses struct {
	chain *chain.Chain
}

func New(chain *chain.Chain) *Clauses {
	return &Clauses{chain}
}

func parseSubmission(req *http.Request) (*Submission, error) {
	var sub Submission
	if err := utils.ParseJSON(req.Body, &sub); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &sub, nil
}

func (c *Clauses) handleExecute(w http.ResponseWriter, req *http.Request) error {
	sub, err := parseSubmission(req)
	if err != nil {
		return err
	}
	caller, clauses, err := sub.convert()
	if err != nil {
		return utils.BadRequest(err)
	}

	receipt, err := c.chain.Execute(caller, clauses)
	if err != nil {
		return err
	}
	if receipt.Reverted {
		logger.Debug("submission reverted", "caller", caller, "clauses", len(clauses))
	}
	return utils.WriteJSON(w, convertReceipt(receipt.Receipt, receipt.Head.Number))
}

func (c *Clauses) handleInspect(w http.ResponseWriter, req *http.Request) error {
	sub, err := parseSubmission(req)
	if err != nil {
		return err
	}
	caller, clauses, err := sub.convert()
	if err != nil {
		return utils.BadRequest(err)
	}
	if len(clauses) != 1 {
		return utils.BadRequest(errors.New("clauses: inspect takes a single clause"))
	}

	out, err := c.chain.Inspect(clauses[0], caller)
	if err != nil {
		return err
	}
	receipt := convertReceipt(&runtime.Receipt{Reverted: out.Reverted, Outputs: []*runtime.Output{out}}, 0)
	return utils.WriteJSON(w, receipt)
}

func (c *Clauses) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /clauses").
		HandlerFunc(utils.WrapHandlerFunc(c.handleExecute))
	sub.Path("/inspect").
		Methods(http.MethodPost).
		Name("POST /clauses/inspect").
		HandlerFunc(utils.WrapHandlerFunc(c.handleInspect))
}
