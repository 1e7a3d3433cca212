// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clauses

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/runtime"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// Clause is a call target, value and input.
type Clause struct {
	To    *thor.Address         `json:"to"`
	Value *math.HexOrDecimal256 `json:"value"`
	Data  hexutil.Bytes         `json:"data"`
}

// Submission carries either a single clause inline or a batch in Clauses.
type Submission struct {
	Caller *thor.Address `json:"caller"`
	Clause
	Clauses []Clause `json:"clauses,omitempty"`
}

func (c *Clause) convert() (*tx.Clause, error) {
	if c.To == nil {
		return nil, errors.New("to: required")
	}
	clause := tx.NewClause(*c.To).WithData(c.Data)
	if c.Value != nil {
		value := (*big.Int)(c.Value)
		if value.Sign() < 0 {
			return nil, errors.New("value: negative")
		}
		clause = clause.WithValue(value)
	}
	return clause, nil
}

func (s *Submission) convert() (thor.Address, []*tx.Clause, error) {
	if s.Caller == nil {
		return thor.Address{}, nil, errors.New("caller: required")
	}
	if len(s.Clauses) > 0 && (s.To != nil || s.Value != nil || len(s.Data) > 0) {
		return thor.Address{}, nil, errors.New("clauses: cannot be combined with an inline clause")
	}
	batch := s.Clauses
	if len(batch) == 0 {
		batch = []Clause{s.Clause}
	}
	out := make([]*tx.Clause, 0, len(batch))
	for i := range batch {
		clause, err := batch[i].convert()
		if err != nil {
			return thor.Address{}, nil, errors.WithMessagef(err, "clause #%d", i)
		}
		out = append(out, clause)
	}
	return *s.Caller, out, nil
}

// Event is a log emitted by a builtin, decorated with its names when known.
type Event struct {
	Address  thor.Address   `json:"address"`
	Contract string         `json:"contract,omitempty"`
	Name     string         `json:"name,omitempty"`
	Topics   []thor.Bytes32 `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
}

type Output struct {
	Data   hexutil.Bytes `json:"data"`
	Events []*Event      `json:"events"`
}

// Receipt is the outcome of a submission. Events flattens the events of
// every output; it is empty when the submission reverted.
type Receipt struct {
	Reverted     bool      `json:"reverted"`
	RevertReason string    `json:"revertReason,omitempty"`
	RevertKind   string    `json:"revertKind,omitempty"`
	BlockNumber  uint32    `json:"blockNumber,omitempty"`
	Events       []*Event  `json:"events"`
	Outputs      []*Output `json:"outputs"`
}

func convertEvent(ev *tx.Event) *Event {
	e := &Event{
		Address: ev.Address,
		Topics:  ev.Topics,
		Data:    ev.Data,
	}
	if name, ok := builtin.NameOf(ev.Address); ok {
		e.Contract = name
		if c, ok := builtin.Lookup(name); ok && len(ev.Topics) > 0 {
			if abiEvent, ok := c.ABI.EventByID(ev.Topics[0]); ok {
				e.Name = abiEvent.Name()
			}
		}
	}
	return e
}

func convertOutput(o *runtime.Output) *Output {
	out := &Output{Data: o.Data, Events: make([]*Event, 0, len(o.Events))}
	for _, ev := range o.Events {
		out.Events = append(out.Events, convertEvent(ev))
	}
	return out
}

func convertReceipt(r *runtime.Receipt, blockNumber uint32) *Receipt {
	res := &Receipt{
		Reverted: r.Reverted,
		Events:   make([]*Event, 0),
		Outputs:  make([]*Output, 0, len(r.Outputs)),
	}
	for _, o := range r.Outputs {
		if o.Reverted {
			res.RevertReason = o.RevertReason
			res.RevertKind = o.RevertKind.String()
			continue
		}
		out := convertOutput(o)
		res.Outputs = append(res.Outputs, out)
		if !r.Reverted {
			res.Events = append(res.Events, out.Events...)
		}
	}
	if !r.Reverted {
		res.BlockNumber = blockNumber
	}
	return res
}
