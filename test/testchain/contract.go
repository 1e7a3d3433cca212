// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"errors"
	"math/big"

	"github.com/vechain/nodestake/abi"
	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

type Contract struct {
	chain *Chain
	abi   *abi.ABI
	addr  thor.Address
	acc   genesis.DevAccount
}

func NewContract(chain *Chain, acc genesis.DevAccount, addr thor.Address, abi *abi.ABI) *Contract {
	return &Contract{
		chain: chain,
		abi:   abi,
		addr:  addr,
		acc:   acc,
	}
}

func (c *Contract) Attach(acc genesis.DevAccount) *Contract {
	contract := *c
	contract.acc = acc
	return &contract
}

// Call inspects a contract method against the latest state and returns the result.
func (c *Contract) Call(method string, args ...any) ([]byte, error) {
	clause, err := c.BuildClause(method, args...)
	if err != nil {
		return nil, err
	}
	output, err := c.chain.Inspect(clause, c.acc.Address)
	if err != nil {
		return nil, err
	}
	if output.Reverted {
		return nil, errors.New(output.RevertReason)
	}
	return output.Data, nil
}

// CallInto calls a contract method and decodes the result into the result argument.
func (c *Contract) CallInto(method string, result any, args ...any) error {
	data, err := c.Call(method, args...)
	if err != nil {
		return err
	}
	methodABI, ok := c.abi.MethodByName(method)
	if !ok {
		return errors.New("method not found")
	}
	return methodABI.DecodeOutput(data, result)
}

func (c *Contract) BuildClause(method string, args ...any) (*tx.Clause, error) {
	methodABI, ok := c.abi.MethodByName(method)
	if !ok {
		return nil, errors.New("method not found")
	}
	data, err := methodABI.EncodeInput(args...)
	if err != nil {
		return nil, err
	}
	return tx.NewClause(c.addr).WithData(data), nil
}

// MintTransaction sends the method call, with an optional value, in a new block.
func (c *Contract) MintTransaction(method string, value *big.Int, args ...any) error {
	clause, err := c.BuildClause(method, args...)
	if err != nil {
		return err
	}
	if value != nil {
		clause = clause.WithValue(value)
	}
	_, err = c.chain.MintClauses(c.acc, []*tx.Clause{clause})
	return err
}
