// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/abi"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/tx"
)

// BlockContext block context.
type BlockContext struct {
	Number uint32
	Time   uint64
}

// TransactionContext transaction context.
type TransactionContext struct {
	ChainID     *big.Int
	Origin      thor.Address
	ClauseIndex uint32
}

// Host executes nested messages and collects events on behalf of an environment.
type Host interface {
	Call(from, to thor.Address, value *big.Int, data []byte, depth int) ([]byte, error)
	AddEvent(ev *tx.Event)
}

type vmError struct {
	cause error
}

// Environment an env to execute native method.
type Environment struct {
	abi      *abi.Method
	state    *state.State
	blockCtx *BlockContext
	txCtx    *TransactionContext
	host     Host
	caller   thor.Address
	to       thor.Address
	value    *big.Int
	input    []byte
	depth    int
}

// New create a new env.
func New(
	abi *abi.Method,
	state *state.State,
	blockCtx *BlockContext,
	txCtx *TransactionContext,
	host Host,
	caller thor.Address,
	to thor.Address,
	value *big.Int,
	input []byte,
	depth int,
) *Environment {
	return &Environment{
		abi:      abi,
		state:    state,
		blockCtx: blockCtx,
		txCtx:    txCtx,
		host:     host,
		caller:   caller,
		to:       to,
		value:    value,
		input:    input,
		depth:    depth,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) BlockContext() *BlockContext             { return env.blockCtx }
func (env *Environment) Caller() thor.Address                    { return env.caller }
func (env *Environment) To() thor.Address                        { return env.to }
func (env *Environment) Depth() int                              { return env.depth }
func (env *Environment) Method() *abi.Method                     { return env.abi }

// Value returns a copy of the value sent with the call.
func (env *Environment) Value() *big.Int { return new(big.Int).Set(env.value) }

func (env *Environment) ParseArgs(val any) {
	if err := env.abi.DecodeInput(env.input, val); err != nil {
		// as vm error
		panic(&vmError{reverts.New("decode native input: " + err.Error())})
	}
}

// Require reverts with message unless cond holds.
func (env *Environment) Require(cond bool, message string) {
	if !cond {
		panic(&vmError{reverts.New(message)})
	}
}

// Must stops the execution when err is not nil.
func (env *Environment) Must(err error) {
	if err != nil {
		panic(&vmError{err})
	}
}

func (env *Environment) Log(abi *abi.Event, topics []thor.Bytes32, args ...any) {
	data, err := abi.Encode(args...)
	if err != nil {
		panic(errors.WithMessage(err, "encode native event"))
	}

	all := make([]thor.Bytes32, 0, len(topics)+1)
	all = append(all, abi.ID())
	all = append(all, topics...)
	env.host.AddEvent(&tx.Event{
		Address: env.to,
		Topics:  all,
		Data:    data,
	})
}

// CallContract performs a nested call from the executing contract.
func (env *Environment) CallContract(to thor.Address, value *big.Int, data []byte) ([]byte, error) {
	return env.host.Call(env.to, to, value, data, env.depth+1)
}

// Transfer sends value from the executing contract to a recipient.
func (env *Environment) Transfer(to thor.Address, value *big.Int) error {
	_, err := env.host.Call(env.to, to, value, nil, env.depth+1)
	return err
}

func (env *Environment) Stop(vmerr error) {
	panic(&vmError{vmerr})
}

// Call wraps proc into a function returning the encoded output. Failures
// raised through Stop, Must, Require or ParseArgs become the returned error.
func (env *Environment) Call(proc func(env *Environment) []any) func() ([]byte, error) {
	return func() (data []byte, err error) {
		if env.value.Sign() != 0 && !env.abi.Payable() {
			// reject value transfer on call
			return nil, reverts.New("non-payable method")
		}

		defer func() {
			if e := recover(); e != nil {
				if rec, ok := e.(*vmError); ok {
					err = rec.cause
				} else {
					panic(e)
				}
			}
		}()
		output := proc(env)
		data, err = env.abi.EncodeOutput(output...)
		if err != nil {
			panic(errors.WithMessage(err, "encode native output"))
		}
		return
	}
}
