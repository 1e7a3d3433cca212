// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package executor runs arbitrary calls authorized by all of three fixed signer slots.
package executor

import (
	"errors"
	"math/big"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

// SignerCount is the number of signer slots, all of which must sign.
const SignerCount = 3

var (
	logger = log.WithContext("pkg", "executor")

	slotSigners = thor.SlotOf("signers")
	slotCount   = thor.SlotOf("executed-count")
)

// Caller performs the authorized call on behalf of the executor contract.
type Caller interface {
	CallContract(to thor.Address, value *big.Int, data []byte) ([]byte, error)
}

// Executor implements native methods of the `Executor` contract.
type Executor struct {
	addr     thor.Address
	owner    *ownable.Role
	signers  [SignerCount]*solidity.Address
	executed *sigauth.Authority
	count    *solidity.Raw[uint64]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Executor {
	sctx := solidity.NewContext(addr, state)
	e := &Executor{
		addr:     addr,
		owner:    ownable.NewOwner(sctx),
		executed: sigauth.New(sctx, sigauth.PurposeExecute),
		count:    solidity.NewRaw[uint64](sctx, slotCount),
	}
	for i := range e.signers {
		e.signers[i] = solidity.NewAddress(sctx, thor.Blake2b(slotSigners.Bytes(), []byte{byte(i)}))
	}
	return e
}

func (e *Executor) Address() thor.Address { return e.addr }
func (e *Executor) Owner() *ownable.Role  { return e.owner }

// ExecutedCount is the number of calls run so far.
func (e *Executor) ExecutedCount() (uint64, error) { return e.count.Get() }

// IsExecuted reports whether nonce was already used.
func (e *Executor) IsExecuted(nonce string) (bool, error) {
	return e.executed.IsConsumed(nonce)
}

// Signers returns the signer of every slot.
func (e *Executor) Signers() ([]thor.Address, error) {
	out := make([]thor.Address, SignerCount)
	for i, s := range e.signers {
		addr, err := s.Get()
		if err != nil {
			return nil, err
		}
		out[i] = addr
	}
	return out, nil
}

// Initialize configures owner and signers at genesis.
func (e *Executor) Initialize(owner thor.Address, signers []thor.Address) error {
	if len(signers) != SignerCount {
		return errors.New("executor: exactly three signers required")
	}
	e.owner.Set(owner)
	for i, s := range signers {
		e.signers[i].Set(s)
	}
	return nil
}

// Execute verifies that every slot signed ExecuteDigest(chainID, to, value,
// data, nonce), consumes the nonce and performs the call through caller.
func (e *Executor) Execute(
	chainID *big.Int,
	to thor.Address,
	value *big.Int,
	data []byte,
	nonce string,
	sigs [][]byte,
	caller Caller,
) ([]byte, error) {
	done, err := e.executed.IsConsumed(nonce)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, reverts.NewReplay("tx already executed")
	}
	signers, err := e.Signers()
	if err != nil {
		return nil, err
	}
	hash := sigauth.ExecuteDigest(chainID, to, value, data, nonce)
	if err := sigauth.VerifySlots(hash, sigs, signers); err != nil {
		var slotErr *sigauth.SlotError
		if errors.As(err, &slotErr) {
			return nil, reverts.NewAuthorization("executeTransaction: " + slotErr.Error())
		}
		return nil, reverts.NewAuthorization("executeTransaction: signature validation failed")
	}

	if err := e.executed.Consume(nonce); err != nil {
		return nil, err
	}
	count, err := e.count.Get()
	if err != nil {
		return nil, err
	}
	if err := e.count.Set(count + 1); err != nil {
		return nil, err
	}

	out, err := caller.CallContract(to, value, data)
	if err != nil {
		if reverts.IsRevertErr(err) {
			logger.Info("executed call reverted", "to", to, "nonce", nonce, "error", err)
			return nil, reverts.New("executeTransaction: tx failed: " + err.Error())
		}
		return nil, err
	}
	logger.Debug("call executed", "to", to, "value", value, "nonce", nonce)
	return out, nil
}

// SetSigner replaces the signer of slot, owner only.
func (e *Executor) SetSigner(caller thor.Address, slot int, signer thor.Address) error {
	if err := e.owner.Require(caller); err != nil {
		return err
	}
	if slot < 0 || slot >= SignerCount {
		return reverts.New("setSigner: slot not good")
	}
	if signer.IsZero() {
		return reverts.New("setSigner: signer not good")
	}
	e.signers[slot].Set(signer)
	return nil
}

func (e *Executor) TransferOwnership(caller, next thor.Address) (thor.Address, error) {
	return e.owner.Transfer(caller, next)
}
