// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig

import (
	"errors"
	"math/big"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/thor"
)

// Transaction is a call the contract makes once enough owners confirmed it.
type Transaction struct {
	To               thor.Address
	Value            *big.Int
	Data             []byte
	Executed         bool
	NumConfirmations uint64
}

func (m *MultiSig) GetTransactionCount() (uint64, error) {
	return m.txs.Len()
}

func (m *MultiSig) GetTransaction(id uint64) (*Transaction, error) {
	tx, err := m.txs.Get(id)
	if errors.Is(err, solidity.ErrIndexOutOfRange) {
		return nil, reverts.New("tx does not exist")
	}
	return tx, err
}

func (m *MultiSig) IsConfirmed(id uint64, owner thor.Address) (bool, error) {
	return m.txConfirms.Get(confirmKey(id, owner))
}

// SubmitTransaction queues a call and returns its index.
func (m *MultiSig) SubmitTransaction(caller, to thor.Address, value *big.Int, data []byte) (uint64, error) {
	if err := m.requireOwner(caller); err != nil {
		return 0, err
	}
	if value == nil {
		value = new(big.Int)
	}
	id, err := m.txs.Append(&Transaction{
		To:    to,
		Value: new(big.Int).Set(value),
		Data:  append([]byte(nil), data...),
	})
	if err != nil {
		return 0, err
	}
	logger.Debug("transaction submitted", "id", id, "to", to, "value", value)
	return id, nil
}

func (m *MultiSig) pendingTransaction(caller thor.Address, id uint64) (*Transaction, error) {
	if err := m.requireOwner(caller); err != nil {
		return nil, err
	}
	tx, err := m.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	if tx.Executed {
		return nil, reverts.NewReplay("tx already executed")
	}
	return tx, nil
}

func (m *MultiSig) ConfirmTransaction(caller thor.Address, id uint64) error {
	tx, err := m.pendingTransaction(caller, id)
	if err != nil {
		return err
	}
	confirmed, err := m.IsConfirmed(id, caller)
	if err != nil {
		return err
	}
	if confirmed {
		return reverts.NewReplay("tx already confirmed")
	}
	if err := m.txConfirms.Set(confirmKey(id, caller), true); err != nil {
		return err
	}
	tx.NumConfirmations++
	return m.txs.Set(id, tx)
}

// RevokeConfirmation withdraws the caller's own confirmation.
func (m *MultiSig) RevokeConfirmation(caller thor.Address, id uint64) error {
	tx, err := m.pendingTransaction(caller, id)
	if err != nil {
		return err
	}
	confirmed, err := m.IsConfirmed(id, caller)
	if err != nil {
		return err
	}
	if !confirmed {
		return reverts.New("tx not confirmed")
	}
	m.txConfirms.Delete(confirmKey(id, caller))
	tx.NumConfirmations--
	return m.txs.Set(id, tx)
}

// ExecuteTransaction marks the transaction executed and then performs the call.
// A failing call fails the whole execution.
func (m *MultiSig) ExecuteTransaction(caller thor.Address, id uint64, host Caller) ([]byte, error) {
	tx, err := m.pendingTransaction(caller, id)
	if err != nil {
		return nil, err
	}
	ok, err := m.canExecute(m.txConfirms, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, reverts.NewAuthorization("cannot execute tx")
	}
	tx.Executed = true
	if err := m.txs.Set(id, tx); err != nil {
		return nil, err
	}

	out, err := host.CallContract(tx.To, tx.Value, tx.Data)
	if err != nil {
		if reverts.IsRevertErr(err) {
			logger.Info("transaction reverted", "id", id, "to", tx.To, "error", err)
			return nil, reverts.New("tx failed: " + err.Error())
		}
		return nil, err
	}
	logger.Debug("transaction executed", "id", id, "to", tx.To)
	return out, nil
}
