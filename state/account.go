// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/thor"
)

// Account is the persisted representation of an account.
type Account struct {
	Balance *big.Int
}

// IsEmpty returns if an account is empty.
func (a *Account) IsEmpty() bool {
	return a.Balance.Sign() == 0
}

func emptyAccount() *Account {
	return &Account{Balance: new(big.Int)}
}

// loadAccount reads the account from the store; a missing account is empty.
func loadAccount(store kv.Getter, addr thor.Address) (*Account, error) {
	data, err := store.Get(accountKey(addr))
	if err != nil {
		if store.IsNotFound(err) {
			return emptyAccount(), nil
		}
		return nil, errors.Wrap(err, "load account")
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	if a.Balance == nil {
		a.Balance = new(big.Int)
	}
	return &a, nil
}

func saveAccount(store kv.Putter, addr thor.Address, a *Account) error {
	if a.IsEmpty() {
		return store.Delete(accountKey(addr))
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return store.Put(accountKey(addr), data)
}

func loadStorage(store kv.Getter, addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, err := store.Get(storageKeyBytes(addr, key))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "load storage")
	}
	return data, nil
}

func saveStorage(store kv.Putter, addr thor.Address, key thor.Bytes32, value rlp.RawValue) error {
	if len(value) == 0 {
		return store.Delete(storageKeyBytes(addr, key))
	}
	return store.Put(storageKeyBytes(addr, key), value)
}

const (
	accountPrefix = 'a'
	storagePrefix = 's'
)

func accountKey(addr thor.Address) []byte {
	return append([]byte{accountPrefix}, addr[:]...)
}

func storageKeyBytes(addr thor.Address, key thor.Bytes32) []byte {
	buf := make([]byte, 0, 1+len(addr)+len(key))
	buf = append(buf, storagePrefix)
	buf = append(buf, addr[:]...)
	return append(buf, key[:]...)
}
