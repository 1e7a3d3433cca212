// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/stackedmap"
	"github.com/vechain/nodestake/thor"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

// storageCache keeps raw storage values read from the store, shared by all states over the same store.
var storageCache, _ = lru.NewARC(8192)

// State manages the world state: balances and contract storage.
// All writes are journaled and only reach the store through Stage.
type State struct {
	store kv.Store
	sm    *stackedmap.StackedMap
}

// New create state object over the given store.
func New(store kv.Store) *State {
	s := &State{store: store}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case thor.Address:
		acc, err := loadAccount(s.store, k)
		if err != nil {
			return nil, false, err
		}
		return acc, true, nil
	case storageKey:
		ck := cacheKey(s.store, k)
		if v, ok := storageCache.Get(ck); ok {
			return v.(rlp.RawValue), true, nil
		}
		v, err := loadStorage(s.store, k.addr, k.key)
		if err != nil {
			return nil, false, err
		}
		storageCache.Add(ck, v)
		return v, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

type storeCacheKey struct {
	store kv.Store
	storageKey
}

func cacheKey(store kv.Store, k storageKey) storeCacheKey {
	return storeCacheKey{store, k}
}

func (s *State) getAccount(addr thor.Address) (*Account, error) {
	v, _, err := s.sm.Get(addr)
	if err != nil {
		return nil, err
	}
	return v.(*Account), nil
}

// GetBalance returns balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	acc, err := s.getAccount(addr)
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(acc.Balance), nil
}

// SetBalance set balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance for %v", addr)}
	}
	if _, err := s.getAccount(addr); err != nil {
		return &Error{err}
	}
	s.sm.Put(addr, &Account{Balance: new(big.Int).Set(balance)})
	return nil
}

// AddBalance adds amount to the balance of addr.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// SubBalance subtracts amount from the balance of addr.
// It returns false without change if the balance is insufficient.
func (s *State) SubBalance(addr thor.Address, amount *big.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, s.SetBalance(addr, bal.Sub(bal, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// customized storage value, return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects all journaled changes so they can be committed to the store.
func (s *State) Stage() (*Stage, error) {
	accounts := make(map[thor.Address]*Account)
	storage := make(map[storageKey]rlp.RawValue)

	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case thor.Address:
			accounts[key] = v.(*Account)
		case storageKey:
			storage[key] = v.(rlp.RawValue)
		}
		return true
	})

	return &Stage{
		store:    s.store,
		accounts: accounts,
		storage:  storage,
	}, nil
}
