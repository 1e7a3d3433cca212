// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nodestake/kv"
	"github.com/vechain/nodestake/thor"
)

// Stage abstracts changes made on a State, ready to be written in one batch.
type Stage struct {
	store    kv.Store
	accounts map[thor.Address]*Account
	storage  map[storageKey]rlp.RawValue
}

// Len returns the number of changed entries.
func (s *Stage) Len() int {
	return len(s.accounts) + len(s.storage)
}

// Commit writes all changes to the store atomically.
func (s *Stage) Commit() error {
	batch := s.store.NewBatch()
	for addr, acc := range s.accounts {
		if err := saveAccount(batch, addr, acc); err != nil {
			return &Error{err}
		}
	}
	for k, v := range s.storage {
		if err := saveStorage(batch, k.addr, k.key, v); err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	for k, v := range s.storage {
		storageCache.Add(cacheKey(s.store, k), v)
	}
	return nil
}
