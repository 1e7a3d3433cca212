// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2b computes the blake2b-256 of the concatenated data. Storage
// positions and named slots are derived with it.
func Blake2b(data ...[]byte) (h Bytes32) {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	w, _ := blake2b.New256(nil)
	for _, b := range data {
		w.Write(b)
	}
	w.Sum(h[:0])
	return
}

// keccakState wraps sha3.state. Read is faster than Sum because it doesn't copy the internal state.
type keccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakPool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256().(keccakState)
	},
}

// Keccak256 computes the legacy keccak-256 of the concatenated data, as
// used by signature digests.
func Keccak256(data ...[]byte) (h Bytes32) {
	state := keccakPool.Get().(keccakState)
	defer keccakPool.Put(state)

	for _, b := range data {
		state.Write(b)
	}
	state.Read(h[:])
	state.Reset()
	return
}
