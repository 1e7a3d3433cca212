// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"

	"github.com/vechain/nodestake/thor"
)

// ErrIndexOutOfRange is returned when accessing past the end of an Array.
var ErrIndexOutOfRange = errors.New("index out of range")

// Array is an append-only list, like a solidity dynamic storage array that is never popped.
// The length lives at the base slot, elements are kept in a mapping derived from it.
type Array[V any] struct {
	length *Raw[uint64]
	items  *Mapping[Uint64Key, V]
}

func NewArray[V any](context *Context, pos thor.Bytes32) *Array[V] {
	return &Array[V]{
		length: NewRaw[uint64](context, pos),
		items:  NewMapping[Uint64Key, V](context, thor.Blake2b(pos.Bytes(), []byte("items"))),
	}
}

func (a *Array[V]) Len() (uint64, error) {
	return a.length.Get()
}

func (a *Array[V]) Get(index uint64) (V, error) {
	var zero V
	n, err := a.Len()
	if err != nil {
		return zero, err
	}
	if index >= n {
		return zero, ErrIndexOutOfRange
	}
	return a.items.Get(Uint64Key(index))
}

func (a *Array[V]) Set(index uint64, value V) error {
	n, err := a.Len()
	if err != nil {
		return err
	}
	if index >= n {
		return ErrIndexOutOfRange
	}
	return a.items.Set(Uint64Key(index), value)
}

// Append adds value at the end and returns its index.
func (a *Array[V]) Append(value V) (uint64, error) {
	n, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := a.items.Set(Uint64Key(n), value); err != nil {
		return 0, err
	}
	if err := a.length.Set(n + 1); err != nil {
		return 0, err
	}
	return n, nil
}

// All returns every element in index order.
func (a *Array[V]) All() ([]V, error) {
	n, err := a.Len()
	if err != nil {
		return nil, err
	}
	out := make([]V, 0, n)
	for i := range n {
		v, err := a.items.Get(Uint64Key(i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
