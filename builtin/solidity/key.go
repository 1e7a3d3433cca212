// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
)

// Key is anything that can be used as a mapping key.
type Key interface {
	Bytes() []byte
}

// StringKey keys a mapping by string, e.g. a node id or a nonce.
type StringKey string

func (s StringKey) Bytes() []byte { return []byte(s) }

// Uint64Key keys a mapping by index.
type Uint64Key uint64

func (u Uint64Key) Bytes() []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(u))
	return b[:]
}

// BytesKey is a raw key.
type BytesKey []byte

func (b BytesKey) Bytes() []byte { return b }

// Join builds an unambiguous composite key, each part is length prefixed.
func Join(parts ...Key) BytesKey {
	var out []byte
	for _, p := range parts {
		b := p.Bytes()
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(b)))
		out = append(out, l[:]...)
		out = append(out, b...)
	}
	return out
}
