// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
)

// Kind classifies why a builtin call reverted.
type Kind uint8

const (
	// Unknown is used for errors that are not reverts.
	Unknown Kind = iota
	// Authorization covers wrong signer, non-owner caller, wrong beneficiary and missing confirmations.
	Authorization
	// Replay covers reuse of a consumed nonce, proposal or transaction.
	Replay
	// Invariant covers out of range amounts, empty balances, bad indexes and owner set bounds.
	Invariant
	// InsufficientFunds covers transfers and emergency withdrawals exceeding what is held.
	InsufficientFunds
)

func (k Kind) String() string {
	switch k {
	case Authorization:
		return "authorization"
	case Replay:
		return "replay"
	case Invariant:
		return "invariant"
	case InsufficientFunds:
		return "insufficient-funds"
	default:
		return "unknown"
	}
}

// ErrRevert is returned by builtin contracts, the message is the public revert reason.
type ErrRevert struct {
	kind    Kind
	message string
}

// New creates an invariant revert.
func New(message string) *ErrRevert {
	return &ErrRevert{kind: Invariant, message: message}
}

func NewAuthorization(message string) *ErrRevert {
	return &ErrRevert{kind: Authorization, message: message}
}

func NewReplay(message string) *ErrRevert {
	return &ErrRevert{kind: Replay, message: message}
}

func NewInsufficientFunds(message string) *ErrRevert {
	return &ErrRevert{kind: InsufficientFunds, message: message}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the revert class.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Bytes returns the revert reason ABI encoded as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}
	return EncodeReason(e.message)
}

// EncodeReason ABI encodes msg as Error(string).
func EncodeReason(msg string) []byte {
	msgBytes := []byte(msg)
	padded := ((len(msgBytes) + 31) / 32) * 32

	// selector + offset + length + data
	encoded := make([]byte, 0, 4+32+32+padded)
	encoded = append(encoded, 0x08, 0xc3, 0x79, 0xa0)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], uint64(len(msgBytes)))
	encoded = append(encoded, length...)

	data := make([]byte, padded)
	copy(data, msgBytes)
	return append(encoded, data...)
}

// IsRevertErr reports whether err wraps an ErrRevert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the revert class of err, Unknown when err is not a revert.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}
