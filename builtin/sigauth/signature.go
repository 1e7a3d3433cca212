// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sigauth verifies off-chain ECDSA authorizations and tracks the nonces they consume.
package sigauth

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/thor"
)

// SignatureLength is the length of an [R || S || V] signature.
const SignatureLength = crypto.SignatureLength

// ErrSignatureInvalid is returned for malformed signatures and signer mismatches.
var ErrSignatureInvalid = errors.New("signature validation failed")

// SlotError reports the first signature slot that failed validation.
type SlotError struct {
	Slot int
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("signature%s validation failed", SlotName(e.Slot))
}

// SlotName returns the letter naming a signer slot, A for slot 0.
func SlotName(slot int) string {
	return string(rune('A' + slot))
}

// Recover returns the address that produced sig over hash. V may be 0/1 or 27/28,
// and signatures with a high S value are rejected.
func Recover(hash thor.Bytes32, sig []byte) (thor.Address, error) {
	if len(sig) != SignatureLength {
		return thor.Address{}, ErrSignatureInvalid
	}
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return thor.Address{}, ErrSignatureInvalid
	}

	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	normalized[64] = v

	pub, err := crypto.SigToPub(hash.Bytes(), normalized)
	if err != nil {
		return thor.Address{}, ErrSignatureInvalid
	}
	return thor.Address(crypto.PubkeyToAddress(*pub)), nil
}

// Sign signs hash with key, producing V as 27 or 28 like wallet personal_sign.
func Sign(hash thor.Bytes32, key *ecdsa.PrivateKey) ([]byte, error) {
	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	sig[64] += 27
	return sig, nil
}

// IsSignedBy reports whether sig over hash recovers to signer.
func IsSignedBy(hash thor.Bytes32, sig []byte, signer thor.Address) bool {
	if signer.IsZero() {
		return false
	}
	recovered, err := Recover(hash, sig)
	return err == nil && recovered == signer
}

// VerifySlots requires every slot to carry a signature by its configured signer.
// The returned *SlotError names the first failing slot.
func VerifySlots(hash thor.Bytes32, sigs [][]byte, signers []thor.Address) error {
	if len(sigs) != len(signers) {
		return ErrSignatureInvalid
	}
	for i, sig := range sigs {
		if !IsSignedBy(hash, sig, signers[i]) {
			return &SlotError{Slot: i}
		}
	}
	return nil
}

// VerifyThreshold requires at least k distinct signers among the supplied slots.
// Empty slots are skipped, while a supplied signature that does not match its
// slot's signer fails with a *SlotError.
func VerifyThreshold(hash thor.Bytes32, sigs [][]byte, signers []thor.Address, k int) error {
	if len(sigs) != len(signers) {
		return ErrSignatureInvalid
	}
	valid := make(map[thor.Address]struct{}, len(signers))
	for i, sig := range sigs {
		if len(sig) == 0 {
			continue
		}
		if !IsSignedBy(hash, sig, signers[i]) {
			return &SlotError{Slot: i}
		}
		valid[signers[i]] = struct{}{}
	}
	if len(valid) < k {
		return ErrSignatureInvalid
	}
	return nil
}
