// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sigauth

import (
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/thor"
)

// Purpose separates nonce namespaces of one contract.
type Purpose string

const (
	PurposeBind    Purpose = "bind"
	PurposeClaim   Purpose = "claim"
	PurposeExecute Purpose = "execute"
)

// Authority keeps the consumed nonces of one purpose in its contract's storage.
type Authority struct {
	purpose  Purpose
	consumed *solidity.Mapping[solidity.StringKey, bool]
}

// New creates the authority for purpose inside the contract behind ctx.
func New(ctx *solidity.Context, purpose Purpose) *Authority {
	return &Authority{
		purpose:  purpose,
		consumed: solidity.NewMapping[solidity.StringKey, bool](ctx, thor.Blake2b([]byte("nonces"), []byte(purpose))),
	}
}

func (a *Authority) Purpose() Purpose { return a.purpose }

// IsConsumed reports whether nonce was already used or revoked.
func (a *Authority) IsConsumed(nonce string) (bool, error) {
	return a.consumed.Get(solidity.StringKey(nonce))
}

// Consume marks nonce used. Consuming twice is not an error, which lets a manager
// revoke nonces that were never redeemed as well as ones that were.
func (a *Authority) Consume(nonce string) error {
	return a.consumed.Set(solidity.StringKey(nonce), true)
}

// Check reports, without consuming anything, whether sig over hash comes from
// signer and nonce is still fresh. Both failures revert with message; a reused
// nonce is a replay.
func (a *Authority) Check(hash thor.Bytes32, nonce string, sig []byte, signer thor.Address, message string) error {
	used, err := a.IsConsumed(nonce)
	if err != nil {
		return err
	}
	if used {
		return reverts.NewReplay(message)
	}
	if !IsSignedBy(hash, sig, signer) {
		return reverts.NewAuthorization(message)
	}
	return nil
}

// Verify is Check followed by consuming the nonce.
func (a *Authority) Verify(hash thor.Bytes32, nonce string, sig []byte, signer thor.Address, message string) error {
	if err := a.Check(hash, nonce, sig, signer, message); err != nil {
		return err
	}
	return a.Consume(nonce)
}
