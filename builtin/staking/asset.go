// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math/big"

	"github.com/vechain/nodestake/thor"
)

// Asset moves the staked asset in and out of the ledger. Implementations are
// bound to a single call and may run foreign code, so the ledger only calls
// Push after its own state is final.
type Asset interface {
	// Pull collects amount from the caller into the ledger.
	Pull(from thor.Address, amount *big.Int) error
	// Push pays amount from the ledger to the recipient.
	Push(to thor.Address, amount *big.Int) error
	// Balance is what the ledger currently holds.
	Balance() (*big.Int, error)
}

// Vault time-locks released principal for a recipient instead of paying it out.
type Vault interface {
	Lock(beneficiary thor.Address, amount *big.Int) error
}

// Receipt is the transferable staking token issued 1:1 for deposited principal.
type Receipt interface {
	Mint(to thor.Address, amount *big.Int) error
	// Burn spends the allowance holder granted the ledger.
	Burn(holder thor.Address, amount *big.Int) error
}
