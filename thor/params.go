// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"math/big"
)

// Constants of the staking platform.
const (
	// PeriodLength is the accrual clock tick in seconds.
	PeriodLength uint64 = 30 * 24 * 60 * 60

	// DefaultChainID is the network id signed into every authorization digest.
	DefaultChainID uint64 = 42161

	// DefaultDuration is the number of periods of the standard stake product.
	DefaultDuration uint64 = 36

	// MinOwnerCount is the smallest owner set a multisig may shrink to.
	MinOwnerCount = 2

	// MaxCallDepth bounds nested contract calls.
	MaxCallDepth = 64

	// PermilleBase is the denominator of release table fractions.
	PermilleBase uint64 = 1000
)

var (
	// YieldRatePrecision is the fixed point base of yield rates, 1e18 = 100%.
	YieldRatePrecision = big.NewInt(1e18)

	// DefaultYieldRate is the yield over the whole 36 period product, 36%.
	DefaultYieldRate = big.NewInt(36e16)

	// Ether is 1e18 wei.
	Ether = big.NewInt(1e18)
)
