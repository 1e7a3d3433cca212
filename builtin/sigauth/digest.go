// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sigauth

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/holiman/uint256"

	"github.com/vechain/nodestake/thor"
)

// packed concatenates values the way solidity's abi.encodePacked does for
// uint256, address, string and bytes.
type packed [][]byte

func (p packed) uint256(v *big.Int) packed {
	if v == nil {
		v = new(big.Int)
	}
	word, _ := uint256.FromBig(v)
	b := word.Bytes32()
	return append(p, b[:])
}

func (p packed) address(a thor.Address) packed { return append(p, a.Bytes()) }
func (p packed) str(s string) packed           { return append(p, []byte(s)) }
func (p packed) bytes(b []byte) packed         { return append(p, b) }

// personal wraps the keccak of the packed values into an EIP-191 personal message hash.
func (p packed) personal() thor.Bytes32 {
	digest := thor.Keccak256(p...)
	return thor.BytesToBytes32(accounts.TextHash(digest.Bytes()))
}

// BindDigest returns the hash the bind signer signs to authorize caller to bind nodeID.
func BindDigest(chainID *big.Int, caller thor.Address, nodeID, nonce string) thor.Bytes32 {
	return packed{}.uint256(chainID).address(caller).str(nodeID).str(nonce).personal()
}

// ClaimDigest returns the hash signed by claim signers to release amount to beneficiary.
func ClaimDigest(chainID, amount *big.Int, nodeID string, beneficiary thor.Address, nonce string) thor.Bytes32 {
	return packed{}.uint256(chainID).uint256(amount).str(nodeID).address(beneficiary).str(nonce).personal()
}

// ExecuteDigest returns the hash signed by executor signers to perform a call.
func ExecuteDigest(chainID *big.Int, to thor.Address, value *big.Int, data []byte, nonce string) thor.Bytes32 {
	return packed{}.uint256(chainID).address(to).uint256(value).bytes(data).str(nonce).personal()
}
