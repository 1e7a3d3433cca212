// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/lvldb"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	owner = thor.BytesToAddress([]byte("owner"))
	alice = thor.BytesToAddress([]byte("alice"))
	bob   = thor.BytesToAddress([]byte("bob"))
)

func newToken(t *testing.T) *Token {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	tk := New(thor.BytesToAddress([]byte("Token")), state.New(db))
	require.NoError(t, tk.Initialize(owner, "Wrapped Token", "WTK", 18))
	return tk
}

func balanceOf(t *testing.T, tk *Token, addr thor.Address) int64 {
	b, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	return b.Int64()
}

func TestMetadata(t *testing.T) {
	tk := newToken(t)
	name, err := tk.Name()
	require.NoError(t, err)
	symbol, err := tk.Symbol()
	require.NoError(t, err)
	decimals, err := tk.Decimals()
	require.NoError(t, err)
	assert.Equal(t, "Wrapped Token", name)
	assert.Equal(t, "WTK", symbol)
	assert.Equal(t, uint8(18), decimals)
}

func TestMintTransferBurn(t *testing.T) {
	tk := newToken(t)

	assert.EqualError(t, tk.Mint(alice, alice, big.NewInt(1)), "caller is not the owner")
	require.NoError(t, tk.Mint(owner, alice, big.NewInt(100)))

	assert.EqualError(t, tk.Transfer(alice, bob, big.NewInt(101)), "ERC20: transfer amount exceeds balance")
	assert.EqualError(t, tk.Transfer(alice, thor.Address{}, big.NewInt(1)), "ERC20: transfer to the zero address")
	require.NoError(t, tk.Transfer(alice, bob, big.NewInt(30)))
	assert.Equal(t, int64(70), balanceOf(t, tk, alice))
	assert.Equal(t, int64(30), balanceOf(t, tk, bob))

	assert.EqualError(t, tk.Burn(bob, big.NewInt(31)), "ERC20: burn amount exceeds balance")
	require.NoError(t, tk.Burn(bob, big.NewInt(30)))
	assert.Zero(t, balanceOf(t, tk, bob))

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(70), supply.Int64())
}

func TestAllowance(t *testing.T) {
	tk := newToken(t)
	require.NoError(t, tk.Mint(owner, alice, big.NewInt(100)))

	assert.EqualError(t, tk.TransferFrom(bob, alice, bob, big.NewInt(1)), "ERC20: insufficient allowance")

	require.NoError(t, tk.Approve(alice, bob, big.NewInt(60)))
	require.NoError(t, tk.TransferFrom(bob, alice, owner, big.NewInt(50)))
	allowance, err := tk.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(10), allowance.Int64())
	assert.Equal(t, int64(50), balanceOf(t, tk, owner))

	assert.EqualError(t, tk.TransferFrom(bob, alice, owner, big.NewInt(11)), "ERC20: insufficient allowance")
	assert.Error(t, tk.Approve(alice, thor.Address{}, big.NewInt(1)))
}

func TestBurnFrom(t *testing.T) {
	tk := newToken(t)
	require.NoError(t, tk.Mint(owner, alice, big.NewInt(100)))

	assert.EqualError(t, tk.BurnFrom(bob, alice, big.NewInt(1)), "ERC20: insufficient allowance")
	require.NoError(t, tk.Approve(alice, bob, big.NewInt(200)))
	assert.EqualError(t, tk.BurnFrom(bob, alice, big.NewInt(101)), "ERC20: burn amount exceeds balance")

	tk = newToken(t)
	require.NoError(t, tk.Mint(owner, alice, big.NewInt(100)))
	require.NoError(t, tk.Approve(alice, bob, big.NewInt(60)))
	require.NoError(t, tk.BurnFrom(bob, alice, big.NewInt(40)))
	assert.Equal(t, int64(60), balanceOf(t, tk, alice))
	allowance, err := tk.Allowance(alice, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(20), allowance.Int64())
	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, int64(60), supply.Int64())
}
