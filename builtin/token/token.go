// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a fungible ERC-20 token held in native storage.
package token

import (
	"math/big"

	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/state"
	"github.com/vechain/nodestake/thor"
)

var (
	slotName        = thor.SlotOf("name")
	slotSymbol      = thor.SlotOf("symbol")
	slotDecimals    = thor.SlotOf("decimals")
	slotTotalSupply = thor.SlotOf("total-supply")
	slotBalances    = thor.SlotOf("balances")
	slotAllowances  = thor.SlotOf("allowances")
)

// Token implements native methods of the `Token` contract.
type Token struct {
	addr        thor.Address
	owner       *ownable.Role
	name        *solidity.Raw[string]
	symbol      *solidity.Raw[string]
	decimals    *solidity.Raw[uint8]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[solidity.BytesKey, *big.Int]
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		owner:       ownable.NewOwner(sctx),
		name:        solidity.NewRaw[string](sctx, slotName),
		symbol:      solidity.NewRaw[string](sctx, slotSymbol),
		decimals:    solidity.NewRaw[uint8](sctx, slotDecimals),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[solidity.BytesKey, *big.Int](sctx, slotAllowances),
	}
}

func (t *Token) Address() thor.Address          { return t.addr }
func (t *Token) Owner() *ownable.Role           { return t.owner }
func (t *Token) Name() (string, error)          { return t.name.Get() }
func (t *Token) Symbol() (string, error)        { return t.symbol.Get() }
func (t *Token) Decimals() (uint8, error)       { return t.decimals.Get() }
func (t *Token) TotalSupply() (*big.Int, error) { return t.totalSupply.Get() }
func (t *Token) TransferOwnership(caller, next thor.Address) (thor.Address, error) {
	return t.owner.Transfer(caller, next)
}

// Initialize sets the token metadata at genesis.
func (t *Token) Initialize(owner thor.Address, name, symbol string, decimals uint8) error {
	t.owner.Set(owner)
	if err := t.name.Set(name); err != nil {
		return err
	}
	if err := t.symbol.Set(symbol); err != nil {
		return err
	}
	return t.decimals.Set(decimals)
}

func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	b, err := t.balances.Get(addr)
	if err != nil || b == nil {
		return new(big.Int), err
	}
	return b, nil
}

func (t *Token) setBalance(addr thor.Address, b *big.Int) error {
	if b.Sign() == 0 {
		return t.balances.Set(addr, nil)
	}
	return t.balances.Set(addr, b)
}

func allowanceKey(owner, spender thor.Address) solidity.BytesKey {
	return solidity.Join(owner, spender)
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	a, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil || a == nil {
		return new(big.Int), err
	}
	return a, nil
}

func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if spender.IsZero() {
		return reverts.New("ERC20: approve to the zero address")
	}
	if amount.Sign() == 0 {
		return t.allowances.Set(allowanceKey(owner, spender), nil)
	}
	return t.allowances.Set(allowanceKey(owner, spender), new(big.Int).Set(amount))
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if to.IsZero() {
		return reverts.New("ERC20: transfer to the zero address")
	}
	fromBalance, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return reverts.NewInsufficientFunds("ERC20: transfer amount exceeds balance")
	}
	if err := t.setBalance(from, fromBalance.Sub(fromBalance, amount)); err != nil {
		return err
	}
	toBalance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	return t.setBalance(to, toBalance.Add(toBalance, amount))
}

// TransferFrom spends the allowance spender has over from.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return reverts.NewInsufficientFunds("ERC20: insufficient allowance")
	}
	if err := t.Approve(from, spender, allowance.Sub(allowance, amount)); err != nil {
		return err
	}
	return t.Transfer(from, to, amount)
}

// Mint creates amount for to, owner only.
func (t *Token) Mint(caller, to thor.Address, amount *big.Int) error {
	if err := t.owner.Require(caller); err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New("ERC20: mint to the zero address")
	}
	balance, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, balance.Add(balance, amount)); err != nil {
		return err
	}
	return t.totalSupply.Add(amount)
}

// Burn destroys amount of the caller's tokens.
func (t *Token) Burn(caller thor.Address, amount *big.Int) error {
	balance, err := t.BalanceOf(caller)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.NewInsufficientFunds("ERC20: burn amount exceeds balance")
	}
	if err := t.setBalance(caller, balance.Sub(balance, amount)); err != nil {
		return err
	}
	return t.totalSupply.Sub(amount)
}

// BurnFrom destroys amount of from's tokens, spending the allowance spender has over from.
func (t *Token) BurnFrom(spender, from thor.Address, amount *big.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return reverts.NewInsufficientFunds("ERC20: insufficient allowance")
	}
	if err := t.Approve(from, spender, allowance.Sub(allowance, amount)); err != nil {
		return err
	}
	return t.Burn(from, amount)
}
