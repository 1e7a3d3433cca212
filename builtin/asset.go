// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/staking"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

// nativeAsset moves the native balance held by the executing contract. The
// runtime credits the call value before dispatch, so Pull only checks it.
type nativeAsset struct {
	env *xenv.Environment
}

func (a *nativeAsset) Pull(_ thor.Address, amount *big.Int) error {
	if a.env.Value().Cmp(amount) != 0 {
		return reverts.New("value not equal to amount")
	}
	return nil
}

func (a *nativeAsset) Push(to thor.Address, amount *big.Int) error {
	return a.env.Transfer(to, amount)
}

func (a *nativeAsset) Balance() (*big.Int, error) {
	return a.env.State().GetBalance(a.env.To())
}

// tokenAsset moves an ERC-20 balance through nested calls to the token contract.
type tokenAsset struct {
	env   *xenv.Environment
	token thor.Address
}

func (a *tokenAsset) call(method string, args ...any) ([]byte, error) {
	data, err := Token.ABI.MustMethod(method).EncodeInput(args...)
	if err != nil {
		return nil, errors.WithMessage(err, "encode token call")
	}
	return a.env.CallContract(a.token, new(big.Int), data)
}

func (a *tokenAsset) Pull(from thor.Address, amount *big.Int) error {
	if a.env.Value().Sign() != 0 {
		return reverts.New("value not accepted")
	}
	_, err := a.call("transferFrom", from, a.env.To(), amount)
	return err
}

func (a *tokenAsset) Push(to thor.Address, amount *big.Int) error {
	_, err := a.call("transfer", to, amount)
	return err
}

func (a *tokenAsset) Balance() (*big.Int, error) {
	out, err := a.call("balanceOf", a.env.To())
	if err != nil {
		return nil, err
	}
	var balance *big.Int
	if err := Token.ABI.MustMethod("balanceOf").DecodeOutput(out, &balance); err != nil {
		return nil, errors.WithMessage(err, "decode token balance")
	}
	return balance, nil
}

// assetAt picks the native or token asset by the configured token address.
func assetAt(env *xenv.Environment, token thor.Address) staking.Asset {
	if token.IsZero() {
		return &nativeAsset{env}
	}
	return &tokenAsset{env, token}
}

// vestingVault locks released principal in a Vesting contract on behalf of a beneficiary.
type vestingVault struct {
	env   *xenv.Environment
	vault thor.Address
	token thor.Address
}

func (v *vestingVault) Lock(beneficiary thor.Address, amount *big.Int) error {
	value := new(big.Int).Set(amount)
	if !v.token.IsZero() {
		data, err := Token.ABI.MustMethod("approve").EncodeInput(v.vault, amount)
		if err != nil {
			return errors.WithMessage(err, "encode approve")
		}
		if _, err := v.env.CallContract(v.token, new(big.Int), data); err != nil {
			return err
		}
		value = new(big.Int)
	}
	data, err := Vesting.ABI.MustMethod("createSchedule").EncodeInput(beneficiary, amount)
	if err != nil {
		return errors.WithMessage(err, "encode createSchedule")
	}
	_, err = v.env.CallContract(v.vault, value, data)
	return err
}

// stakingReceipt mints and burns the staking token owned by the ledger.
type stakingReceipt struct {
	env   *xenv.Environment
	token thor.Address
}

func (r *stakingReceipt) call(method string, args ...any) error {
	data, err := StakingToken.ABI.MustMethod(method).EncodeInput(args...)
	if err != nil {
		return errors.WithMessage(err, "encode staking token call")
	}
	_, err = r.env.CallContract(r.token, new(big.Int), data)
	return err
}

func (r *stakingReceipt) Mint(to thor.Address, amount *big.Int) error {
	return r.call("mint", to, amount)
}

func (r *stakingReceipt) Burn(holder thor.Address, amount *big.Int) error {
	return r.call("burnFrom", holder, amount)
}
