// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nodestake/builtin/sigauth"
	"github.com/vechain/nodestake/thor"
)

// sign prints the signature over hash made with the -key signer.
func sign(ctx *cli.Context, hash thor.Bytes32) error {
	key, signer, err := parseKey(ctx.String(keyFlag.Name))
	if err != nil {
		return err
	}
	sig, err := sigauth.Sign(hash, key)
	if err != nil {
		return err
	}
	logger.Debug("signed", "signer", signer, "hash", hash)
	_, err = fmt.Fprintln(ctx.App.Writer, hexutil.Encode(sig))
	return err
}

func requireString(ctx *cli.Context, flag cli.StringFlag) (string, error) {
	v := ctx.String(flag.Name)
	if v == "" {
		return "", errors.Errorf("missing -%s", flag.Name)
	}
	return v, nil
}

func chainID(ctx *cli.Context) *big.Int {
	return new(big.Int).SetUint64(ctx.Uint64(chainIDFlag.Name))
}

func signBindAction(ctx *cli.Context) error {
	caller, err := parseAddress(ctx.String(callerFlag.Name), callerFlag.Name)
	if err != nil {
		return err
	}
	nodeID, err := requireString(ctx, nodeIDFlag)
	if err != nil {
		return err
	}
	nonce, err := requireString(ctx, nonceFlag)
	if err != nil {
		return err
	}
	return sign(ctx, sigauth.BindDigest(chainID(ctx), caller, nodeID, nonce))
}

func signClaimAction(ctx *cli.Context) error {
	amount, err := requireString(ctx, amountFlag)
	if err != nil {
		return err
	}
	wei, err := parseEther(amount)
	if err != nil {
		return err
	}
	beneficiary, err := parseAddress(ctx.String(beneficiaryFlag.Name), beneficiaryFlag.Name)
	if err != nil {
		return err
	}
	nodeID, err := requireString(ctx, nodeIDFlag)
	if err != nil {
		return err
	}
	nonce, err := requireString(ctx, nonceFlag)
	if err != nil {
		return err
	}
	return sign(ctx, sigauth.ClaimDigest(chainID(ctx), wei, nodeID, beneficiary, nonce))
}

func signExecuteAction(ctx *cli.Context) error {
	to, err := parseAddress(ctx.String(toFlag.Name), toFlag.Name)
	if err != nil {
		return err
	}
	value, err := parseEther(ctx.String(valueFlag.Name))
	if err != nil {
		return err
	}
	data, err := hexutil.Decode(ctx.String(dataFlag.Name))
	if err != nil {
		return errors.Wrap(err, dataFlag.Name)
	}
	nonce, err := requireString(ctx, nonceFlag)
	if err != nil {
		return err
	}
	return sign(ctx, sigauth.ExecuteDigest(chainID(ctx), to, value, data, nonce))
}
