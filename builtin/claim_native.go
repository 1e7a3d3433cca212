// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/builtin/claim"
	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

func init() {
	var (
		claimedEvent = SignedClaim.ABI.MustEvent("Claimed")
		revokedEvent = SignedClaim.ABI.MustEvent("Revoked")
		claimOf      = func(env *xenv.Environment) *claim.Claim { return SignedClaim.WithState(env.State()) }
	)

	defines := []nativeDefine{
		{"manager", func(env *xenv.Environment) []any {
			addr, err := claimOf(env).Manager().Get()
			env.Must(err)
			return []any{addr}
		}},
		{"ClaimWithSignature", func(env *xenv.Environment) []any {
			var args struct {
				Amount      *big.Int
				Beneficiary common.Address
				NodeID      string `abi:"nodeId"`
				Nonce       string
				SigA        []byte
				SigB        []byte
				SigC        []byte
			}
			env.ParseArgs(&args)

			c := claimOf(env)
			token, err := c.Token()
			env.Must(err)
			beneficiary := thor.Address(args.Beneficiary)
			err = c.ClaimWithSignature(
				env.TransactionContext().ChainID,
				args.Amount,
				beneficiary,
				args.NodeID,
				args.Nonce,
				[][]byte{args.SigA, args.SigB, args.SigC},
				NodeStake.WithState(env.State()).Registry(),
				assetAt(env, token),
			)
			env.Must(err)
			env.Log(claimedEvent, nil, beneficiary, args.Amount, args.NodeID, args.Nonce)
			return nil
		}},
		{"setSigner", func(env *xenv.Environment) []any {
			var args struct {
				Slot   uint8
				Signer common.Address
			}
			env.ParseArgs(&args)

			env.Must(claimOf(env).SetSigner(env.Caller(), int(args.Slot), thor.Address(args.Signer)))
			return nil
		}},
		{"setRequired", func(env *xenv.Environment) []any {
			var required uint8
			env.ParseArgs(&required)

			env.Must(claimOf(env).SetRequired(env.Caller(), uint64(required)))
			return nil
		}},
		{"setCanClaim", func(env *xenv.Environment) []any {
			var canClaim bool
			env.ParseArgs(&canClaim)

			env.Must(claimOf(env).SetCanClaim(env.Caller(), canClaim))
			return nil
		}},
		{"setManager", func(env *xenv.Environment) []any {
			var manager common.Address
			env.ParseArgs(&manager)

			env.Must(claimOf(env).SetManager(env.Caller(), thor.Address(manager)))
			return nil
		}},
		{"revoke", func(env *xenv.Environment) []any {
			var nonce string
			env.ParseArgs(&nonce)

			env.Must(claimOf(env).Revoke(env.Caller(), nonce))
			env.Log(revokedEvent, nil, env.Caller(), nonce)
			return nil
		}},
		{"signers", func(env *xenv.Environment) []any {
			signers, err := claimOf(env).Signers()
			env.Must(err)
			return []any{signers}
		}},
		{"required", func(env *xenv.Environment) []any {
			required, err := claimOf(env).Required()
			env.Must(err)
			return []any{uint8(required)}
		}},
		{"canClaim", func(env *xenv.Environment) []any {
			ok, err := claimOf(env).CanClaim()
			env.Must(err)
			return []any{ok}
		}},
		{"totalClaimed", func(env *xenv.Environment) []any {
			v, err := claimOf(env).Claimed()
			env.Must(err)
			return []any{v}
		}},
		{"isNonceConsumed", func(env *xenv.Environment) []any {
			var nonce string
			env.ParseArgs(&nonce)

			used, err := claimOf(env).IsNonceConsumed(nonce)
			env.Must(err)
			return []any{used}
		}},
	}
	defines = append(defines, ownableNatives(SignedClaim.contract, func(env *xenv.Environment) *ownable.Role {
		return claimOf(env).Owner()
	})...)
	registerNatives(SignedClaim.contract, defines)
}
