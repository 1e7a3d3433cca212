// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vechain/nodestake/abi"
	"github.com/vechain/nodestake/builtin/ownable"
	"github.com/vechain/nodestake/thor"
	"github.com/vechain/nodestake/xenv"
)

type nativeMethod struct {
	abi *abi.Method
	run func(env *xenv.Environment) []any
}

type methodKey struct {
	thor.Address
	abi.MethodID
}

type nativeDefine struct {
	name string
	run  func(env *xenv.Environment) []any
}

var (
	nativeMethods   = make(map[methodKey]*nativeMethod)
	nativeReceivers = make(map[thor.Address]func(env *xenv.Environment) error)
)

func registerNatives(c *contract, defines []nativeDefine) {
	for _, def := range defines {
		if method, found := c.ABI.MethodByName(def.name); found {
			nativeMethods[methodKey{c.Address, method.ID()}] = &nativeMethod{
				abi: method,
				run: def.run,
			}
		} else {
			panic("method not found: " + def.name)
		}
	}
}

// FindNativeCall find native calls.
func FindNativeCall(to thor.Address, input []byte) (*abi.Method, func(env *xenv.Environment) []any, bool) {
	methodID, err := abi.ExtractMethodID(input)
	if err != nil {
		return nil, nil, false
	}

	method := nativeMethods[methodKey{to, methodID}]
	if method == nil {
		return nil, nil, false
	}
	return method.abi, method.run, true
}

// FindReceiver returns the hook run when a builtin receives a plain value transfer.
func FindReceiver(to thor.Address) (func(env *xenv.Environment) error, bool) {
	fn, ok := nativeReceivers[to]
	return fn, ok
}

// IsBuiltin tells whether addr hosts a builtin contract.
func IsBuiltin(addr thor.Address) bool {
	_, ok := NameOf(addr)
	return ok
}

// ownableNatives defines the owner getter and ownership hand-off shared by owned contracts.
func ownableNatives(c *contract, owner func(env *xenv.Environment) *ownable.Role) []nativeDefine {
	transferred := c.ABI.MustEvent("OwnershipTransferred")
	return []nativeDefine{
		{"owner", func(env *xenv.Environment) []any {
			addr, err := owner(env).Get()
			env.Must(err)
			return []any{addr}
		}},
		{"transferOwnership", func(env *xenv.Environment) []any {
			var newOwner common.Address
			env.ParseArgs(&newOwner)

			prev, err := owner(env).Transfer(env.Caller(), thor.Address(newOwner))
			env.Must(err)
			env.Log(transferred, []thor.Bytes32{addressTopic(prev), addressTopic(thor.Address(newOwner))})
			return nil
		}},
	}
}

func addressTopic(addr thor.Address) thor.Bytes32 {
	return thor.BytesToBytes32(addr.Bytes())
}

func mustUint64(env *xenv.Environment, v *big.Int, message string) uint64 {
	env.Require(v.Sign() >= 0 && v.IsUint64(), message)
	return v.Uint64()
}

func mustUint8(env *xenv.Environment, v *big.Int, message string) uint8 {
	n := mustUint64(env, v, message)
	env.Require(n <= math.MaxUint8, message)
	return uint8(n)
}
