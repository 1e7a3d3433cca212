// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"fmt"

	"github.com/vechain/nodestake/abi"
	"github.com/vechain/nodestake/builtin/gen"
	"github.com/vechain/nodestake/thor"
)

type contract struct {
	name    string
	Address thor.Address
	ABI     *abi.ABI
}

func mustLoadContract(name string) *contract {
	asset := "compiled/" + name + ".abi"
	data := gen.MustAsset(asset)
	abi, err := abi.New(data)
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}

	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
		abi,
	}
}

// Name returns the contract name.
func (c *contract) Name() string { return c.name }

// ABIJSON returns the raw ABI definition.
func (c *contract) ABIJSON() []byte {
	return gen.MustAsset("compiled/" + c.name + ".abi")
}
