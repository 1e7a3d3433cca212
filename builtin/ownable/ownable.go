// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ownable implements address-held roles (owner, manager) embedded in a contract's storage.
package ownable

import (
	"github.com/vechain/nodestake/builtin/reverts"
	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/thor"
)

var (
	slotOwner   = thor.SlotOf("owner")
	slotManager = thor.SlotOf("manager")
)

// Role is a single address allowed to perform a class of operations.
type Role struct {
	holder  *solidity.Address
	message string
}

// NewOwner returns the owner role of the contract.
func NewOwner(ctx *solidity.Context) *Role {
	return &Role{solidity.NewAddress(ctx, slotOwner), "caller is not the owner"}
}

// NewManager returns the manager role of the contract.
func NewManager(ctx *solidity.Context) *Role {
	return &Role{solidity.NewAddress(ctx, slotManager), "caller is not the manager"}
}

// Get returns the current holder.
func (r *Role) Get() (thor.Address, error) {
	return r.holder.Get()
}

// Set assigns the role without any check, used at genesis and by guarded setters.
func (r *Role) Set(addr thor.Address) {
	r.holder.Set(addr)
}

// Require fails with an authorization revert unless caller holds the role.
func (r *Role) Require(caller thor.Address) error {
	holder, err := r.holder.Get()
	if err != nil {
		return err
	}
	if holder.IsZero() || holder != caller {
		return reverts.NewAuthorization(r.message)
	}
	return nil
}

// Transfer hands the role from caller to next and returns the previous holder.
func (r *Role) Transfer(caller, next thor.Address) (thor.Address, error) {
	if err := r.Require(caller); err != nil {
		return thor.Address{}, err
	}
	if next.IsZero() {
		return thor.Address{}, reverts.New("Ownable: new owner is the zero address")
	}
	r.holder.Set(next)
	return caller, nil
}
