// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/nodestake/thor"
)

// Event represents a contract event log. Topics[0] is the event signature hash.
type Event struct {
	// address of the contract that generated the event
	Address thor.Address
	// list of topics provided by the contract.
	Topics []thor.Bytes32
	// supplied by the contract, usually ABI-encoded
	Data []byte
}

// Events slice of event logs.
type Events []*Event

// Filter returns the events emitted by addr with the given signature hash.
func (es Events) Filter(addr thor.Address, topic0 thor.Bytes32) Events {
	var out Events
	for _, e := range es {
		if e.Address == addr && len(e.Topics) > 0 && e.Topics[0] == topic0 {
			out = append(out, e)
		}
	}
	return out
}
