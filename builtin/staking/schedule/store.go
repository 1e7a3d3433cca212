// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"errors"

	"github.com/vechain/nodestake/builtin/solidity"
	"github.com/vechain/nodestake/thor"
)

// ErrNotFound is returned for schedule indexes past the end of a node's list.
var ErrNotFound = errors.New("schedule not found")

// Store keeps an append-only list of schedules per node id.
type Store struct {
	ctx  *solidity.Context
	base thor.Bytes32
}

func NewStore(ctx *solidity.Context, base thor.Bytes32) *Store {
	return &Store{ctx: ctx, base: base}
}

func (s *Store) list(nodeID string) *solidity.Array[*Schedule] {
	return solidity.NewArray[*Schedule](s.ctx, thor.Blake2b(s.base.Bytes(), []byte(nodeID)))
}

// Append stores sched under its node and returns its index.
func (s *Store) Append(sched *Schedule) (uint64, error) {
	return s.list(sched.NodeID).Append(sched)
}

func (s *Store) Len(nodeID string) (uint64, error) {
	return s.list(nodeID).Len()
}

func (s *Store) Get(nodeID string, index uint64) (*Schedule, error) {
	sched, err := s.list(nodeID).Get(index)
	if errors.Is(err, solidity.ErrIndexOutOfRange) {
		return nil, ErrNotFound
	}
	return sched, err
}

func (s *Store) Update(index uint64, sched *Schedule) error {
	err := s.list(sched.NodeID).Set(index, sched)
	if errors.Is(err, solidity.ErrIndexOutOfRange) {
		return ErrNotFound
	}
	return err
}

// All returns every schedule of the node, fully withdrawn ones included.
func (s *Store) All(nodeID string) ([]*Schedule, error) {
	return s.list(nodeID).All()
}
