// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"github.com/pkg/errors"

	"github.com/vechain/nodestake/thor"
)

// Milestone unlocks Permille of the principal once Periods have elapsed.
type Milestone struct {
	Periods  uint64 `yaml:"periods" json:"periods"`
	Permille uint64 `yaml:"permille" json:"permille"`
}

// ReleaseTable is the cumulative principal release curve, ordered by periods.
type ReleaseTable []Milestone

// DefaultReleaseTable is the curve of the 36 period stake product.
func DefaultReleaseTable() ReleaseTable {
	return ReleaseTable{
		{Periods: 1, Permille: 250},
		{Periods: 2, Permille: 350},
		{Periods: 3, Permille: 500},
		{Periods: 4, Permille: 750},
		{Periods: 5, Permille: 1000},
	}
}

// Validate checks the table is ordered, monotonic and ends at full release.
func (t ReleaseTable) Validate() error {
	if len(t) == 0 {
		return errors.New("release table: empty")
	}
	var prev Milestone
	for i, m := range t {
		if m.Periods == 0 || (i > 0 && m.Periods <= prev.Periods) {
			return errors.Errorf("release table: milestone %d: periods not increasing", i)
		}
		if m.Permille > thor.PermilleBase || m.Permille < prev.Permille {
			return errors.Errorf("release table: milestone %d: permille not monotonic", i)
		}
		prev = m
	}
	if prev.Permille != thor.PermilleBase {
		return errors.Errorf("release table: last milestone releases %d permille", prev.Permille)
	}
	return nil
}

// Permille returns the cumulative release after elapsed periods.
func (t ReleaseTable) Permille(elapsed uint64) uint64 {
	var permille uint64
	for _, m := range t {
		if m.Periods > elapsed {
			break
		}
		permille = m.Permille
	}
	return permille
}
