// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverts(t *testing.T) {
	revert := NewAuthorization("caller is not the owner")
	assert.Equal(t, "caller is not the owner", revert.Error())
	assert.Equal(t, Authorization, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.WithMessage(revert, "wrapped")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{New("deposit: less than minimum limit"), Invariant},
		{NewReplay("tx already executed"), Replay},
		{NewInsufficientFunds("withdrawRewardForEmergency: balance of tokens is not enough"), InsufficientFunds},
		{errors.Wrap(NewAuthorization("not owner"), "call"), Authorization},
		{errors.New("disk failure"), Unknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, KindOf(tt.err), tt.err.Error())
	}
	assert.Equal(t, "replay", Replay.String())
}

func TestBytesRoundTrip(t *testing.T) {
	reason, err := ethabi.UnpackRevert(New("the number of owner is too small").Bytes())
	require.NoError(t, err)
	assert.Equal(t, "the number of owner is too small", reason)

	var nilRevert *ErrRevert
	assert.Nil(t, nilRevert.Bytes())
}
