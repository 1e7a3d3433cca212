// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package multisig_test

import (
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/api/multisig"
	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/test/testchain"
	"github.com/vechain/nodestake/thor"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestMultiSig(t *testing.T) {
	c, err := testchain.NewDefault()
	require.NoError(t, err)
	accs := genesis.DevAccounts()
	owners := []genesis.DevAccount{accs[5], accs[6], accs[7]}
	candidate := thor.BytesToAddress([]byte("candidate"))

	ms := c.MultiSig(owners[0])
	require.NoError(t, ms.MintTransaction("submitTransaction", nil, accs[9].Address, big.NewInt(0), []byte{0xca, 0xfe}))
	require.NoError(t, ms.MintTransaction("confirmTransaction", nil, big.NewInt(0)))
	require.NoError(t, ms.Attach(owners[2]).MintTransaction("confirmTransaction", nil, big.NewInt(0)))
	require.NoError(t, ms.MintTransaction("proposeOwner", nil, candidate, uint8(0)))
	require.NoError(t, ms.Attach(owners[1]).MintTransaction("confirmProposal", nil, big.NewInt(0)))

	router := mux.NewRouter()
	multisig.New(c.Chain).Mount(router, "/multisig")
	ts := httptest.NewServer(router)
	defer ts.Close()

	t.Run("summary", func(t *testing.T) {
		body, status := httpGet(t, ts.URL+"/multisig")
		require.Equal(t, http.StatusOK, status, string(body))

		var res multisig.Summary
		require.NoError(t, json.Unmarshal(body, &res))
		assert.Equal(t, []thor.Address{owners[0].Address, owners[1].Address, owners[2].Address}, res.Owners)
		assert.Equal(t, uint64(2), res.Required)
		assert.Equal(t, uint64(2), res.Threshold)
		assert.Equal(t, uint64(1), res.TransactionCount)
		assert.Equal(t, uint64(1), res.ProposalCount)
	})

	t.Run("transaction", func(t *testing.T) {
		body, status := httpGet(t, ts.URL+"/multisig/transactions/0")
		require.Equal(t, http.StatusOK, status, string(body))

		var trx multisig.Transaction
		require.NoError(t, json.Unmarshal(body, &trx))
		assert.Equal(t, accs[9].Address, trx.To)
		assert.Equal(t, "0", (*big.Int)(trx.Value).String())
		assert.Equal(t, []byte{0xca, 0xfe}, []byte(trx.Data))
		assert.False(t, trx.Executed)
		assert.Equal(t, uint64(2), trx.NumConfirmations)
		assert.Equal(t, []thor.Address{owners[0].Address, owners[2].Address}, trx.ConfirmedBy)
	})

	t.Run("proposal", func(t *testing.T) {
		body, status := httpGet(t, ts.URL+"/multisig/proposals/0")
		require.Equal(t, http.StatusOK, status, string(body))

		var p multisig.Proposal
		require.NoError(t, json.Unmarshal(body, &p))
		assert.Equal(t, candidate, p.Owner)
		assert.Equal(t, "AddOwner", p.Kind)
		assert.Equal(t, c.Now(), p.ProposedTime)
		assert.Equal(t, []thor.Address{owners[1].Address}, p.ConfirmedBy)
	})

	t.Run("missing", func(t *testing.T) {
		body, status := httpGet(t, ts.URL+"/multisig/transactions/7")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "tx does not exist\n", string(body))

		_, status = httpGet(t, ts.URL+"/multisig/proposals/7")
		assert.Equal(t, http.StatusNotFound, status)

		_, status = httpGet(t, ts.URL+"/multisig/proposals/x")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}
