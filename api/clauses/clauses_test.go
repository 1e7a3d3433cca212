// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clauses_test

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nodestake/api/clauses"
	"github.com/vechain/nodestake/builtin"
	"github.com/vechain/nodestake/genesis"
	"github.com/vechain/nodestake/test/testchain"
	"github.com/vechain/nodestake/thor"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), thor.Ether)
}

func httpPost(t *testing.T, url string, body any) ([]byte, int) {
	data, ok := body.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(body)
		require.NoError(t, err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	out, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return out, res.StatusCode
}

func encode(t *testing.T, method string, args ...any) hexutil.Bytes {
	data, err := builtin.Token.ABI.MustMethod(method).EncodeInput(args...)
	require.NoError(t, err)
	return data
}

func initClausesServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	c, err := testchain.NewDefault()
	require.NoError(t, err)

	router := mux.NewRouter()
	clauses.New(c.Chain).Mount(router, "/clauses")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return c, ts
}

func TestSubmit(t *testing.T) {
	c, ts := initClausesServer(t)
	accs := genesis.DevAccounts()
	token := builtin.Token.Address

	t.Run("inline clause", func(t *testing.T) {
		body, status := httpPost(t, ts.URL+"/clauses", &clauses.Submission{
			Caller: &accs[0].Address,
			Clause: clauses.Clause{To: &token, Data: encode(t, "transfer", accs[9].Address, ether(5))},
		})
		require.Equal(t, http.StatusOK, status, string(body))

		var receipt clauses.Receipt
		require.NoError(t, json.Unmarshal(body, &receipt))
		assert.False(t, receipt.Reverted)
		assert.Equal(t, uint32(1), receipt.BlockNumber)
		require.Len(t, receipt.Events, 1)
		assert.Equal(t, token, receipt.Events[0].Address)
		assert.Equal(t, "Token", receipt.Events[0].Contract)
		assert.Equal(t, "Transfer", receipt.Events[0].Name)

		bal, err := builtin.Token.WithState(c.State()).BalanceOf(accs[9].Address)
		require.NoError(t, err)
		assert.Equal(t, ether(1_000_005).String(), bal.String())
	})

	t.Run("batch", func(t *testing.T) {
		sink := thor.BytesToAddress([]byte("sink"))
		body, status := httpPost(t, ts.URL+"/clauses", &clauses.Submission{
			Caller: &accs[0].Address,
			Clauses: []clauses.Clause{
				{To: &sink, Value: (*math.HexOrDecimal256)(ether(1))},
				{To: &sink, Value: (*math.HexOrDecimal256)(ether(2))},
			},
		})
		require.Equal(t, http.StatusOK, status, string(body))

		var receipt clauses.Receipt
		require.NoError(t, json.Unmarshal(body, &receipt))
		assert.False(t, receipt.Reverted)
		assert.Len(t, receipt.Outputs, 2)
		assert.Empty(t, receipt.Events)

		bal, err := c.State().GetBalance(sink)
		require.NoError(t, err)
		assert.Equal(t, ether(3).String(), bal.String())
	})

	t.Run("reverted", func(t *testing.T) {
		ns := builtin.NodeStake.Address
		data, err := builtin.NodeStake.ABI.MustMethod("deposit").EncodeInput("unbound", big.NewInt(0), ether(10))
		require.NoError(t, err)

		head := c.Head()
		body, status := httpPost(t, ts.URL+"/clauses", &clauses.Submission{
			Caller: &accs[0].Address,
			Clause: clauses.Clause{To: &ns, Value: (*math.HexOrDecimal256)(ether(10)), Data: data},
		})
		require.Equal(t, http.StatusOK, status, string(body))

		var receipt clauses.Receipt
		require.NoError(t, json.Unmarshal(body, &receipt))
		assert.True(t, receipt.Reverted)
		assert.Equal(t, "deposit: beneficiary not good", receipt.RevertReason)
		assert.Equal(t, "authorization", receipt.RevertKind)
		assert.Zero(t, receipt.BlockNumber)
		assert.Empty(t, receipt.Events)
		assert.Equal(t, head, c.Head())
	})

	t.Run("bad requests", func(t *testing.T) {
		tests := []struct {
			name string
			body []byte
		}{
			{"no caller", []byte(`{"to":"` + token.String() + `"}`)},
			{"no target", []byte(`{"caller":"` + accs[0].Address.String() + `"}`)},
			{"unknown field", []byte(`{"caller":"` + accs[0].Address.String() + `","gas":1}`)},
			{"mixed", []byte(`{"caller":"` + accs[0].Address.String() + `","to":"` + token.String() + `","clauses":[{"to":"` + token.String() + `"}]}`)},
			{"negative value", []byte(`{"caller":"` + accs[0].Address.String() + `","to":"` + token.String() + `","value":"-1"}`)},
			{"malformed", []byte(`{`)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, status := httpPost(t, ts.URL+"/clauses", tt.body)
				assert.Equal(t, http.StatusBadRequest, status)
			})
		}
	})
}

func TestInspect(t *testing.T) {
	c, ts := initClausesServer(t)
	accs := genesis.DevAccounts()
	token := builtin.Token.Address

	body, status := httpPost(t, ts.URL+"/clauses/inspect", &clauses.Submission{
		Caller: &accs[0].Address,
		Clause: clauses.Clause{To: &token, Data: encode(t, "balanceOf", accs[3].Address)},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var receipt clauses.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	require.False(t, receipt.Reverted)
	require.Len(t, receipt.Outputs, 1)

	var bal *big.Int
	require.NoError(t, builtin.Token.ABI.MustMethod("balanceOf").DecodeOutput(receipt.Outputs[0].Data, &bal))
	assert.Equal(t, ether(1_000_000).String(), bal.String())

	// a transfer is only simulated
	body, status = httpPost(t, ts.URL+"/clauses/inspect", &clauses.Submission{
		Caller: &accs[0].Address,
		Clause: clauses.Clause{To: &token, Data: encode(t, "transfer", accs[9].Address, ether(5))},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &receipt))
	assert.Len(t, receipt.Events, 1)
	assert.Equal(t, uint32(0), c.Head().Number)

	_, status = httpPost(t, ts.URL+"/clauses/inspect", &clauses.Submission{
		Caller:  &accs[0].Address,
		Clauses: []clauses.Clause{{To: &token}, {To: &token}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
