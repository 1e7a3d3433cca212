// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/nodestake/api/accounts"
	"github.com/vechain/nodestake/api/clauses"
	"github.com/vechain/nodestake/api/ledger"
	"github.com/vechain/nodestake/api/multisig"
	"github.com/vechain/nodestake/api/nodes"
	"github.com/vechain/nodestake/api/utils"
	"github.com/vechain/nodestake/chain"
	"github.com/vechain/nodestake/log"
	"github.com/vechain/nodestake/metrics"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// Head is the latest committed block.
type Head struct {
	ChainID *math.HexOrDecimal256 `json:"chainId"`
	Number  uint32                `json:"number"`
	Time    uint64                `json:"time"`
}

// New return api router
func New(c *chain.Chain, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.Path("/head").
		Methods(http.MethodGet).
		Name("GET /head").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			head := c.Head()
			return utils.WriteJSON(w, &Head{(*math.HexOrDecimal256)(c.ChainID()), head.Number, head.Time})
		}))

	nodes.New(c).
		Mount(router, "/nodes")
	ledger.New(c).
		Mount(router, "/ledger")
	accounts.New(c).
		Mount(router, "/accounts")
	multisig.New(c).
		Mount(router, "/multisig")
	clauses.New(c).
		Mount(router, "/clauses")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		if h := metrics.HTTPHandler(); h != nil {
			router.Path("/metrics").
				Methods(http.MethodGet).
				Name("GET /metrics").
				Handler(h)
		}
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = new(atomic.Bool)
	}
	router.Use(RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	return handler.ServeHTTP
}
