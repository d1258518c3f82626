// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/lockstake/api/assets"
	"github.com/vechain/lockstake/api/batches"
	"github.com/vechain/lockstake/api/logs"
	"github.com/vechain/lockstake/api/node"
	"github.com/vechain/lockstake/api/prices"
	"github.com/vechain/lockstake/api/staking"
	"github.com/vechain/lockstake/ledger"
	"github.com/vechain/lockstake/log"
	"github.com/vechain/lockstake/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router. The log endpoints are left out when logDB is nil.
func New(l *ledger.Ledger, logDB *logdb.LogDB, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	node.New(l).
		Mount(router, "/node")
	staking.New(l).
		Mount(router, "/staking")
	assets.New(l).
		Mount(router, "/assets")
	prices.New(l).
		Mount(router, "/prices")
	batches.New(l).
		Mount(router, "/batches")
	if logDB != nil {
		logs.New(logDB, opts.LogsLimit).
			Mount(router, "/logs")
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)
	handler = genesisIDHandler(handler, l)
	handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger, opts.SlowQueriesThreshold)

	return handler.ServeHTTP
}

// genesisIDHandler tags every response with the genesis id, and rejects
// requests addressed to another ledger.
func genesisIDHandler(h http.Handler, l *ledger.Ledger) http.Handler {
	genesisID := l.GenesisID().String()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", genesisID)
		if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, genesisID) {
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		h.ServeHTTP(w, r)
	})
}
