// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/vechain/lockstake/log"
)

// RequestLoggerHandler returns a http handler logging every request when
// enabled, and the ones slower than slowThreshold otherwise. A zero
// slowThreshold disables slow request logging.
func RequestLoggerHandler(handler http.Handler, logger log.Logger, enabled bool, slowThreshold time.Duration) http.Handler {
	if !enabled && slowThreshold == 0 {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the body can only be read once
		var bodyBytes []byte
		if r.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		start := time.Now()
		handler.ServeHTTP(w, r)

		duration := time.Since(start)
		if enabled || (slowThreshold > 0 && duration > slowThreshold) {
			logger.Info("API Request",
				"DurationMs", duration.Milliseconds(),
				"Timestamp", time.Now().Unix(),
				"URI", r.URL.String(),
				"Method", r.Method,
				"Body", string(bodyBytes),
			)
		}
	})
}
