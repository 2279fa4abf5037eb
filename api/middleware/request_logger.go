// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The Farmland developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/quipuswap/farmland/log"
)

// RequestLoggerMiddleware logs every request while enabled, and requests slower
// than slowQueriesThreshold regardless. A zero threshold disables the latter.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			next.ServeHTTP(w, r)
			duration := time.Since(start)

			switch {
			case enabled.Load():
				logger.Info("API Request", "DurationMs", duration.Milliseconds(), "URI", r.URL.String(), "Method", r.Method)
			case duration > slowQueriesThreshold:
				logger.Warn("Slow API Request", "DurationMs", duration.Milliseconds(), "URI", r.URL.String(), "Method", r.Method)
			}
		})
	}
}
