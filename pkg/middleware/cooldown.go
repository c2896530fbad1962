package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vfg2006/campaign-kpi-etl/pkg/apiErrors"
	"github.com/vfg2006/campaign-kpi-etl/pkg/log"
)

// Cooldown aceita no máximo uma requisição por intervalo na rota em que é aplicado.
// As demais recebem 429 com Retry-After.
func Cooldown(interval time.Duration) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		lastSeen time.Time
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			wait := interval - time.Since(lastSeen)
			if !lastSeen.IsZero() && wait > 0 {
				mu.Unlock()

				log.ForContext(r.Context()).WithFields(log.Fields{
					"path":    r.URL.Path,
					"wait_ms": wait.Milliseconds(),
				}).Warn("Requisição recusada pelo intervalo mínimo")

				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				apiErrors.WriteError(w, apiErrors.ErrTooManyRequests, "Aguarde antes de repetir a requisição", nil)
				return
			}
			lastSeen = time.Now()
			mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}
