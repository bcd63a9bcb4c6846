package middlewarex

import (
	"net/http"

	"github.com/rs/xid"

	"github.com/pazhukov/magic-collector/pkg/contextx"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxTraceIDLen = 64
)

// TraceID берёт id трассировки из X-Trace-Id или X-Request-Id прокси,
// иначе генерирует xid. Слишком длинные id заменяются новыми.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(headerTraceID)
		if traceID == "" {
			traceID = r.Header.Get(headerRequestID)
		}

		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = xid.New().String()
		}

		w.Header().Set(headerTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))))
	})
}
