package middlewarex

import (
	"log/slog"
	"mime"
	"net/http"
	"net/http/httputil"

	"github.com/pazhukov/magic-collector/pkg/logx"
)

// RequestLogging пишет дамп входящего запроса. Тело попадает в лог только
// для JSON и текста: API коллекции других форматов не принимает.
func RequestLogging(
	masker logx.SensitiveDataMaskerInterface,
	logFieldMaxLen int,
) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dump, err := httputil.DumpRequest(r, loggableBody(r.Header.Get("Content-Type")))

			logger(r.Context()).Info(
				logx.FieldHTTPRequest,
				slog.String(logx.FieldRequestBody, string(masker.Mask(truncate(dump, logFieldMaxLen)))),
				logx.Error(err),
			)

			next.ServeHTTP(w, r)
		})
	}
}

func loggableBody(contentType string) bool {
	if contentType == "" {
		return true
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "application/json" || mediaType == "text/plain"
}

// truncate обрезает дамп до limit байт; limit <= 0 означает без ограничения.
func truncate(dump []byte, limit int) []byte {
	if limit > 0 && len(dump) > limit {
		return dump[:limit]
	}

	return dump
}
