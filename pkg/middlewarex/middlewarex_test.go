package middlewarex_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/pkg/contextx"
	"github.com/pazhukov/magic-collector/pkg/logx"
	"github.com/pazhukov/magic-collector/pkg/middlewarex"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "generated"},
		{name: "propagated", headers: map[string]string{"X-Trace-Id": "trace-from-client"}, want: "trace-from-client"},
		{name: "from proxy request id", headers: map[string]string{"X-Request-Id": "req-7"}, want: "req-7"},
		{
			name:    "trace id wins over request id",
			headers: map[string]string{"X-Trace-Id": "trace-1", "X-Request-Id": "req-7"},
			want:    "trace-1",
		},
		{name: "too long is replaced", headers: map[string]string{"X-Trace-Id": strings.Repeat("a", 65)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			var seen contextx.TraceID

			h := middlewarex.TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				traceID, err := contextx.TraceIDFromContext(r.Context())
				rq.NoError(err)

				seen = traceID
			}))

			r := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			rq.NotEmpty(seen.String())
			rq.LessOrEqual(len(seen.String()), 64)
			rq.Equal(seen.String(), w.Header().Get("X-Trace-Id"))

			if tc.want != "" {
				rq.Equal(tc.want, seen.String())
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	h := middlewarex.TraceID(middlewarex.Logger(base)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		log, err := contextx.LoggerFromContext(r.Context())
		rq.NoError(err)

		log.Info("handled")
	})))

	r := httptest.NewRequest(http.MethodDelete, "/v1/trades/7", nil)
	r.Header.Set("X-Trace-Id", "abc")

	h.ServeHTTP(httptest.NewRecorder(), r)

	out := buf.String()
	rq.Contains(out, `"msg":"handled"`)
	rq.Contains(out, `"url":"/v1/trades/7"`)
	rq.Contains(out, `"trace-id":"abc"`)
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	h := middlewarex.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()

	rq.NotPanics(func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Contains(w.Body.String(), `"code":"InternalServerError"`)
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		contentType string
		body        string
		marker      string
		wantBody    bool
	}{
		{name: "json", contentType: "application/json; charset=utf-8", body: `{"cardId":"c-bolt"}`, marker: "c-bolt", wantBody: true},
		{name: "text", contentType: "text/plain", body: "4 Lightning Bolt", marker: "4 Lightning Bolt", wantBody: true},
		{name: "multipart", contentType: "multipart/form-data; boundary=x", body: "--x\r\nimage\r\n--x--", marker: "image"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			var buf bytes.Buffer

			log := slog.New(slog.NewJSONHandler(&buf, nil))

			h := middlewarex.Logger(log)(middlewarex.RequestLogging(logx.NewNopSensitiveDataMasker(), 0)(
				http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}),
			))

			r := httptest.NewRequest(http.MethodPost, "/v1/decks", strings.NewReader(tc.body))
			r.Header.Set("Content-Type", tc.contentType)

			h.ServeHTTP(httptest.NewRecorder(), r)

			if tc.wantBody {
				rq.Contains(buf.String(), tc.marker)
			} else {
				rq.NotContains(buf.String(), tc.marker)
			}
		})
	}
}

func TestResponseLogging(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	var buf bytes.Buffer

	log := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(middlewarex.Logger(log), middlewarex.ResponseLogging(logx.NewNopSensitiveDataMasker(), 5))
	r.Delete("/v1/trades/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("trade not found"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/v1/trades/7", nil))

	out := buf.String()
	rq.Contains(out, `"route":"/v1/trades/{id}"`)
	rq.Contains(out, `"response-status":404`)
	rq.Contains(out, `"response-body":"trade"`)
}
