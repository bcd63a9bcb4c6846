package contextx_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/pkg/contextx"
)

func TestValues(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name    string
		with    func(ctx context.Context) context.Context
		read    func(ctx context.Context) (any, error)
		want    any
		wantErr string
	}{
		{
			name: "trace id",
			with: func(ctx context.Context) context.Context { return contextx.WithTraceID(ctx, "cu1abc") },
			read: func(ctx context.Context) (any, error) { return contextx.TraceIDFromContext(ctx) },
			want: contextx.TraceID("cu1abc"),
		},
		{
			name:    "trace id missing",
			with:    func(ctx context.Context) context.Context { return contextx.WithUserID(ctx, 42) },
			read:    func(ctx context.Context) (any, error) { return contextx.TraceIDFromContext(ctx) },
			want:    contextx.TraceID(""),
			wantErr: "trace id: no value in context",
		},
		{
			name: "user id",
			with: func(ctx context.Context) context.Context { return contextx.WithUserID(ctx, 42) },
			read: func(ctx context.Context) (any, error) { return contextx.UserIDFromContext(ctx) },
			want: contextx.UserID(42),
		},
		{
			name:    "user id missing",
			with:    func(ctx context.Context) context.Context { return contextx.WithTraceID(ctx, "cu1abc") },
			read:    func(ctx context.Context) (any, error) { return contextx.UserIDFromContext(ctx) },
			want:    contextx.UserID(0),
			wantErr: "user id: no value in context",
		},
		{
			name: "logger",
			with: func(ctx context.Context) context.Context { return contextx.WithLogger(ctx, log) },
			read: func(ctx context.Context) (any, error) { return contextx.LoggerFromContext(ctx) },
			want: log,
		},
		{
			name:    "logger missing",
			with:    func(ctx context.Context) context.Context { return ctx },
			read:    func(ctx context.Context) (any, error) { return contextx.LoggerFromContext(ctx) },
			want:    (*slog.Logger)(nil),
			wantErr: "logger: no value in context",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			got, err := tc.read(tc.with(context.Background()))
			rq.Equal(tc.want, got)

			if tc.wantErr != "" {
				rq.ErrorIs(err, contextx.ErrNoValue)
				rq.ErrorContains(err, tc.wantErr)

				return
			}

			rq.NoError(err)
		})
	}
}

func TestUserID_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "123456789", contextx.UserID(123456789).String())
}

func TestLoggerFromContextOrDefault(t *testing.T) {
	t.Parallel()

	require.Same(t, slog.Default(), contextx.LoggerFromContextOrDefault(context.Background()))
}
