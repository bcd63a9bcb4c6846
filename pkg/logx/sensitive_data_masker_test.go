package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Tokens",
			input:  []byte(`{"token":"eyJhbGciOiJFUzI1NiIsInR5cC","botToken":"123:abc"}`),
			output: []byte(`{"token":"[MASKED]","botToken":"[MASKED]"}`),
		},
		{
			name:   "Bot token in path",
			input:  []byte("POST /bot123456:AA-bbCC_dd/sendMessage HTTP/1.1"),
			output: []byte("POST /bot[MASKED]/sendMessage HTTP/1.1"),
		},
		{
			name:   "Authorization header",
			input:  []byte("GET / HTTP/1.1\r\nAuthorization: Bearer secret\r\n"),
			output: []byte("GET / HTTP/1.1\r\nAuthorization: Bearer [MASKED]\r\n"),
		},
		{
			name:   "Card payload untouched",
			input:  []byte(`{"cardId":"abc","quantity":4,"foil":true}`),
			output: []byte(`{"cardId":"abc","quantity":4,"foil":true}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
