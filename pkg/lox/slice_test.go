package lox_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/pkg/lox"
)

func TestMapErr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   []string
		want    []int64
		wantErr bool
	}{
		{name: "all valid", input: []string{"1", "20", "300"}, want: []int64{1, 20, 300}},
		{name: "empty", input: []string{}, want: []int64{}},
		{name: "stops on error", input: []string{"1", "x", "3"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			got, err := lox.MapErr(tc.input, func(s string) (int64, error) {
				return strconv.ParseInt(s, 10, 64)
			})
			if tc.wantErr {
				rq.Error(err)
				rq.Nil(got)

				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, got)
		})
	}
}

func TestMap(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	rq.Equal([]string{"1", "2"}, lox.Map([]int{1, 2}, strconv.Itoa))
	rq.Empty(lox.Map([]int(nil), strconv.Itoa))
}
