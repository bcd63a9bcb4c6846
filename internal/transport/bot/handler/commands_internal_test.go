package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		data string
		want int
	}{
		{data: "trades_page:3", want: 3},
		{data: "trades_page:1", want: 1},
		{data: "trades_page:0", want: 1},
		{data: "trades_page:-2", want: 1},
		{data: "trades_page:x", want: 1},
		{data: "noop", want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.data, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, parsePage(tc.data))
		})
	}
}

func TestPaginationKeyboard(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		page      int
		total     int
		wantTexts []string
		wantData  string
	}{
		{name: "single page", page: 1, total: 1, wantTexts: []string{"1 / 1"}, wantData: "noop"},
		{name: "first of many", page: 1, total: 3, wantTexts: []string{"1 / 3", "➡️"}, wantData: "noop"},
		{name: "middle", page: 2, total: 3, wantTexts: []string{"⬅️", "2 / 3", "➡️"}, wantData: "trades_page:1"},
		{name: "last", page: 3, total: 3, wantTexts: []string{"⬅️", "3 / 3"}, wantData: "trades_page:2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)
			keyboard := paginationKeyboard(tc.page, tc.total)

			rq.Len(keyboard.InlineKeyboard, 1)

			row := keyboard.InlineKeyboard[0]
			texts := make([]string, 0, len(row))

			for _, b := range row {
				texts = append(texts, b.Text)
			}

			rq.Equal(tc.wantTexts, texts)
			rq.Equal(tc.wantData, row[0].CallbackData)
		})
	}
}
