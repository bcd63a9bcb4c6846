package entity

import (
	"fmt"
	"strings"
)

// SyncResult - итог фонового прохода по набору карт.
type SyncResult struct {
	Processed int
	Recorded  int
	Errors    int
}

// BulkReport - итог массовой операции с перечнем неудачных элементов.
type BulkReport struct {
	Total     int
	Succeeded int
	Failed    []ItemFailure
}

type ItemFailure struct {
	ID      string
	Code    string
	Message string
}

// Notice - сообщение для оператора.
type Notice struct {
	Title string
	Lines []string
}

func (n Notice) Text() string {
	var b strings.Builder

	b.WriteString("<b>")
	b.WriteString(n.Title)
	b.WriteString("</b>")

	for _, line := range n.Lines {
		b.WriteString("\n")
		b.WriteString(line)
	}

	return b.String()
}

const maxNoticeFailures = 10

func NewBulkNotice(title string, r BulkReport) Notice {
	lines := []string{
		fmt.Sprintf("Всего: %d, успешно: %d, ошибок: %d", r.Total, r.Succeeded, len(r.Failed)),
	}

	for i, f := range r.Failed {
		if i == maxNoticeFailures {
			lines = append(lines, fmt.Sprintf("... и ещё %d", len(r.Failed)-maxNoticeFailures))

			break
		}

		lines = append(lines, fmt.Sprintf("#%s: %s", f.ID, f.Code))
	}

	return Notice{Title: title, Lines: lines}
}

func NewSyncNotice(title string, r SyncResult) Notice {
	return Notice{
		Title: title,
		Lines: []string{fmt.Sprintf("Карт: %d, записей: %d, ошибок: %d", r.Processed, r.Recorded, r.Errors)},
	}
}

type Stats struct {
	Cards         int64
	LedgerEntries int64
	Trades        int64
	Decks         int64
	Snapshots     int64
}
