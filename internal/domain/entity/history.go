package entity

import (
	"time"

	"github.com/pazhukov/magic-collector/internal/domain/value"
)

// Snapshot - запись журнала цен и легальности. Журнал только дополняется.
type Snapshot struct {
	ID         int64
	CardID     string
	Kind       value.SnapshotKind
	Name       string
	Value      string
	Currency   string
	RecordedAt time.Time
}
