package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/internal/infrastructure/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	rq := require.New(t)
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.TradeRecorded(value.Acquire)
	c.TradeRecorded(value.Acquire)
	c.TradeRecorded(value.Dispose)
	c.TradeRejected(domain.NewInsufficientQuantityError("c-bolt", false, 0, 1))
	c.TradeRejected(errors.New("boom"))
	c.TradeDeleted()
	c.SnapshotFinished(entity.SyncResult{Processed: 3, Recorded: 10, Errors: 1})

	count, err := testutil.GatherAndCount(reg)
	rq.NoError(err)
	rq.Equal(8, count)

	rq.Equal(2, int(gatheredValue(t, reg, "collector_trades_recorded_total", "acquire")))
	rq.Equal(1, int(gatheredValue(t, reg, "collector_trades_rejected_total", "InsufficientQuantity")))
	rq.Equal(1, int(gatheredValue(t, reg, "collector_trades_rejected_total", "unknown")))
	rq.Equal(10, int(gatheredValue(t, reg, "collector_history_rows_recorded_total", "")))
}

// gatheredValue ищет значение счётчика по имени и значению единственной метки.
func gatheredValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, f := range families {
		if f.GetName() != name {
			continue
		}

		for _, m := range f.GetMetric() {
			if label == "" || (len(m.GetLabel()) == 1 && m.GetLabel()[0].GetValue() == label) {
				return m.GetCounter().GetValue()
			}
		}
	}

	t.Fatalf("metric %s{%s} not found", name, label)

	return 0
}
