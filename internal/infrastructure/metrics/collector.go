package metrics

import (
	"git.appkode.ru/pub/go/failure"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
)

const namespace = "collector"

// Collector публикует счётчики журнала сделок и снимков истории.
type Collector struct {
	tradesRecorded   *prometheus.CounterVec
	tradesRejected   *prometheus.CounterVec
	tradesDeleted    prometheus.Counter
	snapshotRuns     prometheus.Counter
	snapshotRecorded prometheus.Counter
	snapshotErrors   prometheus.Counter
}

// NewCollector создаёт счётчики и регистрирует их в reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tradesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_recorded_total",
			Help:      "Trades written to the journal.",
		}, []string{"direction"}),
		tradesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_rejected_total",
			Help:      "Trades rejected before reaching the journal.",
		}, []string{"code"}),
		tradesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_deleted_total",
			Help:      "Trades deleted with their ledger change reversed.",
		}),
		snapshotRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_snapshot_runs_total",
			Help:      "Completed price and legality snapshot passes.",
		}),
		snapshotRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_rows_recorded_total",
			Help:      "History rows appended by snapshot passes.",
		}),
		snapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_snapshot_errors_total",
			Help:      "Cards that failed during snapshot passes.",
		}),
	}

	reg.MustRegister(
		c.tradesRecorded,
		c.tradesRejected,
		c.tradesDeleted,
		c.snapshotRuns,
		c.snapshotRecorded,
		c.snapshotErrors,
	)

	return c
}

func (c *Collector) TradeRecorded(direction value.Direction) {
	c.tradesRecorded.WithLabelValues(direction.String()).Inc()
}

func (c *Collector) TradeRejected(err error) {
	code := failure.Code(err).String()
	if code == "" {
		code = "unknown"
	}

	c.tradesRejected.WithLabelValues(code).Inc()
}

func (c *Collector) TradeDeleted() {
	c.tradesDeleted.Inc()
}

func (c *Collector) SnapshotFinished(result entity.SyncResult) {
	c.snapshotRuns.Inc()
	c.snapshotRecorded.Add(float64(result.Recorded))
	c.snapshotErrors.Add(float64(result.Errors))
}
