package history

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type SnapshotRepository interface {
	Append(ctx context.Context, snapshots []entity.Snapshot) error
	ListByCard(ctx context.Context, cardID string, kind value.SnapshotKind, limit int) ([]entity.Snapshot, error)
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

type OwnedCards interface {
	OwnedCardIDs(ctx context.Context) ([]string, error)
}

type CardRefresher interface {
	Refresh(ctx context.Context, id string) (entity.Card, error)
}

type Observer interface {
	SnapshotFinished(result entity.SyncResult)
}

type Notifier interface {
	Notify(ctx context.Context, notice entity.Notice)
}

// Service ведёт журнал цен и легальности карт коллекции.
type Service struct {
	snapshots SnapshotRepository
	owned     OwnedCards
	catalog   CardRefresher
	delay     time.Duration
	observer  Observer
	notifier  Notifier
	now       func() time.Time
}

func NewService(snapshots SnapshotRepository, owned OwnedCards, catalog CardRefresher) *Service {
	return &Service{
		snapshots: snapshots,
		owned:     owned,
		catalog:   catalog,
		observer:  nopObserver{},
		notifier:  nopNotifier{},
		now:       time.Now,
	}
}

// WithRequestDelay задаёт паузу между запросами к провайдеру.
func (s *Service) WithRequestDelay(d time.Duration) *Service {
	s.delay = d
	return s
}

func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// Snapshot обновляет данные каждой карты, которая есть в коллекции, и
// дописывает её цены и легальность в журнал. Ошибка по одной карте не
// прерывает проход и учитывается в результате.
func (s *Service) Snapshot(ctx context.Context) (entity.SyncResult, error) {
	ids, err := s.owned.OwnedCardIDs(ctx)
	if err != nil {
		return entity.SyncResult{}, fmt.Errorf("list owned cards: %w", err)
	}

	logger(ctx).Info("history snapshot started", "cards", len(ids))

	var result entity.SyncResult

	for i, id := range ids {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		result.Processed++

		card, err := s.catalog.Refresh(ctx, id)
		if err != nil {
			logger(ctx).Error("failed to refresh card", logx.FieldCardID, id, logx.Error(err))
			result.Errors++

			continue
		}

		recorded, err := s.Record(ctx, card)
		if err != nil {
			logger(ctx).Error("failed to record history", logx.FieldCardID, id, logx.Error(err))
			result.Errors++

			continue
		}

		result.Recorded += recorded
	}

	logger(ctx).Info("history snapshot finished",
		"processed", result.Processed,
		"recorded", result.Recorded,
		"errors", result.Errors,
	)

	s.observer.SnapshotFinished(result)
	s.notifier.Notify(ctx, entity.NewSyncNotice("Снимок цен", result))

	return result, nil
}

// Record дописывает в журнал текущие цены и легальность карты и возвращает
// число добавленных записей.
func (s *Service) Record(ctx context.Context, card entity.Card) (int, error) {
	rows := Rows(card, s.now())
	if err := s.snapshots.Append(ctx, rows); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// Rows раскладывает цены и легальность карты в записи журнала. Валюта
// выводится из ключа цены.
func Rows(card entity.Card, at time.Time) []entity.Snapshot {
	rows := make([]entity.Snapshot, 0, len(card.Prices)+len(card.Legalities))

	for _, key := range sortedKeys(card.Prices) {
		if card.Prices[key] == "" {
			continue
		}

		rows = append(rows, entity.Snapshot{
			CardID:     card.ID,
			Kind:       value.SnapshotPrice,
			Name:       key,
			Value:      card.Prices[key],
			Currency:   value.Currency(key),
			RecordedAt: at,
		})
	}

	for _, format := range sortedKeys(card.Legalities) {
		rows = append(rows, entity.Snapshot{
			CardID:     card.ID,
			Kind:       value.SnapshotLegality,
			Name:       format,
			Value:      card.Legalities[format],
			RecordedAt: at,
		})
	}

	return rows
}

// ListByCard возвращает журнал по карте, свежие записи первыми.
func (s *Service) ListByCard(
	ctx context.Context,
	cardID string,
	kind value.SnapshotKind,
	limit int,
) ([]entity.Snapshot, error) {
	if cardID == "" {
		return nil, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	switch kind {
	case "", value.SnapshotPrice, value.SnapshotLegality:
	default:
		return nil, domain.NewValidationError(errcodes.ValidationError, "unknown history kind "+string(kind))
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	return s.snapshots.ListByCard(ctx, cardID, kind, min(limit, maxListLimit))
}

// Purge удаляет записи старше before.
func (s *Service) Purge(ctx context.Context, before time.Time) (int64, error) {
	purged, err := s.snapshots.PurgeBefore(ctx, before)
	if err != nil {
		return 0, err
	}

	logger(ctx).Info("history purged", "before", before, "rows", purged)

	return purged, nil
}

// PurgeOlderThan удаляет записи старше retention от текущего момента.
func (s *Service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	return s.Purge(ctx, s.now().Add(-retention))
}

func sortedKeys[M ~map[string]string](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

type nopObserver struct{}

func (nopObserver) SnapshotFinished(entity.SyncResult) {}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, entity.Notice) {}
