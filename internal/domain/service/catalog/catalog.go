package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sahilm/fuzzy"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

const (
	defaultCacheTTL   = 10 * time.Minute
	maxSuggestions    = 5
	namesCacheKey     = "names"
	cardKeyPrefix     = "card:"
	printingKeyPrefix = "printing:"
)

type CardRepository interface {
	GetByID(ctx context.Context, id string) (entity.Card, error)
	GetByPrinting(ctx context.Context, setCode, number string) (entity.Card, error)
	FindByName(ctx context.Context, name string) ([]entity.Card, error)
	Names(ctx context.Context) ([]string, error)
	Search(ctx context.Context, query string, page value.Page) ([]entity.Card, int, error)
	Upsert(ctx context.Context, card entity.Card) error
}

// Provider - внешний источник данных о картах.
type Provider interface {
	CardByID(ctx context.Context, id string) (entity.Card, error)
	CardByPrinting(ctx context.Context, setCode, number string) (entity.Card, error)
}

// Service отвечает на вопросы "существует ли карта" и "как её зовут".
// Локальная таблица cards читается через кэш, а при промахе, если настроен
// провайдер, карта подтягивается извне и сохраняется.
type Service struct {
	cards    CardRepository
	provider Provider
	cache    *cache.Cache
}

func NewService(cards CardRepository) *Service {
	return &Service{
		cards: cards,
		cache: cache.New(defaultCacheTTL, 2*defaultCacheTTL),
	}
}

func (s *Service) WithProvider(p Provider) *Service {
	s.provider = p
	return s
}

func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	s.cache = cache.New(ttl, 2*ttl)
	return s
}

// Get возвращает карту по идентификатору или CardNotFound.
func (s *Service) Get(ctx context.Context, id string) (entity.Card, error) {
	if id == "" {
		return entity.Card{}, domain.NewValidationError(errcodes.InvalidCardRef, "card id is empty")
	}

	if card, ok := s.cached(cardKeyPrefix + id); ok {
		return card, nil
	}

	card, err := s.cards.GetByID(ctx, id)
	if err != nil && domain.IsNotFound(err) && s.provider != nil {
		card, err = s.fetch(ctx, func() (entity.Card, error) { return s.provider.CardByID(ctx, id) })
	}

	if err != nil {
		return entity.Card{}, err
	}

	s.remember(card)

	return card, nil
}

// FindByPrinting ищет карту по коду сета и коллекционному номеру.
func (s *Service) FindByPrinting(ctx context.Context, setCode, number string) (entity.Card, error) {
	key := printingKeyPrefix + strings.ToLower(setCode) + "/" + number

	if card, ok := s.cached(key); ok {
		return card, nil
	}

	card, err := s.cards.GetByPrinting(ctx, setCode, number)
	if err != nil && domain.IsNotFound(err) && s.provider != nil {
		card, err = s.fetch(ctx, func() (entity.Card, error) { return s.provider.CardByPrinting(ctx, setCode, number) })
	}

	if err != nil {
		return entity.Card{}, err
	}

	s.remember(card)

	return card, nil
}

// ResolveName возвращает первую печать с таким именем. Если карты нет,
// в описании ошибки перечисляются похожие имена.
func (s *Service) ResolveName(ctx context.Context, name string) (entity.Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Card{}, domain.NewValidationError(errcodes.InvalidCardRef, "card name is empty")
	}

	cards, err := s.cards.FindByName(ctx, name)
	if err != nil {
		return entity.Card{}, err
	}

	if len(cards) == 0 {
		msg := fmt.Sprintf("card %q not found", name)

		if suggestions := s.Suggest(ctx, name, maxSuggestions); len(suggestions) > 0 {
			msg += "; did you mean: " + strings.Join(suggestions, ", ")
		}

		return entity.Card{}, domain.NewNotFoundError(errcodes.CardNotFound, msg)
	}

	return cards[0], nil
}

// ResolveRef разрешает ссылку в порядке: идентификатор, печать, имя.
func (s *Service) ResolveRef(ctx context.Context, ref value.CardRef) (entity.Card, error) {
	if err := ref.Validate(); err != nil {
		return entity.Card{}, err
	}

	switch {
	case ref.ID != "":
		return s.Get(ctx, ref.ID)
	case ref.HasPrinting():
		return s.FindByPrinting(ctx, ref.SetCode, ref.CollectorNumber)
	default:
		return s.ResolveName(ctx, ref.Name)
	}
}

// Suggest возвращает до limit имён, нечётко совпадающих с запросом.
// Ошибки хранилища не мешают основному сценарию и только логируются.
func (s *Service) Suggest(ctx context.Context, query string, limit int) []string {
	names, err := s.names(ctx)
	if err != nil {
		logger(ctx).Warn("failed to load card names", logx.Error(err))
		return nil
	}

	matches := fuzzy.Find(query, names)

	result := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(result) == limit {
			break
		}

		result = append(result, m.Str)
	}

	return result
}

// Search ищет по локальному каталогу подстроку в имени или строке типа.
// Пустой запрос даёт пустую страницу, провайдер не опрашивается.
func (s *Service) Search(ctx context.Context, query string, page value.Page) (entity.CardList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return entity.CardList{Items: []entity.Card{}}, nil
	}

	cards, total, err := s.cards.Search(ctx, query, page)
	if err != nil {
		return entity.CardList{}, err
	}

	return entity.CardList{Items: cards, Total: total}, nil
}

// Refresh подтягивает свежие данные карты у провайдера и сохраняет их.
func (s *Service) Refresh(ctx context.Context, id string) (entity.Card, error) {
	if s.provider == nil {
		return entity.Card{}, domain.NewError(errcodes.ProviderUnavailable, "catalog provider is not configured")
	}

	card, err := s.fetch(ctx, func() (entity.Card, error) { return s.provider.CardByID(ctx, id) })
	if err != nil {
		return entity.Card{}, err
	}

	s.remember(card)

	return card, nil
}

// Save сохраняет карту в локальный каталог.
func (s *Service) Save(ctx context.Context, card entity.Card) error {
	if card.ID == "" || card.Name == "" {
		return domain.NewValidationError(errcodes.InvalidCardRef, "card id and name are required")
	}

	if err := s.cards.Upsert(ctx, card); err != nil {
		return err
	}

	s.remember(card)
	s.cache.Delete(namesCacheKey)

	return nil
}

func (s *Service) fetch(ctx context.Context, get func() (entity.Card, error)) (entity.Card, error) {
	card, err := get()
	if err != nil {
		return entity.Card{}, err
	}

	if err := s.cards.Upsert(ctx, card); err != nil {
		return entity.Card{}, fmt.Errorf("save fetched card: %w", err)
	}

	s.cache.Delete(namesCacheKey)

	logger(ctx).Info("card fetched from provider", logx.FieldCardID, card.ID, "name", card.Name)

	return card, nil
}

func (s *Service) names(ctx context.Context) ([]string, error) {
	if v, ok := s.cache.Get(namesCacheKey); ok {
		return v.([]string), nil //nolint:forcetypeassert // only this package writes the key
	}

	names, err := s.cards.Names(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(namesCacheKey, names)

	return names, nil
}

func (s *Service) cached(key string) (entity.Card, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return entity.Card{}, false
	}

	card, ok := v.(entity.Card)

	return card, ok
}

func (s *Service) remember(card entity.Card) {
	s.cache.SetDefault(cardKeyPrefix+card.ID, card)
	s.cache.SetDefault(printingKeyPrefix+strings.ToLower(card.SetCode)+"/"+card.CollectorNumber, card)
}
