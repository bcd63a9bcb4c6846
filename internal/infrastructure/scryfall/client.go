package scryfall

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/entity"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
	"github.com/pazhukov/magic-collector/pkg/httpx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	DefaultBaseURL = "https://api.scryfall.com"
	userAgent      = "magic-collector/1.0"
	maxErrorBody   = 512
)

// Client - клиент публичного API Scryfall, источник данных каталога.
const providerName = "scryfall"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration, opts ...httpx.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				append([]httpx.Option{httpx.WithProvider(providerName)}, opts...)...,
			),
		},
	}
}

// CardByID возвращает карту по идентификатору Scryfall.
func (c *Client) CardByID(ctx context.Context, id string) (entity.Card, error) {
	return c.fetchCard(ctx, "/cards/"+url.PathEscape(id), id)
}

// CardByPrinting возвращает карту по коду сета и коллекционному номеру.
func (c *Client) CardByPrinting(ctx context.Context, setCode, number string) (entity.Card, error) {
	path := "/cards/" + url.PathEscape(strings.ToLower(setCode)) + "/" + url.PathEscape(number)

	return c.fetchCard(ctx, path, strings.ToUpper(setCode)+"/"+number)
}

func (c *Client) fetchCard(ctx context.Context, path, ref string) (entity.Card, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return entity.Card{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return entity.Card{}, domain.WrapError(err, errcodes.ProviderUnavailable, "scryfall request failed")
	}

	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return entity.Card{}, domain.NewNotFoundError(errcodes.CardNotFound, "card "+ref+" not found")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return entity.Card{}, domain.WrapError(
			fmt.Errorf("status %d: %s", resp.StatusCode, body),
			errcodes.ProviderUnavailable,
			"scryfall request failed",
		)
	}

	var card cardResponse
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return entity.Card{}, domain.WrapError(err, errcodes.ProviderUnavailable, "failed to decode scryfall card")
	}

	return card.toDomain(), nil
}

type cardResponse struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Set             string             `json:"set"`
	SetName         string             `json:"set_name"`
	CollectorNumber string             `json:"collector_number"`
	Rarity          string             `json:"rarity"`
	TypeLine        string             `json:"type_line"`
	Prices          map[string]*string `json:"prices"`
	Legalities      map[string]string  `json:"legalities"`
	CardFaces       []struct {
		Name     string `json:"name"`
		TypeLine string `json:"type_line"`
	} `json:"card_faces"`
}

func (r cardResponse) toDomain() entity.Card {
	card := entity.Card{
		ID:              r.ID,
		Name:            r.Name,
		SetCode:         strings.ToLower(r.Set),
		SetName:         r.SetName,
		CollectorNumber: r.CollectorNumber,
		Rarity:          r.Rarity,
		TypeLine:        r.TypeLine,
		Prices:          value.Prices{},
		Legalities:      value.Legalities(r.Legalities),
		UpdatedAt:       time.Now(),
	}

	// У двусторонних карт имя и тип лежат в гранях.
	if len(r.CardFaces) > 0 {
		names := make([]string, 0, len(r.CardFaces))
		types := make([]string, 0, len(r.CardFaces))

		for _, f := range r.CardFaces {
			names = append(names, f.Name)
			types = append(types, f.TypeLine)
		}

		if card.Name == "" {
			card.Name = strings.Join(names, " // ")
		}

		if card.TypeLine == "" {
			card.TypeLine = strings.Join(types, " // ")
		}
	}

	for key, price := range r.Prices {
		if price != nil && *price != "" {
			card.Prices[key] = *price
		}
	}

	return card
}
