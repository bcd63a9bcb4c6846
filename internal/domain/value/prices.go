package value

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Ключи цен в том виде, в котором их отдаёт каталог.
const (
	PriceUSD       = "usd"
	PriceUSDFoil   = "usd_foil"
	PriceUSDEtched = "usd_etched"
	PriceEUR       = "eur"
	PriceEURFoil   = "eur_foil"
	PriceTIX       = "tix"
)

// Prices хранит цены карты как строки, чтобы не терять точность при
// сериализации. Отсутствующие цены просто не попадают в карту.
type Prices map[string]string

// Decimal возвращает цену по ключу, если она есть и корректна.
func (p Prices) Decimal(key string) (decimal.Decimal, bool) {
	raw, ok := p[key]
	if !ok || raw == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// Unit возвращает цену одного экземпляра. Для фойлы берётся usd_foil,
// а при его отсутствии обычная usd.
func (p Prices) Unit(foil bool) (decimal.Decimal, bool) {
	if foil {
		if d, ok := p.Decimal(PriceUSDFoil); ok {
			return d, true
		}
	}

	return p.Decimal(PriceUSD)
}

// Currency выводит валюту из ключа цены.
func Currency(key string) string {
	switch {
	case strings.HasPrefix(key, "usd"):
		return "USD"
	case strings.HasPrefix(key, "eur"):
		return "EUR"
	case strings.HasPrefix(key, "tix"):
		return "TIX"
	default:
		return strings.ToUpper(key)
	}
}

// Legalities: формат -> статус (legal, not_legal, banned, restricted).
type Legalities map[string]string
