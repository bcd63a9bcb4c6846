package entity

import (
	"time"

	"github.com/pazhukov/magic-collector/internal/domain/value"
)

// Card - печать карты из каталога. Ядро учёта только ссылается на неё по ID.
type Card struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	SetCode         string           `json:"set_code"`
	SetName         string           `json:"set_name"`
	CollectorNumber string           `json:"collector_number"`
	Rarity          string           `json:"rarity"`
	TypeLine        string           `json:"type_line"`
	Prices          value.Prices     `json:"prices,omitempty"`
	Legalities      value.Legalities `json:"legalities,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// CardList - страница результатов поиска по каталогу.
type CardList struct {
	Items []Card
	Total int
}
