// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`

	// Payload Дополнительные данные ошибки
	Payload map[string]string `json:"payload,omitempty"`
}

// ErrorCode Код ошибки
type ErrorCode string

// Card Карта каталога
type Card struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	SetCode         string            `json:"setCode"`
	SetName         string            `json:"setName,omitempty"`
	CollectorNumber string            `json:"collectorNumber"`
	Rarity          string            `json:"rarity,omitempty"`
	TypeLine        string            `json:"typeLine,omitempty"`
	Prices          map[string]string `json:"prices,omitempty"`
	Legalities      map[string]string `json:"legalities,omitempty"`
}

// CardPage Страница результатов поиска по каталогу
type CardPage struct {
	Items []Card `json:"items"`
	Total int    `json:"total"`
}

// CardRef Ссылка на карту: id, либо setCode + collectorNumber, либо name
type CardRef struct {
	ID              string `json:"cardId,omitempty"`
	SetCode         string `json:"setCode,omitempty"`
	CollectorNumber string `json:"collectorNumber,omitempty"`
	Name            string `json:"name,omitempty"`
}

// LedgerEntry Позиция коллекции
type LedgerEntry struct {
	CardID    string  `json:"cardId"`
	Foil      bool    `json:"foil"`
	Quantity  int64   `json:"quantity"`
	Card      *Card   `json:"card,omitempty"`
	UnitPrice *string `json:"unitPrice,omitempty"`
	Value     *string `json:"value,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

// LedgerPage Страница коллекции
type LedgerPage struct {
	Items []LedgerEntry `json:"items"`
	Total int           `json:"total"`
	Value string        `json:"value"`
}

// CardQuantities Количество обычных и фойловых экземпляров карты
type CardQuantities struct {
	CardID  string `json:"cardId"`
	NonFoil int64  `json:"nonFoil"`
	Foil    int64  `json:"foil"`
}

// LedgerDeltaRequest Изменение количества на delta
type LedgerDeltaRequest struct {
	CardID string `json:"cardId" validate:"required"`
	Foil   bool   `json:"foil"`
	Delta  int64  `json:"delta"`
}

// LedgerSetRequest Установка абсолютного количества
type LedgerSetRequest struct {
	CardID   string `json:"cardId" validate:"required"`
	Foil     bool   `json:"foil"`
	Quantity int64  `json:"quantity"`
}

// Deleted Количество удалённых записей
type Deleted struct {
	Deleted int64 `json:"deleted"`
}

// TradeRequest Запись сделки
type TradeRequest struct {
	CardRef

	Foil      bool   `json:"foil"`
	Direction string `json:"direction" validate:"required"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unitPrice" validate:"required"`
	// TradeDate RFC3339 или YYYY-MM-DD, по умолчанию текущий момент
	TradeDate string `json:"tradeDate,omitempty"`
}

// Trade Сделка
type Trade struct {
	ID          int64  `json:"id"`
	CardID      string `json:"cardId"`
	CardName    string `json:"cardName,omitempty"`
	SetCode     string `json:"setCode,omitempty"`
	Foil        bool   `json:"foil"`
	Direction   string `json:"direction"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	TotalAmount string `json:"totalAmount"`
	CostBasis   string `json:"costBasis"`
	Profit      string `json:"profit"`
	Remaining   int64  `json:"remaining"`
	TradeDate   string `json:"tradeDate"`
}

// TradePage Страница журнала сделок
type TradePage struct {
	Items []Trade `json:"items"`
	Total int     `json:"total"`
}

// TradeSummary Итоги журнала сделок
type TradeSummary struct {
	Count       int64  `json:"count"`
	TotalBought string `json:"totalBought"`
	TotalSold   string `json:"totalSold"`
	TotalProfit string `json:"totalProfit"`
}

// BulkReport Итог массовой операции
type BulkReport struct {
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    []ItemFailure `json:"failed"`
}

// ItemFailure Неудачный элемент массовой операции
type ItemFailure struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeckLineRequest Строка колоды
type DeckLineRequest struct {
	CardRef

	Foil      bool  `json:"foil"`
	Sideboard bool  `json:"sideboard"`
	Quantity  int64 `json:"quantity"`
}

// DeckRequest Создание или замена колоды
type DeckRequest struct {
	Name        string            `json:"name"`
	Format      string            `json:"format,omitempty"`
	Description string            `json:"description,omitempty"`
	Lines       []DeckLineRequest `json:"lines,omitempty" validate:"dive"`
	// Decklist текстовый список, используется если lines пуст
	Decklist string `json:"decklist,omitempty"`
}

// DeckLine Строка колоды
type DeckLine struct {
	CardID    string `json:"cardId"`
	CardName  string `json:"cardName,omitempty"`
	Foil      bool   `json:"foil"`
	Sideboard bool   `json:"sideboard"`
	Quantity  int64  `json:"quantity"`
}

// Deck Колода
type Deck struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Format      string     `json:"format,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
	Lines       []DeckLine `json:"lines,omitempty"`
}

// ValidationReport Сверка колоды с коллекцией
type ValidationReport struct {
	DeckID         int64            `json:"deckId"`
	DeckName       string           `json:"deckName"`
	Satisfied      bool             `json:"satisfied"`
	TotalShortfall int64            `json:"totalShortfall"`
	Lines          []ValidationLine `json:"lines"`
}

// ValidationLine Потребность по паре (карта, фойла)
type ValidationLine struct {
	CardID    string `json:"cardId"`
	CardName  string `json:"cardName"`
	Foil      bool   `json:"foil"`
	Main      int64  `json:"main"`
	Side      int64  `json:"side"`
	Requested int64  `json:"requested"`
	Owned     int64  `json:"owned"`
	Shortfall int64  `json:"shortfall"`
}

// Snapshot Запись журнала цен и легальности
type Snapshot struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Value      string `json:"value"`
	Currency   string `json:"currency,omitempty"`
	RecordedAt string `json:"recordedAt"`
}

// SnapshotStarted Запуск снимка цен; false, если снимок уже ждёт в очереди
type SnapshotStarted struct {
	Started bool `json:"started"`
}

// Stats Объём данных
type Stats struct {
	Cards         int64  `json:"cards"`
	LedgerEntries int64  `json:"ledgerEntries"`
	Copies        int64  `json:"copies"`
	Value         string `json:"value"`
	Trades        int64  `json:"trades"`
	Decks         int64  `json:"decks"`
	Snapshots     int64  `json:"snapshots"`
}
