package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Store and upstream failures.
	StoreUnavailable    failure.ErrorCode = "StoreUnavailable"
	ProviderUnavailable failure.ErrorCode = "ProviderUnavailable"

	// Ledger.
	InsufficientQuantity failure.ErrorCode = "InsufficientQuantity"
	InvalidQuantity      failure.ErrorCode = "InvalidQuantity"

	// Catalog.
	CardNotFound   failure.ErrorCode = "CardNotFound"
	InvalidCardRef failure.ErrorCode = "InvalidCardRef"

	// Journal.
	TradeNotFound    failure.ErrorCode = "TradeNotFound"
	InvalidTradeID   failure.ErrorCode = "InvalidTradeID"
	InvalidDirection failure.ErrorCode = "InvalidDirection"
	InvalidPrice     failure.ErrorCode = "InvalidPrice"

	// Decks.
	DeckNotFound    failure.ErrorCode = "DeckNotFound"
	InvalidDeckID   failure.ErrorCode = "InvalidDeckID"
	InvalidDeckName failure.ErrorCode = "InvalidDeckName"
	InvalidDeckLine failure.ErrorCode = "InvalidDeckLine"
)
