package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	LedgerServer
	TradeServer
	DeckServer
	CardServer
}

func NewServer(
	ledgerServer LedgerServer,
	tradeServer TradeServer,
	deckServer DeckServer,
	cardServer CardServer,
) Server {
	return Server{
		LedgerServer: ledgerServer,
		TradeServer:  tradeServer,
		DeckServer:   deckServer,
		CardServer:   cardServer,
	}
}
