package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"github.com/pazhukov/magic-collector/internal/transport/bot/middleware"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, adminID int64) {
	adminGroup := bh.Group(th.AnyMessage())
	adminGroup.Use(middleware.AdminOnly(adminID))

	adminGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	adminGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))
	adminGroup.HandleMessage(h.OnCard, th.CommandEqual("card"))
	adminGroup.HandleMessage(h.OnDeck, th.CommandEqual("deck"))
	adminGroup.HandleMessage(h.OnTrades, th.CommandEqual("trades"))
	adminGroup.HandleMessage(h.OnSnapshot, th.CommandEqual("snapshot"))

	// Пагинация списка сделок
	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.AdminOnly(adminID))

	cbGroup.HandleCallbackQuery(h.OnTradesCallback, th.CallbackDataPrefix(tradesPagePrefix))
}
