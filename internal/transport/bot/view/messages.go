// Package view формирует тексты сообщений бота.
package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pazhukov/magic-collector/internal/domain/entity"
)

const StartMessage = `<b>Коллекция</b>

/status - сводка по коллекции и сделкам
/card <code>ID</code> - количество экземпляров карты
/deck <code>ID</code> - сверка колоды с коллекцией
/trades - последние сделки
/snapshot - снять цены по коллекции`

const (
	CardUsage     = "Использование: /card <code>ID</code>"
	DeckUsage     = "Использование: /deck <code>ID</code>"
	InvalidDeckID = "Неверный формат ID колоды"
	NoTrades      = "Сделок пока нет"
	SnapshotQueue = "Снимок цен поставлен в очередь"
	SnapshotBusy  = "Снимок цен уже ожидает выполнения"
)

func Status(stats entity.Stats, totals entity.LedgerTotals, summary entity.TradeSummary) string {
	return fmt.Sprintf(`<b>Сводка</b>

<b>Позиций:</b> %d (%d экз.)
<b>Оценка:</b> $%s
<b>Сделок:</b> %d
<b>Куплено на:</b> $%s
<b>Продано на:</b> $%s
<b>Прибыль:</b> $%s
<b>Колод:</b> %d
<b>Карт в каталоге:</b> %d`,
		totals.Entries, totals.Copies,
		totals.Value.StringFixed(2),
		summary.Count,
		summary.TotalBought.StringFixed(2),
		summary.TotalSold.StringFixed(2),
		summary.TotalProfit.StringFixed(2),
		stats.Decks,
		stats.Cards,
	)
}

func CardQuantities(cardID string, nonFoil, foil int64) string {
	return fmt.Sprintf("<code>%s</code>\nобычных: %d\nфойловых: %d", html.EscapeString(cardID), nonFoil, foil)
}

func Trades(list entity.TradeList, page, totalPages int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>Сделки</b> (стр. %d/%d)\n\n", page, totalPages)

	for _, t := range list.Items {
		name := t.CardID
		if t.Card != nil && t.Card.Name != "" {
			name = t.Card.Name
		}

		fmt.Fprintf(&sb, "#%d %s %s %d x %s по $%s",
			t.ID,
			t.TradeDate.Format(time.DateOnly),
			directionMark(t),
			t.Quantity,
			html.EscapeString(name),
			t.UnitPrice.StringFixed(2),
		)

		if t.Foil {
			sb.WriteString(" (foil)")
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func Validation(report entity.ValidationReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(report.DeckName))

	for _, l := range report.Lines {
		if l.Shortfall == 0 {
			continue
		}

		fmt.Fprintf(&sb, "%s: нужно %d, есть %d, не хватает %d\n",
			html.EscapeString(l.CardName), l.Requested, l.Owned, l.Shortfall)
	}

	if report.Satisfied {
		sb.WriteString("Колоду можно собрать из коллекции")
	} else {
		fmt.Fprintf(&sb, "\nВсего не хватает: %d", report.TotalShortfall)
	}

	return sb.String()
}

func Error(err error) string {
	return "Ошибка: " + html.EscapeString(err.Error())
}

func directionMark(t entity.Trade) string {
	if t.Direction.Sign() > 0 {
		return "купил"
	}

	return "продал"
}
