package middleware

import (
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"github.com/pazhukov/magic-collector/pkg/contextx"
	"github.com/pazhukov/magic-collector/pkg/logx"
)

// Logger кладёт в контекст логгер обновления и id отправителя.
func Logger(base *slog.Logger) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		userID := contextx.UserID(senderID(update))

		log := base.With(
			slog.Int(logx.FieldUpdateID, update.UpdateID),
			logx.Stringer(logx.FieldUserID, userID),
		)

		scoped := contextx.WithUserID(contextx.WithLogger(ctx, log), userID)

		return ctx.WithContext(scoped).Next(update)
	}
}
