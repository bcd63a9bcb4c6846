package contextx

import (
	"context"
	"strconv"
)

// UserID - Telegram id отправителя команды боту.
type UserID int64

func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

func WithUserID(ctx context.Context, userID UserID) context.Context {
	return withValue(ctx, userID)
}

func UserIDFromContext(ctx context.Context) (UserID, error) {
	return valueFrom[UserID](ctx, "user id")
}
