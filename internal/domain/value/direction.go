package value

import (
	"strings"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

// Direction показывает, приносит ли сделка карты в коллекцию или уводит их.
type Direction string

const (
	Acquire Direction = "acquire"
	Dispose Direction = "dispose"
)

// ParseDirection принимает также исторические обозначения buy/sell.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acquire", "buy":
		return Acquire, nil
	case "dispose", "sell":
		return Dispose, nil
	default:
		return "", domain.NewValidationError(errcodes.InvalidDirection, "direction must be acquire or dispose, got "+s)
	}
}

// Sign возвращает знак изменения остатка: +1 для покупки, -1 для продажи.
func (d Direction) Sign() int64 {
	if d == Dispose {
		return -1
	}

	return 1
}

func (d Direction) String() string {
	return string(d)
}
