package value

import (
	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

type Page struct {
	Limit  int
	Offset int
}

// NewPage нормализует параметры пагинации: нулевой лимит заменяется значением
// по умолчанию, слишком большой обрезается.
func NewPage(limit, offset int) (Page, error) {
	if limit < 0 || offset < 0 {
		return Page{}, domain.NewValidationError(errcodes.InvalidPaging, "limit and offset must not be negative")
	}

	if limit == 0 {
		limit = DefaultPageLimit
	}

	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	return Page{Limit: limit, Offset: offset}, nil
}
