package value

import (
	"strings"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

// CardRef ссылается на карту одним из способов: по идентификатору,
// по печати (сет + номер) или по имени.
type CardRef struct {
	ID              string
	SetCode         string
	CollectorNumber string
	Name            string
}

func (r CardRef) IsZero() bool {
	return r.ID == "" && r.SetCode == "" && r.CollectorNumber == "" && r.Name == ""
}

func (r CardRef) HasPrinting() bool {
	return r.SetCode != "" && r.CollectorNumber != ""
}

func (r CardRef) Validate() error {
	switch {
	case r.IsZero():
		return domain.NewValidationError(errcodes.InvalidCardRef, "card reference is empty")
	case (r.SetCode == "") != (r.CollectorNumber == "") && r.ID == "" && r.Name == "":
		return domain.NewValidationError(errcodes.InvalidCardRef, "printing reference needs both set code and collector number")
	default:
		return nil
	}
}

func (r CardRef) String() string {
	switch {
	case r.ID != "":
		return r.ID
	case r.HasPrinting():
		return strings.ToUpper(r.SetCode) + "/" + r.CollectorNumber
	default:
		return r.Name
	}
}
