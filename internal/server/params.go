package server

import (
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"github.com/pazhukov/magic-collector/internal/domain"
	"github.com/pazhukov/magic-collector/internal/domain/value"
	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

func pageFromQuery(r *http.Request) (value.Page, error) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		return value.Page{}, err
	}

	offset, err := intQuery(r, "offset")
	if err != nil {
		return value.Page{}, err
	}

	return value.NewPage(limit, offset)
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(errcodes.ValidationError, name+" must be an integer")
	}

	return n, nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(errcodes.ValidationError, name+" must be a boolean")
	}

	return b, nil
}

func idParam(r *http.Request, code failure.ErrorCode) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(code, "id must be a positive integer")
	}

	return id, nil
}
