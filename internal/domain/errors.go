package domain

import (
	"errors"
	"fmt"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"github.com/pazhukov/magic-collector/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения, несущую причину.
// Код и описание доступны через failure.Code / failure.Description.
type AppError struct {
	code    failure.ErrorCode
	message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}

	return e.message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) Code() failure.ErrorCode {
	return e.code
}

func (e *AppError) Description() string {
	return e.message
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		code:    code,
		message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		code:    code,
		message: message,
		cause:   err,
	}
}

// StoreError оборачивает сбой хранилища.
func StoreError(err error, message string) *AppError {
	return WrapError(err, errcodes.StoreUnavailable, message)
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code, true
	}

	return "", false
}

// NewInsufficientQuantityError сообщает, что списание увело бы количество
// ниже нуля. Payload содержит текущий и запрошенный объём.
func NewInsufficientQuantityError(cardID string, foil bool, owned, requested int64) error {
	return failure.NewUnprocessableEntityError(
		fmt.Sprintf("insufficient quantity of %s (foil=%t): owned %d, requested %d", cardID, foil, owned, requested),
		failure.WithCode(errcodes.InsufficientQuantity),
		failure.WithDescription(fmt.Sprintf("Not enough copies: owned %d, requested %d", owned, requested)),
		failure.WithPayload(map[string]string{
			"cardId":    cardID,
			"foil":      strconv.FormatBool(foil),
			"owned":     strconv.FormatInt(owned, 10),
			"requested": strconv.FormatInt(requested, 10),
		}),
	)
}

func NewInvalidQuantityError(message string) error {
	return failure.NewInvalidArgumentError(
		message,
		failure.WithCode(errcodes.InvalidQuantity),
		failure.WithDescription(message),
	)
}

func NewValidationError(code failure.ErrorCode, message string) error {
	return failure.NewInvalidArgumentError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

func NewNotFoundError(code failure.ErrorCode, message string) error {
	return failure.NewNotFoundError(
		message,
		failure.WithCode(code),
		failure.WithDescription(message),
	)
}

func IsInsufficientQuantity(err error) bool {
	return failure.IsUnprocessableEntityError(err) && failure.HasCode(err, errcodes.InsufficientQuantity)
}

func IsInvalidQuantity(err error) bool {
	return failure.IsInvalidArgumentError(err) && failure.HasCode(err, errcodes.InvalidQuantity)
}

func IsNotFound(err error) bool {
	return failure.IsNotFoundError(err)
}

func IsStoreUnavailable(err error) bool {
	code, ok := GetCode(err)

	return ok && code == errcodes.StoreUnavailable
}
