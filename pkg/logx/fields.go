package logx

const (
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldDurationMs      = "duration-ms"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldRoute           = "route"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldURL             = "url"
	FieldUserID          = "user-id"

	// Поля предметной области.
	FieldCardID    = "card-id"
	FieldTradeID   = "trade-id"
	FieldAcquireID = "acquire-id"
	FieldDeckID    = "deck-id"
	FieldTaskID    = "task-id"
	FieldUpdateID  = "update-id"
	FieldProvider  = "provider"
)
