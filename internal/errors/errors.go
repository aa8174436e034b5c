// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку пайплайна, а на выход даёт:
//   - корректный HTTP-статус;
//   - тело {error, message, details?}, где details - тело ответа апстрима.
//
// Источник истинности по маппингу: sentinel-ошибки клиентов и сервиса.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/cathysarisky/api-with-activitypub/internal/clients/admin"
	"github.com/cathysarisky/api-with-activitypub/internal/clients/transport"
	"github.com/cathysarisky/api-with-activitypub/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrorResponse - единый формат ошибки для клиента.
// Details - разобранное тело ответа апстрима (если было).
// RequestID - прокидывается из X-Request-Id, если есть.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTP конвертирует ошибку пайплайна в HTTP-статус и тело ответа.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500, чтобы не маскировать баг;
//   - admin.ErrNoIdentity -> 404;
//   - service.ErrInvalidArgument -> 400;
//   - *transport.APIError -> 500 с телом апстрима в details;
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - прочее -> 500, message - текст ошибки, без details.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, internal()
	}

	var apiErr *transport.APIError

	switch {
	case stderrors.Is(err, admin.ErrNoIdentity):
		return http.StatusNotFound, ErrorResponse{
			Error:   "No identities found",
			Message: "Could not retrieve bearer token from Ghost Admin API",
		}
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: "invalid argument",
		}
	case stderrors.Is(err, service.ErrAnalyticsNotConfigured):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Missing analytics configuration",
		}
	case stderrors.As(err, &apiErr):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: apiErr.Error(),
			Details: apiErr.Body,
		}
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, ErrorResponse{
			Error:   "Client Closed Request",
			Message: "canceled",
		}
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorResponse{
			Error:   "Gateway Timeout",
			Message: "deadline exceeded",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: err.Error(),
		}
	}
}

// WriteError - хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func internal() ErrorResponse {
	return ErrorResponse{
		Error:   "Internal Server Error",
		Message: "internal error",
	}
}
