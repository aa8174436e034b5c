package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody - сколько байт тела ошибки читаем для details.
const maxErrorBody = 64 << 10

// APIError - апстрим ответил не-2xx статусом.
// Body - разобранное JSON-тело ошибки, строка (если не JSON) или nil.
type APIError struct {
	API    string
	Status int
	Body   any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api: unexpected status %d", e.API, e.Status)
}

// IsSuccess - 2xx.
func IsSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// NewAPIError читает (ограниченное) тело ответа и собирает APIError.
// Тело ответа не закрывает.
func NewAPIError(api string, resp *http.Response) *APIError {
	apiErr := &APIError{API: api, Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return apiErr
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		apiErr.Body = parsed
		return apiErr
	}

	apiErr.Body = string(raw)
	return apiErr
}
