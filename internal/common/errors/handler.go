// internal/common/errors/handler.go
package errors

import (
	"net/http"
)

// HTTPStatus maps an error chain to the API status code. The routing layer
// never exposes internal error text for 5xx responses; PublicMessage pairs
// with this to decide what the caller may see.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindSourceUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the error text safe to put in a response envelope.
// Input and lookup errors are caller mistakes and keep their message; internal
// failures collapse to a generic string.
func PublicMessage(err error) string {
	switch KindOf(err) {
	case KindNotFound, KindInvalidInput:
		var appErr *AppError
		if As(err, &appErr) {
			return appErr.Message
		}
		return err.Error()
	default:
		return "internal server error"
	}
}
