package errorpage

import (
	"errors"
	"net/http"
)

// HTTPError is an error carrying a status code and a translation key.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest         = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrForbidden          = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound           = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed   = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrRequestTimeout     = HTTPError{Code: http.StatusRequestTimeout, Key: "request_timeout"}
	ErrTooManyRequests    = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrInternal           = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrServiceUnavailable = HTTPError{Code: http.StatusServiceUnavailable, Key: "service_unavailable"}
)

// StatusCode returns the status carried by err, or 500.
func StatusCode(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.Code >= 400 && httpErr.Code < 600 {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

func key(err error) string {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr.Key != "" {
		return httpErr.Key
	}
	return ErrInternal.Key
}
