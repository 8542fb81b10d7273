package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an application error: the backend answered with a non-success
// status and a machine-readable detail message. Anything else that goes
// wrong on the wire (connection refused, malformed body) is a transport
// error and stays a plain wrapped error.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with HTTP %d", e.StatusCode)
}

// IsAuthError reports whether err is a credential/token rejection
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// transportMessage is shown for any failure that never produced a backend
// response. The raw error goes to the debug log, not the screen.
const transportMessage = "Cannot reach the analyst service. Check your connection and try again."

// Message converts an error into user-facing status text. Backend detail
// text is preferred; transport errors collapse to a generic connectivity
// message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return transportMessage
}
