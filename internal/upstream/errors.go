package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// GenericFailureMessage is shown when the backend's error body carries no
// usable message.
const GenericFailureMessage = "Something went wrong, please try again"

// Sentinel errors returned by the client.
var (
	// ErrNoSession means the request context carried no bearer token.
	ErrNoSession = errors.New("no session attached to request context")

	// ErrNotFound marks a backend 404. The client returns 404s as *APIError
	// values that match this sentinel through errors.Is, so list callers can
	// treat them as "zero results" while workflow callers keep the status and
	// message for the failure modal.
	ErrNotFound = errors.New("upstream resource not found")

	// ErrBadShape means a 2xx response body did not match the expected
	// envelope. The client fails fast instead of propagating undefined fields.
	ErrBadShape = errors.New("upstream response shape mismatch")
)

// APIError is a non-2xx rejection from the program backend, carrying the
// backend's HTTP status and the best human-readable message that could be
// extracted from its body.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream rejected request (status %d): %s", e.StatusCode, e.Message)
}

// Is lets a 404 APIError satisfy errors.Is(err, ErrNotFound) without losing
// its status and message.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ExtractMessage pulls a human-readable message out of an upstream error
// body. The fallback chain is fixed: a nested error.message field first, then
// a flat message field, then a generic string.
func ExtractMessage(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &nested); err == nil {
		if nested.Error.Message != "" {
			return nested.Error.Message
		}
		if nested.Message != "" {
			return nested.Message
		}
	}
	return GenericFailureMessage
}
