package services

import (
	"errors"
	"net/http"

	"github.com/mbonimpa/agrigate/internal/upstream"
)

// WorkflowResult is the outcome of a backend-owned write (approve, reject,
// transfer, upload). The backend's HTTP status is mirrored so the response to
// the dashboard carries the same code and message the backend produced; a
// failed workflow is an outcome to report, not a gateway fault.
type WorkflowResult struct {
	StatusCode int
	Message    string
	Success    bool
}

// workflowResult maps an upstream call result to a WorkflowResult. Backend
// refusals become unsuccessful results; anything else (no session, transport
// failure, bad response shape) is returned as an error for the caller to
// handle.
func workflowResult(err error, successMessage string) (*WorkflowResult, error) {
	if err == nil {
		return &WorkflowResult{
			StatusCode: http.StatusOK,
			Message:    successMessage,
			Success:    true,
		}, nil
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		return &WorkflowResult{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Success:    false,
		}, nil
	}

	return nil, err
}
