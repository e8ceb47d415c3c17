package common

type ErrorResponse struct {
	Message string `json:"message"`
	RunID   string `json:"runId,omitempty"`
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		Message: message,
	}
}

// WithRunID tags the error with the run that produced it.
func (e *ErrorResponse) WithRunID(runID string) *ErrorResponse {
	e.RunID = runID
	return e
}
