package dto

// ErrorResponse is the standard error payload for the HTTP API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LiveDataRequest is the batch live-data request body.
type LiveDataRequest struct {
	IndicatorIDs []string `json:"indicator_ids"`
}

// RunReportsRequest triggers report generation for one frequency.
type RunReportsRequest struct {
	Frequency string `json:"frequency"`
}

// RunReportsResponse reports how many subscribers were processed.
type RunReportsResponse struct {
	Frequency string `json:"frequency"`
	Generated int    `json:"generated"`
}
