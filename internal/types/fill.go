package types

// FillResult is the outcome of one fill pass, the only value returned across
// the extension boundary.
type FillResult struct {
	Success     bool   `json:"success"`
	FilledCount int    `json:"filledCount"`
	Message     string `json:"message"`
}

// FormSummary describes one detected job-application form.
type FormSummary struct {
	ID     string `json:"id"`
	Fields int    `json:"fields"`
}
