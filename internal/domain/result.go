package domain

// AggregateResult is the stdout contract for aggregate Mode A.
// Either {"stop":true} or {"stop":false,"fixFile":"./.cache/..."}.
type AggregateResult struct {
	Stop    bool   `json:"stop"`
	FixFile string `json:"fixFile,omitempty"`
}

// OKResult is the stdout contract for comment-posting modes.
type OKResult struct {
	OK    bool `json:"ok"`
	Final bool `json:"final,omitempty"`
}

// ErrorResult is the stdout contract for failures. Error carries a stable
// code (e.g. "MISSING_CONTEXT_FILE"); Detail and Suggestion are free text.
type ErrorResult struct {
	Error      string `json:"error"`
	Detail     string `json:"detail,omitempty"`
	Host       string `json:"host,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
	PRNumber   int    `json:"prNumber,omitempty"`
	Round      int    `json:"round,omitempty"`
}
