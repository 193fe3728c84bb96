package ingest

// Result is the terminal outcome of dispatching one issue.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Skipped marks a silent no-op: the issue title was not addressed to any
	// pipeline. Nothing was written and nothing is notified.
	Skipped bool `json:"skipped,omitempty"`

	// Detail is the richer, emoji-prefixed multi-line variant of Message
	// posted to the originating ticket thread.
	Detail string `json:"-"`
}
