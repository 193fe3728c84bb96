// Package schema defines the record shapes accepted by the vault and the
// validation applied to untrusted third-party export payloads.
package schema

import "encoding/json"

// Metric kind names as declared by the health export format.
const (
	KindHeartRate            = "heart_rate"
	KindHeartRateVariability = "heart_rate_variability"
	KindSleepAnalysis        = "sleep_analysis"
	KindBodyTemperature      = "body_temperature"
	KindRestingHeartRate     = "resting_heart_rate"
)

// Issue is the ingestion transport: an issue-tracker ticket carrying a title
// (routing key), a JSON payload in its body, and optional metadata.
type Issue struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt,omitempty"`
	Sender    string `json:"sender,omitempty"`
}

// Metric is one observation of a health domain. Implementations are the
// per-kind record types in this package.
type Metric interface {
	// Validate rejects records missing required fields.
	Validate() error

	// Key returns the record's identity key: the date field verbatim, or a
	// canonical serialization of the whole record when the date is absent.
	Key() string

	// Incomplete reports whether the record matches a known defect pattern
	// that a later complete delivery for the same date should replace.
	Incomplete() bool
}

// MetricFile is the persisted unit for one metric kind.
type MetricFile[M Metric] struct {
	Metrics        []M    `json:"metrics"`
	IssueCreatedAt string `json:"issueCreatedAt,omitempty"`
}

// canonicalKey serializes a record deterministically for use as an identity
// key when no date is present. Per-kind MarshalJSON emits declared fields in
// declaration order followed by extras sorted by key, so the output is stable.
func canonicalKey(m Metric) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
