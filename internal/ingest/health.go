package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hpungsan/healthvault/internal/errors"
	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

// healthBody is the expected issue-body shape for the health pipeline.
type healthBody struct {
	Data *struct {
		Metrics []metricEntry `json:"metrics"`
	} `json:"data"`
}

// metricEntry is one metric batch inside a health export payload. Record
// decoding is deferred until the kind is known.
type metricEntry struct {
	Name  string            `json:"name"`
	Units string            `json:"units"`
	Data  []json.RawMessage `json:"data"`
}

type outcome int

const (
	outcomeAdded outcome = iota
	outcomeSkipped
	outcomeFailed
)

// HealthPipeline ingests health-metric export payloads, one vault file per
// metric kind.
type HealthPipeline struct {
	Store vault.Store
	Log   *slog.Logger
}

func (p *HealthPipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

// Run processes one health export issue. Each metric batch succeeds or fails
// on its own; a failed metric never blocks the others, but any failure makes
// the overall result a failure. Writes already performed stand regardless.
func (p *HealthPipeline) Run(ctx context.Context, issue schema.Issue) Result {
	var body healthBody
	if err := json.Unmarshal([]byte(issue.Body), &body); err != nil {
		return healthFailure(errors.NewInvalidPayload(fmt.Sprintf("failed to parse issue body: %v", err)).Error())
	}
	if body.Data == nil || body.Data.Metrics == nil {
		return healthFailure(errors.NewInvalidPayload("issue body missing data.metrics").Error())
	}

	var ok, skipped, failed []string
	for i, entry := range body.Data.Metrics {
		msg, out := p.processMetric(ctx, i, entry, issue.CreatedAt)
		switch out {
		case outcomeAdded:
			ok = append(ok, msg)
		case outcomeSkipped:
			skipped = append(skipped, msg)
		case outcomeFailed:
			failed = append(failed, msg)
		}
	}

	if len(failed) > 0 {
		res := healthFailure(strings.Join(failed, "; "))
		res.Detail = healthDetail("❌ Health data ingestion failed", ok, skipped, failed)
		return res
	}

	summary := strings.Join(append(append([]string{}, ok...), skipped...), "; ")
	if summary == "" {
		summary = "no metrics in payload"
	}
	return Result{
		Success: true,
		Message: summary,
		Detail:  healthDetail("✅ Health data ingested", ok, skipped, nil),
	}
}

// processMetric validates, routes, reads, diffs, and writes one metric batch.
func (p *HealthPipeline) processMetric(ctx context.Context, idx int, entry metricEntry, createdAt string) (string, outcome) {
	file, routed := Route(entry.Name)
	if !routed {
		return fmt.Sprintf("skipped unknown metric kind %q", entry.Name), outcomeSkipped
	}

	switch entry.Name {
	case schema.KindHeartRate:
		return ingestMetric[schema.HeartRate](ctx, p, idx, entry, file, createdAt)
	case schema.KindHeartRateVariability:
		return ingestMetric[schema.HeartRateVariability](ctx, p, idx, entry, file, createdAt)
	case schema.KindSleepAnalysis:
		return ingestMetric[schema.SleepAnalysis](ctx, p, idx, entry, file, createdAt)
	case schema.KindBodyTemperature:
		return ingestMetric[schema.BodyTemperature](ctx, p, idx, entry, file, createdAt)
	case schema.KindRestingHeartRate:
		return ingestMetric[schema.RestingHeartRate](ctx, p, idx, entry, file, createdAt)
	default:
		// Routed kinds and decodable kinds are the same fixed set.
		return fmt.Sprintf("skipped unknown metric kind %q", entry.Name), outcomeSkipped
	}
}

// ingestMetric runs validate → read → diff → write for one recognized kind.
// A record failing validation fails the whole batch for that kind; unknown
// kinds never reach here.
func ingestMetric[M schema.Metric](ctx context.Context, p *HealthPipeline, idx int, entry metricEntry, file, createdAt string) (string, outcome) {
	records := make([]M, 0, len(entry.Data))
	for j, raw := range entry.Data {
		var m M
		if err := json.Unmarshal(raw, &m); err != nil {
			path := fmt.Sprintf("metrics[%d].data[%d]", idx, j)
			return errors.NewValidation(path, err.Error()).Error(), outcomeFailed
		}
		if err := m.Validate(); err != nil {
			path := fmt.Sprintf("metrics[%d].data[%d]", idx, j)
			return errors.NewValidation(path, err.Error()).Error(), outcomeFailed
		}
		records = append(records, m)
	}

	existing := readMetricFile[M](ctx, p.Store, file, p.logger())
	keep, add := Diff(existing.Metrics, records)

	if err := writeMetricFile(ctx, p.Store, file, keep, add, createdAt, existing.IssueCreatedAt); err != nil {
		return errors.NewWriteFailed(file, err).Error(), outcomeFailed
	}

	if len(add) == 0 {
		return fmt.Sprintf("%s: no new records", entry.Name), outcomeAdded
	}
	return fmt.Sprintf("%s: added %d new record(s) to %s", entry.Name, len(add), file), outcomeAdded
}

func healthFailure(msg string) Result {
	return Result{
		Success: false,
		Message: msg,
		Detail:  "❌ Health data ingestion failed\n• " + msg,
	}
}

func healthDetail(header string, ok, skipped, failed []string) string {
	lines := []string{header}
	for _, msg := range ok {
		lines = append(lines, "• "+msg)
	}
	for _, msg := range skipped {
		lines = append(lines, "⏭️ "+msg)
	}
	for _, msg := range failed {
		lines = append(lines, "❌ "+msg)
	}
	return strings.Join(lines, "\n")
}
