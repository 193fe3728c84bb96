package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

// writeMetricFile concatenates kept existing records and new records, in that
// order, and rewrites the whole file. issueCreatedAt stamps the delivery that
// produced this write; when the ticket carries no timestamp the prior file's
// value is carried over.
func writeMetricFile[M schema.Metric](ctx context.Context, store vault.Store, name string, keep, add []M, issueCreatedAt, priorCreatedAt string) error {
	merged := make([]M, 0, len(keep)+len(add))
	merged = append(merged, keep...)
	merged = append(merged, add...)

	file := schema.MetricFile[M]{
		Metrics:        merged,
		IssueCreatedAt: issueCreatedAt,
	}
	if file.IssueCreatedAt == "" {
		file.IssueCreatedAt = priorCreatedAt
	}

	return writeJSON(ctx, store, name, file)
}

// writeLocations rewrites the location history file.
func writeLocations(ctx context.Context, store vault.Store, entries []schema.LocationEntry) error {
	if entries == nil {
		entries = []schema.LocationEntry{}
	}
	return writeJSON(ctx, store, LocationFile, entries)
}

func writeJSON(ctx context.Context, store vault.Store, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", name, err)
	}
	return store.Write(ctx, name, append(data, '\n'))
}
