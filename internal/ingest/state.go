package ingest

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hpungsan/healthvault/internal/errors"
	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

// readMetricFile loads the current contents of a metric file. It never fails:
// a missing file, a read error, invalid JSON, or schema-invalid records all
// yield the empty state so ingestion can proceed as if starting fresh.
// Anything other than a plain missing file is logged.
func readMetricFile[M schema.Metric](ctx context.Context, store vault.Store, name string, log *slog.Logger) schema.MetricFile[M] {
	data, err := store.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			log.Warn("failed to read stored file, starting fresh", "file", name, "error", err)
		}
		return schema.MetricFile[M]{}
	}

	var file schema.MetricFile[M]
	if err := json.Unmarshal(data, &file); err != nil {
		log.Warn("stored file is not valid JSON, starting fresh", "file", name, "error", err)
		return schema.MetricFile[M]{}
	}

	for i, m := range file.Metrics {
		if err := m.Validate(); err != nil {
			log.Warn("stored file failed schema validation, starting fresh",
				"file", name, "record", i, "error", err)
			return schema.MetricFile[M]{}
		}
	}

	return file
}

// readLocations loads the current location history under the same
// never-fails policy as readMetricFile.
func readLocations(ctx context.Context, store vault.Store, log *slog.Logger) []schema.LocationEntry {
	data, err := store.Read(ctx, LocationFile)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			log.Warn("failed to read stored file, starting fresh", "file", LocationFile, "error", err)
		}
		return nil
	}

	var entries []schema.LocationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn("stored file is not valid JSON, starting fresh", "file", LocationFile, "error", err)
		return nil
	}

	for i, e := range entries {
		if err := e.Validate(); err != nil {
			log.Warn("stored file failed schema validation, starting fresh",
				"file", LocationFile, "record", i, "error", err)
			return nil
		}
	}

	return entries
}
