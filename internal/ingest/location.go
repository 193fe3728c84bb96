package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hpungsan/healthvault/internal/errors"
	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

// LocationPipeline ingests single location observations into the append-only
// location history.
type LocationPipeline struct {
	Store vault.Store
	Log   *slog.Logger

	// Now returns the processing time used to stamp new entries; nil means
	// time.Now. The entry's date is always the processing date, never
	// derived from input.
	Now func() time.Time
}

func (p *LocationPipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

func (p *LocationPipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run processes one location export issue. A new observation is compared
// against the last stored entry's city only, case-sensitive: a direct repeat
// is suppressed, while a revisit after going elsewhere appends normally.
func (p *LocationPipeline) Run(ctx context.Context, issue schema.Issue) Result {
	var payload schema.LocationPayload
	if err := json.Unmarshal([]byte(issue.Body), &payload); err != nil {
		return locationFailure(errors.NewInvalidPayload(fmt.Sprintf("failed to parse issue body: %v", err)).Error())
	}
	if err := payload.Validate(); err != nil {
		return locationFailure(errors.NewInvalidPayload(err.Error()).Error())
	}

	entries := readLocations(ctx, p.Store, p.logger())

	if len(entries) > 0 && entries[len(entries)-1].City == payload.City {
		msg := fmt.Sprintf("location unchanged, still in %s", payload.City)
		return Result{
			Success: true,
			Message: msg,
			Detail:  "📍 " + msg,
		}
	}

	entry := schema.LocationEntry{
		Date:    p.now().Format("2006-01-02"),
		City:    payload.City,
		Country: payload.Country,
	}
	entries = append(entries, entry)

	if err := writeLocations(ctx, p.Store, entries); err != nil {
		return locationFailure(errors.NewWriteFailed(LocationFile, err).Error())
	}

	msg := fmt.Sprintf("added location %s, %s", entry.City, entry.Country)
	return Result{
		Success: true,
		Message: msg,
		Detail:  fmt.Sprintf("📍 Location updated\n• %s, %s (%s)", entry.City, entry.Country, entry.Date),
	}
}

func locationFailure(msg string) Result {
	return Result{
		Success: false,
		Message: msg,
		Detail:  "❌ Location ingestion failed\n• " + msg,
	}
}
