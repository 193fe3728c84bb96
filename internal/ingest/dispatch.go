// Package ingest implements the validate → route → read → deduplicate →
// merge → write core behind the vault, one pipeline per data domain.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hpungsan/healthvault/internal/notify"
	"github.com/hpungsan/healthvault/internal/schema"
)

// Pipeline routing titles. An issue whose title matches neither is not
// addressed to this system and is dropped silently with success.
const (
	TitleHealth   = "HealthDataExport"
	TitleLocation = "LocationDataExport"
)

// Dispatcher inspects an issue's title once and hands it to exactly one
// pipeline, then posts the outcome through the notifier.
type Dispatcher struct {
	Health   *HealthPipeline
	Location *LocationPipeline
	Notifier notify.Notifier
	Log      *slog.Logger
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Log != nil {
		return d.Log
	}
	return slog.Default()
}

// Dispatch processes one issue end to end. Notifier failures are logged and
// swallowed; they never affect the result.
func (d *Dispatcher) Dispatch(ctx context.Context, issue schema.Issue) Result {
	var res Result
	switch issue.Title {
	case TitleHealth:
		res = d.Health.Run(ctx, issue)
	case TitleLocation:
		res = d.Location.Run(ctx, issue)
	default:
		return Result{
			Success: true,
			Skipped: true,
			Message: fmt.Sprintf("title %q is not addressed to any pipeline", issue.Title),
		}
	}

	if d.Notifier != nil && res.Detail != "" {
		if err := d.Notifier.Notify(ctx, res.Detail); err != nil {
			d.logger().Warn("notifier failed", "error", err)
		}
	}

	return res
}
