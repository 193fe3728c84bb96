package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/healthvault/internal/vault"
)

// TestFullWorkflow exercises the complete ingestion lifecycle against a real
// filesystem vault: first delivery → re-delivery → incremental delivery →
// sleep repair → location change → location suppression.
func TestFullWorkflow(t *testing.T) {
	dir := t.TempDir()
	store := vault.NewFS(dir)
	log := quietLogger()
	notifier := &recordingNotifier{}

	d := &Dispatcher{
		Health:   &HealthPipeline{Store: store, Log: log},
		Location: &LocationPipeline{Store: store, Log: log, Now: fixedNow("2025-10-27")},
		Notifier: notifier,
		Log:      log,
	}
	ctx := context.Background()

	// 1. First health delivery: heart rate plus a sleep placeholder.
	first := healthIssue(`{"data":{"metrics":[
		{"name":"heart_rate","units":"count/min","data":[
			{"date":"2025-10-27","Max":90,"Avg":63,"Min":48}]},
		{"name":"sleep_analysis","units":"hr","data":[
			{"date":"2025-10-27","source":"AutoExport"}]}
	]}}`)
	res := d.Dispatch(ctx, first)
	require.True(t, res.Success)
	require.False(t, res.Skipped)

	hr1, err := store.Read(ctx, "hr.json")
	require.NoError(t, err)
	require.Contains(t, string(hr1), `"Max": 90`)

	// 2. Re-delivery of the same issue must be a byte-level no-op.
	res = d.Dispatch(ctx, first)
	require.True(t, res.Success)
	hr2, err := store.Read(ctx, "hr.json")
	require.NoError(t, err)
	require.Equal(t, string(hr1), string(hr2))

	// 3. Incremental delivery: a new day plus the full sleep record
	// replacing the placeholder.
	second := healthIssue(`{"data":{"metrics":[
		{"name":"heart_rate","units":"count/min","data":[
			{"date":"2025-10-28","Max":102,"Avg":66,"Min":50}]},
		{"name":"sleep_analysis","units":"hr","data":[
			{"date":"2025-10-27","source":"AutoExport","asleep":7.2,"totalSleep":7.5}]}
	]}}`)
	res = d.Dispatch(ctx, second)
	require.True(t, res.Success)

	hr3, err := store.Read(ctx, "hr.json")
	require.NoError(t, err)
	require.Contains(t, string(hr3), `"date": "2025-10-27"`)
	require.Contains(t, string(hr3), `"date": "2025-10-28"`)

	sleep, err := store.Read(ctx, "sleep.json")
	require.NoError(t, err)
	require.Contains(t, string(sleep), `"asleep": 7.2`)

	// 4. First location delivery is always recorded.
	res = d.Dispatch(ctx, locationIssue(`{"city":"Pune","country":"India"}`))
	require.True(t, res.Success)
	loc1, err := store.Read(ctx, "location.json")
	require.NoError(t, err)
	require.Contains(t, string(loc1), `"city": "Pune"`)

	// 5. Same city again is suppressed without touching the file.
	res = d.Dispatch(ctx, locationIssue(`{"city":"Pune","country":"India"}`))
	require.True(t, res.Success)
	require.Contains(t, res.Message, "still in Pune")
	loc2, err := store.Read(ctx, "location.json")
	require.NoError(t, err)
	require.Equal(t, string(loc1), string(loc2))

	// 6. A different city appends a new entry.
	res = d.Dispatch(ctx, locationIssue(`{"city":"Mumbai","country":"India"}`))
	require.True(t, res.Success)
	loc3, err := store.Read(ctx, "location.json")
	require.NoError(t, err)
	require.Contains(t, string(loc3), `"city": "Pune"`)
	require.Contains(t, string(loc3), `"city": "Mumbai"`)

	// Every processed issue posted a comment back.
	require.Len(t, notifier.messages, 6)
}
