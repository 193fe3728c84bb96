package ingest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hpungsan/healthvault/internal/schema"
	"github.com/hpungsan/healthvault/internal/vault"
)

func locationIssue(body string) schema.Issue {
	return schema.Issue{Title: TitleLocation, Body: body}
}

func fixedNow(day string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", day)
		return ts
	}
}

func readLocationFile(t *testing.T, store vault.Store) []schema.LocationEntry {
	t.Helper()
	data, err := store.Read(context.Background(), LocationFile)
	if err != nil {
		t.Fatalf("location file not written: %v", err)
	}
	var entries []schema.LocationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("stored location file is not valid JSON: %v", err)
	}
	return entries
}

func TestLocationPipeline_AppendsFirstEntry(t *testing.T) {
	store := vault.NewMemory()
	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}

	res := p.Run(context.Background(), locationIssue(`{"city":"New Delhi","country":"India"}`))

	if !res.Success {
		t.Fatalf("Run failed: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 1 {
		t.Fatalf("stored %d entries, want 1", len(entries))
	}
	want := schema.LocationEntry{Date: "2025-10-27", City: "New Delhi", Country: "India"}
	if entries[0] != want {
		t.Errorf("entry = %+v, want %+v", entries[0], want)
	}
}

func TestLocationPipeline_DateIsProcessingDateNotInput(t *testing.T) {
	store := vault.NewMemory()
	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-11-01")}

	// A date in the payload is an unknown field for this pipeline; the entry
	// is stamped with the processing date regardless.
	res := p.Run(context.Background(), locationIssue(`{"city":"Pune","country":"India","date":"1999-01-01"}`))

	if !res.Success {
		t.Fatalf("Run failed: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if entries[0].Date != "2025-11-01" {
		t.Errorf("Date = %q, want processing date", entries[0].Date)
	}
}

func TestLocationPipeline_SameCitySuppressedEvenIfCountryDiffers(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	seed := `[{"date":"2025-10-20","city":"New Delhi","country":"India"}]`
	if err := store.Write(ctx, LocationFile, []byte(seed)); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}
	res := p.Run(ctx, locationIssue(`{"city":"New Delhi","country":"Bharat"}`))

	if !res.Success {
		t.Fatalf("Run failed: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 1 {
		t.Errorf("same-city observation must be suppressed, stored %d entries", len(entries))
	}
}

func TestLocationPipeline_CityComparisonIsCaseSensitive(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	seed := `[{"date":"2025-10-20","city":"new delhi","country":"India"}]`
	if err := store.Write(ctx, LocationFile, []byte(seed)); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}
	res := p.Run(ctx, locationIssue(`{"city":"New Delhi","country":"India"}`))

	if !res.Success {
		t.Fatalf("Run failed: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 2 {
		t.Errorf("case-different city must append, stored %d entries", len(entries))
	}
}

func TestLocationPipeline_RevisitAfterElsewhereAppends(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}

	for _, body := range []string{
		`{"city":"New Delhi","country":"India"}`,
		`{"city":"Mumbai","country":"India"}`,
		`{"city":"New Delhi","country":"India"}`,
	} {
		if res := p.Run(ctx, locationIssue(body)); !res.Success {
			t.Fatalf("Run failed: %s", res.Message)
		}
	}

	entries := readLocationFile(t, store)
	if len(entries) != 3 {
		t.Fatalf("revisit must append normally, stored %d entries", len(entries))
	}
	if entries[2].City != "New Delhi" {
		t.Errorf("entries[2].City = %q", entries[2].City)
	}
}

func TestLocationPipeline_OnlyLastEntryCompared(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	seed := `[
		{"date":"2025-10-01","city":"New Delhi","country":"India"},
		{"date":"2025-10-10","city":"Mumbai","country":"India"}
	]`
	if err := store.Write(ctx, LocationFile, []byte(seed)); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}
	res := p.Run(ctx, locationIssue(`{"city":"New Delhi","country":"India"}`))

	if !res.Success {
		t.Fatalf("Run failed: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 3 {
		t.Errorf("city earlier in history must not suppress, stored %d entries", len(entries))
	}
}

func TestLocationPipeline_MissingFieldHardFailure(t *testing.T) {
	store := vault.NewMemory()
	p := &LocationPipeline{Store: store, Log: quietLogger()}

	res := p.Run(context.Background(), locationIssue(`{"city":"New Delhi"}`))

	if res.Success {
		t.Fatal("missing country must fail")
	}
	if names := store.Names(); len(names) != 0 {
		t.Errorf("no writes may occur, wrote %v", names)
	}
}

func TestLocationPipeline_SchemaInvalidPriorStateStartsFresh(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	// Parseable history carrying an entry without the required city.
	seed := `[{"date":"2025-10-01","country":"India"}]`
	if err := store.Write(ctx, LocationFile, []byte(seed)); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}
	res := p.Run(ctx, locationIssue(`{"city":"Pune","country":"India"}`))

	if !res.Success {
		t.Fatalf("schema-invalid prior state must not fail ingestion: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 1 || entries[0].City != "Pune" {
		t.Errorf("entries = %+v, want fresh history with only the new entry", entries)
	}
}

func TestLocationPipeline_CorruptPriorStateStartsFresh(t *testing.T) {
	store := vault.NewMemory()
	ctx := context.Background()
	if err := store.Write(ctx, LocationFile, []byte("not json")); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	p := &LocationPipeline{Store: store, Log: quietLogger(), Now: fixedNow("2025-10-27")}
	res := p.Run(ctx, locationIssue(`{"city":"Pune","country":"India"}`))

	if !res.Success {
		t.Fatalf("corrupt prior state must not fail ingestion: %s", res.Message)
	}
	entries := readLocationFile(t, store)
	if len(entries) != 1 || entries[0].City != "Pune" {
		t.Errorf("entries = %+v, want fresh history with the new entry", entries)
	}
}
