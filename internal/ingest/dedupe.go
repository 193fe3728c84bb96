package ingest

import "github.com/hpungsan/healthvault/internal/schema"

// Diff computes the two-sided filter at the heart of the merge engine: which
// existing records to keep and which incoming records to append, for one
// metric kind.
//
// An existing record whose identity key never appears in the incoming batch
// is kept untouched. When the incoming batch covers its key, an incomplete
// existing record is dropped so the complete delivery can replace it;
// otherwise the stored record stands: a complete record for a date is
// immutable, and a conflicting re-delivery for that date is discarded as a
// duplicate (first write wins). Incoming records are then filtered against
// the kept keys, preserving input order, with at most one record per key.
//
// Re-running Diff over its own output with the same batch yields no change,
// which is what makes repeated deliveries of overlapping data idempotent.
func Diff[M schema.Metric](existing, incoming []M) (keep, add []M) {
	incomingKeys := make(map[string]struct{}, len(incoming))
	for _, m := range incoming {
		incomingKeys[m.Key()] = struct{}{}
	}

	keep = make([]M, 0, len(existing))
	for _, e := range existing {
		if _, covered := incomingKeys[e.Key()]; covered && e.Incomplete() {
			continue
		}
		keep = append(keep, e)
	}

	taken := make(map[string]struct{}, len(keep))
	for _, e := range keep {
		taken[e.Key()] = struct{}{}
	}

	add = make([]M, 0, len(incoming))
	for _, m := range incoming {
		key := m.Key()
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		add = append(add, m)
	}

	return keep, add
}
