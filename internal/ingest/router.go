package ingest

import "github.com/hpungsan/healthvault/internal/schema"

// LocationFile is the vault file holding the location history.
const LocationFile = "location.json"

// metricFiles maps a metric kind to its vault file. Kinds absent from the
// table are skipped with success so that new, not-yet-supported export kinds
// never break ingestion of the supported ones.
var metricFiles = map[string]string{
	schema.KindHeartRate:            "hr.json",
	schema.KindHeartRateVariability: "hrv.json",
	schema.KindBodyTemperature:      "bodySurfaceTemp.json",
	schema.KindSleepAnalysis:        "sleep.json",
	schema.KindRestingHeartRate:     "restingHeartRate.json",
}

// Route resolves a metric kind to its vault file name.
func Route(kind string) (string, bool) {
	name, ok := metricFiles[kind]
	return name, ok
}

// MetricKinds returns the supported kind names.
func MetricKinds() []string {
	kinds := make([]string, 0, len(metricFiles))
	for kind := range metricFiles {
		kinds = append(kinds, kind)
	}
	return kinds
}
