package schema

import (
	"encoding/json"
	"fmt"
)

// Field names and declaration order below follow the health export format
// exactly; persisted field order is part of the file format contract.

// HeartRate is one heart-rate observation.
type HeartRate struct {
	Max    *float64 `json:"Max,omitempty"`
	Avg    *float64 `json:"Avg,omitempty"`
	Min    *float64 `json:"Min,omitempty"`
	Source *string  `json:"source,omitempty"`
	Date   string   `json:"date"`

	// Extra holds unrecognized fields, passed through verbatim.
	Extra map[string]json.RawMessage `json:"-"`
}

type heartRateJSON HeartRate

func (m *HeartRate) UnmarshalJSON(data []byte) error {
	var raw heartRateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := extraFields(data, "Max", "Avg", "Min", "source", "date")
	if err != nil {
		return err
	}
	*m = HeartRate(raw)
	m.Extra = extra
	return nil
}

func (m HeartRate) MarshalJSON() ([]byte, error) {
	return appendExtras(heartRateJSON(m), m.Extra)
}

func (m HeartRate) Validate() error  { return requireDate(m.Date) }
func (m HeartRate) Incomplete() bool { return false }

func (m HeartRate) Key() string {
	if m.Date != "" {
		return m.Date
	}
	return canonicalKey(m)
}

// HeartRateVariability is one HRV observation.
type HeartRateVariability struct {
	Qty  *float64 `json:"qty,omitempty"`
	Date string   `json:"date"`

	Extra map[string]json.RawMessage `json:"-"`
}

type heartRateVariabilityJSON HeartRateVariability

func (m *HeartRateVariability) UnmarshalJSON(data []byte) error {
	var raw heartRateVariabilityJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := extraFields(data, "qty", "date")
	if err != nil {
		return err
	}
	*m = HeartRateVariability(raw)
	m.Extra = extra
	return nil
}

func (m HeartRateVariability) MarshalJSON() ([]byte, error) {
	return appendExtras(heartRateVariabilityJSON(m), m.Extra)
}

func (m HeartRateVariability) Validate() error  { return requireDate(m.Date) }
func (m HeartRateVariability) Incomplete() bool { return false }

func (m HeartRateVariability) Key() string {
	if m.Date != "" {
		return m.Date
	}
	return canonicalKey(m)
}

// SleepAnalysis is one night of sleep measurements. All numeric fields are
// optional; an earlier export bug produced records carrying only source and
// date, which the dedup engine treats as incomplete and repairs.
type SleepAnalysis struct {
	InBedStart *float64 `json:"inBedStart,omitempty"`
	Awake      *float64 `json:"awake,omitempty"`
	SleepStart *float64 `json:"sleepStart,omitempty"`
	TotalSleep *float64 `json:"totalSleep,omitempty"`
	SleepEnd   *float64 `json:"sleepEnd,omitempty"`
	Date       string   `json:"date"`
	Deep       *float64 `json:"deep,omitempty"`
	Rem        *float64 `json:"rem,omitempty"`
	InBedEnd   *float64 `json:"inBedEnd,omitempty"`
	InBed      *float64 `json:"inBed,omitempty"`
	Core       *float64 `json:"core,omitempty"`
	Asleep     *float64 `json:"asleep,omitempty"`
	Source     *string  `json:"source,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type sleepAnalysisJSON SleepAnalysis

var sleepFields = []string{
	"inBedStart", "awake", "sleepStart", "totalSleep", "sleepEnd", "date",
	"deep", "rem", "inBedEnd", "inBed", "core", "asleep", "source",
}

func (m *SleepAnalysis) UnmarshalJSON(data []byte) error {
	var raw sleepAnalysisJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := extraFields(data, sleepFields...)
	if err != nil {
		return err
	}
	*m = SleepAnalysis(raw)
	m.Extra = extra
	return nil
}

func (m SleepAnalysis) MarshalJSON() ([]byte, error) {
	return appendExtras(sleepAnalysisJSON(m), m.Extra)
}

func (m SleepAnalysis) Validate() error { return requireDate(m.Date) }

// Incomplete reports whether the record carries only source and date with no
// measurement fields: the defect pattern a complete delivery should replace.
func (m SleepAnalysis) Incomplete() bool {
	if m.Date == "" || m.Source == nil || len(m.Extra) != 0 {
		return false
	}
	return m.InBedStart == nil && m.Awake == nil && m.SleepStart == nil &&
		m.TotalSleep == nil && m.SleepEnd == nil && m.Deep == nil &&
		m.Rem == nil && m.InBedEnd == nil && m.InBed == nil &&
		m.Core == nil && m.Asleep == nil
}

func (m SleepAnalysis) Key() string {
	if m.Date != "" {
		return m.Date
	}
	return canonicalKey(m)
}

// BodyTemperature is one body-surface temperature observation.
type BodyTemperature struct {
	Date string   `json:"date"`
	Qty  *float64 `json:"qty,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type bodyTemperatureJSON BodyTemperature

func (m *BodyTemperature) UnmarshalJSON(data []byte) error {
	var raw bodyTemperatureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := extraFields(data, "date", "qty")
	if err != nil {
		return err
	}
	*m = BodyTemperature(raw)
	m.Extra = extra
	return nil
}

func (m BodyTemperature) MarshalJSON() ([]byte, error) {
	return appendExtras(bodyTemperatureJSON(m), m.Extra)
}

func (m BodyTemperature) Validate() error  { return requireDate(m.Date) }
func (m BodyTemperature) Incomplete() bool { return false }

func (m BodyTemperature) Key() string {
	if m.Date != "" {
		return m.Date
	}
	return canonicalKey(m)
}

// RestingHeartRate is one resting heart-rate observation.
type RestingHeartRate struct {
	Date string   `json:"date"`
	Qty  *float64 `json:"qty,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type restingHeartRateJSON RestingHeartRate

func (m *RestingHeartRate) UnmarshalJSON(data []byte) error {
	var raw restingHeartRateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	extra, err := extraFields(data, "date", "qty")
	if err != nil {
		return err
	}
	*m = RestingHeartRate(raw)
	m.Extra = extra
	return nil
}

func (m RestingHeartRate) MarshalJSON() ([]byte, error) {
	return appendExtras(restingHeartRateJSON(m), m.Extra)
}

func (m RestingHeartRate) Validate() error  { return requireDate(m.Date) }
func (m RestingHeartRate) Incomplete() bool { return false }

func (m RestingHeartRate) Key() string {
	if m.Date != "" {
		return m.Date
	}
	return canonicalKey(m)
}

// requireDate rejects records missing the natural-key date field.
func requireDate(date string) error {
	if date == "" {
		return fmt.Errorf("missing required field %q", "date")
	}
	return nil
}
