package schema

import "fmt"

// LocationEntry is one day-granularity location observation. The location
// file is a flat JSON array of entries, append-only; consecutive entries
// never share the same city.
type LocationEntry struct {
	Date    string `json:"date"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Validate rejects stored entries missing any of the required fields.
func (e LocationEntry) Validate() error {
	if e.Date == "" {
		return fmt.Errorf("missing required field %q", "date")
	}
	if e.City == "" {
		return fmt.Errorf("missing required field %q", "city")
	}
	if e.Country == "" {
		return fmt.Errorf("missing required field %q", "country")
	}
	return nil
}

// LocationPayload is the issue-body shape for the location pipeline.
type LocationPayload struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Validate rejects payloads missing the required city or country.
func (p LocationPayload) Validate() error {
	if p.City == "" {
		return fmt.Errorf("missing required field %q", "city")
	}
	if p.Country == "" {
		return fmt.Errorf("missing required field %q", "country")
	}
	return nil
}
