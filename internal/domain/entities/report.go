package entities

import (
	"strings"
	"time"
)

// CrimeType is a typed string enum for the categories a user can report.
//
// Go Learning Note - String Enums:
// Go has no enum keyword. A named string type plus a block of constants gives
// readable JSON and database values while still letting the compiler catch
// typos in code that uses the constants.
type CrimeType string

const (
	CrimeTypeTheft            CrimeType = "theft"
	CrimeTypeAssault          CrimeType = "assault"
	CrimeTypeHarassment       CrimeType = "harassment"
	CrimeTypeVandalism        CrimeType = "vandalism"
	CrimeTypeBurglary         CrimeType = "burglary"
	CrimeTypeRobbery          CrimeType = "robbery"
	CrimeTypeFraud            CrimeType = "fraud"
	CrimeTypeDomesticViolence CrimeType = "domestic_violence"
	CrimeTypeOther            CrimeType = "other"
)

// validCrimeTypes is the closed set accepted from clients.
var validCrimeTypes = map[CrimeType]struct{}{
	CrimeTypeTheft:            {},
	CrimeTypeAssault:          {},
	CrimeTypeHarassment:       {},
	CrimeTypeVandalism:        {},
	CrimeTypeBurglary:         {},
	CrimeTypeRobbery:          {},
	CrimeTypeFraud:            {},
	CrimeTypeDomesticViolence: {},
	CrimeTypeOther:            {},
}

// ParseCrimeType normalizes user input ("Domestic Violence", "THEFT") into a
// CrimeType. The second return value is false for unknown categories.
func ParseCrimeType(s string) (CrimeType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")
	ct := CrimeType(normalized)
	_, ok := validCrimeTypes[ct]
	return ct, ok
}

// Report is a crime report submitted by a user. Geohash is derived from the
// coordinates when the report is created and is used by repositories as a
// coarse spatial key. NearestStation is filled in best-effort at creation time.
//
// Go Learning Note - "omitempty" Struct Tag:
// Fields tagged with `json:"...,omitempty"` are left out of the JSON output
// when they hold their zero value, so AudioURL won't appear for reports
// submitted without a recording.
type Report struct {
	ID             string    `json:"id"`
	UserID         int64     `json:"user_id"`
	CrimeType      CrimeType `json:"crime_type"`
	Location       Location  `json:"coordinates"`
	LocationName   string    `json:"location,omitempty"`
	Description    string    `json:"description"`
	AudioURL       string    `json:"audio_url,omitempty"`
	Geohash        string    `json:"geohash"`
	NearestStation string    `json:"nearest_station,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewReport creates a Report stamped with the current time. The geohash
// parameter should be pre-computed by the geo package.
func NewReport(id string, userID int64, crimeType CrimeType, location Location, geohash string) *Report {
	return &Report{
		ID:        id,
		UserID:    userID,
		CrimeType: crimeType,
		Location:  location,
		Geohash:   geohash,
		CreatedAt: time.Now(),
	}
}

// NearbyReport pairs a report with its distance from a search point.
type NearbyReport struct {
	Report     *Report `json:"report"`
	DistanceKm float64 `json:"distance_km"`
}
