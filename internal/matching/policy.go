// internal/matching/policy.go
package matching

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dimension weights and soft-credit scores. Every default here encodes a
// product decision about how much to penalize missing data, so they live in
// one place instead of inline in the evaluation flow.
const (
	ageWeight    = 10.0
	ageFullScore = 10.0
	ageFailScore = 0.0

	nationalityWeight    = 25.0
	nationalityFullScore = 25.0
	nationalityOpenScore = 20.0
	nationalityFailScore = 0.0

	countryWeight       = 10.0
	countryFullScore    = 10.0
	countryMissScore    = 0.0
	countryUnknownScore = 5.0

	educationWeight       = 20.0
	educationFullScore    = 20.0
	educationPartialScore = 5.0
	educationKeywordScore = 18.0
	educationUnknownScore = 10.0

	fieldWeight        = 20.0
	fieldFullScore     = 20.0
	fieldPartialScore  = 5.0
	fieldCategoryScore = 18.0
	fieldUnknownScore  = 10.0

	gpaWeight       = 10.0
	gpaFullScore    = 10.0
	gpaFailScore    = 0.0
	gpaUnknownScore = 5.0

	needWeight       = 5.0
	needFullScore    = 5.0
	needFailScore    = 0.0
	needUnknownScore = 3.0

	// Returned when the caller has no profile at all.
	absentProfileScore = 50
)

// Sentinel list values meaning "no restriction".
const (
	sentinelAll           = "all"
	sentinelInternational = "international"
)

// KeywordTable associates a profile keyword with the description keywords
// that count as a match for it.
type KeywordTable map[string][]string

// DefaultEducationKeywords is the keyword association table used when a
// scholarship has no structured eligible-levels list and its description has
// to be matched against the applicant's education level.
func DefaultEducationKeywords() KeywordTable {
	return KeywordTable{
		"bachelor":    {"undergraduate", "bachelor"},
		"master":      {"graduate", "master", "postgraduate"},
		"phd":         {"doctoral", "phd", "research"},
		"high school": {"high school", "secondary"},
	}
}

// LoadKeywordTableFromFile loads a keyword table from a JSON file, falling
// back to the defaults on read or parse errors.
func LoadKeywordTableFromFile(path string) (KeywordTable, error) {
	t := DefaultEducationKeywords()
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read keyword table file: %w", err)
	}
	loaded := KeywordTable{}
	if err := json.Unmarshal(b, &loaded); err != nil {
		return t, fmt.Errorf("unmarshal keyword table: %w", err)
	}
	for k, v := range loaded {
		t[k] = v
	}
	return t, nil
}
