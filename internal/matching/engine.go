// internal/matching/engine.go
package matching

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Engine evaluates applicant profiles against scholarship criteria. It is
// stateless apart from its keyword table and safe for concurrent use.
type Engine struct {
	educationKeywords KeywordTable
}

func NewEngine() *Engine {
	return &Engine{educationKeywords: DefaultEducationKeywords()}
}

func NewEngineWithKeywords(educationKeywords KeywordTable) *Engine {
	if educationKeywords == nil {
		educationKeywords = DefaultEducationKeywords()
	}
	return &Engine{educationKeywords: educationKeywords}
}

// Evaluate runs the default engine. Most callers want this; construct an
// Engine only to override the keyword table.
func Evaluate(profile *ApplicantProfile, criteria Criteria, now time.Time) Result {
	return NewEngine().Evaluate(profile, criteria, now)
}

// Evaluate produces a match result for one (profile, criteria) pair. A nil
// profile short-circuits to a fixed neutral result so users who have not
// filled in their profile are never penalized. Checks run in a fixed order;
// hard-gate failures accumulate reasons in that order.
func (e *Engine) Evaluate(profile *ApplicantProfile, criteria Criteria, now time.Time) Result {
	if profile == nil {
		return Result{
			MatchScore: absentProfileScore,
			IsEligible: true,
			MatchDetails: []Detail{{
				Category: "profile",
				Score:    float64(absentProfileScore),
				MaxScore: 100,
				Reason:   "Profile incomplete, using default match score",
			}},
			IneligibilityReasons: []string{},
		}
	}

	var details []Detail
	var reasons []string

	// 1. Gender: hard gate only, no score weight. Unknown gender never fails.
	if len(criteria.EligibleGenders) > 0 && profile.Gender != nil {
		if !matchesAny(*profile.Gender, criteria.EligibleGenders, sentinelAll) {
			reasons = append(reasons, fmt.Sprintf(
				"Gender requirement not met (open to: %s)",
				strings.Join(criteria.EligibleGenders, ", ")))
		}
	}

	// 2. Age: gate plus a fixed informational score, only when a date of
	// birth and at least one bound exist. Bounds are inclusive.
	if profile.DateOfBirth != nil && (criteria.MinAge != nil || criteria.MaxAge != nil) {
		age := ageAt(*profile.DateOfBirth, now)
		passed := true
		if criteria.MinAge != nil && age < *criteria.MinAge {
			passed = false
			reasons = append(reasons, fmt.Sprintf("Below minimum age requirement of %d", *criteria.MinAge))
		}
		if criteria.MaxAge != nil && age > *criteria.MaxAge {
			passed = false
			reasons = append(reasons, fmt.Sprintf("Above maximum age limit of %d", *criteria.MaxAge))
		}
		if passed {
			details = append(details, Detail{
				Category: "age",
				Score:    ageFullScore,
				MaxScore: ageWeight,
				Reason:   fmt.Sprintf("Age %d meets requirements", age),
			})
		} else {
			details = append(details, Detail{
				Category: "age",
				Score:    ageFailScore,
				MaxScore: ageWeight,
				Reason:   fmt.Sprintf("Age %d outside eligible range", age),
			})
		}
	}

	// 3. Nationality: gate plus weighted dimension. An empty criteria list is
	// open to all and scores soft credit, never gating.
	switch {
	case len(criteria.EligibleNationalities) > 0 && profile.Nationality != nil:
		if matchesAny(*profile.Nationality, criteria.EligibleNationalities, sentinelAll, sentinelInternational) {
			details = append(details, Detail{
				Category: "nationality",
				Score:    nationalityFullScore,
				MaxScore: nationalityWeight,
				Reason:   "Nationality matches eligibility",
			})
		} else {
			reasons = append(reasons, "Nationality not in eligible list")
			details = append(details, Detail{
				Category: "nationality",
				Score:    nationalityFailScore,
				MaxScore: nationalityWeight,
				Reason:   "Nationality not in eligible list",
			})
		}
	default:
		details = append(details, Detail{
			Category: "nationality",
			Score:    nationalityOpenScore,
			MaxScore: nationalityWeight,
			Reason:   "Open to all nationalities",
		})
	}

	// 4. Country of residence: weighted only, never a gate. Falls back to a
	// free-text location substring check when no structured list exists.
	switch {
	case len(criteria.EligibleCountries) > 0 && profile.CountryOfResidence != nil:
		score := countryMissScore
		reason := "Country of residence not in eligible list"
		if matchesAny(*profile.CountryOfResidence, criteria.EligibleCountries, sentinelAll) {
			score = countryFullScore
			reason = "Country of residence matches"
		}
		details = append(details, Detail{
			Category: "country",
			Score:    score,
			MaxScore: countryWeight,
			Reason:   reason,
		})
	case len(criteria.EligibleCountries) == 0 && criteria.Location != "" && profile.CountryOfResidence != nil:
		if containsFold(criteria.Location, *profile.CountryOfResidence) {
			details = append(details, Detail{
				Category: "country",
				Score:    countryFullScore,
				MaxScore: countryWeight,
				Reason:   "Location mentions country of residence",
			})
		} else {
			details = append(details, Detail{
				Category: "country",
				Score:    countryUnknownScore,
				MaxScore: countryWeight,
				Reason:   "Location fit unverified",
			})
		}
	default:
		details = append(details, Detail{
			Category: "country",
			Score:    countryUnknownScore,
			MaxScore: countryWeight,
			Reason:   "No location data to compare",
		})
	}

	// 5. Education level: weighted only. Structured list first, then keyword
	// matching against the free-text description.
	details = append(details, e.evaluateEducation(profile, criteria))

	// 6. Field of study: same two-tier strategy via the category free text.
	details = append(details, evaluateField(profile, criteria))

	// 7. GPA: gate plus weighted dimension, only when both sides are known.
	// A known GPA of exactly 0 is still a known value.
	if criteria.MinGPA != nil && profile.GPA != nil {
		if *profile.GPA >= *criteria.MinGPA {
			details = append(details, Detail{
				Category: "gpa",
				Score:    gpaFullScore,
				MaxScore: gpaWeight,
				Reason:   fmt.Sprintf("GPA %.2f meets minimum %.1f", *profile.GPA, *criteria.MinGPA),
			})
		} else {
			reasons = append(reasons, fmt.Sprintf("GPA below required minimum of %.1f", *criteria.MinGPA))
			details = append(details, Detail{
				Category: "gpa",
				Score:    gpaFailScore,
				MaxScore: gpaWeight,
				Reason:   fmt.Sprintf("GPA below required minimum of %.1f", *criteria.MinGPA),
			})
		}
	} else {
		details = append(details, Detail{
			Category: "gpa",
			Score:    gpaUnknownScore,
			MaxScore: gpaWeight,
			Reason:   "GPA requirement or value unknown",
		})
	}

	// 8. Financial need: gates only when the scholarship requires need and
	// the profile explicitly denies it. Unknown falls to the soft default.
	if criteria.FinancialNeedRequired != nil && *criteria.FinancialNeedRequired && profile.FinancialNeed != nil {
		if *profile.FinancialNeed {
			details = append(details, Detail{
				Category: "financialNeed",
				Score:    needFullScore,
				MaxScore: needWeight,
				Reason:   "Demonstrated financial need",
			})
		} else {
			reasons = append(reasons, "Scholarship requires demonstrated financial need")
			details = append(details, Detail{
				Category: "financialNeed",
				Score:    needFailScore,
				MaxScore: needWeight,
				Reason:   "Scholarship requires demonstrated financial need",
			})
		}
	} else {
		details = append(details, Detail{
			Category: "financialNeed",
			Score:    needUnknownScore,
			MaxScore: needWeight,
			Reason:   "Financial need not assessed",
		})
	}

	eligible := len(reasons) == 0

	var sum, max float64
	for _, d := range details {
		sum += d.Score
		max += d.MaxScore
	}
	score := 0
	if max > 0 {
		score = int(math.Round(100 * sum / max))
	}
	if !eligible {
		score = 0
	}

	if reasons == nil {
		reasons = []string{}
	}

	return Result{
		MatchScore:           score,
		IsEligible:           eligible,
		MatchDetails:         details,
		IneligibilityReasons: reasons,
	}
}

func (e *Engine) evaluateEducation(profile *ApplicantProfile, criteria Criteria) Detail {
	if len(criteria.EligibleEducationLevels) > 0 && profile.EducationLevel != nil {
		for _, level := range criteria.EligibleEducationLevels {
			if substringEitherWay(*profile.EducationLevel, level) {
				return Detail{
					Category: "education",
					Score:    educationFullScore,
					MaxScore: educationWeight,
					Reason:   "Education level matches eligibility",
				}
			}
		}
		return Detail{
			Category: "education",
			Score:    educationPartialScore,
			MaxScore: educationWeight,
			Reason:   "Education level does not match listed levels",
		}
	}

	if profile.EducationLevel != nil && criteria.Description != "" {
		level := strings.ToLower(*profile.EducationLevel)
		desc := strings.ToLower(criteria.Description)
		for profileKeyword, descKeywords := range e.educationKeywords {
			if !strings.Contains(level, profileKeyword) {
				continue
			}
			for _, kw := range descKeywords {
				if strings.Contains(desc, kw) {
					return Detail{
						Category: "education",
						Score:    educationKeywordScore,
						MaxScore: educationWeight,
						Reason:   "Description suggests matching education level",
					}
				}
			}
		}
	}

	return Detail{
		Category: "education",
		Score:    educationUnknownScore,
		MaxScore: educationWeight,
		Reason:   "Education level fit unknown",
	}
}

func evaluateField(profile *ApplicantProfile, criteria Criteria) Detail {
	if len(criteria.EligibleFields) > 0 && profile.FieldOfStudy != nil {
		for _, field := range criteria.EligibleFields {
			if substringEitherWay(*profile.FieldOfStudy, field) {
				return Detail{
					Category: "field",
					Score:    fieldFullScore,
					MaxScore: fieldWeight,
					Reason:   "Field of study matches eligibility",
				}
			}
		}
		return Detail{
			Category: "field",
			Score:    fieldPartialScore,
			MaxScore: fieldWeight,
			Reason:   "Field of study does not match listed fields",
		}
	}

	if profile.FieldOfStudy != nil && criteria.Category != "" &&
		substringEitherWay(*profile.FieldOfStudy, criteria.Category) {
		return Detail{
			Category: "field",
			Score:    fieldCategoryScore,
			MaxScore: fieldWeight,
			Reason:   "Scholarship category relates to field of study",
		}
	}

	return Detail{
		Category: "field",
		Score:    fieldUnknownScore,
		MaxScore: fieldWeight,
		Reason:   "Field of study fit unknown",
	}
}

// ageAt returns whole calendar years between dob and now, decremented by one
// when the birthday has not yet occurred this year.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

// matchesAny reports whether value case-insensitively equals any list entry,
// or the list contains one of the sentinel wildcards.
func matchesAny(value string, list []string, sentinels ...string) bool {
	for _, item := range list {
		if strings.EqualFold(value, item) {
			return true
		}
		for _, s := range sentinels {
			if strings.EqualFold(item, s) {
				return true
			}
		}
	}
	return false
}

func substringEitherWay(a, b string) bool {
	return containsFold(a, b) || containsFold(b, a)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
