// internal/matching/engine_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func floatPtr(f float64) *float64    { return &f }
func boolPtr(b bool) *bool           { return &b }
func datePtr(t time.Time) *time.Time { return &t }

func findDetail(t *testing.T, details []Detail, category string) Detail {
	t.Helper()
	for _, d := range details {
		if d.Category == category {
			return d
		}
	}
	t.Fatalf("no %q detail in %v", category, details)
	return Detail{}
}

func hasDetail(details []Detail, category string) bool {
	for _, d := range details {
		if d.Category == category {
			return true
		}
	}
	return false
}

// ==========================
// Absent Profile
// ==========================

func TestEvaluate_AbsentProfile(t *testing.T) {
	criteria := Criteria{
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.5),
	}

	result := Evaluate(nil, criteria, testNow)

	assert.Equal(t, 50, result.MatchScore)
	assert.True(t, result.IsEligible)
	assert.Empty(t, result.IneligibilityReasons)
	require.Len(t, result.MatchDetails, 1)
	assert.Equal(t, "profile", result.MatchDetails[0].Category)

	// Repeated calls yield the same fixed result
	again := Evaluate(nil, criteria, testNow)
	assert.Equal(t, result, again)
}

// ==========================
// Scenario Tests
// ==========================

func TestEvaluate_ScenarioA_EligibleKenyanBachelor(t *testing.T) {
	profile := &ApplicantProfile{
		Nationality:    strPtr("Kenya"),
		EducationLevel: strPtr("Bachelor's Degree"),
		FieldOfStudy:   strPtr("STEM"),
		GPA:            floatPtr(3.8),
	}
	criteria := Criteria{
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.5),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.True(t, result.IsEligible)
	assert.Empty(t, result.IneligibilityReasons)

	nationality := findDetail(t, result.MatchDetails, "nationality")
	assert.Equal(t, 25.0, nationality.Score)
	assert.Equal(t, 25.0, nationality.MaxScore)

	gpa := findDetail(t, result.MatchDetails, "gpa")
	assert.Equal(t, 10.0, gpa.Score)
	assert.Equal(t, 10.0, gpa.MaxScore)

	// 25/25 + 5/10 + 10/20 + 10/20 + 10/10 + 3/5 = 63/90
	assert.Equal(t, 70, result.MatchScore)
}

func TestEvaluate_ScenarioB_GPABelowMinimum(t *testing.T) {
	profile := &ApplicantProfile{
		Nationality:    strPtr("Kenya"),
		EducationLevel: strPtr("Bachelor's Degree"),
		FieldOfStudy:   strPtr("STEM"),
		GPA:            floatPtr(3.8),
	}
	criteria := Criteria{
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.9),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.False(t, result.IsEligible)
	assert.Equal(t, 0, result.MatchScore)
	require.NotEmpty(t, result.IneligibilityReasons)
	assert.Contains(t, result.IneligibilityReasons[0], "3.9")

	gpa := findDetail(t, result.MatchDetails, "gpa")
	assert.Equal(t, 0.0, gpa.Score)
}

func TestEvaluate_ScenarioC_FinancialNeedDenied(t *testing.T) {
	profile := &ApplicantProfile{
		FinancialNeed: boolPtr(false),
	}
	criteria := Criteria{
		FinancialNeedRequired: boolPtr(true),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.False(t, result.IsEligible)
	assert.Equal(t, 0, result.MatchScore)
	require.Len(t, result.IneligibilityReasons, 1)

	need := findDetail(t, result.MatchDetails, "financialNeed")
	assert.Equal(t, 0.0, need.Score)
	assert.Equal(t, 5.0, need.MaxScore)
}

func TestEvaluate_ScenarioD_FinancialNeedUnknown(t *testing.T) {
	profile := &ApplicantProfile{}
	criteria := Criteria{
		FinancialNeedRequired: boolPtr(true),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.True(t, result.IsEligible)
	assert.Empty(t, result.IneligibilityReasons)

	need := findDetail(t, result.MatchDetails, "financialNeed")
	assert.Equal(t, 3.0, need.Score)
	assert.Equal(t, 5.0, need.MaxScore)
}

// ==========================
// Gender Gate
// ==========================

func TestEvaluate_GenderGate(t *testing.T) {
	tests := []struct {
		name     string
		gender   *string
		allowed  []string
		eligible bool
	}{
		{"matching gender", strPtr("Female"), []string{"female"}, true},
		{"non-matching gender", strPtr("Male"), []string{"female"}, false},
		{"sentinel all", strPtr("Nonbinary"), []string{"all"}, true},
		{"unknown gender never fails", nil, []string{"female"}, true},
		{"no restriction", strPtr("Male"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{Gender: tt.gender}
			criteria := Criteria{EligibleGenders: tt.allowed}

			result := Evaluate(profile, criteria, testNow)

			assert.Equal(t, tt.eligible, result.IsEligible)
			if !tt.eligible {
				assert.Equal(t, 0, result.MatchScore)
			}
			// Gender carries no score weight
			assert.False(t, hasDetail(result.MatchDetails, "gender"))
		})
	}
}

// ==========================
// Age Gate
// ==========================

func TestEvaluate_AgeGate(t *testing.T) {
	tests := []struct {
		name     string
		dob      *time.Time
		minAge   *int
		maxAge   *int
		eligible bool
		recorded bool
	}{
		{
			name:     "within range",
			dob:      datePtr(time.Date(2004, time.January, 10, 0, 0, 0, 0, time.UTC)), // 22
			minAge:   intPtr(18),
			maxAge:   intPtr(25),
			eligible: true,
			recorded: true,
		},
		{
			name:     "exactly minimum age passes",
			dob:      datePtr(time.Date(2008, time.June, 15, 0, 0, 0, 0, time.UTC)), // 18 today
			minAge:   intPtr(18),
			eligible: true,
			recorded: true,
		},
		{
			name:     "exactly maximum age passes",
			dob:      datePtr(time.Date(2001, time.June, 15, 0, 0, 0, 0, time.UTC)), // 25 today
			maxAge:   intPtr(25),
			eligible: true,
			recorded: true,
		},
		{
			name:     "birthday not yet occurred",
			dob:      datePtr(time.Date(2008, time.June, 16, 0, 0, 0, 0, time.UTC)), // 17, birthday tomorrow
			minAge:   intPtr(18),
			eligible: false,
			recorded: true,
		},
		{
			name:     "above maximum",
			dob:      datePtr(time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC)), // 36
			maxAge:   intPtr(30),
			eligible: false,
			recorded: true,
		},
		{
			name:     "no date of birth skips dimension",
			dob:      nil,
			minAge:   intPtr(18),
			eligible: true,
			recorded: false,
		},
		{
			name:     "no age bounds skips dimension",
			dob:      datePtr(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)),
			eligible: true,
			recorded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{DateOfBirth: tt.dob}
			criteria := Criteria{MinAge: tt.minAge, MaxAge: tt.maxAge}

			result := Evaluate(profile, criteria, testNow)

			assert.Equal(t, tt.eligible, result.IsEligible)
			assert.Equal(t, tt.recorded, hasDetail(result.MatchDetails, "age"))
			if tt.recorded && tt.eligible {
				age := findDetail(t, result.MatchDetails, "age")
				assert.Equal(t, 10.0, age.Score)
				assert.Equal(t, 10.0, age.MaxScore)
			}
		})
	}
}

func TestAgeAt(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday earlier this year", time.Date(2000, time.March, 1, 0, 0, 0, 0, time.UTC), 26},
		{"birthday today", time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC), 26},
		{"birthday tomorrow", time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC), 25},
		{"birthday later this year", time.Date(2000, time.December, 31, 0, 0, 0, 0, time.UTC), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ageAt(tt.dob, testNow))
		})
	}
}

// ==========================
// Nationality
// ==========================

func TestEvaluate_Nationality(t *testing.T) {
	tests := []struct {
		name        string
		nationality *string
		eligible    []string
		wantScore   float64
		wantGate    bool
	}{
		{"exact match", strPtr("Kenya"), []string{"Kenya"}, 25, false},
		{"case-insensitive match", strPtr("kenya"), []string{"KENYA"}, 25, false},
		{"sentinel all any case", strPtr("Brazil"), []string{"All"}, 25, false},
		{"sentinel international", strPtr("Brazil"), []string{"international"}, 25, false},
		{"no match gates", strPtr("Brazil"), []string{"Kenya", "Uganda"}, 0, true},
		{"open list gives soft credit", strPtr("Brazil"), nil, 20, false},
		{"unknown nationality never gates", nil, []string{"Kenya"}, 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{Nationality: tt.nationality}
			criteria := Criteria{EligibleNationalities: tt.eligible}

			result := Evaluate(profile, criteria, testNow)

			detail := findDetail(t, result.MatchDetails, "nationality")
			assert.Equal(t, tt.wantScore, detail.Score)
			assert.Equal(t, 25.0, detail.MaxScore)
			assert.Equal(t, !tt.wantGate, result.IsEligible)
		})
	}
}

// ==========================
// Country of Residence
// ==========================

func TestEvaluate_Country(t *testing.T) {
	tests := []struct {
		name      string
		country   *string
		eligible  []string
		location  string
		wantScore float64
	}{
		{"structured match", strPtr("Germany"), []string{"germany", "France"}, "", 10},
		{"structured miss", strPtr("Spain"), []string{"Germany"}, "", 0},
		{"location substring match", strPtr("Kenya"), nil, "Open to students in Kenya and Tanzania", 10},
		{"location substring miss", strPtr("Ghana"), nil, "Open to students in Kenya", 5},
		{"no location data", strPtr("Ghana"), nil, "", 5},
		{"unknown country", nil, []string{"Germany"}, "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{CountryOfResidence: tt.country}
			criteria := Criteria{EligibleCountries: tt.eligible, Location: tt.location}

			result := Evaluate(profile, criteria, testNow)

			detail := findDetail(t, result.MatchDetails, "country")
			assert.Equal(t, tt.wantScore, detail.Score)
			assert.Equal(t, 10.0, detail.MaxScore)
			// Country never gates
			assert.True(t, result.IsEligible)
		})
	}
}

// ==========================
// Education Level
// ==========================

func TestEvaluate_EducationLevel(t *testing.T) {
	tests := []struct {
		name        string
		level       *string
		eligible    []string
		description string
		wantScore   float64
	}{
		{"structured substring either way", strPtr("Bachelor's Degree"), []string{"bachelor"}, "", 20},
		{"structured reverse substring", strPtr("Bachelor"), []string{"Bachelor's Degree"}, "", 20},
		{"structured miss", strPtr("PhD"), []string{"Bachelor's Degree"}, "", 5},
		{"keyword bachelor undergraduate", strPtr("Bachelor's Degree"), nil, "For undergraduate students", 18},
		{"keyword master postgraduate", strPtr("Master of Science"), nil, "A postgraduate award", 18},
		{"keyword phd research", strPtr("PhD Candidate"), nil, "Supporting research degrees", 18},
		{"keyword high school secondary", strPtr("High School Diploma"), nil, "For secondary school leavers", 18},
		{"description no keyword match", strPtr("Bachelor's Degree"), nil, "Open to everyone", 10},
		{"no data at all", nil, nil, "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{EducationLevel: tt.level}
			criteria := Criteria{EligibleEducationLevels: tt.eligible, Description: tt.description}

			result := Evaluate(profile, criteria, testNow)

			detail := findDetail(t, result.MatchDetails, "education")
			assert.Equal(t, tt.wantScore, detail.Score)
			assert.Equal(t, 20.0, detail.MaxScore)
			assert.True(t, result.IsEligible)
		})
	}
}

// ==========================
// Field of Study
// ==========================

func TestEvaluate_FieldOfStudy(t *testing.T) {
	tests := []struct {
		name      string
		field     *string
		eligible  []string
		category  string
		wantScore float64
	}{
		{"structured match", strPtr("Computer Science"), []string{"computer science", "Engineering"}, "", 20},
		{"structured substring", strPtr("Science"), []string{"Computer Science"}, "", 20},
		{"structured miss", strPtr("History"), []string{"Engineering"}, "", 5},
		{"category match", strPtr("STEM"), nil, "STEM Scholarships", 18},
		{"category miss", strPtr("History"), nil, "STEM", 10},
		{"no data", nil, nil, "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{FieldOfStudy: tt.field}
			criteria := Criteria{EligibleFields: tt.eligible, Category: tt.category}

			result := Evaluate(profile, criteria, testNow)

			detail := findDetail(t, result.MatchDetails, "field")
			assert.Equal(t, tt.wantScore, detail.Score)
			assert.Equal(t, 20.0, detail.MaxScore)
			assert.True(t, result.IsEligible)
		})
	}
}

// ==========================
// GPA Gate
// ==========================

func TestEvaluate_GPA(t *testing.T) {
	tests := []struct {
		name      string
		gpa       *float64
		minGPA    *float64
		wantScore float64
		wantGate  bool
	}{
		{"meets minimum", floatPtr(3.5), floatPtr(3.5), 10, false},
		{"exceeds minimum", floatPtr(4.0), floatPtr(3.0), 10, false},
		{"below minimum", floatPtr(2.9), floatPtr(3.0), 0, true},
		{"known zero GPA is a real value", floatPtr(0), floatPtr(2.0), 0, true},
		{"unknown GPA soft default", nil, floatPtr(3.0), 5, false},
		{"no minimum soft default", floatPtr(3.9), nil, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &ApplicantProfile{GPA: tt.gpa}
			criteria := Criteria{MinGPA: tt.minGPA}

			result := Evaluate(profile, criteria, testNow)

			detail := findDetail(t, result.MatchDetails, "gpa")
			assert.Equal(t, tt.wantScore, detail.Score)
			assert.Equal(t, !tt.wantGate, result.IsEligible)
			if tt.wantGate {
				assert.Equal(t, 0, result.MatchScore)
			}
		})
	}
}

// ==========================
// Aggregation & Invariants
// ==========================

func TestEvaluate_PerfectMatch(t *testing.T) {
	profile := &ApplicantProfile{
		Gender:             strPtr("Female"),
		DateOfBirth:        datePtr(time.Date(2004, time.January, 10, 0, 0, 0, 0, time.UTC)),
		Nationality:        strPtr("Kenya"),
		CountryOfResidence: strPtr("Kenya"),
		EducationLevel:     strPtr("Bachelor's Degree"),
		FieldOfStudy:       strPtr("Computer Science"),
		GPA:                floatPtr(3.8),
		FinancialNeed:      boolPtr(true),
	}
	criteria := Criteria{
		EligibleGenders:         []string{"female"},
		MinAge:                  intPtr(18),
		MaxAge:                  intPtr(30),
		EligibleNationalities:   []string{"Kenya"},
		EligibleCountries:       []string{"Kenya"},
		EligibleEducationLevels: []string{"Bachelor"},
		EligibleFields:          []string{"Computer Science"},
		MinGPA:                  floatPtr(3.0),
		FinancialNeedRequired:   boolPtr(true),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.True(t, result.IsEligible)
	assert.Equal(t, 100, result.MatchScore)
	assert.Empty(t, result.IneligibilityReasons)
	assert.Len(t, result.MatchDetails, 7)
}

func TestEvaluate_Invariants(t *testing.T) {
	profiles := []*ApplicantProfile{
		nil,
		{},
		{Nationality: strPtr("Brazil"), GPA: floatPtr(1.0), FinancialNeed: boolPtr(false)},
		{
			Gender:             strPtr("Male"),
			DateOfBirth:        datePtr(time.Date(1980, time.May, 2, 0, 0, 0, 0, time.UTC)),
			Nationality:        strPtr("Ghana"),
			CountryOfResidence: strPtr("Ghana"),
			EducationLevel:     strPtr("Master of Arts"),
			FieldOfStudy:       strPtr("Philosophy"),
			GPA:                floatPtr(3.2),
			FinancialNeed:      boolPtr(true),
		},
	}
	criterias := []Criteria{
		{},
		{EligibleGenders: []string{"female"}, MinAge: intPtr(18), MaxAge: intPtr(25)},
		{EligibleNationalities: []string{"Kenya"}, MinGPA: floatPtr(3.5), FinancialNeedRequired: boolPtr(true)},
		{EligibleNationalities: []string{"all"}, Description: "undergraduate award", Category: "STEM", Location: "Kenya"},
	}

	for _, p := range profiles {
		for _, c := range criterias {
			result := Evaluate(p, c, testNow)

			assert.GreaterOrEqual(t, result.MatchScore, 0)
			assert.LessOrEqual(t, result.MatchScore, 100)
			if !result.IsEligible {
				assert.Equal(t, 0, result.MatchScore)
				assert.NotEmpty(t, result.IneligibilityReasons)
			}
			for _, d := range result.MatchDetails {
				assert.GreaterOrEqual(t, d.Score, 0.0)
				assert.LessOrEqual(t, d.Score, d.MaxScore)
			}
		}
	}
}

func TestEvaluate_IneligibleKeepsDetailBreakdown(t *testing.T) {
	profile := &ApplicantProfile{
		Nationality: strPtr("Kenya"),
		GPA:         floatPtr(2.0),
	}
	criteria := Criteria{
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.5),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.False(t, result.IsEligible)
	assert.Equal(t, 0, result.MatchScore)

	// Details keep their computed values for explanation
	nationality := findDetail(t, result.MatchDetails, "nationality")
	assert.Equal(t, 25.0, nationality.Score)
}

func TestEvaluate_MultipleGateFailuresInOrder(t *testing.T) {
	profile := &ApplicantProfile{
		Gender:        strPtr("Male"),
		Nationality:   strPtr("Brazil"),
		GPA:           floatPtr(2.0),
		FinancialNeed: boolPtr(false),
	}
	criteria := Criteria{
		EligibleGenders:       []string{"female"},
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.0),
		FinancialNeedRequired: boolPtr(true),
	}

	result := Evaluate(profile, criteria, testNow)

	assert.False(t, result.IsEligible)
	require.Len(t, result.IneligibilityReasons, 4)
	assert.Contains(t, result.IneligibilityReasons[0], "Gender")
	assert.Contains(t, result.IneligibilityReasons[1], "Nationality")
	assert.Contains(t, result.IneligibilityReasons[2], "GPA")
	assert.Contains(t, result.IneligibilityReasons[3], "financial need")
}

func TestEvaluate_Determinism(t *testing.T) {
	profile := &ApplicantProfile{
		Nationality:    strPtr("Kenya"),
		EducationLevel: strPtr("Bachelor's Degree"),
		GPA:            floatPtr(3.6),
	}
	criteria := Criteria{
		EligibleNationalities: []string{"Kenya"},
		Description:           "undergraduate scholarship",
		MinGPA:                floatPtr(3.0),
	}

	first := Evaluate(profile, criteria, testNow)
	second := Evaluate(profile, criteria, testNow)

	assert.Equal(t, first, second)
}

func TestEvaluate_CustomKeywordTable(t *testing.T) {
	engine := NewEngineWithKeywords(KeywordTable{
		"diploma": {"vocational", "technical"},
	})

	profile := &ApplicantProfile{EducationLevel: strPtr("Technical Diploma")}
	criteria := Criteria{Description: "A vocational training award"}

	result := engine.Evaluate(profile, criteria, testNow)

	detail := findDetail(t, result.MatchDetails, "education")
	assert.Equal(t, 18.0, detail.Score)
}

func BenchmarkEvaluate(b *testing.B) {
	profile := &ApplicantProfile{
		Gender:             strPtr("Female"),
		DateOfBirth:        datePtr(time.Date(2004, time.January, 10, 0, 0, 0, 0, time.UTC)),
		Nationality:        strPtr("Kenya"),
		CountryOfResidence: strPtr("Kenya"),
		EducationLevel:     strPtr("Bachelor's Degree"),
		FieldOfStudy:       strPtr("Computer Science"),
		GPA:                floatPtr(3.8),
		FinancialNeed:      boolPtr(true),
	}
	criteria := Criteria{
		EligibleGenders:       []string{"female"},
		MinAge:                intPtr(18),
		MaxAge:                intPtr(30),
		EligibleNationalities: []string{"Kenya"},
		MinGPA:                floatPtr(3.0),
	}
	engine := NewEngine()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Evaluate(profile, criteria, testNow)
	}
}
