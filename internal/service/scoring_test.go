package service

import (
	"testing"

	"ChangMatch/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestManualMatchScore_FullMatch(t *testing.T) {
	p := &model.Provider{CategoryID: 1, District: "บางรัก", Subdistrict: "สีลม", Rating: 5}
	c := &model.Customer{CategoryID: 1, District: "บางรัก", Subdistrict: "สีลม"}

	assert.InDelta(t, 1.0, ManualMatchScore(p, c), 1e-9)
}

func TestManualMatchScore_NoOverlapOnlyReputation(t *testing.T) {
	p := &model.Provider{CategoryID: 1, District: "บางรัก", Subdistrict: "สีลม", Rating: 3}
	c := &model.Customer{CategoryID: 2, District: "ดินแดง", Subdistrict: "รัชดา"}

	// Only the reputation term contributes: (3/5)*0.1.
	assert.InDelta(t, 0.06, ManualMatchScore(p, c), 1e-9)
}

func TestManualMatchScore_DistrictWithoutSubdistrict(t *testing.T) {
	p := &model.Provider{CategoryID: 1, District: "บางรัก", Subdistrict: "สีลม"}
	c := &model.Customer{CategoryID: 1, District: "บางรัก", Subdistrict: "บางรัก"}

	// 0.4 category + 0.3 district, no subdistrict bonus, no rating.
	assert.InDelta(t, 0.7, ManualMatchScore(p, c), 1e-9)
}

func TestManualMatchScore_UnratedProviderDefaultsToZero(t *testing.T) {
	p := &model.Provider{CategoryID: 1}
	c := &model.Customer{CategoryID: 1, District: "ดินแดง"}

	assert.InDelta(t, 0.4, ManualMatchScore(p, c), 1e-9)
}

func TestAutoMatchPoints_TopCandidate(t *testing.T) {
	p := &model.Provider{District: "บางรัก", Rating: 4.5, TotalJobs: 100}
	c := &model.Customer{District: "บางรัก"}

	assert.Equal(t, 100, AutoMatchPoints(p, c))
	assert.InDelta(t, 1.0, AutoMatchScore(p, c), 1e-9)
}

func TestAutoMatchPoints_RatingTiers(t *testing.T) {
	c := &model.Customer{District: "อื่น"}
	cases := []struct {
		rating float64
		want   int
	}{
		{4.5, 30},
		{4.0, 25},
		{3.5, 20},
		{3.0, 15},
		{0.5, 10},
		{0, 0},
	}
	for _, tc := range cases {
		p := &model.Provider{District: "บางรัก", Rating: tc.rating}
		assert.Equalf(t, tc.want, AutoMatchPoints(p, c), "rating %.1f", tc.rating)
	}
}

func TestAutoMatchPoints_JobVolumeTiers(t *testing.T) {
	c := &model.Customer{District: "อื่น"}
	cases := []struct {
		jobs int
		want int
	}{
		{100, 20},
		{50, 15},
		{20, 10},
		{1, 5},
		{0, 0},
	}
	for _, tc := range cases {
		p := &model.Provider{District: "บางรัก", TotalJobs: tc.jobs}
		assert.Equalf(t, tc.want, AutoMatchPoints(p, c), "jobs %d", tc.jobs)
	}
}

func TestScoringFormulasDisagree(t *testing.T) {
	// The two formulas are intentionally different scales: a same-category,
	// same-district pairing with a mid-rated provider scores differently per
	// path. Guards against anyone "unifying" them. The subdistricts differ so
	// the manual formula's nested +0.2 bonus stays out of the picture.
	p := &model.Provider{CategoryID: 1, District: "บางรัก", Subdistrict: "สีลม", Rating: 3, TotalJobs: 0}
	c := &model.Customer{CategoryID: 1, District: "บางรัก", Subdistrict: "สุริยวงศ์"}

	manual := ManualMatchScore(p, c) // 0.4 + 0.3 + 0.06 = 0.76
	auto := AutoMatchScore(p, c)     // (50 + 15) / 100 = 0.65
	assert.InDelta(t, 0.76, manual, 1e-9)
	assert.InDelta(t, 0.65, auto, 1e-9)
	assert.NotEqual(t, manual, auto)
}
