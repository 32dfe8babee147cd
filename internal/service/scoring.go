package service

import (
	"ChangMatch/internal/model"
)

// Two scoring formulas coexist on purpose. ManualMatchScore weights category,
// location and reputation for an explicitly requested pairing.
// AutoMatchPoints ranks same-category candidates on a 100-point scale at
// customer creation time. They distribute differently and callers (the
// auto-match listing and its 0.5 threshold) depend on the second scale, so
// they must not be unified.

// ManualMatchScore computes the compatibility score for a manual pairing.
// Range [0, 1]: category 0.4, district 0.3 (+0.2 when the subdistrict also
// matches), reputation up to 0.1 (rating/5 * 0.1).
func ManualMatchScore(p *model.Provider, c *model.Customer) float64 {
	score := 0.0
	if p.CategoryID == c.CategoryID {
		score += 0.4
	}
	if p.District == c.District {
		score += 0.3
		if p.Subdistrict == c.Subdistrict {
			score += 0.2
		}
	}
	score += (p.Rating / 5) * 0.1
	return score
}

// AutoMatchPoints ranks a same-category candidate on the 100-point scale:
// district match 50, rating tier up to 30, job-volume tier up to 20. There is
// no category term because candidates are pre-filtered to the customer's
// category.
func AutoMatchPoints(p *model.Provider, c *model.Customer) int {
	points := 0
	if p.District == c.District {
		points += 50
	}
	switch {
	case p.Rating >= 4.5:
		points += 30
	case p.Rating >= 4.0:
		points += 25
	case p.Rating >= 3.5:
		points += 20
	case p.Rating >= 3.0:
		points += 15
	case p.Rating > 0:
		points += 10
	}
	switch {
	case p.TotalJobs >= 100:
		points += 20
	case p.TotalJobs >= 50:
		points += 15
	case p.TotalJobs >= 20:
		points += 10
	case p.TotalJobs > 0:
		points += 5
	}
	return points
}

// AutoMatchScore normalizes AutoMatchPoints to the stored 0-1 match_score.
func AutoMatchScore(p *model.Provider, c *model.Customer) float64 {
	return float64(AutoMatchPoints(p, c)) / 100
}
