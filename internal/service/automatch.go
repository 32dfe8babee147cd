package service

import (
	"context"
	"fmt"
	"sort"

	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GenerateForCustomer runs the auto-match pass for a freshly created customer:
// active providers in the same category are ranked on the 100-point scale and
// the top candidates get one pending match each. Returns the number of matches
// created. Zero candidates is not an error.
//
// Candidate rows are inserted one by one; a mid-loop failure surfaces the
// error and leaves the earlier rows in place (no compensating rollback).
func (s *MatchService) GenerateForCustomer(ctx context.Context, customer *model.Customer) (int, error) {
	candidates, err := s.providers.ListCandidates(ctx, customer.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.WithField("customer_id", customer.ID).Info("auto-match: no candidates in category")
		return 0, nil
	}

	type scored struct {
		provider *model.Provider
		points   int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		ranked = append(ranked, scored{provider: p, points: AutoMatchPoints(p, customer)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].points > ranked[j].points
	})

	limit := s.cfg.AutoMatchLimit
	if limit <= 0 {
		limit = 5
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	created := 0
	for _, cand := range ranked {
		match := &model.Match{
			ProviderID: cand.provider.ID,
			CustomerID: customer.ID,
			MatchScore: float64(cand.points) / 100,
			Status:     model.MatchStatusPending,
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			matches := repository.NewMatchRepository(tx)
			if err := matches.Create(ctx, match); err != nil {
				return err
			}
			return matches.AppendHistory(ctx, &model.MatchHistory{
				MatchID:     match.ID,
				Action:      "auto_match_created",
				Description: fmt.Sprintf("auto match for customer %d: provider %d scored %d/100", customer.ID, cand.provider.ID, cand.points),
			})
		})
		if err != nil {
			return created, fmt.Errorf("auto-match insert for provider %d: %w", cand.provider.ID, err)
		}
		created++
	}
	s.logger.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"created":     created,
	}).Info("auto-match generation finished")
	return created, nil
}
