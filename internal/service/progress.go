package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobProgressService drives the execution-stage lifecycle of a match and the
// customer feedback that closes it out. Stage updates are independent of the
// business status on the same row.
type JobProgressService struct {
	db        *gorm.DB
	logger    *logrus.Logger
	matches   repository.MatchRepository
	progress  repository.ProgressRepository
	providers repository.ProviderRepository
	customers repository.CustomerRepository
}

// NewJobProgressService creates a JobProgressService with repositories over db.
func NewJobProgressService(db *gorm.DB, logger *logrus.Logger) *JobProgressService {
	return &JobProgressService{
		db:        db,
		logger:    logger,
		matches:   repository.NewMatchRepository(db),
		progress:  repository.NewProgressRepository(db),
		providers: repository.NewProviderRepository(db),
		customers: repository.NewCustomerRepository(db),
	}
}

// StageUpdate is one progress report from the field.
type StageUpdate struct {
	Stage             string
	Notes             string
	LocationInfo      datatypes.JSON
	EstimatedDuration string   // recorded on started
	ActualDuration    string   // recorded on completed
	FinalCost         *float64 // recorded on completed
}

// FeedbackInput is the customer feedback payload. Nil booleans default to true.
type FeedbackInput struct {
	OverallRating  int
	ServiceQuality int
	Punctuality    int
	Communication  int
	ValueForMoney  int
	FeedbackText   string
	WouldRecommend *bool
	WouldUseAgain  *bool
}

// ProgressDetail is the full picture of one job for UI callers.
type ProgressDetail struct {
	Match            *model.Match                     `json:"match"`
	Provider         *model.Provider                  `json:"provider,omitempty"`
	Customer         *model.Customer                  `json:"customer,omitempty"`
	Tracking         []*model.JobProgressTracking     `json:"tracking"`
	Feedback         *model.CustomerFeedback          `json:"feedback,omitempty"`
	StageDefinitions map[string]model.StageDefinition `json:"stage_definitions"`
}

// StageStats is the aggregate stage report.
type StageStats struct {
	Total  int64            `json:"total"`
	Stages map[string]int64 `json:"stages"`
}

// UpdateStage records a stage report: sets job_progress, stamps the
// stage-specific timestamp, and appends one tracking row plus one history row.
// Stages are not required to arrive in order; any of the five values is
// accepted at any time.
func (s *JobProgressService) UpdateStage(ctx context.Context, matchID uint64, upd StageUpdate) (*model.Match, error) {
	if !model.ValidStage(upd.Stage) {
		return nil, NewValidationError(fmt.Sprintf("stage must be one of %v", model.JobProgressStages))
	}

	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
		}
		return nil, err
	}

	now := time.Now()
	fields := map[string]interface{}{"job_progress": upd.Stage}
	switch upd.Stage {
	case model.StageAccepted:
		fields["response_date"] = now
	case model.StageArrived:
		fields["arrival_time"] = now
	case model.StageStarted:
		fields["start_time"] = now
		if upd.EstimatedDuration != "" {
			fields["estimated_duration"] = upd.EstimatedDuration
		}
	case model.StageCompleted:
		fields["completion_date"] = now
		if upd.ActualDuration != "" {
			fields["actual_duration"] = upd.ActualDuration
		}
		if upd.FinalCost != nil {
			fields["final_cost"] = *upd.FinalCost
		}
	case model.StageClosed:
		fields["final_close_date"] = now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		matches := repository.NewMatchRepository(tx)
		progress := repository.NewProgressRepository(tx)
		if err := matches.UpdateFields(ctx, matchID, fields); err != nil {
			return err
		}
		if err := progress.AppendTracking(ctx, &model.JobProgressTracking{
			MatchID:      matchID,
			Stage:        upd.Stage,
			Status:       "completed", // the tracking entry itself is closed
			Notes:        upd.Notes,
			LocationInfo: upd.LocationInfo,
			UpdatedBy:    "system",
		}); err != nil {
			return err
		}
		return matches.AppendHistory(ctx, &model.MatchHistory{
			MatchID:     matchID,
			Action:      "progress_updated",
			Description: fmt.Sprintf("job progress set to %s (was %s)", upd.Stage, progressOrNone(match.JobProgress)),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("update progress for match %d: %w", matchID, err)
	}

	return s.matches.Get(ctx, matchID)
}

// GetProgress assembles match, parties, the ordered tracking trail, feedback
// (if any) and the static stage metadata. Orphaned matches (deleted provider
// or customer) still resolve; the missing party is just omitted.
func (s *JobProgressService) GetProgress(ctx context.Context, matchID uint64) (*ProgressDetail, error) {
	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("match %d: %w", matchID, ErrNotFound)
		}
		return nil, err
	}

	detail := &ProgressDetail{
		Match:            match,
		StageDefinitions: model.StageDefinitions(),
	}
	if p, err := s.providers.Get(ctx, match.ProviderID); err == nil {
		detail.Provider = p
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch provider %d: %w", match.ProviderID, err)
	}
	if c, err := s.customers.Get(ctx, match.CustomerID); err == nil {
		detail.Customer = c
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch customer %d: %w", match.CustomerID, err)
	}
	if detail.Tracking, err = s.progress.ListTracking(ctx, matchID); err != nil {
		return nil, fmt.Errorf("list tracking for match %d: %w", matchID, err)
	}
	if fb, err := s.progress.GetFeedback(ctx, matchID); err == nil {
		detail.Feedback = fb
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fetch feedback for match %d: %w", matchID, err)
	}
	return detail, nil
}

// SubmitFeedback stores customer feedback for a completed job. The gate is
// the lookup itself: a match row must exist with this id AND
// job_progress = completed, otherwise the submission is rejected without
// writing anything. Resubmission overwrites the previous feedback.
func (s *JobProgressService) SubmitFeedback(ctx context.Context, matchID uint64, in FeedbackInput) (*model.CustomerFeedback, error) {
	if msgs := validateFeedback(in); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	var match model.Match
	err := s.db.WithContext(ctx).
		Where("id = ? AND job_progress = ?", matchID, model.StageCompleted).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotAllowed
		}
		return nil, err
	}

	fb := &model.CustomerFeedback{
		MatchID:        matchID,
		OverallRating:  in.OverallRating,
		ServiceQuality: in.ServiceQuality,
		Punctuality:    in.Punctuality,
		Communication:  in.Communication,
		ValueForMoney:  in.ValueForMoney,
		FeedbackText:   in.FeedbackText,
		WouldRecommend: boolOrTrue(in.WouldRecommend),
		WouldUseAgain:  boolOrTrue(in.WouldUseAgain),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progress := repository.NewProgressRepository(tx)
		if err := progress.UpsertFeedback(ctx, fb); err != nil {
			return err
		}
		// The match row carries a copy of the headline rating and text.
		if err := repository.NewMatchRepository(tx).UpdateFields(ctx, matchID, map[string]interface{}{
			"rating":   in.OverallRating,
			"feedback": in.FeedbackText,
		}); err != nil {
			return err
		}
		return progress.AppendTracking(ctx, &model.JobProgressTracking{
			MatchID:   matchID,
			Stage:     "feedback_received",
			Status:    "completed",
			Notes:     in.FeedbackText,
			UpdatedBy: "customer",
		})
	})
	if err != nil {
		return nil, fmt.Errorf("submit feedback for match %d: %w", matchID, err)
	}
	return fb, nil
}

// ListProgress pages jobs that entered the progress pipeline.
func (s *JobProgressService) ListProgress(ctx context.Context, filter repository.ProgressFilter, q repository.ListQuery) ([]*model.Match, int64, *StageStats, error) {
	if filter.Stage != "" && !model.ValidStage(filter.Stage) {
		return nil, 0, nil, NewValidationError(fmt.Sprintf("stage must be one of %v", model.JobProgressStages))
	}
	list, total, err := s.progress.ListInProgress(ctx, filter, q)
	if err != nil {
		return nil, 0, nil, err
	}
	stats, err := s.StageStatistics(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	return list, total, stats, nil
}

// StageStatistics reports the zero-filled per-stage job counts.
func (s *JobProgressService) StageStatistics(ctx context.Context) (*StageStats, error) {
	total, counts, err := s.progress.StageCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("stage counts: %w", err)
	}
	return &StageStats{Total: total, Stages: counts}, nil
}

func validateFeedback(in FeedbackInput) []string {
	var msgs []string
	check := func(name string, v int) {
		if v < 1 || v > 5 {
			msgs = append(msgs, name+" must be between 1 and 5")
		}
	}
	check("overall_rating", in.OverallRating)
	check("service_quality", in.ServiceQuality)
	check("punctuality", in.Punctuality)
	check("communication", in.Communication)
	check("value_for_money", in.ValueForMoney)
	return msgs
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}

func progressOrNone(p *string) string {
	if p == nil {
		return "none"
	}
	return *p
}
