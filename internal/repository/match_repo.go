package repository

import (
	"context"

	"ChangMatch/internal/model"

	"gorm.io/gorm"
)

// MatchFilter is the optional filter surface for match listings.
type MatchFilter struct {
	ProviderID uint64 // exact match
	CustomerID uint64 // exact match
	Status     string // exact match against the closed status set
}

// CategoryMatchCount is one row of the top-categories statistic.
type CategoryMatchCount struct {
	CategoryID   uint64 `json:"category_id"`
	CategoryName string `json:"category_name"`
	MatchCount   int64  `json:"match_count"`
}

// MatchRepository persists matches and their append-only history log.
type MatchRepository interface {
	Create(ctx context.Context, m *model.Match) error
	Get(ctx context.Context, id uint64) (*model.Match, error)
	// ExistsForPair reports whether any match row exists for the pair,
	// regardless of status. Duplicate detection is application-level; there is
	// no unique constraint on (provider_id, customer_id).
	ExistsForPair(ctx context.Context, providerID, customerID uint64) (bool, error)
	List(ctx context.Context, filter MatchFilter, q ListQuery) ([]*model.Match, int64, error)
	// AutoMatches returns matches at or above minScore, best score first, most
	// recent first within equal scores.
	AutoMatches(ctx context.Context, minScore float64, limit int) ([]*model.Match, error)
	// UpdateFields applies a column map to one match row.
	UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error
	// RatingsForProvider returns all non-null match ratings for a provider,
	// used for the full mean recomputation on completion.
	RatingsForProvider(ctx context.Context, providerID uint64) ([]int, error)
	AppendHistory(ctx context.Context, h *model.MatchHistory) error
	ListHistory(ctx context.Context, matchID uint64) ([]*model.MatchHistory, error)
	StatusCounts(ctx context.Context) (int64, map[string]int64, error)
	TopCategories(ctx context.Context, n int) ([]CategoryMatchCount, error)
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a MatchRepository over db.
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

var matchSortFields = []string{"match_score", "match_date", "status"}

func (r *matchRepository) Create(ctx context.Context, m *model.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *matchRepository) Get(ctx context.Context, id uint64) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ExistsForPair(ctx context.Context, providerID, customerID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("provider_id = ? AND customer_id = ?", providerID, customerID).
		Count(&count).Error
	return count > 0, err
}

func (r *matchRepository) List(ctx context.Context, filter MatchFilter, q ListQuery) ([]*model.Match, int64, error) {
	page, limit, orderBy := q.normalize(10, matchSortFields, "match_date")

	db := r.db.WithContext(ctx).Model(&model.Match{})
	if filter.ProviderID != 0 {
		db = db.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.CustomerID != 0 {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Match
	if err := db.Order(orderBy).Offset(offset(page, limit)).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *matchRepository) AutoMatches(ctx context.Context, minScore float64, limit int) ([]*model.Match, error) {
	if limit <= 0 {
		limit = 20
	}
	var list []*model.Match
	if err := r.db.WithContext(ctx).
		Where("match_score >= ?", minScore).
		Order("match_score DESC").Order("match_date DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) UpdateFields(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *matchRepository) RatingsForProvider(ctx context.Context, providerID uint64) ([]int, error) {
	var ratings []int
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("provider_id = ? AND rating IS NOT NULL", providerID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *matchRepository) AppendHistory(ctx context.Context, h *model.MatchHistory) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *matchRepository) ListHistory(ctx context.Context, matchID uint64) ([]*model.MatchHistory, error) {
	var list []*model.MatchHistory
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *matchRepository) StatusCounts(ctx context.Context) (int64, map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error; err != nil {
		return 0, nil, err
	}
	counts := make(map[string]int64, len(model.MatchStatuses))
	for _, s := range model.MatchStatuses {
		counts[s] = 0
	}
	var total int64
	for _, rw := range rows {
		counts[rw.Status] = rw.N
		total += rw.N
	}
	return total, counts, nil
}

func (r *matchRepository) TopCategories(ctx context.Context, n int) ([]CategoryMatchCount, error) {
	if n <= 0 {
		n = 5
	}
	var rows []CategoryMatchCount
	err := r.db.WithContext(ctx).Model(&model.Match{}).
		Select("service_categories.id AS category_id, service_categories.name AS category_name, COUNT(job_matches.id) AS match_count").
		Joins("JOIN service_providers ON service_providers.id = job_matches.provider_id").
		Joins("JOIN service_categories ON service_categories.id = service_providers.category_id").
		Group("service_categories.id, service_categories.name").
		Order("match_count DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
