package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ChangMatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.ServiceCategory{},
		&model.Provider{},
		&model.Customer{},
		&model.Match{},
		&model.MatchHistory{},
		&model.JobProgressTracking{},
		&model.CustomerFeedback{},
	))
	return db
}

func seedMatches(t *testing.T, db *gorm.DB, providerID uint64, n int, status string) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&model.Match{
			ProviderID: providerID,
			CustomerID: uint64(1000 + i),
			MatchScore: float64(i) / 10,
			Status:     status,
			MatchDate:  base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
}

func TestList_PaginationSlicesFilteredSet(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	// 5 rows match the filter, 3 do not.
	seedMatches(t, db, 1, 5, model.MatchStatusPending)
	seedMatches(t, db, 2, 3, model.MatchStatusPending)

	list, total, err := repo.List(ctx, MatchFilter{ProviderID: 1}, ListQuery{
		Page: 2, Limit: 2, SortBy: "match_score", Order: "ASC",
	})
	require.NoError(t, err)

	// Total reflects the filtered set, and page 2 of limit 2 is exactly the
	// 3rd and 4th row by the active sort.
	assert.Equal(t, int64(5), total)
	require.Len(t, list, 2)
	assert.InDelta(t, 0.2, list[0].MatchScore, 1e-9)
	assert.InDelta(t, 0.3, list[1].MatchScore, 1e-9)

	pages := int(total) / 2
	if int(total)%2 != 0 {
		pages++
	}
	assert.Equal(t, 3, pages)
}

func TestList_SortWhitelistFallsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	seedMatches(t, db, 1, 3, model.MatchStatusPending)

	// An unknown sort field must not reach the SQL; the default (match_date
	// DESC) applies instead.
	list, _, err := repo.List(ctx, MatchFilter{}, ListQuery{SortBy: "drop table", Order: "bogus"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].MatchDate.After(list[1].MatchDate))
	assert.True(t, list[1].MatchDate.After(list[2].MatchDate))
}

func TestList_StatusFilterExactMatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	seedMatches(t, db, 1, 2, model.MatchStatusPending)
	seedMatches(t, db, 1, 3, model.MatchStatusCompleted)

	_, total, err := repo.List(ctx, MatchFilter{Status: model.MatchStatusCompleted}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestExistsForPair(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&model.Match{ProviderID: 7, CustomerID: 9, Status: model.MatchStatusRejected}).Error)

	// Any row blocks, regardless of status.
	exists, err := repo.ExistsForPair(ctx, 7, 9)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsForPair(ctx, 9, 7)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProviderList_SearchAndDistrictSubstring(t *testing.T) {
	db := newTestDB(t)
	repo := NewProviderRepository(db)
	ctx := context.Background()

	for _, p := range []model.Provider{
		{Name: "ช่างไฟสมชาย", Phone: "081", CategoryID: 1, District: "เขตบางรัก", IsActive: true},
		{Name: "ช่างประปาสมหญิง", Phone: "082", CategoryID: 2, District: "เขตดินแดง", IsActive: true},
		{Name: "ช่างแอร์สมศักดิ์", Phone: "083", CategoryID: 3, District: "เขตบางกะปิ", IsActive: true},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	list, total, err := repo.List(ctx, ProviderFilter{District: "บาง"}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, ProviderFilter{Search: "ประปา"}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "ช่างประปาสมหญิง", list[0].Name)
}

func TestProgressListInProgress_OnlyPipelineRows(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	started := model.StageStarted
	closed := model.StageClosed
	require.NoError(t, db.Create(&model.Match{ProviderID: 1, CustomerID: 1, Status: "accepted", JobProgress: &started}).Error)
	require.NoError(t, db.Create(&model.Match{ProviderID: 1, CustomerID: 2, Status: "accepted", JobProgress: &closed}).Error)
	require.NoError(t, db.Create(&model.Match{ProviderID: 1, CustomerID: 3, Status: "pending"}).Error)

	_, total, err := repo.ListInProgress(ctx, ProgressFilter{}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	list, total, err := repo.ListInProgress(ctx, ProgressFilter{Stage: model.StageStarted}, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, uint64(1), list[0].CustomerID)
}
