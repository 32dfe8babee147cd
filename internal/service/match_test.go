package service

import (
	"context"
	"testing"

	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMatch_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ไฟฟ้า")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID, District: "บางรัก", Subdistrict: "สีลม", Rating: 5})
	c := seedCustomer(t, db, model.Customer{CategoryID: cat.ID, District: "บางรัก", Subdistrict: "สีลม"})

	created, err := svc.CreateMatch(ctx, p.ID, c.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, created.MatchScore, 1e-9)
	assert.Equal(t, model.MatchStatusPending, created.Status)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ProviderID, got.ProviderID)
	assert.Equal(t, created.CustomerID, got.CustomerID)
	assert.InDelta(t, created.MatchScore, got.MatchScore, 1e-9)
	assert.Equal(t, created.Status, got.Status)

	// One history row for the creation.
	history, err := repository.NewMatchRepository(db).ListHistory(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "match_created", history[0].Action)
}

func TestCreateMatch_UnknownIDs(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ประปา")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID})

	_, err := svc.CreateMatch(ctx, 9999, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.CreateMatch(ctx, p.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMatch_DuplicatePair(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "แอร์")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID})
	c := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})

	_, err := svc.CreateMatch(ctx, p.ID, c.ID)
	require.NoError(t, err)

	_, err = svc.CreateMatch(ctx, p.ID, c.ID)
	assert.ErrorIs(t, err, ErrDuplicateMatch)
}

func TestUpdateStatus_InvalidInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, 1, StatusUpdate{Status: "done"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	six := 6
	_, err = svc.UpdateStatus(ctx, 1, StatusUpdate{Status: model.MatchStatusCompleted, Rating: &six})
	assert.ErrorAs(t, err, &ve)

	_, err = svc.UpdateStatus(ctx, 9999, StatusUpdate{Status: model.MatchStatusAccepted})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_MergeSemantics(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ไฟฟ้า")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID})
	c := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})
	match, err := svc.CreateMatch(ctx, p.ID, c.ID)
	require.NoError(t, err)

	resp := "รับงานครับ"
	updated, err := svc.UpdateStatus(ctx, match.ID, StatusUpdate{
		Status:           model.MatchStatusAccepted,
		ProviderResponse: &resp,
	})
	require.NoError(t, err)
	assert.Equal(t, model.MatchStatusAccepted, updated.Status)
	assert.Equal(t, resp, updated.ProviderResponse)
	require.NotNil(t, updated.ResponseDate)
	assert.Nil(t, updated.CompletionDate)

	// Omitted and empty fields keep the stored value.
	empty := ""
	updated, err = svc.UpdateStatus(ctx, match.ID, StatusUpdate{
		Status:           model.MatchStatusAccepted,
		ProviderResponse: &empty,
	})
	require.NoError(t, err)
	assert.Equal(t, resp, updated.ProviderResponse)
}

func TestUpdateStatus_CompletionRecomputesProviderAggregates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ไฟฟ้า")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID, TotalJobs: 7})
	c1 := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})
	c2 := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})

	// A prior completed match carrying rating 5.
	five := 5
	require.NoError(t, db.Create(&model.Match{
		ProviderID: p.ID, CustomerID: c1.ID, Status: model.MatchStatusCompleted, Rating: &five,
	}).Error)

	match, err := svc.CreateMatch(ctx, p.ID, c2.ID)
	require.NoError(t, err)

	four := 4
	_, err = svc.UpdateStatus(ctx, match.ID, StatusUpdate{Status: model.MatchStatusCompleted, Rating: &four})
	require.NoError(t, err)

	var got model.Provider
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 8, got.TotalJobs)
	assert.InDelta(t, 4.5, got.Rating, 1e-9) // mean of 5 and 4
}

func TestUpdateStatus_DoubleCompleteIsNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ประปา")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID})
	c := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})
	match, err := svc.CreateMatch(ctx, p.ID, c.ID)
	require.NoError(t, err)

	// Completing twice increments total_jobs twice and appends two history
	// rows. That is the contract, not a bug to dedupe.
	_, err = svc.UpdateStatus(ctx, match.ID, StatusUpdate{Status: model.MatchStatusCompleted})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, match.ID, StatusUpdate{Status: model.MatchStatusCompleted})
	require.NoError(t, err)

	var got model.Provider
	require.NoError(t, db.First(&got, p.ID).Error)
	assert.Equal(t, 2, got.TotalJobs)

	history, err := repository.NewMatchRepository(db).ListHistory(ctx, match.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3) // creation + two status updates
}

func TestAutoMatches_ThresholdAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "แอร์")
	p := seedProvider(t, db, model.Provider{CategoryID: cat.ID})
	for _, score := range []float64{0.3, 0.5, 0.9, 0.65} {
		c := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})
		require.NoError(t, db.Create(&model.Match{
			ProviderID: p.ID, CustomerID: c.ID, MatchScore: score, Status: model.MatchStatusPending,
		}).Error)
	}

	list, err := svc.AutoMatches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3) // 0.3 is below the 0.5 threshold
	assert.InDelta(t, 0.9, list[0].MatchScore, 1e-9)
	assert.InDelta(t, 0.65, list[1].MatchScore, 1e-9)
	assert.InDelta(t, 0.5, list[2].MatchScore, 1e-9)
}

func TestGenerateForCustomer_TopCandidates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "ไฟฟ้า")
	other := seedCategory(t, db, "ประปา")

	// Seven in-category providers with distinct strengths, one out of
	// category, one inactive.
	for i := 0; i < 7; i++ {
		seedProvider(t, db, model.Provider{
			CategoryID: cat.ID,
			District:   "บางรัก",
			Rating:     float64(i) * 0.7,
			TotalJobs:  i * 20,
		})
	}
	seedProvider(t, db, model.Provider{CategoryID: other.ID, District: "บางรัก", Rating: 5})
	inactive := model.Provider{CategoryID: cat.ID, District: "บางรัก", Rating: 5, Name: "ปิดรับงาน", Phone: "02"}
	require.NoError(t, db.Create(&inactive).Error)
	require.NoError(t, db.Model(&model.Provider{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	customer := seedCustomer(t, db, model.Customer{CategoryID: cat.ID, District: "บางรัก"})
	created, err := svc.GenerateForCustomer(ctx, customer)
	require.NoError(t, err)
	assert.Equal(t, 5, created) // capped at the configured limit

	var matches []model.Match
	require.NoError(t, db.Where("customer_id = ?", customer.ID).Find(&matches).Error)
	require.Len(t, matches, 5)
	for _, m := range matches {
		assert.Equal(t, model.MatchStatusPending, m.Status)
		assert.GreaterOrEqual(t, m.MatchScore, 0.0)
		assert.LessOrEqual(t, m.MatchScore, 1.0)
	}
}

func TestGenerateForCustomer_NoCandidates(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	cat := seedCategory(t, db, "จัดสวน")
	customer := seedCustomer(t, db, model.Customer{CategoryID: cat.ID})

	created, err := svc.GenerateForCustomer(ctx, customer)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestStats_CountsAndTopCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewMatchService(db, newTestLogger(), testMatchingConfig())
	ctx := context.Background()

	catA := seedCategory(t, db, "ไฟฟ้า")
	catB := seedCategory(t, db, "ประปา")
	pa := seedProvider(t, db, model.Provider{CategoryID: catA.ID})
	pb := seedProvider(t, db, model.Provider{CategoryID: catB.ID})

	for i := 0; i < 3; i++ {
		c := seedCustomer(t, db, model.Customer{CategoryID: catA.ID})
		require.NoError(t, db.Create(&model.Match{ProviderID: pa.ID, CustomerID: c.ID, Status: model.MatchStatusPending}).Error)
	}
	c := seedCustomer(t, db, model.Customer{CategoryID: catB.ID})
	require.NoError(t, db.Create(&model.Match{ProviderID: pb.ID, CustomerID: c.ID, Status: model.MatchStatusCompleted}).Error)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.ByStatus[model.MatchStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[model.MatchStatusCompleted])
	assert.Equal(t, int64(0), stats.ByStatus[model.MatchStatusRejected])
	require.NotEmpty(t, stats.TopCategories)
	assert.Equal(t, "ไฟฟ้า", stats.TopCategories[0].CategoryName)
	assert.Equal(t, int64(3), stats.TopCategories[0].MatchCount)
}
