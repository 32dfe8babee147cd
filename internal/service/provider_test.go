package service

import (
	"context"
	"testing"

	"ChangMatch/internal/model"
	"ChangMatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProvider_InactiveStaysInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewProviderService(db, newTestLogger())
	ctx := context.Background()

	cat := seedCategory(t, db, "ไฟฟ้า")
	created, err := svc.Create(ctx, &model.Provider{
		Name:       "ช่างพักงาน",
		Phone:      "0811111111",
		CategoryID: cat.ID,
		IsActive:   false,
	})
	require.NoError(t, err)

	// The explicit false must survive the insert, not revert to active.
	var got model.Provider
	require.NoError(t, db.First(&got, created.ID).Error)
	assert.False(t, got.IsActive)

	// And an inactive provider never enters the auto-match candidate pool.
	candidates, err := repository.NewProviderRepository(db).ListCandidates(ctx, cat.ID)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestCreateCustomer_InactiveStaysInactive(t *testing.T) {
	db := newTestDB(t)
	matcher := NewMatchService(db, newTestLogger(), testMatchingConfig())
	svc := NewCustomerService(db, newTestLogger(), matcher)
	ctx := context.Background()

	cat := seedCategory(t, db, "ประปา")
	created, _, err := svc.Create(ctx, &model.Customer{
		Name:       "ลูกค้ายกเลิก",
		Phone:      "0899999999",
		CategoryID: cat.ID,
		IsActive:   false,
	})
	require.NoError(t, err)

	var got model.Customer
	require.NoError(t, db.First(&got, created.ID).Error)
	assert.False(t, got.IsActive)
}
