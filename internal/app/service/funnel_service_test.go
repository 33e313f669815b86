package service

import (
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFunnelServiceTest(t *testing.T) (FunnelService, BusinessService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	businessRepo := repository.NewBusinessRepository(testDB)
	accountRepo := repository.NewAccountRepository(testDB)
	funnelRepo := repository.NewFunnelRepository(testDB)

	return NewFunnelService(funnelRepo, businessRepo),
		NewBusinessService(businessRepo, accountRepo, nil)
}

func TestFunnelService_UpsertComputes(t *testing.T) {
	funnelService, businessService := setupFunnelServiceTest(t)
	business := createTestBusiness(t, businessService, "Автомойка")

	view, err := funnelService.Upsert(business.ID, "03", "2025", FunnelInput{
		Leads:    200,
		Meetings: 50,
		Sales:    10,
		AvgCheck: 5000,
	})
	require.NoError(t, err)

	assert.Equal(t, 25, view.Computed.ConvMeetingsFromLeads)
	assert.Equal(t, 5, view.Computed.ConvSalesFromLeads)
	assert.Equal(t, 20, view.Computed.ConvSalesFromMeetings)
	assert.Equal(t, float64(50000), view.Computed.NewRevenue)

	// same period key overwrites
	view2, err := funnelService.Upsert(business.ID, "03", "2025", FunnelInput{
		Leads: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, view.ID, view2.ID)
	assert.Equal(t, 0, view2.Computed.ConvMeetingsFromLeads)

	views, err := funnelService.ListByBusiness(business.ID)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestFunnelService_InvalidPeriod(t *testing.T) {
	funnelService, businessService := setupFunnelServiceTest(t)
	business := createTestBusiness(t, businessService, "Автомойка")

	_, err := funnelService.Upsert(business.ID, "0", "2025", FunnelInput{})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestFunnelService_Delete(t *testing.T) {
	funnelService, businessService := setupFunnelServiceTest(t)
	business := createTestBusiness(t, businessService, "Автомойка")

	_, err := funnelService.Upsert(business.ID, "06", "2025", FunnelInput{Leads: 5})
	require.NoError(t, err)

	err = funnelService.Delete(business.ID, "06", "2025")
	require.NoError(t, err)

	_, err = funnelService.Get(business.ID, "06", "2025")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
