package scheduler

import (
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodScheduler_OpenCurrentPeriods(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	businessRepo := repository.NewBusinessRepository(testDB)
	financialRepo := repository.NewFinancialRepository(testDB)
	funnelRepo := repository.NewFunnelRepository(testDB)

	active := &model.Business{Title: "Кофейня", Status: model.StatusNew}
	archived := &model.Business{Title: "Закрытая точка", Status: model.StatusArchived}
	require.NoError(t, businessRepo.Create(active))
	require.NoError(t, businessRepo.Create(archived))

	month, year := model.CurrentPeriod()

	// the active business already reported financials this month
	existing := &model.FinancialRecord{BusinessID: active.ID, Month: month, Year: year, Revenue: 700}
	existing.Recalculate()
	require.NoError(t, financialRepo.Create(existing))

	s := NewPeriodScheduler(businessRepo, financialRepo, funnelRepo)
	require.NoError(t, s.OpenCurrentPeriods())

	// existing financials untouched, funnel opened blank
	record, err := financialRepo.FindByBusinessAndPeriod(active.ID, month, year)
	require.NoError(t, err)
	assert.Equal(t, float64(700), record.Revenue)

	funnel, err := funnelRepo.FindByBusinessAndPeriod(active.ID, month, year)
	require.NoError(t, err)
	assert.Equal(t, 0, funnel.Leads)

	// archived businesses get nothing
	_, err = financialRepo.FindByBusinessAndPeriod(archived.ID, month, year)
	assert.Error(t, err)

	// a second pass is a no-op
	require.NoError(t, s.OpenCurrentPeriods())
	records, err := financialRepo.FindByBusiness(active.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
