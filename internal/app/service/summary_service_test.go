package service

import (
	"strings"
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summaryTestEnv struct {
	summary   SummaryService
	financial FinancialService
	funnel    FunnelService
	business  BusinessService
}

func setupSummaryServiceTest(t *testing.T) summaryTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	financialRepo := repository.NewFinancialRepository(testDB)
	funnelRepo := repository.NewFunnelRepository(testDB)

	return summaryTestEnv{
		summary:   NewSummaryService(financialRepo, funnelRepo, businessRepo),
		financial: NewFinancialService(financialRepo, businessRepo),
		funnel:    NewFunnelService(funnelRepo, businessRepo),
		business:  NewBusinessService(businessRepo, accountRepo, nil),
	}
}

func TestSummaryService_GridPeriodsAndCells(t *testing.T) {
	env := setupSummaryServiceTest(t)
	business := createTestBusiness(t, env.business, "Кофейня")

	// financial data only in 12.2024, funnel data only in 01.2025
	_, err := env.financial.Upsert(business.ID, "12", "2024", FinancialInput{
		Revenue:        12345,
		RoyaltyPercent: 10,
	})
	require.NoError(t, err)
	_, err = env.funnel.Upsert(business.ID, "01", "2025", FunnelInput{
		Leads:    200,
		Meetings: 50,
		Sales:    10,
		AvgCheck: 5000,
	})
	require.NoError(t, err)

	grid, err := env.summary.BuildGrid(business.ID, nil)
	require.NoError(t, err)

	// header sorted by year then month
	require.Equal(t, []string{"Показатель", "12.2024", "01.2025"}, grid[0])
	require.Len(t, grid, len(SummaryMetrics)+1)

	rows := make(map[string][]string, len(grid))
	for _, row := range grid[1:] {
		rows[row[0]] = row[1:]
	}

	// money rows group thousands with NBSP
	assert.Equal(t, []string{"12 345", "0"}, rows["Выручка"])
	assert.Equal(t, []string{"1 235", "0"}, rows["Роялти"])

	// margin and funnel rows mark missing periods instead of faking zeros
	assert.Equal(t, []string{"90%", "—"}, rows["Рентабельность"])
	assert.Equal(t, []string{"—", "200"}, rows["Лиды"])
	assert.Equal(t, []string{"—", "25%"}, rows["Конв. встречи из лидов"])
	assert.Equal(t, []string{"—", "50 000"}, rows["Выручка новых продаж"])

	// other revenue: funnel period has no financials, so everything new
	// was sold on top of zero revenue
	assert.Equal(t, []string{"12 345", "0"}, rows["Остальная выручка"])
}

func TestSummaryService_MetricFilter(t *testing.T) {
	env := setupSummaryServiceTest(t)
	business := createTestBusiness(t, env.business, "Кофейня")

	_, err := env.financial.Upsert(business.ID, "03", "2025", FinancialInput{Revenue: 100})
	require.NoError(t, err)

	grid, err := env.summary.BuildGrid(business.ID, []string{"net", "revenue"})
	require.NoError(t, err)

	// display order wins over filter order
	require.Len(t, grid, 3)
	assert.Equal(t, "Выручка", grid[1][0])
	assert.Equal(t, "Чистая прибыль", grid[2][0])

	_, err = env.summary.BuildGrid(business.ID, []string{"revenue", "nonsense"})
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestSummaryService_ExportCSV(t *testing.T) {
	env := setupSummaryServiceTest(t)
	business := createTestBusiness(t, env.business, "Кофейня")

	_, err := env.financial.Upsert(business.ID, "03", "2025", FinancialInput{Revenue: 100})
	require.NoError(t, err)

	csv, err := env.summary.ExportCSV(business.ID, []string{"revenue", "margin"})
	require.NoError(t, err)

	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Показатель;03.2025", lines[0])
	assert.Equal(t, "Выручка;100", lines[1])
	assert.Equal(t, "Рентабельность;100%", lines[2])
}

func TestSummaryService_UnknownBusiness(t *testing.T) {
	env := setupSummaryServiceTest(t)

	_, err := env.summary.BuildGrid(9999, nil)
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}
