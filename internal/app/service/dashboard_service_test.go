package service

import (
	"context"
	"testing"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dashboardTestEnv struct {
	dashboard DashboardService
	financial FinancialService
	funnel    FunnelService
	business  BusinessService
	accounts  AccountService
}

func setupDashboardServiceTest(t *testing.T) dashboardTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	accountRepo := repository.NewAccountRepository(testDB)
	businessRepo := repository.NewBusinessRepository(testDB)
	financialRepo := repository.NewFinancialRepository(testDB)
	funnelRepo := repository.NewFunnelRepository(testDB)

	return dashboardTestEnv{
		dashboard: NewDashboardService(financialRepo, funnelRepo, businessRepo, accountRepo),
		financial: NewFinancialService(financialRepo, businessRepo),
		funnel:    NewFunnelService(funnelRepo, businessRepo),
		business:  NewBusinessService(businessRepo, accountRepo, nil),
		accounts:  NewAccountService(accountRepo),
	}
}

func TestDashboardService_LeaderboardAggregation(t *testing.T) {
	env := setupDashboardServiceTest(t)

	manager, err := env.accounts.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	first := createTestBusiness(t, env.business, "Кофейня")
	second := createTestBusiness(t, env.business, "Автомойка")
	_, err = env.business.Assign(first.ID, manager.ID)
	require.NoError(t, err)
	_, err = env.business.Assign(second.ID, manager.ID)
	require.NoError(t, err)

	// two businesses under one manager, nets 1000 and -200
	_, err = env.financial.Upsert(first.ID, "03", "2025", FinancialInput{Revenue: 1000})
	require.NoError(t, err)
	_, err = env.financial.Upsert(second.ID, "03", "2025", FinancialInput{Rent: 200})
	require.NoError(t, err)

	dash, err := env.dashboard.Build(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, dash.Leaderboard, 1)
	row := dash.Leaderboard[0]
	require.NotNil(t, row.ManagerID)
	assert.Equal(t, manager.ID, *row.ManagerID)
	assert.Equal(t, "Мария", row.ManagerName)
	assert.Equal(t, 2, row.Businesses)
	assert.Equal(t, float64(800), row.Net)

	assert.Equal(t, float64(1000), dash.Revenue)
	assert.Equal(t, float64(800), dash.Net)
	assert.Equal(t, 80, dash.Margin)
}

func TestDashboardService_UnassignedBucketAndOrdering(t *testing.T) {
	env := setupDashboardServiceTest(t)

	manager, err := env.accounts.Create(CreateAccountInput{
		Name:     "Мария",
		Login:    "manager1",
		Password: "secret123",
		Role:     model.RoleManager,
	})
	require.NoError(t, err)

	assigned := createTestBusiness(t, env.business, "Кофейня")
	pooled := createTestBusiness(t, env.business, "Пекарня")
	_, err = env.business.Assign(assigned.ID, manager.ID)
	require.NoError(t, err)

	// the pool business out-earns the assigned one on new revenue
	_, err = env.funnel.Upsert(assigned.ID, "03", "2025", FunnelInput{Sales: 2, AvgCheck: 1000})
	require.NoError(t, err)
	_, err = env.funnel.Upsert(pooled.ID, "03", "2025", FunnelInput{Sales: 10, AvgCheck: 1000})
	require.NoError(t, err)

	dash, err := env.dashboard.Build(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, dash.Leaderboard, 2)
	assert.Nil(t, dash.Leaderboard[0].ManagerID)
	assert.Equal(t, "— без менеджера —", dash.Leaderboard[0].ManagerName)
	assert.Equal(t, float64(10000), dash.Leaderboard[0].NewRevenue)
	assert.Equal(t, "Мария", dash.Leaderboard[1].ManagerName)

	assert.Equal(t, 12, dash.Sales)
	assert.Equal(t, float64(12000), dash.NewRevenue)
}

func TestDashboardService_PeriodFilterAndLifetimeTotals(t *testing.T) {
	env := setupDashboardServiceTest(t)

	business := createTestBusiness(t, env.business, "Кофейня")
	_, err := env.financial.Upsert(business.ID, "01", "2025", FinancialInput{Revenue: 100})
	require.NoError(t, err)
	_, err = env.financial.Upsert(business.ID, "02", "2025", FinancialInput{Revenue: 300})
	require.NoError(t, err)

	// no filter sums every month the business reported
	all, err := env.dashboard.Build(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, float64(400), all.Revenue)

	january, err := env.dashboard.Build(context.Background(), "01", "2025")
	require.NoError(t, err)
	assert.Equal(t, float64(100), january.Revenue)

	_, err = env.dashboard.Build(context.Background(), "1", "2025")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDashboardService_Empty(t *testing.T) {
	env := setupDashboardServiceTest(t)

	dash, err := env.dashboard.Build(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, float64(0), dash.Revenue)
	assert.Equal(t, 0, dash.Margin)
	assert.Empty(t, dash.Leaderboard)
}
