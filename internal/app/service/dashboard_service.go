package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/logger"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/redis"
)

const (
	dashboardCachePrefix = "dashboard:"
	dashboardCacheTTL    = time.Minute

	leaderboardLimit = 20

	// leaderboard bucket for businesses nobody is responsible for
	unassignedManagerName = "— без менеджера —"
)

// Dashboard is the aggregate view over every visible period record.
// With no period filter the sums run across all months: a business reporting
// three months contributes three times, the result reads as lifetime totals.
type Dashboard struct {
	Revenue       float64 `json:"revenue"`
	ExpensesTotal float64 `json:"expenses_total"` // royalty included
	Net           float64 `json:"net"`
	Margin        int     `json:"margin"` // recomputed from the sums, not averaged
	Royalty       float64 `json:"royalty"`

	Leads      int     `json:"leads"`
	Meetings   int     `json:"meetings"`
	Sales      int     `json:"sales"`
	NewRevenue float64 `json:"new_revenue"`

	Leaderboard []LeaderboardRow `json:"leaderboard"`
}

type LeaderboardRow struct {
	ManagerID   *uint   `json:"manager_id"`
	ManagerName string  `json:"manager_name"`
	Businesses  int     `json:"businesses"`
	NewRevenue  float64 `json:"new_revenue"`
	Net         float64 `json:"net"`
}

type DashboardService interface {
	// Build aggregates all period records, optionally filtered to one
	// exact (month, year). Empty strings mean all periods.
	Build(ctx context.Context, month, year string) (*Dashboard, error)
}

type dashboardService struct {
	financialRepo repository.FinancialRepository
	funnelRepo    repository.FunnelRepository
	businessRepo  repository.BusinessRepository
	accountRepo   repository.AccountRepository
}

func NewDashboardService(
	financialRepo repository.FinancialRepository,
	funnelRepo repository.FunnelRepository,
	businessRepo repository.BusinessRepository,
	accountRepo repository.AccountRepository,
) DashboardService {
	return &dashboardService{
		financialRepo: financialRepo,
		funnelRepo:    funnelRepo,
		businessRepo:  businessRepo,
		accountRepo:   accountRepo,
	}
}

func (s *dashboardService) Build(ctx context.Context, month, year string) (*Dashboard, error) {
	filtered := month != "" && year != ""
	if filtered && !model.ValidPeriod(month, year) {
		return nil, ErrInvalidPeriod
	}

	cacheKey := dashboardCachePrefix + "all"
	if filtered {
		cacheKey = dashboardCachePrefix + month + "." + year
	}

	var cached Dashboard
	if hit, err := redis.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
		logger.Debug("Dashboard served from cache", map[string]interface{}{
			"key": cacheKey,
		})
		return &cached, nil
	}

	financials, err := s.financialRepo.FindAll()
	if err != nil {
		return nil, err
	}
	funnels, err := s.funnelRepo.FindAll()
	if err != nil {
		return nil, err
	}
	// the single authoritative index of businesses
	businesses, err := s.businessRepo.FindAll()
	if err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.FindAll()
	if err != nil {
		return nil, err
	}

	if filtered {
		financials = filterFinancials(financials, month, year)
		funnels = filterFunnels(funnels, month, year)
	}

	dash := aggregate(financials, funnels, businesses, accounts)

	if err := redis.SetJSON(ctx, cacheKey, dash, dashboardCacheTTL); err != nil {
		logger.Warn("Failed to cache dashboard", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	return dash, nil
}

func filterFinancials(records []model.FinancialRecord, month, year string) []model.FinancialRecord {
	out := records[:0]
	for _, r := range records {
		if r.Month == month && r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func filterFunnels(records []model.FunnelRecord, month, year string) []model.FunnelRecord {
	out := records[:0]
	for _, r := range records {
		if r.Month == month && r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

func aggregate(
	financials []model.FinancialRecord,
	funnels []model.FunnelRecord,
	businesses []model.Business,
	accounts []model.Account,
) *Dashboard {
	dash := &Dashboard{Leaderboard: []LeaderboardRow{}}

	for _, f := range financials {
		dash.Revenue += f.Revenue
		dash.Royalty += f.Expenses.Royalty
		dash.ExpensesTotal += f.Expenses.Total()
		dash.Net += f.Net
	}
	if dash.Revenue > 0 {
		dash.Margin = int(math.Round(dash.Net / dash.Revenue * 100))
	}

	for _, u := range funnels {
		dash.Leads += u.Leads
		dash.Meetings += u.Meetings
		dash.Sales += u.Sales
		// per record, not sales-sum times check-sum
		dash.NewRevenue += math.Round(float64(u.Sales) * u.AvgCheck)
	}

	businessByID := make(map[uint]model.Business, len(businesses))
	for _, b := range businesses {
		businessByID[b.ID] = b
	}
	accountByID := make(map[uint]model.Account, len(accounts))
	for _, a := range accounts {
		accountByID[a.ID] = a
	}

	// businesses touched by the filtered records, in id order so bucket
	// accumulation is deterministic
	touched := make(map[uint]bool)
	for _, f := range financials {
		touched[f.BusinessID] = true
	}
	for _, u := range funnels {
		touched[u.BusinessID] = true
	}
	touchedIDs := make([]uint, 0, len(touched))
	for id := range touched {
		touchedIDs = append(touchedIDs, id)
	}
	sort.Slice(touchedIDs, func(i, j int) bool { return touchedIDs[i] < touchedIDs[j] })

	type bucketKey struct {
		id       uint
		assigned bool
	}
	buckets := make(map[bucketKey]*LeaderboardRow)
	order := []bucketKey{}

	for _, bid := range touchedIDs {
		var managerID *uint
		// a business missing from the index counts as unassigned
		if b, ok := businessByID[bid]; ok && b.ResponsibleID != nil {
			managerID = b.ResponsibleID
		}

		key := bucketKey{}
		if managerID != nil {
			key = bucketKey{id: *managerID, assigned: true}
		}
		row, ok := buckets[key]
		if !ok {
			name := unassignedManagerName
			if managerID != nil {
				if a, found := accountByID[*managerID]; found {
					name = a.Name
				}
			}
			row = &LeaderboardRow{ManagerID: managerID, ManagerName: name}
			buckets[key] = row
			order = append(order, key)
		}
		row.Businesses++

		for _, f := range financials {
			if f.BusinessID == bid {
				row.Net += f.Net
			}
		}
		for _, u := range funnels {
			if u.BusinessID == bid {
				row.NewRevenue += math.Round(float64(u.Sales) * u.AvgCheck)
			}
		}
	}

	rows := make([]LeaderboardRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, *buckets[key])
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].NewRevenue > rows[j].NewRevenue })
	if len(rows) > leaderboardLimit {
		rows = rows[:leaderboardLimit]
	}
	dash.Leaderboard = rows

	return dash
}
