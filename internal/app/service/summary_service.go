package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/model"
	"github.com/yusupov7274-oss/mvp-crm-ru/internal/app/repository"
	"github.com/yusupov7274-oss/mvp-crm-ru/pkg/export"
)

var ErrUnknownMetric = errors.New("unknown summary metric")

// noData marks a period the business has no record for, as opposed to a
// recorded zero
const noData = "—"

type metricFormat int

const (
	fmtMoney metricFormat = iota
	fmtPercent
	fmtInt
)

// Metric is one row of the summary grid
type Metric struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	format metricFormat
}

// SummaryMetrics lists every grid row in display order, Russian titles as
// shown to the user
var SummaryMetrics = []Metric{
	{Key: "revenue", Title: "Выручка", format: fmtMoney},
	{Key: "rent", Title: "Аренда", format: fmtMoney},
	{Key: "payroll", Title: "ФОТ", format: fmtMoney},
	{Key: "internet", Title: "Интернет", format: fmtMoney},
	{Key: "telephony", Title: "Телефония", format: fmtMoney},
	{Key: "admin", Title: "Адм.расходы", format: fmtMoney},
	{Key: "royalty", Title: "Роялти", format: fmtMoney},
	{Key: "taxes", Title: "Налоги", format: fmtMoney},
	{Key: "refunds", Title: "Возвраты", format: fmtMoney},
	{Key: "accounting", Title: "Бухгалтерия", format: fmtMoney},
	{Key: "marketing", Title: "Маркетинг", format: fmtMoney},
	{Key: "net", Title: "Чистая прибыль", format: fmtMoney},
	{Key: "margin", Title: "Рентабельность", format: fmtPercent},
	{Key: "leads", Title: "Лиды", format: fmtInt},
	{Key: "meetings", Title: "Встречи", format: fmtInt},
	{Key: "sales", Title: "Продажи", format: fmtInt},
	{Key: "conv_meetings_from_leads", Title: "Конв. встречи из лидов", format: fmtPercent},
	{Key: "conv_sales_from_leads", Title: "Конв. продажи из лидов", format: fmtPercent},
	{Key: "conv_sales_from_meetings", Title: "Конв. продажи из встреч", format: fmtPercent},
	{Key: "avg_check", Title: "Средний чек", format: fmtMoney},
	{Key: "new_revenue", Title: "Выручка новых продаж", format: fmtMoney},
	{Key: "other_revenue", Title: "Остальная выручка", format: fmtMoney},
	{Key: "obligations", Title: "Исполненные обязательства", format: fmtInt},
}

const summaryHeaderLabel = "Показатель"

type SummaryService interface {
	// BuildGrid renders the metric×period grid for one business. An empty
	// keys filter means every metric.
	BuildGrid(businessID uint, keys []string) ([][]string, error)
	ExportCSV(businessID uint, keys []string) (string, error)
	ExportXLSX(businessID uint, keys []string) ([]byte, error)
	Metrics() []Metric
}

type summaryService struct {
	financialRepo repository.FinancialRepository
	funnelRepo    repository.FunnelRepository
	businessRepo  repository.BusinessRepository
}

func NewSummaryService(
	financialRepo repository.FinancialRepository,
	funnelRepo repository.FunnelRepository,
	businessRepo repository.BusinessRepository,
) SummaryService {
	return &summaryService{
		financialRepo: financialRepo,
		funnelRepo:    funnelRepo,
		businessRepo:  businessRepo,
	}
}

func (s *summaryService) Metrics() []Metric {
	out := make([]Metric, len(SummaryMetrics))
	copy(out, SummaryMetrics)
	return out
}

func (s *summaryService) BuildGrid(businessID uint, keys []string) ([][]string, error) {
	metrics, err := selectMetrics(keys)
	if err != nil {
		return nil, err
	}

	if _, err := s.businessRepo.FindByID(businessID); err != nil {
		return nil, ErrBusinessNotFound
	}

	financials, err := s.financialRepo.FindByBusiness(businessID)
	if err != nil {
		return nil, err
	}
	funnels, err := s.funnelRepo.FindByBusiness(businessID)
	if err != nil {
		return nil, err
	}

	periods := collectPeriods(financials, funnels)

	finByPeriod := make(map[string]*model.FinancialRecord, len(financials))
	for i := range financials {
		finByPeriod[financials[i].PeriodKey()] = &financials[i]
	}
	funByPeriod := make(map[string]*model.FunnelRecord, len(funnels))
	for i := range funnels {
		funByPeriod[funnels[i].PeriodKey()] = &funnels[i]
	}

	header := append([]string{summaryHeaderLabel}, periods...)
	grid := [][]string{header}
	for _, m := range metrics {
		row := make([]string, 0, len(periods)+1)
		row = append(row, m.Title)
		for _, p := range periods {
			row = append(row, cell(m.Key, finByPeriod[p], funByPeriod[p]))
		}
		grid = append(grid, row)
	}
	return grid, nil
}

func (s *summaryService) ExportCSV(businessID uint, keys []string) (string, error) {
	grid, err := s.BuildGrid(businessID, keys)
	if err != nil {
		return "", err
	}
	return export.CSV(grid)
}

func (s *summaryService) ExportXLSX(businessID uint, keys []string) ([]byte, error) {
	grid, err := s.BuildGrid(businessID, keys)
	if err != nil {
		return nil, err
	}
	return export.XLSX("Сводная таблица", grid)
}

func selectMetrics(keys []string) ([]Metric, error) {
	if len(keys) == 0 {
		return SummaryMetrics, nil
	}
	byKey := make(map[string]Metric, len(SummaryMetrics))
	for _, m := range SummaryMetrics {
		byKey[m.Key] = m
	}
	out := make([]Metric, 0, len(keys))
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, ok := byKey[k]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, k)
		}
		wanted[k] = true
	}
	// keep display order regardless of filter order
	for _, m := range SummaryMetrics {
		if wanted[m.Key] {
			out = append(out, m)
		}
	}
	return out, nil
}

// collectPeriods unions "MM.YYYY" keys from both record sets, sorted by year
// then month
func collectPeriods(financials []model.FinancialRecord, funnels []model.FunnelRecord) []string {
	seen := make(map[string]bool)
	periods := []string{}
	add := func(month, year string) {
		key := month + "." + year
		if !seen[key] {
			seen[key] = true
			periods = append(periods, key)
		}
	}
	for _, r := range financials {
		add(r.Month, r.Year)
	}
	for _, r := range funnels {
		add(r.Month, r.Year)
	}
	sort.Slice(periods, func(i, j int) bool {
		// "MM.YYYY": compare YYYY+MM
		a, b := periods[i], periods[j]
		return a[3:]+a[:2] < b[3:]+b[:2]
	})
	return periods
}

// cell renders one metric for one period the way the grid shows it. Money
// rows fall back to a recorded zero when the financial record is missing
// (matching the card view); funnel rows and margin show the no-data marker
// instead.
func cell(key string, f *model.FinancialRecord, u *model.FunnelRecord) string {
	var revenue float64
	if f != nil {
		revenue = f.Revenue
	}
	var computed model.FunnelComputed
	if u != nil {
		computed = u.Computed()
	}
	otherRevenue := math.Max(0, revenue-computed.NewRevenue)

	money := func(v float64) string { return export.FormatMoney(v) }
	percent := func(v int) string { return strconv.Itoa(v) + "%" }

	switch key {
	case "revenue":
		return money(revenue)
	case "rent", "payroll", "internet", "telephony", "admin", "royalty",
		"taxes", "refunds", "accounting", "marketing":
		var e model.Expenses
		if f != nil {
			e = f.Expenses
		}
		return money(expenseByKey(e, key))
	case "net":
		if f == nil {
			return money(0)
		}
		return money(f.Net)
	case "margin":
		if f == nil {
			return noData
		}
		return percent(f.Margin)
	case "leads":
		if u == nil {
			return noData
		}
		return strconv.Itoa(u.Leads)
	case "meetings":
		if u == nil {
			return noData
		}
		return strconv.Itoa(u.Meetings)
	case "sales":
		if u == nil {
			return noData
		}
		return strconv.Itoa(u.Sales)
	case "conv_meetings_from_leads":
		if u == nil {
			return noData
		}
		return percent(computed.ConvMeetingsFromLeads)
	case "conv_sales_from_leads":
		if u == nil {
			return noData
		}
		return percent(computed.ConvSalesFromLeads)
	case "conv_sales_from_meetings":
		if u == nil {
			return noData
		}
		return percent(computed.ConvSalesFromMeetings)
	case "avg_check":
		if u == nil {
			return noData
		}
		return money(u.AvgCheck)
	case "new_revenue":
		if u == nil {
			return noData
		}
		return money(computed.NewRevenue)
	case "other_revenue":
		if u == nil && f == nil {
			return noData
		}
		return money(otherRevenue)
	case "obligations":
		if u == nil {
			return noData
		}
		return strconv.Itoa(u.Obligations)
	}
	return noData
}

func expenseByKey(e model.Expenses, key string) float64 {
	switch key {
	case "rent":
		return e.Rent
	case "payroll":
		return e.Payroll
	case "internet":
		return e.Internet
	case "telephony":
		return e.Telephony
	case "admin":
		return e.Admin
	case "royalty":
		return e.Royalty
	case "taxes":
		return e.Taxes
	case "refunds":
		return e.Refunds
	case "accounting":
		return e.Accounting
	case "marketing":
		return e.Marketing
	}
	return 0
}
