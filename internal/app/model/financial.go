package model

import (
	"fmt"
	"math"
	"time"
)

// Expenses are the per-period expense categories. Royalty lives here next to
// the manually entered categories but is derived: Recalculate overwrites it
// on every write and the API never accepts it from the client.
type Expenses struct {
	Rent       float64 `json:"rent"`       // аренда
	Payroll    float64 `json:"payroll"`    // ФОТ
	Internet   float64 `json:"internet"`   // интернет
	Telephony  float64 `json:"telephony"`  // телефония
	Admin      float64 `json:"admin"`      // административные расходы
	Royalty    float64 `json:"royalty"`    // роялти, считается автоматически
	Taxes      float64 `json:"taxes"`      // налоги
	Refunds    float64 `json:"refunds"`    // возвраты
	Accounting float64 `json:"accounting"` // бухгалтерия
	Marketing  float64 `json:"marketing"`  // маркетинг
}

// Total sums every expense category, royalty included
func (e Expenses) Total() float64 {
	return safeZero(e.Rent) + safeZero(e.Payroll) + safeZero(e.Internet) +
		safeZero(e.Telephony) + safeZero(e.Admin) + safeZero(e.Royalty) +
		safeZero(e.Taxes) + safeZero(e.Refunds) + safeZero(e.Accounting) +
		safeZero(e.Marketing)
}

// FinancialRecord is one business's financials for one (month, year) period
type FinancialRecord struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	BusinessID uint     `gorm:"not null;uniqueIndex:idx_fin_business_period" json:"business_id"`
	Business   Business `gorm:"foreignKey:BusinessID" json:"-"`
	Month      string   `gorm:"type:varchar(2);not null;uniqueIndex:idx_fin_business_period" json:"month"` // "01".."12"
	Year       string   `gorm:"type:varchar(4);not null;uniqueIndex:idx_fin_business_period" json:"year"`  // "2025"

	Revenue float64 `json:"revenue"`

	// royalty settings
	RoyaltyPercent        float64 `json:"royalty_percent"`
	RoyaltyIncludeRefunds bool    `gorm:"default:true" json:"royalty_include_refunds"` // true → base = max(0, revenue - refunds)

	Expenses Expenses `gorm:"embedded;embeddedPrefix:expense_" json:"expenses"`

	// derived on every recalculation
	Net    float64 `json:"net"`    // чистая прибыль
	Margin int     `json:"margin"` // рентабельность, %

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FinancialRecord) TableName() string {
	return "financial_records"
}

// PeriodKey renders the period as "MM.YYYY"
func (r *FinancialRecord) PeriodKey() string {
	return r.Month + "." + r.Year
}

// Recalculate recomputes royalty, net and margin in place and returns the
// receiver. The royalty base subtracts refunds (floored at zero) when
// RoyaltyIncludeRefunds is set; the flag name is historically inverted
// relative to its effect, the behavior here is the contract. Idempotent,
// never fails: missing or non-finite numbers count as zero.
func (r *FinancialRecord) Recalculate() *FinancialRecord {
	revenue := safeZero(r.Revenue)
	refunds := safeZero(r.Expenses.Refunds)

	base := revenue
	if r.RoyaltyIncludeRefunds {
		base = math.Max(0, revenue-refunds)
	}
	r.Expenses.Royalty = math.Round(base * safeZero(r.RoyaltyPercent) / 100)

	total := r.Expenses.Total()
	r.Net = revenue - total

	if revenue > 0 {
		r.Margin = int(math.Round(r.Net / revenue * 100))
	} else {
		// zero revenue means zero margin regardless of net sign
		r.Margin = 0
	}
	return r
}

// NewFinancialRecord returns a blank record for the current calendar month,
// royalty base refund-aware by default
func NewFinancialRecord(businessID uint) *FinancialRecord {
	month, year := CurrentPeriod()
	return &FinancialRecord{
		BusinessID:            businessID,
		Month:                 month,
		Year:                  year,
		RoyaltyIncludeRefunds: true,
	}
}

// CurrentPeriod returns the current calendar (month, year) as zero-padded
// strings. Period keys are matched by exact string equality.
func CurrentPeriod() (month, year string) {
	now := time.Now()
	return fmt.Sprintf("%02d", int(now.Month())), fmt.Sprintf("%04d", now.Year())
}

// ValidPeriod checks a (month, year) pair against the key format
func ValidPeriod(month, year string) bool {
	if len(month) != 2 || len(year) != 4 {
		return false
	}
	m := 0
	if _, err := fmt.Sscanf(month, "%02d", &m); err != nil || m < 1 || m > 12 {
		return false
	}
	y := 0
	if _, err := fmt.Sscanf(year, "%04d", &y); err != nil || y < 1000 {
		return false
	}
	return true
}

// safeZero coerces NaN and infinities to zero. Numeric inputs are never a
// reason to fail a recalculation.
func safeZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
