package model

import (
	"math"
	"time"
)

// FunnelRecord is one business's sales funnel counts for one period.
// Only raw counts are stored; conversions are computed on read.
type FunnelRecord struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	BusinessID uint     `gorm:"not null;uniqueIndex:idx_fun_business_period" json:"business_id"`
	Business   Business `gorm:"foreignKey:BusinessID" json:"-"`
	Month      string   `gorm:"type:varchar(2);not null;uniqueIndex:idx_fun_business_period" json:"month"`
	Year       string   `gorm:"type:varchar(4);not null;uniqueIndex:idx_fun_business_period" json:"year"`

	Leads       int     `json:"leads"`       // лиды
	Meetings    int     `json:"meetings"`    // встречи
	Sales       int     `json:"sales"`       // продажи
	AvgCheck    float64 `json:"avg_check"`   // средний чек новых продаж
	Obligations int     `json:"obligations"` // исполненные обязательства

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FunnelRecord) TableName() string {
	return "funnel_records"
}

// PeriodKey renders the period as "MM.YYYY"
func (r *FunnelRecord) PeriodKey() string {
	return r.Month + "." + r.Year
}

// FunnelComputed are the derived funnel metrics for one record
type FunnelComputed struct {
	ConvMeetingsFromLeads int     `json:"conv_meetings_from_leads"` // %
	ConvSalesFromLeads    int     `json:"conv_sales_from_leads"`    // %
	ConvSalesFromMeetings int     `json:"conv_sales_from_meetings"` // %
	NewRevenue            float64 `json:"new_revenue"`              // sales × avg check
}

// Computed derives the conversion rates and new-business revenue. Rates with
// a zero denominator are 0. Read-only projection, the record is not touched.
func (r *FunnelRecord) Computed() FunnelComputed {
	var c FunnelComputed
	if r.Leads > 0 {
		c.ConvMeetingsFromLeads = int(math.Round(float64(r.Meetings) / float64(r.Leads) * 100))
		c.ConvSalesFromLeads = int(math.Round(float64(r.Sales) / float64(r.Leads) * 100))
	}
	if r.Meetings > 0 {
		c.ConvSalesFromMeetings = int(math.Round(float64(r.Sales) / float64(r.Meetings) * 100))
	}
	c.NewRevenue = math.Round(float64(r.Sales) * safeZero(r.AvgCheck))
	return c
}

// NewFunnelRecord returns a blank record for the current calendar month
func NewFunnelRecord(businessID uint) *FunnelRecord {
	month, year := CurrentPeriod()
	return &FunnelRecord{
		BusinessID: businessID,
		Month:      month,
		Year:       year,
	}
}
