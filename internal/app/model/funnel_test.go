package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunnelRecord_Computed(t *testing.T) {
	tests := []struct {
		name   string
		record FunnelRecord
		want   FunnelComputed
	}{
		{
			name:   "Worked example",
			record: FunnelRecord{Leads: 200, Meetings: 50, Sales: 10, AvgCheck: 5000},
			want: FunnelComputed{
				ConvMeetingsFromLeads: 25,
				ConvSalesFromLeads:    5,
				ConvSalesFromMeetings: 20,
				NewRevenue:            50000,
			},
		},
		{
			name:   "Zero denominators never divide",
			record: FunnelRecord{Leads: 0, Meetings: 0, Sales: 0, AvgCheck: 100},
			want:   FunnelComputed{},
		},
		{
			name:   "Meetings without leads",
			record: FunnelRecord{Leads: 0, Meetings: 10, Sales: 5, AvgCheck: 1000},
			want: FunnelComputed{
				ConvMeetingsFromLeads: 0,
				ConvSalesFromLeads:    0,
				ConvSalesFromMeetings: 50,
				NewRevenue:            5000,
			},
		},
		{
			name:   "Rates are rounded to whole percents",
			record: FunnelRecord{Leads: 3, Meetings: 1, Sales: 1, AvgCheck: 999.5},
			want: FunnelComputed{
				ConvMeetingsFromLeads: 33,
				ConvSalesFromLeads:    33,
				ConvSalesFromMeetings: 100,
				NewRevenue:            1000, // round(1 × 999.5)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Computed())
		})
	}
}

func TestFunnelRecord_Computed_DoesNotMutate(t *testing.T) {
	record := FunnelRecord{Leads: 10, Meetings: 4, Sales: 2, AvgCheck: 100, Obligations: 3}
	before := record
	_ = record.Computed()
	assert.Equal(t, before, record)
}

func TestNewFunnelRecord(t *testing.T) {
	record := NewFunnelRecord(7)

	assert.Equal(t, uint(7), record.BusinessID)
	assert.Zero(t, record.Leads)
	assert.Zero(t, record.Obligations)

	month, year := CurrentPeriod()
	assert.Equal(t, month, record.Month)
	assert.Equal(t, year, record.Year)
}
