package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialRecord_Recalculate(t *testing.T) {
	tests := []struct {
		name        string
		record      FinancialRecord
		wantRoyalty float64
		wantNet     float64
		wantMargin  int
	}{
		{
			name: "Royalty base subtracts refunds when flag set",
			// the flag name is inverted historically: true means refunds
			// ARE subtracted from the base
			record: FinancialRecord{
				Revenue:               1000,
				RoyaltyPercent:        10,
				RoyaltyIncludeRefunds: true,
				Expenses:              Expenses{Refunds: 200},
			},
			wantRoyalty: 80, // round((1000-200) * 0.10)
			wantNet:     720,
			wantMargin:  72,
		},
		{
			name: "Royalty base is full revenue when flag unset",
			record: FinancialRecord{
				Revenue:               1000,
				RoyaltyPercent:        10,
				RoyaltyIncludeRefunds: false,
				Expenses:              Expenses{Refunds: 200},
			},
			wantRoyalty: 100,
			wantNet:     700,
			wantMargin:  70,
		},
		{
			name: "Refunds above revenue floor the base at zero",
			record: FinancialRecord{
				Revenue:               100,
				RoyaltyPercent:        50,
				RoyaltyIncludeRefunds: true,
				Expenses:              Expenses{Refunds: 500},
			},
			wantRoyalty: 0,
			wantNet:     -400,
			wantMargin:  -400,
		},
		{
			name: "Previously stored royalty is overwritten, never trusted",
			record: FinancialRecord{
				Revenue:        1000,
				RoyaltyPercent: 5,
				Expenses:       Expenses{Royalty: 999999},
			},
			wantRoyalty: 50,
			wantNet:     950,
			wantMargin:  95,
		},
		{
			name: "All expense categories enter the total",
			record: FinancialRecord{
				Revenue:        10000,
				RoyaltyPercent: 10,
				Expenses: Expenses{
					Rent:       1000,
					Payroll:    2000,
					Internet:   100,
					Telephony:  100,
					Admin:      300,
					Taxes:      500,
					Refunds:    0,
					Accounting: 200,
					Marketing:  800,
				},
			},
			wantRoyalty: 1000,
			wantNet:     4000, // 10000 - (5000 + 1000 royalty)
			wantMargin:  40,
		},
		{
			name: "Zero revenue yields zero margin even with expenses",
			record: FinancialRecord{
				Revenue:  0,
				Expenses: Expenses{Rent: 500, Payroll: 300},
			},
			wantRoyalty: 0,
			wantNet:     -800,
			wantMargin:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.record
			got.Recalculate()

			assert.Equal(t, tt.wantRoyalty, got.Expenses.Royalty)
			assert.Equal(t, tt.wantNet, got.Net)
			assert.Equal(t, tt.wantMargin, got.Margin)
		})
	}
}

func TestFinancialRecord_Recalculate_Idempotent(t *testing.T) {
	record := FinancialRecord{
		Revenue:               123456,
		RoyaltyPercent:        7,
		RoyaltyIncludeRefunds: true,
		Expenses: Expenses{
			Rent:    10000,
			Payroll: 45000,
			Refunds: 3000,
		},
	}

	record.Recalculate()
	first := record

	record.Recalculate()
	assert.Equal(t, first, record, "second recalculation must not change anything")
}

func TestFinancialRecord_Recalculate_SafeZero(t *testing.T) {
	record := FinancialRecord{
		Revenue:        math.NaN(),
		RoyaltyPercent: math.Inf(1),
		Expenses:       Expenses{Rent: math.NaN()},
	}
	record.Recalculate()

	assert.False(t, math.IsNaN(record.Net))
	assert.False(t, math.IsNaN(record.Expenses.Royalty))
	assert.Equal(t, 0, record.Margin)
}

func TestNewFinancialRecord(t *testing.T) {
	record := NewFinancialRecord(42)

	assert.Equal(t, uint(42), record.BusinessID)
	assert.True(t, record.RoyaltyIncludeRefunds, "refund-aware royalty base is the default")
	assert.Zero(t, record.Revenue)
	assert.Zero(t, record.Expenses.Total())

	month, year := CurrentPeriod()
	assert.Equal(t, month, record.Month)
	assert.Equal(t, year, record.Year)
	assert.Len(t, record.Month, 2, "month must be zero-padded")
	assert.Len(t, record.Year, 4)
}

func TestValidPeriod(t *testing.T) {
	tests := []struct {
		month string
		year  string
		want  bool
	}{
		{"01", "2025", true},
		{"12", "2025", true},
		{"00", "2025", false},
		{"13", "2025", false},
		{"1", "2025", false}, // not zero-padded
		{"01", "25", false},
		{"ab", "2025", false},
	}

	for _, tt := range tests {
		t.Run(tt.month+"."+tt.year, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPeriod(tt.month, tt.year))
		})
	}
}

func TestFinancialRecord_PeriodKey(t *testing.T) {
	r := FinancialRecord{Month: "03", Year: "2025"}
	require.Equal(t, "03.2025", r.PeriodKey())
}
