package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "Plain cells",
			rows: [][]string{
				{"Показатель", "01.2025", "02.2025"},
				{"Выручка", "100", "200"},
			},
			want: "Показатель;01.2025;02.2025\nВыручка;100;200",
		},
		{
			name: "Cell containing separator is quoted",
			rows: [][]string{{"a;b", "c"}},
			want: "\"a;b\";c",
		},
		{
			name: "Inner quotes are doubled",
			rows: [][]string{{`he said "hi"`, "x"}},
			want: "\"he said \"\"hi\"\"\";x",
		},
		{
			name: "Newline forces quoting",
			rows: [][]string{{"line1\nline2", "x"}},
			want: "\"line1\nline2\";x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CSV(tt.rows)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVRoundTrip(t *testing.T) {
	// Hostile cell values must survive export and re-parse unchanged
	rows := [][]string{
		{"Показатель", "01.2025"},
		{"metric;with;separators", `value "quoted"`},
		{"multi\nline\nlabel", "12 345"},
		{"", "0"},
	}

	content, err := CSV(rows)
	require.NoError(t, err)

	parsed, err := ParseCSV(content)
	require.NoError(t, err)
	assert.Equal(t, rows, parsed)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"Zero", 0, "0"},
		{"Small", 950, "950"},
		{"Thousands grouped", 12345, "12 345"},
		{"Millions grouped", 1234567, "1 234 567"},
		{"Negative", -50000, "-50 000"},
		{"Rounded fraction", 1999.6, "2 000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(tt.value))
		})
	}
}
