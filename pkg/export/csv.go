package export

import (
	"encoding/csv"
	"strings"
)

// Separator is the CSV field separator. Semicolon keeps the files importable
// in spreadsheets configured for a decimal-comma locale.
const Separator = ';'

// CSV renders rows as semicolon-separated text. Cells containing the
// separator, a double quote or a newline are wrapped in double quotes with
// inner quotes doubled.
func CSV(rows [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.Comma = Separator

	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// ParseCSV reads semicolon-separated text back into rows (used by tests and
// import tooling to verify the quoting round-trips).
func ParseCSV(content string) ([][]string, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = Separator
	return r.ReadAll()
}
