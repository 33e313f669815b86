package export

import (
	"math"
	"strconv"
)

// groupSep is the ru-RU thousands separator (non-breaking space)
const groupSep = " "

// FormatMoney renders a money value the way the summary views show it:
// rounded to whole units, digits grouped in threes, no currency sign.
func FormatMoney(v float64) string {
	n := int64(math.Round(v))

	neg := n < 0
	if neg {
		n = -n
	}

	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, groupSep...)
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}

	if neg {
		return "-" + s
	}
	return s
}
