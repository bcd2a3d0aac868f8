package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumber = regexp.MustCompile(`-?\d[\d,.' ]*\d|-?\d`)
	reEmail  = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	rePhone  = regexp.MustCompile(`[+(]?\d[\d \t().\-]{5,}\d`)
)

// sanitizeValue normalizes a raw match for its field type. The second return is
// false when the raw text cannot hold a value of that type and should be dropped.
func sanitizeValue(typ, raw string) (string, bool) {
	v := trimDecoration(raw)
	if v == "" {
		return "", false
	}

	switch typ {
	case TypeNumber:
		n, ok := parseAmount(v)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case TypeCurrency:
		n, ok := parseAmount(v)
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%.2f", n), true
	case TypeEmail:
		m := reEmail.FindString(v)
		return strings.ToLower(m), m != ""
	case TypePhone:
		m := rePhone.FindString(v)
		return strings.TrimSpace(m), m != ""
	case TypeAddress:
		return strings.Join(strings.Fields(v), " "), true
	default:
		return v, true
	}
}

// trimDecoration strips whitespace and the markdown emphasis VLMs wrap values in.
func trimDecoration(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`")
	return strings.TrimSpace(s)
}

// parseAmount reads the first number in s, accepting thousands separators in
// either the 1,234.56 or the 1.234,56 convention.
func parseAmount(s string) (float64, bool) {
	m := reNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	m = strings.NewReplacer(" ", "", "'", "").Replace(m)

	lastDot := strings.LastIndex(m, ".")
	lastComma := strings.LastIndex(m, ",")
	switch {
	case lastComma > lastDot && len(m)-lastComma-1 != 3:
		// 1.234,56 or 12,5
		m = strings.ReplaceAll(m, ".", "")
		m = strings.Replace(m, ",", ".", 1)
	case lastComma > lastDot:
		// 1,234 or 1.234,567: a trailing group of three is a thousands group
		m = strings.ReplaceAll(m, ",", "")
		if strings.Count(m, ".") > 1 {
			m = strings.ReplaceAll(m, ".", "")
		}
	default:
		m = strings.ReplaceAll(m, ",", "")
		if strings.Count(m, ".") > 1 {
			i := strings.LastIndex(m, ".")
			m = strings.ReplaceAll(m[:i], ".", "") + m[i:]
		}
	}

	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
