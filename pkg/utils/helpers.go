package utils

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ParseDuration safely parses duration strings like "55m"
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return duration
}

// Numeric safely converts supported types to float64. Absent or
// non-numeric values come back as 0, never an error.
func Numeric(v interface{}) float64 {
	switch val := v.(type) {
	case nil:
		return 0
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float64:
		return val
	case float32:
		return float64(val)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Float64 {
			return rv.Convert(reflect.TypeOf(float64(0))).Float()
		}
		return 0
	}
}

// NumberWithCommas formats an amount to two decimals with thousands
// separators, e.g. 1234567.5 -> "1,234,567.50".
func NumberWithCommas(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// CheckValueInArray reports whether str is one of arr.
func CheckValueInArray(arr []string, str string) bool {
	for _, item := range arr {
		if item == str {
			return true
		}
	}
	return false
}

// FormatAccessToken builds the CRM authorization header value.
func FormatAccessToken(token string) string {
	return "Zoho-oauthtoken " + token
}
