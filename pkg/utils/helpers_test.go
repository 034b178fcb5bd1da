package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 55*time.Minute, ParseDuration("55m", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("", time.Hour))
	assert.Equal(t, time.Hour, ParseDuration("bogus", time.Hour))
}

func TestNumeric(t *testing.T) {
	assert.Equal(t, float64(0), Numeric(nil))
	assert.Equal(t, float64(42), Numeric(42))
	assert.Equal(t, float64(42), Numeric(int64(42)))
	assert.Equal(t, 42.5, Numeric(42.5))
	assert.Equal(t, float64(0), Numeric("42"))
	assert.Equal(t, float64(0), Numeric(map[string]interface{}{}))
}

func TestNumberWithCommas(t *testing.T) {
	assert.Equal(t, "0.00", NumberWithCommas(0))
	assert.Equal(t, "999.00", NumberWithCommas(999))
	assert.Equal(t, "1,000.00", NumberWithCommas(1000))
	assert.Equal(t, "1,234,567.50", NumberWithCommas(1234567.5))
	assert.Equal(t, "-12,345.68", NumberWithCommas(-12345.678))
}

func TestCheckValueInArray(t *testing.T) {
	arr := []string{"a", "b", "c"}
	assert.True(t, CheckValueInArray(arr, "b"))
	assert.False(t, CheckValueInArray(arr, "d"))
	assert.False(t, CheckValueInArray(nil, "a"))
}

func TestFormatAccessToken(t *testing.T) {
	assert.Equal(t, "Zoho-oauthtoken abc123", FormatAccessToken("abc123"))
}
