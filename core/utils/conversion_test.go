package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "123", ToString(float64(123)))
	assert.Equal(t, "1000000", ToString(float64(1e6)))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "42", ToString(42))
	assert.Equal(t, "true", ToString(true))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 0, ToInt(nil))
	assert.Equal(t, 7, ToInt(" 7 "))
	assert.Equal(t, 12, ToInt(float64(12)))
	assert.Equal(t, 0, ToInt("abc"))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(float64(1)))
	assert.False(t, ToBool("no"))
	assert.False(t, ToBool(nil))
}

func TestToTime(t *testing.T) {
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"RFC3339", "2026-03-01T12:00:00Z", true},
		{"RFC3339 offset", "2026-03-01T14:00:00+02:00", true},
		{"SQL", "2026-03-01 12:00:00", true},
		{"Unix seconds", float64(want.Unix()), true},
		{"Unix millis", float64(want.UnixMilli()), true},
		{"Unix string", "1772366400", true},
		{"Empty", "", false},
		{"Garbage", "yesterday", false},
		{"Nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %s", got)
			}
		})
	}
}
