package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+14155552671", "919876543210", "+44 20 7946 0958", "(415) 555-2671"}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), "expected valid: %s", phone)
	}

	invalid := []string{"", "abc", "0123", "+1-abc-5552671"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), "expected invalid: %s", phone)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2026, 8, 4, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysBetween(start, end))
	assert.Equal(t, 0, DaysBetween(end, end))
}
