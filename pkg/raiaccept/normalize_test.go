package raiaccept

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPhoneNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"+1 (234) 567-8900", "+12345678900"},
		{"(234) 567-8900", "2345678900"},
		{"234-567-8900", "2345678900"},
		{"+1234567890", "+1234567890"},
		{"++123++456", "+123456"},
		{"12+34", "1234"},
		{"+44 20 7946 0958", "+442079460958"},
		{"+91-9876543210", "+919876543210"},
		{"+12345678901234567890", "+12345678901234"},
		{"", ""},
		{"no digits", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPhoneNumber(tt.input), "input %q", tt.input)
	}

	long := CleanPhoneNumber(strings.Repeat("9", 25))
	assert.Len(t, long, 15)
}

func TestCleanPhoneNumberPtr(t *testing.T) {
	assert.Nil(t, CleanPhoneNumberPtr(nil))

	in := "+385 1 234 5678"
	out := CleanPhoneNumberPtr(&in)
	require.NotNil(t, out)
	assert.Equal(t, "+38512345678", *out)
}

func TestGetCountryISO3(t *testing.T) {
	assert.Equal(t, "USA", GetCountryISO3("US"))
	assert.Equal(t, "HRV", GetCountryISO3("HR"))
	assert.Equal(t, "DEU", GetCountryISO3("DE"))
	assert.Equal(t, "ZZ", GetCountryISO3("ZZ"))
	assert.Equal(t, "us", GetCountryISO3("us"))
	assert.Equal(t, "", GetCountryISO3(""))
}

func TestStatusSets(t *testing.T) {
	assert.Equal(t, []string{StatusPaid, StatusSuccess}, PaidStatuses())
	assert.Equal(t, []string{StatusFailed}, FailedStatuses())
	assert.Equal(t, []string{StatusCanceled, StatusAbandoned}, CancelledStatuses())
	assert.Equal(t, []string{StatusFailed, StatusCanceled, StatusAbandoned}, RejectedStatuses())

	paid := PaidStatuses()
	paid[0] = "MUTATED"
	assert.Equal(t, StatusPaid, PaidStatuses()[0])

	assert.True(t, IsPaid(StatusSuccess))
	assert.False(t, IsPaid(StatusPending))
	assert.True(t, IsFailed(StatusFailed))
	assert.True(t, IsCancelled(StatusAbandoned))
	assert.True(t, IsRejected(StatusCanceled))
	assert.False(t, IsRejected(StatusPaid))
}

func TestAcceptedLanguages(t *testing.T) {
	langs := AcceptedLanguages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "hr")
	langs[0] = "xx"
	assert.Equal(t, "en", AcceptedLanguages()[0])
}
