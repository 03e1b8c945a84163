package dto

import (
	"testing"

	"custodial-wallet-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := UpdateProfileRequest{
		FirstName: "  Alice  ",
		LastName:  " Nguyen ",
		Phone:     " +1555000  ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "Alice", req.FirstName)
	assert.Equal(t, "Nguyen", req.LastName)
	assert.Equal(t, "+1555000", req.Phone)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := EbookRequest{
		Title:   "notes <script>alert('x')</script> q3",
		Content: "plain text",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Title, "&lt;script&gt;")
	assert.NotContains(t, req.Title, "<script>")
	assert.Equal(t, "plain text", req.Content)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSymbolPattern_Valid(t *testing.T) {
	cases := []string{
		"BTC",
		"btc",
		"USDT_TRC20",
		"usdt_bep20",
		"BNB",
	}
	for _, tc := range cases {
		assert.True(t, symbolRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSymbolPattern_Invalid(t *testing.T) {
	cases := []string{
		"B",          // too short
		"BTC USD",    // space
		"BTC;DROP",   // semicolon
		"",           // empty
		"BTC<x>",     // angle brackets
		"BTC\nUSD",   // newline
	}
	for _, tc := range cases {
		assert.False(t, symbolRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

// --- ParseAmount tests ---

func TestParseAmount_Valid(t *testing.T) {
	d, err := ParseAmount(" 100.25 ")
	require.NoError(t, err)
	assert.Equal(t, "100.25", d.String())
}

func TestParseAmount_Invalid(t *testing.T) {
	cases := []string{"", "abc", "1.2.3", "1e", "--5"}
	for _, tc := range cases {
		_, err := ParseAmount(tc)
		require.Error(t, err, "input %q", tc)
		appErr, ok := err.(*apperror.AppError)
		require.True(t, ok)
		assert.Equal(t, "SWP_002", appErr.Code)
	}
}
