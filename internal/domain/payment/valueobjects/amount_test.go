package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in    string
		cents int64
	}{
		{"25.50", 2550},
		{"25.5", 2550},
		{"25", 2500},
		{"0.05", 5},
		{".50", 50},
		{"0", 0},
		{"-3.20", -320},
		{"1000000.99", 100000099},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := ParseAmount(tt.in, "MYR")
			require.NoError(t, err)
			assert.Equal(t, tt.cents, a.Cents())
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "25.505", "1.2.3", "25,50"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in, "MYR")
			assert.Error(t, err)
		})
	}
}

func TestFormat_FixedTwoDecimals(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2550, "25.50"},
		{2500, "25.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-320, "-3.20"},
		{100000099, "1000000.99"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewAmount(tt.cents, "MYR").Format())
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	// Checksum stability: parse-then-format must reproduce the canonical
	// two-decimal form.
	a, err := ParseAmount("25.5", "MYR")
	require.NoError(t, err)
	assert.Equal(t, "25.50", a.Format())
}

func TestDiffersBeyondTolerance(t *testing.T) {
	base := NewAmount(2550, "MYR")

	assert.False(t, base.DiffersBeyondTolerance(NewAmount(2550, "MYR")))
	assert.False(t, base.DiffersBeyondTolerance(NewAmount(2551, "MYR")), "one cent is within tolerance")
	assert.False(t, base.DiffersBeyondTolerance(NewAmount(2549, "MYR")))
	assert.True(t, base.DiffersBeyondTolerance(NewAmount(2552, "MYR")))
	assert.True(t, base.DiffersBeyondTolerance(NewAmount(9900, "MYR")))
}

func TestDefaultCurrency(t *testing.T) {
	assert.Equal(t, "MYR", NewAmount(100, "").Currency())
	assert.Equal(t, "USD", NewAmount(100, "USD").Currency())
}
