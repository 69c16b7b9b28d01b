package numconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDouble(t *testing.T) {
	tests := []struct {
		text     string
		expected bool
	}{
		{"15", false},
		{"-3", false},
		{"1.5", true},
		{"1e5", true},
		{"1E5", true},
		{"+7", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDouble(tt.text))
		})
	}
}

func TestParse(t *testing.T) {
	i, err := ParseInt("-42")
	require.NoError(t, err)
	assert.Equal(t, int64(-42), i)

	_, err = ParseInt("99999999999999999999")
	assert.Error(t, err)

	f, err := ParseFloat("1e5")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, f)

	_, err = ParseFloat("1.2.3")
	assert.Error(t, err)
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       float64
		expected string
	}{
		{"fraction", 1.5, "1.5"},
		{"whole number keeps point", 100000, "100000.0"},
		{"large uses exponent", 1e21, "1e+21"},
		{"small uses exponent", 1e-7, "1e-07"},
		{"negative", -0.25, "-0.25"},
		{"nan", math.NaN(), "null"},
		{"inf", math.Inf(1), "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFloat(tt.in))
		})
	}
}

func TestFormatFloat_ReadsBackAsDouble(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 3.14159, 1e5, 123456789, 2.5e-300} {
		s := FormatFloat(f)
		require.True(t, IsDouble(s), s)
		back, err := ParseFloat(s)
		require.NoError(t, err)
		assert.Equal(t, f, back)
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "-9223372036854775808", FormatInt(math.MinInt64))
	assert.Equal(t, "0", FormatInt(0))
}
