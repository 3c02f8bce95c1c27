package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"20k", 20000},
		{"50rb", 50000},
		{"80ribu", 80000},
		{"1.5jt", 1500000},
		{"1,5jt", 1500000},
		{"2juta", 2000000},
		{"35K", 35000},
		{"20000", 20000},
		{"0", 0},
		{" 45k ", 45000},
		{"0.0005k", 1}, // rounds half up at the minor unit
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-20k", "k"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			assert.Error(t, err)
		})
	}
}

func TestTaxonomies(t *testing.T) {
	assert.Len(t, Categories, 11)
	assert.Len(t, Moods, 7)

	assert.True(t, IsCategory("food"))
	assert.True(t, IsCategory("Coffee"))
	assert.False(t, IsCategory("gadgets"))

	assert.True(t, IsMood("regret"))
	assert.False(t, IsMood("angry"))

	for _, mood := range MoodCues {
		assert.True(t, IsMood(mood), "cue maps to unknown mood %q", mood)
	}
}
