package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{
			name:     "start urls keep first occurrence",
			input:    []string{"/permit-type", "/applying-on-behalf", "/permit-type"},
			expected: []string{"/permit-type", "/applying-on-behalf"},
		},
		{
			name:     "trims and drops blanks",
			input:    []string{"  /species-name/0 ", "", "  ", "/species-name/0"},
			expected: []string{"/species-name/0"},
		},
		{
			name:     "case sensitive",
			input:    []string{"/Comments/0", "/comments/0"},
			expected: []string{"/Comments/0", "/comments/0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestContains(t *testing.T) {
	urls := []string{"/application-summary/check/0", " /your-submission"}
	assert.True(t, Contains(urls, "/your-submission"))
	assert.True(t, Contains(urls, "/application-summary/check/0 "))
	assert.False(t, Contains(urls, "/declaration"))
	assert.False(t, Contains(nil, "/declaration"))
}

func TestTrimPath(t *testing.T) {
	assert.Equal(t, "species-name/0", TrimPath(" /species-name/0/ "))
	assert.Equal(t, "", TrimPath("/"))
}
