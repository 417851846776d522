package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCovered(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		candidate string
		expected  bool
	}{
		{
			name:      "empty file",
			existing:  nil,
			candidate: "debug.log",
			expected:  false,
		},
		{
			name:      "exact match",
			existing:  []string{"node_modules/", "debug.log"},
			candidate: "debug.log",
			expected:  true,
		},
		{
			name:      "exact match with surrounding whitespace",
			existing:  []string{"  debug.log\t", "\r"},
			candidate: "debug.log",
			expected:  true,
		},
		{
			name:      "ancestor directory rule",
			existing:  []string{"a/b/"},
			candidate: "a/b/c.txt",
			expected:  true,
		},
		{
			name:      "top level directory rule",
			existing:  []string{"a/"},
			candidate: "a/b/c.txt",
			expected:  true,
		},
		{
			name:      "unrelated directory rule",
			existing:  []string{"a/x/"},
			candidate: "a/b/c.txt",
			expected:  false,
		},
		{
			name:      "directory rule without trailing slash does not cover",
			existing:  []string{"a/b"},
			candidate: "a/b/c.txt",
			expected:  false,
		},
		{
			name:      "glob patterns are not evaluated",
			existing:  []string{"*.log"},
			candidate: "debug.log",
			expected:  false,
		},
		{
			name:      "directory candidate covered by itself",
			existing:  []string{"build/"},
			candidate: "build/",
			expected:  true,
		},
		{
			name:      "directory candidate covered by ancestor",
			existing:  []string{"web/"},
			candidate: "web/node_modules/",
			expected:  true,
		},
		{
			name:      "final segment is never a prefix",
			existing:  []string{"c.txt/"},
			candidate: "a/b/c.txt",
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCovered(tt.existing, tt.candidate))
		})
	}
}
