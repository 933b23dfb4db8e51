package utils

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFrom(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		baseDir  string
		expected []string
	}{
		{
			name:     "nil list",
			paths:    nil,
			baseDir:  "/base",
			expected: nil,
		},
		{
			name:     "absolute paths unchanged",
			paths:    []string{"/abs/bin/main", "/abs/output"},
			baseDir:  "/base",
			expected: []string{"/abs/bin/main", "/abs/output"},
		},
		{
			name:     "relative paths resolved",
			paths:    []string{"bin/main", "output"},
			baseDir:  "/base",
			expected: []string{"/base/bin/main", "/base/output"},
		},
		{
			name:     "glob pattern kept",
			paths:    []string{"data/*.jss"},
			baseDir:  "/base/sub",
			expected: []string{"/base/sub/data/*.jss"},
		},
		{
			name:     "empty entries kept",
			paths:    []string{"", "../x"},
			baseDir:  "/base/sub",
			expected: []string{"", "/base/x"},
		},
		{
			name:     "no base directory",
			paths:    []string{"bin/main"},
			baseDir:  "",
			expected: []string{"bin/main"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]string, len(tt.expected))
			for i, p := range tt.expected {
				want[i] = filepath.FromSlash(p)
			}
			if tt.expected == nil {
				want = nil
			}
			assert.Equal(t, want, ResolveFrom(filepath.FromSlash(tt.baseDir), tt.paths...))
		})
	}
}
