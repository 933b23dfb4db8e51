package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Accepted input extensions for benchmark instances.
const (
	ExtJSS = ".jss"
	ExtFSS = ".fss"
)

// AcceptedExtensions lists every suffix a benchmark input may carry.
var AcceptedExtensions = []string{ExtJSS, ExtFSS}

// HasAcceptedExtension reports whether path ends with one of AcceptedExtensions.
func HasAcceptedExtension(path string) bool {
	for _, ext := range AcceptedExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// BenchmarkFile is an input instance that passed resolution. It is never
// modified after it is created.
type BenchmarkFile struct {
	Path string `json:"path"`
}

// Stem returns the base name of the file without its extension.
func (f BenchmarkFile) Stem() string {
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputStems assigns every file a stem for naming its trial outputs. Files
// whose Stem is unique keep it; files sharing a stem (a.jss next to a.fss, or
// the same name in two directories) use their path with separators flattened,
// so no two files in the set map to the same stem.
func OutputStems(files []BenchmarkFile) map[string]string {
	counts := make(map[string]int, len(files))
	for _, f := range files {
		counts[f.Stem()]++
	}

	stems := make(map[string]string, len(files))
	used := make(map[string]bool, len(files))
	for _, f := range files {
		if counts[f.Stem()] == 1 {
			stems[f.Path] = f.Stem()
			used[f.Stem()] = true
		}
	}
	for _, f := range files {
		if _, ok := stems[f.Path]; ok {
			continue
		}
		base := flattenPath(f.Path)
		stem := base
		for n := 2; used[stem]; n++ {
			stem = fmt.Sprintf("%s_%d", base, n)
		}
		stems[f.Path] = stem
		used[stem] = true
	}
	return stems
}

var pathFlattener = strings.NewReplacer("/", "_", ":", "_")

func flattenPath(path string) string {
	p := strings.TrimLeft(filepath.ToSlash(filepath.Clean(path)), "./")
	return pathFlattener.Replace(p)
}

func (f BenchmarkFile) String() string {
	return f.Path
}

// FilePaths returns the paths of files, preserving order.
func FilePaths(files []BenchmarkFile) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
