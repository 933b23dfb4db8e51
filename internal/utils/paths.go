package utils

import "path/filepath"

// ResolveFrom resolves each path relative to baseDir. Absolute and empty
// paths are returned unchanged, as is everything when baseDir is empty.
// Glob metacharacters are kept, so data patterns resolve the same way.
func ResolveFrom(baseDir string, paths ...string) []string {
	if len(paths) == 0 {
		return nil
	}

	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		switch {
		case path == "", baseDir == "", filepath.IsAbs(path):
			resolved = append(resolved, path)
		default:
			resolved = append(resolved, filepath.Join(baseDir, path))
		}
	}
	return resolved
}
