package artifact

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExcludeDirs are directory names skipped during discovery.
// Dependency and build output trees are never part of an agent corpus.
var DefaultExcludeDirs = []string{
	"node_modules",
	"vendor",
	".git",
	"dist",
	"build",
	"target",
	"__pycache__",
	".backups",
}

// DiscoverOptions tunes corpus discovery.
type DiscoverOptions struct {
	// ExcludeDirs replaces DefaultExcludeDirs when non-nil.
	ExcludeDirs []string
}

// Discover walks root and loads every recognized artifact. When root is a
// single file, only that file is loaded. Unreadable files are skipped;
// discovery only fails when the root itself is inaccessible.
func Discover(root string, opts DiscoverOptions) ([]*Artifact, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discovering artifacts in %s: %w", root, err)
	}

	if !info.IsDir() {
		art, err := loadFile(root, root)
		if err != nil {
			return nil, err
		}
		if art == nil {
			return nil, fmt.Errorf("%s is not a recognized artifact", root)
		}
		return []*Artifact{art}, nil
	}

	excludes := opts.ExcludeDirs
	if excludes == nil {
		excludes = DefaultExcludeDirs
	}

	var artifacts []*Artifact
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep walking.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && excluded(d.Name(), excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		art, loadErr := loadFile(root, path)
		if loadErr != nil || art == nil {
			return nil // unreadable or unrecognized files are not fatal
		}
		artifacts = append(artifacts, art)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering artifacts in %s: %w", root, err)
	}
	return artifacts, nil
}

// loadFile reads and parses one file, returning nil for file types that are
// not artifacts (or not recognizable as one).
func loadFile(root, path string) (*Artifact, error) {
	if !recognized(path) {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rel := path
	if root != path {
		if r, relErr := filepath.Rel(root, path); relErr == nil {
			rel = filepath.ToSlash(r)
		}
	}
	return Load(rel, string(data)), nil
}

// recognized reports whether a path looks like an artifact we analyze:
// markdown documents, and JSON files that are plugin manifests.
func recognized(path string) bool {
	lower := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(lower, ".md"):
		return true
	case strings.HasSuffix(lower, ".json"):
		return lower == "plugin.json" ||
			strings.HasSuffix(lower, ".claude-plugin.json") ||
			inSegment(path, ".claude-plugin")
	}
	return false
}

func excluded(name string, excludes []string) bool {
	for _, ex := range excludes {
		if name == ex {
			return true
		}
	}
	return false
}
