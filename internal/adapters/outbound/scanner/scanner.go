// Package scanner walks a project tree and selects candidate source files,
// skipping build output, dependency trees, and backup artifacts.
package scanner

import (
	"io/fs"
	"path/filepath"
	"strings"
)

var skipDirs = map[string]bool{
	".git":             true,
	".svn":             true,
	".hg":              true,
	".mend":            true,
	"__pycache__":      true,
	".mypy_cache":      true,
	".pytest_cache":    true,
	".ruff_cache":      true,
	".tox":             true,
	".venv":            true,
	"venv":             true,
	"env":              true,
	"node_modules":     true,
	"bower_components": true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"target":           true,
	"vendor":           true,
	".idea":            true,
	".vscode":          true,
	"coverage":         true,
	"archive":          true,
	"archives":         true,
	"backup":           true,
	"backups":          true,
}

var skipExtensions = map[string]bool{
	".bak":  true,
	".old":  true,
	".tmp":  true,
	".swp":  true,
	".log":  true,
	".orig": true,
	".rej":  true,
}

// FileScanner walks a directory tree and returns relative paths of files
// worth scanning. Additional excludes come from run configuration.
type FileScanner struct {
	extraDirs map[string]bool
	extraExts map[string]bool
}

// New builds a FileScanner with config-level exclusions layered on top of
// the built-in ignore lists. Extensions may be given with or without a
// leading dot.
func New(excludeDirs, excludeExts []string) *FileScanner {
	s := &FileScanner{
		extraDirs: make(map[string]bool, len(excludeDirs)),
		extraExts: make(map[string]bool, len(excludeExts)),
	}
	for _, d := range excludeDirs {
		d = strings.TrimSpace(d)
		if d != "" {
			s.extraDirs[d] = true
		}
	}
	for _, e := range excludeExts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		s.extraExts[e] = true
	}
	return s
}

// Scan walks root and returns slash-separated paths relative to root.
// Ignored directories are pruned whole; ignored files are dropped.
func (s *FileScanner) Scan(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (skipDirs[name] || s.extraDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.Ignored(name) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Ignored reports whether a file name should be excluded from scanning.
func (s *FileScanner) Ignored(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return true
	}
	if skipExtensions[ext] || s.extraExts[ext] {
		return true
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, "_backup") || strings.Contains(lower, "backup_") {
		return true
	}
	return false
}
