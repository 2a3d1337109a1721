// Package filesystem walks project trees with smart defaults: tooling
// directories and hidden entries are skipped, build outputs are skipped at
// module roots, and .gitignore files found along the way are honoured.
package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoreDirs are tooling directories skipped at every depth.
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	".idea", ".vscode", ".vs", ".gradle",
}

// DefaultModuleDirs are build output and dependency directories. They are
// skipped only directly inside a module root: the walk root or a directory
// holding one of the module markers. Deeper directories with these names
// are source, e.g. the Kotlin package com.acme.build.
var DefaultModuleDirs = []string{
	"build", "out", "bin", "dist", "target", "tmp", "temp", "vendor",
}

// DefaultModuleMarkers are files that make their directory a module root.
var DefaultModuleMarkers = []string{
	"build.gradle.kts", "build.gradle", "settings.gradle.kts", "settings.gradle",
	"pom.xml", "go.mod", "package.json",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	ModuleDirs     []string // Directories to skip at module roots (default: DefaultModuleDirs)
	ModuleMarkers  []string // Files marking a module root (default: DefaultModuleMarkers)
	IgnorePatterns []string // File name patterns to skip (e.g., "*_test.go")
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
	NoGitignore    bool     // Do not read .gitignore files (default: false)
}

type gitignoreScope struct {
	dir     string
	matcher *ignore.GitIgnore
}

// Walk traverses rootPath and calls visitor for every file and directory
// that survives the ignore rules. Return filepath.SkipDir from visitor to
// skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, d fs.DirEntry) error) error {
	skipDir := nameSet(opts.IgnoreDirs, DefaultIgnoreDirs)
	moduleDir := nameSet(opts.ModuleDirs, DefaultModuleDirs)
	markers := opts.ModuleMarkers
	if len(markers) == 0 {
		markers = DefaultModuleMarkers
	}
	roots := map[string]bool{filepath.Clean(rootPath): true}
	isModuleRoot := func(dir string) bool {
		if r, ok := roots[dir]; ok {
			return r
		}
		r := false
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				r = true
				break
			}
		}
		roots[dir] = r
		return r
	}

	var scopes []gitignoreScope

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != rootPath {
			if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() && skipDir[d.Name()] {
				return filepath.SkipDir
			}
			if d.IsDir() && moduleDir[d.Name()] && isModuleRoot(filepath.Dir(path)) {
				return filepath.SkipDir
			}
			if ignoredByGitignore(scopes, path, d.IsDir()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			scopes = pruneScopes(scopes, path)
			if !opts.NoGitignore {
				if m, err := loadGitignore(path); err != nil {
					return err
				} else if m != nil {
					scopes = append(scopes, gitignoreScope{dir: path, matcher: m})
				}
			}
		} else {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := filepath.Match(pattern, d.Name()); matched {
					return nil
				}
			}
		}

		return visitor(path, d)
	})
}

// FindFiles returns every regular file under rootPath whose name ends with
// one of the given extensions, sorted.
func FindFiles(rootPath string, opts WalkOptions, extensions ...string) ([]string, error) {
	var files []string
	err := Walk(rootPath, opts, func(path string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(d.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func nameSet(names, defaults []string) map[string]bool {
	if len(names) == 0 {
		names = defaults
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func loadGitignore(dir string) (*ignore.GitIgnore, error) {
	path := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return ignore.CompileIgnoreFile(path)
}

// pruneScopes drops scopes whose directory is not an ancestor of path.
// WalkDir visits in lexical order, so scopes form a stack.
func pruneScopes(scopes []gitignoreScope, path string) []gitignoreScope {
	for len(scopes) > 0 {
		top := scopes[len(scopes)-1]
		if path == top.dir || strings.HasPrefix(path, top.dir+string(filepath.Separator)) {
			break
		}
		scopes = scopes[:len(scopes)-1]
	}
	return scopes
}

func ignoredByGitignore(scopes []gitignoreScope, path string, isDir bool) bool {
	for _, s := range scopes {
		if path != s.dir && !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
			continue
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if s.matcher.MatchesPath(rel) {
			return true
		}
		if isDir && s.matcher.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}
