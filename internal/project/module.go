// Package project inspects the project being analyzed: its Go module, if
// any, and the language its sources are written in.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ErrNoModule is returned when no go.mod exists in the searched directories.
var ErrNoModule = errors.New("go.mod not found")

// ModuleInfo contains information about a Go module
type ModuleInfo struct {
	Dir       string // Directory holding go.mod
	Path      string // Module path from go.mod
	GoVersion string // Go version directive
}

// DetectModule reads and parses the go.mod in rootPath.
func DetectModule(rootPath string) (*ModuleInfo, error) {
	modPath := filepath.Join(rootPath, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoModule, rootPath)
		}
		return nil, fmt.Errorf("failed to read go.mod: %w", err)
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	if modFile.Module == nil {
		return nil, fmt.Errorf("go.mod in %s has no module directive", rootPath)
	}

	info := &ModuleInfo{
		Dir:  rootPath,
		Path: modFile.Module.Mod.Path,
	}
	if modFile.Go != nil {
		info.GoVersion = modFile.Go.Version
	}
	return info, nil
}

// FindModule walks up from start until it finds a go.mod.
func FindModule(start string) (*ModuleInfo, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	for {
		info, err := DetectModule(dir)
		if err == nil {
			return info, nil
		}
		if !errors.Is(err, ErrNoModule) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w in %s or any parent", ErrNoModule, start)
		}
		dir = parent
	}
}
