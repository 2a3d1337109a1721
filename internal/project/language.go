package project

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/heron/internal/filesystem"
)

// Language names accepted by the scan command.
const (
	LanguageGo     = "go"
	LanguageKotlin = "kotlin"
)

var gradleMarkers = []string{
	"settings.gradle.kts", "settings.gradle",
	"build.gradle.kts", "build.gradle",
}

var errFound = errors.New("found")

// DetectLanguage guesses the source language of the project at root.
// A go.mod wins, then Gradle build files, then the first .kt file found.
// It returns "" when nothing is recognised.
func DetectLanguage(root string) string {
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
		return LanguageGo
	}
	for _, marker := range gradleMarkers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return LanguageKotlin
		}
	}

	err := filesystem.Walk(root, filesystem.WalkOptions{}, func(path string, d fs.DirEntry) error {
		if !d.IsDir() && filepath.Ext(path) == ".kt" {
			return errFound
		}
		return nil
	})
	if errors.Is(err, errFound) {
		return LanguageKotlin
	}
	return ""
}
