package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectModule_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "go.mod"), "module github.com/test/zoo\n\ngo 1.22\n")

	info, err := DetectModule(tmpDir)
	if err != nil {
		t.Fatalf("DetectModule() error = %v", err)
	}
	if info.Path != "github.com/test/zoo" {
		t.Errorf("Path = %q, want %q", info.Path, "github.com/test/zoo")
	}
	if info.GoVersion != "1.22" {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, "1.22")
	}
	if info.Dir != tmpDir {
		t.Errorf("Dir = %q, want %q", info.Dir, tmpDir)
	}
}

func TestDetectModule_NotFound(t *testing.T) {
	_, err := DetectModule(t.TempDir())
	if !errors.Is(err, ErrNoModule) {
		t.Fatalf("DetectModule() error = %v, want ErrNoModule", err)
	}
}

func TestDetectModule_InvalidSyntax(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "go.mod"), "this is not valid go.mod syntax\nmodule\n")

	_, err := DetectModule(tmpDir)
	if err == nil {
		t.Fatal("DetectModule() expected error for invalid syntax")
	}
	if errors.Is(err, ErrNoModule) {
		t.Errorf("parse failure reported as missing module: %v", err)
	}
}

func TestFindModule_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "go.mod"), "module example.com/deep\n")
	nested := filepath.Join(tmpDir, "internal", "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	info, err := FindModule(nested)
	if err != nil {
		t.Fatalf("FindModule() error = %v", err)
	}
	if info.Path != "example.com/deep" {
		t.Errorf("Path = %q, want example.com/deep", info.Path)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name:  "go module",
			files: map[string]string{"go.mod": "module x\n", "main.kt": ""},
			want:  LanguageGo,
		},
		{
			name:  "gradle build",
			files: map[string]string{"build.gradle.kts": ""},
			want:  LanguageKotlin,
		},
		{
			name:  "loose kotlin sources",
			files: map[string]string{"src/com/acme/Zoo.kt": "class Zoo"},
			want:  LanguageKotlin,
		},
		{
			name:  "kotlin only in build output",
			files: map[string]string{"build/Gen.kt": "class Gen"},
			want:  "",
		},
		{
			name:  "nothing",
			files: map[string]string{"README.md": "hi"},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			for rel, content := range tt.files {
				writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
			}
			if got := DetectLanguage(root); got != tt.want {
				t.Errorf("DetectLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}
