package output

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T, f func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetWriter(buf)
	f()
	return buf.String()
}

func TestSuccess(t *testing.T) {
	got := capture(t, func() { Success("Wrote heron.json") })

	if !strings.Contains(got, "✔ Wrote heron.json") {
		t.Errorf("Success output = %q", got)
	}
}

func TestError(t *testing.T) {
	got := capture(t, func() { Error("scan failed") })

	if !strings.Contains(got, "✘ scan failed") {
		t.Errorf("Error output = %q", got)
	}
}

func TestPlainOutputHasNoEscapes(t *testing.T) {
	got := capture(t, func() {
		Info("Analyzing")
		Step("3 elements")
		Header("Connections")
	})

	if strings.Contains(got, "\x1b[") {
		t.Errorf("expected no ANSI escapes in plain mode, got %q", got)
	}
	if !strings.Contains(got, "   3 elements") {
		t.Errorf("Step output should be indented, got %q", got)
	}
}

func TestVerbose(t *testing.T) {
	defer SetVerbose(false)

	SetVerbose(false)
	if got := capture(t, func() { Verbose("hidden") }); got != "" {
		t.Errorf("expected no output when verbose is off, got %q", got)
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Fatal("IsVerbose() = false after SetVerbose(true)")
	}
	if got := capture(t, func() { Verbose("shown") }); !strings.Contains(got, "shown") {
		t.Errorf("expected verbose output, got %q", got)
	}
}

func TestTable(t *testing.T) {
	got := capture(t, func() {
		Table([][]string{
			{"class", "12"},
			{"interface", "3"},
		})
	})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "   class      12" {
		t.Errorf("first row = %q", lines[0])
	}
	if lines[1] != "   interface  3" {
		t.Errorf("second row = %q", lines[1])
	}
}
