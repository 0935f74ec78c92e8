package chart

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/h5diff/internal/results"
)

func TestWriteTerminal(t *testing.T) {
	entries := []results.Entry{
		{Name: "case2", Value: 1},
		{Name: "case10", Value: 0.5},
		{Name: "case1", Value: 0},
	}

	var buf bytes.Buffer
	if err := WriteTerminal(&buf, entries, 10); err != nil {
		t.Fatalf("WriteTerminal failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	if got := strings.Count(lines[0], "█"); got != 10 {
		t.Errorf("Expected largest bar to fill 10 cells, got %d", got)
	}
	if got := strings.Count(lines[1], "█"); got != 5 {
		t.Errorf("Expected half bar of 5 cells, got %d", got)
	}
	if got := strings.Count(lines[2], "█"); got != 0 {
		t.Errorf("Expected empty bar for zero, got %d", got)
	}

	for i, want := range []string{"case2", "case10", "case1"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("Expected line %d to name %s, got %q", i, want, lines[i])
		}
	}
	if !strings.Contains(lines[1], "0.5") {
		t.Errorf("Expected value 0.5 on line 1, got %q", lines[1])
	}
}

func TestWriteTerminalSkipsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTerminal(&buf, []results.Entry{{Name: "bad", Value: math.NaN()}}, 0)
	if err != nil {
		t.Fatalf("WriteTerminal failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No cases to chart") {
		t.Errorf("Expected empty chart message, got %q", buf.String())
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "top.png")
	entries := []results.Entry{
		{Name: "case2", Value: 1},
		{Name: "case3", Value: 0.125},
		{Name: "case1", Value: 0},
	}

	if err := SavePNG(entries, path, "Top 3"); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected chart file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}
}

func TestSavePNGNothingToPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.png")
	if err := SavePNG(nil, path, "empty"); err == nil {
		t.Error("Expected error for empty chart, got nil")
	}
	if _, err := os.Stat(path); err == nil {
		t.Error("Expected no file to be written")
	}
}
