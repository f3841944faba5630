package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/crossboard/pkg/deform"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(custom, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"board.toml", "board"},
		{"figs/board.json", "figs/board"},
		{"board", "board"},
		{"a.b.toml", "a.b"},
	}

	for _, tt := range tests {
		if got := basePath(tt.input); got != tt.want {
			t.Errorf("basePath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"out.svg", "svg"},
		{"out.PNG", "png"},
		{"figs/out.pdf", "pdf"},
		{"out.json", "json"},
		{"out.gif", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input   string
		want    deform.Axis
		wantErr bool
	}{
		{"row", deform.Rows, false},
		{"Rows", deform.Rows, false},
		{"col", deform.Cols, false},
		{"columns", deform.Cols, false},
		{"diagonal", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAxis(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAxis(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseAxis(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.svg")
	if err := writeOutput(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeOutput() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("file content = %q", data)
	}
}
