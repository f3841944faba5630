package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const boardTOML = `
[board]
name = "expr"
width = 3
height = 2
data = [
  [1.0, 2.0, 3.0],
  [1.1, 2.1, 3.2],
  [9.0, 8.0, 7.0],
  [9.2, 8.1, 7.1],
]
row_labels = ["a", "b", "c", "d"]

[[board.dendrogram]]
side = "left"
method = "average"

[[board.panel]]
side = "right"
kind = "labels"
`

// writeBoard writes the fixture document into a fresh directory and points
// the cache at a sibling directory.
func writeBoard(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	path := filepath.Join(dir, "board.toml")
	if err := os.WriteFile(path, []byte(boardTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	input := writeBoard(t)
	output := filepath.Join(filepath.Dir(input), "out", "figure.svg")

	if _, err := execute(t, "render", input, "-o", output); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not an SVG document")
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	input := writeBoard(t)

	if _, err := execute(t, "render", input, "--no-cache", "-f", "json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(basePath(input) + ".json"); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	input := writeBoard(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.toml")}},
		{"bad format", []string{"render", input, "-f", "gif"}},
		{"bad scale", []string{"render", input, "--scale=-1"}},
		{"no args", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeBoard(t)

	if _, err := execute(t, "layout", input, "--no-cache"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(basePath(input) + ".layout.json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	var snap any
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Errorf("layout is not JSON: %v", err)
	}
}

func TestClusterCommand(t *testing.T) {
	input := writeBoard(t)

	out, err := execute(t, "cluster", input, "--axis", "row", "--heights")
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if !strings.HasPrefix(out, "digraph linkage {") {
		t.Errorf("stdout is not DOT: %q", out)
	}
	if !strings.Contains(out, `label="expr"`) {
		t.Error("DOT output should title the tree with the board name")
	}

	dotPath := filepath.Join(filepath.Dir(input), "rows.dot")
	if _, err := execute(t, "cluster", input, "--dot", dotPath); err != nil {
		t.Fatalf("cluster --dot: %v", err)
	}
	data, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph linkage {") {
		t.Error("dot file is not DOT")
	}
}

func TestClusterCommandErrors(t *testing.T) {
	input := writeBoard(t)

	if _, err := execute(t, "cluster", input, "--axis", "col"); err == nil {
		t.Error("expected error for an axis without dendrograms")
	}
	if _, err := execute(t, "cluster", input, "--axis", "depth"); err == nil {
		t.Error("expected error for an unknown axis")
	}
}

func TestCacheCommands(t *testing.T) {
	input := writeBoard(t)

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}

	if _, err := execute(t, "render", input, "-f", "json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(want)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir should hold entries after render (err=%v)", err)
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
}
