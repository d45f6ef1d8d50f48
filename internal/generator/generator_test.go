package generator

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ddnet-bridge/internal/preset"
	"ddnet-bridge/internal/random"
)

func testPresets(t *testing.T) (preset.GenerationConfig, preset.MapConfig) {
	t.Helper()
	r := preset.NewRegistry()
	gen, ok := r.GenerationConfig("easy")
	if !ok {
		t.Fatal("builtin easy preset missing")
	}
	layout := preset.MapConfig{
		Name:      "test",
		Width:     60,
		Height:    40,
		Waypoints: []preset.Position{{X: 5, Y: 5}, {X: 50, Y: 30}, {X: 10, Y: 30}},
	}
	return gen, layout
}

func TestGenerate_deterministic(t *testing.T) {
	gen, layout := testPresets(t)
	seed := random.FromString("iceberg")

	a, err := Generate(100000, seed, gen, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(100000, seed, gen, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if a.Steps != b.Steps || !bytes.Equal(blocks(a), blocks(b)) {
		t.Error("same seed produced different maps")
	}
}

func TestGenerate_carves_waypoints(t *testing.T) {
	gen, layout := testPresets(t)
	m, err := Generate(100000, random.FromU64(3), gen, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range layout.Waypoints[1:] {
		if m.At(p.X, p.Y) != Empty {
			t.Errorf("waypoint (%d,%d) not carved: %q", p.X, p.Y, m.At(p.X, p.Y))
		}
	}
	for x := 0; x < m.Width; x++ {
		if m.At(x, 0) != Hookable || m.At(x, m.Height-1) != Hookable {
			t.Fatalf("border broken at column %d", x)
		}
	}
}

func TestGenerate_iteration_budget(t *testing.T) {
	gen, layout := testPresets(t)
	_, err := Generate(10, random.FromU64(1), gen, layout)
	if !errors.Is(err, ErrMaxIterations) {
		t.Errorf("expected ErrMaxIterations, got %v", err)
	}
}

func TestGenerate_invalid_presets(t *testing.T) {
	gen, layout := testPresets(t)
	layout.Waypoints = layout.Waypoints[:1]
	if _, err := Generate(1000, random.FromU64(1), gen, layout); !errors.Is(err, preset.ErrInvalidPreset) {
		t.Errorf("expected ErrInvalidPreset, got %v", err)
	}
}

func TestWalker_matches_Generate(t *testing.T) {
	gen, layout := testPresets(t)
	seed := random.FromU64(99)
	a, err := Walker{}.Generate(100000, seed, gen, layout)
	if err != nil {
		t.Fatalf("Walker.Generate: %v", err)
	}
	b, _ := Generate(100000, seed, gen, layout)
	if !bytes.Equal(blocks(a), blocks(b)) {
		t.Error("Walker and Generate diverged")
	}
}

func TestRankShifts(t *testing.T) {
	ranked := rankShifts(preset.Position{X: 5, Y: 5}, preset.Position{X: 9, Y: 5})
	if ranked[0] != (shift{1, 0}) {
		t.Errorf("best move toward +x goal = %+v", ranked[0])
	}
	if ranked[3] != (shift{-1, 0}) {
		t.Errorf("worst move = %+v", ranked[3])
	}
}

func TestFileExporter_Export(t *testing.T) {
	gen, layout := testPresets(t)
	m, err := Generate(100000, random.FromU64(5), gen, layout)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "maps", "random_map.map")
	if err := (FileExporter{}).Export(m, path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != m.Height+1 {
		t.Fatalf("expected %d lines, got %d", m.Height+1, len(lines))
	}
	if !strings.HasPrefix(lines[0], "# seed=5 width=60 height=40") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if len(lines[1]) != m.Width {
		t.Errorf("row width %d, want %d", len(lines[1]), m.Width)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func blocks(m *Map) []byte {
	out := make([]byte, len(m.Blocks))
	for i, b := range m.Blocks {
		out[i] = byte(b)
	}
	return out
}
