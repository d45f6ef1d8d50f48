package generator

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// FileExporter writes maps as plain text: a header line followed by one row
// of block characters per grid row. The file is replaced atomically.
type FileExporter struct{}

// Export writes m to path, creating parent directories as needed.
func (FileExporter) Export(m *Map, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create map dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp map: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "# seed=%d width=%d height=%d steps=%d\n", m.Seed.Value, m.Width, m.Height, m.Steps)
	for y := 0; y < m.Height; y++ {
		row := m.Blocks[y*m.Width : (y+1)*m.Width]
		for _, b := range row {
			w.WriteByte(byte(b))
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close map: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace map: %w", err)
	}
	return nil
}
