package mapfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMapsFileWithMargin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "measurements.txt")
	content := "Hamburg;12.0\nBulawayo;8.9\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	if m.FileSize() != len(content) {
		t.Fatalf("FileSize() = %d, want %d", m.FileSize(), len(content))
	}
	if len(m.Bytes()) != len(content)+Margin {
		t.Fatalf("len(Bytes()) = %d, want %d", len(m.Bytes()), len(content)+Margin)
	}
	if string(m.Bytes()[:len(content)]) != content {
		t.Fatalf("mapped content mismatch")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
