package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")
	if err := WriteFile(path, []byte("{}")); err != nil {
		t.Fatalf("write file: %v", err)
	}

	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if content != "{}" {
		t.Fatalf("expected {}, got %q", content)
	}
}

func TestWriteFileReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("rewrite file: %v", err)
	}

	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if content != "second" {
		t.Fatalf("expected second, got %q", content)
	}
}

func TestWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := WriteFile(path, []byte("x")); err != nil {
		t.Fatalf("write file: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the target file, got %d entries", len(entries))
	}
}

func TestAppendFileAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.jsonl")
	if err := AppendFile(path, []byte("a\n")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := AppendFile(path, []byte("b\n")); err != nil {
		t.Fatalf("append: %v", err)
	}

	content, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if content != "a\nb\n" {
		t.Fatalf("expected appended lines, got %q", content)
	}
}

func TestReadFileEmptyPath(t *testing.T) {
	if _, err := ReadFile("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
