package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "profile-picture.jpg")
	testData := []byte("hello world")

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "a", "b", "c", "test.txt")

	if err := fs.WriteFile(testPath, []byte("test")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_WriteFileReplacesWithoutLeftovers(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	testPath := filepath.Join(dir, "out.jpg")

	if err := fs.WriteFile(testPath, []byte("first version")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.WriteFile(testPath, []byte("second")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := fs.ReadFile(testPath)
	if string(data) != "second" {
		t.Errorf("expected %q, got %q", "second", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, got %d entries", len(entries))
	}
}

func TestFileSystem_Size(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	testPath := filepath.Join(dir, "size.bin")
	os.WriteFile(testPath, make([]byte, 1234), 0644)

	size, err := fs.Size(testPath)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if size != 1234 {
		t.Errorf("expected 1234, got %d", size)
	}

	if _, err := fs.Size(dir); err == nil {
		t.Error("expected an error for a directory")
	}
	if _, err := fs.Size(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestFileSystem_MkdirAll(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.MkdirAll(testPath); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected directory to exist")
	}
}

func TestFileSystem_ExistsAndRemove(t *testing.T) {
	fs := New()
	dir := t.TempDir()
	testPath := filepath.Join(dir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	exists, _ = fs.Exists(testPath)
	if exists {
		t.Error("expected file to be removed")
	}

	exists, err = fs.Exists(filepath.Join(dir, "nonexistent.txt"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}
