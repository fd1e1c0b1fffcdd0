package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/harvester/internal/checksum"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("buyer,seller\n")
	if err := s.Write("contracts.csv", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("contracts.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("documents/Mervis/INV-1.pdf", []byte("pdf")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Exists("documents/Mervis/INV-1.pdf") {
		t.Error("expected file to exist")
	}
}

func TestExists(t *testing.T) {
	s := tempRoot(t)
	if s.Exists("missing.pdf") {
		t.Error("missing file reported as existing")
	}
	if err := os.MkdirAll(filepath.Join(s.root, "dir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if s.Exists("dir") {
		t.Error("directory reported as a file")
	}
}

func TestWriteFrom_ReturnsSizeAndChecksum(t *testing.T) {
	s := tempRoot(t)
	n, sum, err := s.WriteFrom("doc.pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("WriteFrom: %v", err)
	}
	if n != int64(len("%PDF-1.4 body")) {
		t.Errorf("n = %d", n)
	}
	if sum != checksum.Sum([]byte("%PDF-1.4 body")) {
		t.Errorf("checksum = %q", sum)
	}
}

type failingReader struct {
	sent bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("connection reset")
}

func TestWriteFrom_FailedReadLeavesNoFile(t *testing.T) {
	s := tempRoot(t)
	if _, _, err := s.WriteFrom("doc.pdf", &failingReader{}); err == nil {
		t.Fatal("expected error from failing reader")
	}
	if s.Exists("doc.pdf") {
		t.Error("final path must not exist after a failed download")
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, "*.part"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestWriteFrom_FailedReadKeepsPreviousFile(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("doc.pdf", []byte("good"))
	if _, _, err := s.WriteFrom("doc.pdf", &failingReader{}); err == nil {
		t.Fatal("expected error")
	}
	got, _ := s.Read("doc.pdf")
	if string(got) != "good" {
		t.Errorf("previous content clobbered: %q", got)
	}
}

func TestAppend_HeaderOnce(t *testing.T) {
	s := tempRoot(t)
	header := []byte("source,customer,suggested\n")
	if err := s.Append("unmapped.csv", header, []byte("a,,\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append("unmapped.csv", header, []byte("b,x,\n")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, _ := s.Read("unmapped.csv")
	want := "source,customer,suggested\na,,\nb,x,\n"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.csv",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if _, _, err := s.WriteFrom(p, io.LimitReader(strings.NewReader("x"), 1)); err == nil {
			t.Errorf("expected error for stream to %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("atomic.csv", []byte("original"))
	if err := s.Write("atomic.csv", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.csv")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, "*.part"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/harvester-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "harvester-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
