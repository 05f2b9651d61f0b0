package objstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ugit/internal/ugiterr"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	oid, err := s.Put(TypeBlob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !oid.IsValid() {
		t.Fatalf("OID %q does not look like a SHA-1 hex digest", oid)
	}

	payload, typ, err := s.Get(oid, "")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if typ != TypeBlob {
		t.Fatalf("type = %q, want blob", typ)
	}
	if string(payload) != "hello\n" {
		t.Fatalf("payload = %q, want %q", payload, "hello\n")
	}
}

func TestPutIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	oid1, err := s.Put(TypeBlob, []byte("same content"))
	if err != nil {
		t.Fatalf("Put 1: %v", err)
	}
	oid2, err := s.Put(TypeBlob, []byte("same content"))
	if err != nil {
		t.Fatalf("Put 2: %v", err)
	}
	if oid1 != oid2 {
		t.Fatalf("idempotent put produced different OIDs: %s vs %s", oid1, oid2)
	}
}

func TestGetBadType(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	oid, _ := s.Put(TypeBlob, []byte("x"))
	if _, _, err := s.Get(oid, TypeTree); err == nil {
		t.Fatal("expected BadType error, got nil")
	}
}

func TestGetNotFound(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, _, err := s.Get("0000000000000000000000000000000000000a", ""); err == nil {
		t.Fatal("expected NotFound error, got nil")
	}
}

func TestVerifyAllCleanReport(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Put(TypeBlob, []byte("content")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	report, err := s.VerifyAll()
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if report.Checked != 1 || len(report.CorruptObjects) != 0 {
		t.Fatalf("expected clean report, got %+v", report)
	}
}

// truncateObject cuts the stored (zstd-compressed) bytes for oid down to
// half their length, corrupting the compressed stream itself rather than
// anything the framing layer would notice before decompression runs.
func truncateObject(t *testing.T, s *Store, oid OID) {
	t.Helper()
	path := filepath.Join(s.dir, string(oid))
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if len(raw) < 2 {
		t.Fatalf("stored object too small to truncate meaningfully: %d bytes", len(raw))
	}
	if err := os.WriteFile(path, raw[:len(raw)/2], 0o644); err != nil {
		t.Fatalf("truncate stored object: %v", err)
	}
}

func TestGetDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	oid, err := s.Put(TypeBlob, []byte("some reasonably long content to compress"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	truncateObject(t, s, oid)

	if _, _, err := s.Get(oid, ""); !errors.Is(err, ugiterr.ErrCorrupt) {
		t.Fatalf("Get on truncated object: err = %v, want ErrCorrupt", err)
	}
}

func TestVerifyAllDetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	oid, err := s.Put(TypeBlob, []byte("some reasonably long content to compress"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	truncateObject(t, s, oid)

	report, err := s.VerifyAll()
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}
	if len(report.CorruptObjects) != 1 || report.CorruptObjects[0] != oid {
		t.Fatalf("expected %s reported corrupt, got %+v", oid, report)
	}
}
