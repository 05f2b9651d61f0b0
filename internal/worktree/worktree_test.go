package worktree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ugit/internal/ignore"
	"github.com/javanhut/ugit/internal/objstore"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestBuildTreeAndReadManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, "sub/b.txt", "beta")

	oid, err := BuildTree(store, dir, ignore.Default)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	manifest, err := ReadManifest(store, oid)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(manifest) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(manifest), manifest)
	}
	if _, ok := manifest["a.txt"]; !ok {
		t.Fatalf("missing a.txt in manifest: %v", manifest)
	}
	if _, ok := manifest["sub/b.txt"]; !ok {
		t.Fatalf("missing sub/b.txt in manifest: %v", manifest)
	}
}

func TestBuildTreeSkipsRepoDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, dir, ".ugit/objects/whatever", "internal")

	store, err := objstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	oid, err := BuildTree(store, dir, ignore.Default)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	manifest, err := ReadManifest(store, oid)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(manifest) != 1 {
		t.Fatalf("expected only a.txt, got %v", manifest)
	}
}

func TestMaterializeRemovesStaleFiles(t *testing.T) {
	srcDir := t.TempDir()
	store, err := objstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	writeFile(t, srcDir, "keep.txt", "kept")
	oid, err := BuildTree(store, srcDir, ignore.Default)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	manifest, err := ReadManifest(store, oid)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}

	workDir := t.TempDir()
	writeFile(t, workDir, "stale.txt", "should be removed")

	if err := Materialize(store, workDir, manifest, ignore.Default); err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if _, err := os.Stat(filepath.Join(workDir, "stale.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected stale.txt to be removed, stat err = %v", err)
	}
	content, err := os.ReadFile(filepath.Join(workDir, "keep.txt"))
	if err != nil {
		t.Fatalf("ReadFile keep.txt: %v", err)
	}
	if string(content) != "kept" {
		t.Fatalf("keep.txt content = %q, want %q", content, "kept")
	}
}
