package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javanhut/ugit/internal/objcommit"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestInitAndCommit(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	head, err := r.Refs.Get("HEAD", false)
	if err != nil {
		t.Fatalf("Get HEAD: %v", err)
	}
	if !head.Symbolic || head.Value != "refs/heads/main" {
		t.Fatalf("HEAD = %+v, want symbolic refs/heads/main", head)
	}

	writeFile(t, dir, "a.txt", "hello\n")
	c1, err := r.Commit("c1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	main, err := r.Refs.Get("refs/heads/main", false)
	if err != nil {
		t.Fatalf("Get main: %v", err)
	}
	if main.Value != string(c1) {
		t.Fatalf("refs/heads/main = %s, want %s", main.Value, c1)
	}
}

func TestRoundTripCheckout(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	writeFile(t, dir, "a.txt", "hello\n")
	c1, err := r.Commit("c1")
	if err != nil {
		t.Fatalf("Commit c1: %v", err)
	}

	writeFile(t, dir, "b.txt", "world\n")
	c2, err := r.Commit("c2")
	if err != nil {
		t.Fatalf("Commit c2: %v", err)
	}

	if err := r.Checkout(string(c1)); err != nil {
		t.Fatalf("Checkout c1: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected b.txt removed after checkout c1, stat err = %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil || string(content) != "hello\n" {
		t.Fatalf("a.txt after checkout c1 = %q, %v", content, err)
	}

	if err := r.Checkout(string(c2)); err != nil {
		t.Fatalf("Checkout c2: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.txt")); err != nil {
		t.Fatalf("expected b.txt present after checkout c2: %v", err)
	}
}

func TestTagAndResolve(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	writeFile(t, dir, "a.txt", "hello\n")
	c1, err := r.Commit("c1")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.CreateTag("v1", c1); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	oid, err := r.Resolve("v1")
	if err != nil || oid != c1 {
		t.Fatalf("Resolve v1 = %v, %v; want %s", oid, err, c1)
	}

	head, err := r.Resolve("@")
	if err != nil || head != c1 {
		t.Fatalf("Resolve @ = %v, %v; want %s", head, err, c1)
	}

	lit, err := r.Resolve(string(c1))
	if err != nil || lit != c1 {
		t.Fatalf("Resolve literal = %v, %v; want %s", lit, err, c1)
	}
}

func TestBranchAndFastForwardlessMerge(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	writeFile(t, dir, "a.txt", "base\n")
	c1, err := r.Commit("c1")
	if err != nil {
		t.Fatalf("Commit c1: %v", err)
	}

	if err := r.CreateBranch("feat", c1); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.Checkout("feat"); err != nil {
		t.Fatalf("Checkout feat: %v", err)
	}
	writeFile(t, dir, "c.txt", "x\n")
	f1, err := r.Commit("f1")
	if err != nil {
		t.Fatalf("Commit f1: %v", err)
	}

	if err := r.Checkout("main"); err != nil {
		t.Fatalf("Checkout main: %v", err)
	}
	writeFile(t, dir, "d.txt", "y\n")
	if _, err := r.Commit("m1"); err != nil {
		t.Fatalf("Commit m1: %v", err)
	}

	conflict, err := r.Merge("feat")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if conflict {
		t.Fatal("unexpected conflict merging disjoint changes")
	}

	mergeHead, err := r.Refs.Get("MERGE_HEAD", false)
	if err != nil {
		t.Fatalf("Get MERGE_HEAD: %v", err)
	}
	if mergeHead.Value != string(f1) {
		t.Fatalf("MERGE_HEAD = %s, want %s", mergeHead.Value, f1)
	}

	for _, name := range []string{"a.txt", "c.txt", "d.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s present after merge: %v", name, err)
		}
	}

	m2, err := r.Commit("merge")
	if err != nil {
		t.Fatalf("Commit merge: %v", err)
	}
	rv, err := r.Refs.Get("MERGE_HEAD", false)
	if err != nil {
		t.Fatalf("Get MERGE_HEAD after commit: %v", err)
	}
	if !rv.IsNull() {
		t.Fatal("expected MERGE_HEAD cleared after merge commit")
	}

	m2Commit, err := objcommit.Get(r.Objects, m2)
	if err != nil {
		t.Fatalf("Get merge commit: %v", err)
	}
	if len(m2Commit.Parents) != 2 {
		t.Fatalf("merge commit parents = %v, want 2", m2Commit.Parents)
	}
}

func TestUnbornBranchResolveIsUnknownName(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer r.Close()

	if _, err := r.Resolve("nonexistent"); err == nil {
		t.Fatal("expected UnknownName error resolving nonexistent name, got nil")
	}
}
