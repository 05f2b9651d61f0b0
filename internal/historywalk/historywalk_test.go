package historywalk

import (
	"testing"

	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
)

func mustCommit(t *testing.T, store *objstore.Store, tree string, parents ...objstore.OID) objstore.OID {
	t.Helper()
	oid, err := objcommit.Put(store, objcommit.Commit{Tree: objstore.OID(tree), Parents: parents, Message: "m\n"})
	if err != nil {
		t.Fatalf("Put commit: %v", err)
	}
	return oid
}

func TestWalkVisitsEachOnceFirstParentFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	root := mustCommit(t, store, "t0")
	branchA := mustCommit(t, store, "t1", root)
	branchB := mustCommit(t, store, "t2", root)
	mergeCommit := mustCommit(t, store, "t3", branchA, branchB)

	w := New(store)
	order, err := w.Walk([]objstore.OID{mergeCommit})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 visited commits, got %d: %v", len(order), order)
	}
	if order[0] != mergeCommit || order[1] != branchA {
		t.Fatalf("expected merge commit then first parent first, got %v", order)
	}
	if order[2] != root || order[len(order)-1] != branchB {
		t.Fatalf("expected first-parent line down to root, then second parent last, got %v", order)
	}
}

func TestAncestorSetIncludesSeeds(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	root := mustCommit(t, store, "t0")
	child := mustCommit(t, store, "t1", root)

	w := New(store)
	set, err := w.AncestorSet([]objstore.OID{child})
	if err != nil {
		t.Fatalf("AncestorSet: %v", err)
	}
	if !set[root] || !set[child] {
		t.Fatalf("ancestor set missing expected members: %v", set)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	root := mustCommit(t, store, "t0")
	child := mustCommit(t, store, "t1", root)

	w := New(store)
	var visited []objstore.OID
	err = w.WalkFunc([]objstore.OID{child}, func(oid objstore.OID) (bool, error) {
		visited = append(visited, oid)
		return false, nil
	})
	if err != nil {
		t.Fatalf("WalkFunc: %v", err)
	}
	if len(visited) != 1 || visited[0] != child {
		t.Fatalf("expected walk to stop after one visit, got %v", visited)
	}
}
