package resolve

import (
	"testing"

	"github.com/javanhut/ugit/internal/refstore"
)

func TestResolveAtSubstitutesHead(t *testing.T) {
	refs := refstore.Open(t.TempDir())
	oid := "1111111111111111111111111111111111111111"
	if err := refs.Update("HEAD", refstore.Direct(oid), false); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := Resolve(refs, "@")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != oid {
		t.Fatalf("got %s, want %s", got, oid)
	}
}

func TestResolveTagShadowsBranch(t *testing.T) {
	refs := refstore.Open(t.TempDir())
	tagOID := "2222222222222222222222222222222222222222"
	branchOID := "3333333333333333333333333333333333333333"
	if err := refs.Update("refs/tags/release", refstore.Direct(tagOID), false); err != nil {
		t.Fatalf("Update tag: %v", err)
	}
	if err := refs.Update("refs/heads/release", refstore.Direct(branchOID), false); err != nil {
		t.Fatalf("Update branch: %v", err)
	}
	got, err := Resolve(refs, "release")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != tagOID {
		t.Fatalf("got %s, want tag %s to shadow branch", got, tagOID)
	}
}

func TestResolveLiteralOID(t *testing.T) {
	refs := refstore.Open(t.TempDir())
	oid := "4444444444444444444444444444444444444444"
	got, err := Resolve(refs, oid)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if string(got) != oid {
		t.Fatalf("got %s, want %s", got, oid)
	}
}

func TestResolveUnknownNameFails(t *testing.T) {
	refs := refstore.Open(t.TempDir())
	if _, err := Resolve(refs, "nonexistent"); err == nil {
		t.Fatal("expected UnknownName error, got nil")
	}
}
