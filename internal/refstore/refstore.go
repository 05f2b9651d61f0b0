// Package refstore implements the reference namespace: HEAD, MERGE_HEAD,
// refs/heads/<name> and refs/tags/<name>. A ref is either a direct OID, a
// symbolic pointer at another ref, or absent ("null" — a valid state, not
// an error). Stored ref names always use forward slashes; refstore
// converts to the host path separator only when it touches the
// filesystem, per spec §4.2.
package refstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/javanhut/ugit/internal/ugiterr"
)

const maxDerefDepth = 8

const symbolicPrefix = "ref: "

// RefValue is the tagged union a ref resolves to: either a direct OID, a
// symbolic pointer at another ref path, or Null (the ref does not exist).
type RefValue struct {
	Symbolic bool
	Value    string // OID hex string (direct) or target ref path (symbolic)
}

// IsNull reports whether this RefValue denotes a non-existent ref.
func (r RefValue) IsNull() bool { return !r.Symbolic && r.Value == "" }

// Direct builds a direct RefValue pointing at oid.
func Direct(oid string) RefValue { return RefValue{Symbolic: false, Value: oid} }

// Sym builds a symbolic RefValue pointing at the ref path target.
func Sym(target string) RefValue { return RefValue{Symbolic: true, Value: target} }

// Store is the reference namespace rooted at a repository directory
// (".ugit").
type Store struct {
	root string
}

// Open returns a Store rooted at repoDir (the ".ugit" directory). It does
// not itself create refs/; Update creates a ref's parent directories
// when it first writes there.
func Open(repoDir string) *Store {
	return &Store{root: repoDir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// readRaw reads the single, un-dereferenced RefValue stored at name.
// Absent files yield the Null RefValue, not an error.
func (s *Store) readRaw(name string) (RefValue, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return RefValue{}, nil
		}
		return RefValue{}, ugiterr.Wrap(ugiterr.IOError, err, "read ref %s", name)
	}
	text := strings.TrimRight(string(data), "\n")
	if strings.HasPrefix(text, symbolicPrefix) {
		target := strings.TrimSpace(strings.TrimPrefix(text, symbolicPrefix))
		return RefValue{Symbolic: true, Value: target}, nil
	}
	return RefValue{Symbolic: false, Value: strings.TrimSpace(text)}, nil
}

// chase follows symbolic indirection from name to its terminal value,
// bounded by maxDerefDepth hops to guard against cycles.
func (s *Store) chase(name string, depth int) (RefValue, error) {
	if depth > maxDerefDepth {
		return RefValue{}, ugiterr.New(ugiterr.BadRef, "ref %s: indirection exceeds %d hops", name, maxDerefDepth)
	}
	rv, err := s.readRaw(name)
	if err != nil {
		return RefValue{}, err
	}
	if !rv.Symbolic {
		return rv, nil
	}
	return s.chase(rv.Value, depth+1)
}

// terminalName follows symbolic indirection from name and returns the
// name of the final, non-symbolic ref slot — the place a dereferenced
// write or delete should land — without requiring that slot to exist yet.
func (s *Store) terminalName(name string, depth int) (string, error) {
	if depth > maxDerefDepth {
		return "", ugiterr.New(ugiterr.BadRef, "ref %s: indirection exceeds %d hops", name, maxDerefDepth)
	}
	rv, err := s.readRaw(name)
	if err != nil {
		return "", err
	}
	if !rv.Symbolic {
		return name, nil
	}
	return s.terminalName(rv.Value, depth+1)
}

// Get reads the ref named name. If deref is true, symbolic indirection is
// chased to its terminal value. A missing ref returns the Null RefValue
// and a nil error.
func (s *Store) Get(name string, deref bool) (RefValue, error) {
	if deref {
		return s.chase(name, 0)
	}
	return s.readRaw(name)
}

// Update writes value at ref name. If deref is true, symbolic indirection
// is chased first so the write lands on the terminal ref (e.g. advancing
// the branch HEAD points to, rather than HEAD itself). Writes are
// whole-file, via write-temp-then-rename, so a ref is never observed
// truncated mid-write.
func (s *Store) Update(name string, value RefValue, deref bool) error {
	if value.Value == "" {
		return ugiterr.New(ugiterr.EmptyValue, "ref %s: empty value", name)
	}
	target := name
	if deref {
		t, err := s.terminalName(name, 0)
		if err != nil {
			return err
		}
		target = t
	}
	path := s.path(target)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ugiterr.Wrap(ugiterr.IOError, err, "create parent dirs for ref %s", target)
	}
	var content string
	if value.Symbolic {
		content = symbolicPrefix + value.Value + "\n"
	} else {
		content = value.Value + "\n"
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return ugiterr.Wrap(ugiterr.IOError, err, "write ref %s", target)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return ugiterr.Wrap(ugiterr.IOError, err, "finalize ref %s", target)
	}
	return nil
}

// Delete removes the ref file named name. If deref is true, symbolic
// indirection is chased first. Deleting an absent ref is a NotFound
// error — delete never silently ignores a missing target.
func (s *Store) Delete(name string, deref bool) error {
	target := name
	if deref {
		t, err := s.terminalName(name, 0)
		if err != nil {
			return err
		}
		target = t
	}
	path := s.path(target)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ugiterr.New(ugiterr.NotFound, "ref %s", target)
		}
		return ugiterr.Wrap(ugiterr.IOError, err, "stat ref %s", target)
	}
	if err := os.Remove(path); err != nil {
		return ugiterr.Wrap(ugiterr.IOError, err, "delete ref %s", target)
	}
	return nil
}

// RefEntry is one (name, value) pair yielded by Iter.
type RefEntry struct {
	Name  string
	Value RefValue
}

// Iter enumerates HEAD followed by every ref under refs/, filtered by
// name prefix, in sorted order.
func (s *Store) Iter(prefix string, deref bool) ([]RefEntry, error) {
	names := []string{"HEAD"}

	refsDir := filepath.Join(s.root, "refs")
	if _, err := os.Stat(refsDir); err == nil {
		err := filepath.Walk(refsDir, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(s.root, p)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, ugiterr.Wrap(ugiterr.IOError, err, "walk refs dir")
		}
	}

	sort.Strings(names[1:])

	var out []RefEntry
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rv, err := s.Get(name, deref)
		if err != nil {
			return nil, err
		}
		out = append(out, RefEntry{Name: name, Value: rv})
	}
	return out, nil
}
