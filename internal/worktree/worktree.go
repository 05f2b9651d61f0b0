// Package worktree is the Working-Tree Bridge: it materializes a tree
// object into a directory and reconstructs a tree object from one. It is
// the only component that touches the working directory as opposed to
// the object store.
package worktree

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/javanhut/ugit/internal/ignore"
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/objtree"
	"github.com/javanhut/ugit/internal/ugiterr"
)

// Manifest maps a relative path (forward-slash, no leading component
// elided) to the blob OID of its content. It is the canonical form
// exchanged with the Merge Planner.
type Manifest map[string]objstore.OID

// BuildTree scans dir non-recursively, skipping anything isIgnored
// classifies as ignored, and recurses into sub-directories. Regular
// files become blob entries; sub-directories become nested tree
// entries, computed once and reused (never recomputed). Symbolic links
// are not followed during classification — an entry that is neither a
// regular file nor a directory by its own (not target) type is skipped.
// An empty directory produces a tree with an empty payload.
func BuildTree(store *objstore.Store, dir string, isIgnored ignore.Predicate) (objstore.OID, error) {
	return buildTree(store, dir, "", isIgnored)
}

func buildTree(store *objstore.Store, dir, relPrefix string, isIgnored ignore.Predicate) (objstore.OID, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return "", ugiterr.Wrap(ugiterr.IOError, err, "scan directory %s", dir)
	}

	var entries []objtree.Entry
	for _, de := range dirEntries {
		rel := de.Name()
		if relPrefix != "" {
			rel = relPrefix + "/" + de.Name()
		}
		if isIgnored(rel) {
			continue
		}
		full := filepath.Join(dir, de.Name())
		switch {
		case de.Type().IsRegular():
			content, err := os.ReadFile(full)
			if err != nil {
				return "", ugiterr.Wrap(ugiterr.IOError, err, "read file %s", full)
			}
			oid, err := store.Put(objstore.TypeBlob, content)
			if err != nil {
				return "", err
			}
			entries = append(entries, objtree.Entry{Type: objtree.EntryBlob, OID: oid, Name: de.Name()})
		case de.IsDir():
			sub, err := buildTree(store, full, rel, isIgnored)
			if err != nil {
				return "", err
			}
			entries = append(entries, objtree.Entry{Type: objtree.EntryTree, OID: sub, Name: de.Name()})
		default:
			// symlinks and other non-regular entries: not tracked.
		}
	}

	return objtree.Put(store, entries)
}

// ReadManifest walks the tree named by oid recursively, prefixing entry
// names with their accumulated base path, and returns the path -> blob
// OID mapping.
func ReadManifest(store *objstore.Store, oid objstore.OID) (Manifest, error) {
	out := make(Manifest)
	if err := readManifestInto(store, oid, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func readManifestInto(store *objstore.Store, oid objstore.OID, prefix string, out Manifest) error {
	entries, err := objtree.Get(store, oid)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !objtree.ValidName(e.Name) {
			return ugiterr.New(ugiterr.BadTree, "tree %s: invalid entry name %q", oid, e.Name)
		}
		full := prefix + e.Name
		switch e.Type {
		case objtree.EntryBlob:
			out[full] = e.OID
		case objtree.EntryTree:
			if err := readManifestInto(store, e.OID, full+"/", out); err != nil {
				return err
			}
		default:
			return ugiterr.New(ugiterr.BadTree, "tree %s: unknown entry type for %q", oid, e.Name)
		}
	}
	return nil
}

// Materialize empties workDir (excluding ignored paths) and then writes
// every manifest entry, creating parent directories as needed. Deleting
// before writing makes checkout a pure function of the target tree: a
// file present in the working tree but absent from the manifest is
// guaranteed removed.
func Materialize(store *objstore.Store, workDir string, manifest Manifest, isIgnored ignore.Predicate) error {
	if err := emptyDir(workDir, workDir, isIgnored); err != nil {
		return err
	}

	paths := make([]string, 0, len(manifest))
	for p := range manifest {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		oid := manifest[p]
		content, _, err := store.Get(oid, objstore.TypeBlob)
		if err != nil {
			return err
		}
		full := filepath.Join(workDir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return ugiterr.Wrap(ugiterr.IOError, err, "create parent dirs for %s", p)
		}
		if err := os.WriteFile(full, content, 0o644); err != nil {
			return ugiterr.Wrap(ugiterr.IOError, err, "write %s", p)
		}
	}
	return nil
}

// emptyDir removes every non-ignored entry under dir, recursing into
// sub-directories first. Directory removal is best-effort: a directory
// left non-empty by ignored residue (e.g. ".ugit") is tolerated
// silently. File removal failures other than "already gone" propagate.
func emptyDir(root, dir string, isIgnored ignore.Predicate) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return ugiterr.Wrap(ugiterr.IOError, err, "scan directory %s", dir)
	}

	for _, de := range entries {
		full := filepath.Join(dir, de.Name())
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return ugiterr.Wrap(ugiterr.IOError, err, "resolve relative path for %s", full)
		}
		if isIgnored(filepath.ToSlash(rel)) {
			continue
		}
		if de.IsDir() {
			if err := emptyDir(root, full, isIgnored); err != nil {
				return err
			}
			_ = os.Remove(full) // best-effort; non-empty residual tolerated
			continue
		}
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return ugiterr.Wrap(ugiterr.IOError, err, "remove %s", full)
		}
	}
	return nil
}
