// Package merge implements the Merge Planner: locating the merge base of
// two commits via the History Walker, and producing a merged tree
// manifest from a three-way per-path combine of two tree manifests
// against their base.
package merge

import (
	"os"
	"path/filepath"

	"github.com/javanhut/ugit/internal/difftool"
	"github.com/javanhut/ugit/internal/historywalk"
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/ugiterr"
	"github.com/javanhut/ugit/internal/worktree"
)

// Base computes the set of all ancestors of a, then walks b's ancestry in
// walk order, returning the first OID that appears in a's ancestor set.
// Returns the null (empty) OID, not an error, if the histories are
// unrelated.
func Base(walker *historywalk.Walker, a, b objstore.OID) (objstore.OID, error) {
	ancestorsOfA, err := walker.AncestorSet([]objstore.OID{a})
	if err != nil {
		return "", err
	}

	var base objstore.OID
	err = walker.WalkFunc([]objstore.OID{b}, func(oid objstore.OID) (bool, error) {
		if ancestorsOfA[oid] {
			base = oid
			return false, nil
		}
		return true, nil
	})
	return base, err
}

// DefaultTool names the external three-way merge utility used when none
// is configured. "merge" is the conventional RCS three-way file merge:
// it takes "<ours> <base> <theirs>", rewrites <ours> in place, and exits
// 0 on a clean merge or 1 when conflicts remain.
const DefaultTool = "merge"

// Trees combines head, other and base tree manifests path-by-path. For
// each path in the union of all three manifests: unchanged-on-one-side
// paths resolve without invoking the external tool; paths changed on
// both sides relative to base go through a three-way content merge via
// the configured tool. Returns the merged manifest and whether any path
// produced a conflict.
func Trees(store *objstore.Store, tool string, head, other, base worktree.Manifest) (worktree.Manifest, bool, error) {
	if tool == "" {
		tool = DefaultTool
	}
	paths := make(map[string]struct{})
	for p := range head {
		paths[p] = struct{}{}
	}
	for p := range other {
		paths[p] = struct{}{}
	}
	for p := range base {
		paths[p] = struct{}{}
	}

	result := make(worktree.Manifest)
	anyConflict := false
	for p := range paths {
		h, o, b := head[p], other[p], base[p]
		switch {
		case h == o:
			if h != "" {
				result[p] = h
			}
		case b == h:
			if o != "" {
				result[p] = o
			}
		case b == o:
			if h != "" {
				result[p] = h
			}
		default:
			mergedOID, conflict, err := mergeContent(store, tool, h, b, o)
			if err != nil {
				return nil, false, err
			}
			result[p] = mergedOID
			if conflict {
				anyConflict = true
			}
		}
	}
	return result, anyConflict, nil
}

func mergeContent(store *objstore.Store, tool string, headOID, baseOID, otherOID objstore.OID) (objstore.OID, bool, error) {
	dir, err := os.MkdirTemp("", "ugit-merge-*")
	if err != nil {
		return "", false, ugiterr.Wrap(ugiterr.IOError, err, "create merge scratch dir")
	}
	defer os.RemoveAll(dir)

	oursPath := filepath.Join(dir, "ours")
	basePath := filepath.Join(dir, "base")
	theirsPath := filepath.Join(dir, "theirs")
	if err := writeSide(store, headOID, oursPath); err != nil {
		return "", false, err
	}
	if err := writeSide(store, baseOID, basePath); err != nil {
		return "", false, err
	}
	if err := writeSide(store, otherOID, theirsPath); err != nil {
		return "", false, err
	}

	res, err := difftool.ThreeWayMerge(tool, oursPath, basePath, theirsPath, dir)
	if err != nil {
		return "", false, err
	}

	content, err := os.ReadFile(oursPath)
	if err != nil {
		return "", false, ugiterr.Wrap(ugiterr.IOError, err, "read merge result")
	}
	oid, err := store.Put(objstore.TypeBlob, content)
	if err != nil {
		return "", false, err
	}
	return oid, !res.Clean(), nil
}

func writeSide(store *objstore.Store, oid objstore.OID, path string) error {
	var content []byte
	if oid != "" {
		c, _, err := store.Get(oid, objstore.TypeBlob)
		if err != nil {
			return err
		}
		content = c
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return ugiterr.Wrap(ugiterr.IOError, err, "write merge scratch file %s", path)
	}
	return nil
}
