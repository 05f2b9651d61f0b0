// Package repo wires the core components together into the operations
// a front-end actually drives: init, commit, checkout, branch, tag,
// merge, reset, and integrity verification. It owns the repository
// directory layout described in spec §6.
package repo

import (
	"os"
	"path/filepath"

	"github.com/javanhut/ugit/internal/config"
	"github.com/javanhut/ugit/internal/historywalk"
	"github.com/javanhut/ugit/internal/ignore"
	"github.com/javanhut/ugit/internal/merge"
	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/refstore"
	"github.com/javanhut/ugit/internal/resolve"
	"github.com/javanhut/ugit/internal/ugiterr"
	"github.com/javanhut/ugit/internal/worktree"
)

// DirName is the repository directory's name under the working tree.
const DirName = ".ugit"

// Repository is an open ugit repository: a working directory paired
// with its object store and reference namespace.
type Repository struct {
	WorkDir string
	RepoDir string // WorkDir/.ugit

	Objects *objstore.Store
	Refs    *refstore.Store
	Walker  *historywalk.Walker

	Ignore ignore.Predicate
	Tool   string // external three-way merge tool name
}

// Init creates a new repository rooted at workDir. HEAD is left
// symbolic, pointing at refs/heads/main, even though that branch does
// not exist yet — the "unborn branch" state.
func Init(workDir string) (*Repository, error) {
	repoDir := filepath.Join(workDir, DirName)
	if _, err := os.Stat(repoDir); err == nil {
		return nil, ugiterr.New(ugiterr.IOError, "repository already exists at %s", repoDir)
	}
	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "create repository directory")
	}

	objects, err := objstore.Open(repoDir)
	if err != nil {
		return nil, err
	}
	refs := refstore.Open(repoDir)
	if err := refs.Update("HEAD", refstore.Sym("refs/heads/main"), false); err != nil {
		objects.Close()
		return nil, err
	}

	return &Repository{
		WorkDir: workDir,
		RepoDir: repoDir,
		Objects: objects,
		Refs:    refs,
		Walker:  historywalk.New(objects),
		Ignore:  ignore.Default,
		Tool:    mergeTool(repoDir),
	}, nil
}

// Open opens an existing repository rooted at workDir.
func Open(workDir string) (*Repository, error) {
	repoDir := filepath.Join(workDir, DirName)
	if info, err := os.Stat(repoDir); err != nil || !info.IsDir() {
		return nil, ugiterr.New(ugiterr.NotFound, "no repository at %s", repoDir)
	}
	objects, err := objstore.Open(repoDir)
	if err != nil {
		return nil, err
	}
	refs := refstore.Open(repoDir)
	return &Repository{
		WorkDir: workDir,
		RepoDir: repoDir,
		Objects: objects,
		Refs:    refs,
		Walker:  historywalk.New(objects),
		Ignore:  ignore.Default,
		Tool:    mergeTool(repoDir),
	}, nil
}

// mergeTool resolves the external three-way merge tool to use: the
// layered (global then repo) core.tool config value if set, else
// merge.DefaultTool. Config load errors are not fatal here — a missing
// or unreadable config simply falls back to the default tool.
func mergeTool(repoDir string) string {
	cfg, err := config.Load(repoDir)
	if err != nil || cfg.Core.Tool == "" {
		return merge.DefaultTool
	}
	return cfg.Core.Tool
}

// Close releases the object store's side-index handle.
func (r *Repository) Close() error { return r.Objects.Close() }

// Resolve maps name to an OID via the Name Resolver.
func (r *Repository) Resolve(name string) (objstore.OID, error) {
	return resolve.Resolve(r.Refs, name)
}

// Commit snapshots the working directory, reads HEAD and MERGE_HEAD,
// emits a commit object (tree, then parent HEAD if it resolves, then
// parent MERGE_HEAD if a merge is pending), advances HEAD, and — if a
// merge was pending — removes MERGE_HEAD once the commit is durable.
func (r *Repository) Commit(message string) (objstore.OID, error) {
	treeOID, err := worktree.BuildTree(r.Objects, r.WorkDir, r.Ignore)
	if err != nil {
		return "", err
	}

	headVal, err := r.Refs.Get("HEAD", true)
	if err != nil {
		return "", err
	}
	mergeVal, err := r.Refs.Get("MERGE_HEAD", false)
	if err != nil {
		return "", err
	}

	var parents []objstore.OID
	if !headVal.IsNull() {
		parents = append(parents, objstore.OID(headVal.Value))
	}
	hadMerge := !mergeVal.IsNull()
	if hadMerge {
		parents = append(parents, objstore.OID(mergeVal.Value))
	}

	oid, err := objcommit.Put(r.Objects, objcommit.Commit{
		Tree:    treeOID,
		Parents: parents,
		Message: message + "\n",
	})
	if err != nil {
		return "", err
	}

	if err := r.Refs.Update("HEAD", refstore.Direct(string(oid)), true); err != nil {
		return "", err
	}

	if hadMerge {
		if err := r.Refs.Delete("MERGE_HEAD", false); err != nil && !isNotFound(err) {
			return "", err
		}
	}

	return oid, nil
}

// Checkout resolves name, materializes its commit's tree into the
// working directory, then updates HEAD: symbolically (deref=false) if
// name names an existing branch, or as a direct OID (detached HEAD)
// otherwise.
func (r *Repository) Checkout(name string) error {
	oid, err := r.Resolve(name)
	if err != nil {
		return err
	}
	c, err := objcommit.Get(r.Objects, oid)
	if err != nil {
		return err
	}
	manifest, err := worktree.ReadManifest(r.Objects, c.Tree)
	if err != nil {
		return err
	}
	if err := worktree.Materialize(r.Objects, r.WorkDir, manifest, r.Ignore); err != nil {
		return err
	}

	branchRef := "refs/heads/" + name
	if rv, err := r.Refs.Get(branchRef, false); err != nil {
		return err
	} else if !rv.IsNull() {
		return r.Refs.Update("HEAD", refstore.Sym(branchRef), false)
	}
	return r.Refs.Update("HEAD", refstore.Direct(string(oid)), false)
}

// CreateBranch writes refs/heads/<name> as a direct ref to oid.
func (r *Repository) CreateBranch(name string, oid objstore.OID) error {
	return r.Refs.Update("refs/heads/"+name, refstore.Direct(string(oid)), false)
}

// CreateTag writes refs/tags/<name> as a direct ref to oid.
func (r *Repository) CreateTag(name string, oid objstore.OID) error {
	return r.Refs.Update("refs/tags/"+name, refstore.Direct(string(oid)), false)
}

// Reset overwrites HEAD's terminal target (following symbolic
// indirection) to oid.
func (r *Repository) Reset(oid objstore.OID) error {
	return r.Refs.Update("HEAD", refstore.Direct(string(oid)), true)
}

// Merge locates the merge base of HEAD and the incoming commit named by
// name, combines the three tree manifests, materializes the result, and
// records MERGE_HEAD so a subsequent Commit embeds two parents.
// Recording MERGE_HEAD before materializing lets a crashed merge be
// recognized on the next commit.
func (r *Repository) Merge(name string) (conflict bool, err error) {
	incoming, err := r.Resolve(name)
	if err != nil {
		return false, err
	}
	headVal, err := r.Refs.Get("HEAD", true)
	if err != nil {
		return false, err
	}
	if headVal.IsNull() {
		return false, ugiterr.New(ugiterr.UnknownName, "HEAD: unborn branch has nothing to merge into")
	}
	headOID := objstore.OID(headVal.Value)

	baseOID, err := merge.Base(r.Walker, headOID, incoming)
	if err != nil {
		return false, err
	}

	headCommit, err := objcommit.Get(r.Objects, headOID)
	if err != nil {
		return false, err
	}
	otherCommit, err := objcommit.Get(r.Objects, incoming)
	if err != nil {
		return false, err
	}

	headManifest, err := worktree.ReadManifest(r.Objects, headCommit.Tree)
	if err != nil {
		return false, err
	}
	otherManifest, err := worktree.ReadManifest(r.Objects, otherCommit.Tree)
	if err != nil {
		return false, err
	}
	var baseManifest worktree.Manifest
	if baseOID != "" {
		baseCommit, err := objcommit.Get(r.Objects, baseOID)
		if err != nil {
			return false, err
		}
		baseManifest, err = worktree.ReadManifest(r.Objects, baseCommit.Tree)
		if err != nil {
			return false, err
		}
	} else {
		baseManifest = worktree.Manifest{}
	}

	merged, conflict, err := merge.Trees(r.Objects, r.Tool, headManifest, otherManifest, baseManifest)
	if err != nil {
		return false, err
	}

	if err := r.Refs.Update("MERGE_HEAD", refstore.Direct(string(incoming)), false); err != nil {
		return false, err
	}

	if err := worktree.Materialize(r.Objects, r.WorkDir, merged, r.Ignore); err != nil {
		return false, err
	}

	return conflict, nil
}

// VerificationReport summarizes VerifyIntegrity's findings across the
// object store and the reference namespace.
type VerificationReport struct {
	Objects      *objstore.IntegrityReport
	DanglingRefs []string // refs whose dereferenced target does not exist as an object
}

// VerifyIntegrity recomputes every stored object's digests and checks
// that every non-null ref resolves to an object actually present in the
// store.
func (r *Repository) VerifyIntegrity() (*VerificationReport, error) {
	objReport, err := r.Objects.VerifyAll()
	if err != nil {
		return nil, err
	}

	entries, err := r.Refs.Iter("", true)
	if err != nil {
		return nil, err
	}
	report := &VerificationReport{Objects: objReport}
	for _, e := range entries {
		if e.Value.IsNull() {
			continue
		}
		oid := objstore.OID(e.Value.Value)
		if !oid.IsValid() || !r.Objects.Has(oid) {
			report.DanglingRefs = append(report.DanglingRefs, e.Name)
		}
	}
	return report, nil
}

func isNotFound(err error) bool {
	k, ok := ugiterr.KindOf(err)
	return ok && k == ugiterr.NotFound
}
