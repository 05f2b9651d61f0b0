package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/difftool"
	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/repo"
	"github.com/javanhut/ugit/internal/ugiterr"
	"github.com/javanhut/ugit/internal/worktree"
)

var diffTool string

var diffCmd = &cobra.Command{
	Use:   "diff <old> <new> <path>",
	Short: "Show a unified diff of <path> between two trees or commits",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		path := args[2]
		oldBlob, err := resolvePathBlob(r, args[0], path)
		if err != nil {
			return err
		}
		newBlob, err := resolvePathBlob(r, args[1], path)
		if err != nil {
			return err
		}

		tool := r.Tool
		if diffTool != "" {
			tool = diffTool
		}

		scratch, err := os.MkdirTemp("", "ugit-diff-*")
		if err != nil {
			return fmt.Errorf("create scratch dir: %w", err)
		}
		defer os.RemoveAll(scratch)

		oldPath := filepath.Join(scratch, "old")
		newPath := filepath.Join(scratch, "new")
		if err := writeBlob(r, oldBlob, oldPath); err != nil {
			return err
		}
		if err := writeBlob(r, newBlob, newPath); err != nil {
			return err
		}

		res, err := difftool.UnifiedDiff(tool, oldPath, newPath, scratch)
		if err != nil {
			return err
		}
		os.Stdout.Write(res.Output)
		return nil
	},
}

func init() {
	diffCmd.Flags().StringVar(&diffTool, "tool", "", "external unified-diff tool to use (overrides core.tool)")
}

// resolvePathBlob resolves name to a commit or tree, then looks up path's
// blob OID in its manifest. A null OID (ugiterr.NotFound) means path did
// not exist at name.
func resolvePathBlob(r *repo.Repository, name, path string) (objstore.OID, error) {
	oid, err := r.Resolve(name)
	if err != nil {
		return "", err
	}

	treeOID := oid
	if _, _, err := r.Objects.Get(oid, objstore.TypeCommit); err == nil {
		c, err := objcommit.Get(r.Objects, oid)
		if err != nil {
			return "", err
		}
		treeOID = c.Tree
	}

	manifest, err := worktree.ReadManifest(r.Objects, treeOID)
	if err != nil {
		return "", err
	}
	blobOID, ok := manifest[path]
	if !ok {
		return "", ugiterr.New(ugiterr.NotFound, "%s: no such path in %s", path, name)
	}
	return blobOID, nil
}

func writeBlob(r *repo.Repository, oid objstore.OID, dest string) error {
	payload, _, err := r.Objects.Get(oid, objstore.TypeBlob)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, payload, 0o644)
}
