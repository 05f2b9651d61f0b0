package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/worktree"
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object <file>",
	Short: "Store a file as a blob object and print its OID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		oid, err := r.Objects.Put(objstore.TypeBlob, content)
		if err != nil {
			return err
		}
		fmt.Println(oid)
		return nil
	},
}

var catFileType string

var catFileCmd = &cobra.Command{
	Use:   "cat-file <name>",
	Short: "Print an object's payload bytes to stdout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		oid, err := r.Resolve(args[0])
		if err != nil {
			return err
		}
		payload, _, err := r.Objects.Get(oid, objstore.Type(catFileType))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(payload)
		return err
	},
}

var writeTreeCmd = &cobra.Command{
	Use:   "write-tree",
	Short: "Snapshot the current directory into the object store and print the tree OID",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		oid, err := worktree.BuildTree(r.Objects, r.WorkDir, r.Ignore)
		if err != nil {
			return err
		}
		fmt.Println(oid)
		return nil
	},
}

var readTreeCmd = &cobra.Command{
	Use:   "read-tree <name>",
	Short: "Materialize a tree or commit's tree into the working directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		oid, err := r.Resolve(args[0])
		if err != nil {
			return err
		}

		treeOID := oid
		if _, _, err := r.Objects.Get(oid, objstore.TypeCommit); err == nil {
			c, err := objcommit.Get(r.Objects, oid)
			if err != nil {
				return err
			}
			treeOID = c.Tree
		}

		manifest, err := worktree.ReadManifest(r.Objects, treeOID)
		if err != nil {
			return err
		}
		return worktree.Materialize(r.Objects, r.WorkDir, manifest, r.Ignore)
	},
}

func init() {
	catFileCmd.Flags().StringVarP(&catFileType, "type", "t", string(objstore.TypeBlob), "expected object type (blob, tree, commit)")
}
