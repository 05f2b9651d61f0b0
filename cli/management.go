package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/colors"
	"github.com/javanhut/ugit/internal/repo"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new ugit repository in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		r, err := repo.Init(workDir)
		if err != nil {
			return err
		}
		defer r.Close()
		fmt.Printf("Initialized empty ugit repository in %s\n", r.RepoDir)
		return nil
	},
}

var branchCmd = &cobra.Command{
	Use:   "branch <name> [<start>]",
	Short: "Create a branch pointing at <start> (default: HEAD)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		start := "@"
		if len(args) == 2 {
			start = args[1]
		}
		oid, err := r.Resolve(start)
		if err != nil {
			return err
		}
		if err := r.CreateBranch(args[0], oid); err != nil {
			return err
		}
		fmt.Printf("Branch %s -> %s\n", args[0], oid)
		return nil
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <name> [<oid>]",
	Short: "Create a tag pointing at <oid> (default: HEAD)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		target := "@"
		if len(args) == 2 {
			target = args[1]
		}
		oid, err := r.Resolve(target)
		if err != nil {
			return err
		}
		if err := r.CreateTag(args[0], oid); err != nil {
			return err
		}
		fmt.Printf("Tag %s -> %s\n", args[0], oid)
		return nil
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout <name>",
	Short: "Materialize the tree at <name> and move HEAD there",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()
		return r.Checkout(args[0])
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <oid>",
	Short: "Move HEAD's terminal target to <oid>",
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
		return r.Reset(oid)
	},
}

var mergeTool string

var mergeCmd = &cobra.Command{
	Use:   "merge <name>",
	Short: "Three-way merge <name> into HEAD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		if mergeTool != "" {
			r.Tool = mergeTool
		}

		conflict, err := r.Merge(args[0])
		if err != nil {
			return err
		}
		if conflict {
			fmt.Println(colors.Conflict("Automatic merge produced conflicts; resolve them and commit."))
		} else {
			fmt.Println(colors.Clean("Merged cleanly; commit to complete the merge."))
		}
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVar(&mergeTool, "tool", "", "external three-way merge tool to use (overrides core.tool)")
}

var commitMessage string

var commitCmd = &cobra.Command{
	Use:   "commit -m <msg>",
	Short: "Snapshot the working directory as a new commit",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		oid, err := r.Commit(commitMessage)
		if err != nil {
			return err
		}
		fmt.Println(oid)
		return nil
	},
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "commit message")
	commitCmd.MarkFlagRequired("message")
}
