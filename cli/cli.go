// Package cli is the thin §6 command-line adapter over the core: it
// parses arguments, opens a repository, calls into internal/repo, and
// prints. It owns no object-store or ref-store logic itself.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "ugit",
	Short: "ugit is a minimal content-addressed version control engine",
	Long:  "ugit records directory snapshots as immutable objects, organizes them into a commit DAG, and supports branching, tagging, checkout, and three-way merge.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if version {
			fmt.Printf("ugit version %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

var version bool

// Execute runs the root command. Any error is printed to stderr as a
// single line and the process exits with status 1, whatever its kind.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&version, "version", false, "print the ugit version")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(hashObjectCmd)
	rootCmd.AddCommand(catFileCmd)
	rootCmd.AddCommand(writeTreeCmd)
	rootCmd.AddCommand(readTreeCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(kCmd)
	rootCmd.AddCommand(fsckCmd)
	rootCmd.AddCommand(configCmd)
}
