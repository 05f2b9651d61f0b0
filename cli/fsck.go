package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/colors"
)

var fsckCmd = &cobra.Command{
	Use:   "fsck",
	Short: "Verify object digests and ref targets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		report, err := r.VerifyIntegrity()
		if err != nil {
			return err
		}

		fmt.Printf("checked %d objects\n", report.Objects.Checked)
		for _, oid := range report.Objects.MissingDigest {
			fmt.Println(colors.Yellow(fmt.Sprintf("no blake3 digest recorded: %s", oid)))
		}
		for _, oid := range report.Objects.CorruptObjects {
			fmt.Println(colors.Conflict(fmt.Sprintf("corrupt object: %s", oid)))
		}
		for _, oid := range report.Objects.DigestMismatch {
			fmt.Println(colors.Conflict(fmt.Sprintf("blake3 digest mismatch: %s", oid)))
		}
		for _, name := range report.DanglingRefs {
			fmt.Println(colors.Conflict(fmt.Sprintf("dangling ref: %s", name)))
		}

		clean := len(report.Objects.MissingDigest) == 0 &&
			len(report.Objects.CorruptObjects) == 0 &&
			len(report.Objects.DigestMismatch) == 0 &&
			len(report.DanglingRefs) == 0
		if !clean {
			return fmt.Errorf("fsck found integrity problems")
		}
		fmt.Println(colors.Clean("ok"))
		return nil
	},
}
