package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/colors"
	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
)

var logCmd = &cobra.Command{
	Use:   "log [<name>]",
	Short: "List commits reachable from <name> (default @), newest first, first-parent line before merged-in branches",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		name := "@"
		if len(args) == 1 {
			name = args[0]
		}
		seed, err := r.Resolve(name)
		if err != nil {
			return err
		}

		return r.Walker.WalkFunc([]objstore.OID{seed}, func(oid objstore.OID) (bool, error) {
			c, err := objcommit.Get(r.Objects, oid)
			if err != nil {
				return false, err
			}
			firstLine := strings.SplitN(c.Message, "\n", 2)[0]
			fmt.Printf("commit %s\n", colors.Yellow(string(oid)))
			if len(c.Parents) == 2 {
				fmt.Println(colors.Gray(fmt.Sprintf("merge %s %s", c.Parents[0], c.Parents[1])))
			}
			fmt.Printf("    %s\n\n", firstLine)
			return true, nil
		})
	},
}
