package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
)

// kCmd emits a Graphviz dot graph of every ref and reachable commit, the
// supplemented "k" command from the original Python tutorial project.
// DOT rendering itself is an out-of-scope collaborator (spec §1); this
// only formats the text a `dot` binary would consume.
var kCmd = &cobra.Command{
	Use:   "k",
	Short: "Print a Graphviz dot graph of refs and reachable commits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		defer r.Close()

		entries, err := r.Refs.Iter("", true)
		if err != nil {
			return err
		}

		var seeds []objstore.OID
		fmt.Println("digraph ugit {")
		for _, e := range entries {
			if e.Value.IsNull() {
				continue
			}
			oid := objstore.OID(e.Value.Value)
			seeds = append(seeds, oid)
			fmt.Printf("  %q [shape=note]\n", e.Name)
			fmt.Printf("  %q -> %q\n", e.Name, oid)
		}

		seen := make(map[objstore.OID]bool)
		err = r.Walker.WalkFunc(seeds, func(oid objstore.OID) (bool, error) {
			if seen[oid] {
				return true, nil
			}
			seen[oid] = true
			fmt.Printf("  %q [shape=box]\n", oid)
			c, err := objcommit.Get(r.Objects, oid)
			if err != nil {
				return false, err
			}
			for _, p := range c.Parents {
				fmt.Printf("  %q -> %q\n", oid, p)
			}
			return true, nil
		})
		if err != nil {
			return err
		}
		fmt.Println("}")
		return nil
	},
}
