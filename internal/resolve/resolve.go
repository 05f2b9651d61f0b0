// Package resolve implements the Name Resolver: mapping a user-supplied
// name (branch, tag, "@", or raw OID) to an object identifier.
package resolve

import (
	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/refstore"
	"github.com/javanhut/ugit/internal/ugiterr"
)

// Resolve maps name to an OID, trying in order: "@" substitutes HEAD;
// then the name itself, "refs/<name>", "refs/tags/<name>",
// "refs/heads/<name>" as ref paths (first whose dereferenced value is
// non-null wins — tags shadow branches, and an exact ref path given by
// the user wins over either); then, if name is 40 hex characters, it is
// returned as a literal OID. Otherwise fails with UnknownName.
func Resolve(refs *refstore.Store, name string) (objstore.OID, error) {
	if name == "@" {
		name = "HEAD"
	}

	candidates := []string{name, "refs/" + name, "refs/tags/" + name, "refs/heads/" + name}
	for _, c := range candidates {
		rv, err := refs.Get(c, true)
		if err != nil {
			return "", err
		}
		if !rv.IsNull() {
			return objstore.OID(rv.Value), nil
		}
	}

	if objstore.OID(name).IsValid() {
		return objstore.OID(name), nil
	}

	return "", ugiterr.New(ugiterr.UnknownName, "%q", name)
}
