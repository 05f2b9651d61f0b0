// Package historywalk implements the History Walker: a breadth-oriented
// traversal of commit ancestry seeded with a set of OIDs. The walk
// maintains a visited set (not the full walk) and applies a specific
// parent-enqueue discipline — the first parent is pushed to the front of
// the queue, remaining parents are appended to the back — biasing
// traversal along the primary line of history before merged-in branches.
// This is what makes log output match user expectations and keeps the
// merge-base search in package merge deterministic.
package historywalk

import (
	"github.com/javanhut/ugit/internal/objcommit"
	"github.com/javanhut/ugit/internal/objstore"
)

// Walker walks the commit DAG reachable from a seed set via the object
// store's commit objects.
type Walker struct {
	store *objstore.Store
}

// New returns a Walker reading commits from store.
func New(store *objstore.Store) *Walker {
	return &Walker{store: store}
}

// VisitFunc is called once per reachable OID, in walk order. Returning
// cont=false stops the walk early without error.
type VisitFunc func(oid objstore.OID) (cont bool, err error)

// WalkFunc performs the walk, invoking visit for each non-null,
// not-yet-visited OID reachable from seeds. Null OIDs (empty string) are
// skipped, not visited. The walk terminates because the visited set
// prevents revisits and the DAG is finite.
func (w *Walker) WalkFunc(seeds []objstore.OID, visit VisitFunc) error {
	visited := make(map[objstore.OID]bool)
	deque := make([]objstore.OID, len(seeds))
	copy(deque, seeds)

	for len(deque) > 0 {
		oid := deque[0]
		deque = deque[1:]
		if oid == "" || visited[oid] {
			continue
		}
		visited[oid] = true

		cont, err := visit(oid)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}

		c, err := objcommit.Get(w.store, oid)
		if err != nil {
			return err
		}
		if len(c.Parents) == 0 {
			continue
		}
		first, rest := c.Parents[0], c.Parents[1:]
		next := make([]objstore.OID, 0, 1+len(deque)+len(rest))
		next = append(next, first)
		next = append(next, deque...)
		next = append(next, rest...)
		deque = next
	}
	return nil
}

// Walk runs WalkFunc to completion and returns the visited OIDs in walk
// order.
func (w *Walker) Walk(seeds []objstore.OID) ([]objstore.OID, error) {
	var out []objstore.OID
	err := w.WalkFunc(seeds, func(oid objstore.OID) (bool, error) {
		out = append(out, oid)
		return true, nil
	})
	return out, err
}

// AncestorSet returns the set of all OIDs reachable from seeds (including
// seeds themselves), i.e. their full ancestor set.
func (w *Walker) AncestorSet(seeds []objstore.OID) (map[objstore.OID]bool, error) {
	set := make(map[objstore.OID]bool)
	err := w.WalkFunc(seeds, func(oid objstore.OID) (bool, error) {
		set[oid] = true
		return true, nil
	})
	return set, err
}
