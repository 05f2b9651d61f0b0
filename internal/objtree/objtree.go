// Package objtree implements the tree object codec: a directory listing
// serialized as UTF-8 text, one sorted line per entry. A tree is flat —
// sub-directories appear as sub-tree entries, never as nested names.
package objtree

import (
	"bytes"
	"sort"
	"strings"

	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/ugiterr"
)

// EntryType is the type tag of a tree entry: either a blob (file) or a
// nested tree (sub-directory).
type EntryType string

const (
	EntryBlob EntryType = "blob"
	EntryTree EntryType = "tree"
)

// Entry is one line of a tree object: "<type> SP <oid> SP <name>".
type Entry struct {
	Type EntryType
	OID  objstore.OID
	Name string
}

// ValidName reports whether name is usable as a tree entry name: no path
// separator, and not "." or "..".
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// Format renders entries as a canonical tree payload: sorted bytewise by
// name ascending, one "<type> SP <oid> SP <name> LF" line per entry.
// Sorting is always by raw bytes, never locale-aware, so the same
// directory contents produce the same bytes (and hence OID) everywhere.
func Format(entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	for _, e := range sorted {
		if !ValidName(e.Name) {
			return nil, ugiterr.New(ugiterr.BadName, "tree entry name %q", e.Name)
		}
		buf.WriteString(string(e.Type))
		buf.WriteByte(' ')
		buf.WriteString(string(e.OID))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Parse decodes a tree payload into its entries. Unknown entry types, and
// lines missing either separator, fail with BadTree.
func Parse(payload []byte) ([]Entry, error) {
	var out []Entry
	if len(payload) == 0 {
		return out, nil
	}
	lines := strings.Split(strings.TrimSuffix(string(payload), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, ugiterr.New(ugiterr.BadTree, "malformed entry line %q", line)
		}
		typ := EntryType(parts[0])
		if typ != EntryBlob && typ != EntryTree {
			return nil, ugiterr.New(ugiterr.BadTree, "unknown entry type %q", parts[0])
		}
		out = append(out, Entry{Type: typ, OID: objstore.OID(parts[1]), Name: parts[2]})
	}
	return out, nil
}

// Put formats entries and stores them as a tree object, returning its OID.
func Put(store *objstore.Store, entries []Entry) (objstore.OID, error) {
	payload, err := Format(entries)
	if err != nil {
		return "", err
	}
	return store.Put(objstore.TypeTree, payload)
}

// Get loads and parses the tree object named by oid.
func Get(store *objstore.Store, oid objstore.OID) ([]Entry, error) {
	payload, _, err := store.Get(oid, objstore.TypeTree)
	if err != nil {
		return nil, err
	}
	return Parse(payload)
}
