// Package objcommit implements the commit object codec: a header block
// (tree, zero-or-more parents), a blank line, and a verbatim message.
package objcommit

import (
	"bytes"
	"strings"

	"github.com/javanhut/ugit/internal/objstore"
	"github.com/javanhut/ugit/internal/ugiterr"
)

// Commit is a parsed commit payload. Parents are owned values, not
// back-pointers: the DAG is reconstructed by walking the object store,
// never by following in-memory pointers.
type Commit struct {
	Tree    objstore.OID
	Parents []objstore.OID
	Message string
}

// Format renders c as a commit payload. The first parent (if any) is the
// previous HEAD at commit time; a second parent, when present, is the
// commit merged in. Message is written exactly as given — callers that
// want a trailing newline after the message append it themselves before
// calling Format.
func Format(c Commit) []byte {
	var buf bytes.Buffer
	buf.WriteString("tree ")
	buf.WriteString(string(c.Tree))
	buf.WriteByte('\n')
	for _, p := range c.Parents {
		buf.WriteString("parent ")
		buf.WriteString(string(p))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// Parse splits payload at the first blank line, reading header keys
// "tree" and "parent" (any other header key fails with BadCommit) and
// taking everything after the blank line as the message, verbatim.
func Parse(payload []byte) (Commit, error) {
	sep := bytes.Index(payload, []byte("\n\n"))
	if sep < 0 {
		return Commit{}, ugiterr.New(ugiterr.BadCommit, "missing header/message separator")
	}
	header := string(payload[:sep])
	message := string(payload[sep+2:])

	var c Commit
	if header != "" {
		for _, line := range strings.Split(header, "\n") {
			if line == "" {
				continue
			}
			parts := strings.SplitN(line, " ", 2)
			if len(parts) != 2 {
				return Commit{}, ugiterr.New(ugiterr.BadCommit, "malformed header line %q", line)
			}
			key, value := parts[0], parts[1]
			switch key {
			case "tree":
				c.Tree = objstore.OID(value)
			case "parent":
				c.Parents = append(c.Parents, objstore.OID(value))
			default:
				return Commit{}, ugiterr.New(ugiterr.BadCommit, "unknown header key %q", key)
			}
		}
	}
	c.Message = message
	return c, nil
}

// Put formats c and stores it as a commit object, returning its OID.
func Put(store *objstore.Store, c Commit) (objstore.OID, error) {
	return store.Put(objstore.TypeCommit, Format(c))
}

// Get loads and parses the commit object named by oid.
func Get(store *objstore.Store, oid objstore.OID) (Commit, error) {
	payload, _, err := store.Get(oid, objstore.TypeCommit)
	if err != nil {
		return Commit{}, err
	}
	return Parse(payload)
}
