// Package objstore implements the content-addressed object store: the
// leaf component everything else in ugit is built on. An object is an
// immutable framed byte record keyed by the SHA-1 digest of its own
// framing, written once under objects/<oid> and never modified.
//
// Alongside the loose object files — which remain the sole authority —
// the store keeps a bbolt side index (objects.idx) recording a BLAKE3-256
// digest per object and its insertion order. The index accelerates
// listing and backs VerifyIntegrity's second,
// independent tripwire against bit-rot; deleting it never breaks Put/Get.
package objstore

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"go.etcd.io/bbolt"
	"lukechampine.com/blake3"

	"github.com/javanhut/ugit/internal/ugiterr"
)

// Type is the ascii object-type tag in an object's framing.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
)

// OID is a 40-character lowercase hex SHA-1 digest identifying an object.
type OID string

// IsValid reports whether o looks like a well-formed OID (syntactic check
// only; does not consult the store).
func (o OID) IsValid() bool {
	if len(o) != 40 {
		return false
	}
	for _, c := range o {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func (o OID) String() string { return string(o) }

var (
	bucketDigests = []byte("oid->blake3")
	bucketOrder   = []byte("insertion-order")
)

// Store is the object store rooted at a repository's objects directory.
type Store struct {
	dir string
	db  *bbolt.DB
}

// Open opens (creating if absent) the object store rooted at repoDir
// (the ".ugit" directory). It creates objects/ and the bbolt side index
// if they do not already exist.
func Open(repoDir string) (*Store, error) {
	dir := filepath.Join(repoDir, "objects")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "create objects dir")
	}
	db, err := bbolt.Open(filepath.Join(repoDir, "objects.idx"), 0o644, nil)
	if err != nil {
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "open object index")
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, e := tx.CreateBucketIfNotExists(bucketDigests); e != nil {
			return e
		}
		if _, e := tx.CreateBucketIfNotExists(bucketOrder); e != nil {
			return e
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "init object index buckets")
	}
	return &Store{dir: dir, db: db}, nil
}

// Close releases the side index's file handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func frame(typ Type, payload []byte) []byte {
	out := make([]byte, 0, len(typ)+1+len(payload))
	out = append(out, []byte(typ)...)
	out = append(out, 0x00)
	out = append(out, payload...)
	return out
}

// Put frames payload as "<type> NUL <payload>", hashes the framed record
// with SHA-1, writes it (zstd-compressed) under objects/<oid>, and returns
// the OID. Put is idempotent: storing the same (type, payload) pair twice
// yields the same OID and the same stored bytes.
func (s *Store) Put(typ Type, payload []byte) (OID, error) {
	rec := frame(typ, payload)
	sum := sha1.Sum(rec)
	oid := OID(hex.EncodeToString(sum[:]))

	path := filepath.Join(s.dir, string(oid))
	if _, err := os.Stat(path); err == nil {
		return oid, s.indexDigest(oid, rec)
	}

	compressed, err := compress(rec)
	if err != nil {
		return "", ugiterr.Wrap(ugiterr.IOError, err, "compress object %s", oid)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return "", ugiterr.Wrap(ugiterr.IOError, err, "write object %s", oid)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", ugiterr.Wrap(ugiterr.IOError, err, "finalize object %s", oid)
	}
	if err := s.indexDigest(oid, rec); err != nil {
		return "", err
	}
	return oid, nil
}

func (s *Store) indexDigest(oid OID, rec []byte) error {
	digest := blake3.Sum256(rec)
	return s.db.Update(func(tx *bbolt.Tx) error {
		digests := tx.Bucket(bucketDigests)
		if digests.Get([]byte(oid)) == nil {
			if err := digests.Put([]byte(oid), digest[:]); err != nil {
				return err
			}
			order := tx.Bucket(bucketOrder)
			seq, err := order.NextSequence()
			if err != nil {
				return err
			}
			var key [8]byte
			binary.BigEndian.PutUint64(key[:], seq)
			if err := order.Put(key[:], []byte(oid)); err != nil {
				return err
			}
		}
		return nil
	})
}

// readFramed loads and decompresses the raw framed record for oid.
func (s *Store) readFramed(oid OID) ([]byte, error) {
	path := filepath.Join(s.dir, string(oid))
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ugiterr.New(ugiterr.NotFound, "object %s", oid)
		}
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "read object %s", oid)
	}
	rec, err := decompress(raw)
	if err != nil {
		return nil, ugiterr.Wrap(ugiterr.Corrupt, err, "decompress object %s", oid)
	}
	return rec, nil
}

// Get loads the object named by oid, splits its framing, and returns the
// payload. If expected is non-empty, the object's type must match or
// BadType is returned.
func (s *Store) Get(oid OID, expected Type) ([]byte, Type, error) {
	rec, err := s.readFramed(oid)
	if err != nil {
		return nil, "", err
	}
	sep := bytes.IndexByte(rec, 0x00)
	if sep < 0 {
		return nil, "", ugiterr.New(ugiterr.Corrupt, "object %s: missing NUL separator", oid)
	}
	typ := Type(rec[:sep])
	payload := rec[sep+1:]
	if expected != "" && typ != expected {
		return nil, "", ugiterr.New(ugiterr.BadType, "object %s: expected %s, got %s", oid, expected, typ)
	}
	return payload, typ, nil
}

// Has reports whether oid exists in the store.
func (s *Store) Has(oid OID) bool {
	_, err := os.Stat(filepath.Join(s.dir, string(oid)))
	return err == nil
}

// ListAll returns every OID in the store, oldest-inserted first, using
// the bbolt insertion-order index. Falls back to an unordered directory
// scan if the index has no entries for some reason (e.g. rebuilt repo).
func (s *Store) ListAll() ([]OID, error) {
	var out []OID
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketOrder).ForEach(func(_, v []byte) error {
			out = append(out, OID(v))
			return nil
		})
	})
	if err != nil {
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "list objects from index")
	}
	if len(out) > 0 {
		return out, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, ugiterr.Wrap(ugiterr.IOError, err, "scan objects dir")
	}
	for _, e := range entries {
		if !e.IsDir() && OID(e.Name()).IsValid() {
			out = append(out, OID(e.Name()))
		}
	}
	return out, nil
}

// IntegrityReport describes the outcome of VerifyAll.
type IntegrityReport struct {
	Checked        int
	MissingDigest  []OID // in loose storage but absent from the bbolt index
	CorruptObjects []OID // SHA-1 of stored bytes no longer matches filename, or decompress failed
	DigestMismatch []OID // BLAKE3 digest differs from the one recorded at Put time
}

// VerifyAll recomputes the SHA-1 and BLAKE3 digests of every loose object
// and cross-checks them against the filename and the bbolt side index.
func (s *Store) VerifyAll() (*IntegrityReport, error) {
	oids, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	report := &IntegrityReport{}
	for _, oid := range oids {
		report.Checked++
		rec, err := s.readFramed(oid)
		if err != nil {
			report.CorruptObjects = append(report.CorruptObjects, oid)
			continue
		}
		sum := sha1.Sum(rec)
		if OID(hex.EncodeToString(sum[:])) != oid {
			report.CorruptObjects = append(report.CorruptObjects, oid)
			continue
		}
		want := blake3.Sum256(rec)
		var got []byte
		_ = s.db.View(func(tx *bbolt.Tx) error {
			got = tx.Bucket(bucketDigests).Get([]byte(oid))
			return nil
		})
		if got == nil {
			report.MissingDigest = append(report.MissingDigest, oid)
		} else if !bytes.Equal(got, want[:]) {
			report.DigestMismatch = append(report.DigestMismatch, oid)
		}
	}
	return report, nil
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(b); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	r, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := r.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
