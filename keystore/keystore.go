// Package keystore persists provider key material at rest.
//
// Each key is a metadata record plus a sealed private-material blob. Blobs
// are stored content-addressed (CIDv1, raw + sha2-256) and re-verified
// against their CID on every load, so on-disk corruption or tampering
// surfaces as ErrCorrupted instead of bad key material flowing into a
// signature. Private material is sealed with chacha20poly1305 under a key
// derived from the store secret; metadata and public keys are plaintext.
package keystore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"keyward.io/keyward/operations"
)

// Record is one stored key. Private holds the raw private material in
// whatever format the key type dictates; it is only ever plaintext in
// memory.
type Record struct {
	Name       string
	Attributes operations.KeyAttributes
	Public     []byte
	Private    []byte
}

// Store is a filesystem-backed keystore rooted at a single directory.
// Methods are safe for concurrent use on distinct key names; the
// filesystem provides the only synchronization for concurrent writes to
// the same name (creation is O_EXCL).
type Store struct {
	root string
	aead aeadSealer
}

// Open creates or opens a keystore rooted at root. The secret seeds the
// sealing key through HKDF-SHA256; opening an existing store with a
// different secret makes every private blob unreadable (ErrCorrupted).
func Open(root string, secret []byte) (*Store, error) {
	if root == "" {
		return nil, errors.New("keystore: root directory is required")
	}
	if len(secret) == 0 {
		return nil, errors.New("keystore: store secret is required")
	}
	for _, dir := range []string{keysDir(root), objectsDir(root)} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, err
		}
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte("keyward keystore v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &Store{root: root, aead: aeadSealer{aead}}, nil
}

func keysDir(root string) string    { return filepath.Join(root, "keys") }
func objectsDir(root string) string { return filepath.Join(root, "objects") }

func (s *Store) metaPath(name string) string {
	// Key names are caller-supplied; encode them so they cannot escape the
	// store directory or collide on case-insensitive filesystems.
	return filepath.Join(keysDir(s.root), hex.EncodeToString([]byte(name))+".json")
}

type recordMeta struct {
	Name        string                   `json:"name"`
	Attributes  operations.KeyAttributes `json:"attributes"`
	Public      []byte                   `json:"public_key"`
	Fingerprint string                   `json:"fingerprint"`
	SealedCID   string                   `json:"sealed_cid"`
}

// Put stores a new key. A key with the same name must not already exist.
func (s *Store) Put(rec Record) error {
	if rec.Name == "" {
		return errors.New("keystore: key name is required")
	}
	sealed, err := s.aead.seal(rec.Private)
	if err != nil {
		return err
	}
	id, err := s.putBlob(sealed)
	if err != nil {
		return err
	}

	meta := recordMeta{
		Name:        rec.Name,
		Attributes:  rec.Attributes,
		Public:      rec.Public,
		Fingerprint: Fingerprint(rec.Public),
		SealedCID:   id.String(),
	}
	data, err := json.Marshal(&meta)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.metaPath(rec.Name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return ErrExists
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(s.metaPath(rec.Name))
		return err
	}
	return f.Close()
}

// Get loads a key by name, verifying blob integrity and unsealing the
// private material.
func (s *Store) Get(name string) (Record, error) {
	data, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var meta recordMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if _, err := operations.KeyTypeFromWire(uint32(meta.Attributes.KeyType)); err != nil {
		return Record{}, fmt.Errorf("%w: bad key type in metadata", ErrCorrupted)
	}

	id, err := cid.Decode(meta.SealedCID)
	if err != nil || !id.Defined() {
		return Record{}, fmt.Errorf("%w: bad sealed blob reference", ErrCorrupted)
	}
	sealed, err := s.getBlob(id)
	if err != nil {
		return Record{}, err
	}
	private, err := s.aead.open(sealed)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Name:       meta.Name,
		Attributes: meta.Attributes,
		Public:     meta.Public,
		Private:    private,
	}, nil
}

// Has reports whether a key with the given name exists.
func (s *Store) Has(name string) bool {
	_, err := os.Stat(s.metaPath(name))
	return err == nil
}

// Delete removes a key's metadata and its sealed blob.
func (s *Store) Delete(name string) error {
	data, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	var meta recordMeta
	if err := json.Unmarshal(data, &meta); err == nil {
		if id, cidErr := cid.Decode(meta.SealedCID); cidErr == nil {
			_ = s.deleteBlob(id)
		}
	}
	return os.Remove(s.metaPath(name))
}

// List returns the stored key names in sorted order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(keysDir(s.root))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		hexName, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok {
			continue
		}
		name, err := hex.DecodeString(hexName)
		if err != nil {
			continue
		}
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names, nil
}

// Fingerprint returns the sha2-256 multihash of public key material in
// base58 form, or "" for empty material.
func Fingerprint(pub []byte) string {
	if len(pub) == 0 {
		return ""
	}
	sum, err := multihash.Sum(pub, multihash.SHA2_256, -1)
	if err != nil {
		// Unreachable with SHA2_256 and default length.
		return ""
	}
	return sum.B58String()
}
