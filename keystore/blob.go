package keystore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sealed blobs are stored content-addressed so a load can always prove it
// got back exactly the bytes that were stored.

func blobCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

func (s *Store) blobPath(id cid.Cid) string {
	str := id.String()
	if len(str) < 2 {
		return filepath.Join(objectsDir(s.root), str)
	}
	return filepath.Join(objectsDir(s.root), str[:2], str)
}

func (s *Store) putBlob(data []byte) (cid.Cid, error) {
	id, err := blobCID(data)
	if err != nil {
		return cid.Undef, err
	}
	path := s.blobPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return cid.Undef, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			// Content-addressed: an existing object with this CID holds the
			// same bytes, or Get will flag it as corrupted later.
			return id, nil
		}
		return cid.Undef, err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (s *Store) getBlob(id cid.Cid) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: sealed blob missing", ErrCorrupted)
		}
		return nil, err
	}
	got, err := blobCID(data)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, fmt.Errorf("%w: sealed blob does not match its CID", ErrCorrupted)
	}
	return data, nil
}

func (s *Store) deleteBlob(id cid.Cid) error {
	err := os.Remove(s.blobPath(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
