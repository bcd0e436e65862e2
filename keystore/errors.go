package keystore

import "errors"

var (
	ErrNotFound  = errors.New("keystore: key not found")
	ErrExists    = errors.New("keystore: key already exists")
	ErrCorrupted = errors.New("keystore: stored key material is corrupted")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
