package soft

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"

	"golang.org/x/crypto/sha3"

	"keyward.io/keyward/operations"
)

// SumHash computes the digest of message under alg. Clients hash locally
// and send only the digest; the service never sees plaintext messages.
func SumHash(alg operations.HashAlg, message []byte) ([]byte, error) {
	switch alg {
	case operations.HashSHA256:
		s := sha256.Sum256(message)
		return s[:], nil
	case operations.HashSHA512:
		s := sha512.Sum512(message)
		return s[:], nil
	case operations.HashSHA3256:
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("soft: unsupported hash algorithm %s", alg)
	}
}
