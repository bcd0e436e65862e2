package operations

import (
	"fmt"

	"keyward.io/keyward/wire"
)

// KeyType identifies the kind of key material an operation creates or
// imports.
type KeyType uint32

const (
	KeyTypeRSAKeyPair KeyType = 1
	KeyTypeEd25519    KeyType = 2
	KeyTypeDilithium3 KeyType = 3
)

func (t KeyType) String() string {
	switch t {
	case KeyTypeRSAKeyPair:
		return "rsa-key-pair"
	case KeyTypeEd25519:
		return "ed25519"
	case KeyTypeDilithium3:
		return "dilithium3"
	default:
		return fmt.Sprintf("keytype(%d)", uint32(t))
	}
}

// KeyTypeFromWire decodes a key type code; unknown codes fail.
func KeyTypeFromWire(v uint32) (KeyType, error) {
	switch t := KeyType(v); t {
	case KeyTypeRSAKeyPair, KeyTypeEd25519, KeyTypeDilithium3:
		return t, nil
	default:
		return 0, wire.NewError(wire.StatusInvalidEncoding, fmt.Sprintf("operations: unknown key type code %d", v))
	}
}

// SignAlgorithm identifies the signature algorithm a key policy permits.
type SignAlgorithm uint32

const (
	SignAlgorithmEd25519    SignAlgorithm = 1
	SignAlgorithmDilithium3 SignAlgorithm = 2
	SignAlgorithmRSAPKCS1   SignAlgorithm = 3
)

func (a SignAlgorithm) String() string {
	switch a {
	case SignAlgorithmEd25519:
		return "ed25519"
	case SignAlgorithmDilithium3:
		return "dilithium3"
	case SignAlgorithmRSAPKCS1:
		return "rsa-pkcs1-v15"
	default:
		return fmt.Sprintf("signalgorithm(%d)", uint32(a))
	}
}

// SignAlgorithmFromWire decodes a signature algorithm code.
func SignAlgorithmFromWire(v uint32) (SignAlgorithm, error) {
	switch a := SignAlgorithm(v); a {
	case SignAlgorithmEd25519, SignAlgorithmDilithium3, SignAlgorithmRSAPKCS1:
		return a, nil
	default:
		return 0, wire.NewError(wire.StatusInvalidEncoding, fmt.Sprintf("operations: unknown signature algorithm code %d", v))
	}
}

// HashAlg identifies the digest algorithm a signing scheme is used with.
type HashAlg uint32

const (
	HashSHA256  HashAlg = 1
	HashSHA512  HashAlg = 2
	HashSHA3256 HashAlg = 3
)

func (h HashAlg) String() string {
	switch h {
	case HashSHA256:
		return "sha256"
	case HashSHA512:
		return "sha512"
	case HashSHA3256:
		return "sha3-256"
	default:
		return fmt.Sprintf("hashalg(%d)", uint32(h))
	}
}

// HashAlgFromWire decodes a hash algorithm code.
func HashAlgFromWire(v uint32) (HashAlg, error) {
	switch h := HashAlg(v); h {
	case HashSHA256, HashSHA512, HashSHA3256:
		return h, nil
	default:
		return 0, wire.NewError(wire.StatusInvalidEncoding, fmt.Sprintf("operations: unknown hash algorithm code %d", v))
	}
}

// Size returns the digest length in bytes.
func (h HashAlg) Size() int {
	switch h {
	case HashSHA256, HashSHA3256:
		return 32
	case HashSHA512:
		return 64
	default:
		return 0
	}
}

// UsageFlags spells out what a key may be used for. The wire layer carries
// these structurally; enforcing them is the providers' job.
type UsageFlags struct {
	Export        bool
	Copy          bool
	Cache         bool
	Encrypt       bool
	Decrypt       bool
	SignMessage   bool
	VerifyMessage bool
	SignHash      bool
	VerifyHash    bool
	Derive        bool
}

// SignScheme pairs a signature algorithm with the digest it signs.
type SignScheme struct {
	Algorithm SignAlgorithm
	Hash      HashAlg
}

// KeyPolicy combines usage permissions with the permitted scheme.
type KeyPolicy struct {
	Usage  UsageFlags
	Scheme SignScheme
}

// KeyAttributes fully describes a key: its type, its size in bits and the
// policy attached to it.
type KeyAttributes struct {
	KeyType KeyType
	KeyBits uint32
	Policy  KeyPolicy
}
