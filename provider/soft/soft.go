// Package soft is the software provider: key material lives in the
// keystore and all cryptography runs in process. It serves Ed25519 and
// Dilithium3 keys; RSA attributes are recognized on the wire but not
// served by this backend.
package soft

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"keyward.io/keyward/keystore"
	"keyward.io/keyward/operations"
	"keyward.io/keyward/provider"
	"keyward.io/keyward/wire"
)

type Provider struct {
	store *keystore.Store
}

var _ provider.Provider = (*Provider)(nil)

func New(store *keystore.Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Describe() operations.ProviderInfo {
	return operations.ProviderInfo{
		ID:          wire.ProviderSoftware,
		Description: "software keys (ed25519, dilithium3)",
		Vendor:      "Keyward",
		VersionMaj:  1,
	}
}

func (p *Provider) Opcodes() []wire.Opcode {
	return []wire.Opcode{
		wire.OpGenerateKey,
		wire.OpDestroyKey,
		wire.OpSignHash,
		wire.OpVerifyHash,
		wire.OpImportKey,
		wire.OpExportPublicKey,
	}
}

func (p *Provider) Execute(ctx context.Context, op operations.NativeOperation) (operations.NativeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch op := op.(type) {
	case operations.GenerateKey:
		return p.generateKey(op)
	case operations.ImportKey:
		return p.importKey(op)
	case operations.DestroyKey:
		return p.destroyKey(op)
	case operations.SignHash:
		return p.signHash(op)
	case operations.VerifyHash:
		return p.verifyHash(op)
	case operations.ExportPublicKey:
		return p.exportPublicKey(op)
	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: provider does not serve %s", op.Opcode()))
	}
}

func (p *Provider) generateKey(op operations.GenerateKey) (operations.NativeResult, error) {
	var public, private []byte
	switch op.Attributes.KeyType {
	case operations.KeyTypeEd25519:
		if op.Attributes.KeyBits != 0 && op.Attributes.KeyBits != 256 {
			return nil, wire.NewError(wire.StatusUnsupportedOperation,
				fmt.Sprintf("soft: ed25519 keys are 256 bits, not %d", op.Attributes.KeyBits))
		}
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		public, private = pub, priv

	case operations.KeyTypeDilithium3:
		pub, priv, err := mode3.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		public, err = pub.MarshalBinary()
		if err != nil {
			return nil, err
		}
		private, err = priv.MarshalBinary()
		if err != nil {
			return nil, err
		}

	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: cannot generate %s keys", op.Attributes.KeyType))
	}

	err := p.store.Put(keystore.Record{
		Name:       op.KeyName,
		Attributes: op.Attributes,
		Public:     public,
		Private:    private,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return operations.GenerateKeyResult{}, nil
}

func (p *Provider) importKey(op operations.ImportKey) (operations.NativeResult, error) {
	var public, private []byte
	switch op.Attributes.KeyType {
	case operations.KeyTypeEd25519:
		switch len(op.Data) {
		case ed25519.SeedSize:
			priv := ed25519.NewKeyFromSeed(op.Data)
			public, private = priv.Public().(ed25519.PublicKey), priv
		case ed25519.PrivateKeySize:
			priv := ed25519.PrivateKey(append([]byte(nil), op.Data...))
			public, private = priv.Public().(ed25519.PublicKey), priv
		default:
			return nil, wire.NewError(wire.StatusCryptoFailure,
				fmt.Sprintf("soft: ed25519 key data must be %d or %d bytes, got %d",
					ed25519.SeedSize, ed25519.PrivateKeySize, len(op.Data)))
		}

	case operations.KeyTypeDilithium3:
		var priv mode3.PrivateKey
		if err := priv.UnmarshalBinary(op.Data); err != nil {
			return nil, wire.WrapError(wire.StatusCryptoFailure, "soft: bad dilithium3 key data", err)
		}
		pub, err := priv.Public().(*mode3.PublicKey).MarshalBinary()
		if err != nil {
			return nil, err
		}
		public, private = pub, append([]byte(nil), op.Data...)

	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: cannot import %s keys", op.Attributes.KeyType))
	}

	err := p.store.Put(keystore.Record{
		Name:       op.KeyName,
		Attributes: op.Attributes,
		Public:     public,
		Private:    private,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return operations.ImportKeyResult{}, nil
}

func (p *Provider) destroyKey(op operations.DestroyKey) (operations.NativeResult, error) {
	if err := p.store.Delete(op.KeyName); err != nil {
		return nil, mapStoreErr(err)
	}
	return operations.DestroyKeyResult{}, nil
}

func (p *Provider) signHash(op operations.SignHash) (operations.NativeResult, error) {
	rec, err := p.store.Get(op.KeyName)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !rec.Attributes.Policy.Usage.SignHash {
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: key %q does not permit hash signing", op.KeyName))
	}
	if err := checkDigest(rec.Attributes.Policy.Scheme.Hash, op.Hash); err != nil {
		return nil, err
	}

	switch rec.Attributes.KeyType {
	case operations.KeyTypeEd25519:
		if len(rec.Private) != ed25519.PrivateKeySize {
			return nil, wire.NewError(wire.StatusInternalError, "soft: stored ed25519 key has wrong size")
		}
		sig := ed25519.Sign(ed25519.PrivateKey(rec.Private), op.Hash)
		return operations.SignHashResult{Signature: sig}, nil

	case operations.KeyTypeDilithium3:
		var priv mode3.PrivateKey
		if err := priv.UnmarshalBinary(rec.Private); err != nil {
			return nil, wire.WrapError(wire.StatusInternalError, "soft: stored dilithium3 key is unreadable", err)
		}
		sig := make([]byte, mode3.SignatureSize)
		mode3.SignTo(&priv, op.Hash, sig)
		return operations.SignHashResult{Signature: sig}, nil

	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: cannot sign with %s keys", rec.Attributes.KeyType))
	}
}

func (p *Provider) verifyHash(op operations.VerifyHash) (operations.NativeResult, error) {
	rec, err := p.store.Get(op.KeyName)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !rec.Attributes.Policy.Usage.VerifyHash {
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: key %q does not permit hash verification", op.KeyName))
	}
	if err := checkDigest(rec.Attributes.Policy.Scheme.Hash, op.Hash); err != nil {
		return nil, err
	}

	var ok bool
	switch rec.Attributes.KeyType {
	case operations.KeyTypeEd25519:
		if len(rec.Public) != ed25519.PublicKeySize {
			return nil, wire.NewError(wire.StatusInternalError, "soft: stored ed25519 public key has wrong size")
		}
		ok = ed25519.Verify(ed25519.PublicKey(rec.Public), op.Hash, op.Signature)

	case operations.KeyTypeDilithium3:
		var pub mode3.PublicKey
		if err := pub.UnmarshalBinary(rec.Public); err != nil {
			return nil, wire.WrapError(wire.StatusInternalError, "soft: stored dilithium3 public key is unreadable", err)
		}
		ok = mode3.Verify(&pub, op.Hash, op.Signature)

	default:
		return nil, wire.NewError(wire.StatusUnsupportedOperation,
			fmt.Sprintf("soft: cannot verify with %s keys", rec.Attributes.KeyType))
	}
	if !ok {
		return nil, wire.NewError(wire.StatusCryptoFailure,
			fmt.Sprintf("soft: signature verification failed for key %q", op.KeyName))
	}
	return operations.VerifyHashResult{}, nil
}

func (p *Provider) exportPublicKey(op operations.ExportPublicKey) (operations.NativeResult, error) {
	rec, err := p.store.Get(op.KeyName)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return operations.ExportPublicKeyResult{
		Data: append([]byte(nil), rec.Public...),
	}, nil
}

func checkDigest(alg operations.HashAlg, hash []byte) error {
	if len(hash) != alg.Size() {
		return wire.NewError(wire.StatusCryptoFailure,
			fmt.Sprintf("soft: %s digest must be %d bytes, got %d", alg, alg.Size(), len(hash)))
	}
	return nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, keystore.ErrNotFound):
		return wire.WrapError(wire.StatusKeyDoesNotExist, "soft: key does not exist", err)
	case errors.Is(err, keystore.ErrExists):
		return wire.WrapError(wire.StatusKeyAlreadyExists, "soft: key already exists", err)
	case errors.Is(err, keystore.ErrCorrupted):
		return wire.WrapError(wire.StatusInternalError, "soft: stored key material is unusable", err)
	default:
		return err
	}
}
