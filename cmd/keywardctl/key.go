package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keyward.io/keyward/operations"
)

var (
	keyTypeFlag string
	hashFlag    string
	inFlag      string
	outFlag     string
)

func parseKeyType(name string) (operations.KeyType, operations.SignAlgorithm, error) {
	switch name {
	case "ed25519":
		return operations.KeyTypeEd25519, operations.SignAlgorithmEd25519, nil
	case "dilithium3":
		return operations.KeyTypeDilithium3, operations.SignAlgorithmDilithium3, nil
	case "rsa":
		return operations.KeyTypeRSAKeyPair, operations.SignAlgorithmRSAPKCS1, nil
	default:
		return 0, 0, fmt.Errorf("unknown key type %q (ed25519, dilithium3, rsa)", name)
	}
}

func parseHash(name string) (operations.HashAlg, error) {
	switch name {
	case "sha256":
		return operations.HashSHA256, nil
	case "sha512":
		return operations.HashSHA512, nil
	case "sha3-256":
		return operations.HashSHA3256, nil
	default:
		return 0, fmt.Errorf("unknown hash algorithm %q (sha256, sha512, sha3-256)", name)
	}
}

func signingAttributes() (operations.KeyAttributes, error) {
	keyType, alg, err := parseKeyType(keyTypeFlag)
	if err != nil {
		return operations.KeyAttributes{}, err
	}
	hash, err := parseHash(hashFlag)
	if err != nil {
		return operations.KeyAttributes{}, err
	}
	var bits uint32
	if keyType == operations.KeyTypeEd25519 {
		bits = 256
	}
	return operations.KeyAttributes{
		KeyType: keyType,
		KeyBits: bits,
		Policy: operations.KeyPolicy{
			Usage: operations.UsageFlags{Export: true, SignHash: true, VerifyHash: true},
			Scheme: operations.SignScheme{
				Algorithm: alg,
				Hash:      hash,
			},
		},
	}, nil
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage keys on the selected provider",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new signing key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := signingAttributes()
		if err != nil {
			return err
		}
		if err := cli.GenerateKey(cmd.Context(), args[0], attrs); err != nil {
			return err
		}
		fmt.Printf("generated %s key %q\n", keyTypeFlag, args[0])
		return nil
	},
}

var keyImportCmd = &cobra.Command{
	Use:   "import <name>",
	Short: "Import private key material from a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := signingAttributes()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(inFlag)
		if err != nil {
			return err
		}
		if err := cli.ImportKey(cmd.Context(), args[0], attrs, data); err != nil {
			return err
		}
		fmt.Printf("imported %s key %q\n", keyTypeFlag, args[0])
		return nil
	},
}

var keyDestroyCmd = &cobra.Command{
	Use:   "destroy <name>",
	Short: "Destroy a key and its stored material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.DestroyKey(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("destroyed key %q\n", args[0])
		return nil
	},
}

var keyExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a key's public material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pub, err := cli.ExportPublicKey(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if outFlag != "" {
			return os.WriteFile(outFlag, pub, 0o644)
		}
		fmt.Println(hex.EncodeToString(pub))
		return nil
	},
}

func init() {
	keyCmd.PersistentFlags().StringVar(&keyTypeFlag, "type", "ed25519", "key type (ed25519, dilithium3, rsa)")
	keyCmd.PersistentFlags().StringVar(&hashFlag, "hash", "sha256", "hash algorithm for the signing scheme")
	keyImportCmd.Flags().StringVar(&inFlag, "in", "", "file holding the private key material")
	_ = keyImportCmd.MarkFlagRequired("in")
	keyExportCmd.Flags().StringVar(&outFlag, "out", "", "write raw public key bytes to this file instead of printing hex")
	keyCmd.AddCommand(keyGenerateCmd, keyImportCmd, keyDestroyCmd, keyExportCmd)
	rootCmd.AddCommand(keyCmd)
}
