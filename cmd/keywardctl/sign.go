package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"keyward.io/keyward/provider/soft"
)

var (
	signHashFlag string
	signInFlag   string
	signOutFlag  string
	sigFlag      string
)

func digestInput(path, hashName string) ([]byte, error) {
	alg, err := parseHash(hashName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return soft.SumHash(alg, data)
}

var signCmd = &cobra.Command{
	Use:   "sign <key>",
	Short: "Hash a file and sign the digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := digestInput(signInFlag, signHashFlag)
		if err != nil {
			return err
		}
		sig, err := cli.SignHash(cmd.Context(), args[0], hash)
		if err != nil {
			return err
		}
		if signOutFlag != "" {
			return os.WriteFile(signOutFlag, sig, 0o644)
		}
		fmt.Println(hex.EncodeToString(sig))
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <key>",
	Short: "Hash a file and verify a signature over the digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := digestInput(signInFlag, signHashFlag)
		if err != nil {
			return err
		}
		sig, err := readSignature(sigFlag)
		if err != nil {
			return err
		}
		if err := cli.VerifyHash(cmd.Context(), args[0], hash, sig); err != nil {
			return err
		}
		fmt.Println("signature valid")
		return nil
	},
}

// readSignature accepts either raw signature bytes or their hex form, so
// both `sign --out` files and copied hex output verify directly.
func readSignature(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if decoded, err := hex.DecodeString(strings.TrimSpace(string(data))); err == nil {
		return decoded, nil
	}
	return data, nil
}

func init() {
	for _, cmd := range []*cobra.Command{signCmd, verifyCmd} {
		cmd.Flags().StringVar(&signInFlag, "in", "", "file to hash")
		cmd.Flags().StringVar(&signHashFlag, "hash", "sha256", "hash algorithm (must match the key's scheme)")
		_ = cmd.MarkFlagRequired("in")
	}
	verifyCmd.Flags().StringVar(&sigFlag, "sig", "", "signature file (raw or hex)")
	_ = verifyCmd.MarkFlagRequired("sig")
	signCmd.Flags().StringVar(&signOutFlag, "out", "", "write raw signature bytes to this file instead of printing hex")
	rootCmd.AddCommand(signCmd, verifyCmd)
}
