package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"keyward.io/keyward/client"
	"keyward.io/keyward/wire"
)

var (
	socketFlag   string
	providerFlag string
	timeoutFlag  time.Duration

	// Set during PersistentPreRun, shared by all subcommands.
	cli *client.Client
)

func defaultSocket() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".keyward", "keyward.sock")
	}
	return filepath.Join(os.TempDir(), "keyward", "keyward.sock")
}

var rootCmd = &cobra.Command{
	Use:           "keywardctl",
	Short:         "Manage keys on a keyward facility",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		prov, err := parseProvider(providerFlag)
		if err != nil {
			return err
		}
		cli, err = client.Dial(socketFlag)
		if err != nil {
			return fmt.Errorf("connect to %s: %w", socketFlag, err)
		}
		cli.Provider = prov
		cli.Timeout = timeoutFlag
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cli != nil {
			_ = cli.Close()
		}
	},
}

func parseProvider(name string) (wire.ProviderID, error) {
	switch name {
	case "core":
		return wire.ProviderCore, nil
	case "software":
		return wire.ProviderSoftware, nil
	case "remote":
		return wire.ProviderRemote, nil
	default:
		return 0, fmt.Errorf("unknown provider %q (core, software, remote)", name)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", defaultSocket(), "keywardd unix socket")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "software", "provider for key operations (core, software, remote)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "per-operation timeout")
}
