package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the facility is up and report its wire protocol version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maj, min, err := cli.Ping(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("wire protocol %d.%d\n", maj, min)
		return nil
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the facility's registered providers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		providers, err := cli.ListProviders(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range providers {
			fmt.Printf("%-10s %d.%d.%d  %s  %s\n",
				p.ID, p.VersionMaj, p.VersionMin, p.VersionRev, p.Vendor, p.Description)
		}
		return nil
	},
}

var opcodesCmd = &cobra.Command{
	Use:   "opcodes",
	Short: "List the opcodes the selected provider serves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prov, err := parseProvider(providerFlag)
		if err != nil {
			return err
		}
		opcodes, err := cli.ListOpcodes(cmd.Context(), prov)
		if err != nil {
			return err
		}
		for _, op := range opcodes {
			fmt.Printf("0x%04x  %s\n", uint16(op), op)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd, providersCmd, opcodesCmd)
}
