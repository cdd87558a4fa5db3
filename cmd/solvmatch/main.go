// Package main provides the solvmatch CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Object store credentials may live in a local .env file.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// rootOptions holds persistent flags shared by all subcommands.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "solvmatch",
		Short: "Find binary solvent blends matching compounds in Hansen space",
		Long: `solvmatch scores every pair of solvents against every compound by the
distance from the compound to the segment of 90/10 to 10/90 blends of the pair.
Pairs that many compounds keep among their nearest are reported together with
the mixing ratio that best fits the closest compound.

Tables are read from local paths, s3://bucket/key or minio://bucket/key.
A .zst or .lz4 suffix selects compression.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/solvmatch/config.yml)")
	cmd.Version = Version

	cmd.AddCommand(
		newMatchCmd(&opts),
		newDecodeCmd(),
		newEncodeCmd(),
		newVersionCmd(),
	)
	return cmd
}
