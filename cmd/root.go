package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "hfsrecover",
	Short: "Forensic file recovery for HFS+ disk images",
	Long: `hfsrecover scavenges a raw HFS+ (or HFSX) disk image for catalog and
extents-overflow B-tree leaf nodes, bypassing the volume header and tree
root pointers a healthy driver would trust.

It reconstructs the recoverable directory tree under an output root and
extracts file contents byte-exact to their logical size, tolerating
corrupted or missing metadata along the way.

Commands:
  recover    Scan an image and extract everything it can recover
  verify     Check volume header signatures without scanning or extracting`,
	Version: "0.1.0-dev",
}

// Execute runs the root command, exiting nonzero on any reported error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "accepted and ignored by every command")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "accepted and ignored by every command")
}
