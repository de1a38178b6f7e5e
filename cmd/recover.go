package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/go-forensics/hfsrecover/internal/config"
	recoverapp "github.com/go-forensics/hfsrecover/internal/app/recover"
	"github.com/go-forensics/hfsrecover/internal/types"
)

var (
	sectorSize      int64
	blockSize       int64
	bufferSize      int64
	catalogNodeSize int64
	extentNodeSize  int64
	stopBlock       int64
	permissive      bool
	dedupEnabled    bool
	configPath      string
)

var recoverCmd = &cobra.Command{
	Use:   "recover [image] [outdir]",
	Short: "Scan an image and extract everything it can recover",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(flagOverrides())
		cobra.CheckErr(err)

		req := &recoverapp.Request{ImagePath: args[0], OutDir: args[1], Config: cfg}
		summary, err := recoverapp.Handle(context.Background(), req)
		cobra.CheckErr(err)

		cmd.Print(recoverapp.Format(summary))
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)
	registerTuningFlags(recoverCmd)
}

func registerTuningFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&sectorSize, "sector-size", 0, "sector size in bytes (default 512)")
	cmd.Flags().Int64Var(&blockSize, "block-size", 0, "allocation block size in bytes")
	cmd.Flags().Int64Var(&bufferSize, "buffer-size", 0, "scan buffer size in bytes")
	cmd.Flags().Int64Var(&catalogNodeSize, "catalog-node-size", 0, "catalog B-tree node size in bytes")
	cmd.Flags().Int64Var(&extentNodeSize, "extent-node-size", 0, "extents-overflow B-tree node size in bytes")
	cmd.Flags().Int64Var(&stopBlock, "stop-block", 0, "stop scanning after this many buffer refills (0 = no limit)")
	cmd.Flags().BoolVar(&permissive, "permissive", false, "relax structural cross-checks, never bounds checks")
	cmd.Flags().BoolVar(&dedupEnabled, "dedup", false, "collapse duplicate (fileID, parentID, name) accepts")
	cmd.Flags().StringVar(&configPath, "config", "", "accepted and ignored; hfsrecover.yaml is read only from the default search paths")
}

func flagOverrides() types.RecoveryConfig {
	return types.RecoveryConfig{
		SectorSize:      sectorSize,
		BlockSize:       blockSize,
		BufferSize:      bufferSize,
		CatalogNodeSize: catalogNodeSize,
		ExtentNodeSize:  extentNodeSize,
		StopBlock:       stopBlock,
		Permissive:      permissive,
		Dedup:           dedupEnabled,
	}
}
