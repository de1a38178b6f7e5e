package cmd

import (
	"context"

	"github.com/spf13/cobra"

	recoverapp "github.com/go-forensics/hfsrecover/internal/app/recover"
	"github.com/go-forensics/hfsrecover/internal/config"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [image]",
	Short: "Check volume header signatures without scanning or extracting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(flagOverrides())
		cobra.CheckErr(err)

		req := &recoverapp.Request{ImagePath: args[0], VerifyOnly: true, Config: cfg}
		summary, err := recoverapp.Handle(context.Background(), req)
		cobra.CheckErr(err)

		cmd.Print(recoverapp.Format(summary))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	registerTuningFlags(verifyCmd)
}
