package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"firestige.xyz/attrcodec/internal/log"
	"firestige.xyz/attrcodec/internal/vector"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a file of codec test vectors",
	Long: `Run every vector in a YAML or TOML file through the codec and print a
YAML report. Exits non-zero when any vector fails.

File format is auto-detected from extension (.yaml, .yml, .toml).

Examples:
  attrcodec batch -f vectors.yaml
  attrcodec batch -f vectors.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(GetCodec(), cmd.OutOrStdout(), batchFile)
	},
}

func runBatch(c Codec, out io.Writer, path string) error {
	f, err := vector.Load(path)
	if err != nil {
		return err
	}
	logger := log.GetLogger().WithField("file", path)
	logger.Infof("running %d vectors", len(f.Vectors))

	rep := vector.NewReport(vector.NewRunner(c, logger).Run(f.Vectors))
	if err := rep.Write(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if rep.Failed > 0 {
		return fmt.Errorf("%d of %d vectors failed", rep.Failed, rep.Total)
	}
	return nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "",
		"vector file to run (required)")
	batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
