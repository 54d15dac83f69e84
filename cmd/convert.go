package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voicetap/nmfconv/internal/batch"
	"github.com/voicetap/nmfconv/internal/config"
	"github.com/voicetap/nmfconv/internal/encoder"
	"github.com/voicetap/nmfconv/internal/log"
	"github.com/voicetap/nmfconv/internal/metrics"
	"github.com/voicetap/nmfconv/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source-dir> <output-dir>",
	Short: "Convert call recordings under a source tree to mixed MP3 files",
	Long: `
Convert every container file under <source-dir> into <output-dir>, mirroring
the source's relative directory layout (e.g. date/hour folders).

Examples:
  nmfconv convert /srv/voice/20241016 /srv/converted
  nmfconv convert -c nmfconv.yml /srv/voice/20241016 /srv/converted
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcDir, outDir := args[0], args[1]
		return runConvert(srcDir, outDir)
	},
}

func runConvert(srcDir, outDir string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := log.Init(cfg.Log, outDir); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		srv.Start()
		defer srv.Stop(context.Background())
	}

	// SIGINT/SIGTERM cancels the batch; in-flight ffmpeg processes are
	// killed through the same context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ff := encoder.NewFFmpeg(cfg.FFmpeg)
	runner := batch.NewRunner(cfg.Batch, pipeline.New(ff, ff))

	result, err := runner.Run(ctx, srcDir, outDir)
	if err != nil {
		return err
	}
	fmt.Printf("Converted %d file(s), skipped %d\n", len(result.Converted), len(result.Skipped))
	return nil
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
