package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alfredjeanlab/reveal/internal/config"
	"github.com/alfredjeanlab/reveal/internal/export"
	"github.com/alfredjeanlab/reveal/internal/palette"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every chart as SVG plus a manifest",
	Long: `Render all four landing page charts and write <kind>.svg and
manifest.json to each configured destination.

Destinations come from REVEAL_EXPORT_DIR and REVEAL_EXPORT_S3_BUCKET
(with REVEAL_EXPORT_S3_ENDPOINT, REVEAL_EXPORT_S3_REGION and
REVEAL_EXPORT_S3_PREFIX). --dir adds a local directory.`,
	Example: `  revealctl export --dir ./public/charts
  REVEAL_EXPORT_S3_BUCKET=site revealctl export --hidden`,
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.ExportDir
		}
		hidden, _ := cmd.Flags().GetBool("hidden")
		seed := cfg.Seed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetInt64("seed")
		}
		palName, _ := cmd.Flags().GetString("palette")
		palFile, _ := cmd.Flags().GetString("palette-file")
		if palFile == "" && palName == "" {
			palFile = cfg.PaletteFile
		}
		pal, err := resolvePalette(palName, palFile)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var dests []export.Destination
		if dir != "" {
			dests = append(dests, export.NewDirDestination(dir))
			logger.Info("export directory destination enabled", "dir", dir)
		}
		if cfg.ExportS3Bucket != "" {
			s3Dest, err := export.NewS3Destination(ctx,
				cfg.ExportS3Bucket,
				cfg.ExportS3Prefix,
				cfg.ExportS3Region,
				cfg.ExportS3Endpoint,
			)
			if err != nil {
				return fmt.Errorf("creating S3 export destination: %w", err)
			}
			dests = append(dests, s3Dest)
			logger.Info("export S3 destination enabled", "bucket", cfg.ExportS3Bucket, "prefix", cfg.ExportS3Prefix)
		}
		if len(dests) == 0 {
			return fmt.Errorf("no export destination: pass --dir or set REVEAL_EXPORT_DIR or REVEAL_EXPORT_S3_BUCKET")
		}

		return runExport(ctx, dests, seed, !hidden, pal, logger)
	},
}

func runExport(ctx context.Context, dests []export.Destination, seed int64, visible bool, pal palette.Palette, logger *slog.Logger) error {
	items, err := export.LandingSet(seed, visible)
	if err != nil {
		return err
	}
	return export.Run(ctx, items, dests, export.Options{
		Seed:    seed,
		Visible: visible,
		Palette: pal,
		Logger:  logger,
	})
}

func init() {
	exportCmd.Flags().String("dir", "", "local output directory (default: REVEAL_EXPORT_DIR)")
	exportCmd.Flags().Bool("hidden", false, "export the pre-reveal state")
	exportCmd.Flags().Int64("seed", 42, "generator seed (default: REVEAL_SEED)")
	exportCmd.Flags().String("palette", "", "built-in palette: default or standalone (default: standalone)")
	exportCmd.Flags().String("palette-file", "", "TOML palette file (default: REVEAL_PALETTE_FILE)")
}
