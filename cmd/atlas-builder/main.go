// Package main implements the atlas-builder command line tool: it packs a
// directory of Aseprite sprite sources and a font into one texture atlas
// plus a generated Go catalogue.
package main

import (
	"fmt"
	"os"

	"github.com/karl-zylinski/atlas-builder/internal/atlas"
	"github.com/karl-zylinski/atlas-builder/internal/catalogue/codegen"
	"github.com/karl-zylinski/atlas-builder/internal/config"
	"github.com/karl-zylinski/atlas-builder/internal/logging"
	"github.com/spf13/cobra"
)

var (
	appName    = "atlas-builder"
	appVersion = "dev" // injected at build time via -ldflags
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile  string
		inputDir    string
		outImage    string
		outGo       string
		logLevel    string
		noCrop      bool
		verbose     bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:     appName,
		Short:   "Pack Aseprite sprites and a font into one texture atlas",
		Version: appVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				logLevel = "debug"
			}

			cfg, err := config.LoadWithOverrides(config.LoadOptions{
				ConfigFile:  configFile,
				InputDir:    inputDir,
				OutputImage: outImage,
				OutputGo:    outGo,
				LogLevel:    logLevel,
				NoCrop:      noCrop,
			})
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			logging.SetLevelFromString(cfg.Logging.Level)

			return runBuild(cfg, dryRun)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "path to a YAML configuration file")
	cmd.Flags().StringVar(&inputDir, "input", "", "directory of sprite sources (overrides config)")
	cmd.Flags().StringVar(&outImage, "out-image", "", "output atlas PNG path (overrides config)")
	cmd.Flags().StringVar(&outGo, "out-go", "", "output generated Go catalogue path (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&noCrop, "no-crop", false, "disable cropping the atlas to its used region")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "set the log level to debug (per-document summaries are only logged by --dry-run)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "decode and report without writing any output files")

	return cmd
}

func runBuild(cfg *config.Config, dryRun bool) error {
	opts := atlas.BuildOptions{
		InputDir:        cfg.Input.Dir,
		AtlasWidth:      cfg.Atlas.Width,
		AtlasHeight:     cfg.Atlas.Height,
		TileSize:        cfg.Atlas.TileSize,
		TilePadding:     cfg.Atlas.TilePadding,
		CropToUsed:      cfg.Atlas.CropToUsed,
		FontPath:        cfg.Font.Path,
		FontPixelHeight: cfg.Font.PixelHeight,
		FontCodepoints:  cfg.Font.Codepoints,
		DryRun:          dryRun,
	}

	result, err := atlas.Build(opts)
	if err != nil {
		return fmt.Errorf("building atlas: %w", err)
	}

	if dryRun {
		logging.Info("dry run complete", logging.Fields{
			"textures":   len(result.Catalogue.Textures),
			"animations": len(result.Catalogue.Animations),
			"tiles":      len(result.Catalogue.Tiles),
			"glyphs":     len(result.Catalogue.Glyphs),
		})
		return nil
	}

	if err := os.WriteFile(cfg.Input.OutputImage, result.Image, 0o644); err != nil {
		return fmt.Errorf("writing atlas image: %w", err)
	}

	source, err := codegen.Render(cfg.Input.PackageName, result.Catalogue)
	if err != nil {
		return fmt.Errorf("rendering catalogue: %w", err)
	}

	if err := os.WriteFile(cfg.Input.OutputGo, source, 0o644); err != nil {
		return fmt.Errorf("writing catalogue source: %w", err)
	}

	logging.Info("wrote atlas and catalogue", logging.Fields{
		"image":      cfg.Input.OutputImage,
		"catalogue":  cfg.Input.OutputGo,
		"textures":   len(result.Catalogue.Textures),
		"animations": len(result.Catalogue.Animations),
		"tiles":      len(result.Catalogue.Tiles),
		"glyphs":     len(result.Catalogue.Glyphs),
	})

	return nil
}
