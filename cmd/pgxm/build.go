package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pgxm/pgxm/pkg/builder"
	"github.com/pgxm/pgxm/pkg/config"
	"github.com/pgxm/pgxm/pkg/docker"
	"github.com/pgxm/pgxm/pkg/util"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a PostgreSQL extension package",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Resolve everything before touching the engine. Configuration
		// failures never create containers.
		cfg, err := config.NewResolver(flags).Resolve()
		util.FailOnError(err, "Invalid build configuration")

		engine, err := docker.Connect(ctx, flags.Verbose)
		util.FailOnError(err, "Docker is not available")

		result, err := builder.Run(ctx, builder.Options{
			Config:  cfg,
			Engine:  engine,
			Verbose: flags.Verbose,
		})
		if errors.Is(err, builder.ErrTestsFailed) {
			util.FailOnError(err, "Build succeeded but tests failed")
		}
		util.FailOnError(err, "Build failed")

		for _, warning := range result.Warnings {
			log.Warn().Msg(warning)
		}
		fmt.Println("Packaged to", result.ArchivePath)
		fmt.Println("Build completed successfully.")
	},
}

func init() {
	buildCmd.Flags().StringVarP(&flags.Path, "path", "p", ".", "The file path of the extension to build")
	buildCmd.Flags().StringVarP(&flags.OutputPath, "output-path", "o", "", "Output directory for the built package")
	buildCmd.Flags().StringVar(&flags.Version, "set-version", "", "Override the extension version")
	buildCmd.Flags().StringVarP(&flags.Name, "name", "n", "", "Override the extension name")
	buildCmd.Flags().StringVarP(&flags.ExtensionName, "extension-name", "e", "", "Override the extension name from control file")
	buildCmd.Flags().StringVarP(&flags.Dependencies, "extension-dependencies", "x", "", "Comma-separated list of extension dependencies")
	buildCmd.Flags().StringVarP(&flags.PreloadLibraries, "preload-libraries", "s", "", "Comma-separated list of preload libraries")
	buildCmd.Flags().StringVarP(&flags.Platform, "platform", "P", "", "Target platform (e.g., linux/amd64)")
	buildCmd.Flags().StringVarP(&flags.Dockerfile, "dockerfile", "d", "", "Path to a custom Dockerfile")
	buildCmd.Flags().StringVarP(&flags.InstallCommand, "install-command", "i", "", "Custom install command")
	buildCmd.Flags().BoolVarP(&flags.Test, "test", "t", false, "Run integration tests after building")
	buildCmd.Flags().StringVar(&flags.PgVersion, "pg-version", "", "PostgreSQL version to build against (default: 15)")
}
