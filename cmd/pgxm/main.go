package main

import (
	"fmt"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pgxm/pgxm/pkg/config"
	"github.com/pgxm/pgxm/pkg/util"
)

var BuildVersion string // Will be set dynamically at build time.
var appName string = "pgxm"
var flags config.Flags
var printVersion bool

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "A CLI tool for building PostgreSQL extension packages with Docker.",
	Long: `pgxm builds a redistributable package for a PostgreSQL extension by compiling
it inside an ephemeral Docker container and capturing exactly the files the
build produced.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(flags.Verbose, flags.NoColor)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if printVersion {
			fmt.Printf("%s version: %s\n", appName, BuildVersion)
			return
		}
		_ = cmd.Help()
	},
}

func init() {
	if BuildVersion == "" {
		BuildVersion = "development" // Fallback if not set during build
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Increase verbosity of output")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&printVersion, "version", "V", false, "Display the application version and exit")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(installCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		util.FailOnError(err)
	}
}

func initLogger(verbose, noColor bool) {
	writer := zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), NoColor: noColor}
	log.Logger = log.Output(writer)

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
