package main

import (
	"github.com/spf13/cobra"

	"github.com/pgxm/pgxm/pkg/scaffold"
	"github.com/pgxm/pgxm/pkg/util"
)

var scaffoldOpts scaffold.Options

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Scaffold a Dockerfile and control file for a new extension",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		scaffoldOpts.Dir = "."
		if len(args) > 0 {
			scaffoldOpts.Dir = args[0]
		}
		util.FailOnError(scaffold.Run(scaffoldOpts), "Scaffolding failed")
	},
}

func init() {
	initCmd.Flags().StringVarP(&scaffoldOpts.Name, "name", "n", "", "Extension name (required)")
	initCmd.Flags().StringVar(&scaffoldOpts.Version, "set-version", "", "Initial extension version")
	initCmd.Flags().StringVar(&scaffoldOpts.PgVersion, "pg-version", "", "PostgreSQL version for the Dockerfile")
	initCmd.Flags().StringVarP(&scaffoldOpts.Comment, "comment", "c", "", "Control file comment")
	_ = initCmd.MarkFlagRequired("name")
}
