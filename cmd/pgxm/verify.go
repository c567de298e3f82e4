package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgxm/pgxm/pkg/manifest"
	"github.com/pgxm/pgxm/pkg/util"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <archive>",
	Short: "Verify the manifest of a built extension package",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := manifest.FromArchive(args[0])
		util.FailOnError(err, "Could not read manifest from archive")

		util.FailOnError(m.Validate(), "Manifest is invalid")

		fmt.Printf("OK: %s %s (pg%s)\n", m.Name, m.Version, m.PgVersion)
	},
}
