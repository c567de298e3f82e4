package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Registry interaction is not implemented yet; these commands only echo
// their inputs so scripting against the final CLI shape is possible today.

var (
	publishFile     string
	publishRegistry string
	installFile     string
	installVersion  string
	installRegistry string
)

var publishCmd = &cobra.Command{
	Use:   "publish [name]",
	Short: "Publish a PostgreSQL extension to the registry (not implemented)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		fmt.Println("Publishing extension...")
		fmt.Println("  Name:", name)
		fmt.Println("  File:", publishFile)
		fmt.Println("  Registry:", publishRegistry)
		fmt.Println("Publish logic placeholder. Implementation needed (Registry interaction).")
	},
}

var installCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Install a PostgreSQL extension from the registry (not implemented)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Installing extension...")
		fmt.Println("  Name:", args[0])
		fmt.Println("  Version:", installVersion)
		fmt.Println("  File:", installFile)
		fmt.Println("  Registry:", installRegistry)
		fmt.Println("Install logic placeholder. Implementation needed (Registry interaction).")
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishFile, "file", "f", "", "Path to the built extension archive")
	publishCmd.Flags().StringVarP(&publishRegistry, "registry", "r", "https://your-registry-url.com", "Registry URL")

	installCmd.Flags().StringVarP(&installFile, "file", "f", "", "Path to a local extension archive")
	installCmd.Flags().StringVar(&installVersion, "set-version", "latest", "Version to install")
	installCmd.Flags().StringVarP(&installRegistry, "registry", "r", "https://your-registry-url.com", "Registry URL")
}
