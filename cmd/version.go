package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the thisismy version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("thisismy " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
