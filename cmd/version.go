package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-ranker/internal/extract"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the enabled document formats",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s version: %s\n", app, version)
		fmt.Printf("document formats: %s\n", strings.Join(extract.MediaTypes(), ", "))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
