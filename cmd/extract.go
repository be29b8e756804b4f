package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/extract"
	"github.com/spigell/resume-ranker/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text extracted from a résumé file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		text, err := extractFile(args[0], cmd.Flag("media-type").Value.String())
		if err != nil {
			logger.Fatal("extracting text", zap.Error(err), zap.String("filename", args[0]))
		}

		fmt.Println(text)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("media-type", "m", "", "declared media type of the file (default is guessed from the extension)")
}

// extractFile reads path and extracts it as mediaType. An empty mediaType is
// derived from the file extension.
func extractFile(path, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = extract.ForExtension(filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return extract.Extract(data, mediaType)
}
