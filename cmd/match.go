package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/matching"
)

var matchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Score a résumé file against a comma separated skills list",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		skills := cmd.Flag("skills").Value.String()
		if strings.TrimSpace(skills) == "" {
			skills, err = skillsPrompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		text, err := extractFile(args[0], cmd.Flag("media-type").Value.String())
		if err != nil {
			logger.Fatal("extracting text", zap.Error(err), zap.String("filename", args[0]))
		}

		result := matching.Match(text, skills)
		logger.Debug("matched skills",
			zap.Int("score", result.MatchScore),
			zap.Int("required", len(matching.ParseSkills(skills))),
		)

		pretty, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(pretty))
	},
}

var skillsPrompt = promptui.Prompt{
	Label: "Required skills (comma separated)",
	Validate: func(input string) error {
		if len(matching.ParseSkills(input)) == 0 {
			return errors.New("at least one skill is required")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("skills", "s", "", "comma separated required skills (asked interactively when empty)")
	matchCmd.Flags().StringP("media-type", "m", "", "declared media type of the file (default is guessed from the extension)")
}
