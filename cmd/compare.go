package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/advanced-security/security-report-action/internal/codescanning"
	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/logging"
)

var (
	compareTool     string
	compareCategory string
	compareRef      string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the two most recent code scanning analyses of a repository",
	Long: `Resolves the two most recent analyses matching the tool, ref and category
filter, head being the newer run and base the older, and prints the rules,
artifacts and results delta as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.Get()

		if repository == "" {
			return fmt.Errorf("a GitHub repository must be provided")
		}

		client, err := github.NewClient(resolveToken(), apiURL, logger)
		if err != nil {
			return err
		}

		repo, err := github.ParseRepo(repository)
		if err != nil {
			return err
		}

		cs := codescanning.New(client, logger)
		comparison, err := cs.CompareLatestAnalyses(cmd.Context(), repo, codescanning.AnalysisFilter{
			ToolName: compareTool,
			Category: compareCategory,
			Ref:      compareRef,
		})
		if err != nil {
			return err
		}

		summary := comparison.GetDeltaSummary()
		encoded, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVarP(&token, "token", "t", "", "GitHub access token (defaults to GITHUB_TOKEN)")
	compareCmd.Flags().StringVarP(&repository, "repository", "r", "", "GitHub repository in owner/name format")
	compareCmd.Flags().StringVar(&apiURL, "github-api-url", "", "GitHub API URL (defaults to GITHUB_API_URL or https://api.github.com)")
	compareCmd.Flags().StringVar(&compareTool, "tool", codescanning.ToolNameCodeQL, "analysis tool name to compare")
	compareCmd.Flags().StringVar(&compareCategory, "category", "", "analysis category filter (applied client-side)")
	compareCmd.Flags().StringVar(&compareRef, "compare-ref", "", "restrict the comparison to analyses of a ref")
	rootCmd.AddCommand(compareCmd)
}
