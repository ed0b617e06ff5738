package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/advanced-security/security-report-action/internal/config"
	"github.com/advanced-security/security-report-action/internal/github"
	"github.com/advanced-security/security-report-action/internal/logging"
	"github.com/advanced-security/security-report-action/internal/report"
)

var (
	token        string
	repository   string
	ref          string
	sarifID      string
	outputDir    string
	outputFormat string
	apiURL       string
	configFile   string

	includeCodeScanning   bool
	includeSecretScanning bool
	includeSCA            bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a security report for a repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.Get()

		cfg := config.Default()
		if configFile != "" {
			loaded, err := config.Load(configFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		// Explicit flags win over the config file.
		if cmd.Flags().Changed("repository") || cfg.Repository == "" {
			cfg.Repository = repository
		}
		if cmd.Flags().Changed("ref") {
			cfg.Ref = ref
		}
		if cmd.Flags().Changed("sarif-id") {
			cfg.SarifID = sarifID
		}
		if cmd.Flags().Changed("output-dir") {
			cfg.OutputDir = outputDir
		}
		if cmd.Flags().Changed("format") {
			cfg.Format = outputFormat
		}
		if cmd.Flags().Changed("github-api-url") {
			cfg.GitHubAPIURL = apiURL
		}
		if cmd.Flags().Changed("include-code-scanning") {
			cfg.Include.CodeScanning = includeCodeScanning
		}
		if cmd.Flags().Changed("include-secret-scanning") {
			cfg.Include.SecretScanning = includeSecretScanning
		}
		if cmd.Flags().Changed("include-software-composition-analysis") {
			cfg.Include.SoftwareCompositionAnalysis = includeSCA
		}

		if cfg.Repository == "" {
			return fmt.Errorf("a GitHub repository must be provided")
		}

		client, err := github.NewClient(resolveToken(), cfg.GitHubAPIURL, logger)
		if err != nil {
			return err
		}

		generator := report.NewGenerator(report.GeneratorConfig{
			Repository:      cfg.Repository,
			Ref:             cfg.Ref,
			SarifID:         cfg.SarifID,
			Client:          client,
			OutputDirectory: absPath(cfg.OutputDir),
			Format:          cfg.Format,
			Include:         cfg.Include,
			Logger:          logger,
		})

		color.New(color.FgCyan).Printf("Generating security report for %s...\n", cfg.Repository)

		file, err := generator.Run(cmd.Context())
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Printf("Summary report generated: %s\n", file)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&token, "token", "t", "", "GitHub access token (defaults to GITHUB_TOKEN)")
	reportCmd.Flags().StringVarP(&repository, "repository", "r", "", "GitHub repository in owner/name format")
	reportCmd.Flags().StringVar(&ref, "ref", "refs/heads/main", "repository ref to report on")
	reportCmd.Flags().StringVar(&sarifID, "sarif-id", "", "pin the report to a specific SARIF report id")
	reportCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "output directory for the summary report")
	reportCmd.Flags().StringVar(&outputFormat, "format", "html", "report format (html, json, all)")
	reportCmd.Flags().StringVar(&apiURL, "github-api-url", "", "GitHub API URL (defaults to GITHUB_API_URL or https://api.github.com)")
	reportCmd.Flags().StringVar(&configFile, "config", "", "YAML configuration file")
	reportCmd.Flags().BoolVar(&includeCodeScanning, "include-code-scanning", true, "include code scanning data")
	reportCmd.Flags().BoolVar(&includeSecretScanning, "include-secret-scanning", true, "include secret scanning data")
	reportCmd.Flags().BoolVar(&includeSCA, "include-software-composition-analysis", true, "include dependency and vulnerability data")
	rootCmd.AddCommand(reportCmd)
}

func resolveToken() string {
	if token != "" {
		return token
	}
	return os.Getenv("GITHUB_TOKEN")
}

func absPath(value string) string {
	if filepath.IsAbs(value) {
		return value
	}
	wd, err := os.Getwd()
	if err != nil {
		return value
	}
	return filepath.Join(wd, value)
}
