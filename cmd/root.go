package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/advanced-security/security-report-action/internal/logging"
)

var (
	debugMode bool
	logFile   string
)

var rootCmd = &cobra.Command{
	Use:   "security-report",
	Short: "Generate security reports from GitHub code scanning, secret scanning and dependency data",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(debugMode, logFile)
	},
}

func Execute() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to a rotating file")
}
