package cmd

import (
	"github.com/spf13/cobra"
	"github.com/user/bugbounty-agent/pkg/logging"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "bugbounty-agent",
	Short: "Repository security scanner with exploit synthesis",
	Long: `bugbounty-agent runs several static analyzers against a repository,
normalizes their findings, scores the overall risk and decides whether a
deployment should be blocked. Optional AI providers rank findings and draft
proof-of-concept exploits.`,
	SilenceUsage: true,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}

func newLogger() *zap.Logger {
	logger, err := logging.New(DebugMode)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
