package cli

import (
	"github.com/mgpai22/tilawa/internal/config"
	"github.com/mgpai22/tilawa/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tilawa",
	Short: "Review and correct recitation subtitles",
	Long: `Tilawa is a CLI and dashboard backend for reviewing subtitle files
produced from Quran recitations.

It merges and validates segments, converts between SRT, VTT and ASS,
and translates subtitles with AI providers.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if verbose {
			logger = logging.NewLogger(true)
		} else {
			logger = logging.NewLevel(cfg.LogLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., ar, en)")
}
