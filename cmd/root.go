package cmd

import (
	"fmt"
	"runtime"

	"github.com/AnyUserName/tweetshot/internal/config"
	"github.com/AnyUserName/tweetshot/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version    = "0.1.0"
	verbose    bool
	configFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "tweetshot",
	Short: "Compose a post preview and export it as an image",
	Long: `tweetshot renders a social-media post preview: display name, handle,
avatar, body text and engagement counters on a coloured card.

Use "serve" for the live browser editor or "render" to write a single
screenshot from flags.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "env-style config file (default ./.env if present)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"tweetshot %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup loads configuration and builds the logger before any command runs.
func setup(_ *cobra.Command, _ []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	l, err := logging.New(c.LogEnv, verbose)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	logger.Debug("configuration loaded",
		zap.String("profile", cfg.Profile),
		zap.String("out", cfg.OutDir),
		zap.Duration("avatar_timeout", cfg.AvatarTimeout))
	return nil
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
