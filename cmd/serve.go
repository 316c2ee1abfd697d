package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/AnyUserName/tweetshot/internal/avatar"
	"github.com/AnyUserName/tweetshot/internal/export"
	"github.com/AnyUserName/tweetshot/internal/profile"
	"github.com/AnyUserName/tweetshot/internal/render"
	"github.com/AnyUserName/tweetshot/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr    string
	serveProfile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser editor with live preview",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringVarP(&serveProfile, "profile", "p", "", "capture profile for downloads (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	profName := serveProfile
	if profName == "" {
		profName = cfg.Profile
	}

	r, err := render.New()
	if err != nil {
		return err
	}
	exp := export.New(export.Config{
		Renderer: r,
		Avatars:  avatar.NewLoader(cfg.AvatarTimeout, logger),
		Profile:  profile.Get(profName),
		Logger:   logger,
	})
	srv, err := server.New(server.Config{
		Exporter:   exp,
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
		Release:    cfg.LogEnv != "dev",
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting editor",
		zap.String("addr", addr),
		zap.String("profile", exp.Profile().Name))
	return srv.Run(ctx, addr)
}
