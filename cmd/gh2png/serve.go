package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the card HTTP service",
	Long: `Serve exposes the card endpoints:

  GET /api/profile?username=octocat&theme=dark     profile card (PNG)
  GET /api/tech?username=octocat&tech=Go,Rust      tech badge card (PNG)
  GET /api/user?username=octocat                   profile data (JSON)
  GET /api/user-tech?username=octocat              detected technologies (JSON)
  GET /api/embed?username=octocat&format=html      README snippet

Set GITHUB_TOKEN to raise the upstream rate limit.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port (default 8080)")
	serveCmd.Flags().Int("rate-limit", 0, "Per-IP requests per second; 0 disables limiting")
	serveCmd.Flags().String("public-url", "", "Base URL used in embed snippets (default: request host)")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("server.rate_limit_rps", serveCmd.Flags().Lookup("rate-limit"))
	_ = v.BindPFlag("server.public_url", serveCmd.Flags().Lookup("public-url"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fonts, err := gh2png.LoadFonts(gh2png.FontConfig{})
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	srv, err := server.New(server.Options{
		Resolver:     newResolver(ctx),
		Avatars:      &gh2png.AvatarLoader{Timeout: cfg.Avatar.Timeout},
		Fonts:        fonts,
		Logger:       logger.Named("server"),
		CORSOrigins:  cfg.Server.CORSOrigins,
		RateLimitRPS: cfg.Server.RateLimitRPS,
		PublicURL:    cfg.Server.PublicURL,
	})
	if err != nil {
		return err
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gh2png HTTP listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("github", cfg.GitHub.BaseURL),
			zap.Bool("authenticated", cfg.GitHub.Token != ""),
		)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// ── Graceful shutdown ──────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down gh2png...")
	cancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}

	logger.Info("gh2png stopped")
	return nil
}
