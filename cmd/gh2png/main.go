package main

import (
	"context"
	"fmt"
	"os"

	"github.com/arran4/gh2png/internal/config"
	"github.com/arran4/gh2png/internal/github"
	"github.com/arran4/gh2png/internal/resolver"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile string
	debug   bool

	v      = config.New()
	cfg    config.Config
	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gh2png",
	Short: "Render GitHub profile and tech-stack cards as PNG images",
	Long: `gh2png renders small profile and technology badge cards for a GitHub
user and serves them as PNG images suitable for embedding in a README.

Run "gh2png serve" for the HTTP service or "gh2png render" to write a
single card to a file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}

		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
		}
		var found bool
		cfg, found, err = config.Load(v)
		if err != nil {
			return err
		}
		if !found {
			logger.Debug("no config file found, using defaults and env vars")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gh2png version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./configs/gh2png.yaml or ./gh2png.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable development logging")
	rootCmd.PersistentFlags().String("github-url", "", "GitHub API base URL (default https://api.github.com)")
	_ = v.BindPFlag("github.base_url", rootCmd.PersistentFlags().Lookup("github-url"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(versionCmd)
}

// newResolver wires the upstream client and resolver from cfg.
func newResolver(ctx context.Context) *resolver.Service {
	httpClient := github.NewHTTPClient(ctx, cfg.GitHub.Token)
	client := github.NewClient(cfg.GitHub.Client(), httpClient, logger.Named("github"))
	return resolver.New(client, logger.Named("resolver"))
}
