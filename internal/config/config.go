// Package config loads gh2png settings from defaults, an optional
// gh2png.yaml file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arran4/gh2png/internal/github"
	"github.com/spf13/viper"
)

// Config is the resolved configuration shared by the server and the CLI.
type Config struct {
	Server ServerConfig
	GitHub GitHubConfig
	Avatar AvatarConfig
}

type ServerConfig struct {
	Port         int
	CORSOrigins  []string
	RateLimitRPS int
	PublicURL    string
}

type GitHubConfig struct {
	BaseURL          string
	Token            string
	UserAgent        string
	ProfileTimeout   time.Duration
	ReposTimeout     time.Duration
	LanguagesTimeout time.Duration
}

// Client returns the upstream client settings.
func (g GitHubConfig) Client() github.Config {
	return github.Config{
		BaseURL:          g.BaseURL,
		UserAgent:        g.UserAgent,
		ProfileTimeout:   g.ProfileTimeout,
		ReposTimeout:     g.ReposTimeout,
		LanguagesTimeout: g.LanguagesTimeout,
	}
}

type AvatarConfig struct {
	Timeout time.Duration
}

// New returns a viper instance with gh2png defaults, config search paths
// and environment binding. GITHUB_TOKEN maps to github.token.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("gh2png")
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.public_url", "")
	v.SetDefault("github.base_url", github.DefaultBaseURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.user_agent", "gh2png/1.0")
	v.SetDefault("github.profile_timeout", "10s")
	v.SetDefault("github.repos_timeout", "15s")
	v.SetDefault("github.languages_timeout", "5s")
	v.SetDefault("avatar.timeout", "10s")
	return v
}

// Load reads the config file if one exists and decodes v. A missing file is
// not an error; found reports whether one was read.
func Load(v *viper.Viper) (cfg Config, found bool, err error) {
	if err := v.ReadInConfig(); err != nil {
		var cfgNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgNotFound) {
			return Config{}, false, fmt.Errorf("read config: %w", err)
		}
	} else {
		found = true
	}

	cfg = Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			CORSOrigins:  v.GetStringSlice("server.cors_origins"),
			RateLimitRPS: v.GetInt("server.rate_limit_rps"),
			PublicURL:    v.GetString("server.public_url"),
		},
		GitHub: GitHubConfig{
			BaseURL:          v.GetString("github.base_url"),
			Token:            v.GetString("github.token"),
			UserAgent:        v.GetString("github.user_agent"),
			ProfileTimeout:   v.GetDuration("github.profile_timeout"),
			ReposTimeout:     v.GetDuration("github.repos_timeout"),
			LanguagesTimeout: v.GetDuration("github.languages_timeout"),
		},
		Avatar: AvatarConfig{
			Timeout: v.GetDuration("avatar.timeout"),
		},
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return Config{}, found, fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	return cfg, found, nil
}
