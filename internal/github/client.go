package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/arran4/gh2png"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "https://api.github.com"

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the upstream endpoint, identification and per-call timeouts.
type Config struct {
	BaseURL          string
	UserAgent        string
	ProfileTimeout   time.Duration
	ReposTimeout     time.Duration
	LanguagesTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = "gh2png/1.0"
	}
	if c.ProfileTimeout <= 0 {
		c.ProfileTimeout = 10 * time.Second
	}
	if c.ReposTimeout <= 0 {
		c.ReposTimeout = 15 * time.Second
	}
	if c.LanguagesTimeout <= 0 {
		c.LanguagesTimeout = 5 * time.Second
	}
	return c
}

// NewHTTPClient returns a client that sends token as a bearer credential.
// An empty token yields an unauthenticated client.
func NewHTTPClient(ctx context.Context, token string) *http.Client {
	if token == "" {
		return &http.Client{}
	}
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

// Client talks to the user-profile API. Each method makes exactly one
// request bounded by its configured timeout.
type Client struct {
	cfg        Config
	httpClient HTTPClient
	logger     *zap.Logger
}

func NewClient(cfg Config, httpClient HTTPClient, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg.withDefaults(), httpClient: httpClient, logger: logger}
}

// Repo is the part of a repository listing tag derivation needs.
type Repo struct {
	Name         string  `json:"name"`
	FullName     string  `json:"full_name"`
	Description  *string `json:"description"`
	Fork         bool    `json:"fork"`
	Size         int     `json:"size"`
	Language     string  `json:"language"`
	LanguagesURL string  `json:"languages_url"`
}

// LanguageBytes is one entry of a repository language breakdown.
type LanguageBytes struct {
	Name  string
	Bytes int64
}

// User fetches a profile record.
func (c *Client) User(ctx context.Context, login string) (gh2png.Profile, error) {
	var p gh2png.Profile
	u := fmt.Sprintf("%s/users/%s", c.cfg.BaseURL, url.PathEscape(login))
	err := c.get(ctx, c.cfg.ProfileTimeout, u, login, func(body io.Reader) error {
		var raw json.RawMessage
		if err := json.NewDecoder(body).Decode(&raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		p.Raw = raw
		return nil
	})
	if err != nil {
		return gh2png.Profile{}, err
	}
	if p.Login == "" {
		p.Login = login
	}
	return p, nil
}

// Repos lists a user's repositories. sort is an upstream sort key such as
// "pushed" or "updated".
func (c *Client) Repos(ctx context.Context, login, sort string, perPage int) ([]Repo, error) {
	q := url.Values{}
	q.Set("sort", sort)
	q.Set("per_page", fmt.Sprint(perPage))
	u := fmt.Sprintf("%s/users/%s/repos?%s", c.cfg.BaseURL, url.PathEscape(login), q.Encode())
	var repos []Repo
	err := c.get(ctx, c.cfg.ReposTimeout, u, login, func(body io.Reader) error {
		return json.NewDecoder(body).Decode(&repos)
	})
	return repos, err
}

// Languages returns a repository's language breakdown in the order the
// upstream listed it.
func (c *Client) Languages(ctx context.Context, login string, repo Repo) ([]LanguageBytes, error) {
	u := repo.LanguagesURL
	if u == "" {
		u = fmt.Sprintf("%s/repos/%s/%s/languages", c.cfg.BaseURL, url.PathEscape(login), url.PathEscape(repo.Name))
	}
	var langs []LanguageBytes
	err := c.get(ctx, c.cfg.LanguagesTimeout, u, login, func(body io.Reader) error {
		var err error
		langs, err = decodeLanguages(body)
		return err
	})
	return langs, err
}

func (c *Client) get(ctx context.Context, timeout time.Duration, u, login string, decode func(io.Reader) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindUpstream, Login: login, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("github response", zap.String("url", u), zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return classify(resp.StatusCode, login, string(body))
	}
	if err := decode(resp.Body); err != nil {
		return &APIError{Kind: KindUpstream, Status: resp.StatusCode, Login: login, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// decodeLanguages reads a {"Lang": bytes, ...} object keeping key order.
func decodeLanguages(r io.Reader) ([]LanguageBytes, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var out []LanguageBytes
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected language name, got %v", tok)
		}
		var n int64
		if err := dec.Decode(&n); err != nil {
			return nil, fmt.Errorf("language %q: %w", name, err)
		}
		out = append(out, LanguageBytes{Name: name, Bytes: n})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
