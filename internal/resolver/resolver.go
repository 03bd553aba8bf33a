// Package resolver turns a subject identifier into the data a widget needs.
//
// Resolve never fails: when the profile cannot be fetched it hands back the
// placeholder record and marks the result degraded, so the image path can
// always render. Report, used by the JSON endpoints, propagates classified
// upstream errors instead.
package resolver

import (
	"context"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/github"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// tagRepoCount repositories are listed (most recently pushed first) when
	// deriving tags; languages are read for the first tagLanguageRepos.
	tagRepoCount     = 10
	tagLanguageRepos = 5
)

// Upstream is the subset of the profile API the resolver calls.
type Upstream interface {
	User(ctx context.Context, login string) (gh2png.Profile, error)
	Repos(ctx context.Context, login, sort string, perPage int) ([]github.Repo, error)
	Languages(ctx context.Context, login string, repo github.Repo) ([]github.LanguageBytes, error)
}

// TagRequest says whether tags are wanted and whether the caller supplied
// them explicitly.
type TagRequest struct {
	Want     bool
	Override []string
}

// Resolution is either Ok (Degraded false) or Degraded with the placeholder
// record and the upstream failure that caused it in Reason.
type Resolution struct {
	Profile  gh2png.Profile
	Tags     []gh2png.Tag
	Degraded bool
	Reason   error
}

// Service resolves subjects against an Upstream.
type Service struct {
	upstream Upstream
	logger   *zap.Logger
}

// New creates a resolver Service.
func New(upstream Upstream, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{upstream: upstream, logger: logger}
}

// Resolve fetches the profile and, when requested, the tag list for login.
// An empty login resolves gh2png.DefaultLogin.
func (s *Service) Resolve(ctx context.Context, login string, req TagRequest) Resolution {
	if login == "" {
		login = gh2png.DefaultLogin
	}

	var res Resolution
	p, err := s.upstream.User(ctx, login)
	if err != nil {
		s.logger.Warn("profile unavailable, using placeholder",
			zap.String("username", login),
			zap.Error(err),
		)
		res = Resolution{Profile: gh2png.Placeholder(login), Degraded: true, Reason: err}
	} else {
		res = Resolution{Profile: p}
	}

	switch {
	case !req.Want:
	case len(req.Override) > 0:
		res.Tags = gh2png.TagsFor(req.Override)
	case res.Degraded:
		res.Tags = gh2png.PlaceholderTags()
	default:
		res.Tags = gh2png.TagsFor(s.deriveLanguages(ctx, login))
	}
	return res
}

// deriveLanguages unions the language names of the most recently pushed
// repositories in first-observed order. Failures shrink the result; they
// are logged and never returned.
func (s *Service) deriveLanguages(ctx context.Context, login string) []string {
	repos, err := s.upstream.Repos(ctx, login, "pushed", tagRepoCount)
	if err != nil {
		s.logger.Warn("repository listing failed", zap.String("username", login), zap.Error(err))
		return nil
	}
	if len(repos) > tagLanguageRepos {
		repos = repos[:tagLanguageRepos]
	}

	perRepo := s.languagesByRepo(ctx, login, repos)

	var names []string
	for _, langs := range perRepo {
		for _, l := range langs {
			names = append(names, l.Name)
		}
	}
	return names
}

// languagesByRepo fetches every repository's languages concurrently. The
// result is indexed like repos; a failed lookup leaves its slot empty.
func (s *Service) languagesByRepo(ctx context.Context, login string, repos []github.Repo) [][]github.LanguageBytes {
	out := make([][]github.LanguageBytes, len(repos))
	var g errgroup.Group
	for i, repo := range repos {
		g.Go(func() error {
			langs, err := s.upstream.Languages(ctx, login, repo)
			if err != nil {
				s.logger.Debug("languages unavailable",
					zap.String("username", login),
					zap.String("repo", repo.Name),
					zap.Error(err),
				)
				return nil
			}
			out[i] = langs
			return nil
		})
	}
	_ = g.Wait()
	return out
}
