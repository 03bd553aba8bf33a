package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/github"
	"go.uber.org/zap"
)

const (
	reportRepoCount     = 30
	reportLanguageRepos = 20
	reportTopLanguages  = 8
)

// TechReport is the body of the tag-derivation JSON endpoint.
type TechReport struct {
	Technologies  []gh2png.Technology `json:"technologies"`
	LanguageStats map[string]int64    `json:"languageStats"`
	TotalRepos    int                 `json:"totalRepos"`
}

// frameworkRule matches repository names and descriptions (lowercased).
// nameOnly keywords are checked against the name alone.
type frameworkRule struct {
	tech     string
	keywords []string
	nameOnly []string
}

var frameworkRules = []frameworkRule{
	{tech: "React", keywords: []string{"react"}},
	{tech: "Next.js", keywords: []string{"next"}},
	{tech: "Vue.js", keywords: []string{"vue"}},
	{tech: "Node.js", keywords: []string{"node"}, nameOnly: []string{"express"}},
	{tech: "Angular", keywords: []string{"angular"}},
	{tech: "Django", keywords: []string{"django"}},
	{tech: "Docker", keywords: []string{"docker"}},
	{tech: "MongoDB", keywords: []string{"mongo"}},
}

func (r frameworkRule) matches(name, description string) bool {
	for _, k := range r.keywords {
		if strings.Contains(name, k) || strings.Contains(description, k) {
			return true
		}
	}
	for _, k := range r.nameOnly {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// Report derives a technology report from a user's recently updated
// repositories. Listing failures are returned as classified
// *github.APIError values; per-repository language failures are skipped.
func (s *Service) Report(ctx context.Context, login string) (TechReport, error) {
	if login == "" {
		login = gh2png.DefaultLogin
	}
	repos, err := s.upstream.Repos(ctx, login, "updated", reportRepoCount)
	if err != nil {
		return TechReport{}, err
	}

	var sampled []github.Repo
	for i, repo := range repos {
		if i == reportLanguageRepos {
			break
		}
		if !repo.Fork && repo.Size > 0 {
			sampled = append(sampled, repo)
		}
	}

	stats := make(map[string]int64)
	for _, langs := range s.languagesByRepo(ctx, login, sampled) {
		for _, l := range langs {
			stats[l.Name] += l.Bytes
		}
	}

	report := TechReport{
		Technologies:  detectTechnologies(repos, stats),
		LanguageStats: stats,
		TotalRepos:    len(repos),
	}
	s.logger.Info("technology report",
		zap.String("username", login),
		zap.Int("repos", len(repos)),
		zap.Int("technologies", len(report.Technologies)),
	)
	return report, nil
}

// detectTechnologies lists the top languages by byte count, then detected
// frameworks, then Git when any repository exists. Capped at gh2png.MaxTags.
func detectTechnologies(repos []github.Repo, stats map[string]int64) []gh2png.Technology {
	techs := make([]gh2png.Technology, 0, gh2png.MaxTags)
	seen := make(map[string]bool)
	add := func(t gh2png.Technology) {
		if !seen[t.Name] {
			seen[t.Name] = true
			techs = append(techs, t)
		}
	}

	for _, lang := range topLanguages(stats, reportTopLanguages) {
		if t, ok := gh2png.TechnologyForLanguage(lang); ok {
			add(t)
		}
	}

	for _, repo := range repos {
		name := strings.ToLower(repo.Name)
		var desc string
		if repo.Description != nil {
			desc = strings.ToLower(*repo.Description)
		}
		for _, rule := range frameworkRules {
			if rule.matches(name, desc) {
				if t, ok := gh2png.LookupTechnology(rule.tech); ok {
					add(t)
				}
			}
		}
	}

	if len(repos) > 0 {
		if t, ok := gh2png.LookupTechnology("Git"); ok {
			add(t)
		}
	}

	if len(techs) > gh2png.MaxTags {
		techs = techs[:gh2png.MaxTags]
	}
	return techs
}

// topLanguages orders languages by bytes descending, ties by name.
func topLanguages(stats map[string]int64, n int) []string {
	langs := make([]string, 0, len(stats))
	for l := range stats {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool {
		if stats[langs[i]] != stats[langs[j]] {
			return stats[langs[i]] > stats[langs[j]]
		}
		return langs[i] < langs[j]
	})
	if len(langs) > n {
		langs = langs[:n]
	}
	return langs
}
