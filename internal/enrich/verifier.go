package enrich

import (
	"context"
	"strings"
	"sync"
	"time"

	"misterhr/internal/domain"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const verifierUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// skillEvidence maps page keywords to the skill they evidence. Sampled
// from reachable GitHub and portfolio pages.
var skillEvidence = map[string]string{
	"python":     "python",
	"django":     "python",
	"flask":      "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"react":      "react",
	"vue":        "vue",
	"angular":    "angular",
	"golang":     "go",
	"kotlin":     "kotlin",
	"rust":       "rust",
	"java":       "java",
	"spring":     "java",
	"postgresql": "postgresql",
	"mysql":      "mysql",
	"mongodb":    "mongodb",
	"redis":      "redis",
	"docker":     "docker",
	"kubernetes": "kubernetes",
	"terraform":  "terraform",
	"aws":        "aws",
	"azure":      "azure",
}

type Verifier struct {
	timeout  time.Duration
	headless bool
	workers  int
	logger   *zap.Logger
}

func NewVerifier(timeout time.Duration, headless bool, logger *zap.Logger) *Verifier {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Verifier{
		timeout:  timeout,
		headless: headless,
		workers:  3,
		logger:   logger,
	}
}

// VerifyAll checks every URL concurrently and aggregates credibility.
func (v *Verifier) VerifyAll(ctx context.Context, urls []string) domain.EnrichmentResult {
	result := domain.EnrichmentResult{CheckedAt: time.Now().UTC()}
	if len(urls) == 0 {
		return result
	}

	var mu sync.Mutex
	pool := NewWorkerPool(v.workers, len(urls))
	pool.SetRateLimit(2)
	done := pool.Run(ctx)

	for _, raw := range urls {
		raw := raw
		pool.Submit(func(ctx context.Context) error {
			p := v.verifyOne(ctx, raw)
			mu.Lock()
			result.Profiles = append(result.Profiles, p.profile)
			result.SkillHints = mergeHints(result.SkillHints, p.hints)
			mu.Unlock()
			return nil
		})
	}
	pool.Close()
	for range done {
	}

	result.Credibility = Credibility(result.Profiles, result.SkillHints)
	return result
}

type verified struct {
	profile domain.VerifiedProfile
	hints   []string
}

func (v *Verifier) verifyOne(ctx context.Context, rawURL string) verified {
	url := NormalizeURL(rawURL)
	platform := DetectPlatform(url)
	out := verified{profile: domain.VerifiedProfile{URL: rawURL, Platform: platform}}
	if url == "" {
		out.profile.Error = "invalid url"
		return out
	}

	title, text, err := v.fetchStatic(ctx, url)
	if err != nil && v.headless {
		title, text, err = v.fetchHeadless(ctx, url)
	}
	if err != nil {
		out.profile.Error = err.Error()
		if v.logger != nil {
			v.logger.Debug("profile unreachable", zap.String("url", url), zap.Error(err))
		}
		return out
	}

	out.profile.Reachable = true
	out.profile.Title = title
	if platform == PlatformGitHub || platform == PlatformPortfolio || platform == PlatformDevTo {
		out.hints = sampleSkills(text)
	}
	return out
}

func (v *Verifier) fetchStatic(ctx context.Context, url string) (title, text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	c := colly.NewCollector(
		colly.UserAgent(verifierUserAgent),
		colly.MaxBodySize(2<<20),
	)
	c.SetRequestTimeout(v.timeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, Delay: 250 * time.Millisecond})

	c.OnHTML("title", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		text = e.Text
	})

	var reqErr error
	c.OnError(func(r *colly.Response, e error) {
		reqErr = e
	})

	if err := c.Visit(url); err != nil {
		return "", "", err
	}
	c.Wait()

	if reqErr != nil {
		return "", "", reqErr
	}
	return title, text, nil
}

func sampleSkills(text string) []string {
	lower := strings.ToLower(text)
	seen := map[string]bool{}
	var hints []string
	for keyword, skill := range skillEvidence {
		if seen[skill] {
			continue
		}
		if strings.Contains(lower, keyword) {
			seen[skill] = true
			hints = append(hints, skill)
		}
	}
	return hints
}

func mergeHints(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, h := range existing {
		seen[h] = true
	}
	for _, h := range extra {
		if !seen[h] {
			seen[h] = true
			existing = append(existing, h)
		}
	}
	return existing
}
