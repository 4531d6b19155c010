package ryokan

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"ryokan-explorer/config"
	"ryokan-explorer/models"
	"ryokan-explorer/utils"
)

// Scraper walks the listing-index pages of the ryokan site and collects one
// RawRyokan per detail page. Execution is strictly sequential: one fetch at
// a time, with a politeness delay between detail requests.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *resty.Client
	retry   *utils.RetryConfig
	limiter *utils.RateLimiter
	visited map[string]struct{}
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	client := resty.New()
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetTimeout(time.Duration(cfg.HTTPTimeoutSec) * time.Second)

	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		limiter: utils.NewRateLimiter(cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		visited: make(map[string]struct{}),
	}
}

// Scrape drives pagination and detail-page extraction. An index-page fetch
// failure aborts the whole run with no retry and no partial result. Detail-page
// failures only cost the affected listing.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawRyokan, error) {
	s.logger.Info("[ryokan] Starting scrape: %d index pages from %s", s.cfg.TotalPages, s.cfg.BaseURL)

	var ryokans []*models.RawRyokan

	for page := 1; page <= s.cfg.TotalPages; page++ {
		urls, err := s.fetchIndexPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("index page %d: %w", page, err)
		}

		s.logger.Info("[ryokan] Page %d/%d: %d listing links", page, s.cfg.TotalPages, len(urls))

		for _, link := range urls {
			link = s.absoluteURL(link)
			if _, seen := s.visited[link]; seen {
				s.logger.Debug("[ryokan] Skipping duplicate: %s", link)
				continue
			}
			s.visited[link] = struct{}{}

			s.limiter.Wait()

			raw, err := s.fetchDetail(ctx, link)
			if err != nil {
				s.logger.Warn("[ryokan] Detail page skipped %s: %v", link, err)
				continue
			}
			ryokans = append(ryokans, raw)
		}
	}

	s.logger.Info("[ryokan] Scrape complete: %d listings collected", len(ryokans))
	return ryokans, nil
}

func (s *Scraper) fetchIndexPage(ctx context.Context, page int) ([]string, error) {
	url := fmt.Sprintf("%s/ryokan/page/%d", s.cfg.BaseURL, page)

	res, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("status code %d for %s", res.StatusCode(), url)
	}

	return ParseIndex(bytes.NewReader(res.Body()))
}

func (s *Scraper) fetchDetail(ctx context.Context, url string) (*models.RawRyokan, error) {
	var raw *models.RawRyokan

	err := s.retry.Do(ctx, "detail "+url, func() error {
		res, err := s.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return err
		}
		if res.StatusCode() != 200 {
			return fmt.Errorf("status code %d", res.StatusCode())
		}

		parsed, err := ParseDetail(bytes.NewReader(res.Body()), url)
		if err != nil {
			return fmt.Errorf("parse: %w", err)
		}
		raw = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw.ScrapedAt = time.Now()
	return raw, nil
}

// absoluteURL resolves site-relative detail links against the base URL.
func (s *Scraper) absoluteURL(link string) string {
	if strings.HasPrefix(link, "/") {
		return strings.TrimRight(s.cfg.BaseURL, "/") + link
	}
	return link
}
