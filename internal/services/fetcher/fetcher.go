package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jokefetch/internal/domain/models"
	"jokefetch/internal/lib/logger/sl"
	"jokefetch/internal/utils/metrics"

	"golang.org/x/time/rate"
)

// ErrAPIError marks a well-formed response whose error flag is set.
var ErrAPIError = errors.New("api returned an error")

type Options struct {
	BaseURL   string
	Category  string
	Blacklist []string
	Amount    int
	Lang      string
	Requests  int
	Window    time.Duration
	Timeout   time.Duration
}

type Fetcher struct {
	log      *slog.Logger
	metrics  *metrics.Metrics
	client   *http.Client
	endpoint string
	requests int
	limiter  *rate.Limiter
}

func New(log *slog.Logger, m *metrics.Metrics, opts Options) (*Fetcher, error) {
	const op = "fetcher.New"

	if opts.Requests <= 0 {
		return nil, fmt.Errorf("%s: requests must be positive", op)
	}

	endpoint, err := buildEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if m == nil {
		m = &metrics.Metrics{}
	}

	var limiter *rate.Limiter
	if delay := opts.Window / time.Duration(opts.Requests); delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	return &Fetcher{
		log:      log,
		metrics:  m,
		client:   &http.Client{Timeout: opts.Timeout},
		endpoint: endpoint,
		requests: opts.Requests,
		limiter:  limiter,
	}, nil
}

func buildEndpoint(opts Options) (string, error) {
	if opts.BaseURL == "" {
		return "", errors.New("empty base url")
	}

	category := opts.Category
	if category == "" {
		category = "Any"
	}

	u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/" + category)
	if err != nil {
		return "", err
	}

	query := u.Query()
	if len(opts.Blacklist) > 0 {
		query.Set("blacklistFlags", strings.Join(opts.Blacklist, ","))
	}
	if opts.Amount > 0 {
		query.Set("amount", strconv.Itoa(opts.Amount))
	}
	if opts.Lang != "" {
		query.Set("lang", opts.Lang)
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// Fetch performs the configured number of requests one after another,
// spacing them evenly across the window. Failed requests are logged and
// skipped; whatever was collected is always returned.
func (f *Fetcher) Fetch(ctx context.Context) []models.Joke {
	var jokes []models.Joke

	for i := 1; i <= f.requests; i++ {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				f.log.Warn("fetch interrupted", sl.Err(err))
				return jokes
			}
		}

		start := time.Now()
		batch, err := f.fetchOnce(ctx)
		if err != nil {
			f.metrics.RecordFailure(time.Since(start))
			if errors.Is(err, ErrAPIError) {
				f.log.Warn("api error reported", "request", i, "total", f.requests)
			} else {
				f.log.Warn("request failed", "request", i, "total", f.requests, sl.Err(err))
			}
			continue
		}
		f.metrics.RecordSuccess(len(batch), time.Since(start))

		jokes = append(jokes, batch...)
		f.log.Info("jokes fetched",
			"request", i,
			"total", f.requests,
			"count", len(batch),
			"fetched", len(jokes),
		)
	}

	return jokes
}

func (f *Fetcher) fetchOnce(ctx context.Context) ([]models.Joke, error) {
	const op = "fetcher.fetchOnce"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			f.log.Debug("failed to close response body", sl.Err(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	batch, jokes, err := models.DecodeBatch(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if batch.Error {
		return nil, fmt.Errorf("%s: %w", op, ErrAPIError)
	}

	return jokes, nil
}
