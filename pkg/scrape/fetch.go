package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gpstats/gpstats-go/log"
)

const (
	// one request per second against the source site
	defaultFetchDelay = time.Second
	// a failing fetch is retried 4 times (5 attempts total) with a long
	// pause; exhausting the retries aborts the whole run
	defaultRetryCount = 4
	defaultRetryWait  = 3 * time.Minute
)

type FetcherOption func(f *Fetcher)

func WithFetchDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.delay = d }
}

func WithRetryWait(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.SetRetryWaitTime(d)
		f.client.SetRetryMaxWaitTime(d)
	}
}

func WithRetryCount(n int) FetcherOption {
	return func(f *Fetcher) { f.client.SetRetryCount(n) }
}

// Fetcher is a throttled, retrying page getter. It is not safe for
// concurrent use; the scrape and chart runs are single threaded.
type Fetcher struct {
	client *resty.Client
	delay  time.Duration
	last   time.Time
	logger *log.Logger
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	client := resty.New().
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})
	ret := &Fetcher{
		client: client,
		delay:  defaultFetchDelay,
		logger: log.Default().Named("scrape.fetch"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Get fetches url, waiting out the throttle delay first.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.throttle()
	f.logger.Debug("fetching", log.String("url", url))
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return resp.Body(), nil
}

func (f *Fetcher) throttle() {
	if wait := f.delay - time.Since(f.last); wait > 0 {
		time.Sleep(wait)
	}
	f.last = time.Now()
}
