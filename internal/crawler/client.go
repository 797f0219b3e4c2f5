package crawler

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// FetchError reports a failed or non-OK page fetch, with enough context
// for the crawl loop to decide whether to retry, skip, or abort.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("crawler: fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("crawler: fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches page bodies with a fixed User-Agent and bounded
// retries on transient server errors, the GET-only subset of the
// teacher's general-purpose HTTPClient.
type Client struct {
	http *resty.Client
}

// NewClient builds a Client that identifies itself with userAgent on
// every request, per the original crawler's RequestHandler.request().
func NewClient(userAgent string) *Client {
	c := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)

	c.AddRetryCondition(func(r *resty.Response, err error) bool {
		return err != nil || r.StatusCode() >= 500
	})

	return &Client{http: c}
}

// FetchResult is the outcome of one page fetch.
type FetchResult struct {
	URL        string
	Body       string
	StatusCode int
}

// Fetch issues a GET request for url. It does not itself interpret the
// response status beyond returning it: the crawl loop decides what a
// 200, 404, or 429 means (§4.B: a 429 aborts and persists crawl state).
func (c *Client) Fetch(url string) (FetchResult, error) {
	resp, err := c.http.R().Get(url)
	if err != nil {
		return FetchResult{}, &FetchError{URL: url, Err: err}
	}
	return FetchResult{
		URL:        url,
		Body:       resp.String(),
		StatusCode: resp.StatusCode(),
	}, nil
}
