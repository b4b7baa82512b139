package archive

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"datadoc-go/pkg/logger"
)

const defaultTimeout = 60 * time.Second

// Client fetches Internet Archive timemaps for page URLs.
type Client struct {
	timemapBase string
	client      *fasthttp.Client
	timeout     time.Duration
	log         *logger.Logger
}

// NewClient creates a timemap client. timemapBase is the link-format
// endpoint prefix; the page URL is appended to it unescaped, which is
// the form the archive expects.
func NewClient(timemapBase string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		timemapBase: timemapBase,
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
		log:     logger.GetLogger().WithField("component", "archive_client"),
	}
}

// Snapshots returns the archived captures of pageURL in timemap order.
// Any transport or HTTP failure yields an empty list and a warning;
// a snapshot gap must not stop a batch run.
func (c *Client) Snapshots(ctx context.Context, pageURL string) []Snapshot {
	if pageURL == "" {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.timemapBase + pageURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent("datadoc-go/1.0 (dataset archive documentation)")

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		c.log.WithError(err).WithField("page", pageURL).Warn("Timemap request failed")
		return nil
	}

	// The archive answers 404 for pages it has never captured.
	if resp.StatusCode() != fasthttp.StatusOK {
		c.log.WithFields(map[string]interface{}{
			"page":   pageURL,
			"status": resp.StatusCode(),
		}).Warn("Timemap request returned non-OK status")
		return nil
	}

	snapshots := parseTimemap(string(resp.Body()))
	c.log.WithFields(map[string]interface{}{
		"page":  pageURL,
		"count": len(snapshots),
	}).Debug("Timemap fetched")
	return snapshots
}
