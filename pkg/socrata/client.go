package socrata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"datadoc-go/pkg/logger"
)

// Client queries a Socrata Discovery API for dataset metadata, one
// identifier at a time.
type Client struct {
	baseURL  string
	appToken string
	client   *fasthttp.Client
	timeout  time.Duration
	log      *logger.Logger
}

func NewClient(baseURL, appToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		appToken: appToken,
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout: timeout,
		log:     logger.GetLogger().WithField("component", "socrata_client"),
	}
}

// Resolve looks up one dataset identifier. Lookups degrade rather than
// fail: any transport or API problem yields a Resolution carrying the
// sentinel name and the error text, so a single broken dataset never
// stops a batch.
func (c *Client) Resolve(ctx context.Context, id string) Resolution {
	if err := ctx.Err(); err != nil {
		return missResolution(id, fmt.Sprintf("lookup aborted: %v", err))
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURI(c.baseURL, id))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent("datadoc-go/1.0")
	req.Header.Set("Accept", "application/json")
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		c.log.WithError(err).WithField("identifier", id).Warn("Metadata request failed")
		return missResolution(id, fmt.Sprintf("metadata request failed: %v", err))
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.log.WithFields(map[string]interface{}{
			"identifier": id,
			"status":     resp.StatusCode(),
		}).Warn("Metadata API returned non-OK status")
		return missResolution(id, fmt.Sprintf("metadata API returned status %d: %s", resp.StatusCode(), resp.Body()))
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	res := parseDiscovery(id, body)
	if res.Found {
		c.log.WithFields(map[string]interface{}{
			"identifier": id,
			"name":       res.Metadata.Name,
		}).Debug("Metadata resolved")
	} else {
		c.log.WithField("identifier", id).Info("Metadata lookup missed")
	}
	return res
}

// requestURI appends the ids parameter, tolerating base URLs that
// already carry a query string.
func requestURI(baseURL, id string) string {
	if strings.Contains(baseURL, "?") {
		return baseURL + "&ids=" + url.QueryEscape(id)
	}
	return baseURL + "?ids=" + url.QueryEscape(id)
}
