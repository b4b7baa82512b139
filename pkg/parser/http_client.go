package parser

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultUserAgent = "datadoc-go/1.0 (dataset archive documentation)"

// HTTPClient fetches catalog sources over HTTP. Unlike a crawler it
// identifies itself honestly; the portals queried here serve sitemaps
// to anyone.
type HTTPClient struct {
	client    *fasthttp.Client
	timeout   time.Duration
	userAgent string
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		timeout:   timeout,
		userAgent: defaultUserAgent,
	}
}

// Download fetches the URL and returns the decompressed body.
func (h *HTTPClient) Download(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(targetURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(h.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")

	if err := h.client.DoTimeout(req, resp, h.timeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode())
	}

	// fasthttp reuses response buffers after release
	bodyBytes := make([]byte, len(resp.Body()))
	copy(bodyBytes, resp.Body())

	reader := &bytesReadCloser{bytes: bodyBytes}

	if h.isGzipped(targetURL, resp) {
		gzipReader, err := gzip.NewReader(reader)
		if err != nil {
			reader.Close()
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return &gzipReadCloser{gzipReader: gzipReader, underlying: reader}, nil
	}

	return reader, nil
}

func (h *HTTPClient) isGzipped(targetURL string, resp *fasthttp.Response) bool {
	return strings.HasSuffix(strings.ToLower(targetURL), ".gz") ||
		string(resp.Header.Peek("Content-Encoding")) == "gzip"
}

// openSource opens a catalog source: remote sources go through the
// download client, everything else is a local file. Gzipped files are
// transparently decompressed.
func openSource(ctx context.Context, client DownloadClient, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return client.Download(ctx, source)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}

	if strings.HasSuffix(strings.ToLower(source), ".gz") {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to open gzipped source: %w", err)
		}
		return &gzipReadCloser{gzipReader: gzipReader, underlying: file}, nil
	}

	return file, nil
}

// bytesReadCloser implements io.ReadCloser for byte slices
type bytesReadCloser struct {
	bytes  []byte
	offset int
}

func (b *bytesReadCloser) Read(p []byte) (n int, err error) {
	if b.offset >= len(b.bytes) {
		return 0, io.EOF
	}
	n = copy(p, b.bytes[b.offset:])
	b.offset += n
	return n, nil
}

func (b *bytesReadCloser) Close() error {
	return nil
}

// gzipReadCloser implements io.ReadCloser for gzip content
type gzipReadCloser struct {
	gzipReader *gzip.Reader
	underlying io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (n int, err error) {
	return g.gzipReader.Read(p)
}

func (g *gzipReadCloser) Close() error {
	if err := g.gzipReader.Close(); err != nil {
		g.underlying.Close()
		return err
	}
	return g.underlying.Close()
}
