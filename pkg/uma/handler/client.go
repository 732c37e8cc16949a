package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/latoulicious/umaroster/pkg/logging"
	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
	"golang.org/x/time/rate"
)

// Default catalog locations
const (
	DefaultSparkURL     = "https://raw.githubusercontent.com/Marco-Poelsma/UmamuAPI/refs/heads/master/data/spark.data.json"
	DefaultUmamusumeURL = "https://raw.githubusercontent.com/Marco-Poelsma/UmamuAPI/refs/heads/master/data/umamusume.data.json"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultCacheSize = 16
	maxBodyBytes     = 8 << 20
)

// ClientOptions configures the catalog client. Zero values pick defaults;
// a RateLimit of 0 disables throttling.
type ClientOptions struct {
	SparkURL     string
	UmamusumeURL string
	HTTPClient   *http.Client
	Timeout      time.Duration
	RateLimit    float64
	Burst        int
	CacheSize    int
	Logger       logging.Logger
}

type cachedResponse struct {
	etag string
	body []byte
}

// Client fetches the spark and umamusume catalogs over HTTP
type Client struct {
	httpClient   *http.Client
	sparkURL     string
	umamusumeURL string
	limiter      *rate.Limiter
	cache        *lru.Cache[string, cachedResponse]
	sparkMapper  *shared.SparkMapper
	umaMapper    *shared.UmamusumeMapper
	logger       logging.Logger
}

var _ uma.CatalogGateway = (*Client)(nil)

// NewClient creates a catalog client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.SparkURL == "" {
		opts.SparkURL = DefaultSparkURL
	}
	if opts.UmamusumeURL == "" {
		opts.UmamusumeURL = DefaultUmamusumeURL
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	cache, err := lru.New[string, cachedResponse](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobalLoggerFactory().CreateLogger("catalog_gateway")
	}

	return &Client{
		httpClient:   httpClient,
		sparkURL:     opts.SparkURL,
		umamusumeURL: opts.UmamusumeURL,
		limiter:      rate.NewLimiter(limit, burst),
		cache:        cache,
		sparkMapper:  shared.NewSparkMapper(),
		umaMapper:    shared.NewUmamusumeMapper(),
		logger:       logger,
	}, nil
}

// FetchSparks fetches and decodes the spark catalog
func (c *Client) FetchSparks(ctx context.Context) ([]shared.Spark, error) {
	body, err := c.fetch(ctx, c.sparkURL)
	if err != nil {
		return nil, err
	}

	var envelope shared.SparkCatalogResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, c.decodeError(c.sparkURL, err)
	}
	if envelope.Sparks == nil {
		return nil, c.decodeError(c.sparkURL, errors.New(`missing "sparks" key`))
	}

	sparks, err := c.sparkMapper.ToDomain(*envelope.Sparks)
	if err != nil {
		return nil, c.decodeError(c.sparkURL, err)
	}
	return sparks, nil
}

// FetchUmamusumes fetches and decodes the roster catalog
func (c *Client) FetchUmamusumes(ctx context.Context) ([]shared.Umamusume, error) {
	body, err := c.fetch(ctx, c.umamusumeURL)
	if err != nil {
		return nil, err
	}

	var envelope shared.UmamusumeCatalogResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, c.decodeError(c.umamusumeURL, err)
	}
	if envelope.Properties == nil {
		return nil, c.decodeError(c.umamusumeURL, errors.New(`missing "properties" key`))
	}

	records, err := c.umaMapper.ToDomain(*envelope.Properties)
	if err != nil {
		return nil, c.decodeError(c.umamusumeURL, err)
	}
	return records, nil
}

// fetch performs a conditional GET, serving the cached body on 304
func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		if err == nil {
			err = fmt.Errorf("unsupported url %q", rawURL)
		}
		return nil, &APIError{Kind: InvalidEndpoint, URL: rawURL, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.transportError(rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, &APIError{Kind: InvalidEndpoint, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	cached, hasCached := c.cache.Get(rawURL)
	if hasCached && cached.etag != "" {
		req.Header.Set("If-None-Match", cached.etag)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified && hasCached {
		c.logger.Debug("Catalog not modified, serving cached body", map[string]interface{}{
			"url":         rawURL,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return cached.body, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Kind: InvalidResponseStatus, StatusCode: resp.StatusCode, URL: rawURL}
		c.logger.Warn("Catalog returned non-success status", map[string]interface{}{
			"url":    rawURL,
			"status": resp.StatusCode,
		})
		return nil, apiErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportError(rawURL, err)
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		c.cache.Add(rawURL, cachedResponse{etag: etag, body: body})
	}

	c.logger.Debug("Catalog fetched", map[string]interface{}{
		"url":         rawURL,
		"status":      resp.StatusCode,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return body, nil
}

func (c *Client) transportError(rawURL string, err error) error {
	c.logger.Warn("Catalog transport failure", map[string]interface{}{
		"url":   rawURL,
		"error": err.Error(),
	})
	return &APIError{Kind: TransportFailure, URL: rawURL, Err: err}
}

func (c *Client) decodeError(rawURL string, err error) error {
	c.logger.Warn("Catalog payload rejected", map[string]interface{}{
		"url":   rawURL,
		"error": err.Error(),
	})
	return &APIError{Kind: DecodingFailure, URL: rawURL, Err: err}
}
