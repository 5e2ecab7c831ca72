// Package gsheets downloads published spreadsheet exports.
package gsheets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/resilience"
	"github.com/j-evans1/CPR/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout      = 20 * time.Second
	defaultMaxBodyBytes = 8 << 20
	defaultMaxRedirects = 5
	userAgent           = "cpr-fantasy/1.0"
)

var (
	errEmptyURL      = crerr.New("sheet url is empty")
	errHTMLPayload   = crerr.New("sheet returned an html page; is it published to the web?")
	errBodyTooLarge  = crerr.New("sheet payload exceeds size limit")
	errSheetNotFound = crerr.New("sheet not found")
)

type ClientConfig struct {
	HTTPClient   *fasthttp.Client
	Timeout      time.Duration
	MaxBodyBytes int
	MaxRedirects int
	Logger       *logging.Logger

	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches raw sheet exports over HTTP. It performs exactly one
// attempt per call; callers cache results. Concurrent fetches of the same
// URL share one request.
type Client struct {
	httpClient     *fasthttp.Client
	timeout        time.Duration
	maxRedirects   int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBody,
		}
	}

	breakerCfg := cfg.CircuitBreaker
	notify := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		logger.Warn("sheet circuit breaker state changed", "from", from, "to", to)
		if notify != nil {
			notify(from, to)
		}
	}

	return &Client{
		httpClient:     httpClient,
		timeout:        timeout,
		maxRedirects:   maxRedirects,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Fetch downloads the payload at rawURL, following redirects. Every failure
// is reported as usecase.ErrDependencyUnavailable.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, unavailable(errEmptyURL)
	}

	if err := ctx.Err(); err != nil {
		return nil, unavailable(crerr.Wrap(err, "fetch sheet"))
	}

	// Only the request leader consults the breaker, so waiters never hold a
	// half-open slot. The shared fetch ignores the leader's cancellation;
	// the client timeout still bounds it.
	loadCtx := context.WithoutCancel(ctx)
	body, err, shared := c.flight.Do(rawURL, func() ([]byte, error) {
		if !c.circuitEnabled {
			return c.fetch(loadCtx, rawURL)
		}
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(loadCtx, "sheet circuit breaker rejected request",
				"url", redactURL(rawURL),
				"state", c.breaker.State(),
			)
			return nil, unavailable(crerr.Wrapf(err, "fetch %s", redactURL(rawURL)))
		}

		body, fetchErr := c.fetch(loadCtx, rawURL)
		if isCircuitFailure(fetchErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return body, fetchErr
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "sheet fetch shared with in-flight request", "url", redactURL(rawURL))
		return append([]byte(nil), body...), nil
	}
	return body, nil
}

// BreakerState reports the circuit state guarding the upstream host.
func (c *Client) BreakerState() resilience.CircuitState {
	return c.breaker.State()
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(crerr.Wrap(err, "fetch sheet"))
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return nil, unavailable(crerr.Wrap(context.DeadlineExceeded, "fetch sheet"))
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	req.SetTimeout(timeout)

	start := time.Now()
	if err := c.httpClient.DoRedirects(req, resp, c.maxRedirects); err != nil {
		if crerr.Is(err, fasthttp.ErrBodyTooLarge) {
			return nil, unavailable(crerr.Wrapf(errBodyTooLarge, "fetch %s", redactURL(rawURL)))
		}
		c.logger.WarnContext(ctx, "sheet request failed", "url", redactURL(rawURL), "error", err)
		return nil, unavailable(crerr.Wrapf(err, "fetch %s", redactURL(rawURL)))
	}

	status := resp.StatusCode()
	body := resp.Body()
	switch {
	case status == fasthttp.StatusNotFound:
		return nil, unavailable(crerr.Wrapf(errSheetNotFound, "fetch %s", redactURL(rawURL)))
	case status < 200 || status >= 300:
		c.logger.WarnContext(ctx, "sheet request rejected", "url", redactURL(rawURL), "status", status)
		return nil, unavailable(crerr.Newf("fetch %s: status=%d body=%s", redactURL(rawURL), status, abbreviateBody(body)))
	case isHTML(resp):
		return nil, unavailable(crerr.Wrapf(errHTMLPayload, "fetch %s", redactURL(rawURL)))
	}

	c.logger.DebugContext(ctx, "sheet fetched",
		"url", redactURL(rawURL),
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return append([]byte(nil), body...), nil
}

// isCircuitFailure reports whether err says the upstream is unhealthy.
// Missing or unpublished sheets are configuration problems and leave the
// breaker alone.
func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case crerr.Is(err, errSheetNotFound), crerr.Is(err, errHTMLPayload), crerr.Is(err, errBodyTooLarge):
		return false
	case crerr.Is(err, context.Canceled):
		return false
	}
	return true
}

func unavailable(cause error) error {
	return fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, cause)
}

func isHTML(resp *fasthttp.Response) bool {
	contentType := strings.ToLower(string(resp.Header.ContentType()))
	return strings.HasPrefix(contentType, "text/html")
}

// redactURL drops the query string, which may carry access keys.
func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
