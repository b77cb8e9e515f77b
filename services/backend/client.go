package backend

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"glsalliance/utils"

	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 8 << 20

// Client talks to the alliance REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. baseURL already includes the "/api" prefix.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type call struct {
	endpoint    string // metrics label, e.g. "auth.login"
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	token       string
}

// do performs the call and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	utils.BackendDuration.WithLabelValues(cl.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		utils.BackendCalls.WithLabelValues(cl.endpoint, "transport_error").Inc()
		c.logger.Warn("Backend call failed",
			zap.String("endpoint", cl.endpoint),
			zap.String("path", cl.path),
			zap.Error(err),
		)
		return nil, &TransportError{Endpoint: cl.endpoint, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		utils.BackendCalls.WithLabelValues(cl.endpoint, "transport_error").Inc()
		return nil, &TransportError{Endpoint: cl.endpoint, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		utils.BackendCalls.WithLabelValues(cl.endpoint, "api_error").Inc()
		apiErr := parseAPIError(resp.StatusCode, body, ErrTransport.Error())
		c.logger.Info("Backend rejected call",
			zap.String("endpoint", cl.endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	utils.BackendCalls.WithLabelValues(cl.endpoint, "ok").Inc()
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// formBody encodes fields as application/x-www-form-urlencoded.
func formBody(fields url.Values) (io.Reader, string) {
	return strings.NewReader(fields.Encode()), "application/x-www-form-urlencoded"
}

func bytesBody(b []byte) io.Reader {
	return bytes.NewReader(b)
}
