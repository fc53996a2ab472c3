// Package bookingapi is the client of the remote booking API. The API speaks
// camelCase JSON and reports failures as {"detail": ...}.
package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/airbooking-web/internal/auth"
	"github.com/Domenick1991/airbooking-web/internal/domain"
	"go.uber.org/zap"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
	loc     *time.Location
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithLocation sets the zone for timestamps the API sends without an offset.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) { c.loc = loc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      http.DefaultClient,
		log:     zap.NewNop(),
		loc:     time.UTC,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := auth.FromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("booking api unreachable",
			zap.String("method", method),
			zap.String("endpoint", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w: %w", method, path, domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	c.log.Debug("booking api call",
		zap.String("method", method),
		zap.String("endpoint", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	if err != nil {
		return fmt.Errorf("read %s %s: %w: %w", method, path, domain.ErrUpstream, err)
	}
	if len(data) > maxResponseBytes {
		return fmt.Errorf("read %s %s: %w: response exceeds %d bytes", method, path, domain.ErrUpstream, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w: %w", method, path, domain.ErrUpstream, err)
	}
	return nil
}
