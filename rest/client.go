// Package rest is a thin Discord REST transport. It signs requests with a bot
// token, encodes prepared message payloads and decodes Discord error bodies.
// It does not retry or track rate limits.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"

	"github.com/soyeahso/cordkit/internal/version"
	"github.com/soyeahso/cordkit/messages"
)

const (
	// DefaultBaseURL is the versioned API root.
	DefaultBaseURL = "https://discord.com/api/v10"
	// AuditLogReasonHeader carries the reason shown in the guild audit log.
	AuditLogReasonHeader = "X-Audit-Log-Reason"

	defaultTimeout = 30 * time.Second
)

// Options configures a Client. Only Token is required.
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// Client sends requests to the Discord REST API.
type Client struct {
	http *req.Client
	log  zerolog.Logger
}

// NewClient builds a client from opts.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.UserAgent()
	}

	hc := req.NewClient().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetUserAgent(opts.UserAgent).
		SetCommonHeaders(map[string]string{
			"Authorization": authorization(opts.Token),
			"Accept":        "application/json",
		})

	return &Client{http: hc, log: opts.Logger}
}

// authorization adds the Bot scheme unless the token already names one.
func authorization(token string) string {
	if strings.HasPrefix(token, "Bot ") || strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bot " + token
}

// call describes one API request.
type call struct {
	method  string
	path    string
	query   map[string]string
	payload *messages.Payload
	json    any
	reason  string
	out     any
}

func (c *Client) do(ctx context.Context, cl call) error {
	start := time.Now()

	r := c.http.R().SetContext(ctx)
	if cl.reason != "" {
		r.SetHeader(AuditLogReasonHeader, url.PathEscape(cl.reason))
	}
	for k, v := range cl.query {
		r.SetQueryParam(k, v)
	}

	switch {
	case cl.payload != nil:
		body, contentType, err := cl.payload.Body()
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		r.SetBody(body).SetContentType(contentType)
	case cl.json != nil:
		body, err := json.Marshal(cl.json)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		r.SetBody(body).SetContentType("application/json")
	}

	resp, err := r.Send(cl.method, cl.path)
	if err != nil {
		c.log.Error().Err(err).Str("method", cl.method).Str("path", cl.path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", cl.method, cl.path, err)
	}

	c.log.Debug().
		Str("method", cl.method).
		Str("path", cl.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("discord request")

	if resp.StatusCode >= 400 {
		return newHTTPError(resp.StatusCode, resp.Bytes())
	}
	if cl.out == nil || resp.StatusCode == 204 {
		return nil
	}
	if err := json.Unmarshal(resp.Bytes(), cl.out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", cl.method, cl.path, err)
	}
	return nil
}
