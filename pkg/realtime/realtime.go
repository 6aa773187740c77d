// Package realtime mints sessions for the OpenAI Realtime API. Each
// Bootstrap call moves through Unconfigured, Validating and Proxying and
// ends in Succeeded or Failed. It makes at most one outbound request and
// never retries.
package realtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
)

const (
	sessionsPath         = "realtime/sessions"
	maxResponseSizeBytes = 1 << 20
)

type Config struct {
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	BaseURL string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	Model   string        `envconfig:"MODEL" split_words:"true" default:"gpt-4o-realtime-preview-2025-06-03"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type State string

const (
	StateUnconfigured State = "unconfigured"
	StateValidating   State = "validating"
	StateProxying     State = "proxying"
	StateSucceeded    State = "succeeded"
	StateFailed       State = "failed"
)

// Session is the upstream session object, passed through byte for byte.
type Session struct {
	Body []byte
}

type Option func(*Client)

// WithHTTPClient replaces the transport used for the upstream call.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...Option) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gpt-4o-realtime-preview-2025-06-03"
	}
	c := &Client{cfg: cfg, httpClient: http.DefaultClient}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// ValidateKey checks the credential without touching the network.
func ValidateKey(key string) error {
	if key == "" {
		return &Error{Kind: KindConfiguration, State: StateUnconfigured, Status: http.StatusInternalServerError, Message: msgMissingKey}
	}
	if placeholderKeys[key] {
		return &Error{Kind: KindConfiguration, State: StateValidating, Status: http.StatusInternalServerError, Message: msgPlaceholderKey}
	}
	if !strings.HasPrefix(key, "sk-") {
		return &Error{Kind: KindConfiguration, State: StateValidating, Status: http.StatusInternalServerError, Message: msgKeyFormat}
	}
	return nil
}

type sessionRequest struct {
	Model string `json:"model"`
}

type capturedResponse struct {
	status     int
	statusText string
	body       []byte
	oversized  bool
}

// Bootstrap requests a new realtime session. Failures are always *Error.
func (c *Client) Bootstrap(ctx context.Context) (*Session, error) {
	key := c.cfg.APIKey
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var captured *capturedResponse
	capture := func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		resp, err := next(req)
		if err != nil {
			return resp, err
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes+1))
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, readErr
		}
		captured = &capturedResponse{
			status:     resp.StatusCode,
			statusText: http.StatusText(resp.StatusCode),
			body:       raw,
		}
		if len(raw) > maxResponseSizeBytes {
			captured.body = raw[:maxResponseSizeBytes]
			captured.oversized = true
		}
		resp.Body = io.NopCloser(bytes.NewReader(raw))
		return resp, nil
	}

	client := openaisdk.NewClient(
		option.WithAPIKey(key),
		option.WithBaseURL(strings.TrimRight(c.cfg.BaseURL, "/")+"/"),
		option.WithHTTPClient(c.httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(capture),
	)

	var resp *http.Response
	err := client.Post(ctx, sessionsPath, sessionRequest{Model: c.cfg.Model}, &resp)
	if captured == nil {
		if err == nil {
			err = errors.New("no response from upstream")
		}
		return nil, connectivityError(err)
	}
	return decide(captured)
}

func decide(r *capturedResponse) (*Session, error) {
	if r.oversized {
		// A cut-off session body is not valid JSON, so never pass it through.
		return nil, &Error{
			Kind:    KindUpstream,
			State:   StateProxying,
			Status:  http.StatusBadGateway,
			Message: fmt.Sprintf("OpenAI API error: response from %d %s exceeds %d bytes", r.status, r.statusText, maxResponseSizeBytes),
		}
	}
	switch {
	case r.status >= 200 && r.status < 300:
		return &Session{Body: r.body}, nil
	case r.status == http.StatusUnauthorized:
		return nil, &Error{Kind: KindUpstreamAuth, State: StateProxying, Status: r.status, Message: msgUnauthorized, Detail: string(r.body)}
	case r.status == http.StatusForbidden:
		return nil, &Error{Kind: KindUpstreamAuth, State: StateProxying, Status: r.status, Message: msgForbidden, Detail: string(r.body)}
	default:
		return nil, &Error{
			Kind:    KindUpstream,
			State:   StateProxying,
			Status:  r.status,
			Message: fmt.Sprintf("OpenAI API error: %d %s", r.status, r.statusText),
			Detail:  string(r.body),
		}
	}
}

func connectivityError(err error) *Error {
	e := &Error{
		Kind:   KindConnectivity,
		State:  StateProxying,
		Status: http.StatusInternalServerError,
		cause:  err,
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		e.Message = msgUnreachable
		return e
	}
	e.Message = "Failed to connect to OpenAI API: " + err.Error()
	return e
}

// LogFailure writes a bootstrap failure without the credential.
func LogFailure(err error) {
	var rtErr *Error
	if !errors.As(err, &rtErr) {
		log.Error().Err(err).Msg("session bootstrap failed")
		return
	}
	ev := log.Error().
		Str("kind", string(rtErr.Kind)).
		Str("state", string(rtErr.State)).
		Int("status", rtErr.Status)
	if rtErr.Detail != "" {
		ev = ev.Str("upstream_body", rtErr.Detail)
	}
	if rtErr.cause != nil {
		ev = ev.AnErr("cause", rtErr.cause)
	}
	ev.Msg(rtErr.Message)
}
