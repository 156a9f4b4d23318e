package aichat

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultEndpoint is the chat-completion endpoint sessions are sent to.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Client performs completion exchanges. The zero value is not usable; build
// one with NewClient.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithHTTPClient sets the client used for the POST. A nil client means a
// default one. The client itself is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds the whole exchange. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client for DefaultEndpoint with no timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Extend sends the session to the completion endpoint and appends the reply
// as an assistant message. The session must end with a system or user
// message. Exactly one request is made and nothing is retried; on any error
// the session is left as it was.
func (c *Client) Extend(ctx context.Context, s *Session, credential string) (Result, error) {
	last, err := s.Last()
	if err != nil {
		return Result{}, err
	}
	if last.Role == RoleAssistant {
		return Result{}, ErrSessionLastMessageAssistant
	}

	body, err := s.MarshalJSON()
	if err != nil {
		return Result{}, err
	}

	log := c.logger.With(zap.String("endpoint", c.endpoint), zap.Stringer("model", s.Model))
	log.Debug("sending session", zap.Int("messages", s.Len()), zap.Int("bytes", len(body)))

	start := time.Now()
	parser := newResponseParser()
	status, err := post(ctx, c.httpClient, c.endpoint, body, credential, parser)
	if err != nil {
		log.Debug("exchange failed", zap.Error(err))
		return Result{}, err
	}
	log.Debug("response received",
		zap.Int("status", status),
		zap.Stringer("parser", parser.state),
		zap.Duration("elapsed", time.Since(start)))

	res, err := parser.Finish()
	if err != nil {
		return res, err
	}
	log.Debug("token usage", zap.Int("prompt_tokens", res.PromptTokens), zap.Int("completion_tokens", res.CompletionTokens))

	if err := s.Append(RoleAssistant, res.Content); err != nil {
		return res, err
	}
	return res, nil
}
