package realtimebidding

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	rtbv1 "google.golang.org/api/realtimebidding/v1"
)

const (
	// DefaultBaseURL is the production Real-time Bidding endpoint. The
	// generated client appends the v1/ prefix itself.
	DefaultBaseURL = "https://realtimebidding.googleapis.com/"

	// MaxPageSize is the largest page size the samples request
	MaxPageSize = 50

	defaultUserAgent = "rtbsamples/1.0"
)

// Client is a client for the Authorized Buyers Real-time Bidding API
type Client struct {
	svc      *rtbv1.Service
	pageSize int64
}

type settings struct {
	baseURL   string
	userAgent string
	pageSize  int64
	retries   int
	logger    *zap.Logger
}

// Option configures a Client
type Option func(*settings)

// WithBaseURL overrides the API endpoint
func WithBaseURL(u string) Option {
	return func(s *settings) { s.baseURL = u }
}

// WithUserAgent sets the User-Agent fragment sent with every request
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithPageSize sets the page size used by list calls
func WithPageSize(n int64) Option {
	return func(s *settings) { s.pageSize = n }
}

// WithRetries enables retrying idempotent reads on transient errors
func WithRetries(n int) Option {
	return func(s *settings) { s.retries = n }
}

// WithLogger sets the request logger
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// NewClient creates a Real-time Bidding API client on top of the generated
// realtimebidding/v1 service. httpClient must attach credentials; a nil
// httpClient sends unauthenticated requests.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	s := settings{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		pageSize:  MaxPageSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.pageSize <= 0 || s.pageSize > MaxPageSize {
		s.pageSize = MaxPageSize
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	var transport http.RoundTripper = &loggingTransport{next: next, logger: s.logger}
	if s.retries > 0 {
		transport = &retryTransport{next: transport, retries: s.retries, logger: s.logger}
	}
	wrapped := &http.Client{
		Transport:     transport,
		Timeout:       httpClient.Timeout,
		Jar:           httpClient.Jar,
		CheckRedirect: httpClient.CheckRedirect,
	}

	svc, err := rtbv1.NewService(ctx,
		option.WithHTTPClient(wrapped),
		option.WithEndpoint(normalizeEndpoint(s.baseURL)))
	if err != nil {
		return nil, fmt.Errorf("failed to create realtimebidding service: %w", err)
	}
	svc.UserAgent = s.userAgent

	return &Client{svc: svc, pageSize: s.pageSize}, nil
}

// normalizeEndpoint accepts endpoints with or without the version path.
func normalizeEndpoint(u string) string {
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, "/v1")
	return u + "/"
}

// BasePath returns the endpoint requests are resolved against
func (c *Client) BasePath() string {
	return c.svc.BasePath
}

// PageSize returns the page size used by list calls
func (c *Client) PageSize() int64 {
	return c.pageSize
}

// ListOptions narrows list calls. Not every resource honors every field.
type ListOptions struct {
	Filter  string
	OrderBy string
	View    string
}

func (o *ListOptions) filter() string {
	if o == nil {
		return ""
	}
	return o.Filter
}

func (o *ListOptions) orderBy() string {
	if o == nil {
		return ""
	}
	return o.OrderBy
}

func (o *ListOptions) view() string {
	if o == nil {
		return ""
	}
	return o.View
}
