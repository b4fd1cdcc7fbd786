// Package pubsub pulls creative status notifications from the Cloud Pub/Sub
// subscriptions created by bidders.creatives.watch.
package pubsub

import (
	"context"
	"fmt"
	"os"

	pubsubapi "cloud.google.com/go/pubsub/apiv1"
	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"rtbsamples/internal/metrics"
)

// EmulatorHostEnv names the emulator address variable honoured by the Cloud SDKs
const EmulatorHostEnv = "PUBSUB_EMULATOR_HOST"

// DefaultMaxMessages is the pull size used when none is given
const DefaultMaxMessages = 50

// Config configures a Subscriber
type Config struct {
	// Endpoint is the host:port of the Pub/Sub service. Empty means the
	// production service, or PUBSUB_EMULATOR_HOST when that is set.
	Endpoint string

	// Insecure dials Endpoint without TLS or credentials
	Insecure bool

	// TokenSource authorizes calls. Nil sends no credentials.
	TokenSource oauth2.TokenSource

	Logger *zap.Logger
}

// Subscriber pulls and acknowledges messages
type Subscriber struct {
	client *pubsubapi.SubscriberClient
	conn   *grpc.ClientConn
	logger *zap.Logger
}

// NewSubscriber connects to Pub/Sub. Extra client options are appended
// after the ones derived from cfg.
func NewSubscriber(ctx context.Context, cfg Config, extra ...option.ClientOption) (*Subscriber, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Endpoint == "" {
		if host := os.Getenv(EmulatorHostEnv); host != "" {
			cfg.Endpoint = host
			cfg.Insecure = true
		}
	}

	var (
		opts []option.ClientOption
		conn *grpc.ClientConn
	)
	switch {
	case cfg.Insecure:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("insecure Pub/Sub connection requires an endpoint")
		}
		var err error
		conn, err = grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return nil, fmt.Errorf("failed to dial %s: %w", cfg.Endpoint, err)
		}
		opts = append(opts, option.WithGRPCConn(conn))
	default:
		if cfg.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(cfg.Endpoint))
		}
		if cfg.TokenSource != nil {
			opts = append(opts, option.WithTokenSource(cfg.TokenSource))
		} else {
			opts = append(opts, option.WithoutAuthentication())
		}
	}
	opts = append(opts, extra...)

	client, err := pubsubapi.NewSubscriberClient(ctx, opts...)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to create subscriber client: %w", err)
	}

	logger.Debug("Pub/Sub subscriber ready",
		zap.String("endpoint", cfg.Endpoint),
		zap.Bool("insecure", cfg.Insecure))

	return &Subscriber{client: client, conn: conn, logger: logger}, nil
}

// Close releases the client connection
func (s *Subscriber) Close() error {
	err := s.client.Close()
	if s.conn != nil {
		// The client may already have closed the shared conn.
		s.conn.Close()
	}
	return err
}

// Pull fetches up to maxMessages messages without waiting for new ones
func (s *Subscriber) Pull(ctx context.Context, subscription string, maxMessages int32) ([]Message, error) {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	resp, err := s.client.Pull(ctx, &pubsubpb.PullRequest{
		Subscription: subscription,
		MaxMessages:  maxMessages,
		// Deprecated, but keeps a one-shot pull from waiting on an empty subscription.
		ReturnImmediately: true, //nolint:staticcheck
	})
	if err != nil {
		return nil, fmt.Errorf("failed to pull from %s: %w", subscription, err)
	}

	msgs := make([]Message, 0, len(resp.GetReceivedMessages()))
	for _, rm := range resp.GetReceivedMessages() {
		msgs = append(msgs, newMessage(rm))
	}
	metrics.PubsubMessagesPulled.Add(float64(len(msgs)))

	s.logger.Debug("Pulled messages",
		zap.String("subscription", subscription),
		zap.Int("count", len(msgs)))
	return msgs, nil
}

// Acknowledge acks every ID in one request
func (s *Subscriber) Acknowledge(ctx context.Context, subscription string, ackIDs []string) error {
	if len(ackIDs) == 0 {
		return nil
	}
	err := s.client.Acknowledge(ctx, &pubsubpb.AcknowledgeRequest{
		Subscription: subscription,
		AckIds:       ackIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge %d messages: %w", len(ackIDs), err)
	}
	metrics.PubsubMessagesAcked.Add(float64(len(ackIDs)))
	return nil
}
