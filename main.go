package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"rtbsamples/internal/auth"
	"rtbsamples/internal/config"
	"rtbsamples/internal/logging"
	"rtbsamples/internal/metrics"
	"rtbsamples/internal/printer"
	"rtbsamples/internal/pubsub"
	rtb "rtbsamples/internal/realtimebidding"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "rtb",
	Short: "Authorized Buyers Real-time Bidding API samples",
	Long: `Run the Authorized Buyers Real-time Bidding API v1 samples.

Requests are authorized with a service account key, read from --key-file,
RTB_KEY_FILE, GOOGLE_APPLICATION_CREDENTIALS or the config file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

type runtimeKey struct{}

// runtime holds what a single command run needs
type runtime struct {
	cfg         *config.Config
	mode        auth.Mode
	logger      *zap.Logger
	out         *printer.Printer
	metricsFile string
	cancel      context.CancelFunc

	creds  *auth.Credentials
	client *rtb.Client
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $RTB_CONFIG or ~/.config/rtb/config.yaml)")
	flags.String("key-file", "", "Path to the service account JSON key")
	flags.String("auth-mode", "", "How requests are authorized: oauth, self-signed-jwt or none")
	flags.String("endpoint", "", "Real-time Bidding API root URL")
	flags.String("pubsub-endpoint", "", "Cloud Pub/Sub host:port")
	flags.Int64("page-size", 0, "Maximum number of resources per list request (1-50)")
	flags.Duration("timeout", 0, "Timeout for the whole command (default 60s)")
	flags.StringP("output", "o", "text", "Output format: text or json")
	flags.BoolP("verbose", "v", false, "Log requests at debug level")
	flags.String("metrics-file", "", "Write request metrics in Prometheus text format to this file on exit")

	rootCmd.Version = version
}

func setup(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if flags.Changed("key-file") {
		cfg.KeyFile, _ = flags.GetString("key-file")
	}
	if flags.Changed("auth-mode") {
		cfg.AuthMode, _ = flags.GetString("auth-mode")
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("pubsub-endpoint") {
		cfg.PubsubEndpoint, _ = flags.GetString("pubsub-endpoint")
	}
	if flags.Changed("page-size") {
		cfg.PageSize, _ = flags.GetInt64("page-size")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mode, err := auth.ParseMode(cfg.AuthMode)
	if err != nil {
		return err
	}

	outputFlag, _ := flags.GetString("output")
	format, err := printer.ParseFormat(outputFlag)
	if err != nil {
		return err
	}

	verbose, _ := flags.GetBool("verbose")
	metricsFile, _ := flags.GetString("metrics-file")

	slot, ok := cmd.Root().Context().Value(runtimeKey{}).(**runtime)
	if !ok {
		return fmt.Errorf("command must be run through execute")
	}

	ctx, cancel := context.WithTimeout(cmd.Root().Context(), cfg.Timeout)
	rt := &runtime{
		cfg:         cfg,
		mode:        mode,
		logger:      logging.NewOrNop("rtb", verbose),
		out:         printer.New(cmd.OutOrStdout(), format),
		metricsFile: metricsFile,
		cancel:      cancel,
	}
	*slot = rt
	cmd.SetContext(ctx)

	rt.logger.Debug("Loaded configuration",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("auth_mode", string(mode)),
		zap.Int64("page_size", cfg.PageSize),
		zap.Int("retries", cfg.Retries),
		zap.Duration("timeout", cfg.Timeout))
	return nil
}

func runtimeFrom(cmd *cobra.Command) *runtime {
	slot, _ := cmd.Context().Value(runtimeKey{}).(**runtime)
	if slot == nil {
		return nil
	}
	return *slot
}

func (r *runtime) tokenSource(ctx context.Context, scopes ...string) (oauth2.TokenSource, error) {
	if r.mode == auth.ModeNone {
		return nil, nil
	}
	if r.creds == nil {
		creds, err := auth.LoadServiceAccount(r.cfg.KeyFile)
		if err != nil {
			return nil, err
		}
		r.creds = creds
	}
	return r.creds.TokenSource(ctx, r.mode, scopes...)
}

// API returns the Real-time Bidding client, building it on first use
func (r *runtime) API(ctx context.Context) (*rtb.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	ts, err := r.tokenSource(ctx, auth.RealtimeBiddingScope)
	if err != nil {
		return nil, fmt.Errorf("unable to create Real-time Bidding client: %w", err)
	}

	httpClient := auth.NewHTTPClient(ts, metrics.InstrumentTransport(http.DefaultTransport))
	client, err := rtb.NewClient(ctx, httpClient,
		rtb.WithBaseURL(r.cfg.Endpoint),
		rtb.WithUserAgent("rtbsamples/"+version),
		rtb.WithPageSize(r.cfg.PageSize),
		rtb.WithRetries(r.cfg.Retries),
		rtb.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("unable to create Real-time Bidding client: %w", err)
	}
	r.client = client
	return r.client, nil
}

// Subscriber connects to Cloud Pub/Sub. The caller closes it.
func (r *runtime) Subscriber(ctx context.Context) (*pubsub.Subscriber, error) {
	ts, err := r.tokenSource(ctx, auth.PubsubScope)
	if err != nil {
		return nil, fmt.Errorf("unable to create Pub/Sub client: %w", err)
	}
	return pubsub.NewSubscriber(ctx, pubsub.Config{
		Endpoint:    r.cfg.PubsubEndpoint,
		Insecure:    r.mode == auth.ModeNone && r.cfg.PubsubEndpoint != "",
		TokenSource: ts,
		Logger:      r.logger,
	})
}

// Close flushes logs and writes the metrics file
func (r *runtime) Close() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.metricsFile != "" {
		if err := metrics.WriteTextfile(r.metricsFile); err != nil {
			r.logger.Warn("Failed to write metrics file", zap.String("path", r.metricsFile), zap.Error(err))
		}
	}
	r.logger.Sync()
}

// execute runs the command tree with args and returns the error of the run
func execute(ctx context.Context, args []string) error {
	var rt *runtime
	ctx = context.WithValue(ctx, runtimeKey{}, &rt)

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if rt != nil {
		rt.Close()
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:])
	stop()

	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("interrupted: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
