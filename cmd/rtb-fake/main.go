// Command rtb-fake serves an in-memory Real-time Bidding API for trying the
// samples without a bidder account:
//
//	rtb-fake --addr :8085 --account-id 12345678
//	rtb --endpoint http://localhost:8085 --auth-mode none bidders get -a 12345678
//
// With --key-file the fake only accepts self-signed JWTs minted from that
// service account key, matching "rtb --auth-mode self-signed-jwt".
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"rtbsamples/internal/auth"
	"rtbsamples/internal/logging"
	"rtbsamples/internal/metrics"
	"rtbsamples/internal/realtimebidding/rtbtest"
)

var version = "1.0.0"

const defaultLogLevel = "info"

// Server fronts the fake API with health and metrics routes
type Server struct {
	fake   *rtbtest.Server
	router chi.Router
}

// NewServer creates a server seeded with accountID. An empty accountID
// leaves the fake empty.
func NewServer(accountID, token string) *Server {
	s := &Server{
		fake:   rtbtest.New(instrument),
		router: chi.NewRouter(),
	}
	if accountID != "" {
		s.fake.Seed(accountID)
	}
	if token != "" {
		s.fake.RequireToken(token)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Handle("/v1/*", s.fake)
}

// VerifySelfSignedJWT makes the API accept only bearer tokens that are
// self-signed JWTs minted from creds.
func (s *Server) VerifySelfSignedJWT(creds *auth.Credentials) error {
	signer, err := auth.NewSelfSignedJWT(creds.Key, auth.RealtimeBiddingScope)
	if err != nil {
		return err
	}
	s.fake.VerifyToken(func(token string) error {
		_, err := signer.ValidateToken(token)
		return err
	})
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version,
	})
}

// instrument records the duration of every API request by route
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && len(rctx.RoutePatterns) > 0 {
			endpoint = rctx.RoutePatterns[len(rctx.RoutePatterns)-1]
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// newLogger builds the server logger. verbose forces debug level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		return logging.NewAtLevel("rtb-fake", zapcore.DebugLevel)
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return logging.NewAtLevel("rtb-fake", lvl)
}

func main() {
	var (
		addr      string
		accountID string
		token     string
		keyFile   string
		logLevel  string
		verbose   bool
	)

	pflag.StringVar(&addr, "addr", ":8085", "HTTP listen address")
	pflag.StringVarP(&accountID, "account-id", "a", "12345678", "Account to seed with sample resources; empty for none")
	pflag.StringVar(&token, "token", "", "Require this bearer token on API requests")
	pflag.StringVar(&keyFile, "key-file", "", "Accept only self-signed JWTs minted from this service account key")
	pflag.StringVar(&logLevel, "log-level", defaultLogLevel, "Minimum log level: debug, info, warn or error")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	pflag.Parse()

	logger, err := newLogger(logLevel, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting fake Real-time Bidding API", zap.String("version", version))

	server := NewServer(accountID, token)
	if keyFile != "" {
		creds, err := auth.LoadServiceAccount(keyFile)
		if err != nil {
			logger.Fatal("Failed to load service account key", zap.Error(err))
		}
		if err := server.VerifySelfSignedJWT(creds); err != nil {
			logger.Fatal("Failed to set up token verification", zap.Error(err))
		}
		logger.Info("Verifying self-signed JWTs", zap.String("client_email", creds.Key.ClientEmail))
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr), zap.String("seed_account", accountID))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
}
