// Package logger configures the application's logging,
// monitoring, and observability.
//
// It uses zerolog for structured logging and optionally integrates
// with New Relic to instrument the codebase, forwarding logs,
// metrics, and traces for debugging.
package logger

import (
	"os"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pr-poehali-dev/cloud-test-site/internal/config"
	"github.com/rs/zerolog"
)

// New builds the application logger from observability config.
//
// Format rules:
//   - "console": human-friendly colored output, for local development
//   - anything else: JSON lines, for log pipelines
//
// The level comes from ObservabilityConfig.GetLogLevel, which applies
// environment-based defaults when no level is configured.
func New(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Observability.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Observability.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("service", cfg.Observability.ServiceName).
		Str("env", cfg.Observability.Environment).
		Logger()
}

// LoggerService wraps the optional New Relic application instance.
//
// When New Relic is not configured (empty license key) the service still
// exists but GetApplication returns nil, and every caller degrades to a
// no-op. That keeps instrumentation call sites unconditional.
type LoggerService struct {
	nrApp *newrelic.Application
}

// NewLoggerService initializes New Relic from config.
//
// An empty license key disables the agent entirely; initialization
// failure is reported to the caller but is not fatal to the process,
// the application runs without APM in that case.
func NewLoggerService(cfg *config.Config, logger *zerolog.Logger) *LoggerService {
	nrCfg := cfg.Observability.NewRelic
	if nrCfg.LicenseKey == "" {
		logger.Info().Msg("new relic disabled, no license key configured")
		return &LoggerService{}
	}

	opts := []newrelic.ConfigOption{
		newrelic.ConfigAppName(cfg.Observability.ServiceName),
		newrelic.ConfigLicense(nrCfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(nrCfg.DistributedTracingEnabled),
		newrelic.ConfigAppLogForwardingEnabled(nrCfg.AppLogForwardingEnabled),
	}
	if nrCfg.DebugLogging {
		opts = append(opts, newrelic.ConfigDebugLogger(os.Stderr))
	}

	app, err := newrelic.NewApplication(opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize new relic, continuing without APM")
		return &LoggerService{}
	}

	logger.Info().Str("app", cfg.Observability.ServiceName).Msg("new relic initialized")
	return &LoggerService{nrApp: app}
}

// GetApplication returns the New Relic application, or nil when disabled.
func (s *LoggerService) GetApplication() *newrelic.Application {
	if s == nil {
		return nil
	}
	return s.nrApp
}

// Shutdown flushes pending telemetry. Safe to call when disabled.
func (s *LoggerService) Shutdown(timeout time.Duration) {
	if s != nil && s.nrApp != nil {
		s.nrApp.Shutdown(timeout)
	}
}

// WithTraceContext returns a child logger carrying the transaction's
// trace correlation fields, so log lines can be joined with traces.
func WithTraceContext(logger zerolog.Logger, txn *newrelic.Transaction) zerolog.Logger {
	if txn == nil {
		return logger
	}
	md := txn.GetTraceMetadata()
	return logger.With().
		Str("trace.id", md.TraceID).
		Str("span.id", md.SpanID).
		Logger()
}
