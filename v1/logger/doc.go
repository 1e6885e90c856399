// Package logger provides structured logging for the wellness platform.
//
// It wraps Uber's Zap with a simplified message/error/fields interface,
// optional OpenTelemetry trace correlation, and an fx module for dependency
// injection.
//
// # Direct Usage (Without FX)
//
//	import "github.com/mindloft/wellness/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "wellness-platform",
//	})
//
//	log.Info("User session started", nil, map[string]interface{}{
//	    "user_id": "12345",
//	    "agent":   "therapy",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(logger.NewConfig),
//	    // other modules...
//	)
//
// # Tracing Integration
//
// When EnableTracing is set, the *WithContext methods extract trace and span
// IDs from the context and attach them as trace_id / span_id fields, giving
// correlation between log entries and distributed traces.
//
// # Configuration
//
// Environment variables read by NewConfig:
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=wellness    # service field on every entry
//	LOGGER_ENABLE_TRACING=true      # enable trace correlation
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
