package observability

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/projectfair/backend/internal/config"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// UnmatchedRoute labels requests that matched no registered route.
const UnmatchedRoute = "unmatched"

const (
	requestIDKey = "request_id"
	unmatchedKey = "unmatched_route"
)

// NewLogger creates a structured zap.Logger configured via env settings.
func NewLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Encoding:    "json",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "message",
			LevelKey:   "level",
			TimeKey:    "ts",
			EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
				enc.AppendString(l.String())
			},
			EncodeTime: zapcore.ISO8601TimeEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// RequestLogger tags each request with an id and logs its outcome.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(requestIDKey, requestID)
		c.Set(RequestIDHeader, requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)
		path, method := RouteLabels(c)
		metrics.RecordRequest(path, method, status, duration)

		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", duration),
		)
		return err
	}
}

// RequestID returns the id assigned by RequestLogger.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// NotFound is registered after every route. It marks the request so metrics
// label it UnmatchedRoute instead of the last middleware prefix it passed.
func NotFound(c *fiber.Ctx) error {
	c.Locals(unmatchedKey, true)
	return fiber.ErrNotFound
}

// RouteLabels returns the registered route pattern and method of c as metric
// labels. Both are copied: fiber strings alias the pooled request buffer while
// prometheus keeps label values for the life of the registry.
func RouteLabels(c *fiber.Ctx) (path, method string) {
	path = UnmatchedRoute
	unmatched, _ := c.Locals(unmatchedKey).(bool)
	if route := c.Route(); !unmatched && route != nil && route.Path != "" && len(route.Handlers) > 0 {
		path = utils.CopyString(route.Path)
	}
	return path, utils.CopyString(c.Method())
}
