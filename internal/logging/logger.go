package logging

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

const serviceName = "amazon-ads-reports"

// Logger wraps zap.Logger to provide a consistent interface
type Logger struct {
	zap   *zap.Logger
	level LogLevel
}

// NewLogger creates a new Zap-based logger
func NewLogger(level LogLevel, component string) *Logger {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(logLevelToZap(level))
	config.Development = false
	config.Encoding = "json"

	config.InitialFields = map[string]interface{}{
		"component": component,
		"service":   serviceName,
	}

	zapLogger, err := config.Build()
	if err != nil {
		// Fallback to development logger if production config fails
		zapLogger, _ = zap.NewDevelopment()
	}

	return &Logger{
		zap:   zapLogger,
		level: level,
	}
}

// NewFromZap wraps an existing zap logger, mainly for tests using zaptest/observer
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{zap: z, level: DEBUG}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop(), level: ERROR}
}

// GetLogLevel parses a log level string
func GetLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// logLevelToZap converts our LogLevel to zap level
func logLevelToZap(level LogLevel) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child logger carrying the given fields
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{zap: l.zap.With(fields...), level: l.level}
}

// WithInvocation tags the logger with the Lambda request id, or a generated
// one when running outside Lambda.
func (l *Logger) WithInvocation(ctx context.Context) *Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return l.With(zap.String("aws_request_id", lc.AwsRequestID))
	}
	return l.With(zap.String("invocation_id", uuid.NewString()))
}

// Debug logs debug messages
func (l *Logger) Debug(message string, args ...interface{}) {
	if len(args) == 0 {
		l.zap.Debug(message)
	} else {
		l.zap.Sugar().Debugf(message, args...)
	}
}

// Info logs info messages
func (l *Logger) Info(message string, args ...interface{}) {
	if len(args) == 0 {
		l.zap.Info(message)
	} else {
		l.zap.Sugar().Infof(message, args...)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(message string, args ...interface{}) {
	if len(args) == 0 {
		l.zap.Warn(message)
	} else {
		l.zap.Sugar().Warnf(message, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(message string, args ...interface{}) {
	if len(args) == 0 {
		l.zap.Error(message)
	} else {
		l.zap.Sugar().Errorf(message, args...)
	}
}

// InfoFields logs a structured info entry
func (l *Logger) InfoFields(message string, fields ...zap.Field) {
	l.zap.Info(message, fields...)
}

// WarnFields logs a structured warning entry
func (l *Logger) WarnFields(message string, fields ...zap.Field) {
	l.zap.Warn(message, fields...)
}

// ErrorFields logs a structured error entry
func (l *Logger) ErrorFields(message string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.Error(err)}, fields...)
	l.zap.Error(message, allFields...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

// Redact masks a credential, keeping the last four characters for correlation
func Redact(value string) string {
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
