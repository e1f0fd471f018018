package audit

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SlowQueryLogger is a gorm logger that reports queries slower than the
// configured threshold through the audit trail in addition to the standard
// diagnostic log. Observational only: it never alters query results.
type SlowQueryLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormlogger.LogLevel
}

func NewSlowQueryLogger(threshold time.Duration, debug bool) *SlowQueryLogger {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return &SlowQueryLogger{
		SlowThreshold: threshold,
		LogLevel:      level,
	}
}

func (l *SlowQueryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cloned := *l
	cloned.LogLevel = level
	return &cloned
}

func (l *SlowQueryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		slog.Info(msg, "args", args)
	}
}

func (l *SlowQueryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		slog.Warn(msg, "args", args)
	}
}

func (l *SlowQueryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		slog.Error(msg, "args", args)
	}
}

func (l *SlowQueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormlogger.Error {
		slog.Error("Query failed", "sql", sql, "rows", rows, "elapsed", elapsed, "error", err)
		return
	}

	if l.SlowThreshold > 0 && elapsed > l.SlowThreshold {
		slog.Warn("Slow query detected", "sql", sql, "rows", rows, "elapsed", elapsed)
		// Writes to the audit table run through this logger too; skip them to
		// avoid a slow insert re-auditing itself.
		if !strings.Contains(sql, "audit") {
			RecordSlowQuery(ctx, sql, elapsed)
		}
		return
	}

	if l.LogLevel >= gormlogger.Info {
		slog.Debug("Query", "sql", sql, "rows", rows, "elapsed", elapsed)
	}
}
