package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultSlowThreshold = 200 * time.Millisecond

// GormLogger routes GORM output to zap. Every entry carries the database
// name and, when the context has one, the request id of the API call that
// issued the query.
type GormLogger struct {
	level          gormlogger.LogLevel
	log            *zap.Logger
	database       string
	slow           time.Duration
	ignoreNotFound bool
}

type GormOption func(*GormLogger)

func WithDatabase(name string) GormOption {
	return func(g *GormLogger) { g.database = name }
}

// WithSlowThreshold sets the duration above which a query is logged as slow.
// Zero keeps DefaultSlowThreshold; a negative value disables the check.
func WithSlowThreshold(d time.Duration) GormOption {
	return func(g *GormLogger) {
		if d != 0 {
			g.slow = d
		}
	}
}

// WithIgnoreNotFound drops ErrRecordNotFound; lookups of missing rows are
// ordinary in the order and account repositories.
func WithIgnoreNotFound() GormOption {
	return func(g *GormLogger) { g.ignoreNotFound = true }
}

func WithGormZap(l *zap.Logger) GormOption {
	return func(g *GormLogger) { g.log = l }
}

func NewGormLogger(level gormlogger.LogLevel, opts ...GormOption) *GormLogger {
	g := &GormLogger{level: level, slow: DefaultSlowThreshold}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = Named("gorm")
	}
	return g
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *GormLogger) entry(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if g.database != "" {
		fields = append(fields, zap.String("database", g.database))
	}
	if id := persistence.RequestIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return g.log.With(fields...)
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info {
		g.entry(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn {
		g.entry(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error {
		g.entry(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace logs one statement: failures at error, slow queries at warn and
// everything else at info.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil:
		if g.ignoreNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		sql, rows := fc()
		g.entry(ctx).Error("SQL failed", append(queryFields(sql, rows, elapsed), zap.Error(err))...)
	case g.slow > 0 && elapsed > g.slow && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.entry(ctx).Warn("Slow SQL", append(queryFields(sql, rows, elapsed), zap.Duration("threshold", g.slow))...)
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.entry(ctx).Info("SQL executed", queryFields(sql, rows, elapsed)...)
	}
}

func queryFields(sql string, rows int64, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("statement", statementKind(sql)),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
}

// statementKind is the leading keyword of sql, upper-cased.
func statementKind(sql string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	return strings.ToUpper(word)
}
