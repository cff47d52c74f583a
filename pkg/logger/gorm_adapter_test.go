package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedGorm(level gormlogger.LogLevel, opts ...GormOption) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts = append(opts, WithGormZap(zap.New(core)))
	return NewGormLogger(level, opts...), logs
}

func selectProducts() (string, int64) {
	return "SELECT * FROM products WHERE category = 'Audio'", 4
}

func TestGormLoggerHonoursLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    gormlogger.LogLevel
		messages []string
	}{
		{"silent", gormlogger.Silent, nil},
		{"warn", gormlogger.Warn, []string{"pool warm", "deadlock"}},
		{"info", gormlogger.Info, []string{"migrated 3 tables", "pool warm", "deadlock", "SQL executed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, logs := observedGorm(tt.level)
			ctx := context.Background()
			g.Info(ctx, "migrated %d tables", 3)
			g.Warn(ctx, "pool warm")
			g.Error(ctx, "deadlock")
			g.Trace(ctx, time.Now(), selectProducts, nil)

			var got []string
			for _, e := range logs.All() {
				got = append(got, e.Message)
			}
			if tt.level == gormlogger.Silent {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.messages, got)
		})
	}
}

func TestGormLoggerLogModeCopies(t *testing.T) {
	g, logs := observedGorm(gormlogger.Warn, WithDatabase("storefront"))
	verbose := g.LogMode(gormlogger.Info)

	verbose.Trace(context.Background(), time.Now(), selectProducts, nil)
	g.Trace(context.Background(), time.Now(), selectProducts, nil)

	entries := logs.FilterMessage("SQL executed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "storefront", fields["database"])
	assert.Equal(t, "SELECT", fields["statement"])
	assert.Equal(t, int64(4), fields["rows"])
}

func TestGormLoggerSlowQueryCarriesRequestID(t *testing.T) {
	g, logs := observedGorm(gormlogger.Warn, WithDatabase("storefront"), WithSlowThreshold(10*time.Millisecond))
	ctx := persistence.ContextWithRequestID(context.Background(), "req-7")

	g.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
		return "update products set stock_quantity = stock_quantity - 1 where id = 't1'", 1
	}, nil)

	entries := logs.FilterMessage("Slow SQL").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "storefront", fields["database"])
	assert.Equal(t, "UPDATE", fields["statement"])
	assert.Equal(t, 10*time.Millisecond, fields["threshold"])
}

func TestGormLoggerSlowCheckCanBeDisabled(t *testing.T) {
	g, logs := observedGorm(gormlogger.Warn, WithSlowThreshold(-1))
	g.Trace(context.Background(), time.Now().Add(-time.Minute), selectProducts, nil)
	assert.Zero(t, logs.Len())
}

func TestGormLoggerErrors(t *testing.T) {
	g, logs := observedGorm(gormlogger.Error, WithIgnoreNotFound())
	ctx := context.Background()

	g.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT * FROM accounts WHERE username = 'ghost'", 0
	}, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "missing rows are not failures")

	g.Trace(ctx, time.Now(), func() (string, int64) {
		return "INSERT INTO orders (id) VALUES ('1001')", 0
	}, errors.New("Duplicate entry '1001' for key 'PRIMARY'"))

	entries := logs.FilterMessage("SQL failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "INSERT", fields["statement"])
	assert.Contains(t, fields["error"], "Duplicate entry")
}

func TestGormLoggerDefaultsToComponentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer Replace(zap.New(core))()

	g := NewGormLogger(gormlogger.Info)
	g.Trace(context.Background(), time.Now(), selectProducts, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Equal(t, "gorm", entries[0].ContextMap()["component"])
}

func TestStatementKind(t *testing.T) {
	assert.Equal(t, "SELECT", statementKind("  select 1"))
	assert.Equal(t, "DELETE", statementKind("DELETE FROM carts"))
	assert.Equal(t, "", statementKind(""))
}
