package mysql

import (
	"context"
	"testing"
	"time"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestConfigFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.Default().Database)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "storefront", cfg.Database)
	assert.Contains(t, cfg.DSN(), "root:@tcp(localhost:3306)/storefront?")
	assert.Contains(t, cfg.DSN(), "parseTime=true&loc=UTC")
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{MaxOpenConns: 4, MaxIdleConns: 10}
	cfg.applyDefaults()
	assert.Equal(t, 4, cfg.MaxOpenConns)
	assert.Equal(t, 4, cfg.MaxIdleConns, "idle pool never exceeds open pool")
	assert.Equal(t, DefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, DefaultConnMaxIdleTime, cfg.ConnMaxIdleTime)

	empty := &Config{}
	empty.applyDefaults()
	assert.Equal(t, DefaultMaxOpenConns, empty.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, empty.MaxIdleConns)
}

func TestConfigParseLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"debug":  gormlogger.Info,
		"warn":   gormlogger.Warn,
		"error":  gormlogger.Error,
		"silent": gormlogger.Silent,
		"":       gormlogger.Warn,
	}
	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, want, cfg.parseLogLevel(), "level %q", level)
	}
}

func TestNewOutboxWorkerValidatesInput(t *testing.T) {
	repo := NewOutboxRepository(nil)
	pub := &LoggingOutboxPublisher{}
	good := config.WorkerConfig{PollInterval: time.Second, BatchSize: 10, MaxRetries: 3}

	_, err := NewOutboxWorker(nil, pub, good, nil)
	assert.Error(t, err)
	_, err = NewOutboxWorker(repo, nil, good, nil)
	assert.Error(t, err)

	bad := good
	bad.PollInterval = 0
	_, err = NewOutboxWorker(repo, pub, bad, nil)
	assert.Error(t, err)

	bad = good
	bad.BatchSize = 0
	_, err = NewOutboxWorker(repo, pub, bad, nil)
	assert.Error(t, err)

	w, err := NewOutboxWorker(repo, pub, good, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, w.maxRetries)
}

func TestOutboxWorkerStopsWithContext(t *testing.T) {
	w, err := NewOutboxWorker(NewOutboxRepository(nil), &LoggingOutboxPublisher{},
		config.WorkerConfig{PollInterval: time.Hour, BatchSize: 1, MaxRetries: 1}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}

func TestLoggingOutboxPublisher(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	pub := &LoggingOutboxPublisher{Log: zap.New(core)}

	require.NoError(t, pub.Publish(context.Background(), "order.placed", `{"orderId":"1001"}`))
	entries := logs.FilterMessage("Outbox event published").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "order.placed", entries[0].ContextMap()["event_type"])

	var nilLog LoggingOutboxPublisher
	assert.NoError(t, nilLog.Publish(context.Background(), "user.registered", "{}"))
}
