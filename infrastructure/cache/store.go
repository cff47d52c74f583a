/*
Package cache is the storefront's local key-value store: the signed-in session,
the mock user directory used when the backend is unreachable, and per-user
carts, wishlists and order history.

Every value is JSON. A key whose value cannot be decoded is logged and read as
empty; it never affects other keys. Read-modify-write sequences hold the store
mutex so concurrent intents cannot lose updates.
*/
package cache

import (
	"os"
	"sync"
	"time"

	"storefront/config"

	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/encoding"
	"github.com/philippgille/gokv/file"
	"go.uber.org/zap"
)

const (
	keySession = "session"
	keyUsers   = "users"
)

func cartKey(userID string) string     { return "cart_" + userID }
func wishlistKey(userID string) string { return "wishlist_" + userID }
func ordersKey(userID string) string   { return "orders_" + userID }

// Store wraps a gokv.Store with the storefront's key layout.
type Store struct {
	kv  gokv.Store
	log *zap.Logger
	now func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps kv. A nil logger discards output.
func New(kv gokv.Store, log *zap.Logger, opts ...Option) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{kv: kv, log: log.Named("cache"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a file-backed store under cfg.Directory.
func Open(cfg config.CacheConfig, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return nil, err
	}
	ext := "json"
	kv, err := file.NewStore(file.Options{Directory: cfg.Directory, FilenameExtension: &ext, Codec: encoding.JSON})
	if err != nil {
		return nil, err
	}
	return New(kv, log), nil
}

func (s *Store) Close() error {
	return s.kv.Close()
}

// load reads key into v. Decode failures are logged and reported as absent.
func (s *Store) load(key string, v any) bool {
	found, err := s.kv.Get(key, v)
	if err != nil {
		s.log.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return found
}

func (s *Store) save(key string, v any) error {
	if err := s.kv.Set(key, v); err != nil {
		s.log.Error("cache write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
