package mongodb

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dnlwrthstr/custodian-service/pkg/retrier"
)

// ErrStoreUnavailable reports that a connection to the document store could
// not be established within the retry budget.
var ErrStoreUnavailable = errors.New("document store unavailable")

const (
	defaultMaxRetries  = 5
	defaultRetryDelay  = 2 * time.Second
	defaultPingTimeout = 5 * time.Second
)

// Store owns the single shared connection to the document database for the
// process lifetime. The connection is established once, lazily if needed,
// and never torn down: pooled connections are left to the driver.
type Store struct {
	uri         string
	name        string
	maxRetries  int
	retryDelay  time.Duration
	pingTimeout time.Duration
	logger      *zap.Logger

	mu sync.Mutex
	db *mongo.Database
}

// Option defines a function to configure the Store.
type Option func(*Store)

// WithMaxRetries sets the number of connection retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(s *Store) {
		s.maxRetries = n
	}
}

// WithRetryDelay sets the pause between connection attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Store) {
		s.retryDelay = d
	}
}

// WithPingTimeout bounds the liveness probe performed on every attempt.
func WithPingTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.pingTimeout = d
	}
}

// New creates a Store for the given connection URL and database name.
// No connection is made until Connect or the first accessor call.
func New(uri, name string, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		uri:         uri,
		name:        name,
		maxRetries:  defaultMaxRetries,
		retryDelay:  defaultRetryDelay,
		pingTimeout: defaultPingTimeout,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Connect establishes the shared database handle. Each attempt dials the
// store and probes it with a bounded ping; on exhausting the retry budget
// the returned error satisfies errors.Is(err, ErrStoreUnavailable).
// Calling Connect on a connected store is a no-op.
func (s *Store) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Store) connectLocked(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	r := retrier.New(retrier.WithMaxRetries(s.maxRetries), retrier.WithDelay(s.retryDelay))

	var client *mongo.Client
	attempt := 0
	err := r.Do(ctx, func(ctx context.Context) error {
		attempt++
		c, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
		if err != nil {
			s.logger.Warn("store connection attempt failed",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(ctx)
			s.logger.Warn("store liveness probe failed",
				zap.Int("attempt", attempt), zap.Error(err))
			return err
		}

		client = c
		return nil
	})
	if err != nil {
		return errors.Wrapf(ErrStoreUnavailable, "connect to %s: %v", s.name, err)
	}

	s.db = client.Database(s.name)
	s.logger.Info("connected to document store",
		zap.String("database", s.name), zap.Int("attempts", attempt))
	return nil
}

// Database yields the shared handle, connecting first if no connection
// exists yet. The mutex ensures concurrent first use performs a single
// connection attempt instead of a connection storm.
func (s *Store) Database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connectLocked(ctx); err != nil {
		return nil, err
	}
	return s.db, nil
}

// Collection yields a handle for the named collection, connecting if needed.
func (s *Store) Collection(ctx context.Context, name string) (*mongo.Collection, error) {
	db, err := s.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping probes store liveness with the configured timeout.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.Database(ctx)
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.pingTimeout)
	defer cancel()
	if err := db.Client().Ping(pingCtx, readpref.Primary()); err != nil {
		return errors.Wrap(ErrStoreUnavailable, err.Error())
	}
	return nil
}

// Name returns the database name.
func (s *Store) Name() string {
	return s.name
}
