package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ganak-service/src/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/atomic"
)

// DefaultAlias is the name the primary connection is registered under.
const DefaultAlias = "default"

type Status string

const (
	StatusConnected Status = "connected"
	StatusDegraded  Status = "degraded"
)

// ErrUnavailable is returned by stores when no usable client exists.
var ErrUnavailable = errors.New("database connection unavailable")

type Options struct {
	Alias          string
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Connection is a named handle on one MongoDB client. Its status is safe to
// read from request handlers while the health check refreshes it.
type Connection struct {
	alias   string
	client  *mongo.Client
	db      *mongo.Database
	status  *atomic.String
	lastErr *atomic.Error
}

// Connect makes exactly one attempt to open and ping the database. It never
// fails: an unreachable server yields a degraded Connection carrying the cause.
func Connect(ctx context.Context, opts Options, log *logger.Logger) *Connection {
	if opts.Alias == "" {
		opts.Alias = DefaultAlias
	}
	conn := &Connection{
		alias:   opts.Alias,
		status:  atomic.NewString(string(StatusDegraded)),
		lastErr: atomic.NewError(nil),
	}

	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(opts.ConnectTimeout).SetServerSelectionTimeout(opts.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		conn.fail(fmt.Errorf("connect: %w", err))
		log.Error(fmt.Sprintf("❌ Error connecting to MongoDB (alias %q): %v", conn.alias, err))
		return conn
	}
	conn.client = client
	conn.db = client.Database(opts.Database)

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		conn.fail(fmt.Errorf("ping: %w", err))
		log.Error(fmt.Sprintf("❌ Error connecting to MongoDB (alias %q): %v", conn.alias, err))
		return conn
	}

	conn.status.Store(string(StatusConnected))
	log.Info(fmt.Sprintf("✅ Connected to MongoDB (alias %q, database %q)", conn.alias, opts.Database))
	return conn
}

// Attach wraps an already connected database, e.g. one owned by a test harness.
func Attach(alias string, db *mongo.Database) *Connection {
	return &Connection{
		alias:   alias,
		client:  db.Client(),
		db:      db,
		status:  atomic.NewString(string(StatusConnected)),
		lastErr: atomic.NewError(nil),
	}
}

// Unavailable returns a degraded Connection without a client.
func Unavailable(alias string, cause error) *Connection {
	conn := &Connection{
		alias:   alias,
		status:  atomic.NewString(string(StatusDegraded)),
		lastErr: atomic.NewError(nil),
	}
	conn.fail(cause)
	return conn
}

func (c *Connection) fail(err error) {
	c.lastErr.Store(err)
	c.status.Store(string(StatusDegraded))
}

func (c *Connection) Alias() string {
	return c.alias
}

func (c *Connection) Status() Status {
	return Status(c.status.Load())
}

// Err returns the cause of the last failed attempt or ping, nil when connected.
func (c *Connection) Err() error {
	return c.lastErr.Load()
}

// Database returns the configured database. The driver reconnects on its own,
// so a degraded connection with a client is still handed out.
func (c *Connection) Database() (*mongo.Database, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: alias %q: %v", ErrUnavailable, c.alias, c.Err())
	}
	return c.db, nil
}

func (c *Connection) Collection(name string) (*mongo.Collection, error) {
	db, err := c.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping checks the server and records the outcome.
func (c *Connection) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("%w: alias %q: %v", ErrUnavailable, c.alias, c.Err())
	}
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		c.fail(fmt.Errorf("ping: %w", err))
		return err
	}
	c.lastErr.Store(nil)
	c.status.Store(string(StatusConnected))
	return nil
}

func (c *Connection) Disconnect(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
