package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errNotConnected = errors.New("client is not connected")

// pool defines the interface for database operations.
// This interface is satisfied by *pgxpool.Pool and can be mocked for testing.
type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Close()
	Ping(ctx context.Context) error
}

type Client struct {
	conn pool
	opts *options
}

var _ types.DB = (*Client)(nil)

func New(opts ...Option) *Client {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}

	return &Client{opts: o}
}

func (c *Client) Connect(ctx context.Context) error {
	// Close existing connection if any to prevent leaks
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	if err := c.opts.validate(); err != nil {
		return fmt.Errorf("invalid Postgres db configuration: %w", err)
	}

	config, err := pgxpool.ParseConfig(c.opts.connectionString())
	if err != nil {
		return fmt.Errorf("failed to parse Postgres db connection string: %w", err)
	}

	if c.opts.poolMaxConnections != nil {
		config.MaxConns = *c.opts.poolMaxConnections
	}

	if c.opts.poolMinConnections != nil {
		config.MinConns = *c.opts.poolMinConnections
	}

	if c.opts.poolMinIdleConnections != nil {
		config.MinIdleConns = *c.opts.poolMinIdleConnections
	}

	if c.opts.poolMaxConnectionLifetime != nil {
		config.MaxConnLifetime = *c.opts.poolMaxConnectionLifetime
	}

	if c.opts.poolMaxConnectionIdleTime != nil {
		config.MaxConnIdleTime = *c.opts.poolMaxConnectionIdleTime
	}

	if c.opts.poolHealthCheckPeriod != nil {
		config.HealthCheckPeriod = *c.opts.poolHealthCheckPeriod
	}

	if c.opts.poolMaxConnectionLifetimeJitter != nil {
		config.MaxConnLifetimeJitter = *c.opts.poolMaxConnectionLifetimeJitter
	}

	conn, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create new Postgres connection pool: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping Postgres db: %w", err)
	}

	c.conn = conn

	return nil
}

func (c *Client) Close(_ context.Context) error {
	if c.conn == nil {
		return nil
	}

	c.conn.Close()

	c.conn = nil

	return nil
}

// Init creates the posts table if it does not exist and, unless
// skipSchemaValidation is true, verifies its columns against
// information_schema.
func (c *Client) Init(ctx context.Context, skipSchemaValidation bool) error {
	if c.conn == nil {
		return errNotConnected
	}

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin init transaction: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }() // No-op if committed

	for _, sql := range c.opts.createStatements() {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return fmt.Errorf("failed to execute create statement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit init transaction: %w", err)
	}

	if skipSchemaValidation {
		return nil
	}

	query := "SELECT table_name, column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = 'public' ORDER BY ordinal_position"

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query information schema: %w", err)
	}

	defer rows.Close()

	infoRows := map[string]*dbRow{}

	for rows.Next() {
		var table, column string
		infoRow := &dbRow{}

		if err := rows.Scan(&table, &column, &infoRow.DataType, &infoRow.IsNullable); err != nil {
			return fmt.Errorf("failed to scan row from information schema: %w", err)
		}

		infoRows[table+"."+column] = infoRow
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over rows from information schema: %w", err)
	}

	if err := c.opts.verifyCurrentDatabaseVersion(infoRows); err != nil {
		return fmt.Errorf("failed to verify current database version: %w", err)
	}

	return nil
}

// DropAllData removes every row from the posts table. The table itself is kept.
func (c *Client) DropAllData(ctx context.Context) error {
	if c.conn == nil {
		return errNotConnected
	}

	if _, err := c.conn.Exec(ctx, c.opts.truncateStatement()); err != nil {
		return fmt.Errorf("failed to truncate posts table: %w", err)
	}

	return nil
}

// SavePost upserts the metadata and content rows of a post in one transaction.
func (c *Client) SavePost(ctx context.Context, post *types.Post) error {
	if c.conn == nil {
		return errNotConnected
	}

	if post == nil {
		return errors.New("post cannot be nil")
	}

	if err := post.Validate(); err != nil {
		return err
	}

	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin save post transaction: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }() // No-op if committed

	for _, record := range post.Records() {
		args, err := recordArgs(record)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, c.opts.upsertStatement(), args...); err != nil {
			return fmt.Errorf("failed to save %s record of post %s to Postgres db: %w", record.SK, post.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit save post transaction: %w", err)
	}

	return nil
}

// SavePosts upserts the records of several posts with a single batch.
func (c *Client) SavePosts(ctx context.Context, posts ...*types.Post) error {
	if c.conn == nil {
		return errNotConnected
	}

	if len(posts) == 0 {
		return nil
	}

	for _, post := range posts {
		if post == nil {
			return errors.New("post cannot be nil")
		}

		if err := post.Validate(); err != nil {
			return fmt.Errorf("invalid post %q: %w", post.ID, err)
		}
	}

	batch := &pgx.Batch{}

	for _, post := range posts {
		for _, record := range post.Records() {
			args, err := recordArgs(record)
			if err != nil {
				return err
			}

			batch.Queue(c.opts.upsertStatement(), args...)
		}
	}

	results := c.conn.SendBatch(ctx, batch)

	defer results.Close()

	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save post record to Postgres db: %w", err)
		}
	}

	return nil
}

// ListRecords returns every row of the posts table ordered by pk and sk.
func (c *Client) ListRecords(ctx context.Context) ([]*types.Record, error) {
	if c.conn == nil {
		return nil, errNotConnected
	}

	query := fmt.Sprintf("SELECT pk, sk, attrs FROM %s ORDER BY pk, sk", c.opts.postsTable)

	rows, err := c.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list post records from Postgres db: %w", err)
	}

	return scanRecords(rows)
}

// FindPost loads the rows stored under POST#<id> and assembles the post.
func (c *Client) FindPost(ctx context.Context, id string) (*types.Post, error) {
	if c.conn == nil {
		return nil, errNotConnected
	}

	if err := types.ValidatePostID(id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT pk, sk, attrs FROM %s WHERE pk = $1 ORDER BY sk", c.opts.postsTable)

	rows, err := c.conn.Query(ctx, query, types.PostPartitionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to find post in Postgres db: %w", err)
	}

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	return types.PostFromRecords(records)
}

func scanRecords(rows pgx.Rows) ([]*types.Record, error) {
	defer rows.Close()

	records := []*types.Record{}

	for rows.Next() {
		var pk, sk string
		var body json.RawMessage

		if err := rows.Scan(&pk, &sk, &body); err != nil {
			return nil, fmt.Errorf("failed to scan post record row: %w", err)
		}

		attrs := map[string]any{}

		if err := json.Unmarshal(body, &attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes of %s/%s: %w", pk, sk, err)
		}

		attrs[types.AttrPK] = pk
		attrs[types.AttrSK] = sk

		records = append(records, types.RecordFromItem(attrs))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over post record rows: %w", err)
	}

	return records, nil
}

// recordArgs returns the upsert arguments for record. The key attributes live
// in their own columns and are left out of attrs.
func recordArgs(record *types.Record) ([]any, error) {
	attrs := record.Attributes()
	delete(attrs, types.AttrPK)
	delete(attrs, types.AttrSK)

	body, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", record.SK, err)
	}

	param1 := record.PK
	param2 := record.SK
	param3 := PostRecordModelVersion
	param4 := string(body)

	return []any{param1, param2, param3, param4}, nil
}
