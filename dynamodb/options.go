package dynamodb

import (
	"errors"
	"time"
)

// Option is a functional option for configuring a [Client].
type Option func(*Options)

// Options holds the configuration for a [Client]. Use [Option] functions
// (such as [WithTransactionalWrites] or [WithMaxBatchRetries]) to customise
// the defaults.
type Options struct {
	transactionalWrites bool
	maxBatchRetries     int
	batchRetryBackoff   time.Duration
	tableWaitTimeout    time.Duration
	endpoint            string
	dynamoDBAPI         API
}

func newOptions() *Options {
	return &Options{
		transactionalWrites: true,
		maxBatchRetries:     5,
		batchRetryBackoff:   50 * time.Millisecond,
		tableWaitTimeout:    2 * time.Minute,
	}
}

func (o *Options) validate() error {
	if o.maxBatchRetries < 0 {
		return errors.New("max batch retries cannot be negative")
	}

	if o.batchRetryBackoff <= 0 {
		return errors.New("batch retry backoff must be greater than zero")
	}

	if o.tableWaitTimeout <= 0 {
		return errors.New("table wait timeout must be greater than zero")
	}

	return nil
}

// WithTransactionalWrites controls how [Client.SavePost] writes the two
// records of a post. When enabled (the default), both records are written in
// a single TransactWriteItems call. When disabled, the metadata record is
// written first and the content record second, with separate PutItem calls.
func WithTransactionalWrites(enabled bool) Option {
	return func(o *Options) {
		o.transactionalWrites = enabled
	}
}

// WithMaxBatchRetries sets how many times unprocessed items of a
// BatchWriteItem call are retried. The default is 5.
func WithMaxBatchRetries(n int) Option {
	return func(o *Options) {
		o.maxBatchRetries = n
	}
}

// WithBatchRetryBackoff sets the initial backoff between batch retries. The
// backoff doubles on every attempt, capped at 2 seconds. The default is 50ms.
func WithBatchRetryBackoff(d time.Duration) Option {
	return func(o *Options) {
		o.batchRetryBackoff = d
	}
}

// WithTableWaitTimeout sets how long [Client.EnsureTable] waits for a table
// to become active. The default is 2 minutes.
func WithTableWaitTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.tableWaitTimeout = d
	}
}

// WithEndpoint overrides the DynamoDB endpoint, for example to use DynamoDB
// Local. It has no effect when [WithAPI] is used.
func WithEndpoint(url string) Option {
	return func(o *Options) {
		o.endpoint = url
	}
}

// WithAPI sets a custom [API] implementation. This is useful when a custom
// DynamoDB configuration is required, or for injecting mocks in tests.
func WithAPI(api API) Option {
	return func(o *Options) {
		o.dynamoDBAPI = api
	}
}
