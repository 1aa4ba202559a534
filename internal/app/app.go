// Package app wires configuration, the post store, the notifiers and the
// request handler together. Executables build one App per process.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/pubsub/v2"
	"github.com/abhijeet-0019/abhijeet-blog-repo/dynamodb"
	"github.com/abhijeet-0019/abhijeet-blog-repo/handler"
	"github.com/abhijeet-0019/abhijeet-blog-repo/internal/config"
	"github.com/abhijeet-0019/abhijeet-blog-repo/postgres"
	pubsubnotifier "github.com/abhijeet-0019/abhijeet-blog-repo/pubsub"
	sqsnotifier "github.com/abhijeet-0019/abhijeet-blog-repo/sqs"
	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// localRegion is used with a custom DynamoDB endpoint when no region is set.
const localRegion = "us-east-1"

// App holds the long-lived dependencies of the service.
type App struct {
	Config  *config.Config
	Logger  types.Logger
	DB      types.DB
	Handler *handler.Handler

	closers []func(ctx context.Context) error
}

type Option func(*options)

type options struct {
	db        types.DB
	notifiers []types.Notifier
	awsConfig *aws.Config
}

// WithDB uses db instead of building a store from the configuration. The
// store is assumed to be initialized.
func WithDB(db types.DB) Option {
	return func(o *options) {
		o.db = db
	}
}

// WithNotifiers uses notifiers instead of building them from the
// configuration.
func WithNotifiers(notifiers ...types.Notifier) Option {
	return func(o *options) {
		o.notifiers = notifiers
	}
}

// WithAWSConfig skips loading the default AWS configuration.
func WithAWSConfig(cfg aws.Config) Option {
	return func(o *options) {
		o.awsConfig = &cfg
	}
}

// New builds the store, notifiers and handler described by cfg. On error,
// everything created so far is closed.
func New(ctx context.Context, cfg *config.Config, logger types.Logger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.build(ctx, o); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	return a, nil
}

func (a *App) build(ctx context.Context, o *options) error {
	var awsCfg aws.Config

	if o.awsConfig != nil {
		awsCfg = *o.awsConfig
	} else if a.needsAWS(o) {
		loaded, err := LoadAWSConfig(ctx, a.Config)
		if err != nil {
			return err
		}

		awsCfg = loaded
	}

	if o.db != nil {
		a.DB = o.db
	} else {
		db, err := a.newStore(ctx, &awsCfg)
		if err != nil {
			return err
		}

		a.DB = db
	}

	notifiers := o.notifiers
	if notifiers == nil {
		built, err := a.newNotifiers(ctx, &awsCfg)
		if err != nil {
			return err
		}

		notifiers = built
	}

	h, err := handler.New(a.DB,
		handler.WithLogger(a.Logger.WithField("component", "handler")),
		handler.WithDefaults(a.Config.PostDefaults()),
		handler.WithLegacyErrors(a.Config.LegacyErrors),
		handler.WithNotifiers(notifiers...),
		handler.WithNotifyTargets(a.Config.Notify.Targets...),
	)
	if err != nil {
		return err
	}

	a.Handler = h

	return nil
}

func (a *App) needsAWS(o *options) bool {
	if o.db == nil && a.Config.Backend == config.BackendDynamoDB {
		return true
	}

	return o.notifiers == nil && len(a.Config.SQSQueues()) > 0
}

// LoadAWSConfig loads the default AWS configuration. With a custom DynamoDB
// endpoint, static credentials are used unless AWS_ACCESS_KEY_ID is set,
// and the region falls back to us-east-1.
func LoadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	region := cfg.DynamoDB.Region

	if cfg.DynamoDB.Endpoint != "" {
		if region == "" {
			region = localRegion
		}

		if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("local", "local", "")),
			))
		}
	}

	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awsCfg, nil
}

//nolint:ireturn
func (a *App) newStore(ctx context.Context, awsCfg *aws.Config) (types.DB, error) {
	db, closeFn, err := OpenStore(ctx, a.Config, awsCfg)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, closeFn)

	if err := db.Init(ctx, a.Config.SkipSchemaValidation); err != nil {
		return nil, fmt.Errorf("failed to initialize %s post store: %w", a.Config.Backend, err)
	}

	a.Logger.WithFields(map[string]any{
		"backend": a.Config.Backend,
		"table":   StoreTableName(a.Config),
	}).Info("Post store ready")

	return db, nil
}

// OpenStore creates and connects the store selected by cfg without
// initializing it. The returned function releases its connections.
//
//nolint:ireturn
func OpenStore(ctx context.Context, cfg *config.Config, awsCfg *aws.Config) (types.DB, func(context.Context) error, error) {
	switch cfg.Backend {
	case config.BackendDynamoDB:
		opts := []dynamodb.Option{
			dynamodb.WithTransactionalWrites(cfg.DynamoDB.TransactionalWrites),
			dynamodb.WithMaxBatchRetries(cfg.DynamoDB.MaxBatchRetries),
		}

		if cfg.DynamoDB.Endpoint != "" {
			opts = append(opts, dynamodb.WithEndpoint(cfg.DynamoDB.Endpoint))
		}

		db := dynamodb.New(awsCfg, cfg.DynamoDB.TableName, opts...)

		if err := db.Connect(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DynamoDB: %w", err)
		}

		return db, func(context.Context) error { return nil }, nil
	case config.BackendPostgres:
		pg := cfg.Postgres

		opts := []postgres.Option{
			postgres.WithHost(pg.Host),
			postgres.WithPort(pg.Port),
			postgres.WithUser(pg.User),
			postgres.WithPassword(pg.Password),
			postgres.WithDatabase(pg.Database),
			postgres.WithSSLMode(postgres.SSLMode(pg.SSLMode)),
			postgres.WithPostsTable(pg.Table),
		}

		if pg.MaxConns > 0 {
			opts = append(opts, postgres.WithPoolMaxConnections(pg.MaxConns))
		}

		db := postgres.New(opts...)

		if err := db.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}

		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// StoreTableName returns the table used by the selected backend.
func StoreTableName(cfg *config.Config) string {
	if cfg.Backend == config.BackendPostgres {
		return cfg.Postgres.Table
	}

	return cfg.DynamoDB.TableName
}

func (a *App) newNotifiers(ctx context.Context, awsCfg *aws.Config) ([]types.Notifier, error) {
	var notifiers []types.Notifier

	if queues := a.Config.SQSQueues(); len(queues) > 0 {
		n, err := sqsnotifier.NewNotifier(awsCfg, sqsnotifier.WithDelaySeconds(a.Config.Notify.SQSDelaySeconds)).Init(ctx)
		if err != nil {
			return nil, err
		}

		notifiers = append(notifiers, n)

		a.Logger.WithField("queues", queues).Info("Publishing post events to SQS")
	}

	if topics := a.Config.PubSubTopics(); len(topics) > 0 {
		projectID := a.Config.PubSubProjectID()

		client, err := pubsub.NewClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create Pub/Sub client for project %s: %w", projectID, err)
		}

		a.closers = append(a.closers, func(context.Context) error { return client.Close() })

		n, err := pubsubnotifier.NewNotifier(client, pubsubnotifier.WithOrderByPost(a.Config.Notify.PubSubOrdered)).Init(ctx)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, func(context.Context) error {
			n.Close()
			return nil
		})

		notifiers = append(notifiers, n)

		a.Logger.WithField("topics", topics).Info("Publishing post events to Pub/Sub")
	}

	return notifiers, nil
}

// Close releases the resources held by the App in reverse creation order.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	a.closers = nil

	return errors.Join(errs...)
}
