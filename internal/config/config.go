// Package config holds the process configuration shared by the executables.
// Values come from flags or, more commonly, environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhijeet-0019/abhijeet-blog-repo/pubsub"
	"github.com/abhijeet-0019/abhijeet-blog-repo/sqs"
	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/alecthomas/kong"
)

const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Backend              string `name:"backend" env:"POSTS_BACKEND" enum:"dynamodb,postgres" default:"dynamodb" help:"Post store backend (dynamodb or postgres)."`
	SkipSchemaValidation bool   `name:"skip-schema-validation" env:"POSTS_SKIP_SCHEMA_VALIDATION" help:"Do not verify the table schema on startup."`
	LegacyErrors         bool   `name:"legacy-errors" env:"POSTS_LEGACY_ERRORS" help:"Report every failure as 500 Internal Server Error."`

	Defaults DefaultsConfig `embed:"" prefix:"default-" envprefix:"POSTS_DEFAULT_"`
	DynamoDB DynamoDBConfig `embed:"" prefix:"dynamodb-"`
	Postgres PostgresConfig `embed:"" prefix:"postgres-" envprefix:"POSTGRES_"`
	Notify   NotifyConfig   `embed:"" prefix:"notify-"`
	Log      LogConfig      `embed:"" prefix:"log-" envprefix:"LOG_"`
}

// DefaultsConfig holds the values given to absent optional post fields.
type DefaultsConfig struct {
	Author  string `name:"author" env:"AUTHOR" default:"Abhijeet" help:"Author used when a post has none."`
	Date    string `name:"date" env:"DATE" default:"2026-02-24" help:"Date used when a post has none."`
	Summary string `name:"summary" env:"SUMMARY" default:"Click to read more..." help:"Summary used when a post has none."`
}

type DynamoDBConfig struct {
	TableName           string `name:"table" env:"TABLE_NAME" help:"DynamoDB table holding the posts."`
	Region              string `name:"region" env:"AWS_REGION" help:"AWS region. Falls back to the default AWS configuration chain."`
	Endpoint            string `name:"endpoint" env:"DYNAMODB_ENDPOINT" help:"Custom endpoint, e.g. http://localhost:8000 for DynamoDB Local."`
	TransactionalWrites bool   `name:"transactional-writes" env:"DYNAMODB_TRANSACTIONAL_WRITES" default:"true" negatable:"" help:"Write both records of a post in one transaction."`
	MaxBatchRetries     int    `name:"max-batch-retries" env:"DYNAMODB_MAX_BATCH_RETRIES" default:"5" help:"Retries for unprocessed items of a batch write."`
}

type PostgresConfig struct {
	Host     string `name:"host" env:"HOST" default:"localhost" help:"Postgres host."`
	Port     int    `name:"port" env:"PORT" default:"5432" help:"Postgres port."`
	User     string `name:"user" env:"USER" help:"Postgres user."`
	Password string `name:"password" env:"PASSWORD" help:"Postgres password."`
	Database string `name:"database" env:"DB" help:"Postgres database."`
	SSLMode  string `name:"sslmode" env:"SSLMODE" default:"prefer" enum:"disable,allow,prefer,require,verify-ca,verify-full" help:"Postgres SSL mode."`
	Table    string `name:"table" env:"TABLE" default:"posts" help:"Postgres table holding the posts."`
	MaxConns int32  `name:"max-conns" env:"MAX_CONNS" help:"Maximum pool connections. Zero keeps the driver default."`
}

// NotifyConfig configures post.created event publishing.
type NotifyConfig struct {
	Targets         []string `name:"targets" env:"POSTS_NOTIFY_TARGETS" sep:"," help:"SQS queue URLs or Pub/Sub topics (projects/<p>/topics/<t>) receiving post events."`
	SQSDelaySeconds int32    `name:"sqs-delay-seconds" env:"SQS_DELAY_SECONDS" default:"0" help:"Delivery delay for standard SQS queues."`
	PubSubProject   string   `name:"pubsub-project" env:"GOOGLE_CLOUD_PROJECT" help:"Google Cloud project of the Pub/Sub client. Defaults to the project of the first topic target."`
	PubSubOrdered   bool     `name:"pubsub-ordered" env:"PUBSUB_ORDERED" default:"true" negatable:"" help:"Order Pub/Sub messages by post id."`
}

type LogConfig struct {
	Level  string `name:"level" env:"LEVEL" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	Format string `name:"format" env:"FORMAT" default:"json" enum:"json,console" help:"Log output format."`
}

// Load parses args and the environment into a Config. Extra kong options,
// such as kong.Writers, are passed to the parser.
func Load(args []string, opts ...kong.Option) (*Config, error) {
	var cfg Config

	parser, err := kong.New(&cfg, append([]kong.Option{
		kong.Name("posts"),
		kong.Description("Blog post storage service."),
	}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config parser: %w", err)
	}

	if _, err := parser.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings required by the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendDynamoDB:
		if c.DynamoDB.TableName == "" {
			return errors.New("TABLE_NAME is required for the dynamodb backend")
		}
	case BackendPostgres:
		if c.Postgres.User == "" || c.Postgres.Database == "" {
			return errors.New("POSTGRES_USER and POSTGRES_DB are required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	for _, target := range c.Notify.Targets {
		if strings.TrimSpace(target) == "" {
			return errors.New("POSTS_NOTIFY_TARGETS cannot contain empty values")
		}
	}

	return nil
}

// PostDefaults converts the defaults section into [types.Defaults].
func (c *Config) PostDefaults() types.Defaults {
	return types.Defaults{
		Author:  c.Defaults.Author,
		Date:    c.Defaults.Date,
		Summary: c.Defaults.Summary,
	}
}

// PubSubTopics returns the notify targets that name Pub/Sub topics.
func (c *Config) PubSubTopics() []string {
	var topics []string

	for _, target := range c.Notify.Targets {
		if pubsub.IsTopicName(target) {
			topics = append(topics, target)
		}
	}

	return topics
}

// PubSubProjectID returns the configured project, or the project of the
// first Pub/Sub topic target.
func (c *Config) PubSubProjectID() string {
	if c.Notify.PubSubProject != "" {
		return c.Notify.PubSubProject
	}

	for _, topic := range c.PubSubTopics() {
		parts := strings.Split(topic, "/")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}

	return ""
}

// SQSQueues returns the notify targets that are SQS queue URLs.
func (c *Config) SQSQueues() []string {
	var queues []string

	for _, target := range c.Notify.Targets {
		if sqs.IsQueueURL(target) {
			queues = append(queues, target)
		}
	}

	return queues
}
