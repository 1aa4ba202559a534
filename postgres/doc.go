// Package postgres provides a PostgreSQL-backed implementation of the
// types.DB interface from github.com/abhijeet-0019/abhijeet-blog-repo/types.
//
// It uses pgx v5 with connection pooling (pgxpool) and stores the two
// records of every post as rows keyed by (pk, sk), with the remaining
// attributes held in a JSONB column.
//
// # Usage
//
// Create a client using [New] with functional options, call [Client.Connect]
// to establish the connection pool, and then [Client.Init] to create the
// database schema:
//
//	client := postgres.New(
//	    postgres.WithHost("localhost"),
//	    postgres.WithPort(5432),
//	    postgres.WithUser("postgres"),
//	    postgres.WithPassword("secret"),
//	    postgres.WithDatabase("blog"),
//	)
//
//	if err := client.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	if err := client.Init(ctx, false); err != nil {
//	    log.Fatal(err)
//	}
//
// # Database Table
//
// A single table is created by [Client.Init]. Its name defaults to "posts"
// and can be changed with [WithPostsTable]:
//
//	pk text, sk text, version smallint, attrs jsonb, PRIMARY KEY (pk, sk)
//
// pk is POST#<id> and sk is METADATA or CONTENT, matching the DynamoDB
// layout. [Client.SavePost] upserts both rows in one transaction, so a
// reused post ID replaces the previous rows.
//
// # Connection Pool
//
// The underlying pgxpool can be tuned with the pool-specific options:
// [WithPoolMaxConnections], [WithPoolMinConnections],
// [WithPoolMinIdleConnections], [WithPoolMaxConnectionLifetime],
// [WithPoolMaxConnectionIdleTime], [WithPoolHealthCheckPeriod], and
// [WithPoolMaxConnectionLifetimeJitter].
//
// # Schema Validation
//
// When [Client.Init] is called with skipSchemaValidation set to false, it
// queries information_schema.columns and verifies that every expected column
// exists with the correct data type and nullability.
//
// # SSL
//
// SSL behaviour is controlled by [WithSSLMode] using the [SSLMode] constants
// ([SSLModeDisable], [SSLModeAllow], [SSLModePrefer], [SSLModeRequire],
// [SSLModeVerifyCA], [SSLModeVerifyFull]). The default is [SSLModePrefer].
package postgres
