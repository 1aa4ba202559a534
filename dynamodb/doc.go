// Package dynamodb provides a DynamoDB-backed implementation of the
// [github.com/abhijeet-0019/abhijeet-blog-repo/types.DB] interface.
//
// # Overview
//
// The package uses a single-table design with a composite primary key. Every
// post is stored as two items sharing the partition key POST#<id>:
//
//   - METADATA: title, author, date and summary.
//   - CONTENT:  the full body of the post.
//
// Listing returns both kinds of item undistinguished. [Client.FindPost]
// assembles a single post from its two items.
//
// # Getting Started
//
// Create a [Client] with [New], supplying an AWS config, the DynamoDB table
// name, and any [Option] values you need:
//
//	client := dynamodb.New(&awsCfg, tableName)
//
//	if err := client.Connect(); err != nil {
//	    return err
//	}
//
//	if err := client.Init(ctx, false); err != nil {
//	    return err
//	}
//
// By default, [New] creates an AWS SDK v2 DynamoDB client from the supplied
// [aws.Config]. Supply [WithAPI] to inject a custom or mock implementation.
// [Client.EnsureTable] creates the table with on-demand billing when it does
// not exist yet.
//
// # Writes
//
// Both items of a post are written in one transaction unless
// [WithTransactionalWrites] disables it. Without transactions a failed
// content write leaves the metadata item in place and the returned error
// wraps [ErrPartialWrite].
//
// # Concurrency
//
// [Client] is safe for concurrent use by multiple goroutines once
// [Client.Connect] has returned.
package dynamodb
