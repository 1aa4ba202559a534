// Package types holds the domain model shared by the blog post stores,
// notifiers and the request handler.
//
// A post is stored as two records under the same partition key:
//
//   - Metadata: PK=POST#<id>, SK=METADATA, with title, author, date and summary.
//   - Content:  PK=POST#<id>, SK=CONTENT, with the full body text.
//
// Store implementations satisfy [DB]; event publishers satisfy [Notifier].
// Both are written against the small [Logger] interface so callers can plug
// in any structured logger.
package types
