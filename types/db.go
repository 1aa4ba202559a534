package types

import "context"

// DB is the storage contract implemented by the post stores.
type DB interface {
	// Init prepares and optionally validates the underlying schema.
	Init(ctx context.Context, skipSchemaValidation bool) error

	// SavePost writes the metadata and content records of a post,
	// overwriting any previous records with the same ID.
	SavePost(ctx context.Context, post *Post) error

	// SavePosts writes several posts, typically for bulk imports.
	SavePosts(ctx context.Context, posts ...*Post) error

	// ListRecords returns every stored record, metadata and content alike.
	ListRecords(ctx context.Context) ([]*Record, error)

	// FindPost assembles a single post. It returns ErrNotFound when no
	// metadata record exists for id.
	FindPost(ctx context.Context, id string) (*Post, error)

	// DropAllData removes every record. Intended for tests and operator purges.
	DropAllData(ctx context.Context) error
}
