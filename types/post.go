package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// AttrPK is the partition key attribute name.
	AttrPK = "PK"

	// AttrSK is the sort key attribute name.
	AttrSK = "SK"

	AttrTitle   = "title"
	AttrAuthor  = "author"
	AttrDate    = "date"
	AttrSummary = "summary"
	AttrContent = "content"

	// PostKeyPrefix prefixes every post partition key.
	PostKeyPrefix = "POST#"

	// SortKeyMetadata marks the record holding the summary fields of a post.
	SortKeyMetadata = "METADATA"

	// SortKeyContent marks the record holding the full body of a post.
	SortKeyContent = "CONTENT"
)

// Post is the assembled view of a blog post.
type Post struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// PartitionKey returns the partition key shared by both records of the post.
func (p *Post) PartitionKey() string {
	return PostPartitionKey(p.ID)
}

// MetadataRecord returns the METADATA record of the post.
func (p *Post) MetadataRecord() *Record {
	return &Record{
		PK:      p.PartitionKey(),
		SK:      SortKeyMetadata,
		Title:   p.Title,
		Author:  p.Author,
		Date:    p.Date,
		Summary: p.Summary,
	}
}

// ContentRecord returns the CONTENT record of the post.
func (p *Post) ContentRecord() *Record {
	return &Record{
		PK:      p.PartitionKey(),
		SK:      SortKeyContent,
		Content: p.Content,
	}
}

// Records returns the metadata and content records, in write order.
func (p *Post) Records() []*Record {
	return []*Record{p.MetadataRecord(), p.ContentRecord()}
}

// Validate checks the fields every stored post must have.
func (p *Post) Validate() error {
	if err := ValidatePostID(p.ID); err != nil {
		return err
	}

	if p.Title == "" {
		return NewValidationError(AttrTitle, "is required")
	}

	if p.Content == "" {
		return NewValidationError(AttrContent, "is required")
	}

	return nil
}

// PostPartitionKey builds the partition key for a post ID.
func PostPartitionKey(id string) string {
	return PostKeyPrefix + id
}

// PostIDFromPartitionKey extracts the post ID from a POST#<id> partition key.
func PostIDFromPartitionKey(pk string) (string, error) {
	id, ok := strings.CutPrefix(pk, PostKeyPrefix)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid post partition key: %s", pk)
	}

	return id, nil
}

// ValidatePostID reports whether id can be used to build a partition key.
func ValidatePostID(id string) error {
	if id == "" {
		return NewValidationError("id", "is required")
	}

	if strings.Contains(id, "#") {
		return NewValidationError("id", "cannot contain '#'")
	}

	return nil
}

// Record is a single item stored in the posts table. Which attributes are
// meaningful depends on the sort key, see [Record.Attributes].
//
// Records read back from a store also carry the item exactly as it was
// stored in Item. The typed fields are filled from its string attributes.
type Record struct {
	PK      string `dynamodbav:"PK"`
	SK      string `dynamodbav:"SK"`
	Title   string `dynamodbav:"title"`
	Author  string `dynamodbav:"author"`
	Date    string `dynamodbav:"date"`
	Summary string `dynamodbav:"summary"`
	Content string `dynamodbav:"content"`

	Item map[string]any `dynamodbav:"-"`
}

// IsMetadata reports whether r is a METADATA record.
func (r *Record) IsMetadata() bool {
	return r.SK == SortKeyMetadata
}

// IsContent reports whether r is a CONTENT record.
func (r *Record) IsContent() bool {
	return r.SK == SortKeyContent
}

// Attributes returns the stored attributes of the record, keys included.
// Metadata records always carry title, author, date and summary; content
// records always carry content. Records of any other kind carry whatever
// non-empty attributes they have.
func (r *Record) Attributes() map[string]string {
	attrs := map[string]string{
		AttrPK: r.PK,
		AttrSK: r.SK,
	}

	switch r.SK {
	case SortKeyMetadata:
		attrs[AttrTitle] = r.Title
		attrs[AttrAuthor] = r.Author
		attrs[AttrDate] = r.Date
		attrs[AttrSummary] = r.Summary
	case SortKeyContent:
		attrs[AttrContent] = r.Content
	default:
		for k, v := range map[string]string{
			AttrTitle:   r.Title,
			AttrAuthor:  r.Author,
			AttrDate:    r.Date,
			AttrSummary: r.Summary,
			AttrContent: r.Content,
		} {
			if v != "" {
				attrs[k] = v
			}
		}
	}

	return attrs
}

// RecordFromItem wraps a stored item. Attributes that are not strings, or
// that the record has no field for, are only kept in Item.
func RecordFromItem(item map[string]any) *Record {
	str := func(key string) string {
		v, _ := item[key].(string)
		return v
	}

	return &Record{
		PK:      str(AttrPK),
		SK:      str(AttrSK),
		Title:   str(AttrTitle),
		Author:  str(AttrAuthor),
		Date:    str(AttrDate),
		Summary: str(AttrSummary),
		Content: str(AttrContent),
		Item:    item,
	}
}

// MarshalJSON encodes the record as a flat object. A record read from a
// store is encoded exactly as stored, any other record as its [Record.Attributes].
func (r *Record) MarshalJSON() ([]byte, error) {
	if r.Item != nil {
		return json.Marshal(r.Item)
	}

	return json.Marshal(r.Attributes())
}

// UnmarshalJSON decodes a flat object of attributes.
func (r *Record) UnmarshalJSON(data []byte) error {
	var item map[string]any

	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}

	if item == nil {
		item = map[string]any{}
	}

	*r = *RecordFromItem(item)

	return nil
}

// PostFromRecords assembles a post from the records stored under one
// partition key. It returns [ErrNotFound] when there is no metadata record.
// A missing content record yields a post with empty content.
func PostFromRecords(records []*Record) (*Post, error) {
	var metadata, content *Record

	for _, r := range records {
		switch {
		case r.IsMetadata():
			metadata = r
		case r.IsContent():
			content = r
		}
	}

	if metadata == nil {
		return nil, ErrNotFound
	}

	id, err := PostIDFromPartitionKey(metadata.PK)
	if err != nil {
		return nil, err
	}

	post := &Post{
		ID:      id,
		Title:   metadata.Title,
		Author:  metadata.Author,
		Date:    metadata.Date,
		Summary: metadata.Summary,
	}

	if content != nil {
		post.Content = content.Content
	}

	return post, nil
}
