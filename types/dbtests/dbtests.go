// Package dbtests contains store-agnostic tests for [types.DB]
// implementations. Each function resets the store with DropAllData before
// running, so the functions must not run in parallel against the same store.
package dbtests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestListEmpty verifies that an empty store lists no records.
func TestListEmpty(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestSavePost verifies that a post is stored as exactly one metadata and
// one content record under POST#<id>.
func TestSavePost(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	post := &types.Post{
		ID:      "1",
		Title:   "T",
		Author:  types.DefaultAuthor,
		Date:    types.DefaultDate,
		Summary: types.DefaultSummary,
		Content: "C",
	}

	require.NoError(t, db.SavePost(ctx, post))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byKind := recordsByKind(t, records, "POST#1")

	assertStored(t, byKind[types.SortKeyMetadata],
		`{"PK":"POST#1","SK":"METADATA","title":"T","author":"Abhijeet","date":"2026-02-24","summary":"Click to read more..."}`)
	assertStored(t, byKind[types.SortKeyContent],
		`{"PK":"POST#1","SK":"CONTENT","content":"C"}`)
}

// assertStored checks the listed record against the item that should be in
// the store, attribute for attribute.
func assertStored(t *testing.T, record *types.Record, want string) {
	t.Helper()

	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, want, string(data))
}

// TestSavePostOverwrites verifies last-write-wins for a reused post ID.
func TestSavePostOverwrites(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	first := &types.Post{ID: "dup", Title: "first", Author: "A", Date: "D1", Summary: "S1", Content: "one"}
	second := &types.Post{ID: "dup", Title: "second", Author: "B", Date: "D2", Summary: "S2", Content: "two"}

	require.NoError(t, db.SavePost(ctx, first))
	require.NoError(t, db.SavePost(ctx, second))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byKind := recordsByKind(t, records, "POST#dup")
	assert.Equal(t, "second", byKind[types.SortKeyMetadata].Title)
	assert.Equal(t, "B", byKind[types.SortKeyMetadata].Author)
	assert.Equal(t, "two", byKind[types.SortKeyContent].Content)

	found, err := db.FindPost(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, second, found)
}

// TestSavePostRejectsInvalid verifies that invalid posts are never written.
func TestSavePostRejectsInvalid(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	invalid := []*types.Post{
		{ID: "", Title: "T", Content: "C"},
		{ID: "a#b", Title: "T", Content: "C"},
		{ID: "1", Title: "T"},
	}

	for _, post := range invalid {
		err := db.SavePost(ctx, post)
		require.ErrorIs(t, err, types.ErrValidation)
	}

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// TestSavePosts verifies bulk writes, including more posts than fit in a
// single batch.
func TestSavePosts(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	require.NoError(t, db.SavePosts(ctx))

	posts := make([]*types.Post, 0, 30)

	for i := range 30 {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		posts = append(posts, &types.Post{ID: id, Title: "title " + id, Author: "A", Date: "D", Summary: "S", Content: "content " + id})
	}

	require.NoError(t, db.SavePosts(ctx, posts...))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 60)

	for _, post := range posts {
		found, err := db.FindPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post, found)
	}
}

// TestFindPost verifies single-post reads and the not-found case.
func TestFindPost(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	_, err := db.FindPost(ctx, "missing")
	require.ErrorIs(t, err, types.ErrNotFound)

	post := &types.Post{ID: "42", Title: "Answer", Author: "A", Date: "D", Summary: "S", Content: "Body"}
	other := &types.Post{ID: "43", Title: "Other", Author: "A", Date: "D", Summary: "S", Content: "Other body"}

	require.NoError(t, db.SavePost(ctx, post))
	require.NoError(t, db.SavePost(ctx, other))

	found, err := db.FindPost(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, post, found)

	_, err = db.FindPost(ctx, "4")
	require.ErrorIs(t, err, types.ErrNotFound)
}

// TestDropAllData verifies that every record is removed.
func TestDropAllData(t *testing.T, db types.DB) {
	t.Helper()

	ctx := reset(t, db)

	require.NoError(t, db.SavePost(ctx, &types.Post{ID: "1", Title: "T", Content: "C"}))
	require.NoError(t, db.DropAllData(ctx))

	records, err := db.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// RunAll runs every test in this package as a subtest.
func RunAll(t *testing.T, db types.DB) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(*testing.T, types.DB)
	}{
		{"ListEmpty", TestListEmpty},
		{"SavePost", TestSavePost},
		{"SavePostOverwrites", TestSavePostOverwrites},
		{"SavePostRejectsInvalid", TestSavePostRejectsInvalid},
		{"SavePosts", TestSavePosts},
		{"FindPost", TestFindPost},
		{"DropAllData", TestDropAllData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, db)
		})
	}
}

func reset(t *testing.T, db types.DB) context.Context {
	t.Helper()

	ctx := context.Background()

	require.NoError(t, db.DropAllData(ctx))

	return ctx
}

func recordsByKind(t *testing.T, records []*types.Record, pk string) map[string]*types.Record {
	t.Helper()

	byKind := make(map[string]*types.Record, len(records))

	for _, r := range records {
		require.Equal(t, pk, r.PK)
		require.NotContains(t, byKind, r.SK, "duplicate %s record", r.SK)
		byKind[r.SK] = r
	}

	require.Contains(t, byKind, types.SortKeyMetadata)
	require.Contains(t, byKind, types.SortKeyContent)

	return byKind
}
