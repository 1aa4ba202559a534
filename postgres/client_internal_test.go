package postgres

import (
	"errors"
	"testing"

	"github.com/abhijeet-0019/abhijeet-blog-repo/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordArgs(t *testing.T) {
	t.Parallel()

	t.Run("metadata record keeps only metadata attributes", func(t *testing.T) {
		t.Parallel()

		args, err := recordArgs(&types.Record{PK: "POST#1", SK: types.SortKeyMetadata, Title: "T", Author: "A", Date: "D", Summary: ""})

		require.NoError(t, err)
		require.Len(t, args, 4)
		assert.Equal(t, "POST#1", args[0])
		assert.Equal(t, "METADATA", args[1])
		assert.Equal(t, PostRecordModelVersion, args[2])
		assert.JSONEq(t, `{"title":"T","author":"A","date":"D","summary":""}`, args[3].(string))
	})

	t.Run("content record keeps only content", func(t *testing.T) {
		t.Parallel()

		args, err := recordArgs(&types.Record{PK: "POST#1", SK: types.SortKeyContent, Title: "ignored", Content: "C"})

		require.NoError(t, err)
		assert.JSONEq(t, `{"content":"C"}`, args[3].(string))
	})
}

func TestErrNotConnected(t *testing.T) {
	t.Parallel()

	require.Error(t, errNotConnected)
	assert.True(t, errors.Is(errNotConnected, errNotConnected))
	assert.Equal(t, "client is not connected", errNotConnected.Error())
}
