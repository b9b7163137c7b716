package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQuery(t *testing.T) {
	t.Run("No filter", func(t *testing.T) {
		query, args := listQuery(Filter{})

		assert.NotContains(t, query, "WHERE")
		assert.NotContains(t, query, "ALLOW FILTERING")
		assert.Equal(t, []any{DefaultListLimit}, args)
	})

	t.Run("Filters and capped limit", func(t *testing.T) {
		query, args := listQuery(Filter{UserEmail: "a@example.com", Action: ActionOrderCancel, Limit: 10_000})

		assert.Contains(t, query, "WHERE user_email = ? AND action = ?")
		assert.Contains(t, query, "LIMIT ? ALLOW FILTERING")
		assert.Equal(t, []any{"a@example.com", ActionOrderCancel, MaxListLimit}, args)
	})

	t.Run("Resource id", func(t *testing.T) {
		query, args := listQuery(Filter{ResourceID: "abc", Limit: 5})

		assert.Contains(t, query, "WHERE resource_id = ?")
		assert.Equal(t, []any{"abc", 5}, args)
	})
}

func TestNoop(t *testing.T) {
	var n Noop
	require.NoError(t, n.Record(context.Background(), Entry{Action: ActionOrderCreate}))

	entries, err := n.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
