package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellsync-backend/pkg/utils"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func TestPostgresRepo_AppendAndList(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := utils.OpenPostgres(ctx, utils.PostgresDriver, dsn, utils.PostgresPoolConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewPostgresRepo(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	// idempotent
	require.NoError(t, repo.EnsureSchema(ctx))

	actor := "test-" + uuid.NewString()
	base := time.Now().UTC().Truncate(time.Millisecond)
	svc := NewService(repo)
	for i, target := range []string{"first", "second"} {
		svc.clock = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		require.NoError(t, svc.Append(ctx, Entry{Actor: actor, Action: ActionAccessDenied, Target: target}))
	}

	entries, err := svc.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Target)
	assert.Equal(t, "first", entries[1].Target)
	assert.Equal(t, actor, entries[0].Actor)
	assert.True(t, entries[1].Timestamp.Equal(base))
}
