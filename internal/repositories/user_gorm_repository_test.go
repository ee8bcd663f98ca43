package repositories

import (
	"context"
	"testing"

	"productapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGORMUserRepository(newTestDB(t))

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.UpdateRole(ctx, user.ID, models.RoleAdmin))
	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, byID.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, "missing", models.RoleAdmin), ErrUserNotFound)

	dup := &models.User{Username: "alice", Email: "other@example.com", Password: "hash"}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicateUser)
}
