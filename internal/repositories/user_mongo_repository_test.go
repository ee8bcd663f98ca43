package repositories

import (
	"context"
	"testing"

	"productapi/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by username", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "productapi.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "username", Value: "alice"},
			{Key: "role", Value: "admin"},
		}))

		user, err := repo.GetByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		assert.Equal(mt, "u-1", user.ID)
		assert.Equal(mt, "admin", user.Role)
	})

	mt.Run("update role not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})
		assert.ErrorIs(mt, repo.UpdateRole(context.Background(), "missing", "admin"), ErrUserNotFound)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: productapi.users index: username_1",
		}))

		err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"})
		assert.ErrorIs(mt, err, ErrDuplicateUser)
	})
}
