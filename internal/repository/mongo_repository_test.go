package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"spareeye/backend/internal/model"
	"spareeye/backend/internal/repository"
)

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("CreateRequest", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		req := &model.DiagnosisRequest{ID: "r1", Owner: "u1", CreatedAt: created, UpdatedAt: created}
		require.NoError(mt, repo.CreateRequest(ctx, req))
		assert.NotNil(mt, req.ImageURLs)
	})

	mt.Run("GetRequest", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "r1"},
			{Key: "owner", Value: "u1"},
			{Key: "description", Value: "squeaky belt"},
			{Key: "imageUrls", Value: bson.A{"/uploads/u1/a.jpg"}},
			{Key: "createdAt", Value: created},
		}))

		req, err := repo.GetRequest(ctx, "r1")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", req.Owner)
		assert.Equal(mt, "squeaky belt", req.Description)
		assert.Equal(mt, []string{"/uploads/u1/a.jpg"}, req.ImageURLs)
		assert.NotNil(mt, req.Messages)
	})

	mt.Run("GetRequest not found", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetRequest(ctx, "missing")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("ListRequests", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		ns := mt.DB.Name() + ".requests"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "r2"}, {Key: "owner", Value: "u1"}},
				bson.D{{Key: "_id", Value: "r1"}, {Key: "owner", Value: "u1"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		list, err := repo.ListRequests(ctx, "u1")
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, "r2", list[0].ID)
	})

	mt.Run("UpdateRequest missing", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.UpdateRequest(ctx, &model.DiagnosisRequest{ID: "missing"})
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("DeleteRequest", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.DeleteRequest(ctx, "r1"))
	})

	mt.Run("CreateUser duplicate", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.CreateUser(ctx, &model.User{ID: "u1", Username: "taken"})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})

	mt.Run("SaveSettings upserts", func(mt *mtest.T) {
		repo := repository.NewMongoRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.SaveSettings(ctx, model.DefaultSettings("u1")))
	})
}
