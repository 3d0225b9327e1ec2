package invitation_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/invitations/svc/invitation"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("insert and find", func(t *testing.T) {
		t.Parallel()

		s := invitation.NewMemoryStore()
		id := bson.NewObjectID()
		doc := bson.M{"_id": id, "firstName": "Ada"}
		require.NoError(t, s.Insert(ctx, doc))

		doc["firstName"] = "mutated"
		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got["firstName"])

		got["firstName"] = "mutated again"
		again, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Ada", again["firstName"])

		missing, err := s.FindByID(ctx, bson.NewObjectID())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("insert rejects duplicates and missing ids", func(t *testing.T) {
		t.Parallel()

		s := invitation.NewMemoryStore()
		id := bson.NewObjectID()
		require.NoError(t, s.Insert(ctx, bson.M{"_id": id}))
		assert.ErrorIs(t, s.Insert(ctx, bson.M{"_id": id}), invitation.ErrDuplicate)
		assert.Error(t, s.Insert(ctx, bson.M{"firstName": "Ada"}))
	})

	t.Run("range is ordered by id", func(t *testing.T) {
		t.Parallel()

		s := invitation.NewMemoryStore()
		ids := make([]bson.ObjectID, 5)
		for i := range ids {
			ids[i] = bson.NewObjectID()
		}
		for _, i := range []int{3, 0, 4, 1, 2} {
			require.NoError(t, s.Insert(ctx, bson.M{"_id": ids[i]}))
		}

		docs, err := s.FindRange(ctx, 1, 3)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for i, doc := range docs {
			assert.Equal(t, ids[i+1], doc["_id"])
		}

		docs, err = s.FindRange(ctx, 5, 3)
		require.NoError(t, err)
		assert.NotNil(t, docs)
		assert.Empty(t, docs)

		docs, err = s.FindRange(ctx, 1, math.MaxInt)
		require.NoError(t, err)
		assert.Len(t, docs, len(ids)-1)
	})

	t.Run("update and delete", func(t *testing.T) {
		t.Parallel()

		s := invitation.NewMemoryStore()
		id := bson.NewObjectID()
		require.NoError(t, s.Insert(ctx, bson.M{"_id": id, "comment": "a"}))

		require.NoError(t, s.Update(ctx, id, bson.M{"comment": "b"}))
		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "b", got["comment"])
		assert.Equal(t, id, got["_id"])

		assert.ErrorIs(t, s.Update(ctx, bson.NewObjectID(), bson.M{}), invitation.ErrNotFound)

		removed, err := s.DeleteByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = s.DeleteByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, removed)
	})
}
