package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/moments/internal/repository"
	"github.com/d60-Lab/moments/pkg/database"
	"github.com/d60-Lab/moments/pkg/errcode"
)

func TestToggleParity(t *testing.T) {
	db := database.NewTestDB(t)
	likes := repository.NewLikeRepository(db)
	toggler := NewToggler("like", likes)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		on, err := toggler.Toggle(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, i%2 == 1, on, "toggle #%d", i)

		exists, err := likes.Exists(ctx, "u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, on, exists)
	}

	n, err := likes.CountByTarget(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestToggleRequiresActor(t *testing.T) {
	toggler := NewToggler("bookmark", repository.NewBookmarkRepository(database.NewTestDB(t)))
	_, err := toggler.Toggle(context.Background(), "", "p1")
	assert.True(t, errcode.Is(err, errcode.Unauthenticated))
}

type brokenRelations struct {
	repository.RelationRepository
	deleteErr error
	createErr error
}

func (b *brokenRelations) Delete(context.Context, string, string) error { return b.deleteErr }
func (b *brokenRelations) Create(context.Context, string, string) error { return b.createErr }

func TestToggleStoreFailures(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := NewToggler("like", &brokenRelations{deleteErr: boom}).Toggle(context.Background(), "u1", "p1")
	assert.True(t, errcode.Is(err, errcode.Store))
	assert.ErrorIs(t, err, boom)

	_, err = NewToggler("like", &brokenRelations{deleteErr: repository.ErrNotFound, createErr: boom}).
		Toggle(context.Background(), "u1", "p1")
	var appErr *errcode.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errcode.Store, appErr.Kind)
	assert.Equal(t, "An error occurred while toggling the like.", appErr.Message)
}
