package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, err := r.Create(ctx, &models.User{ID: "u1", Email: "a@b.c", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.Create(ctx, &models.User{ID: "u2", Email: "a@b.c", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	u, err := r.GetByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	u, err = r.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	_, err = r.GetByID(ctx, "u2")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.GetByEmail(ctx, "x@y.z")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, err := r.Create(ctx, &models.User{ID: "u1", Email: "a@b.c", PasswordHash: "h"})
	require.NoError(t, err)

	u, _ := r.GetByID(ctx, "u1")
	u.Email = "mutated"

	again, _ := r.GetByID(ctx, "u1")
	assert.Equal(t, "a@b.c", again.Email)
}
