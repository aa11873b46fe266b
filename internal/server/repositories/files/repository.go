// Package files stores file, image and folder metadata.
package files

import (
	"context"

	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// Repository persists file records. Lookups that miss return
// common.ErrorNotFound. List returns records in insertion order.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetOwned(ctx context.Context, id, userID string) (*models.File, error)
	List(ctx context.Context, userID string, parent models.ParentRef, offset, limit int) ([]*models.File, error)
	SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
