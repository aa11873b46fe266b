package files

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// MemoryRepository keeps file records in process memory, in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int64
	order []*models.File
	byID  map[string]*models.File
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.File)}
}

func (r *MemoryRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[file.ID]; ok {
		return nil, common.ErrorAlreadyExists
	}
	r.seq++
	file.Seq = r.seq
	file.CreatedAt = time.Now()

	stored := *file
	r.byID[file.ID] = &stored
	r.order = append(r.order, &stored)
	return file, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *f
	return &c, nil
}

func (r *MemoryRepository) GetOwned(ctx context.Context, id, userID string) (*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *f
	return &c, nil
}

func (r *MemoryRepository) List(ctx context.Context, userID string, parent models.ParentRef, offset, limit int) ([]*models.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.File, 0, limit)
	skipped := 0
	for _, f := range r.order {
		if f.UserID != userID || f.Parent != parent {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(result) == limit {
			break
		}
		c := *f
		result = append(result, &c)
	}
	return result, nil
}

func (r *MemoryRepository) SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	f.IsPublic = isPublic
	c := *f
	return &c, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}
