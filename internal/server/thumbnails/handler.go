// Package thumbnails renders the derivatives of uploaded images.
//
// Image uploads enqueue a job through a Producer; a Pool of workers drains
// the queue and runs each job through the Handler.
package thumbnails

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/imaging"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
)

// Widths are rendered in this order, one after another.
var Widths = []int{500, 250, 100}

var (
	ErrMissingFileID = errors.New("missing fileId")
	ErrMissingUserID = errors.New("missing userId")
	ErrFileNotFound  = errors.New("file not found")
)

// Producer accepts thumbnail jobs. queue.Queue satisfies it.
type Producer interface {
	Enqueue(ctx context.Context, job models.ThumbnailJob) error
}

// IsFatal reports whether retrying the job cannot succeed.
func IsFatal(err error) bool {
	return errors.Is(err, ErrMissingFileID) ||
		errors.Is(err, ErrMissingUserID) ||
		errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, imaging.ErrUndecodable)
}

type Handler struct {
	files  files.Repository
	blobs  blobstore.Store
	logger logging.Logger

	// SkipExisting leaves derivatives that are already stored untouched.
	SkipExisting bool
}

func NewHandler(files files.Repository, blobs blobstore.Store, logger logging.Logger) *Handler {
	return &Handler{files: files, blobs: blobs, logger: logger}
}

// Handle writes every derivative of the image named by job and returns how
// many were written. Records that are not images are left alone.
//
// The first failing width fails the job. Derivatives written before it stay
// in place and are overwritten when the job is retried.
func (h *Handler) Handle(ctx context.Context, job models.ThumbnailJob) (int, error) {
	if job.FileID == "" {
		return 0, ErrMissingFileID
	}
	if job.UserID == "" {
		return 0, ErrMissingUserID
	}

	file, err := h.files.GetOwned(ctx, job.FileID, job.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		return 0, ErrFileNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load file: %w", err)
	}
	if file.Kind != models.KindImage {
		return 0, nil
	}

	original, err := h.blobs.Get(ctx, file.ContentRef)
	if err != nil {
		return 0, fmt.Errorf("load original: %w", err)
	}

	written := 0
	for _, width := range Widths {
		ref := blobstore.DerivativeRef(file.ContentRef, width)

		if h.SkipExisting {
			exists, err := h.blobs.Exists(ctx, ref)
			if err != nil {
				return written, fmt.Errorf("check %d: %w", width, err)
			}
			if exists {
				continue
			}
		}

		thumb, err := imaging.Resize(original, width)
		if err != nil {
			return written, fmt.Errorf("resize to %d: %w", width, err)
		}
		if err := h.blobs.Put(ctx, ref, thumb); err != nil {
			return written, fmt.Errorf("store %d: %w", width, err)
		}
		written++
		h.logger.Debug(ctx, "derivative written", "file_id", file.ID, "width", width)
	}
	return written, nil
}
