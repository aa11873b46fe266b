// Package blobstore stores opaque content blobs by reference.
//
// A reference is a flat key. Image derivatives live next to the original
// under DerivativeRef(ref, width).
package blobstore

import (
	"context"
	"strconv"

	"github.com/google/uuid"
)

// Store keeps blobs by reference. Get on a missing reference returns
// common.ErrorNotFound. Put overwrites, so writing the same bytes twice
// leaves the same state. Exists checks presence without reading the blob.
type Store interface {
	Put(ctx context.Context, ref string, data []byte) error
	Get(ctx context.Context, ref string) ([]byte, error)
	Exists(ctx context.Context, ref string) (bool, error)
	Delete(ctx context.Context, ref string) error
}

// NewRef returns a fresh unique reference.
func NewRef() string {
	return uuid.NewString()
}

// DerivativeRef names the thumbnail of ref rendered at width.
func DerivativeRef(ref string, width int) string {
	return ref + "_" + strconv.Itoa(width)
}
