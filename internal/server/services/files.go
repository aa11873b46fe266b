package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path"
	"strconv"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/metrics"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	"github.com/google/uuid"
)

// PageSize is the number of records returned by one List call.
const PageSize = 20

const defaultMimeType = "application/octet-stream"

// CreateFileRequest describes a new record. ParentID is "" or "0" for the
// root. Data is base64 and required for everything but folders.
type CreateFileRequest struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     string
}

// Content is the payload served for a file or one of its thumbnails.
type Content struct {
	Name     string
	MimeType string
	Data     []byte
}

// FileService manages file metadata and content. Every operation except
// ReadContent requires a valid session token.
type FileService struct {
	auth     *AuthService
	files    files.Repository
	blobs    blobstore.Store
	producer thumbnails.Producer
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewFileService(
	auth *AuthService,
	files files.Repository,
	blobs blobstore.Store,
	producer thumbnails.Producer,
	m *metrics.Metrics,
	logger logging.Logger,
) *FileService {
	return &FileService{auth: auth, files: files, blobs: blobs, producer: producer, metrics: m, logger: logger}
}

// Create validates req and stores a new record owned by the token's user.
//
// The blob is written before the record. Image uploads enqueue a thumbnail
// job; a failed enqueue is logged and counted but does not fail the upload.
// The parent folder is looked up by id only, so it may belong to another user.
func (s *FileService) Create(ctx context.Context, token string, req CreateFileRequest) (*models.File, error) {
	user, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, common.ErrMissingName
	}
	kind, ok := models.ParseFileKind(req.Type)
	if !ok {
		return nil, common.ErrMissingType
	}

	var data []byte
	if kind.HasContent() {
		data, err = decodeData(req.Data)
		if err != nil || len(data) == 0 {
			return nil, common.ErrMissingData
		}
	}

	parent := models.RootParent()
	if !isRootID(req.ParentID) {
		parent, err = s.lookupParent(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
	}

	file := &models.File{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Name:     req.Name,
		Kind:     kind,
		IsPublic: req.IsPublic,
		Parent:   parent,
	}

	if kind.HasContent() {
		file.ContentRef = blobstore.NewRef()
		if err := s.blobs.Put(ctx, file.ContentRef, data); err != nil {
			return nil, fmt.Errorf("error storing content: %w", err)
		}
	}

	created, err := s.files.Create(ctx, file)
	if err != nil {
		if file.ContentRef != "" {
			if delErr := s.blobs.Delete(ctx, file.ContentRef); delErr != nil {
				s.logger.Warn(ctx, "orphan blob left behind", "ref", file.ContentRef, "error", delErr)
			}
		}
		return nil, fmt.Errorf("error creating file: %w", err)
	}
	s.metrics.Uploaded(string(kind))

	if kind == models.KindImage {
		job := models.ThumbnailJob{FileID: created.ID, UserID: user.ID}
		if err := s.producer.Enqueue(ctx, job); err != nil {
			s.metrics.EnqueueFailed()
			s.logger.Error(ctx, "failed to enqueue thumbnail job", "file_id", created.ID, "error", err)
		}
	}

	return created, nil
}

func decodeData(data string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.RawStdEncoding.DecodeString(data)
}

func isRootID(id string) bool {
	return id == "" || id == "0"
}

// canonicalID returns the lower-case hyphenated form of a uuid. uuid.Parse
// also accepts urn, braced and upper-case spellings, which the stores would
// not match.
func canonicalID(id string) (string, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func (s *FileService) lookupParent(ctx context.Context, raw string) (models.ParentRef, error) {
	id, ok := canonicalID(raw)
	if !ok {
		return models.ParentRef{}, common.ErrParentNotFound
	}

	parent, err := s.files.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.ParentRef{}, common.ErrParentNotFound
		}
		return models.ParentRef{}, fmt.Errorf("error loading parent: %w", err)
	}
	if parent.Kind != models.KindFolder {
		return models.ParentRef{}, common.ErrParentNotAFolder
	}
	return models.FolderParent(parent.ID), nil
}

// Get returns the record if the token's user owns it.
func (s *FileService) Get(ctx context.Context, token, fileID string) (*models.File, error) {
	userID, err := s.auth.UserID(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.owned(ctx, fileID, userID)
}

func (s *FileService) owned(ctx context.Context, rawID, userID string) (*models.File, error) {
	fileID, ok := canonicalID(rawID)
	if !ok {
		return nil, common.ErrorNotFound
	}
	file, err := s.files.GetOwned(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading file: %w", err)
	}
	return file, nil
}

// List returns one page of the user's records under parentID, oldest first.
// A malformed parentID yields an empty page; a negative page is page 0.
func (s *FileService) List(ctx context.Context, token, parentID string, page int) ([]*models.File, error) {
	userID, err := s.auth.UserID(ctx, token)
	if err != nil {
		return nil, err
	}

	parent := models.RootParent()
	if !isRootID(parentID) {
		id, ok := canonicalID(parentID)
		if !ok {
			return []*models.File{}, nil
		}
		parent = models.FolderParent(id)
	}
	if page < 0 {
		page = 0
	}

	list, err := s.files.List(ctx, userID, parent, page*PageSize, PageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	if list == nil {
		list = []*models.File{}
	}
	return list, nil
}

// ParsePage turns a query value into a page number; anything unparsable is 0.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SetVisibility publishes or unpublishes a record owned by the token's user
// and returns the updated record.
func (s *FileService) SetVisibility(ctx context.Context, token, rawID string, isPublic bool) (*models.File, error) {
	userID, err := s.auth.UserID(ctx, token)
	if err != nil {
		return nil, err
	}
	fileID, ok := canonicalID(rawID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	file, err := s.files.SetPublic(ctx, fileID, userID, isPublic)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error updating file: %w", err)
	}
	return file, nil
}

// thumbnailSizes are the size values ReadContent maps to a derivative.
var thumbnailSizes = map[string]int{"100": 100, "250": 250, "500": 500}

// ReadContent returns the bytes of a file, or of its thumbnail when size is
// one of 100, 250 or 500. Other size values are ignored.
//
// Public records are readable by anyone. A private record is reported as
// ErrorNotFound unless token belongs to its owner.
func (s *FileService) ReadContent(ctx context.Context, token, rawID, size string) (*Content, error) {
	fileID, ok := canonicalID(rawID)
	if !ok {
		return nil, common.ErrorNotFound
	}

	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading file: %w", err)
	}

	if !file.IsPublic {
		if token == "" {
			return nil, common.ErrorNotFound
		}
		userID, err := s.auth.UserID(ctx, token)
		if err != nil || !file.OwnedBy(userID) {
			return nil, common.ErrorNotFound
		}
	}

	if file.Kind == models.KindFolder {
		return nil, common.ErrNotAFile
	}
	if file.ContentRef == "" {
		return nil, common.ErrorNotFound
	}

	ref := file.ContentRef
	if width, ok := thumbnailSizes[size]; ok {
		ref = blobstore.DerivativeRef(ref, width)
	}

	data, err := s.blobs.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error reading content: %w", err)
	}

	return &Content{Name: file.Name, MimeType: MimeType(file.Name), Data: data}, nil
}

// MimeType guesses the content type from the extension of name.
func MimeType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return defaultMimeType
}
