package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgInvalidTextRepresentation = "22P02"

const selectColumns = `id, seq, user_id, name, kind, is_public, parent_id, content_ref, created_at`

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.File, error) {
	var (
		f          models.File
		kind       string
		parentID   sql.NullString
		contentRef sql.NullString
	)
	if err := s.Scan(&f.ID, &f.Seq, &f.UserID, &f.Name, &kind, &f.IsPublic, &parentID, &contentRef, &f.CreatedAt); err != nil {
		return nil, err
	}
	f.Kind = models.FileKind(kind)
	if parentID.Valid {
		f.Parent = models.FolderParent(parentID.String)
	}
	f.ContentRef = contentRef.String
	return &f, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (id, user_id, name, kind, is_public, parent_id, content_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		file.ID, file.UserID, file.Name, string(file.Kind), file.IsPublic,
		nullable(file.Parent.FolderID()), nullable(file.ContentRef),
	).Scan(&file.Seq, &file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id = $1`
	return r.getOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetOwned(ctx context.Context, id, userID string) (*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id = $1 AND user_id = $2`
	return r.getOne(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) getOne(row *sql.Row) (*models.File, error) {
	f, err := scanFile(row)
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// List returns a page of the user's records under parent. The root is
// matched with IS NOT DISTINCT FROM so a NULL parent_id compares equal.
func (r *PostgresRepository) List(ctx context.Context, userID string, parent models.ParentRef, offset, limit int) ([]*models.File, error) {
	query := `SELECT ` + selectColumns + ` FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2
		ORDER BY seq
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, userID, nullable(parent.FolderID()), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0, limit)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetPublic flips the visibility of an owned record in a single statement and
// returns the updated row.
func (r *PostgresRepository) SetPublic(ctx context.Context, id, userID string, isPublic bool) (*models.File, error) {
	query := `UPDATE files SET is_public = $3 WHERE id = $1 AND user_id = $2
		RETURNING ` + selectColumns
	return r.getOne(r.db.QueryRowContext(ctx, query, id, userID, isPublic))
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}
