package library

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateFolder(ctx context.Context, f *Folder) error
	GetFolder(ctx context.Context, id string) (*Folder, error)
	GetFolderByPath(ctx context.Context, path string) (*Folder, error)
	ListFolders(ctx context.Context) ([]*Folder, error)
	DeleteFolder(ctx context.Context, id string) error
	UpdateFolderPresent(ctx context.Context, id string, present bool) error

	GetAsset(ctx context.Context, id string) (*Asset, error)
	GetAssetByPath(ctx context.Context, folderID, path string) (*Asset, error)
	ListAssets(ctx context.Context, kind string) ([]*Asset, error)
	ListAssetsByFolder(ctx context.Context, folderID string) ([]*Asset, error)
	UpsertAsset(ctx context.Context, a *Asset) error
	DeleteAsset(ctx context.Context, id string) error
	DeleteAssetByPath(ctx context.Context, folderID, path string) error
	DeleteAssetsByFolder(ctx context.Context, folderID string) error
	CountAssets(ctx context.Context) (int, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateFolder(ctx context.Context, f *Folder) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO folders (id, path, display_name, present, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.ID, f.Path, f.DisplayName, boolToInt(f.Present), f.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetFolder(ctx context.Context, id string) (*Folder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, present, created_at FROM folders WHERE id = ?
	`, id)
	return scanFolder(row)
}

func (r *SQLiteRepository) GetFolderByPath(ctx context.Context, path string) (*Folder, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, path, display_name, present, created_at FROM folders WHERE path = ?
	`, path)
	return scanFolder(row)
}

func scanFolder(row *sql.Row) (*Folder, error) {
	var f Folder
	var present int
	var createdAt string

	err := row.Scan(&f.ID, &f.Path, &f.DisplayName, &present, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f.Present = present == 1
	f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &f, nil
}

func (r *SQLiteRepository) ListFolders(ctx context.Context) ([]*Folder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, path, display_name, present, created_at FROM folders ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		var f Folder
		var present int
		var createdAt string
		if err := rows.Scan(&f.ID, &f.Path, &f.DisplayName, &present, &createdAt); err != nil {
			return nil, err
		}
		f.Present = present == 1
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		folders = append(folders, &f)
	}
	return folders, rows.Err()
}

func (r *SQLiteRepository) DeleteFolder(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) UpdateFolderPresent(ctx context.Context, id string, present bool) error {
	_, err := r.db.ExecContext(ctx, "UPDATE folders SET present = ? WHERE id = ?", boolToInt(present), id)
	return err
}

const assetColumns = "id, folder_id, path, filename, kind, size, mtime, fingerprint, created_at"

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assetColumns+` FROM assets WHERE id = ?
	`, id)
	return scanAsset(row)
}

func (r *SQLiteRepository) GetAssetByPath(ctx context.Context, folderID, path string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+assetColumns+` FROM assets WHERE folder_id = ? AND path = ?
	`, folderID, path)
	return scanAsset(row)
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	var mtime, createdAt string

	err := row.Scan(&a.ID, &a.FolderID, &a.Path, &a.Filename, &a.Kind, &a.Size, &mtime, &a.Fingerprint, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.Mtime, _ = time.Parse(time.RFC3339, mtime)
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// ListAssets returns all cataloged assets, optionally filtered by kind.
func (r *SQLiteRepository) ListAssets(ctx context.Context, kind string) ([]*Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets ORDER BY filename"
	args := []any{}
	if kind != "" {
		query = "SELECT " + assetColumns + " FROM assets WHERE kind = ? ORDER BY filename"
		args = append(args, kind)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *SQLiteRepository) ListAssetsByFolder(ctx context.Context, folderID string) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+assetColumns+` FROM assets WHERE folder_id = ? ORDER BY filename
	`, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAssets(rows)
}

func scanAssets(rows *sql.Rows) ([]*Asset, error) {
	var assets []*Asset
	for rows.Next() {
		var a Asset
		var mtime, createdAt string
		if err := rows.Scan(&a.ID, &a.FolderID, &a.Path, &a.Filename, &a.Kind, &a.Size, &mtime, &a.Fingerprint, &createdAt); err != nil {
			return nil, err
		}
		a.Mtime, _ = time.Parse(time.RFC3339, mtime)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func (r *SQLiteRepository) UpsertAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, folder_id, path, filename, kind, size, mtime, fingerprint, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder_id, path) DO UPDATE SET
			size = excluded.size,
			mtime = excluded.mtime,
			fingerprint = excluded.fingerprint
	`, a.ID, a.FolderID, a.Path, a.Filename, a.Kind, a.Size, a.Mtime.Format(time.RFC3339), a.Fingerprint, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

func (r *SQLiteRepository) DeleteAssetByPath(ctx context.Context, folderID, path string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE folder_id = ? AND path = ?", folderID, path)
	return err
}

func (r *SQLiteRepository) DeleteAssetsByFolder(ctx context.Context, folderID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM assets WHERE folder_id = ?", folderID)
	return err
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
