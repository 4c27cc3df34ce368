package library

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelbeat/reelbeat-engine/internal/timeline"
)

const fingerprintSize = 64 * 1024

type LibraryService interface {
	AddFolder(ctx context.Context, path, displayName string) (*Folder, error)
	RemoveFolder(ctx context.Context, id string) error
	GetFolders(ctx context.Context) ([]*Folder, error)
	GetFolder(ctx context.Context, id string) (*Folder, error)
	GetAssets(ctx context.Context, kind string) ([]*Asset, error)
	GetFolderAssets(ctx context.Context, folderID string) ([]*Asset, error)
	GetAsset(ctx context.Context, id string) (*Asset, error)
	CountAssets(ctx context.Context) (int, error)
	Scan(ctx context.Context, folderID string) (int, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) AddFolder(ctx context.Context, path, displayName string) (*Folder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory")
	}

	existing, err := s.repo.GetFolderByPath(ctx, absPath)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	if displayName == "" {
		displayName = filepath.Base(absPath)
	}

	folder := &Folder{
		ID:          timeline.NewID(),
		Path:        absPath,
		DisplayName: displayName,
		Present:     true,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("media folder added", "folder_id", folder.ID, "path", absPath)
	}
	return folder, nil
}

func (s *Service) RemoveFolder(ctx context.Context, id string) error {
	if err := s.repo.DeleteAssetsByFolder(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteFolder(ctx, id)
}

func (s *Service) GetFolders(ctx context.Context) ([]*Folder, error) {
	return s.repo.ListFolders(ctx)
}

func (s *Service) GetFolder(ctx context.Context, id string) (*Folder, error) {
	return s.repo.GetFolder(ctx, id)
}

func (s *Service) GetAssets(ctx context.Context, kind string) ([]*Asset, error) {
	return s.repo.ListAssets(ctx, kind)
}

func (s *Service) GetFolderAssets(ctx context.Context, folderID string) ([]*Asset, error) {
	return s.repo.ListAssetsByFolder(ctx, folderID)
}

func (s *Service) GetAsset(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) CountAssets(ctx context.Context) (int, error) {
	return s.repo.CountAssets(ctx)
}

// Scan walks a folder and upserts every recognized media file, returning
// the number of assets cataloged. Hidden directories are skipped; files
// that fail to fingerprint are logged and skipped.
func (s *Service) Scan(ctx context.Context, folderID string) (int, error) {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return 0, err
	}
	if folder == nil {
		return 0, fmt.Errorf("folder not found")
	}

	var paths []string
	err = filepath.WalkDir(folder.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && AssetKind(d.Name()) != "" {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		if err := s.catalogFile(ctx, folderID, p); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to catalog file", "path", p, "error", err)
			}
			continue
		}
		count++
	}

	if s.logger != nil {
		s.logger.Info("folder scanned", "folder_id", folderID, "assets", count)
	}
	return count, nil
}

func (s *Service) catalogFile(ctx context.Context, folderID, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fingerprint, err := computeFingerprint(path)
	if err != nil {
		return err
	}

	asset := &Asset{
		ID:          timeline.NewID(),
		FolderID:    folderID,
		Path:        path,
		Filename:    filepath.Base(path),
		Kind:        AssetKind(path),
		Size:        info.Size(),
		Mtime:       info.ModTime(),
		Fingerprint: fingerprint,
		CreatedAt:   time.Now(),
	}

	return s.repo.UpsertAsset(ctx, asset)
}

func computeFingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	lr := io.LimitReader(f, fingerprintSize)
	if _, err := io.Copy(h, lr); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
