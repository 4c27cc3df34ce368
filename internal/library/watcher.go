package library

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// EventCallback is called after a watcher-driven catalog change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, path string)

// WatchAll runs one watcher per cataloged folder until ctx is cancelled.
// Folders whose path no longer exists are skipped and marked absent.
func (s *Service) WatchAll(ctx context.Context, cb EventCallback) error {
	folders, err := s.repo.ListFolders(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, folder := range folders {
		if _, statErr := os.Stat(folder.Path); statErr != nil {
			if s.logger != nil {
				s.logger.Warn("skipping watch of missing folder", "path", folder.Path)
			}
			_ = s.repo.UpdateFolderPresent(ctx, folder.ID, false)
			continue
		}
		id := folder.ID
		g.Go(func() error {
			return s.Watch(gctx, id, cb)
		})
	}
	return g.Wait()
}

// Watch starts an fsnotify watcher on a cataloged folder and keeps its
// assets current until ctx is cancelled. New directories created at
// runtime are added to the watch list; renames are handled as a delete
// of the old path followed by the create event of the new one.
func (s *Service) Watch(ctx context.Context, folderID string, cb EventCallback) error {
	folder, err := s.repo.GetFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if folder == nil {
		return os.ErrNotExist
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, folder.Path); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("library watcher started", "folder_id", folderID, "root", folder.Path)
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("library watcher stopped", "folder_id", folderID)
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.handleEvent(ctx, w, folderID, ev, cb)

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if s.logger != nil {
				s.logger.Error("library watcher error", "error", watchErr)
			}
		}
	}
}

func (s *Service) handleEvent(ctx context.Context, w *fsnotify.Watcher, folderID string, ev fsnotify.Event, cb EventCallback) {
	path := ev.Name

	if ev.Op&fsnotify.Create != 0 {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			if addErr := addDirsRecursive(w, path); addErr != nil && s.logger != nil {
				s.logger.Warn("failed to watch new dir", "path", path, "error", addErr)
			}
			s.catalogNewDir(ctx, folderID, path, cb)
			return
		}
	}

	if AssetKind(path) == "" {
		return
	}

	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		if err := s.catalogFile(ctx, folderID, path); err != nil {
			if s.logger != nil {
				s.logger.Warn("watcher catalog failed", "path", path, "error", err)
			}
			return
		}
		kind := "updated"
		if ev.Op&fsnotify.Create != 0 {
			kind = "created"
		}
		if cb != nil {
			cb(kind, path)
		}

	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if err := s.repo.DeleteAssetByPath(ctx, folderID, path); err != nil {
			if s.logger != nil {
				s.logger.Warn("watcher delete failed", "path", path, "error", err)
			}
			return
		}
		if cb != nil {
			cb("deleted", path)
		}
	}
}

// catalogNewDir catalogs media files already present in a newly created
// directory, since their create events may have been missed.
func (s *Service) catalogNewDir(ctx context.Context, folderID, dirPath string, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || AssetKind(path) == "" {
			return nil
		}
		if catErr := s.catalogFile(ctx, folderID, path); catErr == nil && cb != nil {
			cb("created", path)
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
