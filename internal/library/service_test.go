package library

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reelbeat/reelbeat-engine/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	repo := NewRepository(database.Conn())
	return database, repo
}

func TestService_AddFolder(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	tmpDir := t.TempDir()

	folder, err := svc.AddFolder(context.Background(), tmpDir, "Footage")
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}
	if folder.ID == "" {
		t.Error("folder.ID is empty")
	}
	if folder.Path != tmpDir {
		t.Errorf("folder.Path = %s, want %s", folder.Path, tmpDir)
	}

	// Adding the same path again returns the existing folder.
	again, err := svc.AddFolder(context.Background(), tmpDir, "Duplicate")
	if err != nil {
		t.Fatalf("AddFolder() second call error = %v", err)
	}
	if again.ID != folder.ID {
		t.Errorf("duplicate add created a new folder: %s vs %s", again.ID, folder.ID)
	}
}

func TestService_AddFolder_InvalidPath(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)

	if _, err := svc.AddFolder(context.Background(), "/nonexistent/path", "X"); err == nil {
		t.Error("AddFolder() should fail for a nonexistent path")
	}
}

func TestService_Scan(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "take.mp4"), []byte("fake video"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "cover.png"), []byte("fake image"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "song.wav"), []byte("fake audio"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not media"), 0644)

	hiddenDir := filepath.Join(tmpDir, ".cache")
	os.Mkdir(hiddenDir, 0755)
	os.WriteFile(filepath.Join(hiddenDir, "hidden.mp4"), []byte("hidden"), 0644)

	folder, err := svc.AddFolder(ctx, tmpDir, "Footage")
	if err != nil {
		t.Fatalf("AddFolder() error = %v", err)
	}

	count, err := svc.Scan(ctx, folder.ID)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Scan() cataloged %d assets, want 3", count)
	}

	videos, err := svc.GetAssets(ctx, KindVideo)
	if err != nil {
		t.Fatalf("GetAssets() error = %v", err)
	}
	if len(videos) != 1 || videos[0].Filename != "take.mp4" {
		t.Errorf("videos = %+v, want just take.mp4", videos)
	}

	all, _ := svc.GetFolderAssets(ctx, folder.ID)
	if len(all) != 3 {
		t.Errorf("folder assets = %d, want 3", len(all))
	}
	for _, a := range all {
		if a.Fingerprint == "" {
			t.Errorf("asset %s has no fingerprint", a.Filename)
		}
	}
}

func TestService_Scan_Rescan(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "take.mp4"), []byte("v1"), 0644)

	folder, _ := svc.AddFolder(ctx, tmpDir, "Footage")
	svc.Scan(ctx, folder.ID)

	os.WriteFile(filepath.Join(tmpDir, "take.mp4"), []byte("v2 longer content"), 0644)
	svc.Scan(ctx, folder.ID)

	count, _ := svc.CountAssets(ctx)
	if count != 1 {
		t.Errorf("rescan duplicated assets: count = %d, want 1", count)
	}
}

func TestService_RemoveFolder(t *testing.T) {
	database, repo := setupTestDB(t)
	defer database.Close()

	svc := NewService(repo, nil)
	ctx := context.Background()

	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, "take.mp4"), []byte("v"), 0644)

	folder, _ := svc.AddFolder(ctx, tmpDir, "Footage")
	svc.Scan(ctx, folder.ID)

	if err := svc.RemoveFolder(ctx, folder.ID); err != nil {
		t.Fatalf("RemoveFolder() error = %v", err)
	}

	count, _ := svc.CountAssets(ctx)
	if count != 0 {
		t.Errorf("assets remain after folder removal: %d", count)
	}
}

func TestAssetKind(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"video.mp4", KindVideo},
		{"video.MOV", KindVideo},
		{"cover.png", KindImage},
		{"cover.JPEG", KindImage},
		{"song.wav", KindAudio},
		{"song.mp3", KindAudio},
		{"document.pdf", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := AssetKind(tt.filename); got != tt.want {
				t.Errorf("AssetKind(%s) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
