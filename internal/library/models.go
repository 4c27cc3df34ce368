// Package library catalogs local media folders: scanning them for usable
// assets (video, image, audio) and keeping the catalog current through a
// filesystem watcher.
package library

import (
	"path/filepath"
	"strings"
	"time"
)

// Folder is one watched media directory.
type Folder struct {
	ID          string    `json:"id"`
	Path        string    `json:"path"`
	DisplayName string    `json:"display_name"`
	Present     bool      `json:"present"`
	CreatedAt   time.Time `json:"created_at"`
}

// Asset kinds mirror the clip types they can be dropped onto a timeline as.
const (
	KindVideo = "video"
	KindImage = "image"
	KindAudio = "audio"
)

// Asset is one cataloged media file.
type Asset struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folder_id"`
	Path        string    `json:"path"`
	Filename    string    `json:"filename"`
	Kind        string    `json:"kind"`
	Size        int64     `json:"size"`
	Mtime       time.Time `json:"mtime"`
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

var extensionKinds = map[string]string{
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".webm": KindVideo,
	".png":  KindImage,
	".jpg":  KindImage,
	".jpeg": KindImage,
	".gif":  KindImage,
	".webp": KindImage,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".flac": KindAudio,
	".ogg":  KindAudio,
}

// AssetKind classifies a filename by extension. The empty string means
// the file is not a usable media asset.
func AssetKind(filename string) string {
	return extensionKinds[strings.ToLower(filepath.Ext(filename))]
}
