package domain

import (
	"fmt"
	"strings"
	"time"
)

// AssetKind distinguishes photos from videos
type AssetKind int

const (
	KindPhoto AssetKind = iota
	KindVideo
)

// String returns the lowercase name of the kind
func (k AssetKind) String() string {
	switch k {
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Asset is one pickable media item. Identity is the ID alone.
type Asset struct {
	ID        string    `json:"id"`         // Stable identifier, survives rescans
	Path      string    `json:"path"`       // Absolute file path
	Name      string    `json:"name"`       // Base file name
	Album     string    `json:"album"`      // Grouping; "" is the root album
	Kind      AssetKind `json:"kind"`       // Photo or video
	Size      int64     `json:"size"`       // File size in bytes
	CreatedAt time.Time `json:"created_at"` // Chronological ordering key
}

// Same reports whether a and other refer to the same item
func (a Asset) Same(other Asset) bool {
	return a.ID == other.ID
}

// FormattedSize returns the file size in a human-readable format
func (a Asset) FormattedSize() string {
	const (
		gb = 1024 * 1024 * 1024
		mb = 1024 * 1024
		kb = 1024
	)
	switch {
	case a.Size <= 0:
		return ""
	case a.Size >= gb:
		return fmt.Sprintf("%.1f GB", float64(a.Size)/float64(gb))
	case a.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/float64(mb))
	default:
		return fmt.Sprintf("%d KB", (a.Size+kb-1)/kb)
	}
}

// Album is an optional grouping of assets (a subdirectory of the library root)
type Album struct {
	Name  string
	Count int
}

// DisplayName returns the album label for display
func (a Album) DisplayName() string {
	if a.Name == "" {
		return "(root)"
	}
	return a.Name
}

// IndexOf returns the position of asset in assets by identity, or -1
func IndexOf(assets []Asset, asset Asset) int {
	for i := range assets {
		if assets[i].Same(asset) {
			return i
		}
	}
	return -1
}

// KindFromExt maps a file extension (with or without the dot) to an asset kind
func KindFromExt(ext string) (AssetKind, bool) {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "jpg", "jpeg", "png", "gif", "heic", "heif", "webp", "bmp", "tif", "tiff", "raw", "dng":
		return KindPhoto, true
	case "mp4", "mov", "m4v", "mkv", "avi", "webm", "3gp":
		return KindVideo, true
	default:
		return 0, false
	}
}
