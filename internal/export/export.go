// Package export prints a finished pick for consumption by other programs.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Format is an output encoding for picked assets
type Format string

const (
	FormatPaths Format = "paths" // One absolute path per line
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
)

// Formats lists the supported formats in display order
var Formats = []Format{FormatPaths, FormatJSON, FormatTOML}

// ParseFormat accepts a format name in any case. Empty means paths.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPaths, nil
	case FormatPaths, FormatJSON, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want paths, json or toml)", s)
	}
}

// record is the exported shape of an asset
type record struct {
	ID        string    `json:"id" toml:"id"`
	Path      string    `json:"path" toml:"path"`
	Name      string    `json:"name" toml:"name"`
	Album     string    `json:"album,omitempty" toml:"album,omitempty"`
	Kind      string    `json:"kind" toml:"kind"`
	Size      int64     `json:"size" toml:"size"`
	CreatedAt time.Time `json:"created_at" toml:"created_at"`
}

type tomlDocument struct {
	Asset []record `toml:"asset"`
}

func toRecords(assets []domain.Asset) []record {
	records := make([]record, len(assets))
	for i, a := range assets {
		records[i] = record{
			ID:        a.ID,
			Path:      a.Path,
			Name:      a.Name,
			Album:     a.Album,
			Kind:      a.Kind.String(),
			Size:      a.Size,
			CreatedAt: a.CreatedAt,
		}
	}
	return records
}

// Write encodes assets to w in pick order
func Write(w io.Writer, format Format, assets []domain.Asset) error {
	switch format {
	case FormatPaths, "":
		for _, a := range assets {
			if _, err := fmt.Fprintln(w, a.Path); err != nil {
				return fmt.Errorf("write paths: %w", err)
			}
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(toRecords(assets)); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil

	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(tomlDocument{Asset: toRecords(assets)}); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
