package library

import (
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/kinopick/internal/domain"
)

// assetNamespace seeds name-based asset IDs so they survive rescans
var assetNamespace = uuid.MustParse("5b0f9d8e-6a0c-4f4e-9a39-2c7d3f1e8b21")

// DefaultInclude matches common photo and video files
var DefaultInclude = []string{
	"*.{jpg,jpeg,png,gif,heic,heif,webp,bmp,tif,tiff,raw,dng}",
	"*.{mp4,mov,m4v,mkv,avi,webm,3gp}",
}

// Options controls which files a Library exposes
type Options struct {
	Include       []string // Glob patterns matched against lowercase base names
	Match         string   // Optional fuzzy filter on file names
	Recursive     bool     // Descend into subdirectories (albums)
	IncludeHidden bool     // Expose dotfiles and dot-directories
}

// DefaultOptions returns recursive scanning of DefaultInclude
func DefaultOptions() Options {
	return Options{
		Include:   DefaultInclude,
		Recursive: true,
	}
}

// Library is a filesystem media library rooted at a directory.
// Files directly under the root form the root album ""; each first-level
// subdirectory is an album.
type Library struct {
	root     string
	opts     Options
	patterns []glob.Glob
	optsKey  string
	logger   *slog.Logger
}

var (
	_ domain.GroupedSource       = (*Library)(nil)
	_ domain.FingerprintedSource = (*Library)(nil)
)

// New opens a library rooted at root
func New(root string, opts Options, logger *slog.Logger) (*Library, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to access library root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotADirectory, abs)
	}

	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	patterns := make([]glob.Glob, 0, len(include))
	for _, p := range include {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", p, err)
		}
		patterns = append(patterns, g)
	}

	return &Library{
		root:     abs,
		opts:     opts,
		patterns: patterns,
		optsKey:  optionsKey(include, opts),
		logger:   logger,
	}, nil
}

// optionsKey hashes every option that changes which files a scan returns
func optionsKey(include []string, opts Options) string {
	h := sha256.New()
	for _, p := range include {
		fmt.Fprintf(h, "include=%s\x00", strings.ToLower(p))
	}
	fmt.Fprintf(h, "match=%s\x00recursive=%t\x00hidden=%t", opts.Match, opts.Recursive, opts.IncludeHidden)
	return hex.EncodeToString(h.Sum(nil)[:6])
}

// OptionsKey identifies the effective scan options. Two libraries over the
// same root with equal keys expose the same files.
func (l *Library) OptionsKey() string {
	return l.optsKey
}

// Root returns the absolute library root
func (l *Library) Root() string {
	return l.root
}

// Matches reports whether a file name is exposed by the library
func (l *Library) Matches(name string) bool {
	if !l.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return false
	}
	lower := strings.ToLower(name)
	matched := false
	for _, g := range l.patterns {
		if g.Match(lower) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	return l.opts.Match == "" || fuzzy.MatchFold(l.opts.Match, name)
}

// FetchAssets returns every asset in the library ordered by creation time
func (l *Library) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	assets, err := l.scan(ctx, "", false)
	if err != nil {
		return nil, err
	}
	SortAssets(assets, dir)
	l.logger.Debug("scanned library", "root", l.root, "count", len(assets))
	return assets, nil
}

// Albums returns the albums holding at least one asset, root album first
func (l *Library) Albums(ctx context.Context) ([]domain.Album, error) {
	assets, err := l.scan(ctx, "", false)
	if err != nil {
		return nil, err
	}
	return groupAlbums(assets), nil
}

// Album returns a source scoped to one album
func (l *Library) Album(name string) domain.AssetSource {
	return l.album(name)
}

func (l *Library) album(name string) *albumSource {
	return &albumSource{lib: l, name: name}
}

// Fingerprint returns the newest modification time (unix nanoseconds) of any
// directory or matched file under the root
func (l *Library) Fingerprint(ctx context.Context) (int64, error) {
	var newest int64
	err := l.walk(ctx, "", false, func(path string, d fs.DirEntry, info fs.FileInfo) {
		if ts := info.ModTime().UnixNano(); ts > newest {
			newest = ts
		}
	})
	if err != nil {
		return 0, err
	}
	return newest, nil
}

// scan collects assets; when scoped, only those of album
func (l *Library) scan(ctx context.Context, album string, scoped bool) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := l.walk(ctx, album, scoped, func(path string, d fs.DirEntry, info fs.FileInfo) {
		if d.IsDir() {
			return
		}
		assets = append(assets, l.newAsset(path, info))
	})
	return assets, err
}

// walk visits matched files and every directory below the root (excluding
// pruned ones), handing each its FileInfo
func (l *Library) walk(ctx context.Context, album string, scoped bool, visit func(string, fs.DirEntry, fs.FileInfo)) error {
	if scoped && album != "" {
		info, err := os.Stat(filepath.Join(l.root, album))
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%w: %s", domain.ErrAlbumNotFound, album)
		}
	}

	return filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable entries are skipped; an unreadable root is fatal
			if path == l.root {
				return err
			}
			l.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, _ := filepath.Rel(l.root, path)
		if d.IsDir() {
			if path != l.root && l.pruneDir(rel, d.Name(), album, scoped) {
				return filepath.SkipDir
			}
		} else {
			if !l.Matches(d.Name()) {
				return nil
			}
			if scoped && albumOf(rel) != album {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return nil // removed mid-walk
		}
		visit(path, d, info)
		return nil
	})
}

func (l *Library) pruneDir(rel, name, album string, scoped bool) bool {
	if !l.opts.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	if !l.opts.Recursive {
		return true
	}
	if scoped {
		// The root album never descends; other albums keep only their subtree
		return album == "" || albumOf(rel+string(filepath.Separator)) != album
	}
	return false
}

func (l *Library) newAsset(path string, info fs.FileInfo) domain.Asset {
	rel, _ := filepath.Rel(l.root, path)
	rel = filepath.ToSlash(rel)
	kind, ok := domain.KindFromExt(filepath.Ext(path))
	if !ok {
		kind = domain.KindPhoto
	}
	return domain.Asset{
		ID:        uuid.NewSHA1(assetNamespace, []byte(rel)).String(),
		Path:      path,
		Name:      info.Name(),
		Album:     albumOf(filepath.FromSlash(rel)),
		Kind:      kind,
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
	}
}

// albumOf returns the first path segment of a root-relative file path, or ""
// for files directly under the root
func albumOf(rel string) string {
	first, _, found := strings.Cut(rel, string(filepath.Separator))
	if !found {
		return ""
	}
	return first
}

// albumSource is a Library scoped to one album
type albumSource struct {
	lib  *Library
	name string
}

func (a *albumSource) FetchAssets(ctx context.Context, dir domain.SortDirection) ([]domain.Asset, error) {
	assets, err := a.lib.scan(ctx, a.name, true)
	if err != nil {
		return nil, err
	}
	SortAssets(assets, dir)
	a.lib.logger.Debug("scanned album", "album", a.name, "count", len(assets))
	return assets, nil
}

func (a *albumSource) Fingerprint(ctx context.Context) (int64, error) {
	return a.lib.Fingerprint(ctx)
}

// SortAssets orders assets by creation time in dir. Ties are broken by path
// ascending so the order is stable across scans.
func SortAssets(assets []domain.Asset, dir domain.SortDirection) {
	slices.SortStableFunc(assets, func(a, b domain.Asset) int {
		c := a.CreatedAt.Compare(b.CreatedAt)
		if dir == domain.SortDescending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.Path, b.Path)
	})
}

func groupAlbums(assets []domain.Asset) []domain.Album {
	counts := make(map[string]int)
	for _, a := range assets {
		counts[a.Album]++
	}
	albums := make([]domain.Album, 0, len(counts))
	for name, n := range counts {
		albums = append(albums, domain.Album{Name: name, Count: n})
	}
	// "" sorts first, which puts the root album ahead of named ones
	slices.SortFunc(albums, func(a, b domain.Album) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return albums
}
