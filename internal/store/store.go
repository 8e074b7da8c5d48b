package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/kinopick/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketAssets = []byte("assets")
	bucketMeta   = []byte("meta")
)

// AssetStore implements domain.AssetStore using BoltDB.
type AssetStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

var _ domain.AssetStore = (*AssetStore)(nil)

// Open opens the cache for one library root. An empty dir gives a
// memory-only store.
func Open(dir, root string) (*AssetStore, error) {
	if dir == "" {
		return &AssetStore{cache: make(map[string][]byte)}, nil
	}

	if root != "" {
		dir = filepath.Join(dir, hashRoot(root))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dbPath := filepath.Join(dir, "kinopick.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketAssets, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &AssetStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashRoot(root string) string {
	normalized := strings.TrimRight(filepath.Clean(root), string(filepath.Separator))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *AssetStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *AssetStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *AssetStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[string(bucket)+":"+key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *AssetStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Assets ===

func (s *AssetStore) GetAssets(key string) ([]domain.Asset, bool) {
	var assets []domain.Asset
	ok := s.get(bucketAssets, key, &assets)
	return assets, ok
}

// SaveAssets stores the list and its freshness stamp
func (s *AssetStore) SaveAssets(key string, assets []domain.Asset, stamp int64) error {
	if err := s.set(bucketAssets, key, assets); err != nil {
		return err
	}
	return s.set(bucketMeta, key, stamp)
}

// === Validation ===

func (s *AssetStore) IsValid(key string, stamp int64) bool {
	var stored int64
	if !s.get(bucketMeta, key, &stored) {
		return false
	}
	if _, ok := s.GetAssets(key); !ok {
		return false
	}
	return stored >= stamp
}

// === Invalidation ===

func (s *AssetStore) Invalidate(key string) {
	s.delete(bucketAssets, key)
	s.delete(bucketMeta, key)
}

func (s *AssetStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		// Recreate rather than delete under a cursor, which skips keys
		for _, bucket := range [][]byte{bucketAssets, bucketMeta} {
			if tx.Bucket(bucket) != nil {
				if err := tx.DeleteBucket(bucket); err != nil {
					return err
				}
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
