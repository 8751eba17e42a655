package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/shelf/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var bucketProducts = []byte("products")

// BoltStore implements domain.ProductStore using BoltDB.
// With an empty path it runs memory-only (no persistence).
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory rows

	// Memory-only rows, keyed by product ID
	rows map[int][]byte
}

// NewBoltStore opens (or creates) the bolt file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{rows: make(map[int][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketProducts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// itob encodes an ID big-endian so bolt's key order matches ID order
func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// === Generic helpers ===

// scan decodes every stored product accepted by keep, in ID order
func (s *BoltStore) scan(keep func(*domain.Product) bool) ([]*domain.Product, error) {
	var out []*domain.Product
	decode := func(v []byte) error {
		var p domain.Product
		if err := json.Unmarshal(v, &p); err != nil {
			return err
		}
		if keep == nil || keep(&p) {
			out = append(out, &p)
		}
		return nil
	}

	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()

		ids := make([]int, 0, len(s.rows))
		for id := range s.rows {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if err := decode(s.rows[id]); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			return decode(v)
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) put(products []*domain.Product) error {
	encoded := make(map[int][]byte, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		encoded[p.ID] = data
	}

	if s.db == nil {
		s.mu.Lock()
		for id, data := range encoded {
			s.rows[id] = data
		}
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		for id, data := range encoded {
			if err := b.Put(itob(id), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Reads ===

func (s *BoltStore) Products(ctx context.Context) ([]*domain.Product, error) {
	return s.scan(nil)
}

func (s *BoltStore) ProductByID(ctx context.Context, id int) (*domain.Product, bool, error) {
	var data []byte

	if s.db == nil {
		s.mu.RLock()
		data = s.rows[id]
		s.mu.RUnlock()
	} else {
		err := s.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketProducts).Get(itob(id)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if err != nil {
			return nil, false, err
		}
	}

	if data == nil {
		return nil, false, nil
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (s *BoltStore) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.scan(func(p *domain.Product) bool {
		return p.Category == category
	})
}

func (s *BoltStore) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	needle := strings.ToLower(query)
	return s.scan(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), needle)
	})
}

func (s *BoltStore) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	_, err := s.scan(func(p *domain.Product) bool {
		if p.Category != "" {
			seen[p.Category] = true
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// === Writes ===

func (s *BoltStore) SaveProducts(ctx context.Context, products []*domain.Product) error {
	return s.put(products)
}

func (s *BoltStore) SaveProduct(ctx context.Context, product *domain.Product) error {
	return s.put([]*domain.Product{product})
}

func (s *BoltStore) DeleteAll(ctx context.Context) error {
	if s.db == nil {
		s.mu.Lock()
		s.rows = make(map[int][]byte)
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProducts)
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
