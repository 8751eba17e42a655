package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price TEXT NOT NULL,
  discount_percentage REAL,
  rating REAL,
  stock INTEGER,
  brand TEXT,
  category TEXT NOT NULL DEFAULT '',
  thumbnail TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  last_synced_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_products_title    ON products(LOWER(title));
`

const productColumns = `id, title, description, price, discount_percentage, rating, stock, brand,
  category, thumbnail, images_json, last_synced_at`

// productRow is the relational shape of domain.Product
type productRow struct {
	ID                 int             `db:"id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	Price              decimal.Decimal `db:"price"`
	DiscountPercentage sql.NullFloat64 `db:"discount_percentage"`
	Rating             sql.NullFloat64 `db:"rating"`
	Stock              sql.NullInt64   `db:"stock"`
	Brand              sql.NullString  `db:"brand"`
	Category           string          `db:"category"`
	Thumbnail          string          `db:"thumbnail"`
	ImagesJSON         string          `db:"images_json"`
	LastSyncedAt       int64           `db:"last_synced_at"`
}

// SQLiteStore implements domain.ProductStore on an embedded SQLite table.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens the database at path and ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// A single connection serializes writers; SQLite row writes stay atomic.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// === Reads ===

func (s *SQLiteStore) Products(ctx context.Context) ([]*domain.Product, error) {
	return s.selectProducts(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (s *SQLiteStore) ProductByID(ctx context.Context, id int) (*domain.Product, bool, error) {
	var row productRow
	err := s.db.GetContext(ctx, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	p, err := row.toDomain()
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s *SQLiteStore) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.selectProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE category = ? ORDER BY id`, category)
}

func (s *SQLiteStore) SearchProducts(ctx context.Context, query string) ([]*domain.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	return s.selectProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE LOWER(title) LIKE ? ESCAPE '\' ORDER BY id`, pattern)
}

func (s *SQLiteStore) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	return categories, err
}

func (s *SQLiteStore) selectProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	var rows []productRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		p, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode product %d: %w", row.ID, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// === Writes ===

const upsertProduct = `INSERT OR REPLACE INTO products(` + productColumns + `) VALUES (
  :id, :title, :description, :price, :discount_percentage, :rating, :stock, :brand,
  :category, :thumbnail, :images_json, :last_synced_at)`

func (s *SQLiteStore) SaveProducts(ctx context.Context, products []*domain.Product) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range products {
		row, err := newProductRow(p)
		if err != nil {
			return err
		}
		if _, err := tx.NamedExecContext(ctx, upsertProduct, row); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveProduct(ctx context.Context, product *domain.Product) error {
	row, err := newProductRow(product)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, upsertProduct, row)
	return err
}

func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	return err
}

// === Mapping ===

func newProductRow(p *domain.Product) (productRow, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return productRow{}, err
	}

	row := productRow{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Thumbnail:   p.Thumbnail,
		ImagesJSON:  string(imagesJSON),
	}
	if !p.LastSyncedAt.IsZero() {
		row.LastSyncedAt = p.LastSyncedAt.UnixMilli()
	}
	if p.DiscountPercentage != nil {
		row.DiscountPercentage = sql.NullFloat64{Float64: *p.DiscountPercentage, Valid: true}
	}
	if p.Rating != nil {
		row.Rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
	}
	if p.Stock != nil {
		row.Stock = sql.NullInt64{Int64: int64(*p.Stock), Valid: true}
	}
	if p.Brand != nil {
		row.Brand = sql.NullString{String: *p.Brand, Valid: true}
	}
	return row, nil
}

func (r productRow) toDomain() (*domain.Product, error) {
	p := &domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Thumbnail:   r.Thumbnail,
	}
	if r.ImagesJSON != "" {
		if err := json.Unmarshal([]byte(r.ImagesJSON), &p.Images); err != nil {
			return nil, err
		}
	}
	if len(p.Images) == 0 {
		p.Images = nil
	}
	if r.LastSyncedAt > 0 {
		p.LastSyncedAt = time.UnixMilli(r.LastSyncedAt)
	}
	if r.DiscountPercentage.Valid {
		v := r.DiscountPercentage.Float64
		p.DiscountPercentage = &v
	}
	if r.Rating.Valid {
		v := r.Rating.Float64
		p.Rating = &v
	}
	if r.Stock.Valid {
		v := int(r.Stock.Int64)
		p.Stock = &v
	}
	if r.Brand.Valid {
		v := r.Brand.String
		p.Brand = &v
	}
	return p, nil
}

// escapeLike escapes LIKE wildcards so the query matches literally
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
