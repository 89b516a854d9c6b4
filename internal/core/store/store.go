// Package store persists products for the prodrules host program.
//
// Only products are stored. Rules are declared in code (internal/catalog)
// and are never loaded from or written to the database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/solatis/prodrules/internal/core/db"
	"github.com/solatis/prodrules/internal/types"
)

// StoredProduct is a product together with its storage metadata.
type StoredProduct struct {
	ID        types.ProductID
	Product   *types.Product
	CreatedAt time.Time
	UpdatedAt time.Time
}

type productRow struct {
	ID        string         `db:"product_id"`
	Typeclass string         `db:"typeclass"`
	Part      sql.NullString `db:"part"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
}

type attributeRow struct {
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	Value     string `db:"value"`
}

// ProductStore reads and writes products through named queries.
type ProductStore struct {
	db      *sqlx.DB
	queries *db.Queries
	now     func() time.Time
}

// New creates a store. queries must be loaded from the same database.
func New(database *sqlx.DB, queries *db.Queries) *ProductStore {
	return &ProductStore{
		db:      database,
		queries: queries,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Save inserts p with a fresh ID. Product row and attributes are written in
// one transaction.
func (s *ProductStore) Save(ctx context.Context, p *types.Product) (types.ProductID, error) {
	if p.Typeclass() == "" {
		return "", types.ErrEmptyTypeclass
	}

	id := types.NewProductID()
	now := s.now().Format(time.RFC3339Nano)

	var part sql.NullString
	if p.HasPart() {
		part = sql.NullString{String: p.Part(), Valid: true}
	}

	err := s.inTx(ctx, func(q *db.Queries) error {
		if _, err := q.Exec(ctx, "insert-product", string(id), p.Typeclass(), part, now, now); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return insertAttributes(ctx, q, id, p)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Replace overwrites the attributes of an existing product with those of p.
// Typeclass and part are immutable and are not rewritten.
func (s *ProductStore) Replace(ctx context.Context, id types.ProductID, p *types.Product) error {
	return s.inTx(ctx, func(q *db.Queries) error {
		res, err := q.Exec(ctx, "touch-product", s.now().Format(time.RFC3339Nano), string(id))
		if err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", types.ErrProductNotFound, id)
		}
		if _, err := q.Exec(ctx, "delete-attributes", string(id)); err != nil {
			return fmt.Errorf("delete attributes: %w", err)
		}
		return insertAttributes(ctx, q, id, p)
	})
}

// Get loads one product.
func (s *ProductStore) Get(ctx context.Context, id types.ProductID) (*StoredProduct, error) {
	var row productRow
	if err := s.queries.Get(ctx, "get-product", &row, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", types.ErrProductNotFound, id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	var attrs []attributeRow
	if err := s.queries.Select(ctx, "list-attributes", &attrs, string(id)); err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}

	sp, err := row.toStored()
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		sp.Product.Set(a.Name, a.Value)
	}
	return sp, nil
}

// List returns products ordered by ID. An empty typeclass lists all products.
func (s *ProductStore) List(ctx context.Context, typeclass string) ([]*StoredProduct, error) {
	var (
		rows  []productRow
		attrs []attributeRow
		err   error
	)
	if typeclass == "" {
		err = s.queries.Select(ctx, "list-products", &rows)
		if err == nil {
			err = s.queries.Select(ctx, "list-all-attributes", &attrs)
		}
	} else {
		err = s.queries.Select(ctx, "list-products-by-typeclass", &rows, typeclass)
		if err == nil {
			err = s.queries.Select(ctx, "list-attributes-by-typeclass", &attrs, typeclass)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	out := make([]*StoredProduct, 0, len(rows))
	byID := make(map[string]*types.Product, len(rows))
	for _, row := range rows {
		sp, err := row.toStored()
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
		byID[row.ID] = sp.Product
	}
	for _, a := range attrs {
		if p, ok := byID[a.ProductID]; ok {
			p.Set(a.Name, a.Value)
		}
	}
	return out, nil
}

func (s *ProductStore) inTx(ctx context.Context, fn func(q *db.Queries) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(s.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertAttributes(ctx context.Context, q *db.Queries, id types.ProductID, p *types.Product) error {
	attrs := p.Attributes()
	for _, k := range p.Keys() {
		if _, err := q.Exec(ctx, "insert-attribute", string(id), k, attrs[k]); err != nil {
			return fmt.Errorf("insert attribute %s: %w", k, err)
		}
	}
	return nil
}

func (r productRow) toStored() (*StoredProduct, error) {
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("product %s: created_at: %w", r.ID, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("product %s: updated_at: %w", r.ID, err)
	}

	var p *types.Product
	if r.Part.Valid {
		p = types.NewProductWithPart(r.Typeclass, r.Part.String)
	} else {
		p = types.NewProduct(r.Typeclass)
	}

	return &StoredProduct{
		ID:        types.ProductID(r.ID),
		Product:   p,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
