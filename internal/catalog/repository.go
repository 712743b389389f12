// Package catalog keeps a local projection of the platform's product
// catalog, fed by the products/* and inventory_levels/update webhooks.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
)

var ErrProductNotFound = errors.New("product not found in catalog")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping catalog db: %w", err)
	}
	// modernc sqlite allows one writer at a time.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsDir string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsDir),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

// UpsertProduct replaces the product row and its variants wholesale.
// Webhooks deliver full product payloads, so partial merges are never
// needed.
func (r *Repository) UpsertProduct(ctx context.Context, p *domain.CatalogProduct) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert product: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (id, title, handle, status, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		     title = excluded.title,
		     handle = excluded.handle,
		     status = excluded.status,
		     updated_at = CURRENT_TIMESTAMP`,
		p.ID, p.Title, p.Handle, p.Status)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = ?`, p.ID); err != nil {
		return fmt.Errorf("clear variants: %w", err)
	}

	for _, v := range p.Variants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO variants (id, product_id, title, price, sku, inventory_item_id, inventory_quantity)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.ID, p.ID, v.Title, v.Price, v.SKU, v.InventoryItemID, v.InventoryQuantity)
		if err != nil {
			return fmt.Errorf("insert variant: %w", err)
		}
	}

	return tx.Commit()
}

// UpdateInventory applies an inventory_levels/update event. Unknown
// inventory items are ignored: the product webhook that introduces them
// may simply not have arrived yet.
func (r *Repository) UpdateInventory(ctx context.Context, inventoryItemID int64, available int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE variants SET inventory_quantity = ? WHERE inventory_item_id = ?`,
		available, inventoryItemID)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

// GetProductByHandle loads a projected product with its variants.
func (r *Repository) GetProductByHandle(ctx context.Context, handle string) (*domain.CatalogProduct, error) {
	var p domain.CatalogProduct
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, handle, status, updated_at FROM products WHERE handle = ?`,
		handle).Scan(&p.ID, &p.Title, &p.Handle, &p.Status, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by handle: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, price, sku, inventory_item_id, inventory_quantity
		 FROM variants WHERE product_id = ? ORDER BY id`,
		p.ID)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.CatalogVariant
		if err := rows.Scan(&v.ID, &v.Title, &v.Price, &v.SKU, &v.InventoryItemID, &v.InventoryQuantity); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		p.Variants = append(p.Variants, v)
	}
	return &p, rows.Err()
}

func (r *Repository) Close() error {
	return r.db.Close()
}
