package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"realty-calc/domain"
)

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ComparableRepositorySQLite persists saved comparables in SQLite.
// Decimal columns are stored as text to keep exact values.
type ComparableRepositorySQLite struct {
	db *sql.DB
}

func OpenComparableRepositorySQLite(path string) (*ComparableRepositorySQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	r := &ComparableRepositorySQLite{db: db}
	if err := r.EnsureSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return r, nil
}

func (r *ComparableRepositorySQLite) Close() error { return r.db.Close() }

func (r *ComparableRepositorySQLite) EnsureSchema() error {
	const createTable = `
CREATE TABLE IF NOT EXISTS comparables (
  id TEXT PRIMARY KEY,
  location TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  sale_price TEXT NOT NULL,
  square_footage TEXT NOT NULL,
  bedrooms INTEGER NOT NULL,
  bathrooms TEXT NOT NULL,
  sale_date TEXT,
  distance_miles TEXT,
  adjustment TEXT NOT NULL DEFAULT '0',
  created_at TEXT NOT NULL
);
`
	if _, err := r.db.Exec(createTable); err != nil {
		return err
	}
	if _, err := r.db.Exec(`CREATE INDEX IF NOT EXISTS idx_comparables_location ON comparables(location);`); err != nil {
		return err
	}
	return nil
}

func (r *ComparableRepositorySQLite) Save(ctx context.Context, c domain.SavedComparable) error {
	comp := c.Comparable

	var saleDate sql.NullString
	if !comp.SaleDate.IsZero() {
		saleDate = sql.NullString{String: comp.SaleDate.UTC().Format(timeLayout), Valid: true}
	}
	var distance sql.NullString
	if comp.DistanceMiles.Valid {
		distance = sql.NullString{String: comp.DistanceMiles.Decimal.String(), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
INSERT OR REPLACE INTO comparables
(id, location, address, sale_price, square_footage, bedrooms, bathrooms, sale_date, distance_miles, adjustment, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		c.ID, c.Location, comp.Address, comp.SalePrice.String(), comp.SquareFootage.String(),
		comp.Bedrooms, comp.Bathrooms.String(), saleDate, distance, comp.Adjustment.String(),
		c.CreatedAt.UTC().Format(timeLayout),
	)
	return err
}

func (r *ComparableRepositorySQLite) List(ctx context.Context, location string) ([]domain.SavedComparable, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, location, address, sale_price, square_footage, bedrooms, bathrooms, sale_date, distance_miles, adjustment, created_at
FROM comparables
WHERE ? = '' OR location = ?
ORDER BY created_at, id
`, location, location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.SavedComparable{}
	for rows.Next() {
		c, err := scanComparable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ComparableRepositorySQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comparables WHERE id = ?`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return ErrComparableNotFound
	}
	return nil
}

func scanComparable(rows *sql.Rows) (domain.SavedComparable, error) {
	var (
		c                                         domain.SavedComparable
		price, sqft, baths, adjustment, createdAt string
		saleDate, distance                        sql.NullString
	)
	if err := rows.Scan(
		&c.ID, &c.Location, &c.Comparable.Address, &price, &sqft, &c.Comparable.Bedrooms,
		&baths, &saleDate, &distance, &adjustment, &createdAt,
	); err != nil {
		return c, err
	}

	var err error
	if c.Comparable.SalePrice, err = decimal.NewFromString(price); err != nil {
		return c, fmt.Errorf("comparable %s sale_price: %w", c.ID, err)
	}
	if c.Comparable.SquareFootage, err = decimal.NewFromString(sqft); err != nil {
		return c, fmt.Errorf("comparable %s square_footage: %w", c.ID, err)
	}
	if c.Comparable.Bathrooms, err = decimal.NewFromString(baths); err != nil {
		return c, fmt.Errorf("comparable %s bathrooms: %w", c.ID, err)
	}
	if c.Comparable.Adjustment, err = decimal.NewFromString(adjustment); err != nil {
		return c, fmt.Errorf("comparable %s adjustment: %w", c.ID, err)
	}
	if distance.Valid {
		dist, err := decimal.NewFromString(distance.String)
		if err != nil {
			return c, fmt.Errorf("comparable %s distance_miles: %w", c.ID, err)
		}
		c.Comparable.DistanceMiles = decimal.NewNullDecimal(dist)
	}
	if saleDate.Valid {
		if c.Comparable.SaleDate, err = time.Parse(timeLayout, saleDate.String); err != nil {
			return c, fmt.Errorf("comparable %s sale_date: %w", c.ID, err)
		}
	}
	if c.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return c, fmt.Errorf("comparable %s created_at: %w", c.ID, err)
	}
	return c, nil
}
