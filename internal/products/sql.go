package products

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v4/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"            // registers "sqlite"

	"sitemapgen/pkg/models"
)

const listSlugsQuery = `SELECT COALESCE(slug, '') FROM products ORDER BY id`

// SQLSource reads product slugs straight from the catalogue database.
type SQLSource struct {
	db *sql.DB
}

func NewSQLSource(db *sql.DB) *SQLSource {
	return &SQLSource{db: db}
}

// OpenSQLSource opens a database from a URL. postgres:// and postgresql://
// go through pgx; sqlite:// and file: go through the pure-Go sqlite driver.
func OpenSQLSource(dsn string) (*SQLSource, error) {
	driver, conn, err := driverFor(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, conn)
	if err != nil {
		return nil, fmt.Errorf("open products db: %w", err)
	}
	return &SQLSource{db: db}, nil
}

func driverFor(dsn string) (driver, conn string, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "pgx", dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://"), nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported products db url %q", dsn)
	}
}

func (s *SQLSource) List(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, listSlugsQuery)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	list := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.Slug); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return list, nil
}

func (s *SQLSource) Close() error {
	return s.db.Close()
}
