package products

import (
	"context"
	"strings"

	"sitemapgen/internal/config"
	"sitemapgen/pkg/models"
)

// Source lists the products that get a page on the site, in display order.
type Source interface {
	List(ctx context.Context) ([]models.Product, error)
}

// NewSource picks the database source when a products DB is configured and
// the catalogue API otherwise.
func NewSource(cfg *config.Config) (Source, error) {
	if strings.TrimSpace(cfg.ProductsDB) != "" {
		return OpenSQLSource(cfg.ProductsDB)
	}
	return NewAPISource(cfg.APIURL, cfg.UserAgent, cfg.HTTPTimeout), nil
}
