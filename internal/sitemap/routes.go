package sitemap

import (
	"net/url"
	"strings"

	"sitemapgen/pkg/models"
)

type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

const (
	StaticPriority  = 0.8
	ProductPriority = 0.7
)

// StaticRoutes are the hand-maintained site pages, in sitemap order.
// The empty path is the site root.
var StaticRoutes = []string{"", "about", "products", "calibration", "contact", "news", "cart", "collection"}

// Route is a site-relative page entry.
type Route struct {
	Path       string
	Priority   float64
	ChangeFreq ChangeFreq
}

// BuildRoutes returns the static routes followed by one product/<slug> route
// per product, keeping API order. Products without a slug are skipped and
// counted.
func BuildRoutes(products []models.Product) (routes []Route, skipped int) {
	routes = make([]Route, 0, len(StaticRoutes)+len(products))
	for _, path := range StaticRoutes {
		routes = append(routes, Route{Path: path, Priority: StaticPriority, ChangeFreq: Weekly})
	}
	for _, p := range products {
		slug := strings.TrimSpace(p.Slug)
		if slug == "" {
			skipped++
			continue
		}
		routes = append(routes, Route{
			Path:       "product/" + url.PathEscape(slug),
			Priority:   ProductPriority,
			ChangeFreq: Weekly,
		})
	}
	return routes, skipped
}

// Loc resolves a route path against the site root.
func Loc(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
