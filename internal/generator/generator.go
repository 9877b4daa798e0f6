package generator

import (
	"context"
	"fmt"
	"time"

	"sitemapgen/internal/config"
	"sitemapgen/internal/log"
	"sitemapgen/internal/products"
	"sitemapgen/internal/sitemap"
)

// Generator runs one Fetch -> Transform -> Serialize -> Write pass.
type Generator struct {
	Config *config.Config
	Source products.Source
	Robots *sitemap.RobotsFilter
	Now    func() time.Time
}

// Result summarises a completed run.
type Result struct {
	Products int
	Skipped  int
	Excluded int
	URLs     int
	Path     string
}

func New(cfg *config.Config, source products.Source, robots *sitemap.RobotsFilter) *Generator {
	return &Generator{Config: cfg, Source: source, Robots: robots, Now: time.Now}
}

// Run builds the sitemap and replaces the output file. Nothing is written
// unless every earlier step succeeded.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	logger := log.WithComponent("generator")

	list, err := g.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	logger.Info().Int("products", len(list)).Msg("fetched products")

	routes, skipped := sitemap.BuildRoutes(list)
	if skipped > 0 {
		logger.Warn().Int("skipped", skipped).Msg("products without slug left out of sitemap")
	}

	// Static routes are always listed; robots.txt only prunes product pages.
	static := len(sitemap.StaticRoutes)
	productRoutes, excluded := g.Robots.Apply(routes[static:])
	routes = append(routes[:static:static], productRoutes...)
	if excluded > 0 {
		logger.Info().Int("excluded", excluded).Msg("product pages disallowed by robots.txt left out of sitemap")
	}

	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	set := sitemap.NewURLSet(g.Config.BaseURL, routes, now())

	if err := sitemap.WriteFile(g.Config.OutputPath, set); err != nil {
		return nil, fmt.Errorf("write sitemap: %w", err)
	}
	logger.Info().
		Str("path", g.Config.OutputPath).
		Int("urls", len(set.URLs)).
		Msg("sitemap generated")

	return &Result{
		Products: len(list),
		Skipped:  skipped,
		Excluded: excluded,
		URLs:     len(set.URLs),
		Path:     g.Config.OutputPath,
	}, nil
}
