package generator

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitemapgen/internal/config"
	"sitemapgen/internal/products"
	"sitemapgen/internal/sitemap"
	"sitemapgen/pkg/models"
)

type stubSource struct {
	list  []models.Product
	err   error
	calls int
}

func (s *stubSource) List(context.Context) ([]models.Product, error) {
	s.calls++
	return s.list, s.err
}

func newConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:    "https://tespametrology.com",
		OutputPath: filepath.Join(t.TempDir(), "public", "sitemap.xml"),
	}
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_EmptyCatalogue(t *testing.T) {
	cfg := newConfig(t)
	g := New(cfg, &stubSource{list: []models.Product{}}, nil)
	g.Now = fixedClock(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))

	res, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, res.URLs)
	out := readOutput(t, cfg.OutputPath)
	assert.Equal(t, 8, strings.Count(out, "<url>"))
	assert.NotContains(t, out, "/product/")
	assert.Equal(t, 8, strings.Count(out, "<lastmod>2026-10-17</lastmod>"))
	assert.Equal(t, 8, strings.Count(out, "<changefreq>weekly</changefreq>"))
	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
}

func TestRun_ProductEntries(t *testing.T) {
	cfg := newConfig(t)
	g := New(cfg, &stubSource{list: []models.Product{{Slug: "caliper-200"}, {}, {Slug: "bore-gauge"}}}, nil)

	res, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Products)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 10, res.URLs)

	f, err := os.Open(cfg.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	set, err := sitemap.Decode(f)
	require.NoError(t, err)

	for i, path := range sitemap.StaticRoutes {
		assert.Equal(t, sitemap.Loc(cfg.BaseURL, path), set.URLs[i].Loc)
		assert.Equal(t, "0.8", set.URLs[i].Priority)
	}
	assert.True(t, strings.HasSuffix(set.URLs[8].Loc, "/product/caliper-200"))
	assert.Equal(t, "0.7", set.URLs[8].Priority)
	assert.True(t, strings.HasSuffix(set.URLs[9].Loc, "/product/bore-gauge"))
}

func TestRun_LastModIsCurrentUTCDate(t *testing.T) {
	cfg := newConfig(t)
	g := New(cfg, &stubSource{list: []models.Product{{Slug: "caliper-200"}}}, nil)

	before := time.Now().UTC().Format(sitemap.DateLayout)
	_, err := g.Run(context.Background())
	require.NoError(t, err)
	after := time.Now().UTC().Format(sitemap.DateLayout)

	out := readOutput(t, cfg.OutputPath)
	ok := strings.Count(out, "<lastmod>"+before+"</lastmod>") == 9 ||
		strings.Count(out, "<lastmod>"+after+"</lastmod>") == 9
	assert.True(t, ok, "every lastmod should carry today's UTC date")
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	cfg := newConfig(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755))
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("previous"), 0o644))

	g := New(cfg, &stubSource{err: errors.New("connection refused")}, nil)
	_, err := g.Run(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch products")
	assert.Equal(t, "previous", readOutput(t, cfg.OutputPath))
}

func TestRun_APIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := newConfig(t)
	g := New(cfg, products.NewAPISource(srv.URL, "", time.Second), nil)
	_, err := g.Run(context.Background())

	assert.ErrorIs(t, err, products.ErrUnexpectedStatus)
	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no file should be written")
}

func TestRun_SameDayRunsAreByteIdentical(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[{"slug":"caliper-200"},{"slug":"height-gauge"}]}`))
	}))
	defer srv.Close()

	cfg := newConfig(t)
	calls := 0
	clock := func() time.Time {
		calls++
		return time.Date(2026, 10, 17, 8, calls, 0, 0, time.UTC)
	}
	g := New(cfg, products.NewAPISource(srv.URL, "", time.Second), nil)
	g.Now = clock

	_, err := g.Run(context.Background())
	require.NoError(t, err)
	first := readOutput(t, cfg.OutputPath)

	_, err = g.Run(context.Background())
	require.NoError(t, err)
	second := readOutput(t, cfg.OutputPath)

	assert.Equal(t, 2, calls, "each run reads the clock")
	assert.True(t, bytes.Equal([]byte(first), []byte(second)))
}

func TestRun_RobotsPrunesOnlyProductPages(t *testing.T) {
	robots, err := sitemap.ParseRobots([]byte("User-agent: *\nDisallow: /cart\nDisallow: /collection\nDisallow: /product/prototype-\n"))
	require.NoError(t, err)

	cfg := newConfig(t)
	src := &stubSource{list: []models.Product{{Slug: "caliper-200"}, {Slug: "prototype-x1"}}}
	res, err := New(cfg, src, robots).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, 9, res.URLs)
	out := readOutput(t, cfg.OutputPath)
	assert.Contains(t, out, "<loc>https://tespametrology.com/cart</loc>")
	assert.Contains(t, out, "<loc>https://tespametrology.com/collection</loc>")
	assert.Contains(t, out, "<loc>https://tespametrology.com/product/caliper-200</loc>")
	assert.NotContains(t, out, "prototype-x1")
}
