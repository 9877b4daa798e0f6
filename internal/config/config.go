package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"sitemapgen/internal/log"
)

const (
	DefaultBaseURL = "https://tespametrology.com"
	DefaultAPIURL  = "https://api.tespametrology.com"
)

type Config struct {
	// BaseURL is the public site root every <loc> is built from.
	BaseURL string `envconfig:"SITE_URL" default:"https://tespametrology.com"`

	// APIURL is the backend serving /api/product/list.
	APIURL string `envconfig:"API_URL" default:"https://api.tespametrology.com"`

	// ProductsDB replaces the API as product source when set (postgres:// or sqlite://).
	ProductsDB string `envconfig:"PRODUCTS_DB_URL"`

	OutputPath string `envconfig:"SITEMAP_OUTPUT" default:"public/sitemap.xml"`
	RobotsPath string `envconfig:"ROBOTS_PATH" default:"public/robots.txt"`

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	UserAgent   string        `envconfig:"USER_AGENT" default:"TespaSitemapBot/1.0"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`

	VerifyWorkers int           `envconfig:"VERIFY_WORKERS" default:"4"`
	VerifyRate    time.Duration `envconfig:"VERIFY_RATE" default:"500ms"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// A missing .env is normal in CI, where vars are injected directly.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			logger := log.WithComponent("config")
			logger.Warn().Err(err).Msg(".env file found but could not be loaded")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize applies the literal defaults to variables that are set but empty,
// which envconfig treats as explicit values.
func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	if c.OutputPath == "" {
		c.OutputPath = "public/sitemap.xml"
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.VerifyWorkers < 1 {
		c.VerifyWorkers = 1
	}
}
