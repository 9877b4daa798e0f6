package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sitemapgen/internal/config"
	"sitemapgen/internal/generator"
	"sitemapgen/internal/log"
	"sitemapgen/internal/products"
	"sitemapgen/internal/sitemap"
	"sitemapgen/internal/verify"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sitemapgen",
		Short: "Generate public/sitemap.xml from the product catalogue",
		Long: `Fetches the product list, combines it with the static site routes and
writes a sitemaps.org sitemap. Configuration comes from the environment
(SITE_URL, API_URL, PRODUCTS_DB_URL, SITEMAP_OUTPUT, ...) or a .env file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}
	root.AddCommand(newVerifyCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log.Configure(log.Config{Level: cfg.LogLevel})
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, err := products.NewSource(cfg)
	if err != nil {
		return err
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	robots, err := sitemap.LoadRobots(cfg.RobotsPath)
	if err != nil {
		return err
	}

	res, err := generator.New(cfg, source, robots).Run(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sitemap generated with %d URLs at %s\n", res.URLs, res.Path)
	return nil
}

func newVerifyCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every sitemap URL is served and canonical",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.OutputPath
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open sitemap: %w", err)
			}
			set, err := sitemap.Decode(f)
			f.Close()
			if err != nil {
				return err
			}

			checker := verify.NewChecker(cfg.UserAgent, cfg.HTTPTimeout, cfg.VerifyRate, cfg.VerifyWorkers)
			report, err := checker.Check(cmd.Context(), set)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, fail := range report.Failures {
				fmt.Fprintf(out, "FAIL %s: %s\n", fail.URL, fail.Reason)
			}
			fmt.Fprintf(out, "Checked %d URLs, %d failed\n", report.Checked, len(report.Failures))
			if !report.OK() {
				return fmt.Errorf("%d of %d sitemap URLs failed verification", len(report.Failures), report.Checked)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "sitemap", "s", "", "sitemap file to verify (defaults to SITEMAP_OUTPUT)")
	return cmd
}
