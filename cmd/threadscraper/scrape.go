package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"threadscraper/pkg/browser"
	"threadscraper/pkg/config"
	"threadscraper/pkg/logger"
	"threadscraper/pkg/scraper"
	"threadscraper/pkg/storage"
)

var (
	// Scrape command flags
	outputDir     string
	headless      bool
	pageTimeout   time.Duration
	downloadMedia bool
	concurrent    int
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Collect posts and reply threads from a Threads profile",
	Long: `Collect all posts visible on a Threads user's profile page, fetch each
post's reply thread, and write the normalized documents to the output
directory. The reduced summary document is printed to stdout last.`,
	Example: `  # Collect posts using default settings
  threadscraper scrape zuck

  # Collect into a specific directory with visible browser window
  threadscraper scrape zuck --output ./data --headless=false

  # Also download every image and video referenced by the posts
  threadscraper scrape zuck --download-media --concurrent 5`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default ./output)")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().DurationVar(&pageTimeout, "timeout", 20*time.Second, "per-page readiness timeout")
	scrapeCmd.Flags().BoolVar(&downloadMedia, "download-media", false, "download images and videos referenced by posts")
	scrapeCmd.Flags().IntVar(&concurrent, "concurrent", 3, "number of concurrent media downloads")
}

func runScrape(cmd *cobra.Command, args []string) error {
	username := strings.TrimSpace(strings.TrimPrefix(args[0], "@"))
	if username == "" {
		return fmt.Errorf("username must not be empty")
	}

	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if cmd.Flags().Changed("timeout") {
		flags["page-timeout"] = pageTimeout
	}
	if cmd.Flags().Changed("download-media") {
		flags["download-media"] = downloadMedia
	}
	if cmd.Flags().Changed("concurrent") {
		flags["concurrent"] = concurrent
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	log.WithField("username", username).Info("starting collection")

	b, err := browser.New(&cfg.Browser)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer b.Close()

	store, err := storage.NewManager(userOutputDir(cfg, username), cfg.Output.PrettyJSON)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	fetcher := browser.NewFetcher(b, &cfg.Scraper, log)
	s := scraper.New(fetcher, store, cfg)

	summary, err := s.ScrapeUser(username)
	if summary != "" {
		fmt.Println(summary)
	}
	return err
}

// userOutputDir resolves the output directory for a username
func userOutputDir(cfg *config.Config, username string) string {
	if cfg.Output.CreateUserFolders {
		return filepath.Join(cfg.Output.BaseDirectory, username)
	}
	return cfg.Output.BaseDirectory
}
