package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"datadoc-go/internal/config"
	"datadoc-go/pkg/documenter"
	"datadoc-go/pkg/export"
	"datadoc-go/pkg/logger"
)

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("CRITICAL: unexpected panic: %v\n", r)
			os.Exit(1)
		}
	}()

	// A missing .env is fine; real environment values win anyway.
	_ = godotenv.Load()

	// Environment variable defaults (CI friendly); flags override.
	defaultConfig := getEnvOrDefault("CONFIG_PATH", "config/datadoc.yaml")
	defaultSitemaps := getEnvOrDefault("SITEMAP_URLS", "")
	defaultHomepages := getEnvOrDefault("HOMEPAGES_FILE", "")
	defaultListing := getEnvOrDefault("DOWNLOADS_LISTING", "")
	defaultDownloadsDir := getEnvOrDefault("DOWNLOADS_DIR", "")
	defaultAppToken := getEnvOrDefault("SOCRATA_APP_TOKEN", "")
	defaultInterval := getEnvIntOrDefault("THROTTLE_SECONDS", -1)
	defaultCSV := getEnvOrDefault("OUTPUT_CSV", "")
	defaultJSON := getEnvOrDefault("OUTPUT_JSON", "")
	defaultSkipArchive := getEnvBoolOrDefault("SKIP_ARCHIVE", false)
	defaultDebug := getEnvBoolOrDefault("DEBUG", false)

	var (
		configPath   = flag.String("config", defaultConfig, "Configuration file path (env: CONFIG_PATH)")
		sitemaps     = flag.String("sitemaps", defaultSitemaps, "Comma-separated sitemap files or URLs (env: SITEMAP_URLS)")
		homepages    = flag.String("homepages", defaultHomepages, "Pre-scraped sitemap_url,homepage_url CSV (env: HOMEPAGES_FILE)")
		listing      = flag.String("downloads-listing", defaultListing, "File listing downloaded filenames, one per line (env: DOWNLOADS_LISTING)")
		downloadsDir = flag.String("downloads-dir", defaultDownloadsDir, "Directory of downloaded dataset files (env: DOWNLOADS_DIR)")
		appToken     = flag.String("app-token", defaultAppToken, "Socrata app token, optional (env: SOCRATA_APP_TOKEN)")
		interval     = flag.Int("interval", defaultInterval, "Seconds between dataset queries, 0 disables (env: THROTTLE_SECONDS)")
		csvPath      = flag.String("csv", defaultCSV, "CSV output path (env: OUTPUT_CSV)")
		jsonPath     = flag.String("json", defaultJSON, "JSON artifact path (env: OUTPUT_JSON)")
		skipArchive  = flag.Bool("skip-archive", defaultSkipArchive, "Skip Internet Archive timemap lookups (env: SKIP_ARCHIVE)")
		debug        = flag.Bool("debug", defaultDebug, "Enable debug logging (env: DEBUG)")
		help         = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *sitemaps, *homepages, *listing, *downloadsDir, *appToken, *interval, *csvPath, *jsonPath, *skipArchive)

	if len(cfg.Catalog.Sitemaps) == 0 && cfg.Catalog.HomepagesFile == "" &&
		cfg.Downloads.ListingFile == "" && cfg.Downloads.Dir == "" {
		fmt.Println("ERROR: No inputs. Provide sitemap URLs, a homepages CSV, or a downloads inventory.")
		fmt.Println("Use -sitemaps, -homepages, -downloads-listing, -downloads-dir, the matching")
		fmt.Println("environment variables, or the config file.")
		fmt.Println("")
		printUsage()
		os.Exit(1)
	}

	level := cfg.Logger.Level
	if *debug {
		level = "debug"
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log := logger.GetLogger().WithField("component", "main")

	log.WithFields(map[string]interface{}{
		"sitemaps":       len(cfg.Catalog.Sitemaps),
		"homepages_file": cfg.Catalog.HomepagesFile != "",
		"archive":        cfg.Archive.Enabled,
		"interval_s":     cfg.Throttle.Interval,
	}).Info("Starting dataset documentation")

	doc, err := documenter.FromConfig(cfg).Build()
	if err != nil {
		log.WithError(err).Fatal("Failed to configure documenter")
	}

	// SIGINT/SIGTERM abandon the run; partial output would misrepresent
	// the catalog.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, summary, err := doc.Run(ctx)
	if err != nil {
		log.WithError(err).Fatal("Documentation run failed")
	}

	opts := export.Options{
		RunID:       summary.RunID,
		GeneratedAt: time.Now(),
		Sources:     catalogSources(cfg),
		APIEndpoint: cfg.Socrata.BaseURL,
		Notes:       cfg.Output.Notes,
	}
	if cfg.Archive.Enabled {
		opts.TimemapBase = cfg.Archive.TimemapURL
	}

	if cfg.Output.CSVPath != "" {
		if err := export.WriteCSV(cfg.Output.CSVPath, records, opts); err != nil {
			log.WithError(err).Fatal("Failed to write CSV catalog")
		}
	}
	if cfg.Output.JSONPath != "" {
		if err := export.WriteJSON(cfg.Output.JSONPath, records, opts); err != nil {
			log.WithError(err).Fatal("Failed to write JSON artifact")
		}
	}

	fmt.Printf("\n=== Dataset Documentation Results ===\n")
	fmt.Printf("Run ID: %s\n", summary.RunID)
	fmt.Printf("Homepages scanned: %d\n", summary.Homepages)
	fmt.Printf("Datasets: %d\n", summary.Datasets)
	fmt.Printf("Resolved: %d\n", summary.Resolved)
	fmt.Printf("Unknown: %d\n", summary.Unknown)
	fmt.Printf("Leftover downloads: %d\n", summary.Leftovers)
	fmt.Printf("Records written: %d\n", summary.Records)
	fmt.Printf("Duration: %s\n", summary.Elapsed.String())
	if cfg.Output.CSVPath != "" {
		fmt.Printf("CSV: %s\n", cfg.Output.CSVPath)
	}
	if cfg.Output.JSONPath != "" {
		fmt.Printf("JSON: %s\n", cfg.Output.JSONPath)
	}
}

// applyOverrides lets flags and their env twins win over config file
// values.
func applyOverrides(cfg *config.Config, sitemaps, homepages, listing, downloadsDir, appToken string, interval int, csvPath, jsonPath string, skipArchive bool) {
	if sitemaps != "" {
		var list []string
		for _, s := range strings.Split(sitemaps, ",") {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		cfg.Catalog.Sitemaps = list
	}
	if homepages != "" {
		cfg.Catalog.HomepagesFile = homepages
	}
	if listing != "" {
		cfg.Downloads.ListingFile = listing
	}
	if downloadsDir != "" {
		cfg.Downloads.Dir = downloadsDir
	}
	if appToken != "" {
		cfg.Socrata.AppToken = appToken
	}
	if interval >= 0 {
		cfg.Throttle.Interval = interval
	}
	if csvPath != "" {
		cfg.Output.CSVPath = csvPath
	}
	if jsonPath != "" {
		cfg.Output.JSONPath = jsonPath
	}
	if skipArchive {
		cfg.Archive.Enabled = false
	}
}

func catalogSources(cfg *config.Config) []string {
	sources := append([]string(nil), cfg.Catalog.Sitemaps...)
	if cfg.Catalog.HomepagesFile != "" {
		sources = append(sources, cfg.Catalog.HomepagesFile)
	}
	return sources
}

func printUsage() {
	fmt.Println("datadoc-go - dataset download documentation")
	fmt.Println("")
	fmt.Println("Builds a catalog of bulk-downloaded portal datasets: joins sitemap")
	fmt.Println("homepages and downloaded filenames against the Socrata Discovery API")
	fmt.Println("and the Internet Archive, then writes a CSV and a JSON artifact.")
	fmt.Println("")
	fmt.Println("USAGE:")
	fmt.Println("    ./datadoc-go -sitemaps <URL,...> [OPTIONS]")
	fmt.Println("    ./datadoc-go  # Uses environment variables and config file")
	fmt.Println("")
	fmt.Println("INPUTS (at least one):")
	fmt.Println("    -sitemaps string           Comma-separated sitemap files or URLs (env: SITEMAP_URLS)")
	fmt.Println("    -homepages string          Pre-scraped homepages CSV (env: HOMEPAGES_FILE)")
	fmt.Println("    -downloads-listing string  Downloaded filenames, one per line (env: DOWNLOADS_LISTING)")
	fmt.Println("    -downloads-dir string      Directory of downloaded files (env: DOWNLOADS_DIR)")
	fmt.Println("")
	fmt.Println("OPTIONS:")
	fmt.Println("    -config string             Config file path (default: config/datadoc.yaml, env: CONFIG_PATH)")
	fmt.Println("    -app-token string          Socrata app token (env: SOCRATA_APP_TOKEN)")
	fmt.Println("    -interval int              Seconds between dataset queries, 0 disables (default: 10, env: THROTTLE_SECONDS)")
	fmt.Println("    -csv string                CSV output path (env: OUTPUT_CSV)")
	fmt.Println("    -json string               JSON artifact path (env: OUTPUT_JSON)")
	fmt.Println("    -skip-archive              Skip Internet Archive lookups (env: SKIP_ARCHIVE)")
	fmt.Println("    -debug                     Enable debug logging (env: DEBUG)")
	fmt.Println("    -help                      Show this help message")
	fmt.Println("")
	fmt.Println("ENVIRONMENT:")
	fmt.Println("    Any config key also reads as DATADOC_<SECTION>_<KEY>, e.g.")
	fmt.Println("    DATADOC_SOCRATA_BASE_URL, DATADOC_SERVER_PORT. A .env file in the")
	fmt.Println("    working directory is loaded when present.")
	fmt.Println("")
	fmt.Println("EXAMPLES:")
	fmt.Println("    ./datadoc-go -sitemaps \"https://data.cdc.gov/sitemap-datasets.xml\" \\")
	fmt.Println("        -downloads-dir ./downloads")
	fmt.Println("")
	fmt.Println("    export HOMEPAGES_FILE=homepages.csv")
	fmt.Println("    export DOWNLOADS_LISTING=downloads.txt")
	fmt.Println("    ./datadoc-go")
}
