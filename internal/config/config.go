package config

type Config struct {
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Downloads DownloadsConfig `mapstructure:"downloads"`
	Socrata   SocrataConfig   `mapstructure:"socrata"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Output    OutputConfig    `mapstructure:"output"`
	Throttle  ThrottleConfig  `mapstructure:"throttle"`
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// CatalogConfig names the inputs the homepage catalog is built from.
// Sitemaps may be local paths or http(s) URLs, plain or gzipped XML.
// HomepagesFile is the two-column sitemap_url,homepage_url CSV form.
type CatalogConfig struct {
	Sitemaps      []string `mapstructure:"sitemaps"`
	HomepagesFile string   `mapstructure:"homepages_file"`
	ExcludePaths  []string `mapstructure:"exclude_paths"`
}

// DownloadsConfig locates the downloaded dataset files: either a listing
// file with one filename per line, or a directory to scan.
type DownloadsConfig struct {
	ListingFile string `mapstructure:"listing_file"`
	Dir         string `mapstructure:"dir"`
}

type SocrataConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	AppToken string `mapstructure:"app_token"`
	Timeout  int    `mapstructure:"timeout"`
}

type ArchiveConfig struct {
	TimemapURL string `mapstructure:"timemap_url"`
	Enabled    bool   `mapstructure:"enabled"`
	Timeout    int    `mapstructure:"timeout"`
}

type OutputConfig struct {
	CSVPath  string   `mapstructure:"csv_path"`
	JSONPath string   `mapstructure:"json_path"`
	Notes    []string `mapstructure:"notes"`
}

// ThrottleConfig sets the politeness pause between dataset queries,
// in seconds. Zero disables the pause.
type ThrottleConfig struct {
	Interval int `mapstructure:"interval"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
