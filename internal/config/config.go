// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/kanji-crawler/internal/kanji"
)

// DefaultUserAgent identifies the scraper as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultSelector matches the kanji anchors on a jitenon category page.
const DefaultSelector = "div.parts_box ul.search_parts li a"

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Crawler CrawlerConfig `mapstructure:"crawler"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Extract ExtractConfig `mapstructure:"extract"`
	Output  OutputConfig  `mapstructure:"output"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// CrawlerConfig governs batching and fetch behavior.
type CrawlerConfig struct {
	Targets      []string      `mapstructure:"targets"`
	BatchSize    int           `mapstructure:"batch_size"`
	GroupPause   time.Duration `mapstructure:"group_pause"`
	MaxConns     int           `mapstructure:"max_conns"`
	UserAgent    string        `mapstructure:"user_agent"`
	RateLimitRPS float64       `mapstructure:"rate_limit_rps"`
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// ExtractConfig holds the selector contract with the target site.
type ExtractConfig struct {
	Selector string `mapstructure:"selector"`
}

// OutputConfig sets where the JSON result lands on local disk.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// StorageConfig switches the result to a GCS bucket when set.
type StorageConfig struct {
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// LoggingConfig controls the log file location and console coloring.
type LoggingConfig struct {
	Dir         string `mapstructure:"dir"`
	Development bool   `mapstructure:"development"`
}

// MetricsConfig names the textfile the run's metrics are dumped to.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// Load builds a Config from defaults, the environment and an optional file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("KANJI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.targets", kanji.DefaultTargets)
	v.SetDefault("crawler.batch_size", 5)
	v.SetDefault("crawler.group_pause", time.Second)
	v.SetDefault("crawler.max_conns", 10)
	v.SetDefault("crawler.user_agent", DefaultUserAgent)
	v.SetDefault("crawler.rate_limit_rps", 0)
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("extract.selector", DefaultSelector)
	v.SetDefault("output.dir", ".")
	v.SetDefault("storage.gcs_bucket", "")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("logging.dir", ".")
	v.SetDefault("logging.development", false)
	v.SetDefault("metrics.textfile", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Crawler.Targets) == 0 {
		return fmt.Errorf("crawler.targets must include at least one URL")
	}
	if c.Crawler.BatchSize <= 0 {
		return fmt.Errorf("crawler.batch_size must be > 0")
	}
	if c.Crawler.GroupPause < 0 {
		return fmt.Errorf("crawler.group_pause must be >= 0")
	}
	if c.Crawler.MaxConns <= 0 {
		return fmt.Errorf("crawler.max_conns must be > 0")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.RateLimitRPS < 0 {
		return fmt.Errorf("crawler.rate_limit_rps must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(c.Extract.Selector) == "" {
		return fmt.Errorf("extract.selector must be set")
	}
	if c.Storage.GCSBucket == "" && c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set when storage.gcs_bucket is empty")
	}
	return nil
}

// RequestTimeout converts the HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
