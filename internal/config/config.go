// Package config loads runtime settings from defaults, an optional YAML file
// and the environment, in that order of precedence (environment wins).
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/baxromumarov/fundedlist/internal/ai"
	"github.com/baxromumarov/fundedlist/internal/scraper"
)

// FileEnv names the variable holding the YAML config path.
const FileEnv = "FUNDEDLIST_CONFIG"

var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidProvider = errors.New("invalid ai provider")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

var DefaultFeeds = []string{
	"https://vcnewsdaily.com/feed/",
	"https://techcrunch.com/category/venture/feed/",
}

type Config struct {
	DataDir     string   `yaml:"data_dir"`
	SiteOutput  string   `yaml:"site_output"`
	CuratedPath string   `yaml:"curated_path"`
	Feeds       []string `yaml:"feeds"`
	GalleryURL  string   `yaml:"gallery_url"`
	YCURL       string   `yaml:"yc_url"`
	YCLimit     int      `yaml:"yc_limit"`
	Seed        int64    `yaml:"seed"`
	UserAgent   string   `yaml:"user_agent"`

	DatabaseURL string        `yaml:"database_url"`
	Retention   time.Duration `yaml:"retention"`

	Port            string        `yaml:"port"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// AIProvider empty means gemini when a key is set, mock otherwise.
	AIProvider   string `yaml:"ai_provider"`
	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	ScrapeCareers bool `yaml:"scrape_careers"`
	// JobBoards maps a company id or name to its Greenhouse or Lever board URL.
	JobBoards map[string]string `yaml:"job_boards"`

	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		DataDir:         "data",
		SiteOutput:      "index.html",
		Feeds:           append([]string(nil), DefaultFeeds...),
		GalleryURL:      scraper.DefaultGalleryURL,
		YCURL:           scraper.DefaultYCURL,
		YCLimit:         50,
		Port:            "8080",
		RefreshInterval: 6 * time.Hour,
		Retention:       30 * 24 * time.Hour,
		LogLevel:        "info",
	}
}

// Load builds the config. path may be empty, in which case FUNDEDLIST_CONFIG
// is consulted; no file at all is fine. A .env file in the working directory
// is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.DataDir, "DATA_DIR")
	setString(&c.SiteOutput, "SITE_OUTPUT")
	setString(&c.CuratedPath, "CURATED_PATH")
	setString(&c.GalleryURL, "GALLERY_URL")
	setString(&c.YCURL, "YC_API_URL")
	setString(&c.UserAgent, "USER_AGENT")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Port, "PORT")
	setString(&c.AIProvider, "AI_PROVIDER")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv("FEEDS"); ok {
		c.Feeds = splitList(v)
	}
	if v, ok := os.LookupEnv("JOB_BOARDS"); ok {
		boards, err := parseBoards(v)
		if err != nil {
			return err
		}
		c.JobBoards = boards
	}

	if v, ok := os.LookupEnv("YC_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: YC_LIMIT=%q", ErrInvalidLimit, v)
		}
		c.YCLimit = n
	}
	if v, ok := os.LookupEnv("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: SEED=%q", ErrInvalidLimit, v)
		}
		c.Seed = n
	}
	if v, ok := os.LookupEnv("SCRAPE_CAREERS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse SCRAPE_CAREERS=%q: %w", v, err)
		}
		c.ScrapeCareers = b
	}
	if err := setDuration(&c.RefreshInterval, "REFRESH_INTERVAL"); err != nil {
		return err
	}
	return setDuration(&c.Retention, "RETENTION")
}

// Validate checks values that would otherwise fail late inside a run.
func (c *Config) Validate() error {
	for _, raw := range append([]string{c.GalleryURL, c.YCURL}, c.Feeds...) {
		if raw == "" {
			continue
		}
		if err := checkURL(raw); err != nil {
			return err
		}
	}
	if c.YCLimit < 0 {
		return fmt.Errorf("%w: yc_limit %d", ErrInvalidLimit, c.YCLimit)
	}
	if c.RefreshInterval < 0 || c.Retention < 0 {
		return fmt.Errorf("%w: negative interval", ErrInvalidDuration)
	}
	switch strings.ToLower(c.AIProvider) {
	case "", ai.ProviderMock, ai.ProviderGemini:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.AIProvider)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: %s=%q", ErrInvalidDuration, key, v)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBoards reads "acme=https://boards.greenhouse.io/acme,globex=https://jobs.lever.co/globex".
func parseBoards(v string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(v) {
		name, board, ok := strings.Cut(pair, "=")
		name, board = strings.TrimSpace(name), strings.TrimSpace(board)
		if !ok || name == "" || board == "" {
			return nil, fmt.Errorf("%w: job board entry %q", ErrInvalidURL, pair)
		}
		if err := checkURL(board); err != nil {
			return nil, err
		}
		out[name] = board
	}
	return out, nil
}
