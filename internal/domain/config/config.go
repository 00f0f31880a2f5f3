package config

import (
	"gopkg.in/yaml.v3"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	domainerr "trainsite/internal/domain/errors"
)

type Config struct {
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	SiteURL     string `yaml:"site_url"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
}

type FilterStrategy string

const (
	// FilterQuery re-queries the index for every filter combination.
	FilterQuery FilterStrategy = "query"
	// FilterMemory fetches every node once and filters in memory.
	FilterMemory FilterStrategy = "memory"
)

type BuildConfig struct {
	SourceDir      string         `yaml:"source_dir"`
	PublicDir      string         `yaml:"public_dir"`
	ThemeDir       string         `yaml:"theme_dir"`
	IndexPath      string         `yaml:"index_path"`
	FiltersDir     string         `yaml:"filters_dir"`
	BasePath       string         `yaml:"base_path"`
	PageSize       int            `yaml:"page_size"`
	FilterStrategy FilterStrategy `yaml:"filter_strategy"`
	IncludeDraft   bool           `yaml:"include_draft"`
	Clean          bool           `yaml:"clean"`
	Now            time.Time      `yaml:"-"`
}

const DefaultPageSize = 50

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:    "The Coding Train",
			SiteURL:  "http://localhost:8080/",
			Theme:    "default",
			Language: "en",
		},
		Build: BuildConfig{
			SourceDir:      "content",
			PublicDir:      "public",
			ThemeDir:       "themes",
			IndexPath:      ".trainsite/index.db",
			PageSize:       DefaultPageSize,
			FilterStrategy: FilterQuery,
			Now:            time.Now(),
		},
	}
}

// FiltersPath is where the filter manifests go; it falls back to the public dir.
func (b BuildConfig) FiltersPath() string {
	if strings.TrimSpace(b.FiltersDir) != "" {
		return b.FiltersDir
	}
	return b.PublicDir
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("build.source_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.ThemeDir) == "" {
		ve.Add("build.theme_dir", "must not be empty")
	}
	if strings.TrimSpace(c.Build.IndexPath) == "" {
		ve.Add("build.index_path", "must not be empty")
	}
	if c.Build.PageSize <= 0 {
		ve.Add("build.page_size", "must be positive")
	}

	switch c.Build.FilterStrategy {
	case "", FilterQuery:
	case FilterMemory:
	default:
		ve.Add("build.filter_strategy", "must be 'query' or 'memory'")
	}

	if bp := strings.TrimSpace(c.Build.BasePath); bp != "" {
		if !strings.HasPrefix(bp, "/") {
			ve.Add("build.base_path", "must start with '/'")
		}
		if strings.HasSuffix(bp, "/") && bp != "/" {
			ve.Add("build.base_path", "must not end with '/'")
		}
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

const envPrefix = "TRAINSITE_"

// ApplyEnv overrides file values with TRAINSITE_* environment variables.
func (c *Config) ApplyEnv() {
	if v, ok := lookupEnv("SITE_URL"); ok {
		c.Site.SiteURL = v
	}
	if v, ok := lookupEnv("SOURCE_DIR"); ok {
		c.Build.SourceDir = v
	}
	if v, ok := lookupEnv("PUBLIC_DIR"); ok {
		c.Build.PublicDir = v
	}
	if v, ok := lookupEnv("PAGE_SIZE"); ok {
		// 非法值交给 Validate 报错
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		c.Build.PageSize = n
	}
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return decode(cfg, data)
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, cfg.Validate()
		}
		return cfg, err
	}
	return decode(cfg, data)
}

// decode overlays the file onto cfg: keys present in the file win, the rest
// keep their defaults.
func decode(cfg Config, data []byte) (Config, error) {
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}
	if cfg.Build.FilterStrategy == "" {
		cfg.Build.FilterStrategy = FilterQuery
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
