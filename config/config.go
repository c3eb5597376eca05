package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL   string
	Scraper   ScraperConfig
	Scheduler SchedulerConfig
	ProxyURL  string
	DBPath    string
	OutDir    string
	APIAddr   string
	LogLevel  string
	Profiles  map[string]*Profile
}

type ScraperConfig struct {
	PageSize int
	HardCap  int
	DelayMS  int
	// Env-driven overrides applied to every profile, mirroring the
	// one-shot CLI knobs.
	PriceTo     string
	ScrapeLimit int
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

// Profile is one configured scrape: a category pair, a region and a
// filter map, loaded from config/profiles/*.yaml.
type Profile struct {
	ID             string                 `yaml:"id"`
	MainCategory   string                 `yaml:"main_category"`
	DetailCategory string                 `yaml:"detail_category"`
	Region         string                 `yaml:"region"`
	Limit          int                    `yaml:"limit"`
	PageSize       int                    `yaml:"page_size"`
	Filters        map[string]interface{} `yaml:"filters"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BaseURL: getEnv("BASE_URL", "https://www.otodom.pl"),
		Scraper: ScraperConfig{
			PageSize:    getEnvInt("PAGE_SIZE", 24),
			HardCap:     getEnvInt("OFFERS_HARD_CAP", 12000),
			DelayMS:     getEnvInt("SCRAPE_DELAY_MS", 500),
			PriceTo:     os.Getenv("PRICE_TO"),
			ScrapeLimit: getEnvInt("SCRAPE_LIMIT", 0),
		},
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("SCRAPE_CRON"),
		},
		ProxyURL: os.Getenv("PROXY_URL"),
		DBPath:   getEnv("DB_PATH", "scraper.db"),
		OutDir:   getEnv("OUT_DIR", "out"),
		APIAddr:  getEnv("API_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Profiles: make(map[string]*Profile),
	}

	if interval := os.Getenv("SCRAPE_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadProfiles("config/profiles"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadProfiles(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}

		var profile Profile
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return err
		}
		if profile.PageSize == 0 {
			profile.PageSize = c.Scraper.PageSize
		}

		c.Profiles[profile.ID] = &profile
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
