package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/flightdelays/internal/scraper"
)

type Config struct {
	Port      string `yaml:"port"`
	AssetsDir string `yaml:"assets_dir"`

	AirportsCSV string `yaml:"airports_csv"`
	ModelDir    string `yaml:"model_dir"`

	CacheEnabled  bool          `yaml:"cache_enabled"`
	RedisHost     string        `yaml:"redis_host"`
	RedisPort     string        `yaml:"redis_port"`
	RedisPassword string        `yaml:"redis_password"`
	RedisTTL      time.Duration `yaml:"redis_ttl"`

	Scraper ScraperConfig `yaml:"scraper"`

	MongoURI string `yaml:"mongodb_uri"`
	MongoDB  string `yaml:"mongo_db"`

	WeatherAPIKey  string `yaml:"weather_api_key"`
	WeatherBaseURL string `yaml:"weather_base_url"`
}

type ScraperConfig struct {
	BaseURL        string        `yaml:"base_url"`
	ChromeBin      string        `yaml:"chrome_bin"`
	Proxy          string        `yaml:"proxy"`
	Headless       bool          `yaml:"headless"`
	StepTimeout    time.Duration `yaml:"step_timeout"`
	MaxAttempts    int           `yaml:"max_attempts"`
	// SessionTimeout caps a whole comparison; zero derives it from the step budget
	SessionTimeout time.Duration `yaml:"session_timeout"`
	RPS            float64       `yaml:"rps"`
	Burst          int           `yaml:"burst"`
	MaxSessions    int           `yaml:"max_sessions"`

	Selectors scraper.Selectors `yaml:"selectors"`
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_PATH, and finally environment variables (a .env file is read first if present).
func Load() (*Config, error) {
	godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if cfg.AirportsCSV == "" {
		cfg.AirportsCSV = cfg.AssetsDir + "/airports.csv"
	}
	if cfg.ModelDir == "" {
		cfg.ModelDir = cfg.AssetsDir + "/models"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:           "8080",
		AssetsDir:      "assets",
		CacheEnabled:   false,
		RedisHost:      "localhost",
		RedisPort:      "6379",
		RedisTTL:       10 * time.Minute,
		MongoDB:        "flightdelays",
		WeatherBaseURL: "https://api.openweathermap.org",
		Scraper: ScraperConfig{
			BaseURL:     "https://www.flightstats.com/v2/flight-tracker/search",
			Headless:    true,
			StepTimeout: 15 * time.Second,
			MaxAttempts: 3,
			RPS:         0.5,
			Burst:       1,
			MaxSessions: 2,
			Selectors:   scraper.DefaultSelectors(),
		},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AssetsDir = getEnv("ASSETS_DIR", cfg.AssetsDir)
	cfg.AirportsCSV = getEnv("AIRPORTS_CSV", cfg.AirportsCSV)
	cfg.ModelDir = getEnv("MODEL_DIR", cfg.ModelDir)

	cfg.CacheEnabled = getEnvBool("CACHE_ENABLED", cfg.CacheEnabled)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisTTL = getEnvDuration("REDIS_TTL", cfg.RedisTTL)

	s := &cfg.Scraper
	s.BaseURL = getEnv("BASE_URL", s.BaseURL)
	s.ChromeBin = getEnv("GOOGLE_CHROME_BIN", s.ChromeBin)
	s.Proxy = getEnv("SCRAPER_PROXY", s.Proxy)
	s.Headless = getEnvBool("SCRAPER_HEADLESS", s.Headless)
	s.StepTimeout = getEnvDuration("SCRAPER_STEP_TIMEOUT", s.StepTimeout)
	s.MaxAttempts = getEnvInt("SCRAPER_MAX_ATTEMPTS", s.MaxAttempts)
	s.SessionTimeout = getEnvDuration("SCRAPER_SESSION_TIMEOUT", s.SessionTimeout)
	s.RPS = getEnvFloat("SCRAPER_RPS", s.RPS)
	s.Burst = getEnvInt("SCRAPER_BURST", s.Burst)
	s.MaxSessions = getEnvInt("SCRAPER_MAX_SESSIONS", s.MaxSessions)

	cfg.MongoURI = getEnv("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDB = getEnv("MONGO_DB", cfg.MongoDB)

	cfg.WeatherAPIKey = getEnv("WEATHER_API_KEY", cfg.WeatherAPIKey)
	cfg.WeatherBaseURL = getEnv("WEATHER_BASE_URL", cfg.WeatherBaseURL)
}

func (c *Config) validate() error {
	if c.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("scraper max attempts must be at least 1, got %d", c.Scraper.MaxAttempts)
	}
	if c.Scraper.MaxSessions < 1 {
		return fmt.Errorf("scraper max sessions must be at least 1, got %d", c.Scraper.MaxSessions)
	}
	if c.Scraper.RPS <= 0 {
		return fmt.Errorf("scraper rps must be positive, got %v", c.Scraper.RPS)
	}
	if c.Scraper.Burst < 1 {
		return fmt.Errorf("scraper burst must be at least 1, got %d", c.Scraper.Burst)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
