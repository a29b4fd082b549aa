package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// LoggingConfig log output settings. An empty file means stdout only.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn or error
	File       string `mapstructure:"file"`        // rotating log file path
	MaxSize    int    `mapstructure:"max_size"`    // max size per file in MB
	MaxBackups int    `mapstructure:"max_backups"` // rotated files to keep
	MaxAge     int    `mapstructure:"max_age"`     // days to keep rotated files
	Compress   bool   `mapstructure:"compress"`    // gzip rotated files
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"` // bind host
	Port int    `mapstructure:"port"` // bind port
}

// StorageConfig raw file staging settings.
type StorageConfig struct {
	Type      string `mapstructure:"type"`     // local or minio
	Path      string `mapstructure:"path"`     // local storage path
	Bucket    string `mapstructure:"bucket"`   // minio bucket name
	Endpoint  string `mapstructure:"endpoint"` // minio endpoint
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// DatabaseConfig status database settings.
type DatabaseConfig struct {
	Type string `mapstructure:"type"` // sqlite, mysql or postgres
	DSN  string `mapstructure:"dsn"`  // data source name
}

// CacheConfig record cache settings.
type CacheConfig struct {
	Enable   bool   `mapstructure:"enable"`   // whether caching is on
	Type     string `mapstructure:"type"`     // memory or redis
	Address  string `mapstructure:"address"`  // redis address
	Password string `mapstructure:"password"` // redis password
	DB       int    `mapstructure:"db"`       // redis database index
	TTL      int    `mapstructure:"ttl"`      // cache TTL in seconds
}

// QueueConfig background task queue settings.
type QueueConfig struct {
	Enable        bool   `mapstructure:"enable"`         // whether async processing is on
	Type          string `mapstructure:"type"`           // queue implementation name
	RedisAddr     string `mapstructure:"redis_addr"`     // redis address
	RedisPassword string `mapstructure:"redis_password"` // redis password
	RedisDB       int    `mapstructure:"redis_db"`       // redis database index
	Concurrency   int    `mapstructure:"concurrency"`    // worker concurrency
	RetryLimit    int    `mapstructure:"retry_limit"`    // max retries per task
	RetryDelay    int    `mapstructure:"retry_delay"`    // retry delay in seconds
}

// SummarizerConfig summarization model settings.
type SummarizerConfig struct {
	Provider    string  `mapstructure:"provider"`     // model provider name
	Model       string  `mapstructure:"model"`        // model name
	APIKey      string  `mapstructure:"api_key"`      // API key, supports ${ENV_VAR}
	Endpoint    string  `mapstructure:"endpoint"`     // API base URL
	MaxTokens   int     `mapstructure:"max_tokens"`   // max tokens per chunk summary
	Temperature float32 `mapstructure:"temperature"`  // sampling temperature
	Timeout     string  `mapstructure:"timeout"`      // per-request timeout
	MaxRetries  int     `mapstructure:"max_retries"`  // retries per request
	Concurrency int     `mapstructure:"concurrency"`  // chunks summarized in parallel
}

// PipelineConfig document pipeline settings.
type PipelineConfig struct {
	ChunkSize        int  `mapstructure:"chunk_size"`        // summarization chunk size
	DefaultYear      int  `mapstructure:"default_year"`      // OCR year-repair clamp target
	OCRNormalization bool `mapstructure:"ocr_normalization"` // strip OCR noise during normalize
	BatchConcurrency int  `mapstructure:"batch_concurrency"` // parallel documents in a batch
	Timeout          int  `mapstructure:"timeout"`           // per-document timeout in seconds
}

// SummarizerTimeout parses the summarizer timeout, falling back to 90s.
func (c *SummarizerConfig) SummarizerTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 90 * time.Second
	}
	return d
}

// Load reads configuration from a file and the environment.
func Load(configPath string) (*Config, error) {
	var config Config

	// .env is optional, ignore a missing file
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
			setDefaults(v)
			dir := filepath.Dir(configPath)
			if err := os.MkdirAll(dir, 0755); err == nil {
				if err := v.WriteConfigAs(configPath); err != nil {
					log.Printf("Warning: Could not write default config to %s: %v", configPath, err)
				}
			}
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", v.ConfigFileUsed())
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	return resolveEnvPlaceholders(&config), nil
}

// resolveEnvPlaceholders expands ${ENV_VAR} values in secret fields.
func resolveEnvPlaceholders(cfg *Config) *Config {
	cfg.Summarizer.APIKey = expandEnv(cfg.Summarizer.APIKey)
	cfg.Storage.AccessKey = expandEnv(cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = expandEnv(cfg.Storage.SecretKey)
	cfg.Cache.Password = expandEnv(cfg.Cache.Password)
	cfg.Queue.RedisPassword = expandEnv(cfg.Queue.RedisPassword)
	return cfg
}

func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envVal := os.Getenv(envVar); envVal != "" {
			return envVal
		}
	}
	return value
}

// setDefaults fills in defaults for every config section.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.path", "./uploads")
	v.SetDefault("storage.bucket", "civicdocs")
	v.SetDefault("storage.use_ssl", false)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "data/civicdocs.db")

	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 86400) // 24 hours

	v.SetDefault("queue.enable", false)
	v.SetDefault("queue.type", "redis")
	v.SetDefault("queue.redis_addr", "localhost:6379")
	v.SetDefault("queue.redis_db", 0)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.retry_limit", 3)
	v.SetDefault("queue.retry_delay", 60)

	v.SetDefault("summarizer.provider", "openai")
	v.SetDefault("summarizer.model", "gpt-4o-mini")
	v.SetDefault("summarizer.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("summarizer.endpoint", "https://api.openai.com/v1")
	v.SetDefault("summarizer.max_tokens", 256)
	v.SetDefault("summarizer.temperature", 0.3)
	v.SetDefault("summarizer.timeout", "90s")
	v.SetDefault("summarizer.max_retries", 3)
	v.SetDefault("summarizer.concurrency", 3)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", false)

	v.SetDefault("pipeline.chunk_size", 1000)
	v.SetDefault("pipeline.default_year", 0) // 0 means current year
	v.SetDefault("pipeline.ocr_normalization", false)
	v.SetDefault("pipeline.batch_concurrency", 4)
	v.SetDefault("pipeline.timeout", 300)
}
