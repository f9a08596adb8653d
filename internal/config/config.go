package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"
)

type Config struct {
	Env        string
	LogLevel   string
	ListenAddr string

	StorageBackend string // file, bolt, postgres, redis
	DataFile       string
	BoltFile       string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	ProbeURL     string
	ProbeTimeout time.Duration

	LoadRetryDelay time.Duration
	CacheStaleTime time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			ListenAddr:     getEnv("LISTEN_ADDR", ":8090"),
			StorageBackend: getEnv("STORAGE_BACKEND", "file"),
			DataFile:       getEnv("DATA_FILE", "data/health_store.json"),
			BoltFile:       getEnv("BOLT_FILE", "data/health.db"),
			PostgresDSN:    getEnv("POSTGRES_DSN", ""),
			RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisDB:        getEnvInt("REDIS_DB", 0),
			ProbeURL:       getEnv("PROBE_URL", "https://www.google.com/generate_204"),
			ProbeTimeout:   getEnvDuration("PROBE_TIMEOUT_MS", 3000),
			LoadRetryDelay: getEnvDuration("LOAD_RETRY_DELAY_MS", 1000),
			CacheStaleTime: getEnvDuration("CACHE_STALE_MS", 60000),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case "file":
		if c.DataFile == "" {
			return errors.New("DATA_FILE is required when STORAGE_BACKEND=file")
		}
	case "bolt":
		if c.BoltFile == "" {
			return errors.New("BOLT_FILE is required when STORAGE_BACKEND=bolt")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required when STORAGE_BACKEND=redis")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, bolt, postgres, redis")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMillis int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMillis)) * time.Millisecond
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		f, err := os.Open(".env")
		if err != nil {
			return err
		}
		defer f.Close()
		var lines []string
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				lines = append(lines, string(buf[:n]))
			}
			if err != nil {
				break
			}
		}
		for _, line := range lines {
			for _, l := range splitLines(line) {
				if len(l) == 0 || l[0] == '#' {
					continue
				}
				kv := splitKV(l)
				if len(kv) == 2 {
					os.Setenv(kv[0], kv[1])
				}
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
