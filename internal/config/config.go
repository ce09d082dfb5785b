package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"tt-service/internal/cache"
	"tt-service/internal/service"
)

type Config struct {
	Env string `yaml:"env" env:"ENV" env-default:"local"`
	// StoragePath is the postgres DSN for cache snapshot persistence.
	// Empty disables persistence.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH"`
	// RedisAddr is the fetch-lock redis address. Empty falls back to a
	// process-local lock.
	RedisAddr string `yaml:"redis_addr" env:"REDIS_ADDR"`
	// SourceDir is where the fetch collaborator drops raw day-record
	// files.
	SourceDir string `yaml:"source_dir" env:"SOURCE_DIR" env-default:"./data"`
	// EducationType: 1 = higher education, 2 = vocational.
	EducationType int `yaml:"education_type" env:"EDUCATION_TYPE" env-default:"1"`

	HTTPServer `yaml:"http_server"`
	Cache      CacheTTLs `yaml:"cache"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// CacheTTLs configures the result cache per category. Zero disables a
// category; a negative value means entries never expire.
type CacheTTLs struct {
	Schedule      time.Duration `yaml:"schedule" env-default:"10m"`
	Faculties     time.Duration `yaml:"faculties" env-default:"24h"`
	Groups        time.Duration `yaml:"groups" env-default:"24h"`
	CurrentPeriod time.Duration `yaml:"current_period" env-default:"1h"`
}

// TTLs converts the configured durations into a cache config, skipping
// disabled categories and mapping negatives to the never-expire sentinel.
func (c CacheTTLs) TTLs() cache.Config {
	ttls := cache.Config{}
	add := func(category string, ttl time.Duration) {
		switch {
		case ttl < 0:
			ttls[category] = cache.Forever
		case ttl > 0:
			ttls[category] = ttl
		}
	}
	add(service.CategorySchedule, c.Schedule)
	add(service.CategoryFaculties, c.Faculties)
	add(service.CategoryGroups, c.Groups)
	add(service.CategoryCurrentPeriod, c.CurrentPeriod)
	return ttls
}

func MustLoad() *Config {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
