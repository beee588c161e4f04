package config

import (
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   string `yaml:"port"`
	DBPath string `yaml:"db_path"`

	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	VisionModel     string `yaml:"vision_model"`

	RescanSchedule  string `yaml:"rescan_schedule"`
	RescanBatchSize int    `yaml:"rescan_batch_size"`

	MaxPhotoMB int    `yaml:"max_photo_mb"`
	Timezone   string `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

func LoadConfig() Config {
	var cfg Config

	// Load from config.yaml if it exists
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	// Env vars override YAML values
	envOverride(&cfg.Port, "PORT")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.VisionModel, "VISION_MODEL")
	envOverride(&cfg.RescanSchedule, "RESCAN_SCHEDULE")
	envOverrideInt(&cfg.RescanBatchSize, "RESCAN_BATCH_SIZE")
	envOverrideInt(&cfg.MaxPhotoMB, "MAX_PHOTO_MB")
	envOverride(&cfg.Timezone, "TIMEZONE")

	// Defaults
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "./plantbot.db"
	}
	if cfg.RescanBatchSize < 1 {
		cfg.RescanBatchSize = 5
	}
	if cfg.MaxPhotoMB < 1 {
		cfg.MaxPhotoMB = 10
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Invalid timezone '%s': %v, using local time", cfg.Timezone, err)
		loc = time.Local
	}
	cfg.Location = loc

	return cfg
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		} else {
			log.Printf("Invalid %s '%s': %v", key, v, err)
		}
	}
}
