package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string         `yaml:"env" env:"ENV" env-default:"local"`
	OutputPath  string         `yaml:"output_path" env:"OUTPUT_PATH" env-default:"jokes.json"`
	StoragePath string         `yaml:"storage_path" env:"STORAGE_PATH" env-default:""`
	API         APIConfig      `yaml:"api"`
	Fetch       FetchConfig    `yaml:"fetch"`
	Search      SearchConfig   `yaml:"search"`
	Postgres    PostgresConfig `yaml:"postgres"`
	Redis       RedisConfig    `yaml:"redis"`
}

type APIConfig struct {
	BaseURL   string   `yaml:"base_url" env:"API_BASE_URL" env-default:"https://v2.jokeapi.dev/joke"`
	Category  string   `yaml:"category" env:"API_CATEGORY" env-default:"Any"`
	Blacklist []string `yaml:"blacklist" env:"API_BLACKLIST" env-default:"nsfw,religious,political,racist,sexist,explicit"`
	Amount    int      `yaml:"amount" env:"API_AMOUNT" env-default:"10"`
	Lang      string   `yaml:"lang" env:"API_LANG" env-default:""`
}

type FetchConfig struct {
	Requests int           `yaml:"requests" env:"FETCH_REQUESTS" env-default:"30"`
	Window   time.Duration `yaml:"window" env:"FETCH_WINDOW" env-default:"1m"`
	Timeout  time.Duration `yaml:"timeout" env:"FETCH_TIMEOUT" env-default:"10s"`
}

type SearchConfig struct {
	MaxResults int `yaml:"max_results" env:"SEARCH_MAX_RESULTS" env-default:"10"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"PG_DSN" env-default:""`
}

type RedisConfig struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS" env-default:""`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

func MustLoad() *Config {
	configPathFlag := flag.String("config", "", "Path to the config file")
	storagePathFlag := flag.String("storage-path", "", "Path to the search archive")
	flag.Parse()

	configPath := fetchConfigPath(*configPathFlag)

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			panic("config file does not exist: " + configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			panic("error loading config file: " + err.Error())
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			panic("error loading config from environment: " + err.Error())
		}
	}

	if *storagePathFlag != "" {
		cfg.StoragePath = *storagePathFlag
	}

	validateConfig(&cfg)

	return &cfg
}

// fetchConfigPath fetches the config path from command line flag or environment variable.
// Priority: flag > env > none (environment-only config).
func fetchConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("CONFIG_PATH")
}

func validateConfig(cfg *Config) {
	if cfg.Fetch.Requests <= 0 {
		panic("fetch requests must be positive")
	}
	if cfg.Fetch.Timeout <= 0 {
		panic("fetch timeout must be positive")
	}
	// The API serves at most ten jokes per request.
	if cfg.API.Amount < 1 || cfg.API.Amount > 10 {
		panic("api amount must be between 1 and 10")
	}
}
