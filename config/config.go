// Package config loads nanogen settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/mhpenta/nanogen/sl"
)

// MemoryStore selects the in-memory session store instead of a SQLite file.
const MemoryStore = ":memory:"

type Config struct {
	Env       string `yaml:"env" env:"NANOGEN_ENV" env-default:"local" env-description:"local, dev or prod"`
	APIKey    string `yaml:"gemini_api_key" env:"GEMINI_API_KEY" env-description:"Gemini API key (API_KEY is accepted too)"`
	BaseURL   string `yaml:"gemini_base_url" env:"GEMINI_BASE_URL" env-description:"override the Gemini endpoint"`
	Model     string `yaml:"model" env:"NANOGEN_MODEL" env-default:"nano-banana" env-description:"model name"`
	Addr      string `yaml:"addr" env:"NANOGEN_ADDR" env-default:"127.0.0.1:8080" env-description:"listen address"`
	SessionDB string `yaml:"session_db" env:"NANOGEN_SESSION_DB" env-default:"nanogen.db" env-description:"session store file, or :memory:"`
}

// Load reads the configuration. A missing .env file is not an error.
// When path is set, the YAML file is read first and the environment overrides it.
func Load(path string, dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{}
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("config: %w; %s", err, desc)
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return errors.New("config: GEMINI_API_KEY is required")
	}
	switch c.Env {
	case sl.EnvLocal, sl.EnvDev, sl.EnvProd:
	default:
		return fmt.Errorf("config: unsupported NANOGEN_ENV %q", c.Env)
	}
	return nil
}
