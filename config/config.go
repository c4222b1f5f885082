package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

// DefaultPath is looked up when no --config flag is given.
const DefaultPath = "publisher.yml"

// Config is read once per process and treated as immutable afterwards.
type Config struct {
	WorkingDirectory string          `yaml:"working_directory"`
	OutputNamePrefix string          `yaml:"output_name_prefix"`
	BaseDirectory    string          `yaml:"base_directory"`
	ValidityCheck    bool            `yaml:"validity_check"`
	Converter        ConverterConfig `yaml:"converter"`
	Storage          StorageConfig   `yaml:"storage"`
	Log              logger.Config   `yaml:"log"`
}

type ConverterConfig struct {
	Command string        `yaml:"command"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Type  string      `yaml:"type"`
	S3    S3Config    `yaml:"s3"`
	Minio MinioConfig `yaml:"minio"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		WorkingDirectory: ".tmp",
		OutputNamePrefix: "out",
		BaseDirectory:    ".",
		ValidityCheck:    true,
		Converter: ConverterConfig{
			Command: "jupyter",
		},
		Storage: StorageConfig{
			Type: "s3",
		},
		Log: logger.DefaultConfig(),
	}
}

// Load reads the YAML file at path on top of Default, then applies storage
// credentials from envPath (a .env file, optional) and the process
// environment. A missing config file is not an error when optional is true.
func Load(path string, optional bool, envPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	cfg.Storage.S3 = cfg.Storage.S3.withEnv()
	cfg.Storage.Minio = cfg.Storage.Minio.withEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields every run depends on.
func (c Config) Validate() error {
	if c.WorkingDirectory == "" {
		return errors.New("working_directory must not be empty")
	}
	if c.OutputNamePrefix == "" {
		return errors.New("output_name_prefix must not be empty")
	}
	if c.Converter.Timeout < 0 {
		return errors.New("converter.timeout must not be negative")
	}
	switch c.Storage.Type {
	case "s3", "minio":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
