package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type WriterConfig struct {
	PageSizeThreshold          int64 `yaml:"page_size_threshold"`
	PagePointUpperBound        int   `yaml:"page_point_upper_bound"`
	MinimumRecordCountForCheck int   `yaml:"minimum_record_count_for_check"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Compress        bool   `yaml:"compress"`
	Concurrency     int    `yaml:"concurrency"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type Config struct {
	Writer  WriterConfig  `yaml:"writer"`
	File    FileConfig    `yaml:"file"`
	Storage StorageConfig `yaml:"storage"`
}

func Default() Config {
	return Config{
		Writer: WriterConfig{
			PageSizeThreshold:          64 * 1024,
			PagePointUpperBound:        1024 * 1024,
			MinimumRecordCountForCheck: 1500,
		},
		File: FileConfig{
			Dir: "./tmp/segments",
		},
		Storage: StorageConfig{
			Concurrency: 4,
		},
	}
}

// Load reads the configuration file at path on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Writer.PageSizeThreshold < 0 {
		return fmt.Errorf("writer.page_size_threshold must be >= 0")
	}
	if c.Writer.PagePointUpperBound <= 0 {
		return fmt.Errorf("writer.page_point_upper_bound must be > 0")
	}
	if c.Writer.MinimumRecordCountForCheck <= 0 {
		return fmt.Errorf("writer.minimum_record_count_for_check must be > 0")
	}
	if c.File.Dir == "" {
		return fmt.Errorf("file.dir is required")
	}
	if c.Storage.Concurrency <= 0 {
		return fmt.Errorf("storage.concurrency must be > 0")
	}
	return nil
}
