package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Compression *CompressionConfig `yaml:"compression" json:"compression"`
		Archive     *ArchiveConfig     `yaml:"archive" json:"archive"`
		Logging     *LoggingConfig     `yaml:"logging" json:"logging"`
	}

	CompressionConfig struct {
		Algorithm string `yaml:"algorithm" json:"algorithm"`
		Level     int    `yaml:"level" json:"level"`
	}

	ArchiveConfig struct {
		Workers int `yaml:"workers" json:"workers"`
	}

	LoggingConfig struct {
		Level  string `yaml:"level" json:"level"`
		Output string `yaml:"output" json:"output"`
	}
)

func GetConfig(path string) (Config, error) {
	configContent, err := GetConfigReader(path)
	if err != nil {
		return Config{}, err
	}

	return ParseConfig(configContent)
}

func ParseConfig(input io.ReadCloser) (Config, error) {
	defer input.Close()

	var (
		cfg      Config
		parseErr strings.Builder
	)

	for _, parser := range []func(io.Reader, *Config) error{yamlParser, jsonParser} {
		var err error
		if err = parser(input, &cfg); err == nil {
			return cfg, nil
		}
		_, _ = parseErr.WriteString(fmt.Sprintf("Error parsing config: %s\n", err.Error()))
	}

	return cfg, errors.New(parseErr.String())
}

func yamlParser(input io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(input)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("cant decode yaml config: %w", err)
	}

	return nil
}

func jsonParser(input io.Reader, config *Config) error {
	decoder := json.NewDecoder(input)
	if err := decoder.Decode(config); err != nil {
		return fmt.Errorf("cant decode json config: %w", err)
	}

	return nil
}
