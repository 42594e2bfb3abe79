package config_test

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/neekrasov/ziplib/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		format      string
		expected    config.Config
		expectError bool
	}{
		{
			name:   "Valid YAML config",
			format: "yaml",
			content: `
compression:
  algorithm: "zstd"
  level: 9
archive:
  workers: 8
logging:
  level: "debug"
  output: "/log/output_test.log"
`,
			expected: config.Config{
				Compression: &config.CompressionConfig{
					Algorithm: "zstd",
					Level:     9,
				},
				Archive: &config.ArchiveConfig{
					Workers: 8,
				},
				Logging: &config.LoggingConfig{
					Level:  "debug",
					Output: "/log/output_test.log",
				},
			},
			expectError: false,
		},
		{
			name:   "Invalid YAML config (level is not a number)",
			format: "yaml",
			content: `
compression:
  algorithm: "zstd"
  level: "not-a-number"
archive:
  workers: 8
logging:
  level: "debug"
  output: "/log/output_test.log"
`,
			expected:    config.Config{},
			expectError: true,
		},
		{
			name:   "Valid JSON config",
			format: "json",
			content: `{
				"compression": {
					"algorithm": "zstd",
					"level": 9
				},
				"archive": {
					"workers": 8
				},
				"logging": {
					"level": "debug",
					"output": "/log/output_test.log"
				}
			}`,
			expected: config.Config{
				Compression: &config.CompressionConfig{
					Algorithm: "zstd",
					Level:     9,
				},
				Archive: &config.ArchiveConfig{
					Workers: 8,
				},
				Logging: &config.LoggingConfig{
					Level:  "debug",
					Output: "/log/output_test.log",
				},
			},
			expectError: false,
		},
		{
			name:   "Invalid JSON config (level is not a number)",
			format: "json",
			content: `{
				"compression": {
					"algorithm": "zstd",
					"level": "not-a-number"
				},
				"archive": {
					"workers": 8
				},
				"logging": {
					"level": "debug",
					"output": "/log/output_test.log"
				}
			}`,
			expected:    config.Config{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockReader := bytes.NewReader([]byte(tt.content))
			cfg, err := config.ParseConfig(io.NopCloser(mockReader))
			if !tt.expectError {
				require.NoError(t, err)
				assert.Equal(t, tt.expected.Compression.Algorithm, cfg.Compression.Algorithm)
				assert.Equal(t, tt.expected.Compression.Level, cfg.Compression.Level)
				assert.Equal(t, tt.expected.Archive.Workers, cfg.Archive.Workers)
				assert.Equal(t, tt.expected.Logging.Level, cfg.Logging.Level)
				assert.Equal(t, tt.expected.Logging.Output, cfg.Logging.Output)
				return
			}

			assert.Error(t, err)
		})
	}
}

func TestGetConfig_DefaultConfig(t *testing.T) {
	t.Parallel()

	nonExistentFile := "/path/to/nonexistent/file.yaml"
	cfg, err := config.GetConfig(nonExistentFile)
	require.NoError(t, err)

	expected := config.Config{
		Compression: &config.CompressionConfig{
			Algorithm: "gzip",
			Level:     6,
		},
		Archive: &config.ArchiveConfig{
			Workers: 4,
		},
		Logging: &config.LoggingConfig{
			Level:  "info",
			Output: "",
		},
	}

	assert.Equal(t, expected.Compression.Algorithm, cfg.Compression.Algorithm)
	assert.Equal(t, expected.Compression.Level, cfg.Compression.Level)
	assert.Equal(t, expected.Archive.Workers, cfg.Archive.Workers)
	assert.Equal(t, expected.Logging.Level, cfg.Logging.Level)
	assert.Equal(t, expected.Logging.Output, cfg.Logging.Output)
}

func TestGetConfig_InvalidFileContent(t *testing.T) {
	t.Parallel()

	content := `{{ not yaml, not json`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	_, err = config.GetConfig(tmpFile.Name())
	assert.Error(t, err)
}
