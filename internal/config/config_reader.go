package config

import (
	"bytes"
	"io"
	"os"
)

func GetConfigReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}

	var defaultConfigYaml = `compression:
  algorithm: "gzip"
  level: 6
archive:
  workers: 4
logging:
  level: "info"
  output: ""
`

	var bb bytes.Buffer
	if _, err = bb.WriteString(defaultConfigYaml); err != nil {
		return nil, err
	}

	return io.NopCloser(&bb), nil
}
