package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"trojsten-graph/backend/pkg/config"
)

func TestLoggerOptions(t *testing.T) {
	cfg := &config.Config{
		Env:           "production",
		LogLevel:      "warn",
		LogFile:       "/var/log/graph.log",
		LogMaxSizeMB:  10,
		LogMaxBackups: 2,
		LogMaxAgeDays: 7,
		LogCompress:   true,
	}

	opts := loggerOptions(cfg)

	assert.Equal(t, "production", opts.Env)
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "/var/log/graph.log", opts.File)
	assert.Equal(t, 10, opts.MaxSizeMB)
	assert.Equal(t, 2, opts.MaxBackups)
	assert.Equal(t, 7, opts.MaxAgeDays)
	assert.True(t, opts.Compress)
}
