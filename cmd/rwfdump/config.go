package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arloliu/omm/format"
	"github.com/arloliu/omm/rwf"
)

// config is the resolved rwfdump configuration. Flags override file values.
type config struct {
	Dictionary   string
	Compression  format.CompressionType
	MinCompress  int
	LogLevel     zapcore.Level
	Major, Minor uint8
}

func defaultConfig() config {
	return config{
		Compression: format.CompressionNone,
		MinCompress: 64,
		LogLevel:    zapcore.WarnLevel,
		Major:       rwf.MajorVersion,
		Minor:       rwf.MinorVersion,
	}
}

// fileConfig is the TOML layout of a config file:
//
//	dictionary = "fields.yaml"
//	compression = "zstd"
//	min_compress = 128
//	log_level = "debug"
//	wire_version = "14.1"
type fileConfig struct {
	Dictionary  string `toml:"dictionary"`
	Compression string `toml:"compression"`
	MinCompress int    `toml:"min_compress"`
	LogLevel    string `toml:"log_level"`
	WireVersion string `toml:"wire_version"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("dictionary") {
		cfg.Dictionary = strings.TrimSpace(raw.Dictionary)
	}

	if meta.IsDefined("compression") {
		ct, err := parseCompression(raw.Compression)
		if err != nil {
			return config{}, err
		}
		cfg.Compression = ct
	}

	if meta.IsDefined("min_compress") {
		if raw.MinCompress < 0 {
			return config{}, fmt.Errorf("parse min_compress: negative value %d", raw.MinCompress)
		}
		cfg.MinCompress = raw.MinCompress
	}

	if meta.IsDefined("log_level") {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("wire_version") {
		major, minor, err := parseWireVersion(raw.WireVersion)
		if err != nil {
			return config{}, err
		}
		cfg.Major, cfg.Minor = major, minor
	}

	return cfg, nil
}

func parseCompression(name string) (format.CompressionType, error) {
	ct, ok := format.ParseCompressionType(strings.TrimSpace(name))
	if !ok {
		return format.CompressionNone, fmt.Errorf("parse compression: unknown codec %q", name)
	}

	return ct, nil
}

func parseWireVersion(s string) (uint8, uint8, error) {
	var major, minor uint8
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d.%d", &major, &minor); err != nil {
		return 0, 0, fmt.Errorf("parse wire_version %q: %w", s, err)
	}

	return major, minor, nil
}

// newLogger builds the console logger used by every subcommand. Logs go to
// stderr so that decoded output on stdout stays clean.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true

	return zc.Build()
}
