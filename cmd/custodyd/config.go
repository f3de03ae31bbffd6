package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is read from <home>/config/custodyd.toml. Flags passed to start
// take precedence over it.
type Config struct {
	Start    server.StartOptions
	LogLevel string
}

type fileConfig struct {
	Bind     string `toml:"bind"`
	Debug    bool   `toml:"debug"`
	Metrics  string `toml:"metrics"`
	LogLevel string `toml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Start:    server.DefaultStartOptions,
		LogLevel: "info",
	}
}

func configPath(home string) string {
	return filepath.Join(home, "config", "custodyd.toml")
}

// loadConfig overlays the keys set in the config file on the defaults. A
// missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "decode %s: %s", path, err)
	}
	if meta.IsDefined("bind") {
		cfg.Start.Bind = raw.Bind
	}
	if meta.IsDefined("debug") {
		cfg.Start.Debug = raw.Debug
	}
	if meta.IsDefined("metrics") {
		cfg.Start.Metrics = raw.Metrics
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.Wrapf(errors.ErrInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

func newLogger(level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).With("module", "custody")
	return log.NewFilter(logger, allowed), nil
}
