package config

import (
	"errors"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"jaffre-server/internal/util"
)

// Config provides configuration for the Jaffre server
type Config struct {
	loaded bool
	Game   struct {
		WinningScore int           `yaml:"winningScore" envconfig:"winning_score"`
		MinBet       int           `yaml:"minBet" envconfig:"min_bet"`
		MaxBet       int           `yaml:"maxBet" envconfig:"max_bet"`
		TurnTimeout  time.Duration `yaml:"turnTimeout" envconfig:"turn_timeout"`
		BotDelay     time.Duration `yaml:"botDelay" envconfig:"bot_delay"`
	} `yaml:"game"`
	Session struct {
		// Secret signs session tokens. A random one is used when empty, so tokens do not survive a restart
		Secret        string        `yaml:"secret"`
		ConnectWindow time.Duration `yaml:"connectWindow" envconfig:"connect_window"`
		GraceWindow   time.Duration `yaml:"graceWindow" envconfig:"grace_window"`
	} `yaml:"session"`
	Redis struct {
		// Addr enables the event mirror when set
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
	} `yaml:"redis"`
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	HTTP struct {
		AllowedOrigins []string `yaml:"allowedOrigins" envconfig:"allowed_origins"`
	} `yaml:"http"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	var c Config
	c.Game.WinningScore = 41
	c.Game.MinBet = 7
	c.Game.MaxBet = 12
	c.Game.TurnTimeout = time.Minute
	c.Game.BotDelay = 750 * time.Millisecond
	c.Session.ConnectWindow = 2 * time.Minute
	c.Session.GraceWindow = 15 * time.Minute
	c.Redis.Channel = "jaffre:events"
	c.Log.Level = "info"
	c.HTTP.AllowedOrigins = []string{"*"}

	return c
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The file is optional. Environment variables prefixed with JAFFRE_ override it
func Load() error {
	c := DefaultConfig()

	configFile := util.Getenv("JAFFRE_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&c); err != nil {
			return err
		}
	}

	if err := envconfig.Process("jaffre", &c); err != nil {
		return err
	}

	c.loaded = true
	config = c
	return nil
}
