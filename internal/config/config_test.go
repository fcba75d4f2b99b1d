package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"jaffre-server/internal/util"
)

func TestInstance(t *testing.T) {
	defer util.SetEnv("JAFFRE_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("JAFFRE_SESSION_SECRET", "env-secret")()
	defer util.SetEnv("JAFFRE_GAME_BOT_DELAY", "10ms")()

	a := assert.New(t)
	config = Config{}
	cfg := Instance()

	a.Equal(31, cfg.Game.WinningScore)
	a.Equal(7, cfg.Game.MinBet)
	a.Equal(30*time.Second, cfg.Game.TurnTimeout)
	a.Equal(10*time.Millisecond, cfg.Game.BotDelay)
	a.Equal("env-secret", cfg.Session.Secret)
	a.Equal("localhost:6379", cfg.Redis.Addr)
	a.Equal("jaffre:events", cfg.Redis.Channel)
	a.Equal("debug", cfg.Log.Level)
	a.Equal([]string{"https://jaffre.example"}, cfg.HTTP.AllowedOrigins)

	// ensure that it's only loaded once
	_ = os.Setenv("JAFFRE_SESSION_SECRET", "env-secret-2")
	// ensure we aren't using a pointer
	cfg.Session.Secret = "bad"
	cfg = Instance()
	a.Equal("env-secret", cfg.Session.Secret)
}

func TestDefaults(t *testing.T) {
	defer util.SetEnv("JAFFRE_CONFIG_FILE", "testdata/missing.yaml")()

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, DefaultConfig(), func() Config { c := cfg; c.loaded = false; return c }())
	assert.Equal(t, 15*time.Minute, cfg.Session.GraceWindow)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_Errors(t *testing.T) {
	defer util.SetEnv("JAFFRE_CONFIG_FILE", "testdata/invalid.yaml")()
	assert.Error(t, Load())

	defer util.SetEnv("JAFFRE_CONFIG_FILE", "testdata/config.yaml")()
	defer util.SetEnv("JAFFRE_GAME_MIN_BET", "seven")()
	assert.Error(t, Load())
}
