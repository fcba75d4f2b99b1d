package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"jaffre-server/internal/config"
	"jaffre-server/internal/mux"
	"jaffre-server/pkg/game"
	"jaffre-server/pkg/room"
	"jaffre-server/pkg/session"
	"jaffre-server/pkg/token"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	cfg := config.Instance()

	secret := cfg.Session.Secret
	if secret == "" {
		var err error
		if secret, err = token.Secret(); err != nil {
			logrus.WithError(err).Fatal("could not generate session secret")
		}

		logrus.Warn("no session secret configured, tokens will not survive a restart")
	}

	publisher, closePublisher := setupPublisher(cfg)
	defer closePublisher()

	pitBoss, err := room.NewPitBoss(room.Config{
		Options: game.Options{
			WinningScore: cfg.Game.WinningScore,
			MinBet:       cfg.Game.MinBet,
			MaxBet:       cfg.Game.MaxBet,
		},
		TurnTimeout: cfg.Game.TurnTimeout,
		BotDelay:    cfg.Game.BotDelay,
		Session: session.Options{
			Secret:        secret,
			ConnectWindow: cfg.Session.ConnectWindow,
			GraceWindow:   cfg.Session.GraceWindow,
		},
		Publisher: publisher,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create pit boss")
	}

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, pitBoss))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logrus.Info("shutting down")
		if err := srv.Shutdown(ctx); err != nil {
			logrus.WithError(err).Error("could not shut down cleanly")
		}
	}()

	logrus.WithField("addr", srv.Addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("server stopped")
	}
}

// setupPublisher mirrors events to Redis when an address is configured
func setupPublisher(cfg config.Config) (room.Publisher, func()) {
	if cfg.Redis.Addr == "" {
		return nil, func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("redis is not reachable, events will be dropped until it is")
	}

	publisher := room.NewRedisPublisher(client, cfg.Redis.Channel, 0)
	logrus.WithFields(logrus.Fields{
		"addr":    cfg.Redis.Addr,
		"channel": cfg.Redis.Channel,
	}).Info("mirroring events to redis")

	return publisher, func() {
		publisher.Close()
		_ = client.Close()
	}
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
