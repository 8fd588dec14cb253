package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jamroom/server/internal/controller"
	"github.com/jamroom/server/internal/hub"
	authRedis "github.com/jamroom/server/internal/repository/auth/redis"
	roomRedis "github.com/jamroom/server/internal/repository/room/redis"
	authservice "github.com/jamroom/server/internal/service/auth"
	"github.com/jamroom/server/internal/service/player"
	roomservice "github.com/jamroom/server/internal/service/room"
	"github.com/jamroom/server/internal/upstream/spotify"
	"github.com/jamroom/server/pkg/ctxlogger"
	"github.com/jamroom/server/pkg/redisclient"
)

type AppConfig struct {
	Secret              string `json:"-"`
	Host                string `json:"host"`
	Port                int    `json:"port"`
	LogLevel            string `json:"log_level"`
	RedisHost           string `json:"redis_host"`
	RedisPort           int    `json:"redis_port"`
	RedisPassword       string `json:"-"`
	SpotifyClientId     string `json:"spotify_client_id"`
	SpotifyClientSecret string `json:"-"`
	SpotifyRedirectURI  string `json:"spotify_redirect_uri"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must be set")
	}
	if cfg.SpotifyClientId == "" || cfg.SpotifyClientSecret == "" {
		return fmt.Errorf("spotify credentials must be set")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	roomRepo := roomRedis.NewRepo(rc, 24*14*time.Hour)
	tokenRepo := authRedis.NewRepo(rc, 24*14*time.Hour)

	spotifyClient := spotify.NewClient(&spotify.Config{
		ClientId:     cfg.SpotifyClientId,
		ClientSecret: cfg.SpotifyClientSecret,
		RedirectURI:  cfg.SpotifyRedirectURI,
	})

	broadcastHub := hub.New(logger)
	broadcastHub.AttachBridge(serverCtx, rc)

	roomService := roomservice.NewService(roomRepo, logger)
	authService := authservice.NewService(tokenRepo, spotifyClient, logger)
	playerService := player.NewService(roomRepo, authService, spotifyClient, broadcastHub, logger)

	controller := controller.NewController(roomService, playerService, authService, broadcastHub, cfg.Secret, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
