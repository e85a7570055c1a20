package main

import (
	"context"
	"errors"
	"os"

	"github.com/russellkim98/RKADE-sync/internal/services"
	"github.com/russellkim98/RKADE-sync/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	var spotifyService services.Service

	config := shared.DefaultConfig()
	if _, err := os.Stat(defaultConfigPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(defaultConfigPath); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				svc.AuthenticateToken(context.Background(), token)
			}
			// Persist refreshed tokens so the next invocation skips the browser flow.
			svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
				if err := config.Credentials.Spotify.Update(token); err != nil {
					return
				}
				if err := shared.SaveConfig(defaultConfigPath, config); err != nil {
					logger.Warn("failed to persist refreshed token", "error", err)
				}
			})
			spotifyService = svc
		}
	}

	ytmusicService := services.NewYTMusicService(config.Downloader)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Spotify:    spotifyService,
		YTMusic:    ytmusicService,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "rkade",
		Usage:    "Mirror Spotify playlists into a local DJ audio library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
