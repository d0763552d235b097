package main

import (
	"context"
	"errors"
	"fmt"
	"imgforge/internal/adapters/handler"
	"imgforge/internal/adapters/pdf"
	"imgforge/internal/adapters/raster"
	"imgforge/internal/adapters/storage"
	"imgforge/internal/core/domain/tool"
	"imgforge/internal/core/service"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting imgforge...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("server.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	artifactTTL, err := time.ParseDuration(viper.GetString("storage.artifact_ttl"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid artifact TTL in config")
	}

	store, err := storage.NewScratchStore(viper.GetString("storage.scratch_dir"), artifactTTL)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing scratch store")
	}

	engine := raster.NewEngine()

	toolRegistry := &tool.Registry{}
	toolRegistry.Register(tool.NewResizeTool(engine, "resize"))
	toolRegistry.Register(tool.NewCropTool(engine, "crop"))
	toolRegistry.Register(tool.NewRotateTool(engine, "rotate"))
	toolRegistry.Register(tool.NewConvertTool(engine, "convert"))
	toolRegistry.Register(tool.NewCompressTool(engine, "compress"))

	tokenTTL, err := time.ParseDuration(viper.GetString("share.token_ttl"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid share token TTL in config")
	}

	issuer := service.NewShareService(store, tokenTTL)
	assembler := pdf.NewAssembler()

	srv := handler.NewServer(store, toolRegistry, assembler, issuer, handler.Config{
		MaxUploadBytes: viper.GetInt64("server.max_upload_bytes"),
		MaxMergeFiles:  viper.GetInt("server.max_merge_files"),
		RatePerMinute:  viper.GetInt("server.rate_limit_per_minute"),
	})

	reapInterval, err := time.ParseDuration(viper.GetString("storage.reap_interval"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid reap interval in config")
	}

	reaper := service.NewReaper(reapInterval, store, issuer, srv.Limiter())
	go reaper.Run(ctx)

	addr := fmt.Sprintf(":%d", viper.GetInt("server.port"))
	if err := srv.Serve(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server stopped unexpectedly")
	}

	log.Info().Msg("shutdown complete")
}
