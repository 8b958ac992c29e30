package main

import (
	"context"

	"anoa.com/blogfeed/internal/bootstrap"
	"anoa.com/blogfeed/internal/config"
	"anoa.com/blogfeed/internal/server"
	"anoa.com/blogfeed/pkg/database"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DSN(), cfg.IsDevelopment() && cfg.LogLevel == "debug")
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}

	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedAdminUser(db, bootstrap.DefaultAdmin); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed admin user")
		}
	}

	redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	if redisClient == nil {
		logger.Warn().Msg("REDIS_URL is not set, using in-process feed cache and no rate limits")
	} else {
		defer redisClient.Close()
	}

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	logger.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server starting")
	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}
