package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/microblog-hq/api-go/cache"
	"github.com/microblog-hq/api-go/config"
	"github.com/microblog-hq/api-go/mail"
	"github.com/microblog-hq/api-go/routes"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db := config.InitDB(cfg)

	rdb := cache.Init(cfg.RedisAddr)

	mailer := mail.New(cfg)
	mailer.Start()

	r := gin.Default()
	routes.SetupRoutes(r, db, cfg, mailer, rdb)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
