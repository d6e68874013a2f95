package config

import (
	"fmt"

	"github.com/microblog-hq/api-go/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	// TranslateError maps driver duplicate-key failures onto
	// gorm.ErrDuplicatedKey, which the follow repository relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Post{}, &models.Follow{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	return db
}
