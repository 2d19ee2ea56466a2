package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	_ "github.com/odaga/developer-profile-system/docs" // swagger docs

	"github.com/odaga/developer-profile-system/internal/config"
	"github.com/odaga/developer-profile-system/internal/db"
	"github.com/odaga/developer-profile-system/internal/handler"
	"github.com/odaga/developer-profile-system/internal/model"
	"github.com/odaga/developer-profile-system/internal/ratelimit"
	"github.com/odaga/developer-profile-system/internal/repository"
	"github.com/odaga/developer-profile-system/internal/router"
	"github.com/odaga/developer-profile-system/internal/service"
)

// @title Developer Profile Directory API
// @version 1.0
// @description Directory service for developer profiles with paginated listing, filtered search, and full CRUD.
// @host localhost:3000
// @BasePath /api
// @schemes http
func main() {
	cfg := config.Load()

	// hourlyRate renders as a JSON number, not a quoted string
	decimal.MarshalJSONWithoutQuotes = true

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		for _, table := range []interface{}{&model.ProfileSkill{}, &model.Profile{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(&model.Profile{}, &model.ProfileSkill{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	profileRepo := repository.NewProfileRepository(gormDB)
	profileService := service.NewProfileService(profileRepo)

	profileHandler := handler.NewProfileHandler(profileService)
	statusHandler := handler.NewStatusHandler(profileService)

	redisClient := ratelimit.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	limiter := ratelimit.New(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow)

	router.Register(e, cfg, profileHandler, statusHandler, limiter)

	addr := ":" + cfg.ServerPort
	log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
