package main

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/odaga/developer-profile-system/internal/config"
	"github.com/odaga/developer-profile-system/internal/db"
	"github.com/odaga/developer-profile-system/internal/model"
	"github.com/odaga/developer-profile-system/internal/repository"
)

func sampleProfiles() []model.Profile {
	return []model.Profile{
		{
			Name:             "Alice Johnson",
			Email:            "alice.johnson@email.com",
			Location:         "San Francisco, CA",
			Skills:           []string{"React", "Node.js", "TypeScript", "MongoDB"},
			ExperienceYears:  5,
			AvailableForWork: true,
			HourlyRate:       decimal.NewFromInt(85),
		},
		{
			Name:             "Bob Smith",
			Email:            "bob.smith@email.com",
			Location:         "New York, NY",
			Skills:           []string{"Python", "Django", "PostgreSQL", "AWS"},
			ExperienceYears:  7,
			AvailableForWork: false,
			HourlyRate:       decimal.NewFromInt(95),
		},
		{
			Name:             "Carol Davis",
			Email:            "carol.davis@email.com",
			Location:         "Austin, TX",
			Skills:           []string{"JavaScript", "Vue.js", "Express", "MySQL"},
			ExperienceYears:  3,
			AvailableForWork: true,
			HourlyRate:       decimal.NewFromInt(65),
		},
		{
			Name:             "David Wilson",
			Email:            "david.wilson@email.com",
			Location:         "Seattle, WA",
			Skills:           []string{"Go", "Kubernetes", "Docker", "gRPC"},
			ExperienceYears:  8,
			AvailableForWork: true,
			HourlyRate:       decimal.NewFromInt(110),
		},
		{
			Name:             "Eva Martinez",
			Email:            "eva.martinez@email.com",
			Location:         "Denver, CO",
			Skills:           []string{"Java", "Spring Boot", "Kafka", "Redis"},
			ExperienceYears:  6,
			AvailableForWork: false,
			HourlyRate:       decimal.NewFromInt(90),
		},
	}
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Profile{}, &model.ProfileSkill{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	repo := repository.NewProfileRepository(gormDB)
	ctx := context.Background()

	created, skipped := 0, 0
	for _, profile := range sampleProfiles() {
		_, err := repo.FindByEmail(ctx, profile.Email)
		if err == nil {
			skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error checking profile %s: %v", profile.Email, err)
		}

		if err := repo.Create(ctx, &profile); err != nil {
			log.Fatalf("Error creating profile %s: %v", profile.Email, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New profiles created: %d", created)
	log.Printf("  - Existing profiles skipped: %d", skipped)
}
