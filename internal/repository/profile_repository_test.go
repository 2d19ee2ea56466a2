package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/odaga/developer-profile-system/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// a second pool connection would see a fresh in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err, "failed to access sql pool")
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&model.Profile{}, &model.ProfileSkill{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func seedProfile(t *testing.T, repo ProfileRepository, email string, skills []string, exp int, available bool, rate int64, createdAt time.Time) *model.Profile {
	t.Helper()

	profile := &model.Profile{
		Name:             "Dev " + email,
		Email:            email,
		Location:         "San Francisco, CA",
		Skills:           skills,
		ExperienceYears:  exp,
		AvailableForWork: available,
		HourlyRate:       decimal.NewFromInt(rate),
		CreatedAt:        createdAt,
	}
	err := repo.Create(context.Background(), profile)
	require.NoError(t, err, "failed to seed profile")

	return profile
}

func strPtr(s string) *string                   { return &s }
func intPtr(i int) *int                         { return &i }
func boolPtr(b bool) *bool                      { return &b }
func decPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestProfileRepository_CreateAndFindByID(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	created := seedProfile(t, repo, "alice@example.com", []string{"B", "A", "C"}, 5, true, 85, time.Now())
	require.NotZero(t, created.ID)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", found.Email)
	assert.Equal(t, []string{"B", "A", "C"}, found.Skills, "skill order must survive the round-trip")
	assert.True(t, found.HourlyRate.Equal(decimal.NewFromInt(85)))
}

func TestProfileRepository_DuplicateEmail(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	seedProfile(t, repo, "dup@example.com", []string{"Go"}, 1, true, 10, time.Now())

	err := repo.Create(ctx, &model.Profile{
		Name:            "Other Dev",
		Email:           "dup@example.com",
		Location:        "Austin, TX",
		Skills:          []string{"Rust"},
		ExperienceYears: 2,
		HourlyRate:      decimal.NewFromInt(20),
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestProfileRepository_FindByEmail(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	seedProfile(t, repo, "carol@example.com", []string{"Go"}, 3, true, 65, time.Now())

	found, err := repo.FindByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileRepository_List_OrderAndWindow(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProfile(t, repo, []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}[i],
			[]string{"Go"}, i, true, 50, base.Add(time.Duration(i)*time.Minute))
	}

	profiles, total, err := repo.List(ctx, ProfileFilter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, profiles, 2)
	assert.Equal(t, "e@x.com", profiles[0].Email, "most recently created first")
	assert.Equal(t, "d@x.com", profiles[1].Email)

	profiles, total, err = repo.List(ctx, ProfileFilter{}, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, profiles, 1, "last page holds the remainder")
	assert.Equal(t, "a@x.com", profiles[0].Email)
}

func TestProfileRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedProfile(t, repo, "react@x.com", []string{"React", "SQL"}, 6, true, 80, now)
	seedProfile(t, repo, "vue@x.com", []string{"Vue", "SQL"}, 4, false, 60, now.Add(time.Second))
	seedProfile(t, repo, "go@x.com", []string{"Go"}, 8, true, 120, now.Add(2*time.Second))

	tests := []struct {
		name           string
		filter         ProfileFilter
		expectedEmails []string
	}{
		{
			name:           "min experience",
			filter:         ProfileFilter{MinExperience: intPtr(5)},
			expectedEmails: []string{"go@x.com", "react@x.com"},
		},
		{
			name: "min experience intersected with max rate",
			filter: ProfileFilter{
				MinExperience: intPtr(5),
				MaxHourlyRate: decPtr(decimal.NewFromInt(80)),
			},
			expectedEmails: []string{"react@x.com"},
		},
		{
			name:           "skills match any requested name",
			filter:         ProfileFilter{Skills: []string{"React", "Go"}},
			expectedEmails: []string{"go@x.com", "react@x.com"},
		},
		{
			name:           "skill matching is exact, not substring",
			filter:         ProfileFilter{Skills: []string{"Reac"}},
			expectedEmails: []string{},
		},
		{
			name:           "availability flag",
			filter:         ProfileFilter{AvailableForWork: boolPtr(false)},
			expectedEmails: []string{"vue@x.com"},
		},
		{
			name:           "location substring",
			filter:         ProfileFilter{Location: strPtr("Francisco")},
			expectedEmails: []string{"go@x.com", "vue@x.com", "react@x.com"},
		},
		{
			name:           "no match",
			filter:         ProfileFilter{Location: strPtr("Berlin")},
			expectedEmails: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles, total, err := repo.List(ctx, tt.filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.expectedEmails)), total)

			emails := make([]string, 0, len(profiles))
			for _, p := range profiles {
				emails = append(emails, p.Email)
			}
			assert.Equal(t, tt.expectedEmails, emails)
		})
	}
}

func TestProfileRepository_Update_ReplacesSkills(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	profile := seedProfile(t, repo, "update@x.com", []string{"React", "SQL"}, 5, true, 85, time.Now())

	profile.Skills = []string{"Go", "Kubernetes"}
	profile.ExperienceYears = 6
	require.NoError(t, repo.Update(ctx, profile))

	found, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, found.Skills)
	assert.Equal(t, 6, found.ExperienceYears)

	// old skill rows must be gone
	_, total, err := repo.List(ctx, ProfileFilter{Skills: []string{"React"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestProfileRepository_Delete(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	profile := seedProfile(t, repo, "gone@x.com", []string{"Go"}, 3, true, 50, time.Now())

	require.NoError(t, repo.Delete(ctx, profile.ID))

	_, err := repo.FindByID(ctx, profile.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// skill rows are removed with the profile
	_, total, err := repo.List(ctx, ProfileFilter{Skills: []string{"Go"}}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestProfileRepository_Stats(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalProfiles, "empty store yields zero stats")

	now := time.Now()
	seedProfile(t, repo, "s1@x.com", []string{"Go"}, 2, true, 40, now)
	seedProfile(t, repo, "s2@x.com", []string{"Go"}, 4, true, 60, now)
	seedProfile(t, repo, "s3@x.com", []string{"Go"}, 9, false, 110, now)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalProfiles)
	assert.Equal(t, int64(2), stats.AvailableProfiles)
	assert.Equal(t, int64(1), stats.UnavailableProfiles)
	assert.Equal(t, 2, stats.MinExperience)
	assert.Equal(t, 9, stats.MaxExperience)
	assert.InDelta(t, 5.0, stats.AverageExperience, 0.001)
	assert.InDelta(t, 70.0, stats.AverageRate, 0.001)
	assert.True(t, stats.MinRate.Equal(decimal.NewFromInt(40)))
	assert.True(t, stats.MaxRate.Equal(decimal.NewFromInt(110)))
}
