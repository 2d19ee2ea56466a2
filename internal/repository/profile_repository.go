package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/odaga/developer-profile-system/internal/model"
)

// ProfileFilter is the typed filter set applied to directory searches. A nil
// field means the constraint is absent; Skills match when a profile carries at
// least one of the requested names (OR semantics, exact membership).
type ProfileFilter struct {
	Location         *string
	AvailableForWork *bool
	MinExperience    *int
	MaxHourlyRate    *decimal.Decimal
	Skills           []string
}

// IsZero reports whether no constraint is set.
func (f ProfileFilter) IsZero() bool {
	return f.Location == nil && f.AvailableForWork == nil &&
		f.MinExperience == nil && f.MaxHourlyRate == nil && len(f.Skills) == 0
}

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uint) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error)
	Stats(ctx context.Context) (*model.DirectoryStats, error)
	Ping(ctx context.Context) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func preloadSkills(db *gorm.DB) *gorm.DB {
	return db.Order("profile_skills.position ASC")
}

// applyFilter translates a ProfileFilter into query predicates.
func applyFilter(db *gorm.DB, f ProfileFilter) *gorm.DB {
	if f.Location != nil {
		db = db.Where("location LIKE ?", "%"+*f.Location+"%")
	}
	if f.AvailableForWork != nil {
		db = db.Where("available_for_work = ?", *f.AvailableForWork)
	}
	if f.MinExperience != nil {
		db = db.Where("experience_years >= ?", *f.MinExperience)
	}
	if f.MaxHourlyRate != nil {
		db = db.Where("hourly_rate <= ?", *f.MaxHourlyRate)
	}
	if len(f.Skills) > 0 {
		db = db.Where(
			"EXISTS (SELECT 1 FROM profile_skills WHERE profile_skills.profile_id = profiles.id AND profile_skills.name IN ?)",
			f.Skills,
		)
	}
	return db
}

// Create persists a new profile together with its skill rows.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update rewrites the profile row and replaces its skill rows in one transaction.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", profile.ID).Delete(&model.ProfileSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("SkillRows").Save(profile).Error; err != nil {
			return err
		}
		if len(profile.Skills) == 0 {
			return nil
		}
		rows := make([]model.ProfileSkill, 0, len(profile.Skills))
		for i, name := range profile.Skills {
			rows = append(rows, model.ProfileSkill{ProfileID: profile.ID, Position: i, Name: name})
		}
		return tx.Create(&rows).Error
	})
}

// FindByID finds a profile by id with its skill list.
func (r *profileRepository) FindByID(ctx context.Context, id uint) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Preload("SkillRows", preloadSkills).
		Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email. Skill rows are not loaded; callers use
// this for existence checks.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Delete removes a profile and its skill rows permanently.
func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&model.ProfileSkill{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Profile{}, id).Error
	})
}

// List returns one page of profiles matching the filter, newest first, plus the
// total match count.
func (r *profileRepository) List(ctx context.Context, filter ProfileFilter, offset, limit int) ([]model.Profile, int64, error) {
	var total int64
	if err := applyFilter(r.db.WithContext(ctx).Model(&model.Profile{}), filter).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []model.Profile
	err := applyFilter(r.db.WithContext(ctx).Model(&model.Profile{}), filter).
		Preload("SkillRows", preloadSkills).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// Stats scans the store for the aggregate numbers served by the status endpoint.
func (r *profileRepository) Stats(ctx context.Context) (*model.DirectoryStats, error) {
	var stats model.DirectoryStats

	if err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Count(&stats.TotalProfiles).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Where("available_for_work = ?", true).
		Count(&stats.AvailableProfiles).Error; err != nil {
		return nil, err
	}
	stats.UnavailableProfiles = stats.TotalProfiles - stats.AvailableProfiles

	if stats.TotalProfiles == 0 {
		return &stats, nil
	}

	var agg struct {
		AvgExp  float64
		MinExp  int
		MaxExp  int
		AvgRate float64
		MinRate decimal.Decimal
		MaxRate decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&model.Profile{}).
		Select("AVG(experience_years) AS avg_exp, MIN(experience_years) AS min_exp, MAX(experience_years) AS max_exp, " +
			"AVG(hourly_rate) AS avg_rate, MIN(hourly_rate) AS min_rate, MAX(hourly_rate) AS max_rate").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}

	stats.AverageExperience = agg.AvgExp
	stats.MinExperience = agg.MinExp
	stats.MaxExperience = agg.MaxExp
	stats.AverageRate = agg.AvgRate
	stats.MinRate = agg.MinRate
	stats.MaxRate = agg.MaxRate
	return &stats, nil
}

// Ping reports record store connectivity.
func (r *profileRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
