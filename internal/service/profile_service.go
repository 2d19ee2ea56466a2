package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/odaga/developer-profile-system/internal/errors"
	"github.com/odaga/developer-profile-system/internal/model"
	"github.com/odaga/developer-profile-system/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Pagination describes the window of an ordered result set.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// ListResult bundles one page of profiles with its pagination descriptor.
type ListResult struct {
	Profiles   []model.Profile
	Pagination Pagination
}

// ProfileUpdate carries a partial update. Nil fields are left untouched; a nil
// Skills slice keeps the existing skill list.
type ProfileUpdate struct {
	Name             *string
	Email            *string
	Location         *string
	Skills           []string
	ExperienceYears  *int
	AvailableForWork *bool
	HourlyRate       *decimal.Decimal
}

// ProfileService exposes the directory operations.
type ProfileService interface {
	List(ctx context.Context, page, limit int) (*ListResult, error)
	Search(ctx context.Context, filter repository.ProfileFilter, page, limit int) (*ListResult, error)
	Get(ctx context.Context, id uint) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	Update(ctx context.Context, id uint, update ProfileUpdate) (*model.Profile, error)
	Delete(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*model.DirectoryStats, error)
	Ping(ctx context.Context) error
}

type profileService struct {
	repo repository.ProfileRepository
}

// NewProfileService builds a ProfileService on top of a repository.
func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// NormalizePage clamps a page number to >= 1, defaulting absent values.
func NormalizePage(page int) int {
	if page < 1 {
		return defaultPage
	}
	return page
}

// NormalizeLimit defaults non-positive limits.
func NormalizeLimit(limit int) int {
	if limit < 1 {
		return defaultLimit
	}
	return limit
}

func paginate(totalItems int64, page, limit int) Pagination {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
		ItemsPerPage: limit,
	}
}

// List returns the full directory, paginated, newest first.
func (s *profileService) List(ctx context.Context, page, limit int) (*ListResult, error) {
	return s.Search(ctx, repository.ProfileFilter{}, page, limit)
}

// Search returns the profiles matching the filter, paginated, newest first.
func (s *profileService) Search(ctx context.Context, filter repository.ProfileFilter, page, limit int) (*ListResult, error) {
	page = NormalizePage(page)
	limit = NormalizeLimit(limit)

	profiles, total, err := s.repo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Profiles:   profiles,
		Pagination: paginate(total, page, limit),
	}, nil
}

// Get retrieves one profile by id.
func (s *profileService) Get(ctx context.Context, id uint) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Create persists a new profile after checking email uniqueness. The storage
// unique constraint backstops the non-atomic pre-check: a duplicate-key write is
// reported as the same conflict.
func (s *profileService) Create(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	if _, err := s.repo.FindByEmail(ctx, profile.Email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return profile, nil
}

// Update merges the supplied fields into an existing profile. The email
// uniqueness check only runs when the email actually changes.
func (s *profileService) Update(ctx context.Context, id uint, update ProfileUpdate) (*model.Profile, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, err
	}

	if update.Email != nil && *update.Email != existing.Email {
		if _, err := s.repo.FindByEmail(ctx, *update.Email); err == nil {
			return nil, apperrors.ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		existing.Email = *update.Email
	}
	if update.Name != nil {
		existing.Name = *update.Name
	}
	if update.Location != nil {
		existing.Location = *update.Location
	}
	if update.Skills != nil {
		existing.Skills = update.Skills
	}
	if update.ExperienceYears != nil {
		existing.ExperienceYears = *update.ExperienceYears
	}
	if update.AvailableForWork != nil {
		existing.AvailableForWork = *update.AvailableForWork
	}
	if update.HourlyRate != nil {
		existing.HourlyRate = *update.HourlyRate
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return existing, nil
}

// Delete removes a profile permanently.
func (s *profileService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Stats reports the directory aggregates served by the status endpoint.
func (s *profileService) Stats(ctx context.Context) (*model.DirectoryStats, error) {
	return s.repo.Stats(ctx)
}

// Ping reports record store connectivity.
func (s *profileService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
