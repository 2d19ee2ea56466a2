package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/odaga/developer-profile-system/internal/errors"
	"github.com/odaga/developer-profile-system/internal/model"
	"github.com/odaga/developer-profile-system/internal/repository"
	"github.com/odaga/developer-profile-system/internal/service"
)

// ProfileHandler handles profile endpoints.
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// CreateProfileRequest is the payload for creating a profile.
type CreateProfileRequest struct {
	Name             string   `json:"name" validate:"required,min=2,max=100"`
	Email            string   `json:"email" validate:"required,email"`
	Location         string   `json:"location" validate:"required,min=2,max=100"`
	Skills           []string `json:"skills" validate:"required,min=1,dive,min=1"`
	ExperienceYears  int      `json:"experienceYears" validate:"min=0,max=50"`
	AvailableForWork *bool    `json:"availableForWork"`
	HourlyRate       float64  `json:"hourlyRate" validate:"min=0,max=1000"`
}

// UpdateProfileRequest is the payload for a partial profile update. Absent
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Location         *string  `json:"location" validate:"omitempty,min=2,max=100"`
	Skills           []string `json:"skills" validate:"omitempty,min=1,dive,min=1"`
	ExperienceYears  *int     `json:"experienceYears" validate:"omitempty,min=0,max=50"`
	AvailableForWork *bool    `json:"availableForWork"`
	HourlyRate       *float64 `json:"hourlyRate" validate:"omitempty,min=0,max=1000"`
}

// SearchCriteria echoes the normalized filter set back to the caller.
type SearchCriteria struct {
	Location         string   `json:"location,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	AvailableForWork *bool    `json:"availableForWork,omitempty"`
	MinExperience    *int     `json:"minExperience,omitempty"`
	MaxHourlyRate    *float64 `json:"maxHourlyRate,omitempty"`
}

// ListProfilesResponse is the paginated list envelope.
type ListProfilesResponse struct {
	Data       []model.Profile    `json:"data"`
	Pagination service.Pagination `json:"pagination"`
}

// SearchProfilesResponse is the search envelope, including the criteria echo.
type SearchProfilesResponse struct {
	Data       []model.Profile    `json:"data"`
	Pagination service.Pagination `json:"pagination"`
	Criteria   SearchCriteria     `json:"criteria"`
}

// ProfileResponse wraps a single profile.
type ProfileResponse struct {
	Data    *model.Profile `json:"data"`
	Message string         `json:"message,omitempty"`
}

// MessageResponse carries a bare message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListProfiles godoc
// @Summary List profiles
// @Description Paginated directory listing, most recently created first.
// @Tags profiles
// @Produce json
// @Param page query int false "1-based page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} ListProfilesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles [get]
func (h *ProfileHandler) ListProfiles(c echo.Context) error {
	page, limit, problems := parsePageParams(c)
	if len(problems) > 0 {
		return validationFailed(c, problems)
	}

	result, err := h.svc.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ListProfilesResponse{
		Data:       result.Profiles,
		Pagination: result.Pagination,
	})
}

// SearchProfiles godoc
// @Summary Search profiles
// @Description Filtered directory listing. Skills match when a profile carries any of the requested names.
// @Tags profiles
// @Produce json
// @Param location query string false "Location substring"
// @Param skills query []string false "Skill names, repeatable or comma-separated" collectionFormat(multi)
// @Param availableForWork query bool false "Availability flag"
// @Param minExperience query int false "Minimum experience years"
// @Param maxHourlyRate query number false "Maximum hourly rate"
// @Param page query int false "1-based page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} SearchProfilesResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles/search [get]
func (h *ProfileHandler) SearchProfiles(c echo.Context) error {
	page, limit, problems := parsePageParams(c)
	filter, filterProblems := parseFilter(c)
	problems = append(problems, filterProblems...)
	if len(problems) > 0 {
		return validationFailed(c, problems)
	}

	result, err := h.svc.Search(c.Request().Context(), filter, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SearchProfilesResponse{
		Data:       result.Profiles,
		Pagination: result.Pagination,
		Criteria:   criteriaFromFilter(filter),
	})
}

// GetProfile godoc
// @Summary Get profile by id
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return validationFailed(c, []string{"id must be a positive integer"})
	}

	profile, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{Data: profile})
}

// CreateProfile godoc
// @Summary Create profile
// @Tags profiles
// @Accept json
// @Produce json
// @Param profile body CreateProfileRequest true "Profile payload"
// @Success 201 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles [post]
func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return validationFailed(c, []string{"request body must be valid JSON"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, validationMessages(err))
	}

	available := true
	if req.AvailableForWork != nil {
		available = *req.AvailableForWork
	}
	profile := &model.Profile{
		Name:             req.Name,
		Email:            req.Email,
		Location:         req.Location,
		Skills:           req.Skills,
		ExperienceYears:  req.ExperienceYears,
		AvailableForWork: available,
		HourlyRate:       decimal.NewFromFloat(req.HourlyRate).Round(2),
	}

	created, err := h.svc.Create(c.Request().Context(), profile)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ProfileResponse{
		Data:    created,
		Message: "Profile created successfully",
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Partial update; only supplied fields are changed.
// @Tags profiles
// @Accept json
// @Produce json
// @Param id path int true "Profile ID"
// @Param profile body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles/{id} [put]
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return validationFailed(c, []string{"id must be a positive integer"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return validationFailed(c, []string{"request body must be valid JSON"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, validationMessages(err))
	}

	update := service.ProfileUpdate{
		Name:             req.Name,
		Email:            req.Email,
		Location:         req.Location,
		Skills:           req.Skills,
		ExperienceYears:  req.ExperienceYears,
		AvailableForWork: req.AvailableForWork,
	}
	if req.HourlyRate != nil {
		rate := decimal.NewFromFloat(*req.HourlyRate).Round(2)
		update.HourlyRate = &rate
	}

	updated, err := h.svc.Update(c.Request().Context(), id, update)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ProfileResponse{
		Data:    updated,
		Message: "Profile updated successfully",
	})
}

// DeleteProfile godoc
// @Summary Delete profile
// @Tags profiles
// @Produce json
// @Param id path int true "Profile ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /profiles/{id} [delete]
func (h *ProfileHandler) DeleteProfile(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return validationFailed(c, []string{"id must be a positive integer"})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Profile %d deleted successfully", id),
	})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// parsePageParams reads page and limit. Malformed values are rejected rather
// than silently coerced.
func parsePageParams(c echo.Context) (page, limit int, problems []string) {
	page, limit = 0, 0
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, "page must be an integer")
		} else {
			page = parsed
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, "limit must be an integer")
		} else {
			limit = parsed
		}
	}
	return page, limit, problems
}

// parseFilter builds the typed filter set from query parameters. Malformed
// numerics and booleans are rejected, uniformly.
func parseFilter(c echo.Context) (repository.ProfileFilter, []string) {
	var filter repository.ProfileFilter
	var problems []string

	if raw := c.QueryParam("location"); raw != "" {
		filter.Location = &raw
	}
	if raw := c.QueryParam("availableForWork"); raw != "" {
		switch raw {
		case "true", "false":
			v := raw == "true"
			filter.AvailableForWork = &v
		default:
			problems = append(problems, "availableForWork must be true or false")
		}
	}
	if raw := c.QueryParam("minExperience"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, "minExperience must be an integer")
		} else {
			filter.MinExperience = &parsed
		}
	}
	if raw := c.QueryParam("maxHourlyRate"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			problems = append(problems, "maxHourlyRate must be a number")
		} else {
			filter.MaxHourlyRate = &parsed
		}
	}

	// skills may repeat and each value may carry commas
	var skills []string
	for _, raw := range c.QueryParams()["skills"] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				skills = append(skills, part)
			}
		}
	}
	filter.Skills = skills

	return filter, problems
}

func criteriaFromFilter(f repository.ProfileFilter) SearchCriteria {
	criteria := SearchCriteria{
		Skills:           f.Skills,
		AvailableForWork: f.AvailableForWork,
		MinExperience:    f.MinExperience,
	}
	if f.Location != nil {
		criteria.Location = *f.Location
	}
	if f.MaxHourlyRate != nil {
		rate, _ := f.MaxHourlyRate.Float64()
		criteria.MaxHourlyRate = &rate
	}
	return criteria
}

func validationFailed(c echo.Context, problems []string) error {
	return c.JSON(http.StatusBadRequest, errors.ErrorResponse{
		Message: "Validation failed",
		Code:    "VALIDATION_ERROR",
		Errors:  problems,
	})
}

func writeError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// validationMessages flattens validator errors into client-facing messages.
func validationMessages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}
