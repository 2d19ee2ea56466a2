package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Profile represents a developer's directory entry.
type Profile struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null"`
	Email            string          `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Location         string          `json:"location" gorm:"size:100;not null;index"`
	Skills           []string        `json:"skills" gorm:"-"`
	SkillRows        []ProfileSkill  `json:"-" gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE"`
	ExperienceYears  int             `json:"experienceYears" gorm:"not null;index"`
	AvailableForWork bool            `json:"availableForWork" gorm:"not null;index"`
	HourlyRate       decimal.Decimal `json:"hourlyRate" gorm:"type:decimal(10,2);not null"`
	CreatedAt        time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ProfileSkill is one row of a profile's ordered skill list. Position preserves
// the order skills were submitted in.
type ProfileSkill struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	ProfileID uint   `json:"-" gorm:"index:idx_profile_position,unique;not null"`
	Position  int    `json:"-" gorm:"index:idx_profile_position,unique;not null"`
	Name      string `json:"-" gorm:"size:100;not null;index"`
}

// TableName keeps the relation under profile_skills regardless of pluralization.
func (ProfileSkill) TableName() string {
	return "profile_skills"
}

// BeforeSave materializes the Skills slice into skill rows before a write.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	if p.Skills == nil {
		return nil
	}
	rows := make([]ProfileSkill, 0, len(p.Skills))
	for i, name := range p.Skills {
		rows = append(rows, ProfileSkill{ProfileID: p.ID, Position: i, Name: name})
	}
	p.SkillRows = rows
	return nil
}

// AfterFind rebuilds the Skills slice from preloaded skill rows.
func (p *Profile) AfterFind(tx *gorm.DB) error {
	p.Skills = make([]string, 0, len(p.SkillRows))
	for _, row := range p.SkillRows {
		p.Skills = append(p.Skills, row.Name)
	}
	return nil
}

// DirectoryStats holds the aggregate numbers reported by the status endpoint.
type DirectoryStats struct {
	TotalProfiles       int64           `json:"totalProfiles"`
	AvailableProfiles   int64           `json:"availableProfiles"`
	UnavailableProfiles int64           `json:"unavailableProfiles"`
	AverageExperience   float64         `json:"averageExperience"`
	MinExperience       int             `json:"minExperience"`
	MaxExperience       int             `json:"maxExperience"`
	AverageRate         float64         `json:"averageRate"`
	MinRate             decimal.Decimal `json:"minRate"`
	MaxRate             decimal.Decimal `json:"maxRate"`
}
