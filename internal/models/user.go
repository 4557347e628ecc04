// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered member of the Verdant community.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Name      string         `gorm:"not null" json:"name"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Contributions []Contribution `gorm:"foreignKey:UserID" json:"contributions,omitempty"`
}

// PublicUser is the owner projection attached to contribution responses.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}
}

// RankedUser is a single row of the contribution ranking.
type RankedUser struct {
	UserID            uint   `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ContributionCount int    `json:"contribution_count"`
}

// UserStats aggregates a user's contribution activity.
type UserStats struct {
	User                 PublicUser     `json:"user"`
	TotalContributions   int            `json:"total_contributions"`
	ContributionsByMonth map[string]int `json:"contributions_by_month"`
	LastContribution     *time.Time     `json:"last_contribution"`
}
