package seed

import (
	"fmt"

	"verdant/internal/middleware"
	"verdant/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with generated demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumContributions <= 0 {
		opts.NumContributions = 100
	}
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		opts:    opts,
	}
}

// ClearAll removes all rows, tombstones included, so a fresh seed run
// starts from an empty database.
func (s *Seeder) ClearAll() error {
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.Contribution{}).Error; err != nil {
		return fmt.Errorf("clear contributions: %w", err)
	}
	if err := s.db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

// Run creates users and spreads contributions across them unevenly, so
// the ranking has a meaningful shape rather than a flat distribution.
func (s *Seeder) Run() error {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	contributions := make([]*models.Contribution, 0, s.opts.NumContributions)
	for i := 0; i < s.opts.NumContributions; i++ {
		// Squaring the draw skews ownership toward early users.
		idx := (i * i) % len(users)
		contributions = append(contributions, s.factory.BuildContribution(users[idx]))
	}
	if err := s.factory.CreateContributionsBatch(contributions); err != nil {
		return fmt.Errorf("create contributions: %w", err)
	}

	middleware.Logger.Info("seeding complete",
		"users", len(users),
		"contributions", len(contributions))
	return nil
}
