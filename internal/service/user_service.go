package service

import (
	"context"
	"errors"
	"time"

	"verdant/internal/models"
	"verdant/internal/repository"

	"gorm.io/gorm"
)

// UserService exposes user profiles and per-user activity stats.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

// Get returns a user with their live contributions, newest first.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetWithContributions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}

// Stats summarizes a user's activity: total live contributions, a
// per-month breakdown and the time of the most recent contribution.
func (s *UserService) Stats(ctx context.Context, id uint) (*models.UserStats, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &models.UserStats{
		User:                 user.Public(),
		TotalContributions:   len(user.Contributions),
		ContributionsByMonth: make(map[string]int),
	}

	var last time.Time
	for _, c := range user.Contributions {
		stats.ContributionsByMonth[c.CreatedAt.Format("January 2006")]++
		if c.CreatedAt.After(last) {
			last = c.CreatedAt
			t := c.CreatedAt
			stats.LastContribution = &t
		}
	}
	return stats, nil
}
