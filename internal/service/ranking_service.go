package service

import (
	"context"
	"sort"

	"verdant/internal/cache"
	"verdant/internal/models"
	"verdant/internal/observability"
	"verdant/internal/repository"
)

// RankingService computes the community leaderboard: every active user
// ordered by how many live contributions they own.
type RankingService struct {
	userRepo         repository.UserRepository
	contributionRepo repository.ContributionRepository
	defaultLimit     int
}

// NewRankingService creates a new ranking service. defaultLimit is used
// when a caller asks for the ranking without a size.
func NewRankingService(
	userRepo repository.UserRepository,
	contributionRepo repository.ContributionRepository,
	defaultLimit int,
) *RankingService {
	if defaultLimit < 1 {
		defaultLimit = DefaultPageLimit
	}
	return &RankingService{
		userRepo:         userRepo,
		contributionRepo: contributionRepo,
		defaultLimit:     defaultLimit,
	}
}

// DefaultLimit returns the configured ranking size.
func (s *RankingService) DefaultLimit() int {
	return s.defaultLimit
}

// Rank returns the top users by live contribution count. Users with no
// contributions still appear, with a count of zero. Ties are broken by
// account age: earlier accounts rank higher.
func (s *RankingService) Rank(ctx context.Context, limit int) ([]models.RankedUser, error) {
	if limit < 1 {
		return nil, models.NewValidationError("limit must be a positive number")
	}

	var ranked []models.RankedUser
	err := cache.Aside(ctx, cache.RankingKey(limit), &ranked, cache.RankingTTL, func() error {
		computed, err := s.compute(ctx, limit)
		if err != nil {
			return err
		}
		ranked = computed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

func (s *RankingService) compute(ctx context.Context, limit int) ([]models.RankedUser, error) {
	observability.RankingComputations.Inc()

	// Users come back in creation order, so a stable sort on count alone
	// leaves ties resolved by account age.
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.contributionRepo.CountGroupedByOwner(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]models.RankedUser, 0, len(users))
	for _, u := range users {
		ranked = append(ranked, models.RankedUser{
			UserID:            u.ID,
			Username:          u.Username,
			Name:              u.Name,
			ContributionCount: counts[u.ID],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ContributionCount > ranked[j].ContributionCount
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
