// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"verdant/internal/cache"
	"verdant/internal/models"
	"verdant/internal/observability"

	"gorm.io/gorm"
)

// listOrder gives deterministic pagination: rows sharing a timestamp are
// tie-broken by id (insertion order).
const listOrder = "created_at DESC, id DESC"

// ContributionRepository defines the interface for contribution data operations.
// Soft-deleted rows are invisible to every method; GORM's DeletedAt scope is
// the single visibility predicate.
type ContributionRepository interface {
	Create(ctx context.Context, contribution *models.Contribution) error
	GetByID(ctx context.Context, id uint) (*models.Contribution, error)
	List(ctx context.Context, limit, offset int) ([]*models.Contribution, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Contribution, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Contribution, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	CountGroupedByOwner(ctx context.Context) (map[uint]int, error)
	Update(ctx context.Context, contribution *models.Contribution) error
	Delete(ctx context.Context, id uint) error
}

// contributionRepository implements ContributionRepository
type contributionRepository struct {
	db *gorm.DB
}

// NewContributionRepository creates a new contribution repository
func NewContributionRepository(db *gorm.DB) ContributionRepository {
	return &contributionRepository{db: db}
}

func (r *contributionRepository) Create(ctx context.Context, contribution *models.Contribution) error {
	defer observability.TrackQuery("create", "contributions")()
	if err := r.db.WithContext(ctx).Create(contribution).Error; err != nil {
		return err
	}
	cache.InvalidateContributionPages(ctx)
	cache.InvalidateRanking(ctx)
	return nil
}

func (r *contributionRepository) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	var contribution models.Contribution
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&contribution, id).Error
	if err != nil {
		return nil, err
	}
	return &contribution, nil
}

func (r *contributionRepository) List(ctx context.Context, limit, offset int) ([]*models.Contribution, error) {
	defer observability.TrackQuery("list", "contributions")()
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Preload("User").
		Order(listOrder).
		Limit(limit).
		Offset(offset).
		Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).Count(&count).Error
	return count, err
}

// searchClause matches case-insensitively on both postgres and the sqlite
// driver used in tests, unlike ILIKE.
const searchClause = "LOWER(description) LIKE LOWER(?)"

func (r *contributionRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Contribution, error) {
	defer observability.TrackQuery("search", "contributions")()
	var contributions []*models.Contribution
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(searchClause, like).
		Order(listOrder).
		Limit(limit).
		Offset(offset).
		Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	like := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where(searchClause, like).
		Count(&count).Error
	return count, err
}

func (r *contributionRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Contribution, error) {
	var contributions []*models.Contribution
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order(listOrder).
		Limit(limit).
		Offset(offset).
		Find(&contributions).Error
	return contributions, err
}

func (r *contributionRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountGroupedByOwner returns the non-deleted contribution count per owner
// in a single grouped query. Owners with no live contributions are absent
// from the map.
func (r *contributionRepository) CountGroupedByOwner(ctx context.Context) (map[uint]int, error) {
	defer observability.TrackQuery("count_grouped", "contributions")()

	var rows []struct {
		UserID uint
		Total  int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Contribution{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}

func (r *contributionRepository) Update(ctx context.Context, contribution *models.Contribution) error {
	defer observability.TrackQuery("update", "contributions")()
	if err := r.db.WithContext(ctx).Save(contribution).Error; err != nil {
		return err
	}
	cache.InvalidateContribution(ctx, contribution.ID)
	cache.InvalidateContributionPages(ctx)
	return nil
}

func (r *contributionRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "contributions")()
	if err := r.db.WithContext(ctx).Delete(&models.Contribution{}, id).Error; err != nil {
		return err
	}
	cache.InvalidateContribution(ctx, id)
	cache.InvalidateContributionPages(ctx)
	cache.InvalidateRanking(ctx)
	return nil
}
