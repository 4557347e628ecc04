// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"verdant/internal/cache"
	"verdant/internal/models"
	"verdant/internal/policy"
	"verdant/internal/repository"
	"verdant/internal/validation"

	"gorm.io/gorm"
)

// DefaultPageLimit applies when a pagination limit is not supplied.
const DefaultPageLimit = 10

// ContributionService implements the contribution lifecycle: creation,
// paginated retrieval, search and owner-scoped mutation.
type ContributionService struct {
	contributionRepo repository.ContributionRepository
	userRepo         repository.UserRepository
}

// NewContributionService creates a new contribution service.
func NewContributionService(
	contributionRepo repository.ContributionRepository,
	userRepo repository.UserRepository,
) *ContributionService {
	return &ContributionService{
		contributionRepo: contributionRepo,
		userRepo:         userRepo,
	}
}

// CreateContributionInput carries the fields for a new contribution.
// UserID is the authenticated principal, never read from ambient state.
type CreateContributionInput struct {
	UserID      uint
	Description string
	Images      []string
}

// UpdateContributionInput is a partial patch. Nil fields are explicit
// no-ops; a present-but-empty field is a validation error, never a
// silent ignore.
type UpdateContributionInput struct {
	UserID         uint
	ContributionID uint
	Description    *string
	Images         *[]string
}

// DeleteContributionInput identifies the contribution and the principal
// requesting its deletion.
type DeleteContributionInput struct {
	UserID         uint
	ContributionID uint
}

// Create validates and stores a new contribution owned by the principal.
// All field checks run before any write, so a validation failure leaves
// no partial state.
func (s *ContributionService) Create(ctx context.Context, in CreateContributionInput) (*models.Contribution, error) {
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateImages(in.Images); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	// The owner must exist and not be soft-deleted at creation time.
	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("owner does not exist")
		}
		return nil, err
	}

	contribution := &models.Contribution{
		Description: in.Description,
		Images:      in.Images,
		UserID:      in.UserID,
	}
	if err := s.contributionRepo.Create(ctx, contribution); err != nil {
		return nil, err
	}

	// Reload so the response carries the owner.
	return s.Get(ctx, contribution.ID)
}

// Get returns a single live contribution with its owner. Soft-deleted or
// absent rows are indistinguishable: both are NotFound.
func (s *ContributionService) Get(ctx context.Context, id uint) (*models.Contribution, error) {
	contribution, err := s.contributionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contribution", id)
		}
		return nil, err
	}
	return contribution, nil
}

// List returns one page of all live contributions, newest first.
func (s *ContributionService) List(ctx context.Context, page, limit int) (*models.ContributionPage, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}

	var result models.ContributionPage
	err := cache.Aside(ctx, cache.ContributionPageKey(page, limit), &result, cache.PageTTL, func() error {
		return s.fetchPage(ctx, &result, page, limit,
			s.contributionRepo.Count,
			func(ctx context.Context, limit, offset int) ([]*models.Contribution, error) {
				return s.contributionRepo.List(ctx, limit, offset)
			})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Search returns one page of live contributions whose description contains
// the query, case-insensitively.
func (s *ContributionService) Search(ctx context.Context, query string, page, limit int) (*models.ContributionPage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("a search query is required")
	}
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}

	var result models.ContributionPage
	err := s.fetchPage(ctx, &result, page, limit,
		func(ctx context.Context) (int64, error) {
			return s.contributionRepo.CountSearch(ctx, query)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Contribution, error) {
			return s.contributionRepo.Search(ctx, query, limit, offset)
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByOwner returns one page of a single owner's live contributions.
func (s *ContributionService) ListByOwner(ctx context.Context, ownerID uint, page, limit int) (*models.ContributionPage, error) {
	if err := validatePagination(page, limit); err != nil {
		return nil, err
	}

	var result models.ContributionPage
	err := s.fetchPage(ctx, &result, page, limit,
		func(ctx context.Context) (int64, error) {
			return s.contributionRepo.CountByUserID(ctx, ownerID)
		},
		func(ctx context.Context, limit, offset int) ([]*models.Contribution, error) {
			return s.contributionRepo.GetByUserID(ctx, ownerID, limit, offset)
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update applies a partial patch to a contribution owned by the principal.
func (s *ContributionService) Update(ctx context.Context, in UpdateContributionInput) (*models.Contribution, error) {
	contribution, err := s.Get(ctx, in.ContributionID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutate(in.UserID, contribution) {
		return nil, models.NewForbiddenError("You can only update your own contributions")
	}

	// Validate the whole patch before touching the row.
	if in.Description != nil {
		if err := validation.ValidateDescription(*in.Description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}
	if in.Images != nil {
		if err := validation.ValidateImages(*in.Images); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	if in.Description != nil {
		contribution.Description = *in.Description
	}
	if in.Images != nil {
		contribution.Images = *in.Images
	}

	if err := s.contributionRepo.Update(ctx, contribution); err != nil {
		return nil, err
	}
	return s.Get(ctx, in.ContributionID)
}

// Delete soft-deletes a contribution owned by the principal. A second
// delete finds nothing: deleted rows are invisible, so it reports
// NotFound rather than "already deleted".
func (s *ContributionService) Delete(ctx context.Context, in DeleteContributionInput) error {
	contribution, err := s.Get(ctx, in.ContributionID)
	if err != nil {
		return err
	}

	if !policy.CanMutate(in.UserID, contribution) {
		return models.NewForbiddenError("You can only delete your own contributions")
	}

	return s.contributionRepo.Delete(ctx, in.ContributionID)
}

// fetchPage assembles a page result from a count query and a list query.
// A page past the end yields an empty list with accurate metadata.
func (s *ContributionService) fetchPage(
	ctx context.Context,
	result *models.ContributionPage,
	page, limit int,
	count func(context.Context) (int64, error),
	list func(ctx context.Context, limit, offset int) ([]*models.Contribution, error),
) error {
	total, err := count(ctx)
	if err != nil {
		return err
	}

	items, err := list(ctx, limit, (page-1)*limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*models.Contribution{}
	}

	*result = models.ContributionPage{
		Contributions: items,
		Pagination:    models.NewPagination(total, page, limit),
	}
	return nil
}

func validatePagination(page, limit int) error {
	if page < 1 {
		return models.NewValidationError("page must be a positive number")
	}
	if limit < 1 {
		return models.NewValidationError("limit must be a positive number")
	}
	return nil
}
