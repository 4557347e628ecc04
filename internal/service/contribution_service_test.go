package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"verdant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// contributionRepoStub is a stub for repository.ContributionRepository.
type contributionRepoStub struct {
	createFn              func(context.Context, *models.Contribution) error
	getByIDFn             func(context.Context, uint) (*models.Contribution, error)
	listFn                func(context.Context, int, int) ([]*models.Contribution, error)
	countFn               func(context.Context) (int64, error)
	searchFn              func(context.Context, string, int, int) ([]*models.Contribution, error)
	countSearchFn         func(context.Context, string) (int64, error)
	getByUserIDFn         func(context.Context, uint, int, int) ([]*models.Contribution, error)
	countByUserIDFn       func(context.Context, uint) (int64, error)
	countGroupedByOwnerFn func(context.Context) (map[uint]int, error)
	updateFn              func(context.Context, *models.Contribution) error
	deleteFn              func(context.Context, uint) error
}

func (s *contributionRepoStub) Create(ctx context.Context, c *models.Contribution) error {
	return s.createFn(ctx, c)
}
func (s *contributionRepoStub) GetByID(ctx context.Context, id uint) (*models.Contribution, error) {
	return s.getByIDFn(ctx, id)
}
func (s *contributionRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Contribution, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *contributionRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *contributionRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Contribution, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *contributionRepoStub) CountSearch(ctx context.Context, query string) (int64, error) {
	return s.countSearchFn(ctx, query)
}
func (s *contributionRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Contribution, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset)
}
func (s *contributionRepoStub) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserIDFn(ctx, userID)
}
func (s *contributionRepoStub) CountGroupedByOwner(ctx context.Context) (map[uint]int, error) {
	return s.countGroupedByOwnerFn(ctx)
}
func (s *contributionRepoStub) Update(ctx context.Context, c *models.Contribution) error {
	return s.updateFn(ctx, c)
}
func (s *contributionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopContributionRepo() *contributionRepoStub {
	return &contributionRepoStub{
		createFn: func(_ context.Context, c *models.Contribution) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Contribution, error) {
			return &models.Contribution{ID: id, UserID: 1}, nil
		},
		listFn:                func(_ context.Context, _, _ int) ([]*models.Contribution, error) { return nil, nil },
		countFn:               func(_ context.Context) (int64, error) { return 0, nil },
		searchFn:              func(_ context.Context, _ string, _, _ int) ([]*models.Contribution, error) { return nil, nil },
		countSearchFn:         func(_ context.Context, _ string) (int64, error) { return 0, nil },
		getByUserIDFn:         func(_ context.Context, _ uint, _, _ int) ([]*models.Contribution, error) { return nil, nil },
		countByUserIDFn:       func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countGroupedByOwnerFn: func(_ context.Context) (map[uint]int, error) { return map[uint]int{}, nil },
		updateFn:              func(_ context.Context, _ *models.Contribution) error { return nil },
		deleteFn:              func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn               func(context.Context, *models.User) error
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	getWithContributionsFn func(context.Context, uint) (*models.User, error)
	listFn                 func(context.Context) ([]*models.User, error)
	listActiveFn           func(context.Context) ([]*models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetWithContributions(ctx context.Context, id uint) (*models.User, error) {
	return s.getWithContributionsFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context) ([]*models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) ListActive(ctx context.Context) ([]*models.User, error) {
	return s.listActiveFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "ana"}, nil
		},
		getByUsernameFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getWithContributionsFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		listFn:                 func(_ context.Context) ([]*models.User, error) { return nil, nil },
		listActiveFn:           func(_ context.Context) ([]*models.User, error) { return nil, nil },
	}
}

// assertAppErrorCode asserts that err is an AppError carrying the code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeForbidden)
}

func validImages() []string {
	return []string{"https://cdn.example.com/tree.jpg"}
}

func TestContributionService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := NewContributionService(noopContributionRepo(), noopUserRepo())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateContributionInput
	}{
		{
			name:  "empty description",
			input: CreateContributionInput{UserID: 1, Images: validImages()},
		},
		{
			name:  "description too short",
			input: CreateContributionInput{UserID: 1, Description: "short", Images: validImages()},
		},
		{
			name:  "description too long",
			input: CreateContributionInput{UserID: 1, Description: strings.Repeat("x", 1001), Images: validImages()},
		},
		{
			name:  "no images",
			input: CreateContributionInput{UserID: 1, Description: "Planted ten trees today"},
		},
		{
			name: "too many images",
			input: CreateContributionInput{
				UserID:      1,
				Description: "Planted ten trees today",
				Images:      []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg"},
			},
		},
		{
			name: "blank image entry",
			input: CreateContributionInput{
				UserID:      1,
				Description: "Planted ten trees today",
				Images:      []string{"a.jpg", "  "},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Create(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestContributionService_Create_MissingOwner(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewContributionService(noopContributionRepo(), users)

	_, err := svc.Create(context.Background(), CreateContributionInput{
		UserID:      42,
		Description: "Planted ten trees today",
		Images:      validImages(),
	})
	assertValidationError(t, err)
}

func TestContributionService_Create_Success(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	var stored *models.Contribution
	repo.createFn = func(_ context.Context, c *models.Contribution) error {
		c.ID = 7
		stored = c
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		require.Equal(t, uint(7), id)
		return stored, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	got, err := svc.Create(context.Background(), CreateContributionInput{
		UserID:      1,
		Description: "  Planted ten trees today  ",
		Images:      validImages(),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.ID)
	// The description is stored verbatim, surrounding whitespace included.
	assert.Equal(t, "  Planted ten trees today  ", got.Description)
	assert.Equal(t, uint(1), got.UserID)
}

func TestContributionService_Get_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Contribution, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewContributionService(repo, noopUserRepo())

	_, err := svc.Get(context.Background(), 999)
	assertNotFoundError(t, err)
}

func TestContributionService_List_PaginationValidation(t *testing.T) {
	t.Parallel()

	svc := NewContributionService(noopContributionRepo(), noopUserRepo())
	ctx := context.Background()

	_, err := svc.List(ctx, 0, 10)
	assertValidationError(t, err)

	_, err = svc.List(ctx, 1, 0)
	assertValidationError(t, err)

	_, err = svc.List(ctx, -3, -1)
	assertValidationError(t, err)
}

func TestContributionService_List_PastTheEnd(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return 3, nil }
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Contribution, error) {
		assert.Equal(t, 10, limit)
		assert.Equal(t, 40, offset)
		return nil, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	page, err := svc.List(context.Background(), 5, 10)
	require.NoError(t, err)
	require.NotNil(t, page.Contributions)
	assert.Empty(t, page.Contributions)
	assert.EqualValues(t, 3, page.Pagination.Total)
	assert.Equal(t, 5, page.Pagination.Page)
	assert.Equal(t, 1, page.Pagination.TotalPages)
}

func TestContributionService_List_PageMetadata(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.countFn = func(_ context.Context) (int64, error) { return 21, nil }
	repo.listFn = func(_ context.Context, limit, offset int) ([]*models.Contribution, error) {
		return []*models.Contribution{{ID: 3}, {ID: 2}}, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	page, err := svc.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Contributions, 2)
	assert.EqualValues(t, 21, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Limit)
	assert.Equal(t, 11, page.Pagination.TotalPages)
}

func TestContributionService_Search_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc := NewContributionService(noopContributionRepo(), noopUserRepo())

	_, err := svc.Search(context.Background(), "   ", 1, 10)
	assertValidationError(t, err)
}

func TestContributionService_Search(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.countSearchFn = func(_ context.Context, query string) (int64, error) {
		assert.Equal(t, "trees", query)
		return 1, nil
	}
	repo.searchFn = func(_ context.Context, query string, limit, offset int) ([]*models.Contribution, error) {
		return []*models.Contribution{{ID: 1, Description: "Planted ten trees today"}}, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	page, err := svc.Search(context.Background(), "trees", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Contributions, 1)
	assert.EqualValues(t, 1, page.Pagination.Total)
}

func TestContributionService_Update_NotFound(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Contribution, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewContributionService(repo, noopUserRepo())

	desc := "A perfectly valid description"
	_, err := svc.Update(context.Background(), UpdateContributionInput{
		UserID: 1, ContributionID: 999, Description: &desc,
	})
	assertNotFoundError(t, err)
}

func TestContributionService_Update_Forbidden(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		return &models.Contribution{ID: id, UserID: 2}, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	desc := "A perfectly valid description"
	_, err := svc.Update(context.Background(), UpdateContributionInput{
		UserID: 1, ContributionID: 5, Description: &desc,
	})
	assertForbiddenError(t, err)
}

func TestContributionService_Update_PatchSemantics(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	current := &models.Contribution{
		ID:          5,
		UserID:      1,
		Description: "Planted ten trees today",
		Images:      models.ImageList{"before.jpg"},
	}
	repo.getByIDFn = func(_ context.Context, _ uint) (*models.Contribution, error) {
		copy := *current
		return &copy, nil
	}
	var saved *models.Contribution
	repo.updateFn = func(_ context.Context, c *models.Contribution) error {
		saved = c
		current = c
		return nil
	}
	svc := NewContributionService(repo, noopUserRepo())
	ctx := context.Background()

	// Only the description changes; the absent images field is untouched.
	desc := "Planted twelve trees today"
	got, err := svc.Update(ctx, UpdateContributionInput{
		UserID: 1, ContributionID: 5, Description: &desc,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Planted twelve trees today", got.Description)
	assert.Equal(t, models.ImageList{"before.jpg"}, got.Images)

	// A present but empty field is rejected, never silently skipped.
	empty := ""
	_, err = svc.Update(ctx, UpdateContributionInput{
		UserID: 1, ContributionID: 5, Description: &empty,
	})
	assertValidationError(t, err)

	emptyImages := []string{}
	_, err = svc.Update(ctx, UpdateContributionInput{
		UserID: 1, ContributionID: 5, Images: &emptyImages,
	})
	assertValidationError(t, err)
}

func TestContributionService_Update_InvalidPatchLeavesRowAlone(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		return &models.Contribution{ID: id, UserID: 1, Description: "Planted ten trees today"}, nil
	}
	updated := false
	repo.updateFn = func(_ context.Context, _ *models.Contribution) error {
		updated = true
		return nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	// Valid description, invalid images: nothing may be written.
	desc := "Planted twelve trees today"
	bad := []string{"  "}
	_, err := svc.Update(context.Background(), UpdateContributionInput{
		UserID: 1, ContributionID: 5, Description: &desc, Images: &bad,
	})
	assertValidationError(t, err)
	assert.False(t, updated)
}

func TestContributionService_Delete(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		return &models.Contribution{ID: id, UserID: 1}, nil
	}
	deleted := uint(0)
	repo.deleteFn = func(_ context.Context, id uint) error {
		deleted = id
		return nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	err := svc.Delete(context.Background(), DeleteContributionInput{UserID: 1, ContributionID: 5})
	require.NoError(t, err)
	assert.Equal(t, uint(5), deleted)
}

func TestContributionService_Delete_Forbidden(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		return &models.Contribution{ID: id, UserID: 2}, nil
	}
	svc := NewContributionService(repo, noopUserRepo())

	err := svc.Delete(context.Background(), DeleteContributionInput{UserID: 1, ContributionID: 5})
	assertForbiddenError(t, err)
}

func TestContributionService_Delete_SecondDeleteIsNotFound(t *testing.T) {
	t.Parallel()

	repo := noopContributionRepo()
	gone := false
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Contribution, error) {
		if gone {
			return nil, gorm.ErrRecordNotFound
		}
		return &models.Contribution{ID: id, UserID: 1}, nil
	}
	repo.deleteFn = func(_ context.Context, _ uint) error {
		gone = true
		return nil
	}
	svc := NewContributionService(repo, noopUserRepo())
	ctx := context.Background()

	in := DeleteContributionInput{UserID: 1, ContributionID: 5}
	require.NoError(t, svc.Delete(ctx, in))

	err := svc.Delete(ctx, in)
	assertNotFoundError(t, err)
}
