package repository

import (
	"context"
	"testing"
	"time"

	"verdant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Name: "Test " + username, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedContribution(t *testing.T, db *gorm.DB, userID uint, description string, createdAt time.Time) *models.Contribution {
	t.Helper()
	c := &models.Contribution{
		Description: description,
		Images:      models.ImageList{"https://cdn.example.com/img.jpg"},
		UserID:      userID,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestContributionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "ana")
	created := &models.Contribution{
		Description: "Planted ten trees today",
		Images:      models.ImageList{"u1.jpg", "u2.jpg"},
		UserID:      owner.ID,
	}
	require.NoError(t, repo.Create(ctx, created))
	require.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Planted ten trees today", got.Description)
	assert.Equal(t, models.ImageList{"u1.jpg", "u2.jpg"}, got.Images)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, "ana", got.User.Username)
}

func TestContributionRepository_GetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestContributionRepository_ListOrderAndTieBreak(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "ana")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := seedContribution(t, db, owner.ID, "An older contribution", base.Add(-time.Hour))
	// Two rows sharing one timestamp: insertion order must break the tie.
	first := seedContribution(t, db, owner.ID, "First at shared time", base)
	second := seedContribution(t, db, owner.ID, "Second at shared time", base)

	got, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, older.ID, got[2].ID)

	// Repeated reads return the identical ordering.
	again, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	for i := range got {
		assert.Equal(t, got[i].ID, again[i].ID)
	}
}

func TestContributionRepository_SoftDeleteIsInvisible(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "ana")
	c := seedContribution(t, db, owner.ID, "Cleaned up the river bank", time.Now())

	require.NoError(t, repo.Delete(ctx, c.ID))

	_, err := repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The row itself survives as a tombstone.
	var raw models.Contribution
	require.NoError(t, db.Unscoped().First(&raw, c.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestContributionRepository_SearchCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "ana")
	seedContribution(t, db, owner.ID, "Planted ten TREES today", time.Now())
	seedContribution(t, db, owner.ID, "Recycled some bottles", time.Now())

	got, err := repo.Search(ctx, "trees", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Description, "TREES")

	count, err := repo.CountSearch(ctx, "TREES")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	none, err := repo.Search(ctx, "bicycle", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContributionRepository_GetByUserID(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	ana := seedUser(t, db, "ana")
	bruno := seedUser(t, db, "bruno")
	seedContribution(t, db, ana.ID, "Planted ten trees today", time.Now())
	seedContribution(t, db, bruno.ID, "Cleaned up the river bank", time.Now())

	got, err := repo.GetByUserID(ctx, ana.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ana.ID, got[0].UserID)

	count, err := repo.CountByUserID(ctx, ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestContributionRepository_CountGroupedByOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	ana := seedUser(t, db, "ana")
	bruno := seedUser(t, db, "bruno")
	carla := seedUser(t, db, "carla")

	seedContribution(t, db, ana.ID, "Planted ten trees today", time.Now())
	seedContribution(t, db, ana.ID, "Cleaned up the river bank", time.Now())
	deleted := seedContribution(t, db, bruno.ID, "Recycled some bottles", time.Now())
	require.NoError(t, repo.Delete(ctx, deleted.ID))

	counts, err := repo.CountGroupedByOwner(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, counts[ana.ID])
	// Soft-deleted contributions never count; owners with none are absent.
	_, brunoPresent := counts[bruno.ID]
	assert.False(t, brunoPresent)
	_, carlaPresent := counts[carla.ID]
	assert.False(t, carlaPresent)
}

func TestContributionRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributionRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "ana")
	c := seedContribution(t, db, owner.ID, "Planted ten trees today", time.Now())

	c.Description = "Planted twelve trees today"
	c.Images = models.ImageList{"after.jpg"}
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Planted twelve trees today", got.Description)
	assert.Equal(t, models.ImageList{"after.jpg"}, got.Images)
}
