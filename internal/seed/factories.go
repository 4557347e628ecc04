// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"verdant/internal/models"
	"verdant/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers         int
	NumContributions int
	// SkipBcrypt stores a plain-text password to speed up large dev runs.
	SkipBcrypt bool
	// MaxDays spreads generated created_at timestamps over this many days.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// BuildUser constructs a sample user without persisting it.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Name:     gofakeit.Name(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildContribution constructs a sample contribution owned by the user
// without persisting it. Timestamps are spread over the recent past so
// listings and rankings look lived-in.
func (f *Factory) BuildContribution(user *models.User, overrides ...func(*models.Contribution)) *models.Contribution {
	images := make(models.ImageList, 0, validation.MaxImages)
	for i := 0; i < 1+f.rng.Intn(validation.MaxImages); i++ {
		images = append(images, fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()))
	}

	contribution := &models.Contribution{
		Description: contributionDescription(),
		Images:      images,
		UserID:      user.ID,
		CreatedAt:   f.pastTimestamp(),
	}

	for _, override := range overrides {
		override(contribution)
	}
	return contribution
}

// CreateContribution constructs and persists a sample contribution.
func (f *Factory) CreateContribution(user *models.User, overrides ...func(*models.Contribution)) (*models.Contribution, error) {
	contribution := f.BuildContribution(user, overrides...)
	if err := f.db.Create(contribution).Error; err != nil {
		return nil, err
	}
	return contribution, nil
}

// CreateContributionsBatch persists multiple contributions in one call.
func (f *Factory) CreateContributionsBatch(contributions []*models.Contribution) error {
	if len(contributions) == 0 {
		return nil
	}
	return f.db.Create(&contributions).Error
}

func (f *Factory) pastTimestamp() time.Time {
	daysBack := f.rng.Intn(f.opts.MaxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

var contributionActions = []string{
	"Planted %d trees in the %s park",
	"Collected %d bags of litter along the %s trail",
	"Organized a cleanup with %d neighbors near %s",
	"Donated %d books to the %s library",
	"Recycled %d kilograms of plastic from the %s area",
	"Built %d birdhouses for the %s community garden",
}

// contributionDescription produces text that always satisfies the
// description length rules.
func contributionDescription() string {
	template := contributionActions[gofakeit.Number(0, len(contributionActions)-1)]
	return fmt.Sprintf(template, gofakeit.Number(2, 40), gofakeit.City())
}
