// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"bizrate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     models.RoleUser,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Username, user.Role)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory constructs and persists a sample `models.Category`.
func (f *Factory) CreateCategory(name string, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Description: gofakeit.Sentence(8),
		Icon:        gofakeit.Emoji(),
	}

	for _, override := range overrides {
		override(category)
	}

	if f.opts.DryRun {
		f.nextID++
		category.ID = f.nextID
		log.Printf("[dry-run] CreateCategory: %s", category.Name)
		return category, nil
	}

	if err := f.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateBusiness constructs and persists a sample `models.Business` under the
// given category, optionally assigned to a supervisor.
func (f *Factory) CreateBusiness(category *models.Category, supervisor *models.User, overrides ...func(*models.Business)) (*models.Business, error) {
	business := &models.Business{
		Name:        gofakeit.Company() + " " + gofakeit.CompanySuffix(),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Location:    fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Logo:        fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
		Phone:       gofakeit.Phone(),
		Website:     gofakeit.URL(),
		CategoryID:  category.ID,
	}
	if supervisor != nil {
		business.SupervisorID = &supervisor.ID
	}

	for _, override := range overrides {
		override(business)
	}

	if f.opts.DryRun {
		f.nextID++
		business.ID = f.nextID
		log.Printf("[dry-run] CreateBusiness: %s (category=%d)", business.Name, business.CategoryID)
		return business, nil
	}

	if err := f.db.Create(business).Error; err != nil {
		return nil, err
	}
	return business, nil
}

// CreateReview constructs and persists a sample `models.Review` by the given
// user for the given business, with a realistic created_at spread.
func (f *Factory) CreateReview(user *models.User, business *models.Business, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		Rating:     gofakeit.Number(models.MinRating, models.MaxRating),
		Title:      gofakeit.Sentence(4),
		Body:       gofakeit.Paragraph(1, 3, 6, "\n"),
		UserID:     user.ID,
		BusinessID: business.ID,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	review.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(review)
	}

	if f.opts.DryRun {
		f.nextID++
		review.ID = f.nextID
		log.Printf("[dry-run] CreateReview: user=%d business=%d rating=%d", review.UserID, review.BusinessID, review.Rating)
		return review, nil
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateVote persists a helpful vote from `user` on `review`.
func (f *Factory) CreateVote(user *models.User, review *models.Review) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateVote: user=%d review=%d", user.ID, review.ID)
		return nil
	}
	vote := &models.ReviewVote{
		UserID:   user.ID,
		ReviewID: review.ID,
	}
	return f.db.Create(vote).Error
}

// CreateReply constructs and persists a supervisor reply to the given review.
func (f *Factory) CreateReply(supervisor *models.User, review *models.Review, overrides ...func(*models.ReviewReply)) (*models.ReviewReply, error) {
	reply := &models.ReviewReply{
		ReviewID:     review.ID,
		SupervisorID: supervisor.ID,
		Body:         gofakeit.Paragraph(1, 2, 6, " "),
	}

	for _, override := range overrides {
		override(reply)
	}

	if f.opts.DryRun {
		f.nextID++
		reply.ID = f.nextID
		log.Printf("[dry-run] CreateReply: supervisor=%d review=%d", reply.SupervisorID, reply.ReviewID)
		return reply, nil
	}

	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}
