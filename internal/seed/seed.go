package seed

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"bizrate/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers      int
	NumBusinesses int
	ShouldClean   bool
	SkipBcrypt    bool
	DryRun        bool
	// MaxDays is how far back generated review timestamps may reach.
	MaxDays int
}

var categoryNames = []string{
	"Food", "Coffee", "Bars", "Retail", "Fitness", "Beauty",
	"Auto", "Health", "Home Services", "Hotels", "Entertainment", "Pets",
}

// Run populates the database with demo users, businesses, reviews, votes, and
// supervisor replies. It is destructive when opts.ShouldClean is set.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 25
	}
	if opts.NumBusinesses <= 0 {
		opts.NumBusinesses = 30
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
	}

	f := NewFactory(db, opts)
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Fixed admin account so the seeded database is immediately usable.
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin12345"), bcrypt.DefaultCost)
	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@bizrate.dev"
		u.Password = string(hashed)
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("Created admin user %q", admin.Username)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	// One supervisor per business, created separately from the reviewer pool
	// since supervisors cannot submit reviews.
	supervisors := make([]*models.User, 0, opts.NumBusinesses)
	for i := 0; i < opts.NumBusinesses; i++ {
		supervisor, err := f.CreateUser(func(u *models.User) {
			u.Role = models.RoleSupervisor
		})
		if err != nil {
			return fmt.Errorf("failed to create supervisor: %w", err)
		}
		supervisors = append(supervisors, supervisor)
	}

	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		category, err := f.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("failed to create category %q: %w", name, err)
		}
		categories = append(categories, category)
	}

	reviewTotal := 0
	voteTotal := 0
	replyTotal := 0
	for i := 0; i < opts.NumBusinesses; i++ {
		category := categories[r.Intn(len(categories))]

		// Leave roughly a quarter of businesses unassigned so both supervisor
		// states show up in demo data.
		var supervisor *models.User
		if r.Intn(4) != 0 {
			supervisor = supervisors[i]
		}

		business, err := f.CreateBusiness(category, supervisor)
		if err != nil {
			return fmt.Errorf("failed to create business: %w", err)
		}

		// Each reviewer writes at most one review per business; pick a random
		// prefix of a shuffled user list.
		numReviews := r.Intn(8)
		reviewers := r.Perm(len(users))
		reviews := make([]*models.Review, 0, numReviews)
		for _, idx := range reviewers[:min(numReviews, len(users))] {
			review, err := f.CreateReview(users[idx], business)
			if err != nil {
				return fmt.Errorf("failed to create review: %w", err)
			}
			reviews = append(reviews, review)
			reviewTotal++
		}

		for _, review := range reviews {
			// Helpful votes from a random subset of other users.
			numVotes := r.Intn(5)
			voters := r.Perm(len(users))
			for _, idx := range voters[:min(numVotes, len(users))] {
				if users[idx].ID == review.UserID {
					continue
				}
				if err := f.CreateVote(users[idx], review); err != nil {
					return fmt.Errorf("failed to create vote: %w", err)
				}
				voteTotal++
			}

			// Supervisors answer about half the reviews on their business.
			if supervisor != nil && r.Intn(2) == 0 {
				if _, err := f.CreateReply(supervisor, review); err != nil {
					return fmt.Errorf("failed to create reply: %w", err)
				}
				replyTotal++
			}
		}

		if err := syncAverageRating(db, business, reviews, opts); err != nil {
			return err
		}
	}

	log.Printf("Seed complete: %d users, %d supervisors, %d categories, %d businesses, %d reviews, %d votes, %d replies",
		len(users), len(supervisors), len(categories), opts.NumBusinesses, reviewTotal, voteTotal, replyTotal)
	return nil
}

// syncAverageRating brings the denormalized average in line with the reviews
// written directly by the factory, which bypass the repository transaction.
func syncAverageRating(db *gorm.DB, business *models.Business, reviews []*models.Review, opts Options) error {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	avg := math.Round(float64(sum)/float64(len(reviews))*10) / 10

	if opts.DryRun {
		log.Printf("[dry-run] syncAverageRating: business=%d avg=%.1f", business.ID, avg)
		return nil
	}
	if err := db.Model(&models.Business{}).Where("id = ?", business.ID).Update("average_rating", avg).Error; err != nil {
		return fmt.Errorf("failed to sync average rating: %w", err)
	}
	return nil
}

// Clean removes all seeded data. Order respects foreign keys.
func Clean(db *gorm.DB) error {
	log.Println("Cleaning database...")
	tables := []interface{}{
		&models.ReviewReply{},
		&models.ReviewVote{},
		&models.Review{},
		&models.Business{},
		&models.Category{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
