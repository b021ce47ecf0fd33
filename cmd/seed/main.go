// Command main runs the database seeder for bizrate.
package main

import (
	"flag"
	"log"

	"bizrate/internal/config"
	"bizrate/internal/database"
	"bizrate/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of reviewer accounts to create")
	numBusinesses := flag.Int("businesses", 30, "Number of businesses to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d businesses, clean=%v\n", *numUsers, *numBusinesses, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:      *numUsers,
		NumBusinesses: *numBusinesses,
		ShouldClean:   *shouldClean,
		SkipBcrypt:    *skipBcrypt,
		DryRun:        *dryRun,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
