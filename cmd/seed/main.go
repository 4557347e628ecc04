// Command seed runs the database seeder for Verdant.
package main

import (
	"flag"
	"log"

	"verdant/internal/config"
	"verdant/internal/database"
	"verdant/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numContributions := flag.Int("contributions", 100, "Number of contributions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plain passwords for faster seeding")
	flag.Parse()

	log.Printf("Seeding: %d users, %d contributions, clean=%v",
		*numUsers, *numContributions, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:         *numUsers,
		NumContributions: *numContributions,
		SkipBcrypt:       *skipBcrypt,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
