// Command seed populates the development database with fake data.
package main

import (
	"context"
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	maxFollows := flag.Int("follows", defaults.MaxFollowsPerUser, "Maximum follows per user")
	shouldClean := flag.Bool("clean", defaults.ShouldClean, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db)
	opts := seed.Options{
		NumUsers:          *numUsers,
		NumPosts:          *numPosts,
		MaxFollowsPerUser: *maxFollows,
		ShouldClean:       *shouldClean,
	}

	if err := s.Run(context.Background(), opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users and %d posts", *numUsers, *numPosts)
}
