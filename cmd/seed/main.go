// Command seed populates the database with demo users and posts.
package main

import (
	"flag"
	"log"

	"github.com/Sudip2708/poustovnik-english/internal/config"
	"github.com/Sudip2708/poustovnik-english/internal/database"
	"github.com/Sudip2708/poustovnik-english/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 5, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of posts to create")
	password := flag.String("password", "password1", "Shared password for seeded users")
	shouldClean := flag.Bool("clean", false, "Delete existing users and posts first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		Password:    *password,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
