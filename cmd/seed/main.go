// Command seed fills the database with demo groups, users and posts.
package main

import (
	"flag"
	"log"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", false, "Delete existing posts, users and groups first")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	fast := flag.Bool("fast", false, "Skip password hashing; seeded users cannot log in")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = clock)")
	maxDays := flag.Int("days", 90, "Spread post dates over this many days")
	flag.Parse()

	_ = godotenv.Load()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v dry-run=%v\n", *numUsers, *numPosts, *shouldClean, *dryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Upserted groups drop their cached copies when Redis is reachable.
	cache.InitRedis(cfg.RedisURL)
	defer cache.Close()

	sum, err := seed.NewSeeder(db).Run(seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		Ungrouped:   0.2,
		SeedOptions: seed.SeedOptions{
			RandSeed:   *randSeed,
			MaxDays:    *maxDays,
			SkipBcrypt: *fast,
			DryRun:     *dryRun,
		},
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d groups, %d users, %d posts.", sum.Groups, sum.Users, sum.Posts)
	if !*fast {
		log.Printf("📧 All seeded users have the password: %s", seed.DefaultPassword)
	}
}
