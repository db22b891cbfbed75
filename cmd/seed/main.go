// Command main runs the database seeder for Yatube.
package main

import (
	"context"
	"flag"
	"log"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	maxComments := flag.Int("comments", defaults.MaxComments, "Maximum comments per post")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Authors each user follows")
	groupsFile := flag.String("groups", "", "YAML file with group fixtures (built-in set when empty)")
	seedValue := flag.Int64("seed", defaults.Seed, "Random seed")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	groups, err := seed.LoadGroups(*groupsFile)
	if err != nil {
		log.Fatalf("Failed to load groups: %v", err)
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.PostsPerUser = *postsPerUser
	opts.MaxComments = *maxComments
	opts.FollowsPerUser = *follows
	opts.Seed = *seedValue
	opts.ShouldClean = *shouldClean

	summary, err := seed.Run(context.Background(), db, groups, opts)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d groups, %d users, %d posts, %d comments, %d follows",
		summary.Groups, summary.Users, summary.Posts, summary.Comments, summary.Follows)
	log.Printf("All seeded users have the password: %s", seed.DemoPassword)
}
