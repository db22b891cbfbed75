// Package main provides admin management utilities for Yatube.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/repository"
	"yatube/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin create-user <username> <email> <password>  - Register a user")
	fmt.Println("  go run ./cmd/admin promote <username>                        - Grant admin")
	fmt.Println("  go run ./cmd/admin demote <username>                         - Revoke admin")
	fmt.Println("  go run ./cmd/admin issue-token <username> [ttl]              - Print an access token")
	fmt.Println("  go run ./cmd/admin clear-cache                               - Drop cached global feed pages")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	if os.Args[1] == "clear-cache" {
		clearCache(ctx, cfg)
		return
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db))

	switch os.Args[1] {
	case "create-user":
		if len(os.Args) < 5 {
			usage()
		}
		user, err := users.Register(ctx, service.RegisterInput{
			Username: os.Args[2],
			Email:    os.Args[3],
			Password: os.Args[4],
		})
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("Created %s (ID: %d)\n", user.Username, user.ID)

	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
		}
		user, err := users.SetAdmin(ctx, os.Args[2], os.Args[1] == "promote")
		if err != nil {
			log.Fatalf("Failed to update %s: %v", os.Args[2], err)
		}
		fmt.Printf("%s (ID: %d) admin=%v\n", user.Username, user.ID, user.IsAdmin)

	case "issue-token":
		if len(os.Args) < 3 {
			usage()
		}
		ttl := 24 * time.Hour
		if len(os.Args) > 3 {
			if ttl, err = time.ParseDuration(os.Args[3]); err != nil {
				log.Fatalf("Invalid ttl %q: %v", os.Args[3], err)
			}
		}
		user, err := users.GetUserByUsername(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Failed to find %s: %v", os.Args[2], err)
		}
		token, err := middleware.IssueToken(cfg.JWTSecret, user.ID, ttl)
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}
		fmt.Println(token)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
	}
}

// clearCache drops the Redis-backed page cache. Servers running without
// Redis keep their pages in process; use POST /api/admin/cache/clear there.
func clearCache(ctx context.Context, cfg *config.Config) {
	rdb := cache.NewRedisClient(cfg.RedisURL)
	if rdb == nil {
		fmt.Println("Redis is not reachable; nothing to clear")
		return
	}
	defer rdb.Close()

	pages := cache.NewPageCache(cache.NewRedisStore(rdb, cache.KeyPrefix), cfg.FeedCacheTTL())
	if err := pages.Clear(ctx); err != nil {
		log.Fatalf("Failed to clear feed cache: %v", err)
	}
	fmt.Println("Feed cache cleared")
}
