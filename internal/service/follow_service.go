// Package service holds the business rules of the platform: the follow
// graph, feed composition, and ownership-checked post and comment writes.
package service

import (
	"context"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/repository"
)

// FollowService maintains the directed follower to author graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow makes viewerID follow the author named username. Following an
// author twice is a no-op; following yourself is rejected.
func (s *FollowService) Follow(ctx context.Context, viewerID uint, username string) (*models.User, error) {
	if viewerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author.ID == viewerID {
		observability.FollowOperations.WithLabelValues("follow", "self").Inc()
		return nil, models.NewConstraintViolationError("You cannot follow yourself", nil)
	}

	err = s.followRepo.Create(ctx, &models.Follow{UserID: viewerID, AuthorID: author.ID})
	if err == nil {
		observability.FollowOperations.WithLabelValues("follow", "created").Inc()
		return author, nil
	}
	if !models.IsCode(err, models.CodeConstraintViolation) {
		return nil, err
	}

	// The insert lost to an existing edge; anything else is a real violation.
	exists, existsErr := s.followRepo.Exists(ctx, viewerID, author.ID)
	if existsErr != nil {
		return nil, existsErr
	}
	if !exists {
		return nil, err
	}
	observability.FollowOperations.WithLabelValues("follow", "existing").Inc()
	middleware.Logger.DebugContext(ctx, "follow edge already present",
		slog.Uint64("author_id", uint64(author.ID)),
	)
	return author, nil
}

// Unfollow removes the edge if present. Removing a missing edge is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, viewerID uint, username string) (*models.User, error) {
	if viewerID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	removed, err := s.followRepo.Delete(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	outcome := "absent"
	if removed {
		outcome = "removed"
	}
	observability.FollowOperations.WithLabelValues("unfollow", outcome).Inc()
	return author, nil
}

// IsFollowing reports whether viewerID follows authorID. Anonymous viewers
// follow nobody.
func (s *FollowService) IsFollowing(ctx context.Context, viewerID, authorID uint) (bool, error) {
	if viewerID == 0 || viewerID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, viewerID, authorID)
}

// FollowCounts holds an author's audience size and how many authors they follow.
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// Counts returns follower and following totals for userID.
func (s *FollowService) Counts(ctx context.Context, userID uint) (FollowCounts, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	return FollowCounts{Followers: followers, Following: following}, nil
}
