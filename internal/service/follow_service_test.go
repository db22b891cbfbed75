package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = &models.User{ID: 1, Username: "alice"}
	bob   = &models.User{ID: 2, Username: "bob"}
)

func TestFollowServiceFollowSelf(t *testing.T) {
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, *models.Follow) error {
		t.Fatal("self-follow must not reach storage")
		return nil
	}
	svc := NewFollowService(follows, usersByName(alice, bob))

	_, err := svc.Follow(context.Background(), alice.ID, "alice")
	expectCode(t, err, models.CodeConstraintViolation)
}

func TestFollowServiceFollowAnonymous(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), usersByName(alice, bob))
	_, err := svc.Follow(context.Background(), 0, "bob")
	expectCode(t, err, models.CodeUnauthorized)
}

func TestFollowServiceFollowUnknownAuthor(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), usersByName(alice))
	_, err := svc.Follow(context.Background(), alice.ID, "ghost")
	expectCode(t, err, models.CodeNotFound)
}

func TestFollowServiceDuplicateFollowSucceeds(t *testing.T) {
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, *models.Follow) error {
		return models.NewConstraintViolationError("Already following", errors.New("duplicate key"))
	}
	follows.existsFn = func(_ context.Context, userID, authorID uint) (bool, error) {
		return userID == alice.ID && authorID == bob.ID, nil
	}
	svc := NewFollowService(follows, usersByName(alice, bob))

	author, err := svc.Follow(context.Background(), alice.ID, "bob")
	if err != nil {
		t.Fatalf("duplicate follow should succeed, got %v", err)
	}
	if author.ID != bob.ID {
		t.Fatalf("expected bob, got %#v", author)
	}
}

func TestFollowServiceViolationWithoutEdgePropagates(t *testing.T) {
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, *models.Follow) error {
		return models.NewConstraintViolationError("Follow references a missing user", errors.New("fk"))
	}
	svc := NewFollowService(follows, usersByName(alice, bob))

	_, err := svc.Follow(context.Background(), alice.ID, "bob")
	expectCode(t, err, models.CodeConstraintViolation)
}

func TestFollowServiceUnfollowAbsentIsNoop(t *testing.T) {
	calls := 0
	follows := noopFollowRepo()
	follows.deleteFn = func(context.Context, uint, uint) (bool, error) {
		calls++
		return false, nil
	}
	svc := NewFollowService(follows, usersByName(alice, bob))

	if _, err := svc.Unfollow(context.Background(), alice.ID, "bob"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one delete, got %d", calls)
	}
}

func TestFollowServiceIsFollowingAnonymous(t *testing.T) {
	follows := noopFollowRepo()
	follows.existsFn = func(context.Context, uint, uint) (bool, error) {
		t.Fatal("anonymous viewers must not query storage")
		return false, nil
	}
	svc := NewFollowService(follows, usersByName(alice, bob))

	following, err := svc.IsFollowing(context.Background(), 0, bob.ID)
	if err != nil || following {
		t.Fatalf("expected false, nil; got %v, %v", following, err)
	}
}

func TestFollowServiceAgainstDatabase(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, db, "alice")
	b := testutil.CreateUser(t, db, "bob")

	followRepo := repository.NewFollowRepository(db)
	svc := NewFollowService(followRepo, repository.NewUserRepository(db))

	_, err := svc.Follow(ctx, a.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Follow(ctx, a.ID, "bob")
	require.NoError(t, err, "second follow is idempotent")

	counts, err := svc.Counts(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowCounts{Followers: 1, Following: 0}, counts)

	following, err := svc.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	_, err = svc.Unfollow(ctx, a.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Unfollow(ctx, a.ID, "bob")
	require.NoError(t, err, "second unfollow is a no-op")

	following, err = svc.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	_, err = svc.Follow(ctx, a.ID, "alice")
	assert.True(t, models.IsCode(err, models.CodeConstraintViolation))
}
