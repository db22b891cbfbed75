package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type feedFixture struct {
	db    *gorm.DB
	svc   *FeedService
	posts repository.PostRepository
	clock *time.Time
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	store := cache.NewMemoryStoreWithClock(func() time.Time { return now })

	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	follows := NewFollowService(repository.NewFollowRepository(db), userRepo)
	svc := NewFeedService(
		postRepo,
		repository.NewGroupRepository(db),
		userRepo,
		follows,
		pagination.New(10),
		cache.NewPageCache(store, 20*time.Second),
	)
	return &feedFixture{db: db, svc: svc, posts: postRepo, clock: &now}
}

func decodePage(t *testing.T, body []byte) PostPage {
	t.Helper()
	var page PostPage
	require.NoError(t, json.Unmarshal(body, &page))
	return page
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestFeedService_GlobalPaging(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	created := testutil.CreatePosts(t, f.db, author, nil, 15)

	body, hit, err := f.svc.Global(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	first := decodePage(t, body)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, created[14].ID, first.Items[0].ID, "newest first")
	assert.Equal(t, 2, first.TotalPages)
	assert.EqualValues(t, 15, first.Count)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)
	assert.Equal(t, "leo", first.Items[0].Author.Username)

	body, _, err = f.svc.Global(ctx, 2)
	require.NoError(t, err)
	second := decodePage(t, body)
	assert.Len(t, second.Items, 5)
	assert.Equal(t, created[0].ID, second.Items[4].ID)

	body, hit, err = f.svc.Global(ctx, 99)
	require.NoError(t, err)
	assert.True(t, hit, "over-range requests reuse the cached last page")
	clamped := decodePage(t, body)
	assert.Equal(t, 2, clamped.Number)
	assert.Equal(t, postIDs(second.Items), postIDs(clamped.Items))

	body, _, err = f.svc.Global(ctx, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, decodePage(t, body).Number)
}

func TestFeedService_GlobalEmpty(t *testing.T) {
	f := newFeedFixture(t)
	body, _, err := f.svc.Global(context.Background(), 1)
	require.NoError(t, err)
	page := decodePage(t, body)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 0, page.TotalPages)
	assert.EqualValues(t, 0, page.Count)
}

func TestFeedService_GlobalCacheWindow(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	posts := testutil.CreatePosts(t, f.db, author, nil, 3)

	before, hit, err := f.svc.Global(ctx, 1)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, f.posts.Delete(ctx, posts[2].ID))

	during, hit, err := f.svc.Global(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, before, during, "reads within the window are byte-identical")

	require.NoError(t, f.svc.ClearCache(ctx))
	after, hit, err := f.svc.Global(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, decodePage(t, after).Items, 2)

	testutil.CreatePost(t, f.db, author, nil, "fresh", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	*f.clock = f.clock.Add(21 * time.Second)
	expired, hit, err := f.svc.Global(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "fresh", decodePage(t, expired).Items[0].Text)
}

func TestFeedService_GroupAndAuthorAreUncached(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "leo")
	other := testutil.CreateUser(t, f.db, "mia")
	cats := testutil.CreateGroup(t, f.db, "cats")
	dogs := testutil.CreateGroup(t, f.db, "dogs")
	inCats := testutil.CreatePosts(t, f.db, author, cats, 2)
	testutil.CreatePosts(t, f.db, other, dogs, 2)

	feed, err := f.svc.Group(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "cats", feed.Group.Slug)
	assert.Equal(t, []uint{inCats[1].ID, inCats[0].ID}, postIDs(feed.Items))

	require.NoError(t, f.posts.Delete(ctx, inCats[1].ID))
	feed, err = f.svc.Group(ctx, "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{inCats[0].ID}, postIDs(feed.Items))

	profile, err := f.svc.Author(ctx, "mia", 1, author.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, profile.Profile.PostsCount)
	assert.False(t, profile.Profile.IsFollowing)
	for _, p := range profile.Items {
		assert.Equal(t, other.ID, p.UserID)
	}

	_, err = f.svc.Group(ctx, "birds", 1)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	_, err = f.svc.Author(ctx, "ghost", 1, 0)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestFeedService_Followed(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, f.db, "reader")
	followed := testutil.CreateUser(t, f.db, "followed")
	stranger := testutil.CreateUser(t, f.db, "stranger")
	wanted := testutil.CreatePosts(t, f.db, followed, nil, 3)
	testutil.CreatePosts(t, f.db, stranger, nil, 3)

	follows := NewFollowService(repository.NewFollowRepository(f.db), repository.NewUserRepository(f.db))
	_, err := follows.Follow(ctx, reader.ID, "followed")
	require.NoError(t, err)

	page, err := f.svc.Followed(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{wanted[2].ID, wanted[1].ID, wanted[0].ID}, postIDs(page.Items))

	page, err = f.svc.Followed(ctx, stranger.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)

	_, err = f.svc.Followed(ctx, 0, 1)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	profile, err := f.svc.Author(ctx, "followed", 1, reader.ID)
	require.NoError(t, err)
	assert.True(t, profile.Profile.IsFollowing)
	assert.EqualValues(t, 1, profile.Profile.Followers)
}

func TestFeedService_FollowedPagesThroughOneAuthor(t *testing.T) {
	f := newFeedFixture(t)
	ctx := context.Background()
	reader := testutil.CreateUser(t, f.db, "reader")
	author := testutil.CreateUser(t, f.db, "author")
	stranger := testutil.CreateUser(t, f.db, "stranger")
	created := testutil.CreatePosts(t, f.db, author, nil, 15)
	for i := 0; i < 4; i++ {
		testutil.CreatePost(t, f.db, stranger, nil, "newer and unrelated", testutil.Epoch.Add(time.Hour+time.Duration(i)*time.Second))
	}

	before, err := f.svc.Followed(ctx, reader.ID, 1)
	require.NoError(t, err)
	assert.NotNil(t, before.Items)
	assert.Empty(t, before.Items)
	assert.Equal(t, 1, before.Number)
	assert.Equal(t, 0, before.TotalPages)

	follows := NewFollowService(repository.NewFollowRepository(f.db), repository.NewUserRepository(f.db))
	_, err = follows.Follow(ctx, reader.ID, "author")
	require.NoError(t, err)

	first, err := f.svc.Followed(ctx, reader.ID, 1)
	require.NoError(t, err)
	want := make([]uint, 0, 10)
	for i := 14; i >= 5; i-- {
		want = append(want, created[i].ID)
	}
	assert.Equal(t, want, postIDs(first.Items))
	assert.EqualValues(t, 15, first.Count)
	assert.Equal(t, 2, first.TotalPages)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	second, err := f.svc.Followed(ctx, reader.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{created[4].ID, created[3].ID, created[2].ID, created[1].ID, created[0].ID}, postIDs(second.Items))
	assert.False(t, second.HasNext)
	assert.True(t, second.HasPrevious)

	for _, p := range append(first.Items, second.Items...) {
		assert.Equal(t, author.ID, p.UserID)
	}
}

func TestFeedService_ComposeUnknownKind(t *testing.T) {
	svc := NewFeedService(postRepoWith(nil), noopGroupRepo(), usersByName(), nil, pagination.New(10), nil)
	_, err := svc.Compose(context.Background(), Listing{Kind: "trending"})
	expectCode(t, err, models.CodeValidation)
}

func TestFeedService_PageSurfacesRepositoryErrors(t *testing.T) {
	posts := postRepoWith(nil)
	posts.countFn = func(context.Context, repository.FeedFilter) (int64, error) {
		return 0, models.NewInternalError(errors.New("connection reset"))
	}
	svc := NewFeedService(posts, noopGroupRepo(), usersByName(), nil, pagination.New(10), nil)

	_, err := svc.Page(context.Background(), &Source{Kind: ListingGlobal}, 1)
	expectCode(t, err, models.CodeInternal)
}

func TestFeedService_PageSkipsListWhenEmpty(t *testing.T) {
	posts := postRepoWith(nil)
	posts.listFn = func(context.Context, repository.FeedFilter, int, int) ([]models.Post, error) {
		t.Fatal("List must not run for an empty feed")
		return nil, nil
	}
	svc := NewFeedService(posts, noopGroupRepo(), usersByName(), nil, pagination.New(10), nil)

	page, err := svc.Page(context.Background(), &Source{Kind: ListingGlobal}, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
}
