package service

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/cache"
	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ListingKind names one of the four feeds.
type ListingKind string

const (
	ListingGlobal   ListingKind = "global"
	ListingGroup    ListingKind = "group"
	ListingAuthor   ListingKind = "author"
	ListingFollowed ListingKind = "followed"
)

// Listing is a feed request: a kind plus its filter key or viewer.
type Listing struct {
	Kind     ListingKind
	Slug     string
	Username string
	ViewerID uint
}

// GlobalListing is every post.
func GlobalListing() Listing { return Listing{Kind: ListingGlobal} }

// GroupListing is the posts of the group with slug.
func GroupListing(slug string) Listing { return Listing{Kind: ListingGroup, Slug: slug} }

// AuthorListing is the posts written by username.
func AuthorListing(username string) Listing {
	return Listing{Kind: ListingAuthor, Username: username}
}

// FollowedListing is the posts of every author viewerID follows.
func FollowedListing(viewerID uint) Listing {
	return Listing{Kind: ListingFollowed, ViewerID: viewerID}
}

// Source is a resolved listing: the filter that selects its posts plus the
// entity it was resolved against, if any.
type Source struct {
	Kind   ListingKind
	Filter repository.FeedFilter
	Group  *models.Group
	Author *models.User
}

// PostPage is one page of a feed.
type PostPage = pagination.Page[models.Post]

// GroupFeed is a group page together with the group itself.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	PostPage
}

// Profile describes an author for the author feed.
type Profile struct {
	Author      *models.User `json:"author"`
	FullName    string       `json:"full_name"`
	PostsCount  int64        `json:"posts_count"`
	Followers   int64        `json:"followers"`
	Following   int64        `json:"following"`
	IsFollowing bool         `json:"is_following"`
}

// AuthorFeed is an author page together with the author's profile.
type AuthorFeed struct {
	Profile Profile `json:"profile"`
	PostPage
}

// FeedService composes the global, group, author and followed feeds and
// pages them. Only the global feed goes through the page cache.
type FeedService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	userRepo  repository.UserRepository
	follows   *FollowService
	paginator pagination.Paginator
	pageCache *cache.PageCache
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	follows *FollowService,
	paginator pagination.Paginator,
	pageCache *cache.PageCache,
) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		follows:   follows,
		paginator: paginator,
		pageCache: pageCache,
	}
}

// Compose resolves l into a Source. Unknown slugs and usernames are
// NOT_FOUND; the followed listing requires a viewer.
func (s *FeedService) Compose(ctx context.Context, l Listing) (*Source, error) {
	switch l.Kind {
	case ListingGlobal:
		return &Source{Kind: ListingGlobal}, nil
	case ListingGroup:
		group, err := s.groupRepo.GetBySlug(ctx, l.Slug)
		if err != nil {
			return nil, err
		}
		return &Source{Kind: ListingGroup, Filter: repository.FeedFilter{GroupID: group.ID}, Group: group}, nil
	case ListingAuthor:
		author, err := s.userRepo.GetByUsername(ctx, l.Username)
		if err != nil {
			return nil, err
		}
		return &Source{Kind: ListingAuthor, Filter: repository.FeedFilter{AuthorID: author.ID}, Author: author}, nil
	case ListingFollowed:
		if l.ViewerID == 0 {
			return nil, models.NewUnauthorizedError("Authentication required")
		}
		return &Source{Kind: ListingFollowed, Filter: repository.FeedFilter{FollowerID: l.ViewerID}}, nil
	default:
		return nil, models.NewValidationError(fmt.Sprintf("Unknown listing %q", l.Kind))
	}
}

// Page fetches the requested page of src.
func (s *FeedService) Page(ctx context.Context, src *Source, requested int) (PostPage, error) {
	span, ctx := observability.NewSpan(ctx, "feed.page",
		attribute.String("feed.kind", string(src.Kind)),
		attribute.Int("feed.requested_page", requested),
	)
	defer span.End()

	count, err := s.postRepo.Count(ctx, src.Filter)
	if err != nil {
		span.SetError(err)
		return PostPage{}, err
	}

	w := s.paginator.Window(count, requested)
	var posts []models.Post
	if w.TotalPages > 0 {
		posts, err = s.postRepo.List(ctx, src.Filter, w.Limit, w.Offset)
		if err != nil {
			span.SetError(err)
			return PostPage{}, err
		}
	}

	span.AddAttributes(
		attribute.Int("feed.page", w.Number),
		attribute.Int64("feed.count", w.Count),
	)
	observability.FeedCompositions.WithLabelValues(string(src.Kind)).Inc()
	return pagination.NewPage(w, posts), nil
}

// Global returns the rendered global feed page and whether it came from the
// page cache. Cached pages may lag behind writes by up to the cache window.
func (s *FeedService) Global(ctx context.Context, requested int) ([]byte, bool, error) {
	if requested < pagination.FirstPage {
		requested = pagination.FirstPage
	}
	return s.pageCache.GetOrCompute(ctx, requested, func(ctx context.Context) (any, int, error) {
		src, err := s.Compose(ctx, GlobalListing())
		if err != nil {
			return nil, 0, err
		}
		page, err := s.Page(ctx, src, requested)
		if err != nil {
			return nil, 0, err
		}
		return page, page.Number, nil
	})
}

// Group returns a page of the group's feed.
func (s *FeedService) Group(ctx context.Context, slug string, requested int) (*GroupFeed, error) {
	src, err := s.Compose(ctx, GroupListing(slug))
	if err != nil {
		return nil, err
	}
	page, err := s.Page(ctx, src, requested)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: src.Group, PostPage: page}, nil
}

// Author returns a page of the author's feed with their profile as seen by viewerID.
func (s *FeedService) Author(ctx context.Context, username string, requested int, viewerID uint) (*AuthorFeed, error) {
	src, err := s.Compose(ctx, AuthorListing(username))
	if err != nil {
		return nil, err
	}
	page, err := s.Page(ctx, src, requested)
	if err != nil {
		return nil, err
	}

	counts, err := s.follows.Counts(ctx, src.Author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.IsFollowing(ctx, viewerID, src.Author.ID)
	if err != nil {
		return nil, err
	}

	return &AuthorFeed{
		Profile: Profile{
			Author:      src.Author,
			FullName:    src.Author.FullName(),
			PostsCount:  page.Count,
			Followers:   counts.Followers,
			Following:   counts.Following,
			IsFollowing: following,
		},
		PostPage: page,
	}, nil
}

// Followed returns a page of posts by authors viewerID follows.
func (s *FeedService) Followed(ctx context.Context, viewerID uint, requested int) (*PostPage, error) {
	src, err := s.Compose(ctx, FollowedListing(viewerID))
	if err != nil {
		return nil, err
	}
	page, err := s.Page(ctx, src, requested)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// CacheWindow is how long a global feed page may be served from the cache.
func (s *FeedService) CacheWindow() time.Duration {
	return s.pageCache.TTL()
}

// ClearCache drops every cached global feed page.
func (s *FeedService) ClearCache(ctx context.Context) error {
	if err := s.pageCache.Clear(ctx); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
