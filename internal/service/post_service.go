package service

import (
	"context"
	"strings"

	"yatube/internal/models"
	"yatube/internal/repository"
)

const maxPostTextLen = 10000

// ImageStore persists an uploaded post image and returns its media path.
type ImageStore interface {
	Save(ctx context.Context, in UploadImageInput) (string, error)
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	comments  repository.CommentRepository
	images    ImageStore
}

type CreatePostInput struct {
	UserID  uint
	Text    string
	GroupID *uint
	Image   *UploadImageInput
}

// UpdatePostInput replaces the editable fields of a post. A nil GroupID
// detaches the post from its group; a nil Image keeps the current one.
type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Text        string
	GroupID     *uint
	Image       *UploadImageInput
	RemoveImage bool
}

// PostDetail is a post with its comments and the author's post total.
type PostDetail struct {
	Post             *models.Post     `json:"post"`
	Comments         []models.Comment `json:"comments"`
	AuthorPostsCount int64            `json:"author_posts_count"`
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	comments repository.CommentRepository,
	images ImageStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		comments:  comments,
		images:    images,
	}
}

func validatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Text is required")
	}
	if len(text) > maxPostTextLen {
		return models.NewValidationError("Text too long (max 10000 characters)")
	}
	return nil
}

func (s *PostService) resolveGroup(ctx context.Context, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	_, err := s.groupRepo.GetByID(ctx, *groupID)
	return err
}

func (s *PostService) saveImage(ctx context.Context, userID uint, in *UploadImageInput) (string, error) {
	if in == nil {
		return "", nil
	}
	if s.images == nil {
		return "", models.NewValidationError("Image uploads are disabled")
	}
	in.UserID = userID
	return s.images.Save(ctx, *in)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validatePostText(in.Text); err != nil {
		return nil, err
	}
	if err := s.resolveGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}
	image, err := s.saveImage(ctx, in.UserID, in.Image)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:    in.Text,
		UserID:  in.UserID,
		GroupID: in.GroupID,
		Image:   image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPost returns the post with its comments, oldest first.
func (s *PostService) GetPost(ctx context.Context, postID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.Count(ctx, repository.FeedFilter{AuthorID: post.UserID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostsCount: count}, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewPermissionDeniedError("You can only edit your own posts")
	}
	if err := validatePostText(in.Text); err != nil {
		return nil, err
	}
	if err := s.resolveGroup(ctx, in.GroupID); err != nil {
		return nil, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	switch {
	case in.Image != nil:
		image, err := s.saveImage(ctx, in.UserID, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = image
	case in.RemoveImage:
		post.Image = ""
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewPermissionDeniedError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}
