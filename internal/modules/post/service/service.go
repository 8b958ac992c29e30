package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/blogfeed/internal/entity"
	commentRepo "anoa.com/blogfeed/internal/modules/comment/repository"
	groupRepo "anoa.com/blogfeed/internal/modules/group/repository"
	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	search "anoa.com/blogfeed/internal/modules/search/service"
	userRepo "anoa.com/blogfeed/internal/modules/user/repository"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/feedcache"
	"anoa.com/blogfeed/pkg/logger"
	"anoa.com/blogfeed/pkg/ratelimiter"
	"anoa.com/blogfeed/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest, image *dto.ImageFile) (*dto.PostResponse, error)
	UpdatePost(ctx context.Context, editorID uuid.UUID, postID uint, req postDto.UpdatePostRequest, image *dto.ImageFile) (*dto.PostResponse, error)
	// DeletePost returns the author's username so the caller can redirect to the profile.
	DeletePost(ctx context.Context, userID uuid.UUID, postID uint) (string, error)
	GetPost(ctx context.Context, postID uint) (*dto.PostResponse, error)
	GetPostDetail(ctx context.Context, postID uint) (*postDto.PostDetailResponse, error)
	CreateForm(ctx context.Context) (*dto.FormSchema, error)
	EditForm(ctx context.Context, editorID uuid.UUID, postID uint) (*dto.FormSchema, error)
}

// Options tunes a PostService. Zero values fall back to defaults.
type Options struct {
	RateLimit time.Duration
	Now       func() time.Time
}

type postService struct {
	postRepo     postRepo.PostRepository
	groupRepo    groupRepo.GroupRepository
	commentRepo  commentRepo.CommentRepository
	userRepo     userRepo.UserRepository
	imageStorage storage.ImageStorage
	redisClient  *redis.Client
	cache        feedcache.Cache
	meili        search.MeiliSearchService
	rateLimit    time.Duration
	now          func() time.Time
}

func NewPostService(postRepo postRepo.PostRepository, groupRepo groupRepo.GroupRepository, commentRepo commentRepo.CommentRepository, userRepo userRepo.UserRepository, imageStorage storage.ImageStorage, redisClient *redis.Client, cache feedcache.Cache, meili search.MeiliSearchService, opts Options) PostService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &postService{
		postRepo:     postRepo,
		groupRepo:    groupRepo,
		commentRepo:  commentRepo,
		userRepo:     userRepo,
		imageStorage: imageStorage,
		redisClient:  redisClient,
		cache:        cache,
		meili:        meili,
		rateLimit:    opts.RateLimit,
		now:          now,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req postDto.CreatePostRequest, image *dto.ImageFile) (*dto.PostResponse, error) {
	verr := &apperror.ValidationError{}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		verr.Add("text", "this field is required")
	}

	groupID, err := s.resolveGroup(ctx, req.GroupID)
	if err != nil {
		if !errors.Is(err, apperror.ErrInvalidInput) {
			return nil, err
		}
		verr.Add("group", "select a valid choice")
	}

	data, err := readImage(image)
	if err != nil {
		verr.Add("image", err.Error())
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, authorID, ratelimiter.ScopePost, s.rateLimit)
	if err != nil {
		return nil, err
	}
	created := false
	defer func() {
		if !created {
			release()
		}
	}()

	post := &entity.Post{
		Text:     text,
		PubDate:  s.now().UTC(),
		GroupID:  groupID,
		AuthorID: authorID,
	}

	if data != nil {
		url, err := s.uploadImage(ctx, data, image.FileName)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("author not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	created = true

	feedcache.InvalidateOrLog(ctx, s.cache, "post created")

	reloaded, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, reloaded)

	logger.Ctx(ctx).Info().Uint("post_id", post.ID).Str("author_id", authorID.String()).Msg("post created")

	resp := postDto.ToPostResponse(reloaded)
	return &resp, nil
}

func (s *postService) UpdatePost(ctx context.Context, editorID uuid.UUID, postID uint, req postDto.UpdatePostRequest, image *dto.ImageFile) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != editorID {
		return nil, fmt.Errorf("you can only edit your own post: %w", apperror.ErrForbidden)
	}

	verr := &apperror.ValidationError{}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			verr.Add("text", "this field is required")
		}
	}

	var groupID *uint
	if req.GroupID != nil {
		groupID, err = s.resolveGroup(ctx, *req.GroupID)
		if err != nil {
			if !errors.Is(err, apperror.ErrInvalidInput) {
				return nil, err
			}
			verr.Add("group", "select a valid choice")
		}
	}

	data, err := readImage(image)
	if err != nil {
		verr.Add("image", err.Error())
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if req.Text != nil {
		post.Text = strings.TrimSpace(*req.Text)
	}
	if req.GroupID != nil {
		post.GroupID = groupID
	}

	oldImage := post.Image
	if req.ClearImage {
		post.Image = ""
	}
	if data != nil {
		url, err := s.uploadImage(ctx, data, image.FileName)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	if oldImage != "" && oldImage != post.Image {
		s.deleteImage(ctx, oldImage)
	}

	feedcache.InvalidateOrLog(ctx, s.cache, "post updated")

	reloaded, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, reloaded)

	resp := postDto.ToPostResponse(reloaded)
	return &resp, nil
}

func (s *postService) DeletePost(ctx context.Context, userID uuid.UUID, postID uint) (string, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return "", err
	}

	if post.AuthorID != userID {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil || !user.IsAdmin() {
			return "", fmt.Errorf("you can only delete your own post unless you are an admin: %w", apperror.ErrForbidden)
		}
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return "", err
	}

	if post.Image != "" {
		s.deleteImage(ctx, post.Image)
	}

	feedcache.InvalidateOrLog(ctx, s.cache, "post deleted")

	if s.meili != nil {
		if err := s.meili.DeletePost(post.ID); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Uint("post_id", post.ID).Msg("failed to remove post from search index")
		}
	}

	return post.Author.Username, nil
}

func (s *postService) GetPost(ctx context.Context, postID uint) (*dto.PostResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	resp := postDto.ToPostResponse(post)
	return &resp, nil
}

func (s *postService) GetPostDetail(ctx context.Context, postID uint) (*postDto.PostDetailResponse, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.Count(ctx, postRepo.Filter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		commentResponses = append(commentResponses, postDto.ToCommentResponse(c))
	}

	return &postDto.PostDetailResponse{
		Post:            postDto.ToPostResponse(post),
		AuthorPostCount: count,
		Comments:        commentResponses,
		CommentForm:     postDto.CommentForm(),
	}, nil
}

func (s *postService) CreateForm(ctx context.Context) (*dto.FormSchema, error) {
	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	form := postDto.PostForm(groups, nil)
	return &form, nil
}

func (s *postService) EditForm(ctx context.Context, editorID uuid.UUID, postID uint) (*dto.FormSchema, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != editorID {
		return nil, fmt.Errorf("you can only edit your own post: %w", apperror.ErrForbidden)
	}

	groups, err := s.groupRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	form := postDto.PostForm(groups, post)
	return &form, nil
}
