package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/internal/modules/comment/dto"
	commentRepo "anoa.com/blogfeed/internal/modules/comment/repository"
	postDto "anoa.com/blogfeed/internal/modules/post/dto"
	postRepo "anoa.com/blogfeed/internal/modules/post/repository"
	"anoa.com/blogfeed/pkg/apperror"
	commonDto "anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CommentService interface {
	AddComment(ctx context.Context, authorID uuid.UUID, postID uint, req dto.CreateCommentRequest) (*commonDto.CommentResponse, error)
	ListByPost(ctx context.Context, postID uint) ([]commonDto.CommentResponse, error)
}

type Options struct {
	RateLimit time.Duration
	Now       func() time.Time
}

type commentService struct {
	commentRepo commentRepo.CommentRepository
	postRepo    postRepo.PostRepository
	redisClient *redis.Client
	rateLimit   time.Duration
	now         func() time.Time
}

func NewCommentService(commentRepo commentRepo.CommentRepository, postRepo postRepo.PostRepository, redisClient *redis.Client, opts Options) CommentService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		redisClient: redisClient,
		rateLimit:   opts.RateLimit,
		now:         now,
	}
}

func (s *commentService) AddComment(ctx context.Context, authorID uuid.UUID, postID uint, req dto.CreateCommentRequest) (*commonDto.CommentResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, apperror.ErrNotFound)
		}
		return nil, err
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.NewValidationError("text", "this field is required")
	}

	release, err := ratelimiter.Acquire(ctx, s.redisClient, authorID, ratelimiter.ScopeComment, s.rateLimit)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:   &post.ID,
		AuthorID: authorID,
		Text:     text,
		Created:  s.now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		release()
		return nil, err
	}

	saved, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	resp := postDto.ToCommentResponse(saved)
	return &resp, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID uint) ([]commonDto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, apperror.ErrNotFound)
		}
		return nil, err
	}

	comments, err := s.commentRepo.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	out := make([]commonDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, postDto.ToCommentResponse(c))
	}
	return out, nil
}
