package post

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/pkg/apperror"
	"anoa.com/blogfeed/pkg/dto"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// MaxImageSize caps an uploaded post image.
const MaxImageSize = 10 << 20

var errNotAnImage = errors.New("upload a valid image: the file is either not an image or corrupted")

func (s *postService) findPost(ctx context.Context, postID uint) (*entity.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", postID, apperror.ErrNotFound)
		}
		return nil, err
	}
	return post, nil
}

// resolveGroup maps the submitted group id to a stored group. An empty value means no group.
func (s *postService) resolveGroup(ctx context.Context, raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, fmt.Errorf("group %q: %w", raw, apperror.ErrInvalidInput)
	}

	group, err := s.groupRepo.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %d: %w", id, apperror.ErrInvalidInput)
		}
		return nil, err
	}
	return &group.ID, nil
}

// readImage buffers the upload and checks that it really is an image.
func readImage(image *dto.ImageFile) ([]byte, error) {
	if image == nil || image.Reader == nil {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(image.Reader, MaxImageSize+1))
	if err != nil {
		return nil, errors.New("failed to read image")
	}
	if len(data) == 0 {
		return nil, errors.New("the submitted file is empty")
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("image must be at most %d MB", MaxImageSize>>20)
	}

	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, errNotAnImage
	}
	return data, nil
}

func (s *postService) uploadImage(ctx context.Context, data []byte, fileName string) (string, error) {
	if s.imageStorage == nil {
		return "", apperror.NewValidationError("image", "image uploads are not enabled")
	}
	url, err := s.imageStorage.UploadImage(ctx, bytes.NewReader(data), fileName)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}

func (s *postService) deleteImage(ctx context.Context, url string) {
	if s.imageStorage == nil {
		return
	}
	if err := s.imageStorage.DeleteImage(ctx, url); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("url", url).Msg("failed to delete post image")
	}
}

func (s *postService) index(ctx context.Context, post *entity.Post) {
	if s.meili == nil {
		return
	}
	if err := s.meili.IndexPost(post); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Uint("post_id", post.ID).Msg("failed to index post")
	}
}
