package service

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"anoa.com/blogfeed/internal/entity"
	"anoa.com/blogfeed/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

const postsIndex = "posts"

type MeiliSearchService interface {
	IndexPost(post *entity.Post) error
	DeletePost(id uint) error
	// SearchPostIDs returns matching ids newest first plus the estimated total.
	SearchPostIDs(query string, offset, limit int64) ([]uint, int64, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) MeiliSearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortable := []string{"pub_date"}
	if _, err := s.client.Index(postsIndex).UpdateSortableAttributes(&sortable); err != nil {
		logger.Warn().Err(err).Msg("failed to update posts sortable attributes")
	}

	filterable := []any{"author", "group_slug"}
	if _, err := s.client.Index(postsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.Warn().Err(err).Msg("failed to update posts filterable attributes")
	}
}

type meiliPostDoc struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	GroupSlug string `json:"group_slug,omitempty"`
	PubDate   int64  `json:"pub_date"`
}

type meiliSearchResult struct {
	Hits []struct {
		ID uint `json:"id"`
	} `json:"hits"`
	EstimatedTotalHits int64 `json:"estimatedTotalHits"`
}

func cleanTextForIndex(sanitizer *bluemonday.Policy, text string) string {
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<br>", " ")

	cleaned := html.UnescapeString(sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(cleaned), " ")
}

func buildPostDoc(sanitizer *bluemonday.Policy, post *entity.Post) meiliPostDoc {
	doc := meiliPostDoc{
		ID:      post.ID,
		Text:    cleanTextForIndex(sanitizer, post.Text),
		Author:  post.Author.Username,
		PubDate: post.PubDate.Unix(),
	}
	if post.Group != nil {
		doc.GroupSlug = post.Group.Slug
	}
	return doc
}

// IndexPost expects Author and Group to be preloaded.
func (s *meiliSearchService) IndexPost(post *entity.Post) error {
	if post.Author.Username == "" {
		return fmt.Errorf("post %d author not loaded", post.ID)
	}

	doc := buildPostDoc(s.sanitizer, post)
	task, err := s.client.Index(postsIndex).AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	logger.Debug().Uint("post_id", post.ID).Int64("task_uid", task.TaskUID).Msg("post indexed")
	return nil
}

func (s *meiliSearchService) DeletePost(id uint) error {
	_, err := s.client.Index(postsIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10))
	return err
}

func (s *meiliSearchService) SearchPostIDs(query string, offset, limit int64) ([]uint, int64, error) {
	raw, err := s.client.Index(postsIndex).SearchRaw(query, &meilisearch.SearchRequest{
		Offset:               offset,
		Limit:                limit,
		Sort:                 []string{"pub_date:desc"},
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, 0, err
	}
	if raw == nil {
		return nil, 0, nil
	}

	var result meiliSearchResult
	if err := json.Unmarshal(*raw, &result); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, result.EstimatedTotalHits, nil
}

func strPtr(s string) *string {
	return &s
}
