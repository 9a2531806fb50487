package dto

import (
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	Title      string                   `json:"title"`
	Slug       string                   `json:"slug"`
	Summary    string                   `json:"summary"`
	Content    string                   `json:"content"`
	Category   string                   `json:"category"`
	Tags       []string                 `json:"tags"`
	Status     domain.ArticleStatus     `json:"status"`
	Visibility domain.ArticleVisibility `json:"visibility"`
}

// UpdateArticleRequest payload; absent fields are left unchanged.
type UpdateArticleRequest struct {
	Title      *string                   `json:"title,omitempty"`
	Summary    *string                   `json:"summary,omitempty"`
	Content    *string                   `json:"content,omitempty"`
	Category   *string                   `json:"category,omitempty"`
	Tags       *[]string                 `json:"tags,omitempty"`
	Status     *domain.ArticleStatus     `json:"status,omitempty"`
	Visibility *domain.ArticleVisibility `json:"visibility,omitempty"`
}

// ArticleFeedbackRequest payload for reader votes.
type ArticleFeedbackRequest struct {
	Helpful bool `json:"helpful"`
}

// ArticleResponse response shape for articles.
type ArticleResponse struct {
	ID              string                   `json:"id"`
	Title           string                   `json:"title"`
	Slug            string                   `json:"slug"`
	Summary         string                   `json:"summary"`
	Content         string                   `json:"content"`
	Category        string                   `json:"category"`
	Tags            []string                 `json:"tags"`
	Status          domain.ArticleStatus     `json:"status"`
	Visibility      domain.ArticleVisibility `json:"visibility"`
	AuthorID        *string                  `json:"author_id"`
	ViewCount       int                      `json:"view_count"`
	HelpfulCount    int                      `json:"helpful_count"`
	NotHelpfulCount int                      `json:"not_helpful_count"`
	HelpfulnessRate float64                  `json:"helpfulness_rate"`
	PublishedAt     *time.Time               `json:"published_at"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ArticleFromDomain maps an article.
func ArticleFromDomain(a *domain.Article) ArticleResponse {
	return ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Summary:         a.Summary,
		Content:         a.Content,
		Category:        a.Category,
		Tags:            a.Tags,
		Status:          a.Status,
		Visibility:      a.Visibility,
		AuthorID:        a.AuthorID,
		ViewCount:       a.ViewCount,
		HelpfulCount:    a.HelpfulCount,
		NotHelpfulCount: a.NotHelpfulCount,
		HelpfulnessRate: a.HelpfulnessRate(),
		PublishedAt:     a.PublishedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
