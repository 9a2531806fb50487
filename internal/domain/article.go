package domain

import (
	"math"
	"time"
)

// ArticleStatus enumerates editorial lifecycle states for help articles.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusReview    ArticleStatus = "REVIEW"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
	ArticleStatusArchived  ArticleStatus = "ARCHIVED"
)

// ArticleVisibility controls which audience may read a published article.
type ArticleVisibility string

const (
	ArticleVisibilityPublic   ArticleVisibility = "PUBLIC"
	ArticleVisibilityInternal ArticleVisibility = "INTERNAL"
)

// Article is a knowledge base entry authored by staff and served to
// customers on the help surface once published.
type Article struct {
	ID              string
	Title           string
	Slug            string
	Summary         string
	Content         string
	Category        string
	Tags            []string
	Status          ArticleStatus
	Visibility      ArticleVisibility
	AuthorID        *string
	ViewCount       int
	HelpfulCount    int
	NotHelpfulCount int
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Published reports whether the article is live on the help surface.
func (a *Article) Published() bool {
	return a.Status == ArticleStatusPublished
}

// HelpfulnessRate is the share of feedback marking the article helpful, as
// a percentage rounded to one decimal. No feedback yields zero.
func (a *Article) HelpfulnessRate() float64 {
	total := a.HelpfulCount + a.NotHelpfulCount
	if total == 0 {
		return 0
	}
	return math.Round(float64(a.HelpfulCount)/float64(total)*1000) / 10
}
