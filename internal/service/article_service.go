package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var articleSchema = listctl.Schema[domain.Article]{
	Searchable: []func(domain.Article) string{
		func(a domain.Article) string { return a.Title },
		func(a domain.Article) string { return a.Summary },
		func(a domain.Article) string { return a.Content },
		func(a domain.Article) string { return strings.Join(a.Tags, " ") },
	},
	Fields: map[string]listctl.FieldFunc[domain.Article]{
		"category":   func(a domain.Article) (string, bool) { return a.Category, a.Category != "" },
		"status":     func(a domain.Article) (string, bool) { return string(a.Status), true },
		"visibility": func(a domain.Article) (string, bool) { return string(a.Visibility), true },
	},
	Sorts: map[string]listctl.SortField[domain.Article]{
		"title":        {Kind: listctl.SortString, String: func(a domain.Article) string { return a.Title }},
		"views":        {Kind: listctl.SortNumber, Number: func(a domain.Article) float64 { return float64(a.ViewCount) }},
		"helpfulness":  {Kind: listctl.SortNumber, Number: func(a domain.Article) float64 { return a.HelpfulnessRate() }},
		"published_at": {Kind: listctl.SortTime, Time: func(a domain.Article) time.Time { return timeOrZero(a.PublishedAt) }},
		"created_at":   {Kind: listctl.SortTime, Time: func(a domain.Article) time.Time { return a.CreatedAt }},
	},
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// ArticleService manages the knowledge base.
type ArticleService struct {
	articles   repository.ArticleRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ArticleDependencies bundles collaborators for the article service.
type ArticleDependencies struct {
	ArticleRepo repository.ArticleRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewArticleService constructs the service.
func NewArticleService(deps ArticleDependencies) *ArticleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleService{
		articles:   deps.ArticleRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ArticleCreateInput describes article authoring payload.
type ArticleCreateInput struct {
	Title      string
	Slug       string
	Summary    string
	Content    string
	Category   string
	Tags       []string
	Status     domain.ArticleStatus
	Visibility domain.ArticleVisibility
	AuthorID   *string
}

// ArticleUpdateInput carries optional field updates.
type ArticleUpdateInput struct {
	Title      *string
	Summary    *string
	Content    *string
	Category   *string
	Tags       *[]string
	Status     *domain.ArticleStatus
	Visibility *domain.ArticleVisibility
}

// ArticleFeedback reports tallies after a reader vote.
type ArticleFeedback struct {
	HelpfulCount    int     `json:"helpful_count"`
	NotHelpfulCount int     `json:"not_helpful_count"`
	HelpfulnessRate float64 `json:"helpfulness_rate"`
}

// ArticleSummary aggregates the visible article set.
type ArticleSummary struct {
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ByCategory     map[string]int `json:"by_category"`
	TotalViews     int            `json:"total_views"`
	AvgHelpfulness float64        `json:"avg_helpfulness"`
}

// CreateArticle authors an article. The slug defaults to a slugified title
// and must be unique across the knowledge base.
func (s *ArticleService) CreateArticle(ctx context.Context, actor events.Actor, input ArticleCreateInput) (*domain.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("article title is required", nil)
	}
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, apperrors.NewValidationError("article slug is required", nil)
	}
	if existing, err := s.articles.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, apperrors.NewConflict("article slug already in use", map[string]any{"slug": slug})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	article := &domain.Article{
		Title:      title,
		Slug:       slug,
		Summary:    strings.TrimSpace(input.Summary),
		Content:    input.Content,
		Category:   strings.TrimSpace(input.Category),
		Tags:       input.Tags,
		Status:     input.Status,
		Visibility: input.Visibility,
		AuthorID:   input.AuthorID,
	}
	if article.Status == "" {
		article.Status = domain.ArticleStatusDraft
	}
	if article.Visibility == "" {
		article.Visibility = domain.ArticleVisibilityPublic
	}
	if article.Status == domain.ArticleStatusPublished {
		now := nowUTC()
		article.PublishedAt = &now
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventArticleCreated,
		Resource: events.ResourceArticle,
		Action:   events.ActionCreated,
		EntityID: article.ID,
		Actor:    actor,
	})
	return article, nil
}

// ListArticles returns articles filtered through the list controller.
func (s *ArticleService) ListArticles(ctx context.Context, q listctl.Query) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	return listctl.Visible(articleSchema, articles, q), nil
}

// ListPublished returns the help-surface view: published, public articles
// only, filtered through the list controller.
func (s *ArticleService) ListPublished(ctx context.Context, q listctl.Query) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.Published() && a.Visibility == domain.ArticleVisibilityPublic {
			visible = append(visible, a)
		}
	}
	return listctl.Visible(articleSchema, visible, q), nil
}

// GetArticle fetches one article by id.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return s.articles.GetByID(ctx, id)
}

// GetPublished fetches a published, public article by slug and counts the
// read. Drafts and internal articles stay hidden from the help surface.
func (s *ArticleService) GetPublished(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
		}
		return nil, err
	}
	if !article.Published() || article.Visibility != domain.ArticleVisibilityPublic {
		return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
	}
	count, err := s.articles.IncrementView(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.ViewCount = count
	return article, nil
}

// Summary tallies the articles visible under the query.
func (s *ArticleService) Summary(ctx context.Context, q listctl.Query) (*ArticleSummary, error) {
	visible, err := s.ListArticles(ctx, q)
	if err != nil {
		return nil, err
	}
	summary := &ArticleSummary{
		Total:      len(visible),
		ByStatus:   listctl.CountBy(visible, func(a domain.Article) string { return string(a.Status) }),
		ByCategory: listctl.CountBy(visible, func(a domain.Article) string { return a.Category }),
		TotalViews: int(listctl.SumBy(visible, func(a domain.Article) float64 { return float64(a.ViewCount) })),
	}
	if len(visible) > 0 {
		rates := listctl.SumBy(visible, func(a domain.Article) float64 { return a.HelpfulnessRate() })
		summary.AvgHelpfulness = rates / float64(len(visible))
	}
	return summary, nil
}

// UpdateArticle applies the patch to one article through the mutation
// sequencer. Moving into PUBLISHED stamps the publication time once.
func (s *ArticleService) UpdateArticle(ctx context.Context, actor events.Actor, id string, input ArticleUpdateInput) (*domain.Article, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.NewValidationError("article title cannot be blank", nil)
	}

	var published bool
	coll := &storeCollection[*domain.Article]{
		ctx:    ctx,
		get:    s.articles.GetByID,
		update: s.articles.Update,
		remove: s.articles.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, id, func(a *domain.Article) *domain.Article {
		if input.Title != nil {
			a.Title = strings.TrimSpace(*input.Title)
		}
		if input.Summary != nil {
			a.Summary = strings.TrimSpace(*input.Summary)
		}
		if input.Content != nil {
			a.Content = *input.Content
		}
		if input.Category != nil {
			a.Category = strings.TrimSpace(*input.Category)
		}
		if input.Tags != nil {
			a.Tags = *input.Tags
		}
		if input.Visibility != nil {
			a.Visibility = *input.Visibility
		}
		if input.Status != nil && *input.Status != a.Status {
			if *input.Status == domain.ArticleStatusPublished && a.PublishedAt == nil {
				now := nowUTC()
				a.PublishedAt = &now
				published = true
			}
			a.Status = *input.Status
		}
		return a
	})
	if err != nil {
		return nil, err
	}
	eventType := events.EventArticleUpdated
	if published {
		eventType = events.EventArticlePublished
	}
	s.publish(ctx, events.Event{
		Type:     eventType,
		Resource: events.ResourceArticle,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	return updated, nil
}

// DeleteArticle removes one article through the mutation sequencer.
func (s *ArticleService) DeleteArticle(ctx context.Context, actor events.Actor, id string) error {
	coll := &storeCollection[*domain.Article]{
		ctx:    ctx,
		get:    s.articles.GetByID,
		update: s.articles.Update,
		remove: s.articles.Delete,
	}
	if err := sequencedDelete(coll, s.logger, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventArticleDeleted,
		Resource: events.ResourceArticle,
		Action:   events.ActionDeleted,
		EntityID: id,
		Actor:    actor,
	})
	return nil
}

// RecordFeedback registers a helpful / not-helpful vote on a published,
// public article and returns the updated tallies.
func (s *ArticleService) RecordFeedback(ctx context.Context, slug string, helpful bool) (*ArticleFeedback, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
		}
		return nil, err
	}
	if !article.Published() || article.Visibility != domain.ArticleVisibilityPublic {
		return nil, apperrors.NewNotFound("article", map[string]any{"slug": slug})
	}
	helpfulCount, notHelpfulCount, err := s.articles.RecordFeedback(ctx, article.ID, helpful)
	if err != nil {
		return nil, err
	}
	article.HelpfulCount = helpfulCount
	article.NotHelpfulCount = notHelpfulCount
	return &ArticleFeedback{
		HelpfulCount:    helpfulCount,
		NotHelpfulCount: notHelpfulCount,
		HelpfulnessRate: article.HelpfulnessRate(),
	}, nil
}

// Slugify lowercases the text and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

func (s *ArticleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = newEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = nowUTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
