package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/api/dto"
	"github.com/spec-kit/bsm-service/internal/auth"
	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/service"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var articleCriteria = []string{"category", "status", "visibility"}

// ArticlesHandler manages knowledge base endpoints. Staff author and manage
// articles under /articles; the customer help surface reads published ones
// under /help/articles.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// Create POST /api/v1/articles.
func (h *ArticlesHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	var authorID *string
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Staff != nil {
		authorID = &principal.Staff.ID
	}
	article, err := h.service.CreateArticle(c.Context(), actor, service.ArticleCreateInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Summary:    req.Summary,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Status:     req.Status,
		Visibility: req.Visibility,
		AuthorID:   authorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// List GET /api/v1/articles.
func (h *ArticlesHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c, articleCriteria...)
	articles, err := h.service.ListArticles(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleItems(articles)})
}

// Summary GET /api/v1/articles/summary.
func (h *ArticlesHandler) Summary(c *fiber.Ctx) error {
	q := parseListQuery(c, articleCriteria...)
	summary, err := h.service.Summary(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Export GET /api/v1/articles/export.
func (h *ArticlesHandler) Export(c *fiber.Ctx) error {
	q := parseListQuery(c, articleCriteria...)
	articles, err := h.service.ListArticles(c.Context(), q)
	if err != nil {
		return err
	}
	return sendExport(c, "articles", export.ArticleTable(articles))
}

// Get GET /api/v1/articles/:id.
func (h *ArticlesHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Update PATCH /api/v1/articles/:id.
func (h *ArticlesHandler) Update(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.service.UpdateArticle(c.Context(), actor, c.Params("id"), service.ArticleUpdateInput{
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		Status:     req.Status,
		Visibility: req.Visibility,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Delete DELETE /api/v1/articles/:id.
func (h *ArticlesHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteArticle(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListHelp GET /api/v1/help/articles.
func (h *ArticlesHandler) ListHelp(c *fiber.Ctx) error {
	q := parseListQuery(c, "category")
	articles, err := h.service.ListPublished(c.Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleItems(articles)})
}

// GetHelp GET /api/v1/help/articles/:slug.
func (h *ArticlesHandler) GetHelp(c *fiber.Ctx) error {
	article, err := h.service.GetPublished(c.Context(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ArticleFromDomain(article)})
}

// Feedback POST /api/v1/help/articles/:slug/feedback.
func (h *ArticlesHandler) Feedback(c *fiber.Ctx) error {
	var req dto.ArticleFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	feedback, err := h.service.RecordFeedback(c.Context(), c.Params("slug"), req.Helpful)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": feedback})
}

func articleItems(articles []domain.Article) []dto.ArticleResponse {
	items := make([]dto.ArticleResponse, 0, len(articles))
	for i := range articles {
		items = append(items, dto.ArticleFromDomain(&articles[i]))
	}
	return items
}
