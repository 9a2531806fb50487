package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/bsm-service/internal/domain"
)

const articleColumns = `id, title, slug, summary, content, category, tags, status, visibility,
               author_id, view_count, helpful_count, not_helpful_count, published_at,
               created_at, updated_at`

// ArticleRepository encapsulates knowledge base persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context) ([]domain.Article, error)
	IncrementView(ctx context.Context, id string) (int, error)
	RecordFeedback(ctx context.Context, id string, helpful bool) (helpfulCount, notHelpfulCount int, err error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO kb_articles (title, slug, summary, content, category, tags, status, visibility,
                                 author_id, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Category,
		article.Tags,
		article.Status,
		article.Visibility,
		article.AuthorID,
		article.PublishedAt,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE kb_articles SET title=$1, slug=$2, summary=$3, content=$4, category=$5, tags=$6,
            status=$7, visibility=$8, published_at=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Category,
		article.Tags,
		article.Status,
		article.Visibility,
		article.PublishedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM kb_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM kb_articles WHERE id=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, id).Scan(articleFields(&article)...); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM kb_articles WHERE slug=$1`
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, slug).Scan(articleFields(&article)...); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM kb_articles ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(articleFields(&article)...); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

func (r *articleRepository) IncrementView(ctx context.Context, id string) (int, error) {
	const query = `UPDATE kb_articles SET view_count=view_count+1 WHERE id=$1 RETURNING view_count`
	var count int
	if err := r.pool.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *articleRepository) RecordFeedback(ctx context.Context, id string, helpful bool) (int, int, error) {
	const query = `
        UPDATE kb_articles
        SET helpful_count = helpful_count + CASE WHEN $2 THEN 1 ELSE 0 END,
            not_helpful_count = not_helpful_count + CASE WHEN $2 THEN 0 ELSE 1 END
        WHERE id=$1
        RETURNING helpful_count, not_helpful_count`
	var helpfulCount, notHelpfulCount int
	if err := r.pool.QueryRow(ctx, query, id, helpful).Scan(&helpfulCount, &notHelpfulCount); err != nil {
		return 0, 0, err
	}
	return helpfulCount, notHelpfulCount, nil
}

func articleFields(a *domain.Article) []any {
	return []any{
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Summary,
		&a.Content,
		&a.Category,
		&a.Tags,
		&a.Status,
		&a.Visibility,
		&a.AuthorID,
		&a.ViewCount,
		&a.HelpfulCount,
		&a.NotHelpfulCount,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}
