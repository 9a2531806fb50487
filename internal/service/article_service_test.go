package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
)

type memArticleRepo struct {
	seq      int
	articles map[string]domain.Article
}

func newMemArticleRepo() *memArticleRepo {
	return &memArticleRepo{articles: make(map[string]domain.Article)}
}

func (r *memArticleRepo) Create(_ context.Context, a *domain.Article) error {
	r.seq++
	a.ID = fmt.Sprintf("art-%d", r.seq)
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	r.articles[a.ID] = *a
	return nil
}

func (r *memArticleRepo) Update(_ context.Context, a *domain.Article) error {
	stored, ok := r.articles[a.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	a.ViewCount = stored.ViewCount
	a.HelpfulCount = stored.HelpfulCount
	a.NotHelpfulCount = stored.NotHelpfulCount
	a.UpdatedAt = time.Now().UTC()
	r.articles[a.ID] = *a
	return nil
}

func (r *memArticleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	return nil
}

func (r *memArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := a
	return &copied, nil
}

func (r *memArticleRepo) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug {
			copied := a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memArticleRepo) List(_ context.Context) ([]domain.Article, error) {
	out := make([]domain.Article, 0, len(r.articles))
	for _, a := range r.articles {
		out = append(out, a)
	}
	return out, nil
}

func (r *memArticleRepo) IncrementView(_ context.Context, id string) (int, error) {
	a, ok := r.articles[id]
	if !ok {
		return 0, pgx.ErrNoRows
	}
	a.ViewCount++
	r.articles[id] = a
	return a.ViewCount, nil
}

func (r *memArticleRepo) RecordFeedback(_ context.Context, id string, helpful bool) (int, int, error) {
	a, ok := r.articles[id]
	if !ok {
		return 0, 0, pgx.ErrNoRows
	}
	if helpful {
		a.HelpfulCount++
	} else {
		a.NotHelpfulCount++
	}
	r.articles[id] = a
	return a.HelpfulCount, a.NotHelpfulCount, nil
}

func newArticleFixture() (*ArticleService, *memArticleRepo, *recordingDispatcher) {
	repo := newMemArticleRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewArticleService(ArticleDependencies{
		ArticleRepo: repo,
		Dispatcher:  dispatcher,
	})
	return svc, repo, dispatcher
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"How to Reset Your Password", "how-to-reset-your-password"},
		{"  VPN   Setup (Windows 11)  ", "vpn-setup-windows-11"},
		{"déjà vu", "d-j-vu"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCreateArticleDefaults(t *testing.T) {
	svc, _, dispatcher := newArticleFixture()
	staffID := "stf-1"

	created, err := svc.CreateArticle(context.Background(), events.StaffActor(staffID), ArticleCreateInput{
		Title:    "How to Reset Your Password",
		Category: "accounts",
		AuthorID: &staffID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Slug != "how-to-reset-your-password" {
		t.Fatalf("slug = %q", created.Slug)
	}
	if created.Status != domain.ArticleStatusDraft {
		t.Fatalf("status = %s, want DRAFT", created.Status)
	}
	if created.Visibility != domain.ArticleVisibilityPublic {
		t.Fatalf("visibility = %s, want PUBLIC", created.Visibility)
	}
	if created.PublishedAt != nil {
		t.Fatal("draft must not carry a publication time")
	}
	if types := dispatcher.types(); len(types) != 1 || types[0] != events.EventArticleCreated {
		t.Fatalf("events = %v", types)
	}
}

func TestCreateArticleRejections(t *testing.T) {
	svc, _, _ := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	if _, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "   "}); err == nil {
		t.Fatal("blank title accepted")
	} else if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("blank title code = %s", code)
	}

	if _, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "VPN Setup"}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "vpn setup!"})
	if err == nil {
		t.Fatal("duplicate slug accepted")
	}
	if code := errCode(t, err); code != "CONFLICT" {
		t.Fatalf("duplicate slug code = %s", code)
	}
}

func TestUpdateArticlePublishStampsOnce(t *testing.T) {
	svc, repo, dispatcher := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	created, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "Printer Troubleshooting"})
	if err != nil {
		t.Fatal(err)
	}

	published := domain.ArticleStatusPublished
	updated, err := svc.UpdateArticle(ctx, actor, created.ID, ArticleUpdateInput{Status: &published})
	if err != nil {
		t.Fatal(err)
	}
	if updated.PublishedAt == nil {
		t.Fatal("publish must stamp the publication time")
	}
	firstStamp := *updated.PublishedAt
	if types := dispatcher.types(); types[len(types)-1] != events.EventArticlePublished {
		t.Fatalf("events = %v", types)
	}

	// archive then re-publish keeps the original stamp
	archived := domain.ArticleStatusArchived
	if _, err := svc.UpdateArticle(ctx, actor, created.ID, ArticleUpdateInput{Status: &archived}); err != nil {
		t.Fatal(err)
	}
	again, err := svc.UpdateArticle(ctx, actor, created.ID, ArticleUpdateInput{Status: &published})
	if err != nil {
		t.Fatal(err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(firstStamp) {
		t.Fatalf("republish moved the stamp: %v vs %v", again.PublishedAt, firstStamp)
	}
	if types := dispatcher.types(); types[len(types)-1] != events.EventArticleUpdated {
		t.Fatalf("republish should not re-announce publication: %v", types)
	}

	stored, _ := repo.GetByID(ctx, created.ID)
	if stored.Status != domain.ArticleStatusPublished {
		t.Fatalf("status = %s", stored.Status)
	}
}

func TestHelpSurfaceHidesUnpublished(t *testing.T) {
	svc, _, _ := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	public, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{
		Title:  "Connect to the Office VPN",
		Status: domain.ArticleStatusPublished,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "Unfinished Draft"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{
		Title:      "Escalation Playbook",
		Status:     domain.ArticleStatusPublished,
		Visibility: domain.ArticleVisibilityInternal,
	}); err != nil {
		t.Fatal(err)
	}

	visible, err := svc.ListPublished(ctx, listctl.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].ID != public.ID {
		t.Fatalf("help surface shows %d articles", len(visible))
	}

	got, err := svc.GetPublished(ctx, public.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("view count = %d, want 1", got.ViewCount)
	}

	if _, err := svc.GetPublished(ctx, "unfinished-draft"); err == nil {
		t.Fatal("draft served on help surface")
	} else if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("draft code = %s", code)
	}
	if _, err := svc.GetPublished(ctx, "escalation-playbook"); err == nil {
		t.Fatal("internal article served on help surface")
	}
}

func TestRecordFeedbackTallies(t *testing.T) {
	svc, _, _ := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	created, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{
		Title:  "Email on Your Phone",
		Status: domain.ArticleStatusPublished,
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordFeedback(ctx, created.Slug, true); err != nil {
			t.Fatal(err)
		}
	}
	feedback, err := svc.RecordFeedback(ctx, created.Slug, false)
	if err != nil {
		t.Fatal(err)
	}
	if feedback.HelpfulCount != 3 || feedback.NotHelpfulCount != 1 {
		t.Fatalf("tallies = %d/%d", feedback.HelpfulCount, feedback.NotHelpfulCount)
	}
	if feedback.HelpfulnessRate != 75 {
		t.Fatalf("rate = %v, want 75", feedback.HelpfulnessRate)
	}

	if _, err := svc.RecordFeedback(ctx, "no-such-article", true); err == nil {
		t.Fatal("feedback on unknown slug accepted")
	} else if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s", code)
	}
}

func TestDeleteArticle(t *testing.T) {
	svc, repo, dispatcher := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	created, err := svc.CreateArticle(ctx, actor, ArticleCreateInput{Title: "Obsolete Guide"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteArticle(ctx, actor, created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != pgx.ErrNoRows {
		t.Fatalf("article still stored: %v", err)
	}
	if types := dispatcher.types(); types[len(types)-1] != events.EventArticleDeleted {
		t.Fatalf("events = %v", types)
	}

	if err := svc.DeleteArticle(ctx, actor, "art-missing"); err == nil {
		t.Fatal("deleting unknown article succeeded")
	} else if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s", code)
	}
}

func TestArticleListFiltering(t *testing.T) {
	svc, _, _ := newArticleFixture()
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	seed := []ArticleCreateInput{
		{Title: "Reset Your Password", Category: "accounts", Status: domain.ArticleStatusPublished},
		{Title: "Request New Hardware", Category: "hardware"},
		{Title: "Password Policy Explained", Category: "accounts"},
	}
	for _, in := range seed {
		if _, err := svc.CreateArticle(ctx, actor, in); err != nil {
			t.Fatal(err)
		}
	}

	accounts, err := svc.ListArticles(ctx, listctl.Query{Criteria: listctl.Criteria{"category": {"accounts"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 2 {
		t.Fatalf("category filter returned %d", len(accounts))
	}

	matched, err := svc.ListArticles(ctx, listctl.Query{Text: "password"})
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 2 {
		t.Fatalf("search returned %d", len(matched))
	}

	summary, err := svc.Summary(ctx, listctl.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Total != 3 || summary.ByStatus["DRAFT"] != 2 || summary.ByCategory["accounts"] != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}
