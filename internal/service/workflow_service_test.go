package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
)

type memWorkflowRepo struct {
	seq       int
	runSeq    int
	workflows map[string]domain.Workflow
	runs      []domain.WorkflowRun
}

func newMemWorkflowRepo() *memWorkflowRepo {
	return &memWorkflowRepo{workflows: make(map[string]domain.Workflow)}
}

func (r *memWorkflowRepo) Create(_ context.Context, w *domain.Workflow) error {
	r.seq++
	w.ID = fmt.Sprintf("wf-%d", r.seq)
	w.CreatedAt = time.Now().UTC()
	w.UpdatedAt = w.CreatedAt
	r.workflows[w.ID] = *w
	return nil
}

func (r *memWorkflowRepo) Update(_ context.Context, w *domain.Workflow) error {
	if _, ok := r.workflows[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	w.UpdatedAt = time.Now().UTC()
	r.workflows[w.ID] = *w
	return nil
}

func (r *memWorkflowRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.workflows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.workflows, id)
	return nil
}

func (r *memWorkflowRepo) GetByID(_ context.Context, id string) (*domain.Workflow, error) {
	w, ok := r.workflows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := w
	return &copied, nil
}

func (r *memWorkflowRepo) List(_ context.Context) ([]domain.Workflow, error) {
	out := make([]domain.Workflow, 0, len(r.workflows))
	for _, w := range r.workflows {
		out = append(out, w)
	}
	return out, nil
}

func (r *memWorkflowRepo) CreateRun(_ context.Context, run *domain.WorkflowRun) error {
	r.runSeq++
	run.ID = fmt.Sprintf("run-%d", r.runSeq)
	run.CreatedAt = time.Now().UTC()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *memWorkflowRepo) ListRuns(_ context.Context, workflowID string, limit int) ([]domain.WorkflowRun, error) {
	out := make([]domain.WorkflowRun, 0)
	for _, run := range r.runs {
		if run.WorkflowID == workflowID {
			out = append(out, run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memWorkflowRepo) RunStats(_ context.Context, workflowID string) (int, int, error) {
	var total, successes int
	for _, run := range r.runs {
		if run.WorkflowID != workflowID || run.Status == domain.RunStatusSkipped {
			continue
		}
		total++
		if run.Status == domain.RunStatusSuccess {
			successes++
		}
	}
	return total, successes, nil
}

func newWorkflowFixture() (*WorkflowService, *memWorkflowRepo, *recordingDispatcher) {
	repo := newMemWorkflowRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewWorkflowService(WorkflowDependencies{
		WorkflowRepo: repo,
		Dispatcher:   dispatcher,
	})
	return svc, repo, dispatcher
}

func activeWorkflow(t *testing.T, svc *WorkflowService, repo *memWorkflowRepo) *domain.Workflow {
	t.Helper()
	created, err := svc.CreateWorkflow(context.Background(), events.StaffActor("stf-1"), WorkflowCreateInput{
		Name:  "nightly backup",
		Steps: 3,
	})
	if err != nil {
		t.Fatal(err)
	}
	created.Status = domain.WorkflowStatusActive
	if err := repo.Update(context.Background(), created); err != nil {
		t.Fatal(err)
	}
	return created
}

func TestRecordRunSuccessRateFromRunRows(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	wf := activeWorkflow(t, svc, repo)
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	outcomes := []struct {
		status   domain.WorkflowRunStatus
		wantRuns int
		wantRate float64
	}{
		{domain.RunStatusSuccess, 1, 100},
		{domain.RunStatusSuccess, 2, 100},
		{domain.RunStatusFailed, 3, float64(2) / 3 * 100},
	}
	for _, o := range outcomes {
		if _, err := svc.RecordRun(ctx, actor, wf.ID, o.status, "", 120); err != nil {
			t.Fatalf("record %s: %v", o.status, err)
		}
		stored, _ := repo.GetByID(ctx, wf.ID)
		if stored.RunCount != o.wantRuns {
			t.Fatalf("run count after %s = %d, want %d", o.status, stored.RunCount, o.wantRuns)
		}
		if stored.SuccessRate != o.wantRate {
			t.Fatalf("success rate after %s = %v, want %v", o.status, stored.SuccessRate, o.wantRate)
		}
	}

	stored, _ := repo.GetByID(ctx, wf.ID)
	if stored.Status != domain.WorkflowStatusError {
		t.Fatalf("failed run should mark workflow ERROR, got %s", stored.Status)
	}
	if stored.LastRunAt == nil {
		t.Fatal("last run not stamped")
	}
}

func TestRecordRunSkippedLeavesStatsAlone(t *testing.T) {
	svc, repo, _ := newWorkflowFixture()
	wf := activeWorkflow(t, svc, repo)
	ctx := context.Background()
	actor := events.StaffActor("stf-1")

	if _, err := svc.RecordRun(ctx, actor, wf.ID, domain.RunStatusSuccess, "", 50); err != nil {
		t.Fatal(err)
	}
	before, _ := repo.GetByID(ctx, wf.ID)

	if _, err := svc.RecordRun(ctx, actor, wf.ID, domain.RunStatusSkipped, "maintenance window", 0); err != nil {
		t.Fatalf("skipped run: %v", err)
	}
	after, _ := repo.GetByID(ctx, wf.ID)
	if after.RunCount != before.RunCount || after.SuccessRate != before.SuccessRate {
		t.Fatalf("skipped run moved stats: %+v vs %+v", after, before)
	}
	runs, _ := repo.ListRuns(ctx, wf.ID, 0)
	if len(runs) != 2 {
		t.Fatalf("skipped run not audited: %d rows", len(runs))
	}
}

func TestRecordRunRequiresActiveWorkflow(t *testing.T) {
	svc, _, _ := newWorkflowFixture()
	created, err := svc.CreateWorkflow(context.Background(), events.StaffActor("stf-1"), WorkflowCreateInput{
		Name: "draft flow",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.RecordRun(context.Background(), events.StaffActor("stf-1"), created.ID, domain.RunStatusSuccess, "", 10)
	if err == nil {
		t.Fatal("run against a draft workflow should fail")
	}
	if code := errCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s", code)
	}

	// skipped runs may still be audited
	if _, err := svc.RecordRun(context.Background(), events.StaffActor("stf-1"), created.ID, domain.RunStatusSkipped, "", 0); err != nil {
		t.Fatalf("skipped run on draft: %v", err)
	}
}
