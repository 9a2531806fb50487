package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

type memTicketRepo struct {
	seq     int
	tickets map[string]domain.Ticket
	order   []string
}

func newMemTicketRepo() *memTicketRepo {
	return &memTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *memTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.seq++
	t.ID = fmt.Sprintf("tck-%d", r.seq)
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	r.tickets[t.ID] = *t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *memTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := r.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	t.UpdatedAt = time.Now().UTC()
	r.tickets[t.ID] = *t
	return nil
}

func (r *memTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := t
	return &copied, nil
}

func (r *memTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tickets[id])
	}
	return out, nil
}

func (r *memTicketRepo) ListByAccount(ctx context.Context, accountID string) ([]domain.Ticket, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Ticket, 0)
	for _, t := range all {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTicketRepo) ListByRequester(ctx context.Context, userID string) ([]domain.Ticket, error) {
	all, _ := r.List(ctx)
	out := make([]domain.Ticket, 0)
	for _, t := range all {
		if t.RequesterID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memAccountRepo struct {
	accounts map[string]domain.ClientAccount
}

func (r *memAccountRepo) Create(_ context.Context, a *domain.ClientAccount) error {
	r.accounts[a.ID] = *a
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, a *domain.ClientAccount) error {
	if _, ok := r.accounts[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[a.ID] = *a
	return nil
}

func (r *memAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.ClientAccount, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := a
	return &copied, nil
}

func (r *memAccountRepo) List(_ context.Context) ([]domain.ClientAccount, error) {
	out := make([]domain.ClientAccount, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

type memStaffRepo struct {
	staff map[string]domain.StaffMember
}

func (r *memStaffRepo) Create(_ context.Context, s *domain.StaffMember) error {
	r.staff[s.ID] = *s
	return nil
}

func (r *memStaffRepo) Update(_ context.Context, s *domain.StaffMember) error {
	if _, ok := r.staff[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.staff[s.ID] = *s
	return nil
}

func (r *memStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	s, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := s
	return &copied, nil
}

func (r *memStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, s := range r.staff {
		if s.Email == email {
			copied := s
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memAttachmentRepo struct {
	seq     int
	records []domain.AttachmentReference
}

func (r *memAttachmentRepo) Create(_ context.Context, a *domain.AttachmentReference) error {
	r.seq++
	a.ID = fmt.Sprintf("att-%d", r.seq)
	a.CreatedAt = time.Now().UTC()
	r.records = append(r.records, *a)
	return nil
}

func (r *memAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.AttachmentReference, error) {
	out := make([]domain.AttachmentReference, 0)
	for _, a := range r.records {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
func (d *recordingDispatcher) SubscribeAll(events.EventHandler)                {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}

type ticketFixture struct {
	svc         *TicketService
	tickets     *memTicketRepo
	accounts    *memAccountRepo
	staff       *memStaffRepo
	attachments *memAttachmentRepo
	dispatcher  *recordingDispatcher
}

func newTicketFixture() *ticketFixture {
	tickets := newMemTicketRepo()
	accounts := &memAccountRepo{accounts: map[string]domain.ClientAccount{
		"acc-1": {ID: "acc-1", CompanyName: "Acme", Status: domain.AccountStatusActive, Tier: domain.AccountTierGold},
		"acc-2": {ID: "acc-2", CompanyName: "Frozen Co", Status: domain.AccountStatusSuspended, Tier: domain.AccountTierBronze},
	}}
	staff := &memStaffRepo{staff: map[string]domain.StaffMember{
		"stf-1": {ID: "stf-1", Name: "Agent One", Role: domain.StaffRoleAgent, Active: true},
		"stf-2": {ID: "stf-2", Name: "Gone Agent", Role: domain.StaffRoleAgent, Active: false},
	}}
	attachments := &memAttachmentRepo{}
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:     tickets,
		AttachmentRepo: attachments,
		AccountRepo:    accounts,
		StaffRepo:      staff,
		Dispatcher:     dispatcher,
	})
	return &ticketFixture{
		svc:         svc,
		tickets:     tickets,
		accounts:    accounts,
		staff:       staff,
		attachments: attachments,
		dispatcher:  dispatcher,
	}
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	return domainErr.Code
}

func TestCreateTicketDefaults(t *testing.T) {
	fx := newTicketFixture()

	ticket, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "  VPN down  ",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("priority = %s", ticket.Priority)
	}
	if ticket.Subject != "VPN down" {
		t.Fatalf("subject not trimmed: %q", ticket.Subject)
	}
	if !strings.HasPrefix(ticket.Number, "TCK-") || len(ticket.Number) != 12 {
		t.Fatalf("number = %q", ticket.Number)
	}
	if got := fx.dispatcher.types(); len(got) != 1 || got[0] != events.EventTicketCreated {
		t.Fatalf("published = %v", got)
	}
}

func TestCreateTicketRejections(t *testing.T) {
	tests := []struct {
		name     string
		input    TicketCreateInput
		wantCode string
	}{
		{"unknown account", TicketCreateInput{AccountID: "acc-9", Subject: "x"}, "NOT_FOUND"},
		{"suspended account", TicketCreateInput{AccountID: "acc-2", Subject: "x"}, "CONFLICT"},
		{"blank subject", TicketCreateInput{AccountID: "acc-1", Subject: "   "}, "VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newTicketFixture()
			_, err := fx.svc.CreateTicket(context.Background(), "user-1", tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := errCode(t, err); code != tt.wantCode {
				t.Fatalf("code = %s, want %s", code, tt.wantCode)
			}
			if len(fx.tickets.tickets) != 0 {
				t.Fatal("ticket should not be stored")
			}
		})
	}
}

func TestUpdateTicketPatchesOnlyGivenFields(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID:   "acc-1",
		Subject:     "Slow email",
		Description: "everything is slow",
		Priority:    domain.TicketPriorityHigh,
	})
	if err != nil {
		t.Fatal(err)
	}

	subject := "Slow email for whole office"
	updated, err := fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Subject: &subject,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Subject != subject {
		t.Fatalf("subject = %q", updated.Subject)
	}
	if updated.Description != "everything is slow" || updated.Priority != domain.TicketPriorityHigh {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if updated.Status != domain.TicketStatusOpen {
		t.Fatalf("status changed without input: %s", updated.Status)
	}

	types := fx.dispatcher.types()
	if types[len(types)-1] != events.EventTicketUpdated {
		t.Fatalf("published = %v", types)
	}
	for _, et := range types {
		if et == events.EventTicketStatusChanged {
			t.Fatal("status change event published without a status change")
		}
	}
}

func TestUpdateTicketStatusLifecycle(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "Server down",
	})
	if err != nil {
		t.Fatal(err)
	}

	resolved := domain.TicketStatusResolved
	updated, err := fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Status: &resolved,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if updated.Status != domain.TicketStatusResolved || updated.ResolvedAt == nil {
		t.Fatalf("resolved ticket = %+v", updated)
	}

	types := fx.dispatcher.types()
	var sawStatusChange bool
	for _, et := range types {
		if et == events.EventTicketStatusChanged {
			sawStatusChange = true
		}
	}
	if !sawStatusChange {
		t.Fatalf("no status change event in %v", types)
	}

	closed := domain.TicketStatusClosed
	if _, err := fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Status: &closed,
	}); err != nil {
		t.Fatalf("close: %v", err)
	}

	open := domain.TicketStatusOpen
	_, err = fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Status: &open,
	})
	if err == nil {
		t.Fatal("reopening a closed ticket should fail")
	}
	if code := errCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s", code)
	}
	stored, _ := fx.tickets.GetByID(context.Background(), created.ID)
	if stored.Status != domain.TicketStatusClosed {
		t.Fatalf("rejected transition persisted: %s", stored.Status)
	}
}

func TestUpdateTicketRejectedTransitionLeavesFieldsUntouched(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID:   "acc-1",
		Subject:     "Monitor flickers",
		Description: "intermittent",
	})
	if err != nil {
		t.Fatal(err)
	}
	closed := domain.TicketStatusClosed
	if _, err := fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Status: &closed,
	}); err != nil {
		t.Fatalf("close: %v", err)
	}
	eventsBefore := len(fx.dispatcher.published)

	subject := "Changed subject"
	priority := domain.TicketPriorityUrgent
	open := domain.TicketStatusOpen
	_, err = fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), created.ID, TicketUpdateInput{
		Subject:  &subject,
		Priority: &priority,
		Status:   &open,
	})
	if err == nil {
		t.Fatal("mixed patch with invalid transition should fail")
	}
	if code := errCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s", code)
	}

	stored, _ := fx.tickets.GetByID(context.Background(), created.ID)
	if stored.Subject != "Monitor flickers" {
		t.Fatalf("rejected patch persisted subject: %q", stored.Subject)
	}
	if stored.Priority != domain.TicketPriorityMedium {
		t.Fatalf("rejected patch persisted priority: %s", stored.Priority)
	}
	if stored.Status != domain.TicketStatusClosed {
		t.Fatalf("rejected patch moved status: %s", stored.Status)
	}
	if len(fx.dispatcher.published) != eventsBefore {
		t.Fatalf("rejected patch published events: %v", fx.dispatcher.types())
	}
}

func TestUpdateTicketMissing(t *testing.T) {
	fx := newTicketFixture()
	subject := "anything"
	_, err := fx.svc.UpdateTicket(context.Background(), events.StaffActor("stf-1"), "tck-999", TicketUpdateInput{
		Subject: &subject,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s", code)
	}
}

func TestAssignTicket(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "Laptop replacement",
	})
	if err != nil {
		t.Fatal(err)
	}

	assignee := "stf-1"
	updated, err := fx.svc.AssignTicket(context.Background(), events.StaffActor("stf-1"), created.ID, &assignee)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.AssigneeID == nil || *updated.AssigneeID != "stf-1" {
		t.Fatalf("assignee = %v", updated.AssigneeID)
	}
	if updated.FirstResponseAt == nil {
		t.Fatal("first assignment should stamp first response")
	}
	firstResponse := *updated.FirstResponseAt

	// reassignment keeps the original first-response stamp
	updated, err = fx.svc.AssignTicket(context.Background(), events.StaffActor("stf-1"), created.ID, &assignee)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if !updated.FirstResponseAt.Equal(firstResponse) {
		t.Fatalf("first response moved: %v vs %v", updated.FirstResponseAt, firstResponse)
	}

	inactive := "stf-2"
	if _, err := fx.svc.AssignTicket(context.Background(), events.StaffActor("stf-1"), created.ID, &inactive); err == nil {
		t.Fatal("assigning to inactive staff should fail")
	} else if code := errCode(t, err); code != "CONFLICT" {
		t.Fatalf("code = %s", code)
	}

	unknown := "stf-9"
	if _, err := fx.svc.AssignTicket(context.Background(), events.StaffActor("stf-1"), created.ID, &unknown); err == nil {
		t.Fatal("assigning to unknown staff should fail")
	} else if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s", code)
	}
}

func TestDeleteTicket(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "Duplicate request",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := fx.svc.DeleteTicket(context.Background(), events.StaffActor("stf-1"), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := fx.tickets.GetByID(context.Background(), created.ID); err != pgx.ErrNoRows {
		t.Fatalf("ticket still present: %v", err)
	}
	types := fx.dispatcher.types()
	if types[len(types)-1] != events.EventTicketDeleted {
		t.Fatalf("published = %v", types)
	}

	err = fx.svc.DeleteTicket(context.Background(), events.StaffActor("stf-1"), created.ID)
	if err == nil {
		t.Fatal("deleting twice should fail")
	}
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s", code)
	}
}

func TestGetTicketForUserOwnership(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "Password reset",
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := fx.svc.GetTicketForUser(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	_, _, err = fx.svc.GetTicketForUser(context.Background(), "user-2", created.ID)
	if err == nil {
		t.Fatal("other user should not see the ticket")
	}
	if code := errCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("code = %s", code)
	}
}

func TestAddAttachments(t *testing.T) {
	fx := newTicketFixture()
	created, err := fx.svc.CreateTicket(context.Background(), "user-1", TicketCreateInput{
		AccountID: "acc-1",
		Subject:   "Crash report",
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := fx.svc.AddAttachments(context.Background(), created.ID, []AttachmentInput{
		{StorageKey: "k1", FileName: "trace.txt", MimeType: "text/plain", SizeBytes: 512},
		{StorageKey: "k2", FileName: "screen.png", MimeType: "image/png", SizeBytes: 2048},
	})
	if err != nil {
		t.Fatalf("add attachments: %v", err)
	}
	if len(records) != 2 || records[0].TicketID != created.ID {
		t.Fatalf("records = %+v", records)
	}

	_, err = fx.svc.AddAttachments(context.Background(), created.ID, []AttachmentInput{
		{StorageKey: "k3", FileName: "virus.exe", MimeType: "application/x-msdownload", SizeBytes: 10},
	})
	if err == nil {
		t.Fatal("disallowed type should fail")
	}
	if code := errCode(t, err); code != "VALIDATION_FAILED" {
		t.Fatalf("code = %s", code)
	}
	if len(fx.attachments.records) != 2 {
		t.Fatalf("rejected batch was stored: %d records", len(fx.attachments.records))
	}
}

func TestTicketSummary(t *testing.T) {
	fx := newTicketFixture()
	ctx := context.Background()
	for _, in := range []TicketCreateInput{
		{AccountID: "acc-1", Subject: "one", Priority: domain.TicketPriorityHigh},
		{AccountID: "acc-1", Subject: "two", Priority: domain.TicketPriorityHigh},
		{AccountID: "acc-1", Subject: "three"},
	} {
		if _, err := fx.svc.CreateTicket(ctx, "user-1", in); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := fx.svc.Summary(ctx, listctl.Query{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d", summary.Total)
	}
	if summary.ByStatus["OPEN"] != 3 {
		t.Fatalf("by status = %v", summary.ByStatus)
	}
	if summary.ByPriority["HIGH"] != 2 || summary.ByPriority["MEDIUM"] != 1 {
		t.Fatalf("by priority = %v", summary.ByPriority)
	}
}
