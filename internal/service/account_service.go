package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/bsm-service/internal/domain"
	"github.com/spec-kit/bsm-service/internal/events"
	"github.com/spec-kit/bsm-service/internal/listctl"
	"github.com/spec-kit/bsm-service/internal/repository"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

var accountSchema = listctl.Schema[domain.ClientAccount]{
	Searchable: []func(domain.ClientAccount) string{
		func(a domain.ClientAccount) string { return a.CompanyName },
		func(a domain.ClientAccount) string { return a.ContactName },
		func(a domain.ClientAccount) string { return a.ContactEmail },
	},
	Fields: map[string]listctl.FieldFunc[domain.ClientAccount]{
		"status": func(a domain.ClientAccount) (string, bool) { return string(a.Status), true },
		"tier":   func(a domain.ClientAccount) (string, bool) { return string(a.Tier), true },
	},
	Sorts: map[string]listctl.SortField[domain.ClientAccount]{
		"company":      {Kind: listctl.SortString, String: func(a domain.ClientAccount) string { return a.CompanyName }},
		"revenue":      {Kind: listctl.SortNumber, Number: func(a domain.ClientAccount) float64 { return a.MonthlyRevenue }},
		"satisfaction": {Kind: listctl.SortNumber, Number: func(a domain.ClientAccount) float64 { return a.SatisfactionScore }},
		"created_at":   {Kind: listctl.SortTime, Time: func(a domain.ClientAccount) time.Time { return a.CreatedAt }},
	},
}

// AccountService manages client accounts.
type AccountService struct {
	accounts   repository.AccountRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:   deps.AccountRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// AccountCreateInput describes account creation payload.
type AccountCreateInput struct {
	CompanyName       string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	Status            domain.AccountStatus
	Tier              domain.AccountTier
	MonthlyRevenue    float64
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Services          []string
	SatisfactionScore float64
}

// AccountUpdateInput carries optional field updates.
type AccountUpdateInput struct {
	CompanyName       *string
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	Status            *domain.AccountStatus
	Tier              *domain.AccountTier
	MonthlyRevenue    *float64
	ContractStart     *time.Time
	ContractEnd       *time.Time
	Services          *[]string
	SatisfactionScore *float64
}

// AccountSummary aggregates the visible account set.
type AccountSummary struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"by_status"`
	ByTier          map[string]int `json:"by_tier"`
	MonthlyRevenue  float64        `json:"monthly_revenue"`
	AvgSatisfaction float64        `json:"avg_satisfaction"`
}

// CreateAccount registers a new client account.
func (s *AccountService) CreateAccount(ctx context.Context, actor events.Actor, input AccountCreateInput) (*domain.ClientAccount, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, apperrors.NewValidationError("company name is required", nil)
	}

	account := &domain.ClientAccount{
		CompanyName:       name,
		ContactName:       strings.TrimSpace(input.ContactName),
		ContactEmail:      strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		ContactPhone:      strings.TrimSpace(input.ContactPhone),
		Status:            input.Status,
		Tier:              input.Tier,
		MonthlyRevenue:    input.MonthlyRevenue,
		ContractStart:     input.ContractStart,
		ContractEnd:       input.ContractEnd,
		Services:          input.Services,
		SatisfactionScore: input.SatisfactionScore,
	}
	if account.Status == "" {
		account.Status = domain.AccountStatusProspect
	}
	if account.Tier == "" {
		account.Tier = domain.AccountTierBronze
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAccountCreated,
		Resource: events.ResourceAccount,
		Action:   events.ActionCreated,
		EntityID: account.ID,
		Actor:    actor,
	})
	return account, nil
}

// ListAccounts returns accounts filtered through the list controller, with
// ticket counts attached.
func (s *AccountService) ListAccounts(ctx context.Context, q listctl.Query) ([]domain.ClientAccount, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachTicketCounts(ctx, accounts); err != nil {
		return nil, err
	}
	return listctl.Visible(accountSchema, accounts, q), nil
}

// GetAccount fetches one account with ticket counts.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.ClientAccount, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.TotalTickets = len(tickets)
	for _, t := range tickets {
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			account.OpenTickets++
		}
	}
	return account, nil
}

// Summary tallies the accounts visible under the query.
func (s *AccountService) Summary(ctx context.Context, q listctl.Query) (*AccountSummary, error) {
	visible, err := s.ListAccounts(ctx, q)
	if err != nil {
		return nil, err
	}
	summary := &AccountSummary{
		Total:          len(visible),
		ByStatus:       listctl.CountBy(visible, func(a domain.ClientAccount) string { return string(a.Status) }),
		ByTier:         listctl.CountBy(visible, func(a domain.ClientAccount) string { return string(a.Tier) }),
		MonthlyRevenue: listctl.SumBy(visible, func(a domain.ClientAccount) float64 { return a.MonthlyRevenue }),
	}
	if len(visible) > 0 {
		total := listctl.SumBy(visible, func(a domain.ClientAccount) float64 { return a.SatisfactionScore })
		summary.AvgSatisfaction = total / float64(len(visible))
	}
	return summary, nil
}

// UpdateAccount applies the patch to one account through the mutation
// sequencer.
func (s *AccountService) UpdateAccount(ctx context.Context, actor events.Actor, id string, input AccountUpdateInput) (*domain.ClientAccount, error) {
	coll := &storeCollection[*domain.ClientAccount]{
		ctx:    ctx,
		get:    s.accounts.GetByID,
		update: s.accounts.Update,
		remove: s.accounts.Delete,
	}
	updated, err := sequencedSave(coll, s.logger, id, func(a *domain.ClientAccount) *domain.ClientAccount {
		if input.CompanyName != nil {
			a.CompanyName = strings.TrimSpace(*input.CompanyName)
		}
		if input.ContactName != nil {
			a.ContactName = strings.TrimSpace(*input.ContactName)
		}
		if input.ContactEmail != nil {
			a.ContactEmail = strings.ToLower(strings.TrimSpace(*input.ContactEmail))
		}
		if input.ContactPhone != nil {
			a.ContactPhone = strings.TrimSpace(*input.ContactPhone)
		}
		if input.Status != nil {
			a.Status = *input.Status
		}
		if input.Tier != nil {
			a.Tier = *input.Tier
		}
		if input.MonthlyRevenue != nil {
			a.MonthlyRevenue = *input.MonthlyRevenue
		}
		if input.ContractStart != nil {
			a.ContractStart = input.ContractStart
		}
		if input.ContractEnd != nil {
			a.ContractEnd = input.ContractEnd
		}
		if input.Services != nil {
			a.Services = *input.Services
		}
		if input.SatisfactionScore != nil {
			a.SatisfactionScore = *input.SatisfactionScore
		}
		return a
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAccountUpdated,
		Resource: events.ResourceAccount,
		Action:   events.ActionUpdated,
		EntityID: updated.ID,
		Actor:    actor,
	})
	return updated, nil
}

// DeleteAccount removes one account through the mutation sequencer. Accounts
// with tickets on file cannot be removed.
func (s *AccountService) DeleteAccount(ctx context.Context, actor events.Actor, id string) error {
	tickets, err := s.tickets.ListByAccount(ctx, id)
	if err != nil {
		return err
	}
	if len(tickets) > 0 {
		return apperrors.NewConflict("account has tickets on file", map[string]any{"tickets": len(tickets)})
	}

	coll := &storeCollection[*domain.ClientAccount]{
		ctx:    ctx,
		get:    s.accounts.GetByID,
		update: s.accounts.Update,
		remove: s.accounts.Delete,
	}
	if err := sequencedDelete(coll, s.logger, id); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:     events.EventAccountDeleted,
		Resource: events.ResourceAccount,
		Action:   events.ActionDeleted,
		EntityID: id,
		Actor:    actor,
	})
	return nil
}

func (s *AccountService) attachTicketCounts(ctx context.Context, accounts []domain.ClientAccount) error {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return err
	}
	total := make(map[string]int, len(accounts))
	open := make(map[string]int, len(accounts))
	for _, t := range tickets {
		total[t.AccountID]++
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			open[t.AccountID]++
		}
	}
	for i := range accounts {
		accounts[i].TotalTickets = total[accounts[i].ID]
		accounts[i].OpenTickets = open[accounts[i].ID]
	}
	return nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
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
