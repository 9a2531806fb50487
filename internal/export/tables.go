package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/bsm-service/internal/domain"
)

// TicketTable renders tickets for download.
func TicketTable(tickets []domain.Ticket) Table {
	t := Table{Headers: []string{
		"Number", "Subject", "Status", "Priority", "Category", "Account",
		"Requester", "Assignee", "Tags", "Created At", "Updated At",
	}}
	for _, tk := range tickets {
		assignee := ""
		if tk.AssigneeID != nil {
			assignee = *tk.AssigneeID
		}
		t.Rows = append(t.Rows, []string{
			tk.Number,
			tk.Subject,
			string(tk.Status),
			string(tk.Priority),
			tk.Category,
			tk.AccountID,
			tk.RequesterID,
			assignee,
			strings.Join(tk.Tags, ";"),
			formatTime(tk.CreatedAt),
			formatTime(tk.UpdatedAt),
		})
	}
	return t
}

// AccountTable renders client accounts for download.
func AccountTable(accounts []domain.ClientAccount) Table {
	t := Table{Headers: []string{
		"Company", "Contact", "Email", "Phone", "Status", "Tier",
		"Monthly Revenue", "Services", "Satisfaction", "Open Tickets", "Total Tickets",
	}}
	for _, a := range accounts {
		t.Rows = append(t.Rows, []string{
			a.CompanyName,
			a.ContactName,
			a.ContactEmail,
			a.ContactPhone,
			string(a.Status),
			string(a.Tier),
			strconv.FormatFloat(a.MonthlyRevenue, 'f', 2, 64),
			strings.Join(a.Services, ";"),
			strconv.FormatFloat(a.SatisfactionScore, 'f', 1, 64),
			strconv.Itoa(a.OpenTickets),
			strconv.Itoa(a.TotalTickets),
		})
	}
	return t
}

// AssetTable renders assets for download.
func AssetTable(assets []domain.Asset) Table {
	t := Table{Headers: []string{
		"Tag", "Name", "Type", "Status", "Health", "Assigned To", "Location",
		"Vendor", "Cost", "Lifecycle", "Dependencies",
	}}
	for _, a := range assets {
		t.Rows = append(t.Rows, []string{
			a.Tag,
			a.Name,
			string(a.Type),
			string(a.Status),
			strconv.Itoa(a.HealthScore),
			a.AssignedTo,
			a.Location,
			a.Vendor,
			strconv.FormatFloat(a.Cost, 'f', 2, 64),
			a.LifecycleStage,
			strings.Join(a.Dependencies, ";"),
		})
	}
	return t
}

// WorkflowTable renders workflows for download.
func WorkflowTable(workflows []domain.Workflow) Table {
	t := Table{Headers: []string{
		"Name", "Status", "Steps", "Triggers", "Actions", "Runs", "Success Rate", "Last Run",
	}}
	for _, w := range workflows {
		lastRun := ""
		if w.LastRunAt != nil {
			lastRun = formatTime(*w.LastRunAt)
		}
		t.Rows = append(t.Rows, []string{
			w.Name,
			string(w.Status),
			strconv.Itoa(w.Steps),
			strings.Join(w.Triggers, ";"),
			strings.Join(w.Actions, ";"),
			strconv.Itoa(w.RunCount),
			strconv.FormatFloat(w.SuccessRate, 'f', 1, 64),
			lastRun,
		})
	}
	return t
}

// ArticleTable renders knowledge base articles for download.
func ArticleTable(articles []domain.Article) Table {
	t := Table{Headers: []string{
		"Title", "Slug", "Category", "Tags", "Status", "Visibility",
		"Views", "Helpful", "Not Helpful", "Published At", "Created At",
	}}
	for _, a := range articles {
		publishedAt := ""
		if a.PublishedAt != nil {
			publishedAt = formatTime(*a.PublishedAt)
		}
		t.Rows = append(t.Rows, []string{
			a.Title,
			a.Slug,
			a.Category,
			strings.Join(a.Tags, ";"),
			string(a.Status),
			string(a.Visibility),
			strconv.Itoa(a.ViewCount),
			strconv.Itoa(a.HelpfulCount),
			strconv.Itoa(a.NotHelpfulCount),
			publishedAt,
			formatTime(a.CreatedAt),
		})
	}
	return t
}

// MetricTable renders response-time metrics for download.
func MetricTable(metrics []domain.ResponseTimeMetric) Table {
	t := Table{Headers: []string{
		"Category", "Avg Response (h)", "Target (h)", "Trend", "Trend %",
		"Status", "Tickets", "Resolved", "SLA Compliance %",
	}}
	for _, m := range metrics {
		t.Rows = append(t.Rows, []string{
			m.Category,
			strconv.FormatFloat(m.AvgResponseTime, 'f', 2, 64),
			strconv.FormatFloat(m.TargetTime, 'f', 2, 64),
			string(m.Trend),
			strconv.FormatFloat(m.TrendPercentage, 'f', 1, 64),
			string(m.Status),
			strconv.Itoa(m.Tickets),
			strconv.Itoa(m.Resolved),
			strconv.FormatFloat(m.SLACompliance, 'f', 1, 64),
		})
	}
	return t
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
