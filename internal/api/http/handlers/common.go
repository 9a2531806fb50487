package handlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bsm-service/internal/export"
	"github.com/spec-kit/bsm-service/internal/listctl"
	apperrors "github.com/spec-kit/bsm-service/pkg/util"
)

// parseListQuery builds a list query from request parameters. Free text comes
// from "q", sorting from "sort" and "order", and each named criterion field
// from a comma-separated parameter of the same name.
func parseListQuery(c *fiber.Ctx, criterionFields ...string) listctl.Query {
	q := listctl.Query{
		Text:    c.Query("q"),
		SortKey: c.Query("sort"),
		Desc:    strings.EqualFold(c.Query("order"), "desc"),
	}
	criteria := listctl.Criteria{}
	for _, field := range criterionFields {
		raw := c.Query(field)
		if raw == "" {
			continue
		}
		var values []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
		if len(values) > 0 {
			criteria[field] = values
		}
	}
	if len(criteria) > 0 {
		q.Criteria = criteria
	}
	return q
}

// sendExport writes the table in the requested format. Supported formats are
// csv (default) and xlsx.
func sendExport(c *fiber.Ctx, name string, table export.Table) error {
	format := strings.ToLower(c.Query("format", "csv"))
	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, table); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".csv"))
	case "xlsx":
		if err := export.WriteXLSX(&buf, name, table); err != nil {
			return apperrors.NewInternalError(err)
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	default:
		return apperrors.NewValidationError("unsupported export format", map[string]any{"format": format})
	}
	return c.Send(buf.Bytes())
}
