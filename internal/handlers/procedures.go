package handlers

import (
	"log/slog"
	"net/url"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/regmonitor/internal/format"
	"github.com/jjenkins/regmonitor/internal/render"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
	"github.com/jjenkins/regmonitor/internal/templates"
)

const pageSize = 20

func ProceduresHandler(sessions *session.Store, batches *store.Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		var records []store.RecordSummary
		if set := currentBatch(sess, batches); set != nil {
			records = set.Summaries()
		}

		list := paginate(records, c.QueryInt("page", 1))

		// Check if this is an HTMX request for just the table body
		if isHTMX(c) {
			page := templates.ProceduresTableBody(list)
			handler := adaptor.HTTPHandler(templ.Handler(page))
			return handler(c)
		}

		page := templates.Procedures(list)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

func paginate(records []store.RecordSummary, page int) templates.ProcedureList {
	total := len(records)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	rows := make([]templates.ProcedureRow, 0, end-start)
	for _, r := range records[start:end] {
		rows = append(rows, templates.ProcedureRow{
			Reference: r.Reference,
			Title:     r.Title,
			Stage:     r.Stage,
		})
	}

	return templates.ProcedureList{
		Rows:       rows,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// ProcedureDetailHandler shows a record and makes it the visitor's
// selection: the latest proposal is located and its text fetched for the
// analysis tab.
func ProcedureDetailHandler(pipeline *service.Pipeline, sessions *session.Store, batches *store.Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := url.PathUnescape(c.Params("*"))
		if err != nil || ref == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid reference")
		}

		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		set := currentBatch(sess, batches)
		if set == nil {
			return c.Redirect("/", fiber.StatusSeeOther)
		}
		record, ok := set.Get(ref)
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("Could not load details.")
		}

		sel := pipeline.Select(c.UserContext(), record)
		storeSelection(sess, sel)
		if err := sess.Save(); err != nil {
			slog.Error("Error saving session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error saving session")
		}

		linkURL := ""
		if sel.Link != nil {
			linkURL = sel.Link.URL
		}
		status := service.StatusMessage(sel.Err, "")
		if sel.Link != nil {
			// the link is still shown when fetching it failed
			status = ""
		}

		details, err := render.Markdown(format.Record(record) + format.ProposalLink(linkURL, status))
		if err != nil {
			slog.Error("Error rendering details", "reference", ref, "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Could not load details.")
		}

		page := templates.ProcedureDetail(ref, details)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}
