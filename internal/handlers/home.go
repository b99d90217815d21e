package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
	"github.com/jjenkins/regmonitor/internal/templates"
)

// BatchLoader loads a fresh batch of records
type BatchLoader interface {
	Load(ctx context.Context) (*store.RecordSet, error)
}

func HomeHandler(sessions *session.Store, batches *store.Batches, category, procedureType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		metrics := templates.HomeMetrics{
			ProcedureType: procedureType,
			Status:        sessionString(sess, keyStatus),
		}

		if set := currentBatch(sess, batches); set != nil {
			m := service.CalculateMetrics(set.All(), category)
			metrics.TotalRecords = m.TotalRecords
			metrics.WithDocuments = m.WithDocuments
			metrics.WithProposal = m.WithProposal
			metrics.WithProposalLink = m.WithProposalLink
			metrics.TotalDocuments = m.TotalDocuments
			metrics.HasData = m.HasData
			if !m.LatestUpdate.IsZero() {
				metrics.LatestUpdate = m.LatestUpdate.Format("2006-01-02")
			}
		}

		page := templates.Home(metrics)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

// LoadHandler loads a new batch into the visitor's session. The previous
// selection is discarded.
func LoadHandler(loader BatchLoader, sessions *session.Store, batches *store.Batches) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		var status string
		set, err := loader.Load(c.UserContext())
		switch {
		case err != nil:
			slog.Error("Error loading laws", "error", err)
			status = "Could not load laws."
		case set.Len() == 0:
			status = "No laws found."
		default:
			status = fmt.Sprintf("%d laws loaded.", set.Len())
		}

		if err == nil {
			sess.Set(keyBatchID, batches.Put(set))
			clearSelection(sess)
		}
		sess.Set(keyStatus, status)
		if err := sess.Save(); err != nil {
			slog.Error("Error saving session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error saving session")
		}

		if isHTMX(c) {
			c.Set("HX-Redirect", "/")
			handler := adaptor.HTTPHandler(templ.Handler(templates.LoadStatus(status)))
			return handler(c)
		}
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}
