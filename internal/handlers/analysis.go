package handlers

import (
	"log/slog"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/regmonitor/internal/format"
	"github.com/jjenkins/regmonitor/internal/render"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/templates"
)

func AnalysisHandler(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		view := templates.AnalysisView{
			Reference: sessionString(sess, keyReference),
			LinkURL:   sessionString(sess, keyLinkURL),
			Status:    sessionString(sess, keySelStatus),
			HasText:   sessionString(sess, keyLawText) != "",
		}
		if view.Reference != "" && !view.HasText && view.Status == "" {
			view.Status = service.StatusMessage(service.ErrNoText, "")
		}

		page := templates.Analysis(view)
		handler := adaptor.HTTPHandler(templ.Handler(page))

		return handler(c)
	}
}

func RelevanceHandler(pipeline *service.Pipeline, sessions *session.Store) fiber.Handler {
	return analysisAction(pipeline, sessions, service.ModeRelevance, func(c *fiber.Ctx) string {
		return c.FormValue("company")
	})
}

func TopicsHandler(pipeline *service.Pipeline, sessions *session.Store) fiber.Handler {
	return analysisAction(pipeline, sessions, service.ModeTaxonomy, func(*fiber.Ctx) string {
		return ""
	})
}

// analysisAction runs one analysis over the visitor's stored law text and
// renders the result fragment. Failures render as a status line.
func analysisAction(pipeline *service.Pipeline, sessions *session.Store, mode service.Mode, extra func(*fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessions.Get(c)
		if err != nil {
			slog.Error("Error loading session", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading session")
		}

		result, err := pipeline.Analyze(c.UserContext(), mode, sessionString(sess, keyLawText), extra(c))
		if err != nil {
			slog.Warn("Analysis failed", "mode", mode, "reference", sessionString(sess, keyReference), "error", err)
			return renderResult(c, "", service.StatusMessage(err, mode))
		}

		var markdown string
		switch mode {
		case service.ModeRelevance:
			markdown = format.Relevance(result.Relevance)
		default:
			markdown = format.Topics(result.Predefined)
		}

		html, err := render.Markdown(markdown)
		if err != nil {
			slog.Error("Error rendering analysis", "request_id", result.RequestID, "error", err)
			return renderResult(c, "", service.StatusMessage(err, mode))
		}

		slog.Info("Analysis completed", "mode", mode, "request_id", result.RequestID)
		return renderResult(c, html, "")
	}
}

func renderResult(c *fiber.Ctx, html, status string) error {
	page := templates.AnalysisResult(html, status)
	handler := adaptor.HTTPHandler(templ.Handler(page))
	return handler(c)
}
