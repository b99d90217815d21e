package service

import (
	"context"
	"log/slog"

	"github.com/jjenkins/regmonitor/internal/model"
)

// TextFetcher retrieves a document and returns its plain text
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Selection is the state of one record selection: the located proposal
// link and its extracted text. A new selection replaces the previous one.
type Selection struct {
	Reference string
	Link      *Link
	Text      string
	// Err is the locate or fetch failure, nil when Text is usable
	Err error
}

// HasText reports whether the selection carries analysable text
func (s *Selection) HasText() bool {
	return s != nil && s.Err == nil && s.Text != ""
}

// Pipeline wires the document locator, the content fetcher and the
// structured analyzer together
type Pipeline struct {
	fetcher  TextFetcher
	analyzer *Analyzer
	category string
	logger   *slog.Logger
}

// NewPipeline creates a new Pipeline. An empty category selects
// DefaultDocumentCategory.
func NewPipeline(fetcher TextFetcher, analyzer *Analyzer, category string) *Pipeline {
	if category == "" {
		category = DefaultDocumentCategory
	}
	return &Pipeline{
		fetcher:  fetcher,
		analyzer: analyzer,
		category: category,
		logger:   slog.Default(),
	}
}

// Category returns the document category the pipeline looks for
func (p *Pipeline) Category() string {
	return p.category
}

// LocateLatestDocument finds the latest document link of the configured category
func (p *Pipeline) LocateLatestDocument(record *model.ProcedureRecord) (Link, error) {
	return LocateLatestDocument(record, p.category)
}

// FetchText retrieves the text behind url
func (p *Pipeline) FetchText(ctx context.Context, url string) (string, error) {
	return p.fetcher.FetchText(ctx, url)
}

// Analyze runs one analysis over text
func (p *Pipeline) Analyze(ctx context.Context, mode Mode, text, extra string) (*AnalysisResult, error) {
	return p.analyzer.Analyze(ctx, mode, text, extra)
}

// Select locates the latest proposal of record and fetches its text
func (p *Pipeline) Select(ctx context.Context, record *model.ProcedureRecord) *Selection {
	sel := &Selection{Reference: record.Reference()}

	link, err := p.LocateLatestDocument(record)
	if err != nil {
		p.logger.Warn("No proposal document located", "reference", sel.Reference, "error", err)
		sel.Err = err
		return sel
	}
	sel.Link = &link

	text, err := p.FetchText(ctx, link.URL)
	if err != nil {
		sel.Err = err
		return sel
	}
	if text == "" {
		sel.Err = ErrNoText
		return sel
	}

	sel.Text = text
	p.logger.Info("Stored law text for analysis", "reference", sel.Reference, "url", link.URL)
	return sel
}
