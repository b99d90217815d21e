package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jjenkins/regmonitor/internal/model"
)

// Mode selects one of the two analyses
type Mode string

const (
	ModeRelevance Mode = "relevance"
	ModeTaxonomy  Mode = "taxonomy"
)

const (
	// DefaultTextBudget is the number of leading characters of the law
	// text sent to the model
	DefaultTextBudget   = 3000
	defaultModelTimeout = 60 * time.Second
)

// ErrNoStructuredOutput is returned by a Model that answered without a
// structured payload (empty content or a refusal)
var ErrNoStructuredOutput = errors.New("model returned no structured output")

// StructuredRequest is one schema-constrained model call
type StructuredRequest struct {
	Name        string
	Description string
	Schema      map[string]any
	Prompt      string
}

// Model is a language model backend that answers with JSON matching a schema
type Model interface {
	Generate(ctx context.Context, req StructuredRequest) (json.RawMessage, error)
}

// AnalysisResult holds the outcome of one analysis; exactly one of the
// result fields is set, matching Mode
type AnalysisResult struct {
	RequestID  string
	Mode       Mode
	Relevance  *model.RelevanceResult
	Predefined *model.PredefinedAnalysisResult
}

// Analyzer drives the two schema-constrained analyses
type Analyzer struct {
	model   Model
	budget  int
	timeout time.Duration
	logger  *slog.Logger
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithTextBudget sets the character budget for the law text
func WithTextBudget(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.budget = n
		}
	}
}

// WithModelTimeout bounds each model call
func WithModelTimeout(timeout time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithAnalyzerLogger sets the analyzer's logger
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates a new Analyzer backed by m
func NewAnalyzer(m Model, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		model:   m,
		budget:  DefaultTextBudget,
		timeout: defaultModelTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Truncate returns at most budget leading characters of text
func Truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == budget {
			return text[:i]
		}
		count++
	}
	return text
}

// Analyze runs the analysis selected by mode. extra is the company
// description in relevance mode and ignored in taxonomy mode.
func (a *Analyzer) Analyze(ctx context.Context, mode Mode, text, extra string) (*AnalysisResult, error) {
	switch mode {
	case ModeRelevance:
		res, id, err := a.relevance(ctx, text, extra)
		if err != nil {
			return nil, err
		}
		return &AnalysisResult{RequestID: id, Mode: mode, Relevance: res}, nil
	case ModeTaxonomy:
		res, id, err := a.taxonomy(ctx, text)
		if err != nil {
			return nil, err
		}
		return &AnalysisResult{RequestID: id, Mode: mode, Predefined: res}, nil
	default:
		return nil, fmt.Errorf("unknown analysis mode %q", mode)
	}
}

func (a *Analyzer) relevance(ctx context.Context, text, companyDescription string) (*model.RelevanceResult, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrNoText
	}

	req := StructuredRequest{
		Name:        "relevance_result",
		Description: "Result of the relevance analysis.",
		Schema:      relevanceSchema(),
		Prompt:      buildRelevancePrompt(Truncate(text, a.budget), companyDescription),
	}

	raw, id, err := a.invoke(ctx, ModeRelevance, req)
	if err != nil {
		return nil, id, err
	}

	res, err := decodeRelevance(raw)
	if err != nil {
		a.logger.Error("Invalid relevance output", "request_id", id, "error", err)
		return nil, id, &ModelSchemaError{Mode: ModeRelevance, Err: err}
	}

	a.logger.Info("Relevance analysis completed", "request_id", id, "relevant", res.IsRelevant)
	return res, id, nil
}

func (a *Analyzer) taxonomy(ctx context.Context, text string) (*model.PredefinedAnalysisResult, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", ErrNoText
	}

	req := StructuredRequest{
		Name:        "analysis_result",
		Description: "Result of the automatic analysis.",
		Schema:      taxonomySchema(),
		Prompt:      buildTaxonomyPrompt(Truncate(text, a.budget)),
	}

	raw, id, err := a.invoke(ctx, ModeTaxonomy, req)
	if err != nil {
		return nil, id, err
	}

	res, err := decodeTaxonomy(raw)
	if err != nil {
		a.logger.Error("Invalid taxonomy output", "request_id", id, "error", err)
		return nil, id, &ModelSchemaError{Mode: ModeTaxonomy, Err: err}
	}

	a.logger.Info("Taxonomy analysis completed", "request_id", id, "topics", len(res.Analyses))
	return res, id, nil
}

// invoke calls the model once; there is no retry
func (a *Analyzer) invoke(ctx context.Context, mode Mode, req StructuredRequest) (json.RawMessage, string, error) {
	id := uuid.NewString()
	a.logger.Info("Starting analysis", "request_id", id, "mode", mode, "prompt_chars", len(req.Prompt))

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.model.Generate(ctx, req)
	if err != nil {
		a.logger.Error("Model call failed", "request_id", id, "mode", mode, "error", err)
		if errors.Is(err, ErrNoStructuredOutput) {
			return nil, id, &ModelSchemaError{Mode: mode, Err: err}
		}
		return nil, id, &ModelInvocationError{Mode: mode, Err: err}
	}

	return raw, id, nil
}

// strictDecode decodes raw into v, rejecting unknown fields and trailing data
func strictDecode(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	if dec.More() {
		return errors.New("trailing data after model output")
	}
	return nil
}

func decodeRelevance(raw json.RawMessage) (*model.RelevanceResult, error) {
	var wire struct {
		IsRelevant *bool   `json:"is_relevant"`
		Reason     *string `json:"reason"`
	}
	if err := strictDecode(raw, &wire); err != nil {
		return nil, err
	}
	if wire.IsRelevant == nil {
		return nil, errors.New(`missing key "is_relevant"`)
	}
	if wire.Reason == nil || strings.TrimSpace(*wire.Reason) == "" {
		return nil, errors.New(`missing or empty key "reason"`)
	}

	return &model.RelevanceResult{
		IsRelevant: *wire.IsRelevant,
		Reason:     strings.TrimSpace(*wire.Reason),
	}, nil
}

// decodeTaxonomy validates the taxonomy output and orders the verdicts by
// taxonomy position regardless of the order the model used
func decodeTaxonomy(raw json.RawMessage) (*model.PredefinedAnalysisResult, error) {
	type topicWire struct {
		Topic    *string `json:"topic"`
		Relevant *bool   `json:"relevant"`
		Reason   *string `json:"reason"`
	}
	var wire struct {
		Summary  *string     `json:"summary"`
		Analyses []topicWire `json:"analyses"`
	}
	if err := strictDecode(raw, &wire); err != nil {
		return nil, err
	}
	if wire.Summary == nil {
		return nil, errors.New(`missing key "summary"`)
	}

	verdicts := make([]*model.TopicAnalysis, len(model.Taxonomy))
	for i, item := range wire.Analyses {
		if item.Topic == nil || item.Relevant == nil || item.Reason == nil {
			return nil, fmt.Errorf("analysis %d: missing topic, relevant or reason", i)
		}
		idx := model.TopicIndex(*item.Topic)
		if idx < 0 {
			return nil, fmt.Errorf("analysis %d: unknown topic %q", i, *item.Topic)
		}
		if verdicts[idx] != nil {
			return nil, fmt.Errorf("analysis %d: duplicate topic %q", i, model.Taxonomy[idx].Label)
		}
		verdicts[idx] = &model.TopicAnalysis{
			Topic:    model.Taxonomy[idx].Label,
			Relevant: *item.Relevant,
			Reason:   strings.TrimSpace(*item.Reason),
		}
	}

	result := &model.PredefinedAnalysisResult{
		Summary:  strings.TrimSpace(*wire.Summary),
		Analyses: make([]model.TopicAnalysis, 0, len(model.Taxonomy)),
	}
	for idx, v := range verdicts {
		if v == nil {
			return nil, fmt.Errorf("missing verdict for topic %q", model.Taxonomy[idx].Label)
		}
		result.Analyses = append(result.Analyses, *v)
	}

	return result, nil
}
