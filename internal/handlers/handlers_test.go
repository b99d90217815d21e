package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/regmonitor/internal/model"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
)

const testType = store.DefaultProcedureType

type memorySource []model.ProcedureRecord

func (m memorySource) Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error) {
	return m, nil
}

type stubFetcher struct {
	text string
	err  error
	urls []string
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.text, f.err
}

type stubModel struct {
	response string
	err      error
	prompts  []string
}

func (m *stubModel) Generate(ctx context.Context, req service.StructuredRequest) (json.RawMessage, error) {
	m.prompts = append(m.prompts, req.Prompt)
	if m.err != nil {
		return nil, m.err
	}
	return json.RawMessage(m.response), nil
}

func strPtr(s string) *string { return &s }

func withProposal(ref, title, url string) model.ProcedureRecord {
	return model.ProcedureRecord{
		Procedure: &model.Procedure{Reference: strPtr(ref), Title: strPtr(title), Type: strPtr(testType)},
		Docs: []model.DocumentEntry{{
			Date:  strPtr("2021-01-01T00:00:00"),
			Type:  strPtr(service.DefaultDocumentCategory),
			Links: []model.DocumentLink{{Title: strPtr("COM"), URL: strPtr(url)}},
		}},
	}
}

type testApp struct {
	app     *fiber.App
	fetcher *stubFetcher
	model   *stubModel
	cookies []*http.Cookie
}

func newTestApp(t *testing.T, records []model.ProcedureRecord) *testApp {
	t.Helper()

	ta := &testApp{
		fetcher: &stubFetcher{text: "This regulation concerns data transfer..."},
		model:   &stubModel{response: `{"is_relevant":true,"reason":"It regulates data flows."}`},
	}

	pipeline := service.NewPipeline(ta.fetcher, service.NewAnalyzer(ta.model), "")
	loader := store.NewLoader(memorySource(records), testType, store.DefaultSampleSize)
	sessions := session.New()
	batches := store.NewBatches(0)

	app := fiber.New()
	app.Get("/", HomeHandler(sessions, batches, pipeline.Category(), testType))
	app.Post("/load", LoadHandler(loader, sessions, batches))
	app.Get("/procedures", ProceduresHandler(sessions, batches))
	app.Get("/procedures/*", ProcedureDetailHandler(pipeline, sessions, batches))
	app.Get("/analysis", AnalysisHandler(sessions))
	app.Post("/analysis/relevance", RelevanceHandler(pipeline, sessions))
	app.Post("/analysis/topics", TopicsHandler(pipeline, sessions))

	ta.app = app
	return ta
}

func (ta *testApp) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	for _, c := range ta.cookies {
		req.AddCookie(c)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	if cookies := resp.Cookies(); len(cookies) > 0 {
		ta.cookies = cookies
	}

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ta *testApp) get(t *testing.T, path string) (*http.Response, string) {
	return ta.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (ta *testApp) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ta.do(t, req)
}

func (ta *testApp) load(t *testing.T) {
	t.Helper()
	resp, _ := ta.post(t, "/load", nil)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestHomeWithoutBatch(t *testing.T) {
	ta := newTestApp(t, nil)

	resp, body := ta.get(t, "/")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No batch loaded yet.")
}

func TestLoadAndHome(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{
		withProposal("2021/0001(COD)", "Data Act", "http://docs/a"),
		{Procedure: &model.Procedure{Reference: strPtr("2021/0002(COD)"), Type: strPtr(testType)}},
	})

	ta.load(t)

	_, body := ta.get(t, "/")
	assert.Contains(t, body, "2 laws loaded.")
	assert.Contains(t, body, "<strong>2</strong>Laws loaded")
	assert.Contains(t, body, "<strong>1</strong>With a proposal link")
	assert.Contains(t, body, "<strong>1</strong>Documents")
}

func TestLoadEmpty(t *testing.T) {
	ta := newTestApp(t, nil)

	ta.load(t)

	_, body := ta.get(t, "/")
	assert.Contains(t, body, "No laws found.")
}

func TestLoadHTMX(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{withProposal("a", "A", "http://docs/a")})

	req := httptest.NewRequest(http.MethodPost, "/load", nil)
	req.Header.Set("HX-Request", "true")
	resp, body := ta.do(t, req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("HX-Redirect"))
	assert.Contains(t, body, "1 laws loaded.")
}

func TestProceduresPagination(t *testing.T) {
	var records []model.ProcedureRecord
	for i := 0; i < 25; i++ {
		ref := "2021/" + string(rune('A'+i)) + "(COD)"
		records = append(records, withProposal(ref, "Law "+ref, "http://docs/"+ref))
	}
	ta := newTestApp(t, records)
	ta.load(t)

	_, body := ta.get(t, "/procedures")
	assert.Contains(t, body, "<h1>Laws</h1>")
	assert.Contains(t, body, "Page 1 of 2 (25 laws)")

	req := httptest.NewRequest(http.MethodGet, "/procedures?page=2", nil)
	req.Header.Set("HX-Request", "true")
	_, body = ta.do(t, req)
	assert.NotContains(t, body, "<h1>")
	assert.Contains(t, body, `<tbody id="procedures-body">`)
	assert.Contains(t, body, "Page 2 of 2 (25 laws)")
	assert.Equal(t, 5, strings.Count(body, "<tr><td><a href="))
}

func TestProceduresWithoutBatch(t *testing.T) {
	ta := newTestApp(t, nil)

	_, body := ta.get(t, "/procedures")
	assert.Contains(t, body, "No laws found.")
}

func TestSelectAndAnalyzeRelevance(t *testing.T) {
	ref := "2021/0001(COD)"
	ta := newTestApp(t, []model.ProcedureRecord{withProposal(ref, "Data Act", "http://docs/a.pdf")})
	ta.load(t)

	resp, body := ta.get(t, "/procedures/"+url.PathEscape(ref))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Latest Proposal Link")
	assert.Contains(t, body, `href="http://docs/a.pdf"`)
	assert.Contains(t, body, "Data Act")
	assert.Equal(t, []string{"http://docs/a.pdf"}, ta.fetcher.urls)

	_, body = ta.get(t, "/analysis")
	assert.Contains(t, body, "Selected law:")
	assert.NotContains(t, body, "No valid law text available")

	_, body = ta.post(t, "/analysis/relevance", url.Values{"company": {"We are a logistics company"}})
	assert.Contains(t, body, "<strong>Relevance</strong>: Yes")
	assert.Contains(t, body, "It regulates data flows.")

	require.Len(t, ta.model.prompts, 1)
	assert.Contains(t, ta.model.prompts[0], "We are a logistics company")
	assert.Contains(t, ta.model.prompts[0], "This regulation concerns data transfer...")
}

func TestAnalyzeTopics(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{withProposal("a", "A", "http://docs/a")})
	ta.model.response = `{"summary":"About data.","analyses":[
		{"topic":"Data Protection","relevant":true,"reason":"r1"},
		{"topic":"Data Regulation","relevant":false,"reason":"r2"},
		{"topic":"Digital Products and Services","relevant":false,"reason":"r3"},
		{"topic":"Artificial Intelligence","relevant":false,"reason":"r4"},
		{"topic":"Cybersecurity","relevant":false,"reason":"r5"}]}`
	ta.load(t)
	ta.get(t, "/procedures/a")

	_, body := ta.post(t, "/analysis/topics", nil)
	assert.Contains(t, body, "About data.")
	assert.Less(t, strings.Index(body, "Data Protection"), strings.Index(body, "Cybersecurity"))
}

func TestAnalyzeWithoutSelection(t *testing.T) {
	ta := newTestApp(t, nil)

	_, body := ta.post(t, "/analysis/topics", nil)
	assert.Contains(t, body, "No valid law text available")

	_, body = ta.post(t, "/analysis/relevance", url.Values{"company": {"x"}})
	assert.Contains(t, body, "No valid law text available")
	assert.Empty(t, ta.model.prompts)
}

func TestSelectRecordWithoutDocuments(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{
		{Procedure: &model.Procedure{Reference: strPtr("nodocs"), Type: strPtr(testType)}},
	})
	ta.load(t)

	_, body := ta.get(t, "/procedures/nodocs")
	assert.Contains(t, body, "No documents available.")
	assert.Empty(t, ta.fetcher.urls)

	_, body = ta.get(t, "/analysis")
	assert.Contains(t, body, "No documents available.")

	_, body = ta.post(t, "/analysis/relevance", url.Values{"company": {"x"}})
	assert.Contains(t, body, "No valid law text available")
}

func TestSelectionReplacedOnNewSelect(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{
		withProposal("a", "A", "http://docs/a"),
		{Procedure: &model.Procedure{Reference: strPtr("b"), Type: strPtr(testType)}},
	})
	ta.load(t)

	ta.get(t, "/procedures/a")
	ta.get(t, "/procedures/b")

	_, body := ta.post(t, "/analysis/topics", nil)
	assert.Contains(t, body, "No valid law text available")
}

func TestAnalyzeModelFailure(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{withProposal("a", "A", "http://docs/a")})
	ta.model.err = errors.New("upstream unavailable")
	ta.load(t)
	ta.get(t, "/procedures/a")

	_, body := ta.post(t, "/analysis/relevance", url.Values{"company": {"x"}})
	assert.Contains(t, body, "Could not perform relevance analysis.")

	_, body = ta.post(t, "/analysis/topics", nil)
	assert.Contains(t, body, "Could not perform analysis.")
}

func TestFetchFailureKeepsLink(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{withProposal("a", "A", "http://docs/a")})
	ta.fetcher.err = &service.FetchError{URL: "http://docs/a", StatusCode: 404}
	ta.load(t)

	_, body := ta.get(t, "/procedures/a")
	assert.Contains(t, body, "Latest Proposal Link")

	_, body = ta.get(t, "/analysis")
	assert.Contains(t, body, "Could not retrieve the proposal document.")
}

func TestProcedureDetailUnknown(t *testing.T) {
	ta := newTestApp(t, []model.ProcedureRecord{withProposal("a", "A", "http://docs/a")})
	ta.load(t)

	resp, _ := ta.get(t, "/procedures/missing")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProcedureDetailWithoutBatch(t *testing.T) {
	ta := newTestApp(t, nil)

	resp, _ := ta.get(t, "/procedures/a")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}
