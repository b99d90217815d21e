package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjenkins/regmonitor/internal/model"
)

func strPtr(s string) *string { return &s }

func doc(date, category string, links ...model.DocumentLink) model.DocumentEntry {
	d := model.DocumentEntry{Type: strPtr(category), Links: links}
	if date != "" {
		d.Date = strPtr(date)
	}
	return d
}

func link(title, url string) model.DocumentLink {
	l := model.DocumentLink{Title: strPtr(title)}
	if url != "" {
		l.URL = strPtr(url)
	}
	return l
}

func TestLocateLatestDocument(t *testing.T) {
	t.Run("picks most recent proposal", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2020-01-01T00:00:00", "Legislative proposal", link("old", "http://a")),
			doc("2021-06-01T00:00:00", "Legislative proposal", link("new", "http://b")),
			doc("2022-01-01T00:00:00", "Committee report", link("report", "http://c")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://b", got.URL)
		assert.Equal(t, "new", got.Title)
		assert.Equal(t, "2021-06-01T00:00:00", got.Date)
	})

	t.Run("no documents", func(t *testing.T) {
		_, err := LocateLatestDocument(&model.ProcedureRecord{}, DefaultDocumentCategory)
		assert.ErrorIs(t, err, ErrNoDocuments)

		_, err = LocateLatestDocument(nil, DefaultDocumentCategory)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("empty docs for any category", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{}}
		for _, category := range []string{"", "Legislative proposal", "anything"} {
			_, err := LocateLatestDocument(rec, category)
			assert.ErrorIs(t, err, ErrNoDocuments)
		}
	})

	t.Run("category mismatch", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2020-01-01T00:00:00", "Committee report", link("r", "http://a")),
			doc("2020-01-01T00:00:00", "legislative proposal", link("p", "http://b")),
		}}

		_, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		assert.ErrorIs(t, err, ErrNoMatchingCategory)
	})

	t.Run("latest has no link", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2020-01-01T00:00:00", "Legislative proposal", link("old", "http://a")),
			doc("2021-01-01T00:00:00", "Legislative proposal", link("no url", "")),
		}}

		_, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		assert.ErrorIs(t, err, ErrNoDocumentLink)
	})

	t.Run("first link with url wins", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2021-01-01T00:00:00", "Legislative proposal", link("summary", ""), link("COM", "http://com"), link("annex", "http://annex")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://com", got.URL)
	})

	t.Run("ties keep first entry", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2021-01-01T00:00:00", "Legislative proposal", link("first", "http://first")),
			doc("2021-01-01T00:00:00", "Legislative proposal", link("second", "http://second")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://first", got.URL)
	})

	t.Run("undated entries rank last", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("", "Legislative proposal", link("undated", "http://undated")),
			doc("someday", "Legislative proposal", link("garbage", "http://garbage")),
			doc("2019-05-05", "Legislative proposal", link("dated", "http://dated")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://dated", got.URL)
	})

	t.Run("only undated entries keep order", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("", "Legislative proposal", link("a", "http://a")),
			doc("n/a", "Legislative proposal", link("b", "http://b")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://a", got.URL)
	})

	t.Run("mixed layouts compare by instant", func(t *testing.T) {
		rec := &model.ProcedureRecord{Docs: []model.DocumentEntry{
			doc("2021-03-01", "Legislative proposal", link("date only", "http://date")),
			doc("2021-03-02T10:00:00Z", "Legislative proposal", link("rfc3339", "http://rfc")),
		}}

		got, err := LocateLatestDocument(rec, DefaultDocumentCategory)
		require.NoError(t, err)
		assert.Equal(t, "http://rfc", got.URL)
	})
}

func TestParseTimestamp(t *testing.T) {
	_, ok := ParseTimestamp(nil)
	assert.False(t, ok)

	_, ok = ParseTimestamp(strPtr("01/02/2020"))
	assert.False(t, ok)

	ts, ok := ParseTimestamp(strPtr("2020-01-02T03:04:05"))
	require.True(t, ok)
	assert.Equal(t, 2020, ts.Year())
	assert.Equal(t, 3, ts.Hour())
}
