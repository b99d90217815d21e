package service

import (
	"bytes"
	"fmt"
	"mime"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ContentKind classifies a response by its declared media type
type ContentKind int

const (
	ContentUnsupported ContentKind = iota
	ContentPDF
	ContentText
)

// Parser turns fetched payloads into plain text
type Parser struct{}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// Classify maps a Content-Type header value to a ContentKind. The header is
// trusted as declared; the payload is not sniffed.
func (p *Parser) Classify(contentType string) ContentKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
		mediaType = strings.ToLower(strings.TrimSpace(mediaType))
	}

	switch mediaType {
	case "application/pdf":
		return ContentPDF
	case "text/html", "text/plain":
		return ContentText
	default:
		return ContentUnsupported
	}
}

// Extract returns the text of a payload of the given kind. HTML is passed
// through with its markup.
func (p *Parser) Extract(kind ContentKind, content []byte) (string, error) {
	switch kind {
	case ContentPDF:
		return p.extractPDF(content)
	case ContentText:
		return string(content), nil
	default:
		return "", fmt.Errorf("no extractor for content kind %d", kind)
	}
}

// extractPDF concatenates the plain text of every page in page order
func (p *Parser) extractPDF(content []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var textBuilder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		textBuilder.WriteString(pageText)
	}

	return textBuilder.String(), nil
}
