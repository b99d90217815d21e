package service

import (
	"errors"
	"fmt"
)

// Locator outcomes, one per level at which a document can be missing
var (
	ErrNoDocuments        = errors.New("procedure has no documents")
	ErrNoMatchingCategory = errors.New("no document of the requested category")
	ErrNoDocumentLink     = errors.New("matching document carries no link")
	ErrNoText             = errors.New("no law text available")
)

// FetchError reports a transport failure or non-success HTTP status
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExtractError reports a payload that could not be turned into text
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract text from %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError reports a content type the fetcher does not handle
type UnsupportedTypeError struct {
	URL         string
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported content type %q at %s", e.ContentType, e.URL)
}

// ModelInvocationError reports a failed call to the model backend
type ModelInvocationError struct {
	Mode Mode
	Err  error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("%s analysis: model call failed: %v", e.Mode, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// ModelSchemaError reports model output that does not match the expected shape
type ModelSchemaError struct {
	Mode Mode
	Err  error
}

func (e *ModelSchemaError) Error() string {
	return fmt.Sprintf("%s analysis: invalid model output: %v", e.Mode, e.Err)
}

func (e *ModelSchemaError) Unwrap() error {
	return e.Err
}

// StatusMessage converts a pipeline error into the short text shown to the
// user. mode selects the analysis wording and may be empty for
// locate/fetch errors.
func StatusMessage(err error, mode Mode) string {
	if err == nil {
		return ""
	}

	var (
		fetchErr       *FetchError
		extractErr     *ExtractError
		unsupportedErr *UnsupportedTypeError
		invokeErr      *ModelInvocationError
		schemaErr      *ModelSchemaError
	)

	switch {
	case errors.Is(err, ErrNoDocuments):
		return "No documents available."
	case errors.Is(err, ErrNoMatchingCategory):
		return "No legislative proposals found."
	case errors.Is(err, ErrNoDocumentLink):
		return "No link to the latest proposal found."
	case errors.Is(err, ErrNoText):
		return "No valid law text available"
	case errors.As(err, &fetchErr):
		return "Could not retrieve the proposal document."
	case errors.As(err, &extractErr):
		return "Could not extract text from the proposal document."
	case errors.As(err, &unsupportedErr):
		return "The proposal document has an unsupported format."
	case errors.As(err, &invokeErr), errors.As(err, &schemaErr):
		if mode == ModeRelevance {
			return "Could not perform relevance analysis."
		}
		return "Could not perform analysis."
	default:
		return "Something went wrong."
	}
}
