package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jjenkins/regmonitor/internal/model"
)

// FileSource reads procedure records from a local JSON file holding either
// a JSON array or one JSON object per line
type FileSource struct {
	path string
}

// NewFileSource creates a new FileSource
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Load reads the file and returns the records of procedureType. Malformed
// records are logged and skipped.
func (s *FileSource) Load(ctx context.Context, procedureType string) ([]model.ProcedureRecord, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records file: %w", err)
	}
	defer file.Close()

	records, err := DecodeRecords(ctx, file)
	if err != nil {
		return nil, err
	}

	return filterByType(records, procedureType), nil
}

// DecodeRecords decodes records from r line by line. Each line holds one
// record, optionally wrapped in the brackets and commas of a JSON array
// written one element per line. A line that fails to decode is logged and
// skipped without affecting the lines after it.
func DecodeRecords(ctx context.Context, r io.Reader) ([]model.ProcedureRecord, error) {
	br := bufio.NewReader(r)

	var records []model.ProcedureRecord
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read records: %w", readErr)
		}

		records = decodeLine(records, lineNo, line)

		if readErr != nil {
			break
		}
	}

	return records, nil
}

// trimArrayLine strips the array syntax surrounding the elements on a line
func trimArrayLine(line []byte) []byte {
	line = bytes.TrimSpace(line)
	line = bytes.TrimPrefix(line, []byte("["))
	line = bytes.TrimSuffix(line, []byte("]"))
	line = bytes.TrimSpace(line)
	line = bytes.TrimPrefix(line, []byte(","))
	line = bytes.TrimSuffix(line, []byte(","))
	return bytes.TrimSpace(line)
}

// decodeLine appends the records found on one line. A line usually holds a
// single element; a compact array keeps every element decoded before the
// first syntax error on its line.
func decodeLine(records []model.ProcedureRecord, lineNo int, line []byte) []model.ProcedureRecord {
	body := trimArrayLine(line)
	if len(body) == 0 {
		return records
	}

	wrapped := make([]byte, 0, len(body)+2)
	wrapped = append(wrapped, '[')
	wrapped = append(wrapped, body...)
	wrapped = append(wrapped, ']')

	dec := json.NewDecoder(bytes.NewReader(wrapped))
	if _, err := dec.Token(); err != nil {
		slog.Warn("Skipping malformed record", "error", &DataLoadError{Position: lineNo, Err: err})
		return records
	}

	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			slog.Warn("Skipping malformed record", "error", &DataLoadError{Position: lineNo, Err: err})
			return records
		}

		var rec model.ProcedureRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			slog.Warn("Skipping malformed record", "error", &DataLoadError{Position: lineNo, Err: err})
			continue
		}
		records = append(records, rec)
	}

	return records
}
