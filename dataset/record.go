// Package dataset exports training records pairing query inputs with
// their structured answers, one JSON record per line.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitraarka27/Meteo-Chat/core"
)

// RecordInput is the raw query context of one training example. Plan
// and execute result are kept verbatim so unknown planner fields
// survive the round trip.
type RecordInput struct {
	Place         string          `json:"place"`
	TimeMode      core.TimeMode   `json:"time_mode"`
	Plan          json.RawMessage `json:"plan"`
	ExecuteResult json.RawMessage `json:"execute_result"`
	TimestampUTC  string          `json:"timestamp_utc"`
}

// Record is one JSONL training example.
type Record struct {
	System string                `json:"system"`
	Input  RecordInput           `json:"input"`
	Output core.StructuredAnswer `json:"output"`
}

// JSONLWriter appends records to a stream, one JSON object per line.
// Safe for concurrent use.
type JSONLWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	count  int
}

// NewJSONLWriter wraps an existing stream.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: w}
}

// Create opens path for writing, creating parent directories.
func Create(path string) (*JSONLWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create dataset directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create dataset file: %w", err)
	}
	return &JSONLWriter{w: f, closer: f}, nil
}

// Append writes one record as a single line.
func (w *JSONLWriter) Append(rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records appended.
func (w *JSONLWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file when the writer owns one.
func (w *JSONLWriter) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
