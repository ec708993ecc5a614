// Package output serializes a run's records into a timestamped JSON artifact.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JakeFAU/kanji-crawler/internal/kanji"
	"github.com/JakeFAU/kanji-crawler/internal/storage"
)

// ContentType of the written artifact.
const ContentType = "application/json; charset=utf-8"

// Clock supplies the timestamp embedded in the artifact name.
type Clock interface {
	Now() time.Time
}

// Writer persists the full result set as one JSON document.
type Writer struct {
	store storage.BlobStore
	clock Clock
}

// NewWriter builds a Writer over store.
func NewWriter(store storage.BlobStore, clock Clock) *Writer {
	return &Writer{store: store, clock: clock}
}

// FileName returns the artifact name for a run finished at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("kanji_data_%s.json", t.Format("20060102_150405"))
}

// Encode renders records as an indented JSON array. Non-ASCII glyphs and
// HTML-significant characters are written verbatim; a nil slice encodes as [].
func Encode(records []kanji.Record) ([]byte, error) {
	if records == nil {
		records = []kanji.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes records and stores them under a name stamped with the
// current time. It returns the URI of the stored artifact. No retry is made.
func (w *Writer) Write(ctx context.Context, records []kanji.Record) (string, error) {
	payload, err := Encode(records)
	if err != nil {
		return "", err
	}
	name := FileName(w.clock.Now())
	uri, err := w.store.PutObject(ctx, name, ContentType, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return uri, nil
}
