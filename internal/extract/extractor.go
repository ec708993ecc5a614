// Package extract turns category page HTML into kanji records.
//
// The selector is a contract with the markup of one site and can break
// without notice when the site changes; it is configured, not hardcoded.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/JakeFAU/kanji-crawler/internal/kanji"
)

// ParseError reports a page whose markup could not be traversed.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Extractor applies a fixed selector to page bodies.
type Extractor struct {
	selector goquery.Matcher
}

// New compiles selector once for every page of the run.
func New(selector string) (*Extractor, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}
	return &Extractor{selector: m}, nil
}

// Extract returns the records found in body, in document order. Anchors with
// blank text or no href are skipped. The level of every record is the last
// path segment of sourceURL.
func (e *Extractor) Extract(body []byte, sourceURL string) ([]kanji.Record, error) {
	return e.ExtractFrom(bytes.NewReader(body), sourceURL)
}

// ExtractFrom is Extract over a reader.
func (e *Extractor) ExtractFrom(r io.Reader, sourceURL string) ([]kanji.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{URL: sourceURL, Err: err}
	}

	level := kanji.LevelOf(sourceURL)
	records := []kanji.Record{}
	doc.FindMatcher(e.selector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		href, _ := s.Attr("href")
		if text == "" || href == "" {
			return
		}
		records = append(records, kanji.Record{
			Kanji: text,
			URL:   href,
			Level: level,
		})
	})
	return records, nil
}
