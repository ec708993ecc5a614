// Package kanji defines the targets and records produced by a scrape run.
package kanji
